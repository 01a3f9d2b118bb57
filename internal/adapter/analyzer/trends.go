package analyzer

import (
	"fmt"
	"sort"

	"competitor-radar/internal/domain"
)

const maxTrends = 3 // 趋势和共性问题各最多 3 条

// AggregateTrends 汇总全部仓库的分析结果，产出跨仓库趋势
//
// 每个仓库的特性列表内部已去重，所以全局出现次数 > 1 的特性
// 一定来自多个仓库。完全没有共性时使用兜底趋势 (可通过 Option 关闭)，
// 共性问题列表则允许为空。
func (a *HeuristicAnalyzer) AggregateTrends(analyses []*domain.RepoAnalysis) ([]string, []string) {
	featureCounts := newOrderedCounter()
	issueCounts := newOrderedCounter()

	for _, analysis := range analyses {
		for _, feature := range analysis.KeyFeatures {
			featureCounts.add(feature)
		}
		for _, pattern := range analysis.RecurringIssues {
			issueCounts.add(pattern.Pattern)
		}
	}

	var trends []string
	for _, feature := range featureCounts.recurringTop(maxTrends) {
		trends = append(trends, fmt.Sprintf("Common focus: %s", feature))
	}
	if len(trends) == 0 && a.fallbackTrends != nil {
		trends = append(trends, a.fallbackTrends...)
	}

	var commonIssues []string
	for _, pattern := range issueCounts.recurringTop(maxTrends) {
		commonIssues = append(commonIssues, fmt.Sprintf("Industry-wide: %s issues", pattern))
	}

	return trends, commonIssues
}

// orderedCounter 记录首次插入顺序的计数器，保证同频条目排序稳定
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if c.counts[key] == 0 {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// recurringTop 返回出现次数 > 1 的前 limit 个条目，按次数降序
func (c *orderedCounter) recurringTop(limit int) []string {
	ranked := make([]string, len(c.order))
	copy(ranked, c.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.counts[ranked[i]] > c.counts[ranked[j]]
	})

	var out []string
	for _, key := range ranked {
		if len(out) >= limit || c.counts[key] <= 1 {
			break
		}
		out = append(out, key)
	}
	return out
}
