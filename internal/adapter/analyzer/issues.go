package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"competitor-radar/internal/domain"
)

const (
	maxPatterns        = 5 // 高频词模式上限
	maxCriticalBugs    = 5 // 暴露的 Bug 标题上限
	maxFeatureRequests = 5 // 暴露的需求标题上限
	minTokenLength     = 5 // 短于这个长度的词不参与词频统计
)

// 提取标题中的连续字母数字串 (下划线按单词字符处理)
var tokenPattern = regexp.MustCompile(`\w+`)

// AnalyzeIssues 对 Issue 列表做两件事：
//  1. 按标签/标题关键词分类出 Bug 和需求 (两个判定互相独立，可同时命中)
//  2. 统计标题高频词，挖掘"反复出现的问题模式"
//
// 空输入返回三个空结果，不报错
func (a *HeuristicAnalyzer) AnalyzeIssues(issues []*domain.RawIssue) ([]*domain.IssuePattern, []string, []string) {
	if len(issues) == 0 {
		return nil, nil, nil
	}

	var bugs []string
	var requests []string

	// 词频表 + 首次出现顺序，保证同频词的排序稳定
	counts := make(map[string]int)
	var firstSeen []string

	for _, issue := range issues {
		title := strings.ToLower(issue.Title)

		if a.matchLabel(issue.Labels, a.bugLabels) || containsAny(title, a.bugTitleWords) {
			bugs = append(bugs, issue.Title)
		}
		if a.matchLabel(issue.Labels, a.featureLabels) || containsAny(title, a.featureTitleWords) {
			requests = append(requests, issue.Title)
		}

		for _, token := range tokenPattern.FindAllString(title, -1) {
			if len(token) < minTokenLength || a.isStopToken(token) {
				continue
			}
			if counts[token] == 0 {
				firstSeen = append(firstSeen, token)
			}
			counts[token]++
		}
	}

	patterns := topPatterns(counts, firstSeen)
	return patterns, capStrings(bugs, maxCriticalBugs), capStrings(requests, maxFeatureRequests)
}

// matchLabel 标签是否命中词表 (大小写不敏感的全等匹配)
func (a *HeuristicAnalyzer) matchLabel(labels []string, table []string) bool {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, word := range table {
			if lower == word {
				return true
			}
		}
	}
	return false
}

func (a *HeuristicAnalyzer) isStopToken(token string) bool {
	for _, stop := range a.stopTokens {
		if token == stop {
			return true
		}
	}
	return false
}

// topPatterns 取出现次数最多的前 5 个词，只保留次数 > 1 的
// 同频词按首次出现顺序排列 (稳定排序)
func topPatterns(counts map[string]int, firstSeen []string) []*domain.IssuePattern {
	ranked := make([]string, len(firstSeen))
	copy(ranked, firstSeen)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	var patterns []*domain.IssuePattern
	for _, token := range ranked {
		if len(patterns) >= maxPatterns {
			break
		}
		if counts[token] <= 1 {
			// 排序是降序的，后面只会更小
			break
		}
		patterns = append(patterns, &domain.IssuePattern{
			Pattern: capitalize(token),
			Count:   counts[token],
		})
	}
	return patterns
}

// capitalize 首字母大写，用于展示
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func capStrings(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
