package analyzer

import (
	"strings"

	"competitor-radar/internal/domain"
)

const (
	descriptionBudget  = 200 // 摘要展示长度，超出部分截断并加省略号
	linesPerRelease    = 2   // 每个 Release 最多贡献 2 条匹配行
	maxKeyFeatures     = 5   // 去重后新特性上限
	maxBreakingChanges = 3   // 去重后破坏性变更上限
)

// AnalyzeReleases 逐条扫描发布说明，提取摘要、新特性行和破坏性变更行
// 草稿 Release 跳过；正文为空的 Release 不贡献任何内容，也不报错
func (a *HeuristicAnalyzer) AnalyzeReleases(releases []*domain.RawRelease) ([]*domain.ReleaseSummary, []string, []string) {
	var summaries []*domain.ReleaseSummary
	var featureLines []string
	var breakingLines []string

	for _, release := range releases {
		if release.Draft {
			continue
		}

		summaries = append(summaries, &domain.ReleaseSummary{
			Version:     versionOf(release),
			Date:        dateOf(release),
			Description: ellipsize(release.Body, descriptionBudget),
		})

		body := strings.ToLower(release.Body)
		featureLines = append(featureLines, matchingLines(body, a.featureKeywords, linesPerRelease)...)
		breakingLines = append(breakingLines, matchingLines(body, a.breakingKeywords, linesPerRelease)...)
	}

	features := dedupeAndCap(featureLines, maxKeyFeatures)
	breaking := dedupeAndCap(breakingLines, maxBreakingChanges)
	return summaries, features, breaking
}

func versionOf(release *domain.RawRelease) string {
	if release.Tag == "" {
		return "Unknown"
	}
	return release.Tag
}

func dateOf(release *domain.RawRelease) string {
	if release.PublishedAt.IsZero() {
		return ""
	}
	return release.PublishedAt.Format("2006-01-02")
}

// ellipsize 截断到展示预算，截断过的文本加省略号后缀
func ellipsize(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget]) + "..."
}

// matchingLines 返回正文中包含任一关键词的前 limit 行 (去掉首尾空白)
func matchingLines(body string, keywords []string, limit int) []string {
	var matched []string
	for _, line := range strings.Split(body, "\n") {
		if containsAny(strings.ToLower(line), keywords) {
			matched = append(matched, strings.TrimSpace(line))
			if len(matched) >= limit {
				break
			}
		}
	}
	return matched
}

func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

// dedupeAndCap 按首次出现顺序去重，并把结果封顶到 limit 条
func dedupeAndCap(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}
	return out
}
