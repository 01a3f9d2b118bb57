package analyzer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"competitor-radar/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicAnalyzer_AnalyzeReleases(t *testing.T) {
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	analyzer := NewHeuristicAnalyzer()

	tests := []struct {
		name     string
		releases []*domain.RawRelease
		verify   func(*testing.T, []*domain.ReleaseSummary, []string, []string)
	}{
		{
			name: "从发布说明中提取新特性和破坏性变更",
			releases: []*domain.RawRelease{
				{
					Tag:         "v2.0.0",
					Body:        "Added new feature: dark mode\nBreaking: removed legacy config",
					PublishedAt: now,
				},
			},
			verify: func(t *testing.T, summaries []*domain.ReleaseSummary, features []string, breaking []string) {
				assert.Equal(t, 1, len(summaries))
				assert.Equal(t, "v2.0.0", summaries[0].Version)
				assert.Equal(t, "2025-08-18", summaries[0].Date)

				assert.Equal(t, 1, len(features))
				assert.Contains(t, features[0], "dark mode")
				assert.Equal(t, 1, len(breaking))
				assert.Contains(t, breaking[0], "removed legacy config")
			},
		},
		{
			name: "草稿 Release 被跳过",
			releases: []*domain.RawRelease{
				{Tag: "v3.0.0-draft", Body: "Added new everything", PublishedAt: now, Draft: true},
				{Tag: "v2.1.0", Body: "Implemented faster builds", PublishedAt: now},
			},
			verify: func(t *testing.T, summaries []*domain.ReleaseSummary, features []string, breaking []string) {
				assert.Equal(t, 1, len(summaries))
				assert.Equal(t, "v2.1.0", summaries[0].Version)
				assert.Equal(t, 1, len(features))
			},
		},
		{
			name: "正文为空的 Release 不贡献任何内容",
			releases: []*domain.RawRelease{
				{Tag: "v1.0.1", Body: "", PublishedAt: now},
			},
			verify: func(t *testing.T, summaries []*domain.ReleaseSummary, features []string, breaking []string) {
				assert.Equal(t, 1, len(summaries))
				assert.Empty(t, summaries[0].Description)
				assert.Empty(t, features)
				assert.Empty(t, breaking)
			},
		},
		{
			name: "没有 tag 的 Release 版本显示为 Unknown",
			releases: []*domain.RawRelease{
				{Body: "something", PublishedAt: now},
			},
			verify: func(t *testing.T, summaries []*domain.ReleaseSummary, features []string, breaking []string) {
				assert.Equal(t, "Unknown", summaries[0].Version)
			},
		},
		{
			name:     "空输入",
			releases: nil,
			verify: func(t *testing.T, summaries []*domain.ReleaseSummary, features []string, breaking []string) {
				assert.Empty(t, summaries)
				assert.Empty(t, features)
				assert.Empty(t, breaking)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summaries, features, breaking := analyzer.AnalyzeReleases(tt.releases)
			tt.verify(t, summaries, features, breaking)
		})
	}
}

func TestHeuristicAnalyzer_AnalyzeReleases_Caps(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	// 10 个 Release，每个正文塞满匹配行，验证上限不被突破
	var releases []*domain.RawRelease
	for i := 0; i < 10; i++ {
		body := fmt.Sprintf(
			"Added new widget %d\nNew toolbar %d\nAnother new thing %d\nBreaking change %d\nDeprecated API %d\nRemoved flag %d",
			i, i, i, i, i, i)
		releases = append(releases, &domain.RawRelease{
			Tag:  fmt.Sprintf("v1.%d.0", i),
			Body: body,
		})
	}

	_, features, breaking := analyzer.AnalyzeReleases(releases)

	assert.LessOrEqual(t, len(features), 5)
	assert.LessOrEqual(t, len(breaking), 3)
}

func TestHeuristicAnalyzer_AnalyzeReleases_Dedupe(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	// 两个 Release 写了同一条特性，去重后只保留一条
	releases := []*domain.RawRelease{
		{Tag: "v1.0.0", Body: "Added dark mode"},
		{Tag: "v1.1.0", Body: "Added dark mode"},
	}

	_, features, _ := analyzer.AnalyzeReleases(releases)
	assert.Equal(t, []string{"added dark mode"}, features)
}

func TestEllipsize(t *testing.T) {
	long := strings.Repeat("x", 250)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "短文本原样返回", input: "short", expected: "short"},
		{name: "超长文本截断并加省略号", input: long, expected: strings.Repeat("x", 200) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ellipsize(tt.input, descriptionBudget))
		})
	}
}
