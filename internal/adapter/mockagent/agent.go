package mockagent

import (
	"context"
	"time"

	"competitor-radar/internal/domain"
)

// Agent 是 port.Agent 的离线假实现，用于没有 API Key 的演示和测试
// 它遵守和真实智能体完全相同的契约：输入原始数据，输出结构化对象
type Agent struct {
	nowFunc func() time.Time
}

func NewAgent() *Agent {
	return &Agent{nowFunc: time.Now}
}

// AnalyzeCompetitor 返回一份固定结构的演示分析
func (m *Agent) AnalyzeCompetitor(ctx context.Context, projectName string, bundle *domain.Bundle) (*domain.RepoAnalysis, error) {
	analysis := &domain.RepoAnalysis{
		ProjectName: projectName,
		KeyFeatures: []string{
			"React Server Components",
			"App Router improvements",
		},
		RecurringIssues: []*domain.IssuePattern{
			{Pattern: "Performance", Count: 3},
			{Pattern: "Hydration", Count: 2},
		},
	}

	// 有真实抓取数据时至少把数量带上，让演示报告不至于全是假数
	if bundle != nil {
		analysis.TotalIssues = len(bundle.Issues)
		for _, release := range bundle.Releases {
			if release.Draft {
				continue
			}
			analysis.RecentReleases = append(analysis.RecentReleases, &domain.ReleaseSummary{
				Version:     release.Tag,
				Date:        release.PublishedAt.Format("2006-01-02"),
				Description: release.Body,
			})
		}
	}

	return analysis, nil
}

// GenerateReport 返回一份固定趋势和建议的演示周报
func (m *Agent) GenerateReport(ctx context.Context, analyses []*domain.RepoAnalysis) (*domain.WeeklyReport, error) {
	return &domain.WeeklyReport{
		ReportDate: m.nowFunc().Format("2006-01-02"),
		Analyses:   analyses,
		IndustryTrends: []string{
			"Server-side rendering adoption",
			"Performance focus",
		},
		Recommendations: []string{
			"Monitor React ecosystem",
			"Evaluate build tools",
		},
	}, nil
}
