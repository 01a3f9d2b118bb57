package port

import (
	"context"

	"competitor-radar/internal/domain"
)

// Fetcher (侦察兵): 负责从 GitHub 抓取单个仓库的 Release 和 Issue 数据
// 抓取失败时返回空 Bundle + 错误，调用方把空数据当作"该仓库本轮没有情报"
type Fetcher interface {
	FetchRepoData(ctx context.Context, ref domain.RepoRef) (*domain.Bundle, error)
}

// Analyzer (分析师): 脚本化启发式分析，不依赖任何外部服务
type Analyzer interface {
	// AnalyzeReleases 从发布说明中提取摘要、新特性、破坏性变更
	AnalyzeReleases(releases []*domain.RawRelease) (summaries []*domain.ReleaseSummary, features []string, breaking []string)

	// AnalyzeIssues 按标签/关键词分类 Issue，并挖掘标题高频词模式
	AnalyzeIssues(issues []*domain.RawIssue) (patterns []*domain.IssuePattern, bugs []string, requests []string)

	// AggregateTrends 汇总多个仓库的分析结果，输出跨仓库趋势和共性问题
	AggregateTrends(analyses []*domain.RepoAnalysis) (trends []string, commonIssues []string)
}

// Agent (情报官): 生成式智能体变体，Prompt 进、结构化对象出
// 离线测试时由 mockagent 包提供同一契约的假实现，核心流程不感知差别
type Agent interface {
	// AnalyzeCompetitor 让智能体分析单个仓库的原始数据
	AnalyzeCompetitor(ctx context.Context, projectName string, bundle *domain.Bundle) (*domain.RepoAnalysis, error)

	// GenerateReport 让智能体基于全部分析结果生成整份周报 (趋势 + 建议)
	GenerateReport(ctx context.Context, analyses []*domain.RepoAnalysis) (*domain.WeeklyReport, error)
}

// ReportCache (档案管理员): 按周存取报告
// Get 未命中时返回 (nil, nil)；Put 总是追加新行，不覆盖历史周
type ReportCache interface {
	Get(ctx context.Context, weekKey string) (*domain.WeeklyReport, error)
	Put(ctx context.Context, weekKey string, report *domain.WeeklyReport) error
}

// Notifier (信使): 把整份周报推送出去 (飞书卡片)
type Notifier interface {
	Notify(ctx context.Context, report *domain.WeeklyReport) error
}
