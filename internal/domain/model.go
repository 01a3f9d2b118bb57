package domain

import "time"

// RepoRef 标识一个竞品仓库，来自配置，例如 vercel/next.js
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName 返回 owner/name 形式的仓库全名
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// Competitor 监控清单里的一个竞品：展示名 + 仓库标识
type Competitor struct {
	DisplayName string  `json:"display_name"`
	Ref         RepoRef `json:"ref"`
}

// RawRelease GitHub Release 原始数据 (正文已在抓取层截断，控制下游 Token 成本)
type RawRelease struct {
	Tag         string    `json:"tag_name"`
	Title       string    `json:"name"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Draft       bool      `json:"draft"`
}

// RawIssue GitHub Issue 原始数据 (正文截断，标签数量封顶)
type RawIssue struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Labels    []string  `json:"labels"`
	State     string    `json:"state"` // open / closed
	CreatedAt time.Time `json:"created_at"`
}

// Bundle 单个仓库一次抓取的全部数据
// 抓取失败时为两个空列表，下游把它当作"没有数据"处理而不是错误
type Bundle struct {
	Releases []*RawRelease `json:"releases"`
	Issues   []*RawIssue   `json:"issues"`
}

// IsEmpty 判断是否没有任何可分析的数据
func (b *Bundle) IsEmpty() bool {
	return b == nil || (len(b.Releases) == 0 && len(b.Issues) == 0)
}

// ReleaseSummary 一条被分析过的发布记录
type ReleaseSummary struct {
	Version     string `json:"version"`
	Date        string `json:"date"` // YYYY-MM-DD
	Description string `json:"description"`
}

// IssuePattern Issue 标题中的高频词模式
// 约束：只保留出现次数 > 1 的词，Count 永远 >= 2
type IssuePattern struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// RepoAnalysis 单个仓库的完整分析结果，生命周期 = 一次报告生成
type RepoAnalysis struct {
	ProjectName     string            `json:"project_name"`
	RecentReleases  []*ReleaseSummary `json:"recent_releases"`
	KeyFeatures     []string          `json:"key_features"`     // 去重后最多 5 条
	BreakingChanges []string          `json:"breaking_changes"` // 去重后最多 3 条
	RecurringIssues []*IssuePattern   `json:"recurring_issues"` // 最多 5 条
	CriticalBugs    []string          `json:"critical_bugs"`    // 最多 5 条
	FeatureRequests []string          `json:"feature_requests"` // 最多 5 条
	TotalIssues     int               `json:"total_issues"`
}

// WeeklyReport 每周竞品情报报告，组装完成后不可变
type WeeklyReport struct {
	ReportDate      string          `json:"report_date"` // YYYY-MM-DD
	Analyses        []*RepoAnalysis `json:"analyses"`
	IndustryTrends  []string        `json:"industry_trends"`
	CommonIssues    []string        `json:"common_issues"`
	Recommendations []string        `json:"recommendations"`
}

// CachedReport 报告缓存表的一行，按周追加，不覆盖历史周
type CachedReport struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	WeekKey   string    `json:"week_key" gorm:"index"` // 例如 2025-W34
	Payload   string    `json:"payload" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
