package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"competitor-radar/internal/common"
	"competitor-radar/internal/domain"
	"competitor-radar/internal/port"
)

// 每个仓库的抓取+分析预算，防止单个仓库拖死整轮
const perRepoTimeout = 30 * time.Second

// defaultRecommendations 启发式变体的固定建议列表
// (智能体变体的建议由模型生成，不走这份)
var defaultRecommendations = []string{
	"Monitor emerging patterns in competitor releases",
	"Address common industry pain points",
	"Focus on performance and developer experience",
	"Stay updated with framework-specific optimizations",
}

// ReportService 编排整条情报流水线：抓取 → 分析 → 汇总 → 组装 → 缓存 → 推送
// 仓库按固定顺序逐个串行处理，单个仓库失败只是让报告少覆盖一个仓库
type ReportService struct {
	fetcher  port.Fetcher
	analyzer port.Analyzer
	agent    port.Agent       // 非 nil 时走智能体变体
	cache    port.ReportCache // 可为 nil (不缓存)
	notifier port.Notifier    // 可为 nil (不推送)
	nowFunc  func() time.Time
}

// NewReportService 创建报告服务
// agent 传 nil 表示纯启发式分析；cache / notifier 均可为 nil
func NewReportService(
	fetcher port.Fetcher,
	analyzer port.Analyzer,
	agent port.Agent,
	cache port.ReportCache,
	notifier port.Notifier,
) *ReportService {
	return &ReportService{
		fetcher:  fetcher,
		analyzer: analyzer,
		agent:    agent,
		cache:    cache,
		notifier: notifier,
		nowFunc:  time.Now, // 便于测试注入当前时间
	}
}

// WeekKey 返回 ISO 年-周格式的缓存键，例如 2025-W34
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// GenerateWeeklyReport 执行一轮完整的报告生成
//
// useCache 为 true 且当周已有缓存时直接短路返回缓存报告，不触发任何抓取。
// 全部仓库都没有产出可用数据时返回 NO_DATA_ERROR，此时不写缓存。
func (s *ReportService) GenerateWeeklyReport(ctx context.Context, watchlist []domain.Competitor, useCache bool) (*domain.WeeklyReport, error) {
	fmt.Println("🚀 [情报模式] 开始生成竞品周报...")

	weekKey := WeekKey(s.nowFunc())

	// 1. 缓存短路
	if useCache && s.cache != nil {
		cached, err := s.cache.Get(ctx, weekKey)
		if err != nil {
			log.Printf("⚠️ 查询缓存失败: %v，继续走完整流水线", err)
		} else if cached != nil {
			fmt.Printf("✅ 命中 %s 的缓存报告，跳过抓取\n", weekKey)
			return cached, nil
		}
	}

	// 2. 逐仓库抓取 + 分析 (串行，固定顺序)
	var analyses []*domain.RepoAnalysis
	for _, competitor := range watchlist {
		fmt.Printf("📥 正在分析 %s (%s)...\n", competitor.DisplayName, competitor.Ref.FullName())

		analysis, err := s.analyzeOne(ctx, competitor)
		if err != nil {
			// 局部降级：该仓库本轮缺席，流水线继续
			log.Printf("❌ 分析 %s 失败: %v，跳过该仓库", competitor.DisplayName, err)
			continue
		}

		analyses = append(analyses, analysis)
		fmt.Printf("✅ %s 分析完成 (本周 %d 个 Issue)\n", competitor.DisplayName, analysis.TotalIssues)
	}

	// 3. 全军覆没才算整轮失败
	if len(analyses) == 0 {
		return nil, common.NewError(common.ErrCodeNoData, "没有任何仓库产出可用数据，本轮不生成报告")
	}

	// 4. 组装周报
	report, err := s.assembleReport(ctx, analyses)
	if err != nil {
		return nil, err
	}

	// 5. 写缓存 (追加当周记录；失败只告警，不影响报告返回)
	if s.cache != nil {
		if err := s.cache.Put(ctx, weekKey, report); err != nil {
			log.Printf("⚠️ 写入报告缓存失败: %v", err)
		} else {
			fmt.Printf("💾 报告已缓存到 %s\n", weekKey)
		}
	}

	// 6. 推送
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report); err != nil {
			log.Printf("⚠️ 推送周报失败: %v", err)
		} else {
			fmt.Println("📲 周报已推送")
		}
	}

	fmt.Printf("🎉 本轮情报生成完成，共覆盖 %d 个仓库\n", len(report.Analyses))
	return report, nil
}

// analyzeOne 抓取并分析单个仓库，带独立超时
func (s *ReportService) analyzeOne(ctx context.Context, competitor domain.Competitor) (*domain.RepoAnalysis, error) {
	repoCtx, cancel := context.WithTimeout(ctx, perRepoTimeout)
	defer cancel()

	bundle, err := s.fetcher.FetchRepoData(repoCtx, competitor.Ref)
	if err != nil {
		return nil, err
	}

	// 智能体变体：把原始数据交给模型，结构不合契约算该仓库的软失败
	if s.agent != nil {
		return s.agent.AnalyzeCompetitor(repoCtx, competitor.DisplayName, bundle)
	}

	// 启发式变体：Release 分析和 Issue 分析互相独立，结果合并
	summaries, features, breaking := s.analyzer.AnalyzeReleases(bundle.Releases)
	patterns, bugs, requests := s.analyzer.AnalyzeIssues(bundle.Issues)

	return &domain.RepoAnalysis{
		ProjectName:     competitor.DisplayName,
		RecentReleases:  summaries,
		KeyFeatures:     features,
		BreakingChanges: breaking,
		RecurringIssues: patterns,
		CriticalBugs:    bugs,
		FeatureRequests: requests,
		TotalIssues:     len(bundle.Issues),
	}, nil
}

// assembleReport 把分析列表打包成带日期戳的周报
func (s *ReportService) assembleReport(ctx context.Context, analyses []*domain.RepoAnalysis) (*domain.WeeklyReport, error) {
	// 智能体变体：趋势和建议由模型生成，报告不合契约算整轮软失败
	if s.agent != nil {
		report, err := s.agent.GenerateReport(ctx, analyses)
		if err != nil {
			log.Printf("⚠️ AI 生成周报失败: %v", err)
			return nil, common.WrapError(common.ErrCodeAIProcessing, "生成周报失败", err)
		}
		return report, nil
	}

	trends, commonIssues := s.analyzer.AggregateTrends(analyses)
	return &domain.WeeklyReport{
		ReportDate:      s.nowFunc().Format("2006-01-02"),
		Analyses:        analyses,
		IndustryTrends:  trends,
		CommonIssues:    commonIssues,
		Recommendations: defaultRecommendations,
	}, nil
}
