package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"competitor-radar/internal/adapter/analyzer"
	"competitor-radar/internal/adapter/feishu"
	"competitor-radar/internal/adapter/gemini"
	"competitor-radar/internal/adapter/github"
	"competitor-radar/internal/adapter/mockagent"
	"competitor-radar/internal/adapter/repository"
	"competitor-radar/internal/domain"
	"competitor-radar/internal/port"
	"competitor-radar/internal/service"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// 整轮流水线的超时预算
const cycleTimeout = 5 * time.Minute

func main() {
	// 1. 定义命令行参数
	mode := flag.String("mode", "report", "运行模式: report (启发式分析) / agent (AI 分析) / demo (离线假智能体)")
	repos := flag.String("repos", "", "监控仓库列表，逗号分隔的 owner/repo，留空使用内置清单")
	useCache := flag.Bool("use-cache", false, "命中当周缓存时直接返回缓存报告")
	cronSpec := flag.String("cron", "", "定时执行的 cron 表达式 (例如 '0 9 * * 1' 表示每周一 9 点)，留空只执行一次")
	noFallback := flag.Bool("no-trend-fallback", false, "跨仓库无共性时不输出兜底趋势")
	flag.Parse()

	// 2. 加载环境变量 (.env 可选)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ 未找到 .env 文件，直接读取环境变量")
	}

	// 3. 组装监控清单
	watchlist := defaultWatchlist()
	if *repos != "" {
		parsed, err := parseWatchlist(*repos)
		if err != nil {
			log.Fatalf("❌ 解析 -repos 失败: %v", err)
		}
		watchlist = parsed
	}

	// 4. 初始化各适配器
	svc, err := buildService(*mode, *noFallback)
	if err != nil {
		log.Fatalf("❌ 初始化失败: %v", err)
	}

	// 5. 单次 or 定时
	if *cronSpec != "" {
		runScheduled(svc, watchlist, *cronSpec, *useCache)
		return
	}
	runOnce(svc, watchlist, *useCache)
}

// buildService 按模式拼装流水线依赖
func buildService(mode string, noFallback bool) (*service.ReportService, error) {
	githubToken := os.Getenv("GITHUB_TOKEN")
	if githubToken == "" {
		log.Println("⚠️ 未设置 GITHUB_TOKEN，将匿名访问 GitHub API (限制 60次/小时)")
	}
	fetcher := github.NewFetcher(githubToken)

	var opts []analyzer.Option
	if noFallback {
		opts = append(opts, analyzer.WithoutTrendFallback())
	}
	heuristic := analyzer.NewHeuristicAnalyzer(opts...)

	// 智能体：agent 模式用 Gemini，demo 模式用同契约的离线假实现
	var agent port.Agent
	switch mode {
	case "report":
		// 纯启发式，不需要智能体
	case "agent":
		geminiKey := os.Getenv("GEMINI_API_KEY")
		g, err := gemini.NewAgent(context.Background(), geminiKey)
		if err != nil {
			return nil, fmt.Errorf("AI 初始化失败: %w", err)
		}
		agent = g
	case "demo":
		agent = mockagent.NewAgent()
	default:
		return nil, fmt.Errorf("未知模式 %q，请使用 -mode=report / agent / demo", mode)
	}

	// 缓存：配置了 DSN 用 Postgres，否则退回进程内会话缓存
	var cache port.ReportCache
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		pg, err := repository.NewPostgresCache(dsn)
		if err != nil {
			return nil, fmt.Errorf("DB 初始化失败: %w", err)
		}
		cache = pg
	} else {
		log.Println("⚠️ 未设置 DATABASE_DSN，报告缓存只在本进程内有效")
		cache = repository.NewMemoryCache()
	}

	// 推送通道可选
	var notifier port.Notifier
	if webhook := os.Getenv("FEISHU_WEBHOOK"); webhook != "" {
		notifier = feishu.NewNotifier(webhook)
	}

	return service.NewReportService(fetcher, heuristic, agent, cache, notifier), nil
}

// runOnce 执行一轮报告生成
func runOnce(svc *service.ReportService, watchlist []domain.Competitor, useCache bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	report, err := svc.GenerateWeeklyReport(ctx, watchlist, useCache)
	if err != nil {
		log.Fatalf("❌ 生成周报失败: %v", err)
	}

	printReport(report)
}

// runScheduled 按 cron 表达式定时生成周报，Ctrl+C 优雅退出
func runScheduled(svc *service.ReportService, watchlist []domain.Competitor, spec string, useCache bool) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		runOnce(svc, watchlist, useCache)
	})
	if err != nil {
		log.Fatalf("❌ cron 表达式 %q 无效: %v", spec, err)
	}

	c.Start()
	fmt.Printf("⏰ 定时模式已启动 (cron: %s)\n", spec)
	fmt.Println("按下 Ctrl+C 可以优雅停止程序")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n👋 收到停止信号，正在退出...")
	<-c.Stop().Done()
}

// printReport 把周报打印到终端 (板块顺序和仪表盘一致)
func printReport(report *domain.WeeklyReport) {
	fmt.Printf("\n================ [ 竞品周报 %s ] ================\n", report.ReportDate)

	for _, analysis := range report.Analyses {
		fmt.Printf("\n🏢 %s (本周 %d 个 Issue)\n", analysis.ProjectName, analysis.TotalIssues)
		for _, release := range analysis.RecentReleases {
			fmt.Printf("  🚀 %s (%s)\n", release.Version, release.Date)
		}
		for _, feature := range analysis.KeyFeatures {
			fmt.Printf("  ⭐ %s\n", feature)
		}
		for _, change := range analysis.BreakingChanges {
			fmt.Printf("  ⚠️ %s\n", change)
		}
		for _, pattern := range analysis.RecurringIssues {
			fmt.Printf("  🐛 %s × %d\n", pattern.Pattern, pattern.Count)
		}
	}

	printSection("📈 行业趋势", report.IndustryTrends)
	printSection("🔄 共性问题", report.CommonIssues)
	printSection("💡 建议", report.Recommendations)
	fmt.Println("\n==================================================")
}

func printSection(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s\n", heading)
	for _, item := range items {
		fmt.Printf("  • %s\n", item)
	}
}

// defaultWatchlist 内置的前端框架竞品清单
func defaultWatchlist() []domain.Competitor {
	return []domain.Competitor{
		{DisplayName: "Next.js", Ref: domain.RepoRef{Owner: "vercel", Name: "next.js"}},
		{DisplayName: "Nuxt", Ref: domain.RepoRef{Owner: "nuxt", Name: "nuxt"}},
		{DisplayName: "SvelteKit", Ref: domain.RepoRef{Owner: "sveltejs", Name: "kit"}},
		{DisplayName: "Remix", Ref: domain.RepoRef{Owner: "remix-run", Name: "remix"}},
		{DisplayName: "Astro", Ref: domain.RepoRef{Owner: "withastro", Name: "astro"}},
	}
}

// parseWatchlist 解析逗号分隔的 owner/repo 列表，展示名取 repo 部分
func parseWatchlist(s string) ([]domain.Competitor, error) {
	var watchlist []domain.Competitor
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("条目 %q 不是 owner/repo 格式", entry)
		}
		watchlist = append(watchlist, domain.Competitor{
			DisplayName: parts[1],
			Ref:         domain.RepoRef{Owner: parts[0], Name: parts[1]},
		})
	}
	if len(watchlist) == 0 {
		return nil, fmt.Errorf("监控清单为空")
	}
	return watchlist, nil
}
