package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"competitor-radar/internal/adapter/analyzer"
	"competitor-radar/internal/adapter/github"
	"competitor-radar/internal/domain"
)

func main() {
	// 获取环境变量
	githubToken := os.Getenv("GITHUB_TOKEN")

	ctx := context.Background()

	// 初始化组件
	fetcher := github.NewFetcher(githubToken)
	heuristic := analyzer.NewHeuristicAnalyzer()

	fmt.Println("🔍 调试模式：抓取并分析单个仓库")

	ref := domain.RepoRef{Owner: "vercel", Name: "next.js"}
	if len(os.Args) > 2 {
		ref = domain.RepoRef{Owner: os.Args[1], Name: os.Args[2]}
	}

	// 1. 抓取数据
	fmt.Printf("📥 正在抓取 %s...\n", ref.FullName())
	bundle, err := fetcher.FetchRepoData(ctx, ref)
	if err != nil {
		log.Printf("❌ 抓取失败: %v", err)
		return
	}
	fmt.Printf("✅ 获取到 %d 个 Release，%d 个 Issue\n", len(bundle.Releases), len(bundle.Issues))

	if bundle.IsEmpty() {
		fmt.Println("❌ 没有任何可分析的数据")
		return
	}

	// 2. Release 分析
	summaries, features, breaking := heuristic.AnalyzeReleases(bundle.Releases)
	fmt.Printf("\n🚀 发布摘要 (%d 条):\n", len(summaries))
	for _, summary := range summaries {
		fmt.Printf("  %s (%s)\n", summary.Version, summary.Date)
	}
	fmt.Printf("⭐ 新特性 (%d 条):\n", len(features))
	for _, feature := range features {
		fmt.Printf("  • %s\n", feature)
	}
	fmt.Printf("⚠️ 破坏性变更 (%d 条):\n", len(breaking))
	for _, change := range breaking {
		fmt.Printf("  • %s\n", change)
	}

	// 3. Issue 分析
	patterns, bugs, requests := heuristic.AnalyzeIssues(bundle.Issues)
	fmt.Printf("\n🐛 高频词模式 (%d 条):\n", len(patterns))
	for _, pattern := range patterns {
		fmt.Printf("  %s × %d\n", pattern.Pattern, pattern.Count)
	}
	fmt.Printf("🚨 Bug (%d 条):\n", len(bugs))
	for _, bug := range bugs {
		fmt.Printf("  • %s\n", bug)
	}
	fmt.Printf("💡 需求 (%d 条):\n", len(requests))
	for _, request := range requests {
		fmt.Printf("  • %s\n", request)
	}
}
