package github

import (
	"context"
	"fmt"
	"time"

	"competitor-radar/internal/common"
	"competitor-radar/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// 数据量上限：既控制内存，也控制下游 AI 调用的 Token 成本
const (
	maxReleases       = 5   // 只取最近 5 个 Release
	maxIssues         = 20  // 只取最近 7 天内的前 20 个 Issue
	releaseBodyBudget = 500 // Release 正文截断长度
	issueBodyBudget   = 200 // Issue 正文截断长度
	maxLabels         = 3   // 每个 Issue 最多保留 3 个标签
	issueWindowDays   = 7   // Issue 的滚动时间窗口
)

// Fetcher 实现了 port.Fetcher 接口
type Fetcher struct {
	client  *github.Client
	nowFunc func() time.Time
}

// NewFetcher 初始化 GitHub 客户端
// token: GitHub Personal Access Token (空字符串 = 匿名访问，限制 60次/小时)
func NewFetcher(token string) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Fetcher{
		client:  client,
		nowFunc: time.Now, // 便于测试注入当前时间
	}
}

// FetchRepoData 抓取单个仓库的 Release 和最近 7 天的 Issue
// 任何一步失败都返回空 Bundle + 错误，调用方把该仓库当作"本轮没有数据"
func (f *Fetcher) FetchRepoData(ctx context.Context, ref domain.RepoRef) (*domain.Bundle, error) {
	releases, err := f.fetchReleases(ctx, ref)
	if err != nil {
		return &domain.Bundle{}, common.WrapError(common.ErrCodeGitHubAPI,
			fmt.Sprintf("抓取 %s 的 releases 失败", ref.FullName()), err)
	}

	issues, err := f.fetchRecentIssues(ctx, ref)
	if err != nil {
		return &domain.Bundle{}, common.WrapError(common.ErrCodeGitHubAPI,
			fmt.Sprintf("抓取 %s 的 issues 失败", ref.FullName()), err)
	}

	return &domain.Bundle{Releases: releases, Issues: issues}, nil
}

// fetchReleases 获取最近的 Release 列表 (API 默认按发布时间倒序)
func (f *Fetcher) fetchReleases(ctx context.Context, ref domain.RepoRef) ([]*domain.RawRelease, error) {
	opts := &github.ListOptions{PerPage: maxReleases}

	var items []*github.RepositoryRelease
	err := common.Do(ctx, func() error {
		var apiErr error
		items, _, apiErr = f.client.Repositories.ListReleases(ctx, ref.Owner, ref.Name, opts)
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("GitHub API 调用失败: %w", err)
	}

	if len(items) > maxReleases {
		items = items[:maxReleases]
	}

	var releases []*domain.RawRelease
	for _, item := range items {
		releases = append(releases, &domain.RawRelease{
			Tag:         item.GetTagName(),
			Title:       item.GetName(),
			Body:        truncate(item.GetBody(), releaseBodyBudget),
			PublishedAt: item.GetPublishedAt().Time,
			Draft:       item.GetDraft(),
		})
	}

	return releases, nil
}

// fetchRecentIssues 获取最近 7 天内有动静的 Issue (开放 + 已关闭)
func (f *Fetcher) fetchRecentIssues(ctx context.Context, ref domain.RepoRef) ([]*domain.RawIssue, error) {
	cutoff := f.nowFunc().AddDate(0, 0, -issueWindowDays)
	opts := &github.IssueListByRepoOptions{
		Since:       cutoff,
		State:       "all",
		ListOptions: github.ListOptions{PerPage: maxIssues},
	}

	var items []*github.Issue
	err := common.Do(ctx, func() error {
		var apiErr error
		items, _, apiErr = f.client.Issues.ListByRepo(ctx, ref.Owner, ref.Name, opts)
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("GitHub API 调用失败: %w", err)
	}

	if len(items) > maxIssues {
		items = items[:maxIssues]
	}

	var issues []*domain.RawIssue
	for _, item := range items {
		var labels []string
		for _, label := range item.Labels {
			if len(labels) >= maxLabels {
				break
			}
			labels = append(labels, label.GetName())
		}

		issues = append(issues, &domain.RawIssue{
			Title:     item.GetTitle(),
			Body:      truncate(item.GetBody(), issueBodyBudget),
			Labels:    labels,
			State:     item.GetState(),
			CreatedAt: item.GetCreatedAt().Time,
		})
	}

	return issues, nil
}

// truncate 按字符预算截断文本
func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget])
}
