package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"competitor-radar/internal/common"
	"competitor-radar/internal/domain"

	"github.com/google/go-github/v53/github"
	"github.com/stretchr/testify/assert"
)

// setupMockGitHubServer 创建一个模拟的 GitHub API 服务器
func setupMockGitHubServer(t *testing.T, handler http.Handler) (*httptest.Server, *Fetcher) {
	server := httptest.NewServer(handler)

	// 创建一个使用测试服务器的客户端
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL

	fetcher := &Fetcher{
		client:  client,
		nowFunc: time.Now,
	}
	return server, fetcher
}

// mockRelease 创建模拟的 GitHub Release 对象
func mockRelease(tag, title, body string, publishedAt time.Time, draft bool) *github.RepositoryRelease {
	return &github.RepositoryRelease{
		TagName:     github.String(tag),
		Name:        github.String(title),
		Body:        github.String(body),
		PublishedAt: &github.Timestamp{Time: publishedAt},
		Draft:       github.Bool(draft),
	}
}

// mockIssue 创建模拟的 GitHub Issue 对象
func mockIssue(title, body, state string, labels []string, createdAt time.Time) *github.Issue {
	issue := &github.Issue{
		Title:     github.String(title),
		Body:      github.String(body),
		State:     github.String(state),
		CreatedAt: &github.Timestamp{Time: createdAt},
	}
	for _, name := range labels {
		issue.Labels = append(issue.Labels, &github.Label{Name: github.String(name)})
	}
	return issue
}

func TestFetcher_FetchRepoData(t *testing.T) {
	now := time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/test/repo1/releases", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		json.NewEncoder(w).Encode([]*github.RepositoryRelease{
			mockRelease("v2.0.0", "Big release", strings.Repeat("a", 600), now.AddDate(0, 0, -1), false),
			mockRelease("v1.9.0", "Older release", "Added new dark mode", now.AddDate(0, 0, -10), false),
		})
	})
	mux.HandleFunc("/repos/test/repo1/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "20", r.URL.Query().Get("per_page"))
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		json.NewEncoder(w).Encode([]*github.Issue{
			mockIssue("Build performance regression", strings.Repeat("b", 300), "open",
				[]string{"bug", "build", "urgent", "extra-label"}, now.AddDate(0, 0, -2)),
			mockIssue("Add support for Bun", "", "closed", nil, now.AddDate(0, 0, -3)),
		})
	})

	server, fetcher := setupMockGitHubServer(t, mux)
	defer server.Close()

	bundle, err := fetcher.FetchRepoData(context.Background(), domain.RepoRef{Owner: "test", Name: "repo1"})

	assert.NoError(t, err)
	assert.Equal(t, 2, len(bundle.Releases))
	assert.Equal(t, "v2.0.0", bundle.Releases[0].Tag)
	assert.Equal(t, "Big release", bundle.Releases[0].Title)
	// Release 正文截断到 500 字符预算
	assert.Equal(t, 500, len(bundle.Releases[0].Body))
	assert.False(t, bundle.Releases[0].Draft)

	assert.Equal(t, 2, len(bundle.Issues))
	assert.Equal(t, "Build performance regression", bundle.Issues[0].Title)
	// Issue 正文截断到 200 字符预算
	assert.Equal(t, 200, len(bundle.Issues[0].Body))
	// 标签最多保留 3 个
	assert.Equal(t, []string{"bug", "build", "urgent"}, bundle.Issues[0].Labels)
	assert.Equal(t, "open", bundle.Issues[0].State)
	assert.Equal(t, "closed", bundle.Issues[1].State)
	assert.Empty(t, bundle.Issues[1].Labels)
}

func TestFetcher_FetchRepoData_EmptyRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/test/empty/releases", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*github.RepositoryRelease{})
	})
	mux.HandleFunc("/repos/test/empty/issues", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*github.Issue{})
	})

	server, fetcher := setupMockGitHubServer(t, mux)
	defer server.Close()

	bundle, err := fetcher.FetchRepoData(context.Background(), domain.RepoRef{Owner: "test", Name: "empty"})

	// 空仓库不是错误，下游把它当作"没有数据"
	assert.NoError(t, err)
	assert.True(t, bundle.IsEmpty())
}

func TestFetcher_FetchRepoData_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server, fetcher := setupMockGitHubServer(t, mux)
	defer server.Close()

	bundle, err := fetcher.FetchRepoData(context.Background(), domain.RepoRef{Owner: "test", Name: "broken"})

	// 失败时返回空 Bundle + 带错误码的错误，调用方据此降级
	assert.Error(t, err)
	assert.NotNil(t, bundle)
	assert.True(t, bundle.IsEmpty())

	var appErr *common.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.ErrCodeGitHubAPI, appErr.Code)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		budget   int
		expected string
	}{
		{name: "短文本原样返回", input: "hello", budget: 10, expected: "hello"},
		{name: "超长文本截断", input: "hello world", budget: 5, expected: "hello"},
		{name: "空文本", input: "", budget: 5, expected: ""},
		{name: "中文按字符截断", input: "你好世界", budget: 2, expected: "你好"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncate(tt.input, tt.budget))
		})
	}
}
