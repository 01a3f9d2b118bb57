package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"competitor-radar/internal/common"
	"competitor-radar/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Agent 实现了 port.Agent 接口：把抓取到的原始数据序列化进 Prompt，
// 要求模型返回结构化 JSON，再反序列化回 domain 对象
type Agent struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewAgent(ctx context.Context, apiKey string) (*Agent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	// 强制要求返回 JSON，降低解析错误的概率
	model.ResponseMIMEType = "application/json"

	return &Agent{
		client: client,
		model:  model,
	}, nil
}

// AnalyzeCompetitor 让模型分析单个仓库的 Release + Issue 数据
// 返回内容不符合 CompetitorAnalysis 结构时视为该仓库的软失败
func (g *Agent) AnalyzeCompetitor(ctx context.Context, projectName string, bundle *domain.Bundle) (*domain.RepoAnalysis, error) {
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "序列化抓取数据失败", err)
	}

	prompt := fmt.Sprintf(`
你是一名竞品情报分析师。请分析以下竞品项目的 GitHub 数据：

项目名称: %s
GitHub 数据 (JSON): %s

请严格按照 JSON 格式返回分析结果，包含以下字段：
1. project_name: 项目名称。
2. recent_releases: 数组，每项包含 version / date / description。
3. key_features: 最多 5 条新特性，字符串数组。
4. breaking_changes: 最多 3 条破坏性变更，字符串数组。
5. recurring_issues: 数组，每项包含 pattern 和 count (count 必须大于 1)。
6. critical_bugs: 最多 5 条 Bug 标题，字符串数组。
7. feature_requests: 最多 5 条需求标题，字符串数组。
8. total_issues: Issue 总数。

请直接返回 JSON，不要包含 Markdown 格式标记。
`, projectName, string(data))

	var analysis domain.RepoAnalysis
	if err := g.generateInto(ctx, prompt, &analysis); err != nil {
		return nil, err
	}

	// 类型检查：关键字段缺失说明模型没按契约返回
	if analysis.ProjectName == "" {
		analysis.ProjectName = projectName
	}
	return &analysis, nil
}

// GenerateReport 让模型基于全部分析结果生成整份周报
// 返回内容不符合 WeeklyReport 结构时视为整份报告的软失败
func (g *Agent) GenerateReport(ctx context.Context, analyses []*domain.RepoAnalysis) (*domain.WeeklyReport, error) {
	data, err := json.Marshal(analyses)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "序列化分析结果失败", err)
	}

	prompt := fmt.Sprintf(`
你是一名面向产品经理的战略情报分析师。以下是本周全部竞品的分析结果：

竞品分析 (JSON): %s

请识别跨竞品的行业趋势，并给出可执行的战略建议。
请严格按照 JSON 格式返回，包含以下字段：
1. report_date: 报告日期 (YYYY-MM-DD)。
2. analyses: 原样保留输入的竞品分析数组。
3. industry_trends: 最多 3 条跨竞品趋势，字符串数组。
4. common_issues: 最多 3 条行业共性问题，字符串数组。
5. recommendations: 战略建议，字符串数组。

请直接返回 JSON，不要包含 Markdown 格式标记。
`, string(data))

	var report domain.WeeklyReport
	if err := g.generateInto(ctx, prompt, &report); err != nil {
		return nil, err
	}

	if report.ReportDate == "" || len(report.Analyses) == 0 {
		return nil, common.NewError(common.ErrCodeAIProcessing, "AI 返回的报告缺少关键字段")
	}
	return &report, nil
}

// generateInto 调用模型并把返回的 JSON 解析到 out
func (g *Agent) generateInto(ctx context.Context, prompt string, out interface{}) error {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return common.WrapError(common.ErrCodeAIProcessing, "AI 调用失败", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return common.NewError(common.ErrCodeAIProcessing, "AI 返回内容为空")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return common.NewError(common.ErrCodeAIProcessing, "AI 返回格式错误")
	}

	cleanJSON, err := extractJSON(string(text))
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(cleanJSON), out); err != nil {
		return common.WrapError(common.ErrCodeAIProcessing,
			fmt.Sprintf("JSON 解析失败 | 原文: %s", cleanJSON), err)
	}
	return nil
}

// extractJSON 智能寻找 JSON 的起止位置
// 即使模型返回 "```json { ... } ```"，也能精准抠出中间的 { ... }
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end <= start {
		return "", common.NewError(common.ErrCodeAIProcessing,
			fmt.Sprintf("无法提取 JSON, AI 原文: %s", raw))
	}
	return raw[start : end+1], nil
}
