package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"competitor-radar/internal/common"
	"competitor-radar/internal/domain"
)

type Notifier struct {
	webhookURL string
}

func NewNotifier(webhook string) *Notifier {
	if webhook == "" {
		log.Println("⚠️ 警告: 飞书 Webhook 为空，推送功能将无法工作！")
	}
	return &Notifier{webhookURL: webhook}
}

// Notify 把整份周报渲染成飞书卡片消息 (Schema 2.0) 推送出去
func (n *Notifier) Notify(ctx context.Context, report *domain.WeeklyReport) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "Webhook URL 为空")
	}

	title := fmt.Sprintf("📊 竞品周报 %s (%d 个仓库)", report.ReportDate, len(report.Analyses))

	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"schema": "2.0",
			"config": map[string]interface{}{
				"update_multi": true,
			},
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "blue",
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   renderMarkdown(report),
						"text_size": "normal",
					},
				},
			},
		},
	}

	// 发送请求 (带重试机制)
	body, _ := json.Marshal(payload)
	err := common.Do(ctx, func() error {
		resp, postErr := http.Post(n.webhookURL, "application/json", bytes.NewBuffer(body))
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != 200 {
			return fmt.Errorf("飞书 API 报错: 状态码 %d", resp.StatusCode)
		}
		return nil
	},
		common.WithMaxRetries(3),
		common.WithInitialDelay(500*time.Millisecond),
	)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "发送请求失败", err)
	}

	return nil
}

// renderMarkdown 把报告各个板块拼成一段 Markdown
// 布局对应仪表盘的分区：逐仓库分析 → 行业趋势 → 共性问题 → 建议
func renderMarkdown(report *domain.WeeklyReport) string {
	var b strings.Builder

	for _, analysis := range report.Analyses {
		fmt.Fprintf(&b, "**🏢 %s** (本周 %d 个 Issue)\n", analysis.ProjectName, analysis.TotalIssues)

		for _, release := range analysis.RecentReleases {
			fmt.Fprintf(&b, "🚀 %s (%s)\n", release.Version, release.Date)
		}
		for _, feature := range analysis.KeyFeatures {
			fmt.Fprintf(&b, "⭐ %s\n", feature)
		}
		for _, change := range analysis.BreakingChanges {
			fmt.Fprintf(&b, "⚠️ %s\n", change)
		}
		for _, pattern := range analysis.RecurringIssues {
			fmt.Fprintf(&b, "🐛 %s × %d\n", pattern.Pattern, pattern.Count)
		}
		b.WriteString("\n")
	}

	writeSection(&b, "📈 行业趋势", report.IndustryTrends)
	writeSection(&b, "🔄 共性问题", report.CommonIssues)
	writeSection(&b, "💡 建议", report.Recommendations)

	return b.String()
}

func writeSection(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "• %s\n", item)
	}
	b.WriteString("\n")
}
