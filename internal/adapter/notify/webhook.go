package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"ai-world-tracker/internal/common"
	"ai-world-tracker/internal/domain"
)

// typeLabels 六大分类对应的中文标签和 emoji
var typeLabels = map[domain.ContentType]string{
	domain.TypeResearch:  "📄 学术研究",
	domain.TypeDeveloper: "🛠️ 开发者动态",
	domain.TypeProduct:   "🚀 产品发布",
	domain.TypeMarket:    "💰 市场动态",
	domain.TypeLeader:    "🎙️ 领袖观点",
	domain.TypeCommunity: "💬 社区热点",
}

// Webhook 通过飞书机器人推送 critical 级内容
type Webhook struct {
	webhookURL string
}

func NewWebhook(webhook string) *Webhook {
	if webhook == "" {
		log.Println("[notify] ⚠️ 警告: Webhook 为空，推送功能将无法工作！")
	}
	return &Webhook{webhookURL: webhook}
}

// Notify 发送飞书卡片消息 (Schema 2.0)
func (n *Webhook) Notify(ctx context.Context, e *domain.Enriched) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "Webhook URL 为空")
	}

	label, ok := typeLabels[e.ContentType]
	if !ok {
		label = string(e.ContentType)
	}
	title := fmt.Sprintf("🚨 重要AI动态: %s", e.Title)

	mdContent := fmt.Sprintf(`**分类:** %s  |  **来源:** %s  |  **地区:** %s
**🔥 重要性:** %.2f (%s)  |  **置信度:** %.2f

**🏷️ 技术领域:** %s

**🤖 分类依据:**
%s
`,
		label, e.Source, e.Region,
		e.Importance, e.ImportanceLevel, e.Confidence,
		techFieldsLine(e.TechCategories),
		reasoningLine(e))

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
				"template": "red",
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   mdContent,
						"text_size": "normal",
					},
					{
						"tag": "button",
						"text": map[string]interface{}{
							"tag":     "plain_text",
							"content": "🔗 查看原文",
						},
						"type": "primary",
						"behaviors": []map[string]interface{}{
							{
								"type":        "open_url",
								"default_url": e.URL,
							},
						},
					},
				},
			},
		},
	}

	// 发送请求 (带重试机制)
	body, _ := json.Marshal(payload)
	err := common.Do(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, postErr := http.DefaultClient.Do(req)
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != 200 {
			return fmt.Errorf("Webhook API 报错: 状态码 %d", resp.StatusCode)
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

func techFieldsLine(fields []string) string {
	if len(fields) == 0 {
		return "General AI"
	}
	return strings.Join(fields, ", ")
}

func reasoningLine(e *domain.Enriched) string {
	if e.Reasoning != "" {
		return e.Reasoning
	}
	return fmt.Sprintf("规则分类 (%s)", e.ClassifiedBy)
}
