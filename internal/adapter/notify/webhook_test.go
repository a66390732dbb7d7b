package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-world-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
)

// mockWebhookServer 创建模拟的 Webhook 服务器
func mockWebhookServer(t *testing.T, statusCode int, validatePayload func(*testing.T, map[string]interface{})) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var payload map[string]interface{}
		err = json.Unmarshal(body, &payload)
		assert.NoError(t, err)

		if validatePayload != nil {
			validatePayload(t, payload)
		}

		w.WriteHeader(statusCode)
		w.Write([]byte(`{"code": 0, "msg": "success"}`))
	}))
}

func sampleEnriched() *domain.Enriched {
	return &domain.Enriched{
		Item: domain.Item{
			Title:        "OpenAI announces GPT-5",
			Source:       "openai blog",
			URL:          "https://openai.com/blog/gpt-5",
			SourceRegion: "international",
		},
		Classification: domain.Classification{
			ContentType:    domain.TypeProduct,
			Confidence:     0.92,
			TechCategories: []string{"LLM", "AGI"},
			Region:         "international",
			AIRelevance:    0.95,
			Reasoning:      "Major product launch from a top lab",
			ClassifiedBy:   "llm:ollama/qwen3:8b",
			ClassifiedAt:   time.Now(),
		},
		Importance:      0.91,
		ImportanceLevel: "critical",
	}
}

func TestWebhook_Notify(t *testing.T) {
	tests := []struct {
		name            string
		enriched        *domain.Enriched
		statusCode      int
		expectError     bool
		validatePayload func(*testing.T, map[string]interface{})
	}{
		{
			name:        "成功发送通知",
			enriched:    sampleEnriched(),
			statusCode:  http.StatusOK,
			expectError: false,
			validatePayload: func(t *testing.T, payload map[string]interface{}) {
				assert.Equal(t, "interactive", payload["msg_type"])

				card, ok := payload["card"].(map[string]interface{})
				assert.True(t, ok)
				assert.Equal(t, "2.0", card["schema"])

				header, ok := card["header"].(map[string]interface{})
				assert.True(t, ok)
				assert.Equal(t, "red", header["template"])
				title, ok := header["title"].(map[string]interface{})
				assert.True(t, ok)
				assert.Contains(t, title["content"], "GPT-5")

				body, ok := card["body"].(map[string]interface{})
				assert.True(t, ok)
				elements, ok := body["elements"].([]interface{})
				assert.True(t, ok)
				assert.Equal(t, 2, len(elements)) // markdown + button
			},
		},
		{
			name:        "卡片内容包含分类和重要性",
			enriched:    sampleEnriched(),
			statusCode:  http.StatusOK,
			expectError: false,
			validatePayload: func(t *testing.T, payload map[string]interface{}) {
				card := payload["card"].(map[string]interface{})
				body := card["body"].(map[string]interface{})
				elements := body["elements"].([]interface{})

				markdown := elements[0].(map[string]interface{})
				content := markdown["content"].(string)
				assert.Contains(t, content, "产品发布")
				assert.Contains(t, content, "0.91")
				assert.Contains(t, content, "critical")
				assert.Contains(t, content, "LLM, AGI")
				assert.Contains(t, content, "Major product launch")

				button := elements[1].(map[string]interface{})
				behaviors := button["behaviors"].([]interface{})
				behavior := behaviors[0].(map[string]interface{})
				assert.Equal(t, "https://openai.com/blog/gpt-5", behavior["default_url"])
			},
		},
		{
			name: "规则分类无 reasoning 时给出兜底文案",
			enriched: func() *domain.Enriched {
				e := sampleEnriched()
				e.Reasoning = ""
				e.ClassifiedBy = "rule"
				e.TechCategories = nil
				return e
			}(),
			statusCode:  http.StatusOK,
			expectError: false,
			validatePayload: func(t *testing.T, payload map[string]interface{}) {
				card := payload["card"].(map[string]interface{})
				body := card["body"].(map[string]interface{})
				elements := body["elements"].([]interface{})

				markdown := elements[0].(map[string]interface{})
				content := markdown["content"].(string)
				assert.Contains(t, content, "规则分类 (rule)")
				assert.Contains(t, content, "General AI")
			},
		},
		{
			name: "中文标题",
			enriched: func() *domain.Enriched {
				e := sampleEnriched()
				e.Title = "百度发布文心一言新版本"
				e.Region = "domestic"
				return e
			}(),
			statusCode:  http.StatusOK,
			expectError: false,
			validatePayload: func(t *testing.T, payload map[string]interface{}) {
				card := payload["card"].(map[string]interface{})
				header := card["header"].(map[string]interface{})
				title := header["title"].(map[string]interface{})
				assert.Contains(t, title["content"], "文心一言")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockWebhookServer(t, tt.statusCode, tt.validatePayload)
			defer server.Close()

			notifier := NewWebhook(server.URL)
			ctx := context.Background()

			err := notifier.Notify(ctx, tt.enriched)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWebhook_Notify_ErrorCases(t *testing.T) {
	tests := []struct {
		name           string
		setupNotifier  func() *Webhook
		expectError    bool
		errorSubstring string
	}{
		{
			name: "Webhook URL 为空",
			setupNotifier: func() *Webhook {
				return NewWebhook("")
			},
			expectError:    true,
			errorSubstring: "Webhook URL 为空",
		},
		{
			name: "API 返回 400 错误",
			setupNotifier: func() *Webhook {
				server := mockWebhookServer(t, http.StatusBadRequest, nil)
				t.Cleanup(server.Close)
				return NewWebhook(server.URL)
			},
			expectError:    true,
			errorSubstring: "发送请求失败",
		},
		{
			name: "API 返回 500 错误",
			setupNotifier: func() *Webhook {
				server := mockWebhookServer(t, http.StatusInternalServerError, nil)
				t.Cleanup(server.Close)
				return NewWebhook(server.URL)
			},
			expectError:    true,
			errorSubstring: "发送请求失败",
		},
		{
			name: "无效的 Webhook URL",
			setupNotifier: func() *Webhook {
				return NewWebhook("http://invalid-url-that-does-not-exist-12345.com")
			},
			expectError:    true,
			errorSubstring: "发送请求失败",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := tt.setupNotifier()
			ctx := context.Background()

			err := notifier.Notify(ctx, sampleEnriched())

			if tt.expectError {
				assert.Error(t, err)
				if tt.errorSubstring != "" {
					assert.Contains(t, err.Error(), tt.errorSubstring)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWebhook_Notify_ContextCancellation(t *testing.T) {
	// 慢速服务器模拟超时
	slowServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer slowServer.Close()

	notifier := NewWebhook(slowServer.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := notifier.Notify(ctx, sampleEnriched())

	// 重试机制下要么上下文取消，要么重试耗尽
	if err != nil {
		assert.Contains(t, err.Error(), "发送请求失败")
	}
}

func TestNewWebhook(t *testing.T) {
	tests := []struct {
		name    string
		webhook string
		verify  func(*testing.T, *Webhook)
	}{
		{
			name:    "有效的 Webhook URL",
			webhook: "https://open.feishu.cn/open-apis/bot/v2/hook/test-hook",
			verify: func(t *testing.T, n *Webhook) {
				assert.NotNil(t, n)
				assert.Equal(t, "https://open.feishu.cn/open-apis/bot/v2/hook/test-hook", n.webhookURL)
			},
		},
		{
			name:    "空 Webhook URL",
			webhook: "",
			verify: func(t *testing.T, n *Webhook) {
				assert.NotNil(t, n)
				assert.Equal(t, "", n.webhookURL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := NewWebhook(tt.webhook)
			tt.verify(t, notifier)
		})
	}
}
