package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"ai-world-tracker/internal/common"
)

const (
	openaiMaxTokensSingle = 300
	openaiMaxTokensBatch  = 2000 // 批量模式每条约 80 tokens，留足余量

	defaultAzureAPIVersion = "2024-02-15-preview"
)

// OpenAIProvider OpenAI 与 Azure OpenAI 共用的云端提供商
// Azure 模式下 model 字段填的是部署名称而非模型名
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAI 标准 OpenAI 接入
func NewOpenAI(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		name:   "openai/" + model,
	}
}

// NewAzureOpenAI Azure 接入，endpoint 形如 https://xxx.openai.azure.com/
func NewAzureOpenAI(apiKey, endpoint, deployment, apiVersion string) (*OpenAIProvider, error) {
	if endpoint == "" {
		return nil, common.NewError(common.ErrCodeConfig, "Azure OpenAI 需要配置 endpoint")
	}
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}
	cfg := openai.DefaultAzureConfig(apiKey, strings.TrimRight(endpoint, "/"))
	cfg.APIVersion = apiVersion
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  deployment,
		name:   "azure/" + deployment,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, batch bool) (string, error) {
	maxTokens := openaiMaxTokensSingle
	if batch {
		maxTokens = openaiMaxTokensBatch
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", p.classifyError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", common.NewError(common.ErrCodeLLMInvalid, p.name+" 返回空内容")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError 把 SDK 错误归档成带错误码的 AppError
// Azure 404 多是部署名/endpoint/api 版本配错，提示排查方向
func (p *OpenAIProvider) classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return common.WrapError(common.ErrCodeRateLimit, p.name+" 触发限流", err)
		case http.StatusNotFound:
			return common.WrapError(common.ErrCodeLLMAPI,
				fmt.Sprintf("%s 返回 404，请检查部署名 %q、endpoint 和 api 版本", p.name, p.model), err)
		}
		return common.WrapError(common.ErrCodeLLMAPI, p.name+" 调用失败", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return common.WrapError(common.ErrCodeLLMTimeout, p.name+" 请求超时", err)
	}
	return common.WrapError(common.ErrCodeLLMAPI, p.name+" 调用失败", err)
}

// Warmup 云端 API 无需预热
func (p *OpenAIProvider) Warmup(context.Context) error {
	return nil
}

func (p *OpenAIProvider) Close() error {
	return nil
}
