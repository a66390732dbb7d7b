package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ai-world-tracker/internal/common"
)

// GeminiProvider Google Gemini 云端提供商
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewGemini(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeConfig, "Gemini 客户端创建失败", err)
	}

	m := client.GenerativeModel(model)
	// 强制要求返回 JSON，降低解析错误的概率
	m.ResponseMIMEType = "application/json"
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	temp := float32(0.1)
	m.Temperature = &temp

	return &GeminiProvider{
		client: client,
		model:  m,
		name:   "gemini/" + model,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return p.name
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string, _ bool) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", common.WrapError(common.ErrCodeLLMTimeout, p.name+" 请求超时", err)
		}
		if strings.Contains(err.Error(), "429") {
			return "", common.WrapError(common.ErrCodeRateLimit, p.name+" 触发限流", err)
		}
		return "", common.WrapError(common.ErrCodeLLMAPI, p.name+" 调用失败", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", common.NewError(common.ErrCodeLLMInvalid, p.name+" 返回空内容")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", common.NewError(common.ErrCodeLLMInvalid, p.name+" 返回了非文本内容")
	}
	return string(text), nil
}

// Warmup 云端 API 无需预热
func (p *GeminiProvider) Warmup(context.Context) error {
	return nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
