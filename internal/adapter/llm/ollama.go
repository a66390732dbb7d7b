package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"ai-world-tracker/internal/common"
)

const (
	modelKeepAlive = 5 * time.Minute

	// 预热最慢（模型首次加载），批量请求输出多所以比单条更宽
	ollamaWarmupTimeout = 180 * time.Second
	ollamaSingleTimeout = 120 * time.Second
	ollamaBatchTimeout  = 150 * time.Second
)

// OllamaProvider 本地 Ollama 推理
// Qwen3 系列走 Chat API 并关闭思考模式，其余模型走 Generate API
type OllamaProvider struct {
	baseURL string
	model   string
	opts    OllamaOptions
	client  *http.Client

	mu     sync.Mutex
	warmed bool
}

type ollamaOptionsPayload struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
	NumThread   int     `json:"num_thread"`
	NumGPU      int     `json:"num_gpu"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model     string               `json:"model"`
	Messages  []ollamaMessage      `json:"messages"`
	Stream    bool                 `json:"stream"`
	Think     bool                 `json:"think"`
	KeepAlive string               `json:"keep_alive"`
	Options   ollamaOptionsPayload `json:"options"`
}

type ollamaGenerateRequest struct {
	Model     string                `json:"model"`
	Prompt    string                `json:"prompt"`
	Stream    bool                  `json:"stream"`
	KeepAlive string                `json:"keep_alive"`
	Options   *ollamaOptionsPayload `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Thinking string `json:"thinking"`
}

// NewOllama 构造本地提供商，gpu 传探测结果（或关掉自动探测时的固定档位）
func NewOllama(baseURL, model string, opts OllamaOptions) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		opts:    opts,
		// 超时由每次调用的 context 控制，client 本身不设限
		client: &http.Client{},
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama/" + p.model
}

// CheckHealth 探活 /api/tags，带退避重试
func (p *OllamaProvider) CheckHealth(ctx context.Context) error {
	return common.Do(ctx, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.baseURL+"/api/tags", nil)
		if err != nil {
			return err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return common.NewError(common.ErrCodeLLMConnection, fmt.Sprintf("ollama 探活返回 %d", resp.StatusCode))
		}
		return nil
	}, common.WithMaxRetries(2), common.WithInitialDelay(500*time.Millisecond))
}

// Complete 发送分类 prompt
func (p *OllamaProvider) Complete(ctx context.Context, prompt string, batch bool) (string, error) {
	if p.useChatAPI() {
		return p.chat(ctx, prompt, batch)
	}
	return p.generate(ctx, prompt, batch)
}

// useChatAPI Qwen3 支持 think 参数，关掉思考模式能大幅提速
func (p *OllamaProvider) useChatAPI() bool {
	return strings.Contains(strings.ToLower(p.model), "qwen3")
}

func (p *OllamaProvider) payloadOptions(batch bool) ollamaOptionsPayload {
	numPredict := p.opts.NumPredict
	if batch {
		numPredict = p.opts.NumPredictBatch
	}
	return ollamaOptionsPayload{
		Temperature: p.opts.Temperature,
		NumPredict:  numPredict,
		NumCtx:      p.opts.NumCtx,
		NumThread:   p.opts.NumThread,
		NumGPU:      p.opts.NumGPU,
	}
}

func (p *OllamaProvider) chat(ctx context.Context, prompt string, batch bool) (string, error) {
	timeout := ollamaSingleTimeout
	if batch {
		timeout = ollamaBatchTimeout
	}

	body, err := p.post(ctx, "/api/chat", ollamaChatRequest{
		Model: p.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream:    false,
		Think:     false,
		KeepAlive: keepAliveValue(modelKeepAlive),
		Options:   p.payloadOptions(batch),
	}, timeout)
	if err != nil {
		return "", err
	}

	var resp ollamaChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", common.WrapError(common.ErrCodeLLMInvalid, "ollama chat 响应解码失败", err)
	}
	if resp.Message.Content == "" {
		return "", common.NewError(common.ErrCodeLLMInvalid, "ollama chat 返回空内容")
	}
	return resp.Message.Content, nil
}

func (p *OllamaProvider) generate(ctx context.Context, prompt string, batch bool) (string, error) {
	opts := p.payloadOptions(batch)
	body, err := p.post(ctx, "/api/generate", ollamaGenerateRequest{
		Model:     p.model,
		Prompt:    fmt.Sprintf("System: %s\n\nUser: %s", systemPrompt, prompt),
		Stream:    false,
		KeepAlive: keepAliveValue(modelKeepAlive),
		Options:   &opts,
	}, ollamaSingleTimeout+30*time.Second) // Generate API 通常更慢
	if err != nil {
		return "", err
	}

	var resp ollamaGenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", common.WrapError(common.ErrCodeLLMInvalid, "ollama generate 响应解码失败", err)
	}
	// 部分模型把全部输出塞进 thinking 字段
	if strings.TrimSpace(resp.Response) == "" && resp.Thinking != "" {
		return resp.Thinking, nil
	}
	if resp.Response == "" {
		return "", common.NewError(common.ErrCodeLLMInvalid, "ollama generate 返回空内容")
	}
	return resp.Response, nil
}

// Warmup 发一个最小请求把模型加载进显存/内存
func (p *OllamaProvider) Warmup(ctx context.Context) error {
	p.mu.Lock()
	if p.warmed {
		p.mu.Unlock()
		log.Printf("[llm] ✅ 模型已预热")
		return nil
	}
	p.mu.Unlock()

	log.Printf("[llm] 🔥 正在预热模型 %s（首次加载可能需要 1-3 分钟）...", p.model)
	start := time.Now()

	_, err := p.post(ctx, "/api/generate", ollamaGenerateRequest{
		Model:     p.model,
		Prompt:    "Hi",
		Stream:    false,
		KeepAlive: keepAliveValue(modelKeepAlive),
		Options:   &ollamaOptionsPayload{NumPredict: 1, NumCtx: 512},
	}, ollamaWarmupTimeout)
	if err != nil {
		log.Printf("[llm] ❌ 模型预热失败: %v", err)
		return err
	}

	p.mu.Lock()
	p.warmed = true
	p.mu.Unlock()
	log.Printf("[llm] ✅ 预热完成，耗时 %.1fs（保活 %d 分钟）",
		time.Since(start).Seconds(), int(modelKeepAlive.Minutes()))
	return nil
}

// Close 立即卸载模型释放显存
func (p *OllamaProvider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := p.post(ctx, "/api/generate", ollamaGenerateRequest{
		Model:     p.model,
		Prompt:    "",
		Stream:    false,
		KeepAlive: "0s",
	}, 10*time.Second)
	if err != nil {
		log.Printf("[llm] ⚠️ 模型卸载失败: %v", err)
		return err
	}

	p.mu.Lock()
	p.warmed = false
	p.mu.Unlock()
	log.Printf("[llm] ✅ 模型 %s 已卸载", p.model)
	return nil
}

// post 发请求并把传输层/HTTP 层错误归档成带错误码的 AppError
func (p *OllamaProvider) post(ctx context.Context, path string, payload any, timeout time.Duration) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "ollama 请求编码失败", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "ollama 请求构造失败", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "AI-World-Tracker/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.NewError(common.ErrCodeRateLimit, "ollama 返回 429")
	default:
		return nil, common.NewError(common.ErrCodeLLMAPI, fmt.Sprintf("ollama 返回 %d", resp.StatusCode))
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, classifyTransportError(err)
	}
	return buf.Bytes(), nil
}

// classifyTransportError 网络错误分流：超时 vs 连不上
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		log.Printf("[llm] ⏱️ Ollama 请求超时（模型首次加载/内存不足/批量过大均有可能）")
		return common.WrapError(common.ErrCodeLLMTimeout, "ollama 请求超时", err)
	}
	log.Printf("[llm] 🔌 无法连接 Ollama 服务，请确认 ollama serve 正在运行")
	return common.WrapError(common.ErrCodeLLMConnection, "ollama 连接失败", err)
}

func keepAliveValue(d time.Duration) string {
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
