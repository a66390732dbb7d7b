package llm

import (
	"errors"
	"log"
	"sync"
	"time"

	"ai-world-tracker/internal/common"
)

// Reason 降级原因，由 Provider 返回的错误码映射而来
type Reason string

const (
	ReasonTimeout    Reason = "timeout"
	ReasonConnection Reason = "connection_error"
	ReasonParse      Reason = "parse_error"
	ReasonInvalid    Reason = "invalid_response"
	ReasonAPI        Reason = "api_error"
	ReasonRateLimit  Reason = "rate_limit"
	ReasonModel      Reason = "model_error"
)

// reasonOf 把 Provider 错误映射到降级原因，未知错误按模型错误处理
func reasonOf(err error) Reason {
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		return ReasonModel
	}
	switch appErr.Code {
	case common.ErrCodeLLMTimeout:
		return ReasonTimeout
	case common.ErrCodeLLMConnection:
		return ReasonConnection
	case common.ErrCodeLLMParse:
		return ReasonParse
	case common.ErrCodeLLMInvalid:
		return ReasonInvalid
	case common.ErrCodeLLMAPI:
		return ReasonAPI
	case common.ErrCodeRateLimit:
		return ReasonRateLimit
	default:
		return ReasonModel
	}
}

// Action 降级决策
type Action string

const (
	ActionRetry    Action = "retry"     // 再试一次 LLM
	ActionQuick    Action = "quick"     // 快速放弃，立即走规则
	ActionFullRule Action = "full_rule" // 完整规则分类兜底
)

const (
	breakerThreshold   = 5                // 累计失败阈值
	breakerCooldown    = 60 * time.Second // 熔断打开时长
	rateLimitSleep     = 2 * time.Second
	parseRetryAttempts = 2
)

// fallbackStrategy 熔断 + 按原因分流的降级决策器
// 时钟和 sleep 可注入，测试里拨表针即可验证熔断开合
type fallbackStrategy struct {
	mu          sync.Mutex
	errorCounts map[Reason]int
	open        bool
	openedAt    time.Time

	nowFunc   func() time.Time
	sleepFunc func(time.Duration)
}

func newFallbackStrategy() *fallbackStrategy {
	return &fallbackStrategy{
		errorCounts: map[Reason]int{},
		nowFunc:     time.Now,
		sleepFunc:   time.Sleep,
	}
}

// allowLLM 熔断检查：打开满 60 秒后自动半开恢复
func (f *fallbackStrategy) allowLLM() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return true
	}
	if f.nowFunc().Sub(f.openedAt) > breakerCooldown {
		log.Printf("[llm] 🔄 熔断器关闭，恢复 LLM 调用")
		f.open = false
		f.errorCounts = map[Reason]int{}
		return true
	}
	return false
}

func (f *fallbackStrategy) recordError(reason Reason) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorCounts[reason]++

	total := 0
	for _, n := range f.errorCounts {
		total += n
	}
	if total >= breakerThreshold && !f.open {
		f.open = true
		f.openedAt = f.nowFunc()
		log.Printf("[llm] ⚠️ 累计 %d 次失败，熔断器打开", total)
	}
}

// recordSuccess 一次成功清空全部错误计数，熔断器若在打开状态立即关闭
func (f *fallbackStrategy) recordSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.open {
		log.Printf("[llm] 🔄 调用成功，熔断器关闭")
		f.open = false
		f.openedAt = time.Time{}
	}
	if len(f.errorCounts) > 0 {
		f.errorCounts = map[Reason]int{}
	}
}

// nextAction 按原因决定下一步
// 超时不计入熔断计数（多半是模型在加载，不代表服务坏了）
func (f *fallbackStrategy) nextAction(reason Reason) Action {
	switch reason {
	case ReasonTimeout:
		return ActionQuick
	case ReasonConnection, ReasonAPI:
		f.recordError(reason)
		f.mu.Lock()
		open := f.open
		f.mu.Unlock()
		if open {
			return ActionFullRule
		}
		return ActionRetry
	case ReasonParse, ReasonInvalid:
		// 计数由最终失败时的 recordError 推进，这里只读
		f.mu.Lock()
		count := f.errorCounts[reason]
		f.mu.Unlock()
		if count < parseRetryAttempts {
			return ActionRetry
		}
		return ActionFullRule
	case ReasonRateLimit:
		f.sleepFunc(rateLimitSleep)
		return ActionRetry
	default:
		return ActionFullRule
	}
}
