package port

import (
	"context"

	"ai-world-tracker/internal/domain"
)

// Classifier (分类员): 判定一条内容属于六大分类中的哪一类
// 规则分类器和 LLM 分类器都实现这个接口，可以互相兜底
type Classifier interface {
	Classify(ctx context.Context, item *domain.Item) (*domain.Classification, error)

	// 批量入口：顺序与输入一致，内部可以走批量 prompt 或并发
	ClassifyBatch(ctx context.Context, items []*domain.Item) ([]*domain.Classification, error)
}

// Evaluator (评估员): 给已分类的内容打重要性分
type Evaluator interface {
	Evaluate(item *domain.Item, cls *domain.Classification) (float64, domain.Breakdown)

	// RecordFeedback 在线学习入口：用户/下游的真实反馈回流到来源权威度
	RecordFeedback(source string, score float64)
}

// Provider (供应商): 对接某一家 LLM，只管送 prompt 拿文本
// 解析、缓存、熔断都在上层，Provider 保持最薄
type Provider interface {
	// Name 形如 "ollama/qwen3:8b"，写入缓存 key 和 classified_by
	Name() string

	// Complete 发送 prompt 取回原始文本。batch=true 时放宽输出 token 上限
	// 失败时返回带 common.ErrCode* 错误码的 AppError，供降级策略分流
	Complete(ctx context.Context, prompt string, batch bool) (string, error)

	// Warmup 预热模型（本地推理需要），云端实现可以直接返回 nil
	Warmup(ctx context.Context) error

	// Close 释放资源（本地实现卸载模型）
	Close() error
}

// Notifier (信使): 推送 critical 级内容到 IM (飞书/钉钉 webhook)
type Notifier interface {
	Notify(ctx context.Context, e *domain.Enriched) error
}

// Repository (仓库管理员): 负责存储和查询
type Repository interface {
	Save(ctx context.Context, rec *domain.Record) error

	// 判断是否已经处理过 (防重，key 为内容哈希)
	Exists(ctx context.Context, id string) (bool, error)

	// Search 标题/理由的模糊查询，MVP 阶段走 SQL LIKE
	Search(ctx context.Context, query string) ([]*domain.Record, error)

	// MarkNotified 推送成功后落标记，避免重复打扰
	MarkNotified(ctx context.Context, id string) error
}
