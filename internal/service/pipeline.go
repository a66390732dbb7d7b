package service

import (
	"context"
	"fmt"
	"log"

	"ai-world-tracker/internal/adapter/importance"
	"ai-world-tracker/internal/adapter/llm"
	"ai-world-tracker/internal/domain"
	"ai-world-tracker/internal/port"
)

// Pipeline 处理一批采集内容的完整链路：分类 → 评分 → 存储 → 推送
// store 和 notifier 允许为 nil，对应功能跳过
type Pipeline struct {
	classifier    port.Classifier
	evaluator     port.Evaluator
	store         port.Repository
	notifier      port.Notifier
	saveThreshold float64
}

// Stats 单次处理的统计
type Stats struct {
	Total     int
	ByType    map[domain.ContentType]int
	ByLevel   map[string]int
	Saved     int
	Skipped   int
	Notified  int
	Failed    int
}

// NewPipeline 创建处理管线
func NewPipeline(
	classifier port.Classifier,
	evaluator port.Evaluator,
	store port.Repository,
	notifier port.Notifier,
	saveThreshold float64,
) *Pipeline {
	return &Pipeline{
		classifier:    classifier,
		evaluator:     evaluator,
		store:         store,
		notifier:      notifier,
		saveThreshold: saveThreshold,
	}
}

// Process 执行一次完整处理
func (p *Pipeline) Process(ctx context.Context, items []*domain.Item) ([]*domain.Enriched, *Stats, error) {
	stats := &Stats{
		Total:   len(items),
		ByType:  map[domain.ContentType]int{},
		ByLevel: map[string]int{},
	}
	if len(items) == 0 {
		return nil, stats, nil
	}

	fmt.Printf("🚀 开始处理 %d 条内容...\n", len(items))

	// 1. 分类
	classifications, err := p.classifier.ClassifyBatch(ctx, items)
	if err != nil {
		return nil, stats, err
	}

	// 2. 评分 + 富化
	enriched := make([]*domain.Enriched, 0, len(items))
	for i, item := range items {
		cls := classifications[i]
		if cls == nil {
			stats.Failed++
			continue
		}

		score, breakdown := p.evaluator.Evaluate(item, cls)
		level, emoji := importance.Level(score)

		e := &domain.Enriched{
			Item:            *item,
			Classification:  *cls,
			Importance:      score,
			ImportanceLevel: level,
			ImpBreakdown:    breakdown,
		}
		enriched = append(enriched, e)

		stats.ByType[cls.ContentType]++
		stats.ByLevel[level]++

		fmt.Printf("%s [%s/%.2f] %s\n", emoji, cls.ContentType, score, item.Title)

		// 在线学习：最终重要性回流到来源表现窗口
		p.evaluator.RecordFeedback(item.Source, score)
	}

	// 3. 存储和推送
	if p.store != nil {
		p.persist(ctx, enriched, stats)
	}

	p.printSummary(stats)
	return enriched, stats, nil
}

// persist 存储达标条目并推送 critical 级，单条失败只记日志不中断
func (p *Pipeline) persist(ctx context.Context, enriched []*domain.Enriched, stats *Stats) {
	fmt.Println("💾 开始存储和推送...")
	for _, e := range enriched {
		select {
		case <-ctx.Done():
			fmt.Println("⏰ 执行时间过长，提前结束存储和推送阶段")
			return
		default:
		}

		if e.Importance < p.saveThreshold {
			stats.Skipped++
			continue
		}

		id := llm.ContentHash(&e.Item)

		exists, err := p.store.Exists(ctx, id)
		if err != nil {
			log.Printf("[pipeline] ❌ 检查 %q 是否存在时出错: %v，跳过该条", e.Title, err)
			continue
		}
		if exists {
			stats.Skipped++
			continue
		}

		if err := p.store.Save(ctx, e.ToRecord(id)); err != nil {
			log.Printf("[pipeline] ❌ 保存 %q 失败: %v", e.Title, err)
			continue
		}
		stats.Saved++

		if !e.IsCritical() {
			continue
		}
		if p.notifier == nil {
			log.Printf("[pipeline] ⚠️ 未配置通知通道，跳过推送 %q", e.Title)
			continue
		}

		if err := p.notifier.Notify(ctx, e); err != nil {
			log.Printf("[pipeline] ❌ 推送 %q 失败: %v", e.Title, err)
			continue
		}
		if err := p.store.MarkNotified(ctx, id); err != nil {
			log.Printf("[pipeline] ⚠️ 标记 %q 为已通知失败: %v", e.Title, err)
			continue
		}
		stats.Notified++
		fmt.Printf("📲 已推送 %s\n", e.Title)
	}
}

func (p *Pipeline) printSummary(stats *Stats) {
	fmt.Printf("🎉 本轮处理完成: 共 %d 条", stats.Total)
	if stats.Failed > 0 {
		fmt.Printf("，失败 %d 条", stats.Failed)
	}
	if p.store != nil {
		fmt.Printf("，入库 %d 条，推送 %d 条", stats.Saved, stats.Notified)
	}
	fmt.Println()
	for _, ct := range domain.AllContentTypes() {
		if n := stats.ByType[ct]; n > 0 {
			fmt.Printf("   %-10s %d\n", ct, n)
		}
	}
}

// Search 关键词查询已入库内容
func (p *Pipeline) Search(ctx context.Context, query string) ([]*domain.Record, error) {
	if p.store == nil {
		return nil, fmt.Errorf("未配置数据库，无法搜索")
	}
	return p.store.Search(ctx, query)
}
