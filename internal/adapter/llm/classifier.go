package llm

import (
	"context"
	"log"
	"sync"
	"time"

	"ai-world-tracker/internal/adapter/rules"
	"ai-world-tracker/internal/domain"
	"ai-world-tracker/internal/port"
)

const (
	defaultWorkers      = 3
	gpuWorkers          = 6 // GPU 模式下并发可以放开些
	defaultBatchSize    = 5
	singleCallAttempts  = 2 // 单条调用最多尝试次数（含首次）
	progressLogInterval = 5
)

// Stats 一个批次内的调用统计
type Stats struct {
	TotalCalls    int
	CacheHits     int
	LLMCalls      int
	FallbackCalls int
	Errors        int
	Fallbacks     []FallbackDetail
}

// FallbackDetail 单条降级记录，批次结束后汇总打印
type FallbackDetail struct {
	Title  string
	Source string
	Reason string
	Mode   string
}

// Options LLM 分类器装配参数
type Options struct {
	Provider        port.Provider
	Rules           *rules.Classifier
	CacheFile       string
	CacheEnabled    bool
	Workers         int     // <=0 按 GPU 自动定
	BatchSize       int     // <=1 时退化为并发单条模式
	UseBatchAPI     bool    // true: 批量 prompt；false: 并发单条
	GPUAccelerated  bool    // 决定默认并发数
	ReviewThreshold float64 // 低于此置信度标记人工复核
}

// Classifier LLM 增强分类器
// 缓存命中直接返回，失败按原因降级到规则分类器，熔断打开时整批走规则
type Classifier struct {
	provider  port.Provider
	rules     *rules.Classifier
	cache     *resultCache
	strategy  *fallbackStrategy
	workers   int
	batchSize int
	batchAPI  bool
	threshold float64
	nowFunc   func() time.Time

	statsMu sync.Mutex
	stats   Stats
}

func New(opts Options) *Classifier {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
		if opts.GPUAccelerated {
			workers = gpuWorkers
		}
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	threshold := opts.ReviewThreshold
	if threshold <= 0 {
		threshold = 0.45
	}
	ruleClassifier := opts.Rules
	if ruleClassifier == nil {
		ruleClassifier = rules.New()
	}

	c := &Classifier{
		provider:  opts.Provider,
		rules:     ruleClassifier,
		cache:     newResultCache(opts.CacheFile, opts.CacheEnabled),
		strategy:  newFallbackStrategy(),
		workers:   workers,
		batchSize: batchSize,
		batchAPI:  opts.UseBatchAPI,
		threshold: threshold,
		nowFunc:   time.Now,
	}
	log.Printf("[llm] 🤖 LLM 分类器就绪: %s | 并发 %d | 缓存 %s",
		opts.Provider.Name(), workers, onOff(opts.CacheEnabled))
	return c
}

func onOff(b bool) string {
	if b {
		return "开"
	}
	return "关"
}

// Classify 单条分类：缓存 → 熔断检查 → LLM（带重试）→ 规则兜底
func (c *Classifier) Classify(ctx context.Context, item *domain.Item) (*domain.Classification, error) {
	c.bumpStats(func(s *Stats) { s.TotalCalls++ })

	key := cacheKey(item, c.provider.Name())
	if entry, ok := c.cache.get(key); ok {
		c.bumpStats(func(s *Stats) { s.CacheHits++ })
		return c.fromCache(entry), nil
	}

	if !c.strategy.allowLLM() {
		c.bumpStats(func(s *Stats) { s.FallbackCalls++ })
		log.Printf("[llm] ⚠️ 熔断器打开，本条走规则分类")
		return c.ruleFallback(ctx, item, "circuit_breaker")
	}

	response, reason := c.callWithRetry(ctx, buildSinglePrompt(item), false)
	if response != "" {
		if result := parseSingle(response); result != nil {
			c.strategy.recordSuccess()
			c.bumpStats(func(s *Stats) { s.LLMCalls++ })
			cls := c.toClassification(item, result, "llm:"+c.provider.Name())
			c.cache.put(key, entryFrom(cls))
			return cls, nil
		}
		reason = ReasonParse
	}

	c.bumpStats(func(s *Stats) {
		s.FallbackCalls++
		s.Errors++
		s.Fallbacks = append(s.Fallbacks, FallbackDetail{
			Title:  truncate(item.Title, 50),
			Source: item.Source,
			Reason: string(reason),
			Mode:   "single",
		})
	})
	c.strategy.recordError(reason)
	log.Printf("[llm] ⚠️ LLM 分类失败，降级规则分类: %s (%s)", truncate(item.Title, 30), reason)
	return c.ruleFallback(ctx, item, "fallback:"+string(reason))
}

// callWithRetry 带降级决策的调用循环
func (c *Classifier) callWithRetry(ctx context.Context, prompt string, batch bool) (string, Reason) {
	var reason Reason
	for attempt := 1; attempt <= singleCallAttempts; attempt++ {
		out, err := c.provider.Complete(ctx, prompt, batch)
		if err == nil {
			return out, ""
		}
		reason = reasonOf(err)
		action := c.strategy.nextAction(reason)
		if action == ActionRetry && attempt < singleCallAttempts {
			log.Printf("[llm] 🔄 重试 LLM 调用 (%d/%d)...", attempt+1, singleCallAttempts)
			continue
		}
		return "", reason
	}
	return "", reason
}

// ClassifyBatch 批量分类：先分离缓存命中，剩余按配置走批量 prompt 或并发单条
// 返回顺序与输入一致
func (c *Classifier) ClassifyBatch(ctx context.Context, items []*domain.Item) ([]*domain.Classification, error) {
	c.statsMu.Lock()
	c.stats = Stats{} // 统计按批次清零
	c.statsMu.Unlock()

	results := make([]*domain.Classification, len(items))
	var uncached []*domain.Item
	var uncachedIdx []int

	for i, item := range items {
		if entry, ok := c.cache.get(cacheKey(item, c.provider.Name())); ok {
			c.bumpStats(func(s *Stats) { s.TotalCalls++; s.CacheHits++ })
			results[i] = c.fromCache(entry)
		} else {
			uncached = append(uncached, item)
			uncachedIdx = append(uncachedIdx, i)
		}
	}

	log.Printf("[llm] 🚀 开始 LLM 批量分类，共 %d 条", len(items))
	log.Printf("[llm] 🤖 提供商: %s", c.provider.Name())
	log.Printf("[llm] 📊 并发数: %d | 缓存命中: %d/%d", c.workers, len(items)-len(uncached), len(items))

	if len(uncached) == 0 {
		log.Printf("[llm] ✅ 全部命中缓存，无需调用 LLM")
		return results, nil
	}

	// 本地模型先预热，预热失败不致命（后续调用自己会报错降级）
	if err := c.provider.Warmup(ctx); err != nil {
		log.Printf("[llm] ⚠️ 预热失败，继续分类: %v", err)
	}

	start := c.nowFunc()
	if c.batchAPI && c.batchSize > 1 {
		log.Printf("[llm] 📦 批量 API 模式，每批 %d 条", c.batchSize)
		c.classifyBatchMode(ctx, uncached, uncachedIdx, results)
	} else {
		log.Printf("[llm] ⚡ 并发单条模式")
		c.classifyConcurrentMode(ctx, uncached, uncachedIdx, results)
	}

	if err := c.cache.flush(); err != nil {
		log.Printf("[llm] ❌ 缓存保存失败: %v", err)
	}
	c.printStats(c.nowFunc().Sub(start))
	return results, nil
}

// classifyBatchMode 一次 LLM 调用处理一批，解析失败的条目逐条重试
func (c *Classifier) classifyBatchMode(ctx context.Context, items []*domain.Item, indices []int, out []*domain.Classification) {
	total := len(items)
	totalBatches := (total + c.batchSize - 1) / c.batchSize

	for batchNum, offset := 1, 0; offset < total; batchNum, offset = batchNum+1, offset+c.batchSize {
		batchStart := c.nowFunc()
		end := offset + c.batchSize
		if end > total {
			end = total
		}
		chunk := items[offset:end]
		chunkIdx := indices[offset:end]

		var parsed []*llmResult
		response, _ := c.provider.Complete(ctx, buildBatchPrompt(chunk), true)
		if response != "" {
			parsed = parseBatch(response, len(chunk))
		}

		var retryItems []*domain.Item
		var retryIdx []int
		for i, item := range chunk {
			c.bumpStats(func(s *Stats) { s.TotalCalls++ })
			if parsed != nil && parsed[i] != nil {
				c.bumpStats(func(s *Stats) { s.LLMCalls++ })
				cls := c.toClassification(item, parsed[i], "llm:batch:"+c.provider.Name())
				c.cache.put(cacheKey(item, c.provider.Name()), entryFrom(cls))
				out[chunkIdx[i]] = cls
			} else {
				retryItems = append(retryItems, item)
				retryIdx = append(retryIdx, chunkIdx[i])
			}
		}

		if len(retryItems) > 0 {
			log.Printf("[llm] ⚠️ 批量解析失败 %d 条，逐条重试", len(retryItems))
			for i, item := range retryItems {
				out[retryIdx[i]] = c.retrySingle(ctx, item)
			}
		}

		completed := end
		elapsed := c.nowFunc().Sub(batchStart)
		if remaining := totalBatches - batchNum; remaining > 0 {
			eta := elapsed * time.Duration(remaining)
			log.Printf("[llm] 📈 进度 %d/%d (%d%%) | 本批 %.1fs | 预计剩余 %.0fs",
				completed, total, completed*100/total, elapsed.Seconds(), eta.Seconds())
		} else {
			log.Printf("[llm] 📈 进度 %d/%d (100%%) | 本批 %.1fs", completed, total, elapsed.Seconds())
		}
	}
}

// retrySingle 批量解析失败后的单条重试，再失败走规则
func (c *Classifier) retrySingle(ctx context.Context, item *domain.Item) *domain.Classification {
	response, err := c.provider.Complete(ctx, buildSinglePrompt(item), false)
	if err == nil {
		if result := parseSingle(response); result != nil {
			c.bumpStats(func(s *Stats) { s.LLMCalls++ })
			cls := c.toClassification(item, result, "llm:retry:"+c.provider.Name())
			c.cache.put(cacheKey(item, c.provider.Name()), entryFrom(cls))
			log.Printf("[llm] ✅ 单条重试成功: %s", truncate(item.Title, 40))
			return cls
		}
	}

	c.bumpStats(func(s *Stats) {
		s.FallbackCalls++
		s.Fallbacks = append(s.Fallbacks, FallbackDetail{
			Title:  truncate(item.Title, 50),
			Source: item.Source,
			Reason: "批量+单条重试均失败",
			Mode:   "batch_retry",
		})
	})
	cls, _ := c.rules.Classify(ctx, item)
	cls.ClassifiedBy = "rule:batch_fallback"
	return cls
}

// classifyConcurrentMode 固定 worker 池并发跑单条分类，结果按原索引落位
func (c *Classifier) classifyConcurrentMode(ctx context.Context, items []*domain.Item, indices []int, out []*domain.Classification) {
	type job struct {
		item *domain.Item
		idx  int
	}
	jobs := make(chan job)
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0
	lastTime := c.nowFunc()
	lastCount := 0
	total := len(items)

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				cls, _ := c.Classify(ctx, j.item)
				out[j.idx] = cls

				progressMu.Lock()
				completed++
				if completed%progressLogInterval == 0 {
					now := c.nowFunc()
					interval := now.Sub(lastTime).Seconds()
					count := completed - lastCount
					if interval > 0 && count > 0 {
						rate := float64(count) / interval
						eta := float64(total-completed) / rate
						log.Printf("[llm] 📈 进度 %d/%d (%d%%) | %.1f 条/秒 | 预计剩余 %.0fs",
							completed, total, completed*100/total, rate, eta)
					} else {
						log.Printf("[llm] 📈 进度 %d/%d (%d%%)", completed, total, completed*100/total)
					}
					lastTime = now
					lastCount = completed
				}
				progressMu.Unlock()
			}
		}()
	}

	for i, item := range items {
		jobs <- job{item: item, idx: indices[i]}
	}
	close(jobs)
	wg.Wait()
}

// ruleFallback 规则兜底并标注来由
func (c *Classifier) ruleFallback(ctx context.Context, item *domain.Item, tag string) (*domain.Classification, error) {
	cls, _ := c.rules.Classify(ctx, item)
	cls.ClassifiedBy = "rule:" + tag
	return cls, nil
}

// toClassification LLM 结果转领域分类，地区仍由规则分类器补充
func (c *Classifier) toClassification(item *domain.Item, r *llmResult, by string) *domain.Classification {
	return &domain.Classification{
		ContentType:    r.ContentType,
		Confidence:     r.Confidence,
		AIRelevance:    r.AIRelevance,
		TechCategories: r.TechFields,
		Region:         c.rules.Region(item),
		Reasoning:      r.Reasoning,
		IsVerified:     r.IsVerified,
		ClassifiedBy:   by,
		ClassifiedAt:   c.nowFunc(),
		NeedsReview:    r.Confidence < c.threshold,
	}
}

func (c *Classifier) fromCache(entry cacheEntry) *domain.Classification {
	ct, ok := domain.ParseContentType(entry.ContentType)
	if !ok {
		ct = domain.TypeMarket
	}
	by := entry.ClassifiedBy
	if by == "" {
		by = "llm:cached:" + c.provider.Name()
	}
	return &domain.Classification{
		ContentType:    ct,
		Confidence:     entry.Confidence,
		AIRelevance:    entry.AIRelevance,
		TechCategories: entry.TechFields,
		Region:         entry.Region,
		Reasoning:      entry.Reasoning,
		IsVerified:     entry.IsVerified,
		ClassifiedBy:   by,
		ClassifiedAt:   c.nowFunc(),
		FromCache:      true,
		NeedsReview:    entry.Confidence < c.threshold,
	}
}

func entryFrom(cls *domain.Classification) cacheEntry {
	return cacheEntry{
		ContentType:  string(cls.ContentType),
		Confidence:   cls.Confidence,
		AIRelevance:  cls.AIRelevance,
		TechFields:   cls.TechCategories,
		IsVerified:   cls.IsVerified,
		Reasoning:    cls.Reasoning,
		Region:       cls.Region,
		ClassifiedBy: cls.ClassifiedBy,
	}
}

func (c *Classifier) bumpStats(fn func(*Stats)) {
	c.statsMu.Lock()
	fn(&c.stats)
	c.statsMu.Unlock()
}

// Stats 当前批次统计快照
func (c *Classifier) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	s := c.stats
	s.Fallbacks = append([]FallbackDetail(nil), c.stats.Fallbacks...)
	return s
}

func (c *Classifier) printStats(elapsed time.Duration) {
	s := c.Stats()
	log.Printf("[llm] 📊 分类统计:")
	log.Printf("[llm]    总调用: %d", s.TotalCalls)
	hitRate := 0
	if s.TotalCalls > 0 {
		hitRate = s.CacheHits * 100 / s.TotalCalls
	}
	log.Printf("[llm]    缓存命中: %d (%d%%)", s.CacheHits, hitRate)
	log.Printf("[llm]    LLM: %d", s.LLMCalls)
	log.Printf("[llm]    降级: %d", s.FallbackCalls)
	log.Printf("[llm]    失败: %d", s.Errors)
	log.Printf("[llm]    耗时: %.1fs", elapsed.Seconds())
	if s.LLMCalls > 0 {
		log.Printf("[llm]    平均: %.1fs/条", elapsed.Seconds()/float64(s.LLMCalls))
	}
	if len(s.Fallbacks) > 0 {
		log.Printf("[llm] ⚠️ 降级明细 (%d 条):", len(s.Fallbacks))
		for i, d := range s.Fallbacks {
			log.Printf("[llm]    %d. [%s] %s", i+1, d.Mode, d.Title)
			log.Printf("[llm]       来源: %s | 原因: %s", d.Source, d.Reason)
		}
	}
}

// ClearCache 清空内存和文件缓存
func (c *Classifier) ClearCache() {
	c.cache.clear()
}

// Cleanup 退出前落盘缓存，由关停路径调用
func (c *Classifier) Cleanup() {
	if err := c.cache.flush(); err != nil {
		log.Printf("[llm] ⚠️ 缓存保存失败: %v", err)
		return
	}
	if c.cache.enabled {
		log.Printf("[llm] 💾 已保存 %d 条分类缓存", c.cache.size())
	}
}

var _ port.Classifier = (*Classifier)(nil)
