package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-world-tracker/internal/adapter/importance"
	"ai-world-tracker/internal/adapter/llm"
	"ai-world-tracker/internal/adapter/notify"
	"ai-world-tracker/internal/adapter/repository"
	"ai-world-tracker/internal/adapter/rules"
	"ai-world-tracker/internal/config"
	"ai-world-tracker/internal/domain"
	"ai-world-tracker/internal/port"
	"ai-world-tracker/internal/service"
)

func main() {
	// 1. 命令行参数
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	mode := flag.String("mode", "run", "运行模式: run (处理) 或 search (搜索)")
	input := flag.String("input", "", "待处理内容的 JSON 文件 (仅在 run 模式下有效)")
	query := flag.String("q", "", "搜索关键词 (仅在 search 模式下有效)")
	interval := flag.Int("interval", 0, "定时执行间隔（分钟），0表示只执行一次")
	clearCache := flag.Bool("clear-cache", false, "清空 LLM 分类缓存后退出")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}

	// 2. 装配分类器和评估器
	classifier, cleanup := buildClassifier(cfg)
	defer cleanup()

	if *clearCache {
		if llmCls, ok := classifier.(*llm.Classifier); ok {
			llmCls.ClearCache()
		}
		return
	}

	learningFile := ""
	if cfg.Importance.LearningEnabled {
		learningFile = cfg.Importance.LearningFile
	}
	evaluator := importance.New(learningFile)
	defer func() {
		if err := evaluator.SaveLearning(); err != nil {
			log.Printf("⚠️ 学习数据保存失败: %v", err)
		}
	}()

	// 3. 可选依赖：存储和推送
	var store port.Repository
	if cfg.Database.DSN != "" {
		pg, err := repository.NewPostgresRepo(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("❌ DB 初始化失败: %v", err)
		}
		store = pg
	} else {
		log.Println("⚠️ 未配置数据库，跳过持久化")
	}

	var notifier port.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhook(cfg.Notify.WebhookURL)
	}

	pipeline := service.NewPipeline(classifier, evaluator, store, notifier, cfg.Database.SaveThreshold)

	// 4. 根据模式分流
	switch *mode {
	case "search":
		runSearch(pipeline, *query)
	case "run":
		if *interval > 0 {
			runScheduled(pipeline, *input, *interval)
		} else {
			runOnce(pipeline, *input)
		}
		if ls := evaluator.LearningStats(); ls.TotalSamples > 0 {
			fmt.Printf("📚 来源学习: 跟踪 %d 个来源，%d 个已启用学习，累计 %d 条反馈\n",
				ls.TotalSourcesTracked, ls.LearnedSources, ls.TotalSamples)
		}
	default:
		fmt.Println("❌ 未知模式，请使用 -mode=run 或 -mode=search")
	}
}

// buildClassifier 按配置装配分类器，返回退出时的清理函数
func buildClassifier(cfg *config.Config) (port.Classifier, func()) {
	if cfg.Classifier.Mode == "rule" {
		return rules.New(), func() {}
	}

	provider, gpuOn := buildProvider(cfg)

	cls := llm.New(llm.Options{
		Provider:        provider,
		CacheFile:       cfg.LLM.CacheFile,
		CacheEnabled:    cfg.LLM.CacheEnabled,
		Workers:         cfg.LLM.Workers,
		BatchSize:       cfg.LLM.BatchSize,
		UseBatchAPI:     cfg.LLM.BatchMode == "batch",
		GPUAccelerated:  gpuOn,
		ReviewThreshold: cfg.Classifier.ReviewThreshold,
	})

	cleanup := func() {
		cls.Cleanup()
		if err := provider.Close(); err != nil {
			log.Printf("⚠️ LLM 资源释放失败: %v", err)
		}
	}
	return cls, cleanup
}

// buildProvider 按供应商配置创建 LLM 接入
func buildProvider(cfg *config.Config) (port.Provider, bool) {
	switch cfg.LLM.Provider {
	case "ollama":
		provider, gpuOn := llm.SetupOllama(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.GPU)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.CheckHealth(ctx); err != nil {
			// 不致命：熔断器会把请求路由到规则分类器
			log.Printf("⚠️ Ollama 服务不可达，将降级到规则分类: %v", err)
		}
		return provider, gpuOn
	case "openai":
		return llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model), false
	case "azure":
		provider, err := llm.NewAzureOpenAI(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, "")
		if err != nil {
			log.Fatalf("❌ Azure OpenAI 初始化失败: %v", err)
		}
		return provider, false
	case "gemini":
		provider, err := llm.NewGemini(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			log.Fatalf("❌ Gemini 初始化失败: %v", err)
		}
		return provider, false
	default:
		log.Fatalf("❌ 未知 LLM 供应商: %s", cfg.LLM.Provider)
		return nil, false
	}
}

// runScheduled 定时执行模式，收到信号后优雅退出
func runScheduled(pipeline *service.Pipeline, input string, interval int) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	defer ticker.Stop()

	fmt.Printf("⏰ 定时执行模式已启动，每 %d 分钟执行一次\n", interval)
	fmt.Println("按下 Ctrl+C 可以优雅停止程序")

	// 立即执行一次
	runOnce(pipeline, input)

	for {
		select {
		case <-ticker.C:
			runOnce(pipeline, input)
		case <-sigChan:
			fmt.Println("\n👋 收到停止信号，正在退出...")
			return
		}
	}
}

// runOnce 执行一次完整处理，整体超时 10 分钟
func runOnce(pipeline *service.Pipeline, input string) {
	items, err := loadItems(input)
	if err != nil {
		log.Printf("❌ 读取输入失败: %v", err)
		return
	}
	if len(items) == 0 {
		fmt.Println("📭 没有待处理内容。用 -input=items.json 指定输入文件。")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, _, err := pipeline.Process(ctx, items); err != nil {
		log.Printf("❌ 处理失败: %v", err)
	}
}

// loadItems 读取 JSON 数组格式的待处理内容
func loadItems(path string) ([]*domain.Item, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []*domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return items, nil
}

// --- 搜索模式逻辑 ---
func runSearch(pipeline *service.Pipeline, query string) {
	if query == "" {
		fmt.Println("⚠️ 请输入搜索关键词。")
		fmt.Println("例如: -mode=search -q 'GPT-5' 或 -q '开源模型'")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := pipeline.Search(ctx, query)
	if err != nil {
		log.Fatalf("❌ 搜索失败: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("📭 没有匹配的内容。请先运行 -mode=run 处理一些内容！")
		return
	}

	fmt.Printf("\n================ [ 搜索结果: %s ] ================\n", query)
	for i, rec := range records {
		fmt.Printf("%d. [%s/%.2f] %s\n", i+1, rec.ContentType, rec.Importance, rec.Title)
		fmt.Printf("   来源: %s | 分类: %s | %s\n", rec.Source, rec.ClassifiedBy, rec.URL)
		if rec.Reasoning != "" {
			fmt.Printf("   %s\n", rec.Reasoning)
		}
	}
	fmt.Println("==================================================")
}
