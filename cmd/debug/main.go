package main

import (
	"context"
	"fmt"
	"log"

	"ai-world-tracker/internal/adapter/importance"
	"ai-world-tracker/internal/adapter/rules"
	"ai-world-tracker/internal/domain"
)

// 调试工具：对几条代表性样本跑完整的规则分类和重要性评估，
// 打印各维度拆解，方便调关键词表和权重
func main() {
	classifier := rules.New()
	evaluator := importance.New("")

	samples := []*domain.Item{
		{
			Title:     "Attention Is All You Need: A Retrospective",
			Summary:   "A new arXiv paper revisits the transformer architecture with benchmark results",
			Source:    "arxiv",
			URL:       "https://arxiv.org/abs/2508.01234",
			Published: "2026-08-30",
		},
		{
			Title:   "vLLM v0.9 released with speculative decoding support",
			Summary: "Open source inference framework ships a major update on GitHub",
			Source:  "github",
			URL:     "https://github.com/vllm-project/vllm",
			Stars:   45000,
		},
		{
			Title:   "OpenAI announces GPT-5 with agentic capabilities",
			Summary: "The company launches its new flagship model, available in ChatGPT and the API",
			Source:  "openai blog",
			URL:     "https://openai.com/blog/gpt-5",
		},
		{
			Title:   "Anthropic raises $10B at $300B valuation",
			Summary: "New funding round led by major investors to scale AI infrastructure",
			Source:  "techcrunch",
			URL:     "https://techcrunch.com/anthropic-funding",
		},
		{
			Title:   `Sam Altman says "AGI is closer than most people think" in new interview`,
			Summary: "The OpenAI CEO shared his views on the timeline to AGI",
			Source:  "twitter",
		},
		{
			Title:    "What's your favorite local LLM setup? Weekly discussion thread",
			Summary:  "Community discussion about running models at home",
			Source:   "reddit",
			Score:    850,
			Comments: 420,
		},
		{
			Title:   "百度发布文心一言 5.0，推理能力大幅提升",
			Summary: "百度公司正式发布新一代大语言模型",
			Source:  "机器之心",
		},
	}

	ctx := context.Background()
	fmt.Println("🔍 调试模式：规则分类 + 重要性评估")
	fmt.Println()

	for i, item := range samples {
		cls, err := classifier.Classify(ctx, item)
		if err != nil {
			log.Printf("⚠️ 样本 #%d 分类失败: %v", i+1, err)
			continue
		}

		score, breakdown := evaluator.Evaluate(item, cls)
		level, emoji := importance.Level(score)

		fmt.Printf("样本 #%d: %s\n", i+1, item.Title)
		fmt.Printf("  分类: %s (置信度 %.2f)", cls.ContentType, cls.Confidence)
		if len(cls.SecondaryLabels) > 0 {
			fmt.Printf("  次级: %v", cls.SecondaryLabels)
		}
		fmt.Println()
		fmt.Printf("  地区: %s | AI相关性: %.2f | 技术领域: %v\n",
			cls.Region, cls.AIRelevance, cls.TechCategories)
		fmt.Printf("  %s 重要性: %.3f (%s)\n", emoji, score, level)
		fmt.Printf("     权威度 %.2f | 时效 %.2f | 置信 %.2f | 相关 %.2f | 热度 %.2f | AI系数 %.2f\n",
			breakdown.SourceAuthority, breakdown.Recency, breakdown.Confidence,
			breakdown.Relevance, breakdown.Engagement, breakdown.AIMultiplier)
		if cls.NeedsReview {
			fmt.Println("     ⚠️ 置信度偏低，建议人工复核")
		}
		fmt.Println()
	}
}
