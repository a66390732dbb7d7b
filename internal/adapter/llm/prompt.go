package llm

import (
	"fmt"
	"strings"

	"ai-world-tracker/internal/domain"
)

// 所有提供商统一使用的 system prompt
const systemPrompt = "你是一个专业的AI内容分类助手，请严格按照JSON格式输出分类结果。"

// 单条与批量共用的分类规则说明，调整措辞时两边务必同步
const classificationRules = `IMPORTANT: Use ONLY these exact values for content_type:
- research: Academic papers, scientific studies, technical reports from arxiv/conferences
- product: Product launches, new features, version releases, API announcements
- market: Funding news, investments, company analysis, industry competition (NO quote markers)
- developer: Tools, frameworks, models, open source projects, technical tutorials
- leader: Person's statement with quote markers ★★★ HIGHEST PRIORITY ★★★
- community: Forum discussions, social media trends, community events

★★★ LEADER CLASSIFICATION - HIGHEST PRIORITY ★★★
Quote marker words (ANY of these in title = leader):
  English: says, said, warns, predicts, believes, stated, told, claims, according to
  Chinese: 说, 表示, 称, 认为, 指出, 透露, 预测, 警告

Decision flow:
1. Title contains ANY quote marker word → "leader" (even if about company news)
2. Title format "Person Name: ..." or "人名：..." → "leader"
3. About famous person but NO quote marker → "market"

Examples:
- "Elon Musk says AI will change work" → leader ✓ (has "says")
- "Sam Altman predicts AGI timeline" → leader ✓ (has "predicts")
- "OpenAI CEO warns about AI risks" → leader ✓ (has "warns")
- "OpenAI launches new model" → product (no quote marker)
- "OpenAI faces competition from Google" → market (no quote marker)

Other rules:
- Items marked [PAPER] → research
- Items marked [PODCAST] → community
- Items marked [BLOG] → market or developer (based on content)

★★★ AI RELEVANCE SCORING (ai_relevance: 0.0-1.0) - BE STRICT ★★★
- 0.9-1.0: Core AI (LLM, deep learning, neural networks, model training, transformers)
- 0.7-0.9: Primary AI (ChatGPT, Claude, Midjourney, AI company core business)
- 0.5-0.7: Partial AI (tech news with explicit AI/ML mention as main topic)
- 0.2-0.5: Weak AI (smart devices without ML, automation without AI)
- 0.0-0.2: Non-AI (completely unrelated to AI)

★★★ NON-AI EXAMPLES (score 0.0-0.3) ★★★
- Car news: EVs, digital keys, smart cockpit (unless ML-based)
- Hardware: CPUs, GPUs, storage, displays, phones (unless AI chips)
- Software: Regular app updates, OS features (unless AI-powered)
- Gaming: Unless AI NPCs, AI content creation
- Finance: Unless AI company funding or AI trading
- Communication tech: NFC, Bluetooth, UWB, 5G = NOT AI

tech_fields options: LLM, Computer Vision, NLP, Robotics, AI Safety, MLOps, Multimodal, Audio/Speech, Healthcare AI, General AI`

// urlHints 按 URL 路径给模型类型提示（论文/播客/博客）
func urlHints(url string) string {
	var hints []string
	if strings.Contains(url, "arxiv.org") || strings.Contains(url, "/paper/") {
		hints = append(hints, "[PAPER]")
	}
	if strings.Contains(url, "/podcast/") || strings.Contains(url, "/podcasts/") {
		hints = append(hints, "[PODCAST]")
	}
	if strings.Contains(url, "/blog/") {
		hints = append(hints, "[BLOG]")
	}
	if len(hints) == 0 {
		return ""
	}
	return " " + strings.Join(hints, " ")
}

// truncate 按字符截断，避免把多字节中文截成半个
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func itemSummary(item *domain.Item) string {
	if item.Summary != "" {
		return item.Summary
	}
	return item.Description
}

// buildSinglePrompt 单条分类提示词
func buildSinglePrompt(item *domain.Item) string {
	var b strings.Builder
	b.WriteString("Classify this AI news item. Output ONLY valid JSON.\n\n")
	fmt.Fprintf(&b, "Title: %s%s\n", truncate(item.Title, 100), urlHints(item.URL))
	fmt.Fprintf(&b, "Summary: %s\n", truncate(itemSummary(item), 300))
	fmt.Fprintf(&b, "Source: %s\n\n", item.Source)
	b.WriteString(classificationRules)
	b.WriteString("\n\nOutput format (strict JSON, no extra text):\n")
	b.WriteString(`{"content_type": "TYPE", "confidence": 0.8, "ai_relevance": 0.85, "tech_fields": ["FIELD"], "reasoning": "brief reason"}`)
	return b.String()
}

// buildBatchPrompt 批量分类提示词：要求每条一行 JSON，id 从 1 开始
func buildBatchPrompt(items []*domain.Item) string {
	var lines []string
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("[%d] %s%s\n    Summary: %s\n    Source: %s",
			i+1,
			truncate(item.Title, 80), urlHints(item.URL),
			truncate(itemSummary(item), 120),
			truncate(item.Source, 20)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Classify these %d AI news items. Output ONLY valid JSON, one per line.\n\n", len(items))
	b.WriteString("Items to classify:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(classificationRules)
	fmt.Fprintf(&b, "\n\nOutput format - EXACTLY %d lines starting from id=1:\n", len(items))
	b.WriteString(`{"id":1,"content_type":"TYPE","confidence":0.8,"ai_relevance":0.85,"tech_fields":["FIELD"]}`)
	b.WriteString("\n")
	b.WriteString(`{"id":2,"content_type":"TYPE","confidence":0.8,"ai_relevance":0.85,"tech_fields":["FIELD"]}`)
	fmt.Fprintf(&b, "\n...continue until id=%d\n\n", len(items))
	fmt.Fprintf(&b, "START from id=1, classify ALL %d items:", len(items))
	return b.String()
}
