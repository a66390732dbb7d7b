package rules

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"ai-world-tracker/internal/domain"
)

// 评分参数：经验值，集中放这里便于调参
const (
	titleWeight        = 1.5 // 标题关键词权重倍数
	phraseBonus        = 3.0 // 每条短语模式命中加分
	diversityBonus     = 0.5 // 每个不同关键词的多样性加分
	overrideConf       = 0.95
	reviewThreshold    = 0.6  // 低于此置信度标记人工复核
	highScoreBar       = 15.0 // 超过此分数提升置信度
	secondaryMinScore  = 3.0
	secondaryRatio     = 0.5
	forcedSecondaryBar = 5.0 // 强制规则后补充次要标签的门槛
)

// Classifier 规则分类器：纯关键词+模式评分，无网络调用，完全确定
type Classifier struct {
	nowFunc func() time.Time
}

func New() *Classifier {
	return &Classifier{nowFunc: time.Now}
}

// Classify 对单条内容做完整分类（主分类、次要标签、技术领域、地区、AI 相关性）
// 永不返回错误：无匹配时退回低置信度默认分类
func (c *Classifier) Classify(_ context.Context, item *domain.Item) (*domain.Classification, error) {
	cls := &domain.Classification{
		AIRelevance:  round3(c.aiRelevance(item)),
		ClassifiedBy: "rule",
		ClassifiedAt: c.nowFunc(),
	}

	// 采集器已打好六类标签时直接采纳
	if ct, ok := domain.ParseContentType(item.Category); ok {
		cls.ContentType = ct
		cls.Confidence = 1.0
		cls.TechCategories = c.techCategories(item)
		cls.Region = c.Region(item)
		return cls, nil
	}

	ct, conf, secondary := c.classifyContentType(item)
	cls.ContentType = ct
	cls.Confidence = round3(conf)
	cls.SecondaryLabels = secondary
	cls.TechCategories = c.techCategories(item)
	cls.Region = c.Region(item)
	cls.NeedsReview = conf < reviewThreshold
	return cls, nil
}

// ClassifyBatch 逐条分类并打印统计
func (c *Classifier) ClassifyBatch(ctx context.Context, items []*domain.Item) ([]*domain.Classification, error) {
	log.Printf("[rules] 🔄 正在对 %d 条内容进行规则分类...", len(items))

	results := make([]*domain.Classification, len(items))
	stats := map[domain.ContentType]int{}
	lowConf := 0
	var sumConf float64
	for i, item := range items {
		cls, _ := c.Classify(ctx, item)
		results[i] = cls
		stats[cls.ContentType]++
		sumConf += cls.Confidence
		if cls.Confidence < reviewThreshold {
			lowConf++
		}
	}

	if len(items) > 0 {
		log.Printf("[rules] ✅ 规则分类完成！研究: %d | 开发者: %d | 产品: %d | 市场: %d | 领袖: %d | 社区: %d",
			stats[domain.TypeResearch], stats[domain.TypeDeveloper], stats[domain.TypeProduct],
			stats[domain.TypeMarket], stats[domain.TypeLeader], stats[domain.TypeCommunity])
		log.Printf("[rules] 📊 平均置信度: %.1f%% | 低置信度(<60%%): %d 条",
			sumConf/float64(len(items))*100, lowConf)
	}
	return results, nil
}

// classifyContentType 核心评分流程，返回 (主分类, 置信度, 次要标签)
func (c *Classifier) classifyContentType(item *domain.Item) (domain.ContentType, float64, []domain.ContentType) {
	title := strings.ToLower(item.Title)
	summary := strings.ToLower(strings.TrimSpace(item.Summary + " " + item.Description))
	fullText := title + " " + summary
	source := strings.ToLower(item.Source)

	negScore := detectNegativeContext(fullText)
	trust := sourceTrust(source, fullText)

	// 绝对优先规则：GitHub 一律开发者，arXiv 一律研究
	if strings.Contains(source, "github") || strings.Contains(fullText, "github.com") {
		return domain.TypeDeveloper, overrideConf, forcedSecondary(fullText, domain.TypeDeveloper)
	}
	if strings.Contains(source, "arxiv") || strings.Contains(fullText, "arxiv.org") {
		return domain.TypeResearch, overrideConf, forcedSecondary(fullText, domain.TypeResearch)
	}

	hasCompany := containsAny(fullText, companyIndicators) || containsAny(source, companyIndicators)
	hasProductName := containsAny(fullText, productNames)

	// 标题/正文分离加权评分
	scores := map[domain.ContentType]float64{}
	for _, cat := range scoredCategories {
		kw := keywordTable(cat)
		scores[cat] = weightedScore(title, kw)*titleWeight + weightedScore(summary, kw)
	}

	// 短语模式加分
	for cat, patterns := range phrasePatterns {
		for _, p := range patterns {
			if p.MatchString(fullText) {
				scores[cat] += phraseBonus
			}
		}
	}

	applySourcePrior(scores, source)

	// 产品类加成：公司名或产品名触发更强加成
	if (hasCompany || hasProductName) && scores[domain.TypeProduct] > 0 {
		scores[domain.TypeProduct] *= 2.5
	} else if scores[domain.TypeProduct] > 0 {
		scores[domain.TypeProduct] *= 1.3
	}

	// 研究类严格限制：无强指标大幅降分（多为蹭论文热度的产品新闻）
	hasResearchIndicator := containsAny(fullText, researchStrongIndicators)
	if !hasResearchIndicator {
		scores[domain.TypeResearch] *= 0.3
		if hasCompany || hasProductName {
			scores[domain.TypeResearch] *= 0.5
		}
	}

	// 领袖类双条件：言论动词 + 领袖角色同时出现才算
	hasVerb := containsAny(fullText, leaderVerbs)
	hasRole := containsAny(fullText, leaderRoles)
	switch {
	case hasVerb && hasRole:
		scores[domain.TypeLeader] = math.Max(scores[domain.TypeLeader]*3.0, 15.0)
		scores[domain.TypeMarket] *= 0.7
		scores[domain.TypeProduct] *= 0.8
	case scores[domain.TypeLeader] > 0:
		if hasVerb || hasRole {
			scores[domain.TypeLeader] *= 0.4
		} else {
			scores[domain.TypeLeader] *= 0.1
		}
	}

	// 否定词影响：市场类受传闻影响较小
	if negScore > 0 {
		factor := math.Max(0.2, 1-negScore*0.15)
		scores[domain.TypeProduct] *= factor
		scores[domain.TypeMarket] *= factor + 0.2
	}

	// 可信来源加成
	if trust > 0 {
		scores[domain.TypeProduct] *= 1 + trust*0.3
		scores[domain.TypeResearch] *= 1 + trust*0.2
	}

	winner, winnerScore := argmax(scores)

	// 全零分：按公司/产品名或来源先验选默认分类
	if winnerScore == 0 {
		if hasCompany || hasProductName {
			return domain.TypeProduct, 0.3, nil
		}
		prior := matchPrior(source)
		if prior == nil {
			prior = defaultPrior
		}
		cat, _ := argmax(prior)
		if cat != "" {
			return cat, 0.2, nil
		}
		return domain.TypeProduct, 0.15, nil
	}

	return winner, confidence(scores, winner), secondaryLabels(scores, winner)
}

// weightedScore 词频加权评分：weight × (1 + ln(count))，外加多样性加分
func weightedScore(text string, keywords map[string]int) float64 {
	if text == "" {
		return 0
	}
	score := 0.0
	matched := 0
	for kw, weight := range keywords {
		count := strings.Count(text, kw)
		if count > 0 {
			score += float64(weight) * (1 + math.Log(float64(count)))
			matched++
		}
	}
	return score + float64(matched)*diversityBonus
}

// applySourcePrior 来源先验加成：高先验分类最多 +50%
func applySourcePrior(scores map[domain.ContentType]float64, source string) {
	prior := matchPrior(source)
	if prior == nil {
		prior = defaultPrior
	}
	for cat, p := range prior {
		if _, ok := scores[cat]; ok {
			scores[cat] *= 1 + p*0.5
		}
	}
	// 研究先验很低的来源（新闻媒体等）额外惩罚研究分数
	if prior[domain.TypeResearch] < 0.2 {
		scores[domain.TypeResearch] *= 0.7
	}
}

func matchPrior(source string) map[domain.ContentType]float64 {
	for _, sp := range sourcePriors {
		if strings.Contains(source, sp.key) {
			return sp.priors
		}
	}
	return nil
}

// detectNegativeContext 否定强度 [0,5]：否定词靠近核心动作动词时全额计分
func detectNegativeContext(text string) float64 {
	score := 0.0
	for word, weight := range negativeWeights {
		pos := 0
		for {
			idx := strings.Index(text[pos:], word)
			if idx < 0 {
				break
			}
			abs := pos + idx
			start := abs - 40
			if start < 0 {
				start = 0
			}
			end := abs + 40
			if end > len(text) {
				end = len(text)
			}
			if containsAny(text[start:end], actionWords) {
				score += weight
			} else {
				score += weight * 0.5
			}
			pos = abs + len(word)
		}
	}
	return math.Min(5.0, score)
}

func sourceTrust(source, text string) float64 {
	trust := 0.0
	for _, marker := range trustedSources {
		if strings.Contains(source, marker) || strings.Contains(text, marker) {
			trust += 0.2
		}
	}
	return math.Min(1.0, trust)
}

// confidence 置信度 = 分数占比 × 0.6 + 领先差距 × 0.4，夹在 [0.1, 0.99]
func confidence(scores map[domain.ContentType]float64, winner domain.ContentType) float64 {
	first := scores[winner]
	if first == 0 {
		return 0.1
	}

	second := 0.0
	for cat, s := range scores {
		if cat != winner && s > second {
			second = s
		}
	}

	scoreRatio := first / (first + second)
	gapRatio := (first - second) / first
	conf := scoreRatio*0.6 + gapRatio*0.4

	if first > highScoreBar {
		conf = math.Min(0.95, conf*1.1)
	}
	if second > 0 && first/second < 1.5 {
		conf *= 0.8
	}
	return math.Min(0.99, math.Max(0.1, conf))
}

// secondaryLabels 次要标签：分数 ≥ 主分类 50% 且 > 3，最多 2 个，按分数降序
func secondaryLabels(scores map[domain.ContentType]float64, primary domain.ContentType) []domain.ContentType {
	type catScore struct {
		cat   domain.ContentType
		score float64
	}
	primaryScore := scores[primary]
	var candidates []catScore
	for _, cat := range scoredCategories {
		if cat == primary {
			continue
		}
		if s := scores[cat]; s >= primaryScore*secondaryRatio && s > secondaryMinScore {
			candidates = append(candidates, catScore{cat, s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	var out []domain.ContentType
	for _, cs := range candidates {
		out = append(out, cs.cat)
		if len(out) >= 2 {
			break
		}
	}
	return out
}

// forcedSecondary 强制规则命中后补充次要标签（只看裸关键词分，门槛更高）
func forcedSecondary(text string, exclude domain.ContentType) []domain.ContentType {
	var out []domain.ContentType
	for _, cat := range scoredCategories {
		if cat == exclude {
			continue
		}
		if weightedScore(text, keywordTable(cat)) > forcedSecondaryBar {
			out = append(out, cat)
			if len(out) >= 2 {
				break
			}
		}
	}
	return out
}

// techCategories 技术领域多标签：无匹配时兜底 General AI
func (c *Classifier) techCategories(item *domain.Item) []string {
	text := strings.ToLower(item.Title + " " + item.Summary + " " + item.Description)
	var out []string
	for _, tc := range techCategories {
		if containsAny(text, tc.keywords) {
			out = append(out, tc.name)
		}
	}
	if len(out) == 0 {
		return []string{"General AI"}
	}
	return out
}

// Region 地区分类：已有 region 字段直接采纳
func (c *Classifier) Region(item *domain.Item) string {
	if item.SourceRegion != "" {
		return item.SourceRegion
	}
	text := strings.ToLower(item.Title + " " + item.Summary + " " + item.Description + " " + item.Source)

	best := ""
	bestScore := 0
	for _, re := range regionKeywords {
		score := 0
		for _, kw := range re.keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = re.name, score
		}
	}
	if best == "" {
		return "Global"
	}
	return best
}

// aiRelevance AI 相关性评分 [0,1]
// 正向：核心词 > 产品词 > 弱相关词；负向：体育/娱乐等非 AI 词扣分
func (c *Classifier) aiRelevance(item *domain.Item) float64 {
	title := strings.ToLower(item.Title)
	summary := strings.ToLower(strings.TrimSpace(item.Summary + " " + item.Description))
	source := strings.ToLower(item.Source)
	url := strings.ToLower(item.URL)

	// 标题出现两次以提高标题权重
	fullText := title + " " + title + " " + summary

	positive := 0.0
	for kw, weight := range aiCoreKeywords {
		if strings.Contains(fullText, kw) {
			positive += float64(weight)
			if strings.Contains(title, kw) {
				positive += float64(weight) * 0.5
			}
		}
	}
	for kw, weight := range aiProductKeywords {
		if strings.Contains(fullText, kw) {
			positive += float64(weight)
			if strings.Contains(title, kw) {
				positive += float64(weight) * 0.3
			}
		}
	}
	for kw, weight := range aiWeakKeywords {
		if strings.Contains(fullText, kw) {
			positive += float64(weight)
		}
	}

	sourceBonus := 0.0
	for _, s := range aiSources {
		if strings.Contains(source, s) || strings.Contains(url, s) {
			sourceBonus = 0.15
			break
		}
	}

	negative := 0.0
	for _, kw := range nonAIKeywords {
		if strings.Contains(fullText, kw) {
			negative += 2.0
			if strings.Contains(title, kw) {
				negative += 3.0
			}
		}
	}

	relevance := 0.0
	if positive > 0 {
		// 归一化：正向 15-20 分视为高相关
		relevance = math.Min(1.0, positive/20.0)
	}
	relevance = math.Min(1.0, relevance+sourceBonus)
	if negative > 0 {
		relevance = math.Max(0.0, relevance-math.Min(0.5, negative/20.0))
	}

	// 专业来源兜底
	if strings.Contains(url, "arxiv.org") || strings.Contains(source, "arxiv") {
		relevance = math.Max(relevance, 0.9)
	}
	if strings.Contains(source, "huggingface") || strings.Contains(url, "huggingface.co") {
		relevance = math.Max(relevance, 0.85)
	}
	return relevance
}

func argmax(scores map[domain.ContentType]float64) (domain.ContentType, float64) {
	var winner domain.ContentType
	best := math.Inf(-1)
	// 固定遍历顺序保证同分时结果稳定
	for _, cat := range scoredCategories {
		if s, ok := scores[cat]; ok && s > best {
			winner, best = cat, s
		}
	}
	if winner == "" {
		return "", 0
	}
	return winner, best
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
