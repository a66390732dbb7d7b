package importance

import (
	"math"
	"strings"
	"time"

	"ai-world-tracker/internal/domain"
)

// 维度权重，总和 1.0
const (
	weightAuthority  = 0.25
	weightRecency    = 0.25
	weightConfidence = 0.20
	weightRelevance  = 0.20
	weightEngagement = 0.10
)

// 重要性等级阈值
const (
	levelCritical = 0.85
	levelHigh     = 0.70
	levelMedium   = 0.55
	levelLow      = 0.40
)

// Evaluator 多维度重要性评估器
// 五个信号加权求和后乘以 AI 相关性系数；来源权威度带在线学习
type Evaluator struct {
	learning *learningState
	nowFunc  func() time.Time
}

// New 构造评估器并加载历史学习数据（文件缺失或损坏时静默降级为纯静态评分）
func New(learningFile string) *Evaluator {
	return &Evaluator{
		learning: newLearningState(learningFile),
		nowFunc:  time.Now,
	}
}

// Evaluate 计算重要性分数 [0,1] 和各维度拆解
func (e *Evaluator) Evaluate(item *domain.Item, cls *domain.Classification) (float64, domain.Breakdown) {
	contentType := "news"
	conf := 0.5
	aiRelevance := 0.7 // 采集内容默认偏 AI 相关
	if cls != nil {
		if cls.ContentType != "" {
			contentType = string(cls.ContentType)
		}
		conf = cls.Confidence
		if cls.AIRelevance > 0 {
			aiRelevance = cls.AIRelevance
		}
	}

	authority := e.sourceAuthority(item)
	recency := e.recency(item, contentType)

	// 低时效内容限制置信度贡献：旧闻不该因为分类很准就显得重要
	if recency <= 0.50 {
		if authority < 0.80 {
			conf = math.Min(conf, 0.60)
		} else {
			conf = math.Min(conf, 0.75)
		}
	} else if recency <= 0.70 && authority < 0.70 {
		conf = math.Min(conf, 0.75)
	}

	relevance := e.relevance(item, contentType)
	engagement := e.engagement(item)

	total := authority*weightAuthority +
		recency*weightRecency +
		conf*weightConfidence +
		relevance*weightRelevance +
		engagement*weightEngagement

	multiplier := aiMultiplier(aiRelevance)
	total *= multiplier

	breakdown := domain.Breakdown{
		SourceAuthority: round3(authority),
		Recency:         round3(recency),
		Confidence:      round3(conf),
		Relevance:       round3(relevance),
		Engagement:      round3(engagement),
		AIRelevance:     round3(aiRelevance),
		AIMultiplier:    round3(multiplier),
	}
	return round3(clamp(total, 0, 1)), breakdown
}

// RecordFeedback 在线学习入口：真实重要性结果回流到来源表现窗口
func (e *Evaluator) RecordFeedback(source string, score float64) {
	e.learning.record(source, score)
}

// SaveLearning 显式落盘，进程退出前调用
func (e *Evaluator) SaveLearning() error {
	return e.learning.save()
}

// LearningStats 学习状态统计
func (e *Evaluator) LearningStats() LearningStats {
	return e.learning.stats()
}

// Level 返回重要性等级和对应 emoji
func Level(score float64) (string, string) {
	switch {
	case score >= levelCritical:
		return "critical", "🔴"
	case score >= levelHigh:
		return "high", "🟠"
	case score >= levelMedium:
		return "medium", "🟡"
	case score >= levelLow:
		return "low", "🟢"
	default:
		return "minimal", "⚪"
	}
}

// sourceAuthority 静态权威度 + 动态学习混合
// 样本 ≥5 时启用学习均值，权重随样本数从 20% 增长到 40%
func (e *Evaluator) sourceAuthority(item *domain.Item) float64 {
	checkText := strings.ToLower(item.Source + " " + item.URL + " " + item.Author)

	static := defaultAuthority
	matched := ""
	for known, score := range sourceAuthorityScores {
		if strings.Contains(checkText, known) && score > static {
			static = score
			matched = known
		}
	}

	if matched != "" {
		if avg, count, ok := e.learning.lookup(matched); ok {
			dynWeight := math.Min(0.20+float64(count)*0.02, 0.40)
			return round3(static*(1-dynWeight) + avg*dynWeight)
		}
	}
	return static
}

// recency 指数衰减时效分：score = (1-floor)·e^(-rate·days) + floor
// 无日期或解析失败给中性 0.5，未来日期或当天给 1.0
func (e *Evaluator) recency(item *domain.Item, contentType string) float64 {
	if item.Published == "" {
		return 0.5
	}
	pub, ok := parseLooseDate(item.Published)
	if !ok {
		return 0.5
	}

	days := int(e.nowFunc().Sub(pub).Hours() / 24)
	if days <= 0 {
		return 1.0
	}

	rate, ok := typeDecayRates[contentType]
	if !ok {
		rate = defaultDecayRate
	}
	score := (1.0-recencyFloor)*math.Exp(-rate*float64(days)) + recencyFloor
	return round3(clamp(score, recencyFloor, 1.0))
}

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func parseLooseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// 宽松兜底：取前 10 个字符按日期解析
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// relevance 分层关键词相关度：突破 100% > 发布 90% > 技术 80% > 泛描述 60%
func (e *Evaluator) relevance(item *domain.Item, contentType string) float64 {
	title := strings.ToLower(item.Title)
	text := title + " " + strings.ToLower(item.Summary)

	score := 0.25
	matched := map[string]bool{}

	layers := []struct {
		keywords map[string]float64
		damping  float64
	}{
		{breakthroughKeywords, 1.0},
		{releaseKeywords, 0.9},
		{techKeywords, 0.8},
		{generalKeywords, 0.6},
	}
	for _, layer := range layers {
		layerScore := 0.0
		for kw, boost := range layer.keywords {
			if !matched[kw] && strings.Contains(text, kw) {
				layerScore += boost
				matched[kw] = true
			}
		}
		score += layerScore * layer.damping
	}

	for kw, penalty := range negativeRelevanceKeywords {
		if strings.Contains(text, kw) {
			score += penalty
		}
	}

	// 标题命中额外加分：标题权重高于正文
	titleBonus := 0.0
	for kw := range matched {
		if strings.Contains(title, kw) {
			titleBonus += 0.02
		}
	}
	score += math.Min(titleBonus, 0.10)

	multiplier, ok := typeRelevanceMultipliers[contentType]
	if !ok {
		multiplier = defaultTypeMultiplier
	}
	score *= multiplier

	return round3(clamp(score, 0.1, 1.0))
}

// engagement 多信号社交热度：各信号对数归一化后加权平均，多信号互相验证小幅加分
func (e *Evaluator) engagement(item *domain.Item) float64 {
	type signal struct {
		score  float64
		weight float64
	}
	var signals []signal

	add := func(value int, name string) {
		if value <= 0 {
			return
		}
		cfg := engagementSignals[name]
		v := float64(value)
		var s float64
		if v < cfg.low {
			s = math.Log(v+1) / math.Log(cfg.low+1) * 0.4
		} else {
			s = 0.4 + 0.6*math.Log(v/cfg.low+1)/math.Log(cfg.high/cfg.low+1)
		}
		signals = append(signals, signal{math.Min(s*cfg.weight, 1.0), cfg.weight})
	}

	add(item.Stars, "stars")
	add(item.Downloads, "downloads")
	if strings.Contains(strings.ToLower(item.Source), "reddit") {
		add(item.Score, "reddit")
	}
	add(item.Points, "hn")
	add(item.Likes, "likes")
	add(item.Comments, "comments")

	if len(signals) == 0 {
		return 0.5
	}

	totalWeight := 0.0
	weightedSum := 0.0
	for _, s := range signals {
		totalWeight += s.weight
		weightedSum += s.score
	}

	bonus := math.Min(float64(len(signals)-1), 3) * 0.03
	return round3(clamp(weightedSum/totalWeight+bonus, 0, 1))
}

// aiMultiplier 四段线性映射：高相关轻微加成，低相关大幅惩罚
func aiMultiplier(r float64) float64 {
	switch {
	case r >= 0.8:
		return 1.0 + (r-0.8)*0.25 // 1.00-1.05
	case r >= 0.5:
		return 0.85 + (r-0.5)*0.5 // 0.85-1.00
	case r >= 0.3:
		return 0.6 + (r-0.3)*1.25 // 0.60-0.85
	default:
		return 0.3 + r // 0.30-0.60
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
