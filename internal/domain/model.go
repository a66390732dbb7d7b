package domain

import (
	"strings"
	"time"
)

// ContentType 内容类型：六大分类，互斥
type ContentType string

const (
	TypeResearch  ContentType = "research"  // 学术研究、论文
	TypeDeveloper ContentType = "developer" // 开源项目、工具、框架
	TypeProduct   ContentType = "product"   // 产品发布、新功能
	TypeMarket    ContentType = "market"    // 融资、政策、行业动态
	TypeLeader    ContentType = "leader"    // 领袖言论、采访
	TypeCommunity ContentType = "community" // 社区讨论、热点
)

// AllContentTypes 返回全部六个分类（顺序固定，便于确定性遍历）
func AllContentTypes() []ContentType {
	return []ContentType{
		TypeResearch, TypeDeveloper, TypeProduct,
		TypeMarket, TypeLeader, TypeCommunity,
	}
}

// ParseContentType 解析分类字符串，非法值返回 false
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeResearch:
		return TypeResearch, true
	case TypeDeveloper:
		return TypeDeveloper, true
	case TypeProduct:
		return TypeProduct, true
	case TypeMarket:
		return TypeMarket, true
	case TypeLeader:
		return TypeLeader, true
	case TypeCommunity:
		return TypeCommunity, true
	}
	return "", false
}

// Item 代表采集器送来的一条原始内容
// 上游不提供稳定 ID，缓存去重使用内容哈希（见 llm.ContentHash）
type Item struct {
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	URL         string `json:"url,omitempty"`
	Author      string `json:"author,omitempty"`

	// 采集器可能已经打好的分类标签（六类之一时直接采纳）
	Category string `json:"category,omitempty"`

	// 发布时间：格式宽松（ISO8601 / RFC1123 / "2006-01-02" 等）
	Published string `json:"published,omitempty"`

	// 社交热度信号（缺省为 0 表示不存在）
	Stars     int `json:"stars,omitempty"`     // GitHub
	Downloads int `json:"downloads,omitempty"` // HuggingFace
	Score     int `json:"score,omitempty"`     // Reddit
	Points    int `json:"points,omitempty"`    // Hacker News
	Likes     int `json:"likes,omitempty"`
	Comments  int `json:"comments,omitempty"`

	// 采集器标注的地区提示，分类器在 Classification.Region 给出最终判定
	SourceRegion string `json:"region,omitempty"`
}

// Classification 一条内容的分类结果，规则分类器和 LLM 分类器共用同一契约
type Classification struct {
	ContentType     ContentType   `json:"content_type"`
	Confidence      float64       `json:"confidence"`
	SecondaryLabels []ContentType `json:"secondary_labels,omitempty"` // 最多 2 个，且不含主分类
	TechCategories  []string      `json:"tech_categories,omitempty"`
	Region          string        `json:"region,omitempty"`
	AIRelevance     float64       `json:"ai_relevance"`
	Reasoning       string        `json:"reasoning,omitempty"` // 仅 LLM 分类有
	IsVerified      bool          `json:"is_verified"`

	// 产生该结果的策略："rule" / "llm:<provider>/<model>" /
	// "llm:batch:..." / "rule:fallback:<reason>" / "rule:circuit_breaker"
	ClassifiedBy string    `json:"classified_by"`
	ClassifiedAt time.Time `json:"classified_at"`
	FromCache    bool      `json:"from_cache,omitempty"`
	NeedsReview  bool      `json:"needs_review,omitempty"`
}

// Breakdown 重要性分数的五维拆解，各维均在 [0,1]
type Breakdown struct {
	SourceAuthority float64 `json:"source_authority"`
	Recency         float64 `json:"recency"`
	Confidence      float64 `json:"confidence"`
	Relevance       float64 `json:"relevance"`
	Engagement      float64 `json:"engagement"`
	AIRelevance     float64 `json:"ai_relevance"`
	AIMultiplier    float64 `json:"ai_multiplier"`
}

// Enriched 分类+评分完成后的完整条目，交给下游（存储、推送、报表）
type Enriched struct {
	Item
	Classification
	Importance      float64   `json:"importance"`
	ImportanceLevel string    `json:"importance_level"`
	ImpBreakdown    Breakdown `json:"importance_breakdown"`
}

// Record 持久化到数据库的精简结构（去重 key 为内容哈希）
type Record struct {
	ID              string    `json:"id" gorm:"primaryKey"` // 内容哈希
	Title           string    `json:"title"`
	Source          string    `json:"source"`
	URL             string    `json:"url"`
	ContentType     string    `json:"content_type"`
	Confidence      float64   `json:"confidence"`
	SecondaryLabels string    `json:"secondary_labels"` // 逗号分隔
	TechCategories  string    `json:"tech_categories"`  // 逗号分隔
	Region          string    `json:"region"`
	Importance      float64   `json:"importance"`
	ImportanceLevel string    `json:"importance_level"`
	ClassifiedBy    string    `json:"classified_by"`
	ClassifiedAt    time.Time `json:"classified_at"`
	NeedsReview     bool      `json:"needs_review"`
	Notified        bool      `json:"notified"`
	Reasoning       string    `json:"reasoning" gorm:"type:text"`
}

// ToRecord 把富化条目转成存储结构
func (e *Enriched) ToRecord(id string) *Record {
	secondary := make([]string, 0, len(e.SecondaryLabels))
	for _, s := range e.SecondaryLabels {
		secondary = append(secondary, string(s))
	}
	return &Record{
		ID:              id,
		Title:           e.Title,
		Source:          e.Source,
		URL:             e.URL,
		ContentType:     string(e.ContentType),
		Confidence:      e.Confidence,
		SecondaryLabels: strings.Join(secondary, ","),
		TechCategories:  strings.Join(e.TechCategories, ","),
		Region:          e.Region,
		Importance:      e.Importance,
		ImportanceLevel: e.ImportanceLevel,
		ClassifiedBy:    e.ClassifiedBy,
		ClassifiedAt:    e.ClassifiedAt,
		NeedsReview:     e.NeedsReview,
		Reasoning:       e.Reasoning,
	}
}

// IsCritical 判断是否为最高重要性等级（触发即时推送）
func (e *Enriched) IsCritical() bool {
	return e.Importance >= 0.85
}
