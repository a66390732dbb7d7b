package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ContentType
		ok       bool
	}{
		{"标准小写", "research", TypeResearch, true},
		{"大写归一化", "DEVELOPER", TypeDeveloper, true},
		{"前后空白", "  product  ", TypeProduct, true},
		{"market", "market", TypeMarket, true},
		{"leader", "leader", TypeLeader, true},
		{"community", "community", TypeCommunity, true},
		{"非法值", "gossip", "", false},
		{"空串", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ok := ParseContentType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, ct)
		})
	}
}

func TestAllContentTypes(t *testing.T) {
	types := AllContentTypes()

	assert.Equal(t, 6, len(types))
	assert.Equal(t, TypeResearch, types[0])
	assert.Equal(t, TypeCommunity, types[5])

	// 顺序必须稳定，下游按它做确定性遍历
	assert.Equal(t, types, AllContentTypes())
}

func TestEnriched_ToRecord(t *testing.T) {
	now := time.Now()

	e := &Enriched{
		Item: Item{
			Title:  "GPT-5 发布",
			Source: "openai blog",
			URL:    "https://openai.com/blog/gpt-5",
		},
		Classification: Classification{
			ContentType:     TypeProduct,
			Confidence:      0.92,
			SecondaryLabels: []ContentType{TypeMarket, TypeLeader},
			TechCategories:  []string{"LLM", "AGI"},
			Region:          "international",
			Reasoning:       "Major product launch",
			ClassifiedBy:    "llm:ollama/qwen3:8b",
			ClassifiedAt:    now,
			NeedsReview:     false,
		},
		Importance:      0.91,
		ImportanceLevel: "critical",
	}

	rec := e.ToRecord("hash-abc")

	assert.Equal(t, "hash-abc", rec.ID)
	assert.Equal(t, "GPT-5 发布", rec.Title)
	assert.Equal(t, "openai blog", rec.Source)
	assert.Equal(t, "product", rec.ContentType)
	assert.Equal(t, 0.92, rec.Confidence)
	assert.Equal(t, "market,leader", rec.SecondaryLabels)
	assert.Equal(t, "LLM,AGI", rec.TechCategories)
	assert.Equal(t, 0.91, rec.Importance)
	assert.Equal(t, "critical", rec.ImportanceLevel)
	assert.Equal(t, "llm:ollama/qwen3:8b", rec.ClassifiedBy)
	assert.Equal(t, now, rec.ClassifiedAt)
	assert.False(t, rec.Notified)
}

func TestEnriched_ToRecord_EmptyLists(t *testing.T) {
	e := &Enriched{
		Item:           Item{Title: "无标签条目", Source: "rss"},
		Classification: Classification{ContentType: TypeCommunity},
	}

	rec := e.ToRecord("hash-empty")

	assert.Equal(t, "", rec.SecondaryLabels)
	assert.Equal(t, "", rec.TechCategories)
}

func TestEnriched_RegionComesFromClassification(t *testing.T) {
	// Item.SourceRegion 只是采集器提示，入库和推送取分类器的最终判定
	e := &Enriched{
		Item:           Item{Title: "百度发布文心一言新版", Source: "36kr", SourceRegion: "domestic"},
		Classification: Classification{ContentType: TypeProduct, Region: "China"},
	}

	assert.Equal(t, "China", e.Region)
	assert.Equal(t, "China", e.ToRecord("hash-cn").Region)
}

func TestEnriched_IsCritical(t *testing.T) {
	tests := []struct {
		importance float64
		critical   bool
	}{
		{0.95, true},
		{0.85, true},
		{0.849, false},
		{0.50, false},
		{0, false},
	}

	for _, tt := range tests {
		e := &Enriched{Importance: tt.importance}
		assert.Equal(t, tt.critical, e.IsCritical(), "importance=%v", tt.importance)
	}
}
