package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-world-tracker/internal/domain"
)

func TestParseSingle(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantType domain.ContentType
		wantNil  bool
	}{
		{
			name:     "标准JSON",
			response: `{"content_type": "research", "confidence": 0.9, "ai_relevance": 0.95, "tech_fields": ["LLM"], "reasoning": "arxiv paper"}`,
			wantType: domain.TypeResearch,
		},
		{
			name: "markdown代码块包裹",
			response: "```json\n" +
				`{"content_type": "developer", "confidence": 0.85}` + "\n```",
			wantType: domain.TypeDeveloper,
		},
		{
			name:     "JSON前后夹杂解释文字",
			response: `Sure! Here is the result: {"content_type":"product","confidence":0.8} Hope this helps.`,
			wantType: domain.TypeProduct,
		},
		{
			name:     "全角标点修补",
			response: `{"content_type": "market"，"confidence": 0.7}`,
			wantType: domain.TypeMarket,
		},
		{
			name:     "type字段别名",
			response: `{"type": "leader", "confidence": 0.8}`,
			wantType: domain.TypeLeader,
		},
		{
			name:     "同义词映射 paper",
			response: `{"content_type": "paper", "confidence": 0.8}`,
			wantType: domain.TypeResearch,
		},
		{
			name:     "带括号后缀的类别",
			response: `{"content_type": "developer(tools/models)", "confidence": 0.8}`,
			wantType: domain.TypeDeveloper,
		},
		{
			name:     "未知类别兜底market",
			response: `{"content_type": "banana", "confidence": 0.8}`,
			wantType: domain.TypeMarket,
		},
		{
			name:     "thinking输出末行给出类别",
			response: "Let me think about this.\nThe item describes an academic paper.\nFinal answer: research",
			wantType: domain.TypeResearch,
		},
		{
			name:     "空响应",
			response: "",
			wantNil:  true,
		},
		{
			name:     "完全无关的文字",
			response: "零二三四五",
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSingle(tt.response)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.ContentType)
		})
	}
}

func TestParseSingle_Defaults(t *testing.T) {
	got := parseSingle(`{"content_type": "research"}`)
	require.NotNil(t, got)
	assert.InDelta(t, 0.7, got.Confidence, 1e-9)
	assert.InDelta(t, 0.7, got.AIRelevance, 1e-9)
	assert.Equal(t, []string{"General AI"}, got.TechFields)
	assert.True(t, got.IsVerified)
}

func TestParseBatch(t *testing.T) {
	t.Run("每行一个JSON按id落位", func(t *testing.T) {
		resp := `{"id":1,"content_type":"research","confidence":0.9}
{"id":2,"content_type":"product","confidence":0.8}
{"id":3,"content_type":"developer","confidence":0.85}`
		got := parseBatch(resp, 3)
		require.Len(t, got, 3)
		require.NotNil(t, got[0])
		require.NotNil(t, got[1])
		require.NotNil(t, got[2])
		assert.Equal(t, domain.TypeResearch, got[0].ContentType)
		assert.Equal(t, domain.TypeProduct, got[1].ContentType)
		assert.Equal(t, domain.TypeDeveloper, got[2].ContentType)
	})

	t.Run("乱序id仍然对号入座", func(t *testing.T) {
		resp := `{"id":2,"content_type":"market"}
{"id":1,"content_type":"leader"}`
		got := parseBatch(resp, 2)
		require.NotNil(t, got[0])
		require.NotNil(t, got[1])
		assert.Equal(t, domain.TypeLeader, got[0].ContentType)
		assert.Equal(t, domain.TypeMarket, got[1].ContentType)
	})

	t.Run("JSON数组格式", func(t *testing.T) {
		resp := `[{"id":1,"content_type":"research"},{"id":2,"content_type":"community"}]`
		got := parseBatch(resp, 2)
		require.NotNil(t, got[0])
		require.NotNil(t, got[1])
		assert.Equal(t, domain.TypeResearch, got[0].ContentType)
		assert.Equal(t, domain.TypeCommunity, got[1].ContentType)
	})

	t.Run("行首序号前缀剥离", func(t *testing.T) {
		resp := `1. {"content_type":"research"}
2. {"content_type":"product"}`
		got := parseBatch(resp, 2)
		require.NotNil(t, got[0])
		require.NotNil(t, got[1])
		assert.Equal(t, domain.TypeResearch, got[0].ContentType)
		assert.Equal(t, domain.TypeProduct, got[1].ContentType)
	})

	t.Run("代码块包裹", func(t *testing.T) {
		resp := "```json\n{\"id\":1,\"content_type\":\"developer\"}\n{\"id\":2,\"content_type\":\"market\"}\n```"
		got := parseBatch(resp, 2)
		require.NotNil(t, got[0])
		require.NotNil(t, got[1])
	})

	t.Run("无id按顺序落位", func(t *testing.T) {
		resp := `{"content_type":"research"}
{"content_type":"product"}`
		got := parseBatch(resp, 2)
		require.NotNil(t, got[0])
		require.NotNil(t, got[1])
		assert.Equal(t, domain.TypeResearch, got[0].ContentType)
		assert.Equal(t, domain.TypeProduct, got[1].ContentType)
	})

	t.Run("越界id丢弃缺失为nil", func(t *testing.T) {
		resp := `{"id":1,"content_type":"research"}
{"id":9,"content_type":"product"}`
		got := parseBatch(resp, 3)
		assert.NotNil(t, got[0])
		assert.Nil(t, got[1])
		assert.Nil(t, got[2])
	})

	t.Run("重复id保留先到的", func(t *testing.T) {
		resp := `{"id":1,"content_type":"research"}
{"id":1,"content_type":"product"}`
		got := parseBatch(resp, 1)
		require.NotNil(t, got[0])
		assert.Equal(t, domain.TypeResearch, got[0].ContentType)
	})

	t.Run("空响应全nil", func(t *testing.T) {
		got := parseBatch("", 2)
		assert.Nil(t, got[0])
		assert.Nil(t, got[1])
	})
}

func TestNormalizeContentType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ContentType
	}{
		{"research", domain.TypeResearch},
		{"  PRODUCT ", domain.TypeProduct},
		{"tools/models", domain.TypeDeveloper},
		{"funding/news", domain.TypeMarket},
		{"opinion", domain.TypeLeader},
		{"trend", domain.TypeCommunity},
		{"quote", domain.TypeLeader},
		{"deep dive", domain.TypeMarket},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeContentType(tt.in), "输入: %q", tt.in)
	}
}

func TestExtractFromText_KeywordVote(t *testing.T) {
	got := extractFromText("This article covers a new tool and framework, an open source library with an sdk.")
	require.NotNil(t, got)
	assert.Equal(t, domain.TypeDeveloper, got.ContentType)
	assert.LessOrEqual(t, got.Confidence, 0.9)
	assert.GreaterOrEqual(t, got.Confidence, 0.7)
}
