package importance

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-world-tracker/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e := New(filepath.Join(t.TempDir(), "learning.json"))
	e.nowFunc = fixedNow
	return e
}

func daysAgo(n int) string {
	return fixedNow().AddDate(0, 0, -n).Format("2006-01-02")
}

func TestEvaluator_RecencyDecay(t *testing.T) {
	e := newTestEvaluator(t)

	t.Run("产品类时效随天数单调下降", func(t *testing.T) {
		prev := 1.1
		for _, days := range []int{0, 1, 3, 7, 14, 30, 60, 120} {
			score := e.recency(&domain.Item{Published: daysAgo(days)}, "product")
			assert.LessOrEqual(t, score, prev, "days=%d", days)
			assert.GreaterOrEqual(t, score, recencyFloor)
			prev = score
		}
	})

	t.Run("研究类衰减慢于产品类", func(t *testing.T) {
		for _, days := range []int{1, 7, 14, 30} {
			item := &domain.Item{Published: daysAgo(days)}
			research := e.recency(item, "research")
			product := e.recency(item, "product")
			assert.GreaterOrEqual(t, research, product, "days=%d", days)
		}
	})

	t.Run("未来日期和当天给满分", func(t *testing.T) {
		assert.Equal(t, 1.0, e.recency(&domain.Item{Published: daysAgo(-3)}, "product"))
		assert.Equal(t, 1.0, e.recency(&domain.Item{Published: fixedNow().Format(time.RFC3339)}, "product"))
	})

	t.Run("无日期或解析失败给中性分", func(t *testing.T) {
		assert.Equal(t, 0.5, e.recency(&domain.Item{}, "product"))
		assert.Equal(t, 0.5, e.recency(&domain.Item{Published: "someday"}, "product"))
	})
}

func TestEvaluator_ConfidenceCap(t *testing.T) {
	e := newTestEvaluator(t)

	// 40 天前的旧闻 + 无名来源：置信度无论多高都被压到 0.60
	item := &domain.Item{
		Title:     "Some product update",
		Source:    "unknown blog",
		Published: daysAgo(40),
	}
	cls := &domain.Classification{
		ContentType: domain.TypeProduct,
		Confidence:  0.95,
		AIRelevance: 0.8,
	}

	_, breakdown := e.Evaluate(item, cls)
	assert.LessOrEqual(t, breakdown.Confidence, 0.60)
	assert.Less(t, breakdown.SourceAuthority, 0.80)
	assert.LessOrEqual(t, breakdown.Recency, 0.50)
}

func TestEvaluator_ImportanceClamp(t *testing.T) {
	e := newTestEvaluator(t)

	items := []*domain.Item{
		{},
		{Title: "breakthrough milestone revolutionary", Source: "openai", Published: daysAgo(0), Stars: 100000},
		{Title: "rumor speculation might possibly", Source: "random", Published: daysAgo(300)},
	}
	for _, item := range items {
		for _, rel := range []float64{0.0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
			score, _ := e.Evaluate(item, &domain.Classification{
				ContentType: domain.TypeProduct,
				Confidence:  0.9,
				AIRelevance: rel,
			})
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestEvaluator_AIMultiplierSegments(t *testing.T) {
	tests := []struct {
		relevance float64
		expected  float64
	}{
		{1.0, 1.05},
		{0.8, 1.0},
		{0.65, 0.925},
		{0.5, 0.85},
		{0.4, 0.725},
		{0.3, 0.6},
		{0.2, 0.5},
		{0.0, 0.3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, aiMultiplier(tt.relevance), 1e-9, "relevance=%.2f", tt.relevance)
	}
}

func TestEvaluator_Engagement(t *testing.T) {
	e := newTestEvaluator(t)

	t.Run("无社交信号给中性分", func(t *testing.T) {
		assert.Equal(t, 0.5, e.engagement(&domain.Item{}))
	})

	t.Run("星标越多分越高", func(t *testing.T) {
		low := e.engagement(&domain.Item{Stars: 50})
		mid := e.engagement(&domain.Item{Stars: 5000})
		high := e.engagement(&domain.Item{Stars: 50000})
		assert.Less(t, low, mid)
		assert.Less(t, mid, high)
	})

	t.Run("多信号互相验证有加分", func(t *testing.T) {
		single := e.engagement(&domain.Item{Stars: 1000})
		multi := e.engagement(&domain.Item{Stars: 1000, Likes: 1000, Comments: 100})
		assert.Greater(t, multi, single-0.4) // 加权平均可能变化，但 bonus 应该托底
	})

	t.Run("reddit分数只在reddit来源时计入", func(t *testing.T) {
		ignored := e.engagement(&domain.Item{Score: 500, Source: "some blog"})
		counted := e.engagement(&domain.Item{Score: 500, Source: "Reddit r/MachineLearning"})
		assert.Equal(t, 0.5, ignored)
		assert.NotEqual(t, 0.5, counted)
	})
}

func TestEvaluator_SourceAuthority(t *testing.T) {
	e := newTestEvaluator(t)

	tests := []struct {
		name     string
		item     *domain.Item
		expected float64
	}{
		{"官方来源", &domain.Item{Source: "OpenAI Blog"}, 1.0},
		{"arXiv", &domain.Item{URL: "https://arxiv.org/abs/2501.12345"}, 0.95},
		{"专业媒体", &domain.Item{Source: "TechCrunch"}, 0.85},
		{"社区", &domain.Item{Source: "Reddit"}, 0.65},
		{"未知来源默认", &domain.Item{Source: "somebody's newsletter"}, defaultAuthority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, e.sourceAuthority(tt.item), 1e-9)
		})
	}
}

func TestEvaluator_LearnedAuthorityBlend(t *testing.T) {
	e := newTestEvaluator(t)

	// 反馈 10 次低分，学习均值应把 techcrunch 的权威度往下拉
	static := e.sourceAuthority(&domain.Item{Source: "techcrunch"})
	for i := 0; i < 10; i++ {
		e.RecordFeedback("techcrunch", 0.2)
	}
	blended := e.sourceAuthority(&domain.Item{Source: "techcrunch"})
	assert.Less(t, blended, static)

	// 混合权重 = min(0.20 + 10*0.02, 0.40) = 0.40
	assert.InDelta(t, 0.85*0.6+0.2*0.4, blended, 1e-3)
}

func TestLearning_RollingWindowCap(t *testing.T) {
	e := newTestEvaluator(t)

	for i := 0; i < 60; i++ {
		e.RecordFeedback("some source", float64(i%10)/10.0)
	}

	e.learning.mu.Lock()
	p := e.learning.perf["some source"]
	e.learning.mu.Unlock()

	require.NotNil(t, p)
	assert.Equal(t, 50, p.Count)
	assert.Len(t, p.Scores, 50)
}

func TestLearning_PersistAndReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "learning.json")

	e1 := New(file)
	e1.nowFunc = fixedNow
	for i := 0; i < 10; i++ {
		e1.RecordFeedback("机器之心", 0.8)
	}
	require.NoError(t, e1.SaveLearning())

	// 新实例应能读回学习数据
	e2 := New(file)
	avg, count, ok := e2.learning.lookup("机器之心")
	require.True(t, ok)
	assert.Equal(t, 10, count)
	assert.InDelta(t, 0.8, avg, 1e-9)

	stats := e2.LearningStats()
	assert.Equal(t, 1, stats.TotalSourcesTracked)
	assert.Equal(t, 1, stats.LearnedSources)
	assert.True(t, stats.LearningEnabled)
}

func TestImportanceLevel(t *testing.T) {
	tests := []struct {
		score float64
		level string
	}{
		{0.90, "critical"},
		{0.85, "critical"},
		{0.75, "high"},
		{0.60, "medium"},
		{0.45, "low"},
		{0.10, "minimal"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("score=%.2f", tt.score), func(t *testing.T) {
			level, emoji := Level(tt.score)
			assert.Equal(t, tt.level, level)
			assert.NotEmpty(t, emoji)
		})
	}
}
