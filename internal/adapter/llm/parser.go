package llm

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"ai-world-tracker/internal/domain"
)

// llmResult LLM 返回的分类结果（已规范化）
type llmResult struct {
	ContentType domain.ContentType
	Confidence  float64
	AIRelevance float64
	TechFields  []string
	IsVerified  bool
	Reasoning   string
}

// rawResult 宽松接收各家模型的字段别名，数值容忍字符串形式
type rawResult struct {
	ID          json.Number     `json:"id"`
	ContentType string          `json:"content_type"`
	Type        string          `json:"type"`
	Confidence  json.Number     `json:"confidence"`
	AIRelevance json.Number     `json:"ai_relevance"`
	TechFields  []string        `json:"tech_fields"`
	Fields      []string        `json:"fields"`
	IsVerified  *bool           `json:"is_verified"`
	Reasoning   string          `json:"reasoning"`
	Reason      json.RawMessage `json:"reason"`
}

// typeSynonyms 非标准类别名到六大分类的映射，兜底 market
var typeSynonyms = map[string]domain.ContentType{
	"paper": domain.TypeResearch, "papers": domain.TypeResearch,
	"academic": domain.TypeResearch, "study": domain.TypeResearch,
	"release": domain.TypeProduct, "releases": domain.TypeProduct,
	"launch": domain.TypeProduct,
	"tool":   domain.TypeDeveloper, "tools": domain.TypeDeveloper,
	"models": domain.TypeDeveloper, "tools/models": domain.TypeDeveloper,
	"news": domain.TypeMarket, "funding": domain.TypeMarket,
	"investment": domain.TypeMarket, "funding/news": domain.TypeMarket,
	"opinion": domain.TypeLeader, "opinions": domain.TypeLeader,
	"quote": domain.TypeLeader, "insight": domain.TypeLeader,
	"discussion": domain.TypeCommunity, "trend": domain.TypeCommunity,
	"trends": domain.TypeCommunity,
}

var (
	fencedJSONRe  = regexp.MustCompile("(?s)```json?\\s*(.*?)\\s*```")
	fenceMarkRe   = regexp.MustCompile("```\\w*\\s*")
	lineIndexRe   = regexp.MustCompile(`^[\[\(]?\d+[\]\)\.:]?\s*`)
	bareKeyRe     = regexp.MustCompile(`(\w+):`)
	braceObjectRe = regexp.MustCompile(`\{[^{}]*\}`)
)

// stripFences 剥掉 markdown 代码块标记
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "```json") {
		blocks := fencedJSONRe.FindAllStringSubmatch(s, -1)
		if len(blocks) > 0 {
			var parts []string
			for _, m := range blocks {
				parts = append(parts, m[1])
			}
			return strings.Join(parts, "\n")
		}
	}
	if strings.Contains(s, "```") {
		s = fenceMarkRe.ReplaceAllString(s, "")
		s = strings.ReplaceAll(s, "```", "")
	}
	return s
}

// repairJSON 修补模型常见的全角标点
func repairJSON(s string) string {
	r := strings.NewReplacer(
		"，", ",",
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
	return r.Replace(s)
}

// normalizeContentType 规范化类别：小写、去括号后缀、同义词映射
func normalizeContentType(s string) domain.ContentType {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.Index(s, "("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if ct, ok := domain.ParseContentType(s); ok {
		return ct
	}
	if ct, ok := typeSynonyms[s]; ok {
		return ct
	}
	return domain.TypeMarket
}

func numOr(n json.Number, def float64) float64 {
	if n == "" {
		return def
	}
	v, err := n.Float64()
	if err != nil || math.IsNaN(v) {
		return def
	}
	return v
}

func (r *rawResult) normalize() *llmResult {
	ct := r.ContentType
	if ct == "" {
		ct = r.Type
	}
	fields := r.TechFields
	if len(fields) == 0 {
		fields = r.Fields
	}
	if len(fields) == 0 {
		fields = []string{"General AI"}
	}
	verified := true
	if r.IsVerified != nil {
		verified = *r.IsVerified
	}
	reasoning := r.Reasoning
	if reasoning == "" && len(r.Reason) > 0 {
		var s string
		if json.Unmarshal(r.Reason, &s) == nil {
			reasoning = s
		}
	}
	return &llmResult{
		ContentType: normalizeContentType(ct),
		Confidence:  numOr(r.Confidence, 0.7),
		AIRelevance: numOr(r.AIRelevance, 0.7),
		TechFields:  fields,
		IsVerified:  verified,
		Reasoning:   reasoning,
	}
}

func decodeRaw(jsonStr string) (*rawResult, bool) {
	var raw rawResult
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}
	return &raw, true
}

// parseSingle 解析单条分类响应
// 顺序：剥代码块 → 抠大括号 + 标点修补 → JSON 解码；全失败再做文本兜底
func parseSingle(response string) *llmResult {
	if strings.TrimSpace(response) == "" {
		return nil
	}
	cleaned := stripFences(response)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		jsonStr := repairJSON(cleaned[start : end+1])
		if raw, ok := decodeRaw(jsonStr); ok && (raw.ContentType != "" || raw.Type != "") {
			return raw.normalize()
		}
	}

	// JSON 不成立时退回自然语言抽取（thinking 模式模型常见）
	return extractFromText(response)
}

// textCategoryKeywords 自然语言兜底抽取用的类别关键词
// 类别名直接取六大分类，关键词投票时偏向末尾几行（模型通常把结论放最后）
var textCategoryKeywords = []struct {
	cat      domain.ContentType
	keywords []string
}{
	{domain.TypeResearch, []string{"research", "paper", "study", "academic", "arxiv", "conference"}},
	{domain.TypeProduct, []string{"product", "launch", "release", "announce", "new feature"}},
	{domain.TypeDeveloper, []string{"developer", "tool", "framework", "library", "sdk", "open source"}},
	{domain.TypeMarket, []string{"market", "industry", "business", "company", "funding", "investment"}},
	{domain.TypeLeader, []string{"leader", "says", "opinion", "statement", "quote"}},
	{domain.TypeCommunity, []string{"community", "discussion", "forum", "trend"}},
}

// extractFromText 从纯文本提取类别
// 先扫末尾 1-3 行找明确的类别词，找不到再全局关键词计票
func extractFromText(text string) *llmResult {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	tail := text
	if len(lines) >= 3 {
		tail = strings.Join(lines[len(lines)-3:], " ")
	}
	tailWords := strings.Fields(strings.ToLower(tail))
	for _, tc := range textCategoryKeywords {
		for _, w := range tailWords {
			if w == string(tc.cat) {
				return &llmResult{
					ContentType: tc.cat,
					Confidence:  0.85,
					AIRelevance: 0.7,
					TechFields:  []string{"General AI"},
					IsVerified:  true,
					Reasoning:   "Extracted from LLM thinking output",
				}
			}
		}
	}

	bestScore := 0
	var best domain.ContentType
	for _, tc := range textCategoryKeywords {
		score := 0
		for _, kw := range tc.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = tc.cat, score
		}
	}
	if bestScore == 0 {
		return nil
	}
	return &llmResult{
		ContentType: best,
		Confidence:  math.Min(0.7+float64(bestScore)*0.05, 0.9),
		AIRelevance: 0.7,
		TechFields:  []string{"General AI"},
		IsVerified:  true,
		Reasoning:   "Inferred from text analysis (score: " + strconv.Itoa(bestScore) + ")",
	}
}

// parseBatch 解析批量响应，返回与期望条数等长的切片，解析不出的位置为 nil
// 依次尝试：JSON 数组 → 按行解析（剥序号、修标点、补裸键名引号）→ 全文大括号扫描
// 结果优先按 id 字段（1 起始）落位，没有 id 按出现顺序落位，越界和重复丢弃
func parseBatch(response string, expected int) []*llmResult {
	results := make([]*llmResult, expected)
	if strings.TrimSpace(response) == "" {
		return results
	}
	cleaned := stripFences(response)

	var raws []*rawResult

	// 方式一：整体就是个 JSON 数组
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(repairJSON(cleaned)), &arr); err == nil {
		for _, msg := range arr {
			if raw, ok := decodeRaw(string(msg)); ok {
				raws = append(raws, raw)
			}
		}
	}

	// 方式二：逐行找 JSON 对象
	if len(raws) == 0 {
		for _, line := range strings.Split(cleaned, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			line = lineIndexRe.ReplaceAllString(line, "")
			start := strings.Index(line, "{")
			end := strings.LastIndex(line, "}")
			if start < 0 || end <= start {
				continue
			}
			jsonStr := repairJSON(line[start : end+1])
			if raw, ok := decodeRaw(jsonStr); ok {
				raws = append(raws, raw)
				continue
			}
			// 宽松一档：给裸键名补引号
			if raw, ok := decodeRaw(bareKeyRe.ReplaceAllString(jsonStr, `"$1":`)); ok {
				raws = append(raws, raw)
			}
		}
	}

	// 方式三：多个对象挤在一行里，正则逐个抠
	if len(raws) == 0 {
		for _, m := range braceObjectRe.FindAllString(cleaned, -1) {
			if raw, ok := decodeRaw(repairJSON(m)); ok {
				raws = append(raws, raw)
			}
		}
	}

	for i, raw := range raws {
		idx := i
		if raw.ID != "" {
			if id, err := raw.ID.Int64(); err == nil {
				idx = int(id) - 1
			}
		}
		if idx < 0 || idx >= expected || results[idx] != nil {
			continue
		}
		results[idx] = raw.normalize()
	}
	return results
}
