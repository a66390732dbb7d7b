package importance

// 来源权威度静态表：官方一手 > 专业媒体 > 社区聚合 > 通用新闻
var sourceAuthorityScores = map[string]float64{
	// 官方一手来源 (0.9-1.0)
	"openai.com": 1.0, "openai": 1.0,
	"blog.google": 1.0, "google ai": 0.95,
	"ai.meta.com": 1.0, "meta ai": 0.95,
	"anthropic.com": 1.0, "anthropic": 0.95,
	"microsoft.com": 0.95, "blogs.microsoft": 0.95,
	"nvidia": 0.90,
	"arxiv.org": 0.95, "arxiv": 0.95,
	"github.com": 0.90, "github": 0.90,
	"huggingface.co": 0.90, "hugging face": 0.90,

	// 中国 AI 公司官方
	"baidu": 0.90, "百度": 0.90,
	"alibaba": 0.90, "阿里": 0.90,
	"tencent": 0.90, "腾讯": 0.90,
	"deepseek": 0.90, "智谱": 0.85, "月之暗面": 0.85, "kimi": 0.85,

	// 专业媒体 (0.7-0.85)
	"techcrunch": 0.85, "theverge": 0.80, "the verge": 0.80, "wired": 0.80,
	"technologyreview": 0.85, "mit technology review": 0.85, "ieee spectrum": 0.85,
	"artificialintelligence-news": 0.80, "syncedreview": 0.80,
	"机器之心": 0.85, "jiqizhixin": 0.85, "量子位": 0.80, "qbitai": 0.80,
	"infoq": 0.75, "36kr": 0.70, "36氪": 0.70, "ithome": 0.70, "it之家": 0.70,

	// 社区/聚合 (0.5-0.7)
	"reddit": 0.65, "producthunt": 0.70, "product hunt": 0.70,
	"hacker news": 0.70, "hnrss": 0.70,

	// 通用新闻
	"news.google": 0.50, "bing.com/news": 0.50,
	"reuters": 0.75, "bloomberg": 0.75,

	// 个人博客/播客
	"sam altman": 0.90, "karpathy": 0.90, "andrej karpathy": 0.90,
	"lex fridman": 0.80,
}

const defaultAuthority = 0.40

// 相关度分层关键词：突破 > 发布 > 技术 > 泛描述
// 跨层去重：同一个词只计一次分

var breakthroughKeywords = map[string]float64{
	"breakthrough": 0.18, "sota": 0.15, "state-of-the-art": 0.15,
	"world record": 0.15, "revolutionary": 0.14, "game-changer": 0.14,
	"milestone": 0.12, "paradigm shift": 0.15, "first-ever": 0.14,
	"突破": 0.18, "里程碑": 0.14, "革命性": 0.14, "颠覆": 0.12,
	"史上首次": 0.15, "重大突破": 0.16,
}

var releaseKeywords = map[string]float64{
	"release": 0.10, "launch": 0.10, "announce": 0.10, "unveil": 0.12,
	"introduce": 0.08, "available": 0.08, "official": 0.10,
	"beta": 0.06, "preview": 0.06, "alpha": 0.05,
	"general availability": 0.10, "ga": 0.08, "v1.0": 0.08,
	"发布": 0.10, "推出": 0.10, "上线": 0.10, "正式版": 0.10,
	"官宣": 0.10, "官方": 0.08, "公测": 0.06, "内测": 0.05,
}

var techKeywords = map[string]float64{
	"open source": 0.10, "open-source": 0.10, "opensource": 0.10,
	"benchmark": 0.08, "evaluation": 0.06, "paper": 0.06,
	"gpt": 0.06, "llm": 0.06, "transformer": 0.05, "diffusion": 0.06,
	"multimodal": 0.08, "reasoning": 0.08, "chain-of-thought": 0.08,
	"agent": 0.08, "agi": 0.10, "agentic": 0.08,
	"fine-tune": 0.06, "finetune": 0.06, "rlhf": 0.07,
	"inference": 0.05, "training": 0.05, "dataset": 0.06,
	"开源": 0.10, "模型": 0.05, "大模型": 0.07, "多模态": 0.08,
	"推理": 0.06, "训练": 0.05, "微调": 0.06, "数据集": 0.06,
}

var generalKeywords = map[string]float64{
	"new": 0.03, "update": 0.04, "improve": 0.04, "enhance": 0.04,
	"feature": 0.03, "support": 0.03, "capability": 0.04,
	"performance": 0.05, "faster": 0.04, "better": 0.03,
	"最新": 0.04, "更新": 0.04, "升级": 0.05, "优化": 0.04,
	"新增": 0.04, "支持": 0.03, "功能": 0.03,
}

// 传闻/不确定性词：降相关度
var negativeRelevanceKeywords = map[string]float64{
	"rumor": -0.08, "speculation": -0.06, "might": -0.03, "may": -0.02,
	"could": -0.02, "possibly": -0.04, "unconfirmed": -0.08,
	"alleged": -0.06, "reportedly": -0.04,
	"传闻": -0.08, "据悉": -0.04, "或将": -0.04, "可能": -0.03,
	"疑似": -0.06, "未经证实": -0.08,
}

// 内容类型相关度系数：研究和产品发布通常价值更高
var typeRelevanceMultipliers = map[string]float64{
	"research":  1.15,
	"product":   1.12,
	"leader":    1.08,
	"developer": 1.05,
	"tutorial":  1.0,
	"news":      0.95,
	"market":    0.88,
	"community": 0.85,
	"opinion":   0.80,
	"other":     0.75,
}

const defaultTypeMultiplier = 0.9

// 时效性衰减：产品发布时效最敏感，研究论文价值最持久
const (
	defaultDecayRate = 0.12
	recencyFloor     = 0.08
)

var typeDecayRates = map[string]float64{
	"product":  0.15,
	"news":     0.14,
	"market":   0.10,
	"research": 0.08,
	"tutorial": 0.06,
	"leader":   0.10,
}

// 社交热度归一化参数：低/高阈值 + 信号权重
type engagementSignal struct {
	low    float64
	high   float64
	weight float64
}

var engagementSignals = map[string]engagementSignal{
	"stars":     {100, 50000, 1.0},
	"downloads": {1000, 1000000, 0.9},
	"reddit":    {50, 5000, 0.85},
	"hn":        {30, 1000, 0.85},
	"likes":     {100, 10000, 0.7},
	"comments":  {20, 500, 0.6},
}
