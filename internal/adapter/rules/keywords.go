package rules

import (
	"regexp"

	"ai-world-tracker/internal/domain"
)

// 关键词权重表：中英双语，权重 1-4
// 调权原则：强指标词给高权重，泛用词给低权重，避免误杀

// 研究类：必须出现强指标（见 researchStrongIndicators）才允许归类为研究
var researchKeywords = map[string]int{
	// 强研究指标（4 分）
	"arxiv": 4, "paper": 4, "publication": 4, "peer-reviewed": 4,
	"neurips": 4, "icml": 4, "iclr": 4, "cvpr": 4, "acl": 4, "emnlp": 4, "aaai": 4,
	"sigir": 4, "kdd": 4, "naacl": 4, "coling": 4,
	"论文": 4, "学术": 4,

	// 研究辅助词（2 分）
	"conference": 2, "journal": 2, "proceedings": 2, "academic": 2,
	"methodology": 2, "ablation": 2, "baseline": 2,
	"state-of-the-art": 2, "sota": 2,
	"期刊": 2, "会议": 2, "消融": 2,

	// 论文特征词（1 分）
	"we propose": 1, "we present": 1, "our method": 1, "our approach": 1,
	"experiments show": 1, "results demonstrate": 1,
	"本文提出": 1, "实验表明": 1,
}

// 研究类强指标：没有任何一个时研究分数打三折
var researchStrongIndicators = []string{
	"arxiv", "paper", "publication", "peer-reviewed",
	"neurips", "icml", "iclr", "cvpr", "acl", "emnlp", "aaai",
	"sigir", "kdd", "naacl", "coling",
	"论文", "学术",
}

var developerKeywords = map[string]int{
	// 强开发指标（3 分）
	"github": 3, "repository": 3, "open source": 3, "commit": 3,
	"pull request": 3, "sdk": 3, "api documentation": 3,
	"开源": 3, "仓库": 3, "代码库": 3,

	// 开发相关（2 分）
	"library": 2, "framework": 2, "implementation": 2, "tutorial": 2,
	"guide": 2, "documentation": 2, "developer": 2, "programming": 2,
	"开发": 2, "库": 2, "框架": 2, "教程": 2, "文档": 2, "指南": 2,

	// 技术词汇（1 分）
	"code": 1, "api": 1, "package": 1, "tool": 1,
	"代码": 1, "工具": 1,
}

var productKeywords = map[string]int{
	// 强发布指标 + 知名产品名（3 分）
	"official release": 3, "officially launched": 3, "announces launch": 3,
	"unveil": 3, "debut": 3, "available now": 3, "now available": 3,
	"rolls out": 3, "ships": 3, "goes live": 3, "general availability": 3,
	"gpt-4o": 3, "gpt-4-turbo": 3, "o1": 3, "o1-preview": 3, "o1-mini": 3, "o3": 3,
	"claude-3": 3, "claude-3.5": 3, "claude-3-opus": 3, "claude-3-sonnet": 3,
	"gemini": 3, "gemini-pro": 3, "gemini-ultra": 3, "gemini 2.0": 3,
	"sora": 3, "veo": 3, "imagen 3": 3, "firefly": 3,
	"llama-3": 3, "llama-3.1": 3, "llama-3.2": 3,
	"copilot": 3, "github copilot": 3, "cursor": 3,
	"正式发布": 3, "正式推出": 3, "正式上线": 3, "官方发布": 3, "全面开放": 3,
	"豆包": 3, "doubao": 3, "kimi": 3, "通义千问": 3, "qwen": 3,
	"文心一言": 3, "ernie": 3, "星火": 3, "spark": 3,

	// 发布相关（2 分）
	"release": 2, "launch": 2, "announce": 2, "introduce": 2,
	"version": 2, "update": 2, "available": 2, "upgrade": 2,
	"new feature": 2, "new model": 2, "latest version": 2,
	"发布": 2, "推出": 2, "宣布": 2, "上线": 2, "版本": 2, "升级": 2, "更新": 2,

	// 产品术语（1 分）
	"official": 1, "commercial": 1, "enterprise": 1, "product": 1,
	"platform": 1, "service": 1, "solution": 1, "beta": 1, "preview": 1,
	"pro": 1, "plus": 1, "premium": 1, "subscription": 1,
	"model": 1, "app": 1, "assistant": 1,
	"官方": 1, "商业": 1, "企业": 1, "产品": 1, "平台": 1, "服务": 1, "公测": 1, "订阅": 1,
	"模型": 1, "助手": 1, "应用": 1,
}

var marketKeywords = map[string]int{
	// 强市场指标（3 分）
	"funding round": 3, "investment": 3, "acquisition": 3, "ipo": 3,
	"valuation": 3, "revenue": 3, "raises": 3, "secures funding": 3,
	"series a": 3, "series b": 3, "series c": 3, "series d": 3,
	"unicorn": 3, "billion": 3, "million": 3,
	"融资": 3, "投资": 3, "收购": 3, "上市": 3, "估值": 3,
	"轮融资": 3, "独角兽": 3, "亿美元": 3, "亿元": 3,

	// 市场 + 政策法规（2 分）
	"market": 2, "business": 2, "startup": 2, "company": 2,
	"policy": 2, "regulation": 2, "industry": 2, "layoff": 2, "layoffs": 2,
	"antitrust": 2, "lawsuit": 2, "copyright": 2, "license": 2,
	"ai act": 2, "executive order": 2, "ban": 2, "restrict": 2,
	"市场": 2, "政策": 2, "监管": 2, "行业": 2,
	"裁员": 2, "反垄断": 2, "版权": 2, "合规": 2, "法案": 2,

	// 商业术语（1 分）
	"funding": 1, "partnership": 1, "collaboration": 1, "deal": 1,
	"contract": 1, "profit": 1, "loss": 1, "growth": 1,
	"strategy": 1, "compete": 1, "competition": 1, "rival": 1,
	"ceo": 1, "executive": 1, "hire": 1, "hiring": 1,
	"合作": 1, "伙伴": 1, "交易": 1, "合同": 1, "营收": 1, "增长": 1,
	"战略": 1, "竞争": 1, "对手": 1, "招聘": 1,
}

var leaderKeywords = map[string]int{
	// 强言论指标（3 分）
	"interview": 3, "speech": 3, "keynote": 3, "statement": 3,
	"exclusive interview": 3, "in an interview": 3,
	"采访": 3, "演讲": 3, "主题演讲": 3, "声明": 3,

	// 言论相关（2 分）
	"said": 2, "stated": 2, "believes": 2, "warns": 2, "predicts": 2,
	"opinion": 2, "commented": 2,
	"表示": 2, "认为": 2, "警告": 2, "预测": 2, "评论": 2, "观点": 2,

	// 社交媒体（1 分）
	"tweeted": 1, "posted": 1, "quote": 1,
	"说": 1, "发文": 1,
}

// scoredCategories 参与关键词评分的五类；community 只能由采集器标签
// 或 LLM 给出（社区内容靠来源判断，关键词区分度太差）
var scoredCategories = []domain.ContentType{
	domain.TypeResearch, domain.TypeDeveloper, domain.TypeProduct,
	domain.TypeMarket, domain.TypeLeader,
}

func keywordTable(cat domain.ContentType) map[string]int {
	switch cat {
	case domain.TypeResearch:
		return researchKeywords
	case domain.TypeDeveloper:
		return developerKeywords
	case domain.TypeProduct:
		return productKeywords
	case domain.TypeMarket:
		return marketKeywords
	case domain.TypeLeader:
		return leaderKeywords
	}
	return nil
}

// 上下文短语模式：比单关键词更具体，每命中一条 +3 分
var phrasePatterns = map[domain.ContentType][]*regexp.Regexp{
	domain.TypeProduct: {
		regexp.MustCompile(`(?i)officially\s+(launched|released|announced)`),
		regexp.MustCompile(`(?i)now\s+available\s+(for|to|in)`),
		regexp.MustCompile(`(?i)rolling\s+out\s+to`),
		regexp.MustCompile(`(?i)is\s+now\s+(live|available|open)`),
		regexp.MustCompile(`(?i)has\s+(launched|released|unveiled)`),
		regexp.MustCompile(`(?i)introduces?\s+new`),
		regexp.MustCompile(`正式(发布|上线|推出|开放)`),
		regexp.MustCompile(`全面(开放|上线|推出)`),
		regexp.MustCompile(`(开始|开启)(内测|公测|商用)`),
	},
	domain.TypeResearch: {
		regexp.MustCompile(`(?i)we\s+propose`),
		regexp.MustCompile(`(?i)we\s+present`),
		regexp.MustCompile(`(?i)we\s+introduce\s+a\s+(new|novel)`),
		regexp.MustCompile(`(?i)our\s+(method|approach|model)\s+(achieves?|outperforms?)`),
		regexp.MustCompile(`(?i)state-of-the-art\s+(results?|performance)`),
		regexp.MustCompile(`(?i)benchmark\s+results?`),
		regexp.MustCompile(`(?i)experiments?\s+(show|demonstrate)`),
		regexp.MustCompile(`(本文|我们)(提出|介绍|研究)`),
		regexp.MustCompile(`(实验|结果)(表明|显示|证明)`),
	},
	domain.TypeMarket: {
		regexp.MustCompile(`(?i)raises?\s+\$?\d+\s*(m|million|b|billion)`),
		regexp.MustCompile(`(?i)valued\s+at\s+\$`),
		regexp.MustCompile(`(?i)acquisition\s+of`),
		regexp.MustCompile(`(?i)acquires?\s+`),
		regexp.MustCompile(`(?i)ipo\s+(filing|plans?)`),
		regexp.MustCompile(`(?i)layoffs?\s+at`),
		regexp.MustCompile(`(获得|完成).{0,10}(融资|投资)`),
		regexp.MustCompile(`估值.{0,5}(亿|万)`),
		regexp.MustCompile(`(收购|并购)`),
	},
	domain.TypeLeader: {
		regexp.MustCompile(`(?i)(ceo|cto|founder|chief).{0,20}(said|says|stated|believes)`),
		regexp.MustCompile(`(?i)in\s+(an\s+)?interview`),
		regexp.MustCompile(`(?i)(sam altman|elon musk|jensen huang|sundar pichai).{0,30}(said|says|warns|predicts)`),
		regexp.MustCompile(`(表示|认为|指出|警告|预测).{0,10}(说|称)`),
	},
}

// sourcePrior 来源先验：该来源历史上各分类的出现概率
// 有序切片保证子串匹配顺序稳定（map 遍历顺序随机会破坏确定性）
type sourcePrior struct {
	key    string
	priors map[domain.ContentType]float64
}

var sourcePriors = []sourcePrior{
	// 研究源
	{"arxiv.org", map[domain.ContentType]float64{domain.TypeResearch: 0.95, domain.TypeDeveloper: 0.02, domain.TypeProduct: 0.01, domain.TypeMarket: 0.01, domain.TypeLeader: 0.01}},
	{"arxiv", map[domain.ContentType]float64{domain.TypeResearch: 0.95, domain.TypeDeveloper: 0.02, domain.TypeProduct: 0.01, domain.TypeMarket: 0.01, domain.TypeLeader: 0.01}},

	// 开发者源
	{"github.com", map[domain.ContentType]float64{domain.TypeDeveloper: 0.90, domain.TypeResearch: 0.05, domain.TypeProduct: 0.03, domain.TypeMarket: 0.01, domain.TypeLeader: 0.01}},
	{"github", map[domain.ContentType]float64{domain.TypeDeveloper: 0.90, domain.TypeResearch: 0.05, domain.TypeProduct: 0.03, domain.TypeMarket: 0.01, domain.TypeLeader: 0.01}},
	{"hugging face", map[domain.ContentType]float64{domain.TypeDeveloper: 0.70, domain.TypeResearch: 0.20, domain.TypeProduct: 0.05, domain.TypeMarket: 0.03, domain.TypeLeader: 0.02}},
	{"huggingface", map[domain.ContentType]float64{domain.TypeDeveloper: 0.70, domain.TypeResearch: 0.20, domain.TypeProduct: 0.05, domain.TypeMarket: 0.03, domain.TypeLeader: 0.02}},

	// 科技媒体
	{"techcrunch", map[domain.ContentType]float64{domain.TypeProduct: 0.40, domain.TypeMarket: 0.35, domain.TypeDeveloper: 0.10, domain.TypeResearch: 0.05, domain.TypeLeader: 0.10}},
	{"the verge", map[domain.ContentType]float64{domain.TypeProduct: 0.45, domain.TypeMarket: 0.25, domain.TypeDeveloper: 0.10, domain.TypeResearch: 0.05, domain.TypeLeader: 0.15}},
	{"wired", map[domain.ContentType]float64{domain.TypeProduct: 0.35, domain.TypeMarket: 0.25, domain.TypeResearch: 0.15, domain.TypeDeveloper: 0.10, domain.TypeLeader: 0.15}},
	{"mit technology review", map[domain.ContentType]float64{domain.TypeResearch: 0.40, domain.TypeProduct: 0.25, domain.TypeMarket: 0.15, domain.TypeDeveloper: 0.10, domain.TypeLeader: 0.10}},

	// 社区源
	{"product hunt", map[domain.ContentType]float64{domain.TypeProduct: 0.70, domain.TypeDeveloper: 0.20, domain.TypeMarket: 0.05, domain.TypeResearch: 0.03, domain.TypeLeader: 0.02}},
	{"hacker news", map[domain.ContentType]float64{domain.TypeDeveloper: 0.40, domain.TypeProduct: 0.25, domain.TypeResearch: 0.15, domain.TypeMarket: 0.10, domain.TypeLeader: 0.10}},

	// 官方博客
	{"openai", map[domain.ContentType]float64{domain.TypeProduct: 0.50, domain.TypeResearch: 0.30, domain.TypeDeveloper: 0.10, domain.TypeLeader: 0.08, domain.TypeMarket: 0.02}},
	{"google ai", map[domain.ContentType]float64{domain.TypeProduct: 0.45, domain.TypeResearch: 0.35, domain.TypeDeveloper: 0.10, domain.TypeLeader: 0.05, domain.TypeMarket: 0.05}},
	{"microsoft", map[domain.ContentType]float64{domain.TypeProduct: 0.50, domain.TypeDeveloper: 0.25, domain.TypeMarket: 0.15, domain.TypeResearch: 0.05, domain.TypeLeader: 0.05}},
	{"anthropic", map[domain.ContentType]float64{domain.TypeProduct: 0.45, domain.TypeResearch: 0.35, domain.TypeDeveloper: 0.10, domain.TypeLeader: 0.05, domain.TypeMarket: 0.05}},

	// 中文源
	{"36氪", map[domain.ContentType]float64{domain.TypeMarket: 0.50, domain.TypeProduct: 0.35, domain.TypeLeader: 0.08, domain.TypeDeveloper: 0.05, domain.TypeResearch: 0.02}},
	{"36kr", map[domain.ContentType]float64{domain.TypeMarket: 0.50, domain.TypeProduct: 0.35, domain.TypeLeader: 0.08, domain.TypeDeveloper: 0.05, domain.TypeResearch: 0.02}},
	{"机器之心", map[domain.ContentType]float64{domain.TypeResearch: 0.35, domain.TypeProduct: 0.30, domain.TypeDeveloper: 0.15, domain.TypeMarket: 0.10, domain.TypeLeader: 0.10}},
	{"量子位", map[domain.ContentType]float64{domain.TypeProduct: 0.35, domain.TypeResearch: 0.30, domain.TypeMarket: 0.15, domain.TypeDeveloper: 0.10, domain.TypeLeader: 0.10}},
	{"it之家", map[domain.ContentType]float64{domain.TypeProduct: 0.50, domain.TypeMarket: 0.25, domain.TypeDeveloper: 0.10, domain.TypeResearch: 0.05, domain.TypeLeader: 0.10}},

	// 泛 RSS / 新闻
	{"rss", map[domain.ContentType]float64{domain.TypeProduct: 0.35, domain.TypeMarket: 0.30, domain.TypeDeveloper: 0.15, domain.TypeResearch: 0.10, domain.TypeLeader: 0.10}},
	{"feed", map[domain.ContentType]float64{domain.TypeProduct: 0.35, domain.TypeMarket: 0.30, domain.TypeDeveloper: 0.15, domain.TypeResearch: 0.10, domain.TypeLeader: 0.10}},
	{"news", map[domain.ContentType]float64{domain.TypeProduct: 0.30, domain.TypeMarket: 0.35, domain.TypeLeader: 0.15, domain.TypeDeveloper: 0.10, domain.TypeResearch: 0.10}},
}

// 未匹配任何来源时的默认先验
var defaultPrior = map[domain.ContentType]float64{
	domain.TypeProduct: 0.30, domain.TypeMarket: 0.25, domain.TypeDeveloper: 0.20,
	domain.TypeResearch: 0.15, domain.TypeLeader: 0.10,
}

// AI 公司名：出现时触发产品类加成
var companyIndicators = []string{
	"google", "microsoft", "openai", "anthropic", "meta", "apple", "amazon",
	"baidu", "alibaba", "tencent", "bytedance", "huawei", "xiaomi", "nvidia",
	"xai", "x.ai", "elon musk", "sam altman", "sundar pichai",
	"百度", "阿里", "腾讯", "字节", "华为", "小米", "英伟达",
	"deepseek", "mistral", "cohere", "stability", "midjourney", "runway",
	"智谱", "月之暗面", "零一万物", "百川", "科大讯飞",
}

// 知名产品名：同样触发产品类加成
var productNames = []string{
	"chatgpt", "gpt-4", "gpt-5", "gpt4", "gpt5", "o1", "o3",
	"claude", "gemini", "copilot", "cursor", "sora", "midjourney",
	"llama", "mistral", "qwen", "deepseek", "kimi", "doubao",
	"grok", "perplexity", "poe", "character.ai", "pi",
	"文心", "通义", "豆包", "星火", "spark",
}

// 言论动词 + 领袖角色：双条件同时满足才算领袖言论
var leaderVerbs = []string{
	"said", "says", "stated", "believes", "warns", "predicts",
	"tweeted", "posted", "commented", "announced", "argues",
	"thinks", "expects", "suggests", "claims", "reveals",
	"discusses", "explains", "shares", "tells", "told",
	"表示", "认为", "说", "称", "警告", "预测", "发文", "透露",
	"指出", "强调", "提到", "分享", "解释", "讨论",
}

var leaderRoles = []string{
	"ceo", "cto", "coo", "cfo", "founder", "co-founder", "cofounder",
	"chief", "president", "director", "vp", "vice president",
	"head of", "executive", "chairman", "chairwoman",
	"sam altman", "elon musk", "jensen huang", "sundar pichai",
	"satya nadella", "mark zuckerberg", "demis hassabis",
	"dario amodei", "ilya sutskever", "andrej karpathy",
	"yann lecun", "geoffrey hinton", "fei-fei li",
	"mustafa suleyman", "eric schmidt",
	"黄仁勋", "马斯克", "扎克伯格", "奥特曼", "纳德拉",
	"李飞飞", "吴恩达", "李开复", "周鸿祎", "雷军",
	"创始人", "首席", "总裁", "董事长", "董事", "总经理",
}

// 否定/传闻词权重：围绕核心动作动词出现时全额计分，否则减半
var negativeWeights = map[string]float64{
	"fake": 3, "false": 3, "denied": 3, "debunk": 2.5, "not": 2,
	"虚假": 3, "否认": 3, "辟谣": 2.5, "不是": 2,
	"rumor": 2, "speculation": 2, "unconfirmed": 2, "allegedly": 1.5,
	"传闻": 2, "谣言": 2, "未经证实": 2, "据称": 1.5,
	"delayed": 1.5, "cancelled": 2, "suspended": 1.5,
	"延期": 1.5, "取消": 2, "暂停": 1.5,
	"might": 1, "could": 1, "possibly": 1,
	"可能": 1, "或许": 1,
}

var actionWords = []string{
	"release", "launch", "announce", "unveil", "publish",
	"发布", "推出", "宣布", "公布", "上线",
}

// 可信来源标记：每命中一个 +0.2，上限 1.0
var trustedSources = []string{
	"official", "blog", "press release", "announcement", "techcrunch",
	"reuters", "bloomberg", "the verge", "wired",
	"官方", "官网", "新闻稿", "公告",
}

// 技术领域表：有序切片保证输出顺序稳定
type techCategory struct {
	name     string
	keywords []string
}

var techCategories = []techCategory{
	{"NLP", []string{
		"nlp", "natural language", "text mining", "embedding", "bert", "transformer",
		"sentiment analysis", "translation", "linguistics", "tokenization",
		"自然语言", "文本挖掘", "语义", "翻译", "词向量",
	}},
	{"Computer Vision", []string{
		"vision", "image", "video", "detection", "recognition", "segmentation", "ocr",
		"yolo", "resnet", "vit", "视觉", "图像", "视频", "识别", "检测",
	}},
	{"Reinforcement Learning", []string{
		"reinforcement", "rl", "agent", "policy", "reward", "q-learning", "ppo",
		"强化学习", "智能体", "奖励",
	}},
	{"Generative AI", []string{
		"generative", "generation", "aigc", "llm", "large language model", "foundation model",
		"gpt", "chatgpt", "claude", "llama", "mistral", "gemini", "copilot", "grok",
		"sora", "midjourney", "dalle", "stable diffusion", "runway", "pika", "flux",
		"text-to-image", "text-to-video", "生成式", "大模型", "语言模型", "文生图", "文生视频",
	}},
	{"MLOps", []string{"mlops", "deployment", "production", "monitoring", "pipeline", "部署", "运维"}},
	{"AI Ethics", []string{"ethics", "bias", "fairness", "privacy", "safety", "alignment", "伦理", "偏见", "隐私", "安全", "对齐"}},
}

type regionEntry struct {
	name     string
	keywords []string
}

var regionKeywords = []regionEntry{
	{"China", []string{"china", "chinese", "beijing", "shanghai", "baidu", "alibaba", "tencent", "中国", "百度", "阿里", "腾讯"}},
	{"USA", []string{"usa", "us", "silicon valley", "openai", "google", "microsoft", "meta", "美国"}},
	{"Europe", []string{"europe", "eu", "european", "mistral", "deepmind", "欧洲"}},
	{"Global", []string{"global", "international", "worldwide", "全球", "国际"}},
}

// ============ AI 相关性评估关键词 ============

// 核心 AI 概念（高权重）
var aiCoreKeywords = map[string]int{
	"artificial intelligence": 5, "machine learning": 5, "deep learning": 5,
	"neural network": 4, "large language model": 5, "llm": 4,
	"natural language processing": 4, "nlp": 3, "computer vision": 4,
	"generative ai": 5, "gen ai": 4, "genai": 4,
	"transformer": 3, "diffusion model": 4, "foundation model": 4,
	"multimodal": 3, "reinforcement learning": 4, "rlhf": 4,
	"人工智能": 5, "机器学习": 5, "深度学习": 5, "神经网络": 4,
	"大语言模型": 5, "大模型": 4, "自然语言处理": 4, "计算机视觉": 4,
	"生成式ai": 5, "生成式人工智能": 5, "多模态": 3,
}

// AI 产品/公司（中权重）
var aiProductKeywords = map[string]int{
	"gpt": 3, "gpt-4": 4, "gpt-5": 4, "chatgpt": 4, "o1": 3, "o3": 3,
	"claude": 4, "gemini": 4, "llama": 3, "mistral": 3,
	"copilot": 3, "cursor": 3, "sora": 4, "midjourney": 3,
	"stable diffusion": 3, "dall-e": 3, "whisper": 3,
	"openai": 4, "anthropic": 4, "deepmind": 4, "google ai": 3,
	"nvidia ai": 3, "meta ai": 3, "microsoft ai": 3,
	"文心一言": 4, "通义千问": 4, "豆包": 3, "kimi": 3,
	"智谱": 3, "chatglm": 3, "qwen": 3, "deepseek": 3,
	"星火": 3, "讯飞": 3, "百川": 3,
}

// 弱 AI 相关词（低权重）
var aiWeakKeywords = map[string]int{
	"ai": 2, "ml": 2, "model": 1, "algorithm": 2, "neural": 2,
	"training": 1, "inference": 2, "fine-tune": 2, "fine tuning": 2,
	"embedding": 2, "vector": 1, "prompt": 2, "rag": 2,
	"agent": 2, "autonomous": 2, "intelligent": 1, "smart": 1,
	"bot": 1, "chatbot": 2, "assistant": 1,
	"智能": 1, "模型": 1, "算法": 2, "训练": 1, "推理": 2,
}

// 非 AI 领域词：出现时扣相关性分
var nonAIKeywords = []string{
	// 体育
	"football", "basketball", "soccer", "nba", "nfl", "sports", "olympics",
	"足球", "篮球", "体育", "奥运",
	// 娱乐
	"celebrity", "movie star", "actor", "actress", "entertainment", "gossip",
	"明星", "娱乐", "八卦", "电影明星",
	// 政治（非 AI 政策）
	"election", "vote", "president", "senator", "congress",
	"选举", "投票", "总统",
	// 金融（非 AI 投资）
	"stock price", "forex", "cryptocurrency price", "bitcoin price",
	"股价", "外汇", "币价",
	// 其他
	"weather", "recipe", "diet", "fashion",
	"天气", "食谱", "减肥", "时尚",
}

// AI 专业来源：命中任意一个 +0.15 相关性
var aiSources = []string{
	"arxiv", "huggingface", "openai", "anthropic", "deepmind",
	"github", "machine learning", "ai news", "ai blog",
	"机器之心", "量子位", "jiqizhixin", "qbitai",
}
