package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"ai-world-tracker/internal/common"
)

// Config 应用配置：YAML 文件 + 环境变量覆盖
// 除 Validate 报错外，任何字段缺省都有可用默认值
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	LLM        LLMConfig        `yaml:"llm"`
	Importance ImportanceConfig `yaml:"importance"`
	Database   DatabaseConfig   `yaml:"database"`
	Notify     NotifyConfig     `yaml:"notify"`
}

// ClassifierConfig 分类器总开关
type ClassifierConfig struct {
	// Mode: "rule" 纯规则，"llm" LLM 优先规则兜底
	Mode string `yaml:"mode"`

	// NeedsReview 阈值：置信度低于它的结果标记人工复核
	ReviewThreshold float64 `yaml:"review_threshold"`
}

// LLMConfig LLM 分类链路配置
type LLMConfig struct {
	// Provider: "ollama" / "openai" / "azure" / "gemini"
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	BaseURL string `yaml:"base_url"` // ollama 默认 http://localhost:11434
	APIKey  string `yaml:"api_key"`

	// 批量策略："batch" 一次 prompt 多条，"concurrent" worker 并发单条
	BatchMode string `yaml:"batch_mode"`
	BatchSize int    `yaml:"batch_size"`

	// Workers <= 0 时按 GPU 探测结果自动取值（GPU: 6，CPU: 3）
	Workers int `yaml:"workers"`

	CacheEnabled bool   `yaml:"cache_enabled"`
	CacheFile    string `yaml:"cache_file"`

	// GPU: "auto" 自动探测，"on"/"off" 强制
	GPU string `yaml:"gpu"`
}

// ImportanceConfig 重要性评估配置
type ImportanceConfig struct {
	LearningEnabled bool   `yaml:"learning_enabled"`
	LearningFile    string `yaml:"learning_file"`
}

// DatabaseConfig 存储配置（Postgres DSN），为空时跳过持久化
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`

	// 重要性低于该值的条目不入库，默认 0.40 (low 级起步)
	SaveThreshold float64 `yaml:"save_threshold"`
}

// NotifyConfig 推送配置（webhook 为空时不推送）
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// Default 返回全默认配置（本地 Ollama + 规则兜底）
func Default() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			Mode:            "llm",
			ReviewThreshold: 0.45,
		},
		LLM: LLMConfig{
			Provider:     "ollama",
			Model:        "qwen3:8b",
			BaseURL:      "http://localhost:11434",
			BatchMode:    "concurrent",
			BatchSize:    10,
			Workers:      0,
			CacheEnabled: true,
			CacheFile:    "data/llm_cache.json",
			GPU:          "auto",
		},
		Importance: ImportanceConfig{
			LearningEnabled: true,
			LearningFile:    "data/source_learning.json",
		},
		Database: DatabaseConfig{
			SaveThreshold: 0.40,
		},
	}
}

// Load 读取 YAML 配置文件并套用环境变量覆盖
// 文件不存在时退回默认配置（环境变量仍然生效）
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, common.WrapError(common.ErrCodeConfig, "读取配置文件失败", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, common.WrapError(common.ErrCodeConfig, "解析配置文件失败", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 环境变量覆盖，便于容器部署时免改文件
func applyEnv(cfg *Config) {
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr("TRACKER_MODE", &cfg.Classifier.Mode)
	setStr("TRACKER_LLM_PROVIDER", &cfg.LLM.Provider)
	setStr("TRACKER_LLM_MODEL", &cfg.LLM.Model)
	setStr("TRACKER_LLM_BASE_URL", &cfg.LLM.BaseURL)
	setStr("TRACKER_LLM_API_KEY", &cfg.LLM.APIKey)
	setStr("TRACKER_LLM_GPU", &cfg.LLM.GPU)
	setStr("TRACKER_DB_DSN", &cfg.Database.DSN)
	setStr("TRACKER_WEBHOOK_URL", &cfg.Notify.WebhookURL)

	if v := os.Getenv("TRACKER_LLM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.Workers = n
		}
	}
	if v := os.Getenv("TRACKER_LLM_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LLM.CacheEnabled = b
		}
	}
}

// Validate 只有模式/供应商非法才算致命错误，其他字段一律容忍
func (c *Config) Validate() error {
	switch c.Classifier.Mode {
	case "rule", "llm":
	default:
		return common.NewError(common.ErrCodeConfig,
			fmt.Sprintf("非法分类模式 %q (可选: rule, llm)", c.Classifier.Mode))
	}

	if c.Classifier.Mode == "llm" {
		switch c.LLM.Provider {
		case "ollama", "openai", "azure", "gemini":
		default:
			return common.NewError(common.ErrCodeConfig,
				fmt.Sprintf("非法 LLM 供应商 %q (可选: ollama, openai, azure, gemini)", c.LLM.Provider))
		}
	}

	switch c.LLM.BatchMode {
	case "", "batch", "concurrent":
	default:
		return common.NewError(common.ErrCodeConfig,
			fmt.Sprintf("非法批量策略 %q (可选: batch, concurrent)", c.LLM.BatchMode))
	}

	if c.LLM.BatchSize <= 0 {
		c.LLM.BatchSize = 10
	}
	if c.Classifier.ReviewThreshold <= 0 {
		c.Classifier.ReviewThreshold = 0.45
	}
	if c.Database.SaveThreshold <= 0 {
		c.Database.SaveThreshold = 0.40
	}
	return nil
}
