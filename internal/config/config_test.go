package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "llm", cfg.Classifier.Mode)
	assert.Equal(t, 0.45, cfg.Classifier.ReviewThreshold)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "qwen3:8b", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "concurrent", cfg.LLM.BatchMode)
	assert.True(t, cfg.LLM.CacheEnabled)
	assert.Equal(t, "auto", cfg.LLM.GPU)
	assert.True(t, cfg.Importance.LearningEnabled)
	assert.Equal(t, 0.40, cfg.Database.SaveThreshold)
}

func TestLoad(t *testing.T) {
	t.Run("读取YAML文件", func(t *testing.T) {
		path := writeConfig(t, `
classifier:
  mode: rule
  review_threshold: 0.6
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-test
database:
  dsn: "host=localhost dbname=tracker"
  save_threshold: 0.5
notify:
  webhook_url: https://example.com/hook
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "rule", cfg.Classifier.Mode)
		assert.Equal(t, 0.6, cfg.Classifier.ReviewThreshold)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.Equal(t, "host=localhost dbname=tracker", cfg.Database.DSN)
		assert.Equal(t, 0.5, cfg.Database.SaveThreshold)
		assert.Equal(t, "https://example.com/hook", cfg.Notify.WebhookURL)
	})

	t.Run("文件不存在退回默认配置", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "llm", cfg.Classifier.Mode)
	})

	t.Run("非法YAML报错", func(t *testing.T) {
		path := writeConfig(t, "classifier: [not a map")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("未写字段保留默认值", func(t *testing.T) {
		path := writeConfig(t, `
llm:
  model: llama3:8b
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "llama3:8b", cfg.LLM.Model)
		assert.Equal(t, "ollama", cfg.LLM.Provider)
		assert.True(t, cfg.LLM.CacheEnabled)
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRACKER_MODE", "rule")
	t.Setenv("TRACKER_LLM_PROVIDER", "gemini")
	t.Setenv("TRACKER_LLM_MODEL", "gemini-1.5-flash")
	t.Setenv("TRACKER_LLM_WORKERS", "8")
	t.Setenv("TRACKER_LLM_CACHE", "false")
	t.Setenv("TRACKER_DB_DSN", "host=db dbname=tracker")
	t.Setenv("TRACKER_WEBHOOK_URL", "https://hook.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "rule", cfg.Classifier.Mode)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
	assert.Equal(t, 8, cfg.LLM.Workers)
	assert.False(t, cfg.LLM.CacheEnabled)
	assert.Equal(t, "host=db dbname=tracker", cfg.Database.DSN)
	assert.Equal(t, "https://hook.example.com", cfg.Notify.WebhookURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: openai
  model: gpt-4o-mini
`)
	t.Setenv("TRACKER_LLM_MODEL", "gpt-4o")

	cfg, err := Load(path)
	require.NoError(t, err)

	// 环境变量优先于文件
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errContains string
	}{
		{
			name:        "默认配置合法",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "非法分类模式",
			mutate:      func(c *Config) { c.Classifier.Mode = "hybrid" },
			expectError: true,
			errContains: "非法分类模式",
		},
		{
			name:        "非法LLM供应商",
			mutate:      func(c *Config) { c.LLM.Provider = "claude" },
			expectError: true,
			errContains: "非法 LLM 供应商",
		},
		{
			name: "rule模式不校验供应商",
			mutate: func(c *Config) {
				c.Classifier.Mode = "rule"
				c.LLM.Provider = "whatever"
			},
			expectError: false,
		},
		{
			name:        "非法批量策略",
			mutate:      func(c *Config) { c.LLM.BatchMode = "parallel" },
			expectError: true,
			errContains: "非法批量策略",
		},
		{
			name:        "批量大小归零时重置默认",
			mutate:      func(c *Config) { c.LLM.BatchSize = -1 },
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_NormalizesZeroValues(t *testing.T) {
	cfg := Default()
	cfg.LLM.BatchSize = 0
	cfg.Classifier.ReviewThreshold = 0
	cfg.Database.SaveThreshold = 0

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.LLM.BatchSize)
	assert.Equal(t, 0.45, cfg.Classifier.ReviewThreshold)
	assert.Equal(t, 0.40, cfg.Database.SaveThreshold)
}
