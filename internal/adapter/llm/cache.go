package llm

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"ai-world-tracker/internal/domain"
)

// cacheEntry 缓存的分类结果，重要性分数不入缓存（时效性要实时算）
type cacheEntry struct {
	ContentType  string   `json:"content_type"`
	Confidence   float64  `json:"confidence"`
	AIRelevance  float64  `json:"ai_relevance"`
	TechFields   []string `json:"tech_categories"`
	IsVerified   bool     `json:"is_verified"`
	Reasoning    string   `json:"llm_reasoning"`
	Region       string   `json:"region"`
	ClassifiedBy string   `json:"classified_by"`
}

// resultCache 分类结果缓存
// key 为 "内容哈希:provider/model"，不同模型的结果共存互不覆盖
type resultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	file    string
	enabled bool
}

// ContentHash 内容 MD5，不含模型信息
func ContentHash(item *domain.Item) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%s|%s", item.Title, item.Summary, item.Source)))
	return hex.EncodeToString(sum[:])
}

func cacheKey(item *domain.Item, modelID string) string {
	return ContentHash(item) + ":" + modelID
}

func newResultCache(file string, enabled bool) *resultCache {
	c := &resultCache{
		entries: map[string]cacheEntry{},
		file:    file,
		enabled: enabled,
	}
	if enabled {
		c.load()
	}
	return c
}

func (c *resultCache) load() {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return
	}

	var loaded map[string]cacheEntry
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("[llm] ⚠️ 缓存文件损坏，已删除: %v", err)
		os.Remove(c.file)
		return
	}

	// 旧格式缓存没有 classified_by 字段，整体丢弃重建
	for _, entry := range loaded {
		if entry.ClassifiedBy == "" {
			log.Printf("[llm] ⚠️ 检测到旧格式缓存，已清除")
			os.Remove(c.file)
			return
		}
		break
	}

	c.entries = loaded
	log.Printf("[llm] 📂 已加载 %d 条分类缓存", len(loaded))
}

func (c *resultCache) get(key string) (cacheEntry, bool) {
	if !c.enabled {
		return cacheEntry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

func (c *resultCache) put(key string, entry cacheEntry) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// flush 落盘，每个批次结束调用一次
func (c *resultCache) flush() error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	data, err := json.MarshalIndent(c.entries, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(c.file, data, 0o644)
}

// Clear 清空内存和文件缓存
func (c *resultCache) clear() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.mu.Unlock()
	if err := os.Remove(c.file); err == nil || os.IsNotExist(err) {
		log.Printf("[llm] ✅ 分类缓存已清除（文件+内存）")
	} else {
		log.Printf("[llm] ❌ 删除缓存文件失败: %v", err)
	}
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
