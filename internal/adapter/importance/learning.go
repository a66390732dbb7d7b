package importance

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// 学习参数
const (
	rollingWindow   = 50 // 每个来源保留的最近评分数量
	persistInterval = 10 // 每多少次反馈落盘一次
	minLearnSamples = 5  // 启用动态评分的最少样本数
)

type sourcePerf struct {
	Scores []float64 `json:"scores"`
	Count  int       `json:"count"`
	Avg    float64   `json:"avg"`
}

type learningFile struct {
	SourcePerformance map[string]*sourcePerf `json:"source_performance"`
	LastUpdated       string                 `json:"last_updated"`
}

// LearningStats 对外暴露的学习状态
type LearningStats struct {
	TotalSourcesTracked int  `json:"total_sources_tracked"`
	LearnedSources      int  `json:"learned_sources"`
	TotalSamples        int  `json:"total_samples"`
	LearningEnabled     bool `json:"learning_enabled"`
}

// learningState 按来源累积重要性评分的滚动窗口
// 统计性质数据，写盘失败只记日志不报错
type learningState struct {
	mu            sync.Mutex
	perf          map[string]*sourcePerf
	feedbackCount int
	file          string
}

func newLearningState(file string) *learningState {
	s := &learningState{
		perf: map[string]*sourcePerf{},
		file: file,
	}
	s.load()
	return s
}

func (s *learningState) load() {
	if s.file == "" {
		return
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		return
	}
	var lf learningFile
	if err := json.Unmarshal(data, &lf); err != nil {
		log.Printf("[importance] ⚠️ 学习数据损坏，忽略: %v", err)
		return
	}
	if lf.SourcePerformance != nil {
		s.perf = lf.SourcePerformance
	}
	log.Printf("[importance] 📚 已加载学习数据: %d 个来源", len(s.perf))
}

func (s *learningState) record(source string, score float64) {
	if source == "" {
		return
	}
	key := strings.ToLower(source)

	s.mu.Lock()
	p, ok := s.perf[key]
	if !ok {
		p = &sourcePerf{}
		s.perf[key] = p
	}
	p.Scores = append(p.Scores, score)
	if len(p.Scores) > rollingWindow {
		p.Scores = p.Scores[len(p.Scores)-rollingWindow:]
	}
	p.Count = len(p.Scores)
	sum := 0.0
	for _, v := range p.Scores {
		sum += v
	}
	p.Avg = sum / float64(p.Count)

	s.feedbackCount++
	shouldSave := s.feedbackCount%persistInterval == 0
	s.mu.Unlock()

	if shouldSave {
		if err := s.save(); err != nil {
			log.Printf("[importance] ⚠️ 学习数据保存失败: %v", err)
		}
	}
}

func (s *learningState) lookup(source string) (avg float64, count int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, exists := s.perf[strings.ToLower(source)]
	if !exists || p.Count < minLearnSamples {
		return 0, 0, false
	}
	return p.Avg, p.Count, true
}

func (s *learningState) save() error {
	if s.file == "" {
		return nil
	}
	s.mu.Lock()
	lf := learningFile{
		SourcePerformance: s.perf,
		LastUpdated:       time.Now().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(lf, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.file, data, 0o644)
}

func (s *learningState) stats() LearningStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := LearningStats{TotalSourcesTracked: len(s.perf)}
	for _, p := range s.perf {
		out.TotalSamples += p.Count
		if p.Count >= minLearnSamples {
			out.LearnedSources++
		}
	}
	out.LearningEnabled = out.LearnedSources > 0
	return out
}
