package llm

import (
	"fmt"
	"sync"

	"github.com/dyike/clipmind/pkg/vectordb"
)

// StaticEmbedder 预置向量的嵌入器（测试和开发用）
// 未预置的文本回退到确定性的哈希种子伪随机向量
type StaticEmbedder struct {
	mu         sync.Mutex
	dimensions int
	vectors    map[string][]float32
	err        error
}

// NewStaticEmbedder 创建静态嵌入器
func NewStaticEmbedder(dimensions int) *StaticEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &StaticEmbedder{
		dimensions: dimensions,
		vectors:    make(map[string][]float32),
	}
}

// Set 预置文本对应的向量
// 向量维度不足时在尾部补零
func (s *StaticEmbedder) Set(text string, vec []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	padded := make([]float32, s.dimensions)
	copy(padded, vec)
	s.vectors[text] = vectordb.Normalize(padded)
}

// FailWith 让后续Embed调用返回指定错误
// 传入nil恢复正常
func (s *StaticEmbedder) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Embed 返回预置向量，未预置时生成确定性伪随机向量
func (s *StaticEmbedder) Embed(text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	if text == "" {
		return nil, &EmbedError{
			Kind: FailureTransient,
			Err:  fmt.Errorf("empty text"),
		}
	}

	if vec, ok := s.vectors[text]; ok {
		out := make([]float32, len(vec))
		copy(out, vec)
		return out, nil
	}

	// 用文本内容作为种子生成伪随机向量
	seed := uint32(0)
	for _, c := range text {
		seed = seed*31 + uint32(c)
	}

	vec := make([]float32, s.dimensions)
	for i := range vec {
		seed = seed*1103515245 + 12345
		vec[i] = float32(int32(seed)) / float32(1<<31)
	}

	return vectordb.Normalize(vec), nil
}

// Dimensions 返回向量维度
func (s *StaticEmbedder) Dimensions() int {
	return s.dimensions
}
