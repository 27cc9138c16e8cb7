package llm

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/dyike/clipmind/pkg/vectordb"
)

// LocalEmbedder 本地确定性嵌入器
// 基于特征哈希（feature hashing）：把词和字符trigram散列到固定维度的桶中，
// 词汇重叠的文本会得到相近的向量。无需外部模型，适合离线运行和测试
type LocalEmbedder struct {
	dimensions int
}

// NewLocalEmbedder 创建本地嵌入器
// dimensions <= 0 时使用默认维度
func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &LocalEmbedder{dimensions: dimensions}
}

// Embed 生成文本的嵌入向量
func (e *LocalEmbedder) Embed(text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &EmbedError{
			Kind: FailureTransient,
			Err:  fmt.Errorf("empty text"),
		}
	}

	// 截断过长文本，限制延迟
	text = truncateText(text, MaxEmbedChars)

	vec := make([]float32, e.dimensions)

	for _, token := range tokenize(text) {
		// 完整词权重更高
		vec[e.bucket(token)] += 2.0

		// 字符trigram捕捉词形相近的词汇
		runes := []rune(token)
		for i := 0; i+3 <= len(runes); i++ {
			vec[e.bucket(string(runes[i:i+3]))] += 1.0
		}
	}

	return vectordb.Normalize(vec), nil
}

// Dimensions 返回向量维度
func (e *LocalEmbedder) Dimensions() int {
	return e.dimensions
}

// bucket 把token散列到向量维度内的桶
func (e *LocalEmbedder) bucket(token string) int {
	h := fnv.New64a()
	h.Write([]byte(token))
	return int(h.Sum64() % uint64(e.dimensions))
}

// tokenize 小写分词，只保留字母和数字
func tokenize(text string) []string {
	var tokens []string
	var word []rune

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word = append(word, r)
		} else if len(word) > 0 {
			tokens = append(tokens, string(word))
			word = nil
		}
	}

	if len(word) > 0 {
		tokens = append(tokens, string(word))
	}

	return tokens
}
