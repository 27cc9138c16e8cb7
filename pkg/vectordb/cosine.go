// Package vectordb 提供向量相似度计算的底层实现
package vectordb

import (
	"fmt"
	"math"
	"sort"
)

// CosineSim 计算两个向量的余弦相似度
// 返回值范围 [-1, 1]，1表示完全相同，-1表示完全相反
// 任一向量为零向量时返回0（避免除零）
func CosineSim(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d != %d", len(a), len(b))
	}

	if len(a) == 0 {
		return 0, fmt.Errorf("empty vectors")
	}

	var dotProduct, normA, normB float64

	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	// 零向量没有方向，相似度记为0
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))

	// 浮点误差可能略微超出范围，收敛到 [-1, 1]
	if similarity > 1 {
		similarity = 1
	} else if similarity < -1 {
		similarity = -1
	}

	return similarity, nil
}

// SimResult 相似度计算结果
type SimResult struct {
	Index int     // 候选向量索引
	Score float64 // 余弦相似度
}

// BatchCosineSim 批量计算查询向量与候选向量的余弦相似度
func BatchCosineSim(query []float32, candidates [][]float32) ([]SimResult, error) {
	results := make([]SimResult, len(candidates))

	for i, candidate := range candidates {
		score, err := CosineSim(query, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to score candidate %d: %w", i, err)
		}

		results[i] = SimResult{
			Index: i,
			Score: score,
		}
	}

	return results, nil
}

// TopK 返回相似度最高的k个结果
// 稳定排序：同分时保持输入顺序，调用方可用输入次序承载次级排序
func TopK(results []SimResult, k int) []SimResult {
	if k <= 0 || len(results) == 0 {
		return nil
	}

	sorted := make([]SimResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	if k > len(sorted) {
		k = len(sorted)
	}

	return sorted[:k]
}

// Normalize 归一化向量为单位长度
// 零向量原样返回
func Normalize(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}

	if sumSquares == 0 {
		return vec
	}

	norm := float32(1.0 / math.Sqrt(sumSquares))
	result := make([]float32, len(vec))
	for i, v := range vec {
		result[i] = v * norm
	}

	return result
}
