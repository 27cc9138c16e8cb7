// Package group 提供新条目的集合归属推荐
package group

import (
	"github.com/dyike/clipmind/pkg/vectordb"
)

// AcceptThreshold 接受推荐的平均相似度阈值
// 采用均值而不是最大值：单个近重复成员不足以把条目拉进集合
const AcceptThreshold = 0.7

// Candidate 候选集合
type Candidate struct {
	CollectionID  string
	MemberVectors [][]float32 // 各成员的嵌入向量（缺嵌入的成员不在其中）
}

// Suggestion 推荐结果
type Suggestion struct {
	CollectionID string
	Score        float64 // 平均余弦相似度
}

// Advisor 集合推荐器
type Advisor struct {
	threshold float64
}

// NewAdvisor 创建推荐器，使用默认阈值
func NewAdvisor() *Advisor {
	return &Advisor{threshold: AcceptThreshold}
}

// NewAdvisorWithThreshold 创建指定阈值的推荐器（测试用）
func NewAdvisorWithThreshold(threshold float64) *Advisor {
	return &Advisor{threshold: threshold}
}

// SuggestCollection 为新条目推荐集合
// 对每个有可评分成员的候选集合，计算新条目向量与各成员向量的平均余弦相似度；
// 超过阈值者中取最高分，没有超过阈值的返回nil
func (a *Advisor) SuggestCollection(itemVec []float32, candidates []Candidate) *Suggestion {
	if len(itemVec) == 0 {
		return nil
	}

	var best *Suggestion

	for _, candidate := range candidates {
		var sum float64
		scorable := 0

		for _, member := range candidate.MemberVectors {
			score, err := vectordb.CosineSim(itemVec, member)
			if err != nil {
				// 维度不一致的成员不参与评分
				continue
			}
			sum += score
			scorable++
		}

		// 没有可评分成员的集合整体跳过
		if scorable == 0 {
			continue
		}

		mean := sum / float64(scorable)
		if mean <= a.threshold {
			continue
		}

		if best == nil || mean > best.Score {
			best = &Suggestion{CollectionID: candidate.CollectionID, Score: mean}
		}
	}

	return best
}
