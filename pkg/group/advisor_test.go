package group

import (
	"math"
	"testing"
)

func TestSuggestCollection(t *testing.T) {
	advisor := NewAdvisor()
	item := []float32{1, 0, 0}

	t.Run("BelowThreshold", func(t *testing.T) {
		// 所有候选的平均相似度都低于0.7
		candidates := []Candidate{
			{CollectionID: "a", MemberVectors: [][]float32{{0, 1, 0}, {0, 0, 1}}},
			{CollectionID: "b", MemberVectors: [][]float32{{0.5, 0.866, 0}}},
		}

		if got := advisor.SuggestCollection(item, candidates); got != nil {
			t.Errorf("Expected nil suggestion, got %+v", got)
		}
	})

	t.Run("SingleAboveThreshold", func(t *testing.T) {
		candidates := []Candidate{
			{CollectionID: "far", MemberVectors: [][]float32{{0, 1, 0}}},
			{CollectionID: "near", MemberVectors: [][]float32{{1, 0, 0}, {0.9, 0.436, 0}}},
		}

		got := advisor.SuggestCollection(item, candidates)
		if got == nil {
			t.Fatal("Expected a suggestion")
		}
		if got.CollectionID != "near" {
			t.Errorf("Expected 'near', got %s", got.CollectionID)
		}
		if got.Score <= AcceptThreshold {
			t.Errorf("Expected score above threshold, got %f", got.Score)
		}
	})

	t.Run("PicksHighestMean", func(t *testing.T) {
		candidates := []Candidate{
			{CollectionID: "good", MemberVectors: [][]float32{{0.8, 0.6, 0}}},
			{CollectionID: "better", MemberVectors: [][]float32{{0.95, 0.312, 0}}},
		}

		got := advisor.SuggestCollection(item, candidates)
		if got == nil || got.CollectionID != "better" {
			t.Errorf("Expected 'better', got %+v", got)
		}
	})

	t.Run("MeanResistsOutlier", func(t *testing.T) {
		// 一个近重复成员 + 两个无关成员：均值被拉低到阈值之下
		candidates := []Candidate{
			{CollectionID: "mixed", MemberVectors: [][]float32{
				{1, 0, 0}, // 近重复
				{0, 1, 0},
				{0, 0, 1},
			}},
		}

		if got := advisor.SuggestCollection(item, candidates); got != nil {
			t.Errorf("Expected outlier-resistant rejection, got %+v", got)
		}
	})

	t.Run("SkipsUnscorableCollections", func(t *testing.T) {
		candidates := []Candidate{
			{CollectionID: "empty"},
			{CollectionID: "mismatched", MemberVectors: [][]float32{{1, 0}}}, // 维度不一致
		}

		if got := advisor.SuggestCollection(item, candidates); got != nil {
			t.Errorf("Expected nil for unscorable candidates, got %+v", got)
		}
	})

	t.Run("NilItemVector", func(t *testing.T) {
		candidates := []Candidate{
			{CollectionID: "a", MemberVectors: [][]float32{{1, 0, 0}}},
		}
		if got := advisor.SuggestCollection(nil, candidates); got != nil {
			t.Errorf("Expected nil for missing item vector, got %+v", got)
		}
	})
}

func TestMeanComputation(t *testing.T) {
	advisor := NewAdvisorWithThreshold(0.0)
	item := []float32{1, 0}

	// 成员相似度 1.0 和 0.0，均值应为 0.5
	candidates := []Candidate{
		{CollectionID: "c", MemberVectors: [][]float32{{1, 0}, {0, 1}}},
	}

	got := advisor.SuggestCollection(item, candidates)
	if got == nil {
		t.Fatal("Expected suggestion with zero threshold")
	}
	if math.Abs(got.Score-0.5) > 1e-6 {
		t.Errorf("Expected mean 0.5, got %f", got.Score)
	}
}
