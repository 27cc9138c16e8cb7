package vectordb

import (
	"math"
	"testing"
)

func TestCosineSim(t *testing.T) {
	t.Run("Identical", func(t *testing.T) {
		a := []float32{1, 2, 3}
		score, err := CosineSim(a, a)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(score-1.0) > 1e-6 {
			t.Errorf("Expected 1.0, got %f", score)
		}
	})

	t.Run("Orthogonal", func(t *testing.T) {
		score, err := CosineSim([]float32{1, 0}, []float32{0, 1})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(score) > 1e-6 {
			t.Errorf("Expected 0, got %f", score)
		}
	})

	t.Run("Opposite", func(t *testing.T) {
		score, err := CosineSim([]float32{1, 1}, []float32{-1, -1})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(score+1.0) > 1e-6 {
			t.Errorf("Expected -1.0, got %f", score)
		}
	})

	t.Run("ZeroVector", func(t *testing.T) {
		// 零向量不报错，相似度为0
		score, err := CosineSim([]float32{0, 0, 0}, []float32{1, 2, 3})
		if err != nil {
			t.Fatal(err)
		}
		if score != 0 {
			t.Errorf("Expected 0 for zero vector, got %f", score)
		}
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		if _, err := CosineSim([]float32{1}, []float32{1, 2}); err == nil {
			t.Error("Expected dimension mismatch error")
		}
	})
}

func TestTopK(t *testing.T) {
	results := []SimResult{
		{Index: 0, Score: 0.1},
		{Index: 1, Score: 0.9},
		{Index: 2, Score: 0.5},
	}

	top := TopK(results, 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(top))
	}
	if top[0].Index != 1 || top[1].Index != 2 {
		t.Errorf("Expected order [1, 2], got [%d, %d]", top[0].Index, top[1].Index)
	}

	// k大于候选数时返回全部
	all := TopK(results, 10)
	if len(all) != 3 {
		t.Errorf("Expected 3 results, got %d", len(all))
	}

	if TopK(results, 0) != nil {
		t.Error("Expected nil for k=0")
	}
}

func TestTopKStableOnTies(t *testing.T) {
	results := []SimResult{
		{Index: 0, Score: 0.5},
		{Index: 1, Score: 0.9},
		{Index: 2, Score: 0.5},
		{Index: 3, Score: 0.5},
	}

	// 同分条目保持输入顺序
	top := TopK(results, 4)
	want := []int{1, 0, 2, 3}
	for i, idx := range want {
		if top[i].Index != idx {
			t.Errorf("Position %d: expected index %d, got %d", i, idx, top[i].Index)
		}
	}
}

func TestNormalize(t *testing.T) {
	vec := Normalize([]float32{3, 4})

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
		t.Errorf("Expected unit length, got %f", math.Sqrt(norm))
	}

	// 零向量原样返回
	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Error("Zero vector should pass through")
	}
}
