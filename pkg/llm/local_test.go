package llm

import (
	"errors"
	"testing"

	"github.com/dyike/clipmind/pkg/vectordb"
)

func TestLocalEmbedderDeterministic(t *testing.T) {
	e := NewLocalEmbedder(512)

	a, err := e.Embed("database schema migration plan")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed("database schema migration plan")
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 512 {
		t.Fatalf("Expected 512 dimensions, got %d", len(a))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Vectors differ at %d: %f != %f", i, a[i], b[i])
		}
	}
}

func TestLocalEmbedderSimilarity(t *testing.T) {
	e := NewLocalEmbedder(512)

	embed := func(text string) []float32 {
		vec, err := e.Embed(text)
		if err != nil {
			t.Fatal(err)
		}
		return vec
	}

	query := embed("database migration notes")
	related := embed("meeting notes about database migration")
	unrelated := embed("grocery list milk eggs bread")

	simRelated, _ := vectordb.CosineSim(query, related)
	simUnrelated, _ := vectordb.CosineSim(query, unrelated)

	if simRelated <= simUnrelated {
		t.Errorf("Expected related text to score higher: %f <= %f", simRelated, simUnrelated)
	}
}

func TestLocalEmbedderEmptyText(t *testing.T) {
	e := NewLocalEmbedder(0)

	if e.Dimensions() != DefaultDimensions {
		t.Errorf("Expected default dimensions %d, got %d", DefaultDimensions, e.Dimensions())
	}

	_, err := e.Embed("   ")
	if err == nil {
		t.Fatal("Expected error for blank text")
	}
	if !IsTransient(err) {
		t.Errorf("Expected transient failure, got %v", err)
	}
}

func TestLocalEmbedderTruncation(t *testing.T) {
	e := NewLocalEmbedder(128)

	// 超长文本截断后仍然可以嵌入
	long := make([]byte, MaxEmbedChars*2)
	for i := range long {
		long[i] = 'a' + byte(i%26)
	}

	vec, err := e.Embed(string(long))
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 128 {
		t.Errorf("Expected 128 dimensions, got %d", len(vec))
	}
}

func TestStaticEmbedder(t *testing.T) {
	s := NewStaticEmbedder(4)

	s.Set("alpha", []float32{1, 0, 0, 0})

	vec, err := s.Embed("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if vec[0] != 1 {
		t.Errorf("Expected preset vector, got %v", vec)
	}

	// 未预置文本的回退向量是确定性的
	a, _ := s.Embed("beta")
	b, _ := s.Embed("beta")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Fallback vector should be deterministic")
		}
	}

	// 注入错误
	s.FailWith(&EmbedError{Kind: FailureModelUnavailable, Err: errTest})
	if _, err := s.Embed("alpha"); !IsModelUnavailable(err) {
		t.Errorf("Expected model unavailable, got %v", err)
	}
}

var errTest = errors.New("model missing")
