// Package index 提供内存中的相似度索引
// 维护条目ID到嵌入向量的映射，支持余弦相似度的k近邻查询
package index

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dyike/clipmind/pkg/hash"
	"github.com/dyike/clipmind/pkg/llm"
	"github.com/dyike/clipmind/pkg/vectordb"
)

const (
	// DefaultLimit 查询默认返回数量
	DefaultLimit = 20
	// MaxLimit 查询最大返回数量
	MaxLimit = 500
	// BatchSize 批量索引的分批大小
	BatchSize = 10
)

var (
	// ErrIndexNotReady 索引尚无任何条目
	// 与空结果区分：调用方可以分辨"没有匹配"和"还没有索引"
	ErrIndexNotReady = errors.New("index not ready")
	// ErrEmptyQuery 查询文本为空或无法提取
	ErrEmptyQuery = errors.New("empty query")
)

// entry 索引条目
// 缓存文本指纹，内容未变化时跳过重新嵌入
type entry struct {
	vec         []float32
	fingerprint string
	createdAt   time.Time
}

// Result 查询结果
type Result struct {
	ID    string  // 条目ID
	Score float64 // 余弦相似度
}

// Index 相似度索引
// 写操作相对同一条目串行（由调用方的单worker保证），
// 查询可以与写并发，读写锁保证不会观察到写了一半的向量
type Index struct {
	mu       sync.RWMutex
	embedder llm.Embedder
	entries  map[string]entry
}

// New 创建索引
func New(embedder llm.Embedder) *Index {
	return &Index{
		embedder: embedder,
		entries:  make(map[string]entry),
	}
}

// Upsert 插入或更新条目
// 指纹未变化时无操作；嵌入失败时保留旧条目并把错误交给调用方记录
func (ix *Index) Upsert(id, text string, createdAt time.Time) error {
	fp := hash.Fingerprint(text)

	ix.mu.RLock()
	existing, ok := ix.entries[id]
	ix.mu.RUnlock()

	if ok && existing.fingerprint == fp {
		return nil
	}

	// 嵌入在锁外执行，查询不被慢嵌入阻塞
	vec, err := ix.embedder.Embed(text)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", id, err)
	}

	ix.mu.Lock()
	ix.entries[id] = entry{vec: vec, fingerprint: fp, createdAt: createdAt}
	ix.mu.Unlock()

	return nil
}

// UpsertVector 直接以现成向量插入条目（用于从持久层回填）
func (ix *Index) UpsertVector(id string, vec []float32, fingerprint string, createdAt time.Time) {
	ix.mu.Lock()
	ix.entries[id] = entry{vec: vec, fingerprint: fingerprint, createdAt: createdAt}
	ix.mu.Unlock()
}

// Remove 移除条目，不存在时无操作
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	delete(ix.entries, id)
	ix.mu.Unlock()
}

// Len 返回索引条目数
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Ready 索引持有至少一个条目时为就绪
func (ix *Index) Ready() bool {
	return ix.Len() > 0
}

// Query 查询最相似的条目
// 结果按相似度降序，同分时较新者在前；limit为0使用默认值，上限500
func (ix *Index) Query(text string, limit int) ([]Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	limit = clampLimit(limit)

	if !ix.Ready() {
		return nil, ErrIndexNotReady
	}

	// 查询向量只计算一次
	queryVec, err := ix.embedder.Embed(text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	type candidate struct {
		id        string
		createdAt time.Time
		vec       []float32
	}

	// 快照候选条目；向量在入索引后不会被原地修改，锁外打分安全
	ix.mu.RLock()
	cands := make([]candidate, 0, len(ix.entries))
	for id, e := range ix.entries {
		// 维度不一致的旧条目不参与排名
		if len(e.vec) != len(queryVec) {
			continue
		}
		cands = append(cands, candidate{id: id, createdAt: e.createdAt, vec: e.vec})
	}
	ix.mu.RUnlock()

	// 先按较新者在前排序，TopK稳定排序后同分自然落在较新条目
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].createdAt.Equal(cands[j].createdAt) {
			return cands[i].createdAt.After(cands[j].createdAt)
		}
		return cands[i].id < cands[j].id
	})

	vecs := make([][]float32, len(cands))
	for i, c := range cands {
		vecs[i] = c.vec
	}

	scores, err := vectordb.BatchCosineSim(queryVec, vecs)
	if err != nil {
		return nil, fmt.Errorf("failed to score candidates: %w", err)
	}

	top := vectordb.TopK(scores, limit)
	out := make([]Result, len(top))
	for i, r := range top {
		out[i] = Result{ID: cands[r.Index].id, Score: r.Score}
	}
	return out, nil
}

// clampLimit 将查询limit收敛到[1, MaxLimit]，0或负值使用默认值
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Vector 返回条目的嵌入向量副本，不存在时返回nil
// GroupingAdvisor用它读取成员向量
func (ix *Index) Vector(id string) []float32 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	e, ok := ix.entries[id]
	if !ok {
		return nil
	}

	out := make([]float32, len(e.vec))
	copy(out, e.vec)
	return out
}

// BatchItem 批量索引的输入
type BatchItem struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// BatchError 批量索引中单个条目的失败
type BatchError struct {
	ID  string
	Err error
}

// UpsertBatch 批量索引
// 按固定批次处理以限制峰值延迟；失败按条目计，单个失败不中止整批
func (ix *Index) UpsertBatch(items []BatchItem) []BatchError {
	var failures []BatchError

	for start := 0; start < len(items); start += BatchSize {
		end := start + BatchSize
		if end > len(items) {
			end = len(items)
		}

		for _, item := range items[start:end] {
			if err := ix.Upsert(item.ID, item.Text, item.CreatedAt); err != nil {
				failures = append(failures, BatchError{ID: item.ID, Err: err})
			}
		}
	}

	return failures
}
