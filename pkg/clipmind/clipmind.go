// Package clipmind 提供剪贴板捕获、分类与语义组织功能
package clipmind

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dyike/clipmind/pkg/clipboard"
	"github.com/dyike/clipmind/pkg/index"
	"github.com/dyike/clipmind/pkg/llm"
	"github.com/dyike/clipmind/pkg/pipeline"
	"github.com/dyike/clipmind/pkg/store"
)

// ClipMind 核心实例
type ClipMind struct {
	store    *store.Store
	embedder llm.Embedder
	index    *index.Index
	watcher  *clipboard.Watcher
	coord    *pipeline.Coordinator
	cfg      Config

	mu      sync.Mutex
	cancel  context.CancelFunc
	runWG   sync.WaitGroup
	running bool
}

// SearchResult 语义搜索结果
type SearchResult struct {
	Item  store.Item
	Score float64
}

// Status 运行状态
type Status struct {
	TotalItems  int
	IndexedSize int
	Collections int
	Watching    bool
	DBPath      string
}

// New 创建新的ClipMind实例，监听系统剪贴板
func New(cfg Config) (*ClipMind, error) {
	return NewWithBuffer(cfg, clipboard.NewSystemBuffer())
}

// NewWithBuffer 使用指定剪贴板缓冲创建实例
func NewWithBuffer(cfg Config, buffer clipboard.Buffer) (*ClipMind, error) {
	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 初始化store
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	embedder := llm.NewLocalEmbedder(cfg.EmbeddingDims)
	ix := index.New(embedder)

	coord := pipeline.NewCoordinator(st, embedder, ix, pipeline.Config{
		AllowDuplicates: cfg.AllowDuplicates,
		MaxItems:        cfg.MaxItems,
		SemanticSearch:  cfg.SemanticSearch,
		RateLimit:       cfg.RateLimit,
		RateWindow:      cfg.RateWindow,
	})

	watcher := clipboard.NewWatcher(buffer, clipboard.WatcherConfig{
		Interval:           cfg.PollInterval,
		SuppressDuplicates: !cfg.AllowDuplicates,
	})

	return &ClipMind{
		store:    st,
		embedder: embedder,
		index:    ix,
		watcher:  watcher,
		coord:    coord,
		cfg:      cfg,
	}, nil
}

// NewWithDB 使用指定数据库路径快速初始化
func NewWithDB(dbPath string) (*ClipMind, error) {
	cfg := DefaultConfig()
	cfg.DBPath = dbPath
	return New(cfg)
}

// Start 回填索引并启动剪贴板监听
// 重复调用是空操作
func (c *ClipMind) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	// 启动前用持久层数据回填相似度索引
	if err := c.coord.Backfill(); err != nil {
		return fmt.Errorf("failed to backfill index: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.watcher.Start()

	c.runWG.Add(1)
	go func() {
		defer c.runWG.Done()
		c.coord.Run(ctx, c.watcher.Events())
	}()

	c.running = true
	return nil
}

// Stop 停止监听，已入队的索引任务会被处理完
func (c *ClipMind) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.watcher.Stop()
	c.cancel()
	c.runWG.Wait()
	c.running = false
}

// Close 停止监听并关闭底层资源
func (c *ClipMind) Close() error {
	c.Stop()
	c.coord.Close()

	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// Reindex 从持久层回填相似度索引，不启动监听
func (c *ClipMind) Reindex() error {
	return c.coord.Backfill()
}

// Subscribe 订阅流水线事件（捕获/索引/归组/丢弃）
func (c *ClipMind) Subscribe() <-chan pipeline.Event {
	return c.coord.Subscribe()
}

// Capture 手动提交一段文本，走与剪贴板捕获相同的流水线
func (c *ClipMind) Capture(text, sourceApp string) (pipeline.Outcome, *store.Item) {
	return c.coord.HandleCapture(clipboard.CaptureEvent{
		Text:      text,
		SourceApp: sourceApp,
		Timestamp: time.Now().UTC(),
	})
}

// Status 返回运行状态
func (c *ClipMind) Status() (Status, error) {
	total, err := c.store.CountItems()
	if err != nil {
		return Status{}, err
	}

	cols, err := c.store.ListCollections()
	if err != nil {
		return Status{}, err
	}

	return Status{
		TotalItems:  total,
		IndexedSize: c.index.Len(),
		Collections: len(cols),
		Watching:    c.watcher.Running(),
		DBPath:      c.store.Path(),
	}, nil
}

// --- 搜索API ---

// Search 语义搜索，按相似度降序返回条目
// 索引中已被删除的条目会被跳过
func (c *ClipMind) Search(query string, limit int) ([]SearchResult, error) {
	hits, err := c.index.Query(query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		item, err := c.store.GetItem(hit.ID)
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Item: *item, Score: hit.Score})
	}

	return results, nil
}

// --- 条目API ---

// GetItem 获取条目
func (c *ClipMind) GetItem(id string) (*store.Item, error) {
	return c.store.GetItem(id)
}

// ListItems 按时间倒序列出条目
func (c *ClipMind) ListItems(opts store.ListOptions) ([]store.Item, error) {
	return c.store.ListItems(opts)
}

// DeleteItem 删除条目并同步移出索引
func (c *ClipMind) DeleteItem(id string) error {
	if err := c.store.DeleteItem(id); err != nil {
		return err
	}
	c.index.Remove(id)
	return nil
}

// SetFavorite 设置收藏标记，收藏条目不会被容量裁剪
func (c *ClipMind) SetFavorite(id string, favorite bool) error {
	return c.store.SetFavorite(id, favorite)
}

// ListTags 按出现次数统计标签
func (c *ClipMind) ListTags() ([]store.TagCount, error) {
	return c.store.ListTags()
}

// --- 集合API ---

// CreateCollection 创建集合
func (c *ClipMind) CreateCollection(name, color string) (*store.Collection, error) {
	return c.store.CreateCollection(name, color)
}

// ListCollections 列出所有集合
func (c *ClipMind) ListCollections() ([]store.Collection, error) {
	return c.store.ListCollections()
}

// GetCollectionByName 按名称获取集合
func (c *ClipMind) GetCollectionByName(name string) (*store.Collection, error) {
	return c.store.GetCollectionByName(name)
}

// AssignCollection 将条目归入集合，传空字符串表示移出
func (c *ClipMind) AssignCollection(itemID, collectionID string) error {
	return c.store.AssignCollection(itemID, collectionID)
}

// DeleteCollection 删除集合，成员条目保留但脱离集合
func (c *ClipMind) DeleteCollection(id string) error {
	return c.store.DeleteCollection(id)
}

// GetStore 获取Store实例（用于高级用法）
func (c *ClipMind) GetStore() *store.Store {
	return c.store
}
