package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dyike/clipmind/pkg/classify"
	"github.com/dyike/clipmind/pkg/clipboard"
	"github.com/dyike/clipmind/pkg/group"
	"github.com/dyike/clipmind/pkg/hash"
	"github.com/dyike/clipmind/pkg/index"
	"github.com/dyike/clipmind/pkg/llm"
	"github.com/dyike/clipmind/pkg/store"
)

// saveBackoffs 持久化重试的退避序列
// 首次失败立即重试一次，之后按退避等待，总尝试次数有界
var saveBackoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}

// Outcome 单次捕获的处理结果
type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeRateLimited      Outcome = "rate_limited"
	OutcomeSaveFailed       Outcome = "save_failed"
	OutcomeShutdown         Outcome = "shutdown"
)

// Config 流水线配置
type Config struct {
	// AllowDuplicates 允许保存相同指纹的条目
	AllowDuplicates bool
	// MaxItems 存储条目上限，0表示不限制
	MaxItems int
	// SemanticSearch 启用嵌入与相似度索引
	SemanticSearch bool
	// RateLimit 滚动窗口内接受的最大条目数，0使用默认值
	RateLimit int
	// RateWindow 限流窗口长度，0使用默认值
	RateWindow time.Duration
	// Logger 结构化日志，nil时使用slog.Default()
	Logger *slog.Logger
}

// Coordinator 流水线协调器
// 进程内单实例；捕获处理相对彼此串行（watcher循环与手动捕获共用捕获锁），
// 嵌入/索引在独立的后台worker，慢嵌入不会延迟下一次缓冲区变更的检测
type Coordinator struct {
	store    *store.Store
	embedder llm.Embedder
	index    *index.Index
	advisor  *group.Advisor
	bus      *Bus
	limiter  *RateLimiter
	cfg      Config
	logger   *slog.Logger

	// captureMu 串行化捕获路径与Close，保护限流器和去重到写入的窗口
	captureMu sync.Mutex
	closed    bool

	jobs     chan store.Item
	workerWG sync.WaitGroup
	stopOnce sync.Once

	sleep func(time.Duration) // 测试注入
}

// NewCoordinator 创建协调器并启动后台索引worker
func NewCoordinator(st *store.Store, embedder llm.Embedder, ix *index.Index, cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		store:    st,
		embedder: embedder,
		index:    ix,
		advisor:  group.NewAdvisor(),
		bus:      NewBus(),
		limiter:  NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		cfg:      cfg,
		logger:   logger,
		jobs:     make(chan store.Item, 64),
		sleep:    time.Sleep,
	}

	// 单worker串行处理，同一条目的索引写入天然串行
	c.workerWG.Add(1)
	go c.worker()

	return c
}

// Subscribe 注册流水线事件订阅者
func (c *Coordinator) Subscribe() <-chan Event {
	return c.bus.Subscribe()
}

// Run 消费捕获事件直到ctx取消或通道关闭
func (c *Coordinator) Run(ctx context.Context, events <-chan clipboard.CaptureEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.HandleCapture(ev)
		}
	}
}

// Close 停止后台worker并关闭事件总线
// 已入队的索引任务会被处理完，不会中途丢弃
func (c *Coordinator) Close() {
	c.stopOnce.Do(func() {
		c.captureMu.Lock()
		c.closed = true
		close(c.jobs)
		c.captureMu.Unlock()

		c.workerWG.Wait()
		c.bus.Close()
	})
}

// HandleCapture 处理单次捕获事件
// 任何单条失败都不会中止后续事件的处理；Close之后的捕获被丢弃
func (c *Coordinator) HandleCapture(ev clipboard.CaptureEvent) (Outcome, *store.Item) {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()

	if c.closed {
		c.logger.Debug("capture after shutdown dropped")
		return OutcomeShutdown, nil
	}

	title := clipboard.DeriveTitle(ev.Text)

	// 1. 校验
	if title == "" || ev.Text == "" || len(ev.Text) > store.MaxBodyBytes {
		c.logger.Warn("capture rejected", "outcome", OutcomeValidationFailed,
			"size", len(ev.Text))
		c.bus.Publish(Event{Kind: EventDropped, Reason: string(OutcomeValidationFailed)})
		return OutcomeValidationFailed, nil
	}

	fingerprint := hash.Fingerprint(ev.Text)

	// 2. 去重
	if !c.cfg.AllowDuplicates {
		if existing, err := c.store.FindByFingerprint(fingerprint); err == nil {
			c.logger.Debug("duplicate capture discarded",
				"fingerprint", hash.ShortID(fingerprint), "existing", existing.ID)
			c.bus.Publish(Event{Kind: EventDropped, Item: *existing, Reason: string(OutcomeDuplicate)})
			return OutcomeDuplicate, existing
		}
	}

	// 3. 限流：超出的事件丢弃而不是排队
	if !c.limiter.Allow() {
		c.logger.Warn("capture dropped: rate limit exceeded",
			"fingerprint", hash.ShortID(fingerprint))
		c.bus.Publish(Event{Kind: EventDropped, Reason: string(OutcomeRateLimited)})
		return OutcomeRateLimited, nil
	}

	item := &store.Item{
		Title:       title,
		Body:        ev.Text,
		Fingerprint: fingerprint,
		SourceApp:   ev.SourceApp,
		CreatedAt:   ev.Timestamp.UTC(),
	}

	// 4. 持久化（带重试）
	if err := c.persistWithRetry(item); err != nil {
		c.logger.Error("capture save failed after retries", "error", err,
			"fingerprint", hash.ShortID(fingerprint))
		c.bus.Publish(Event{Kind: EventDropped, Reason: string(OutcomeSaveFailed)})
		return OutcomeSaveFailed, nil
	}

	// 5. 分类（纯CPU文本分析，同步执行）并写回
	item.Category = classify.DetectCategory(item.Body)
	item.Tags = classify.SuggestTags(item.Body, item.Category, item.SourceApp)
	if err := c.store.UpdateClassification(item.ID, item.Category, item.Tags); err != nil {
		// 分类写回失败不回滚已持久化的条目
		c.logger.Warn("classification write-back failed", "item", item.ID, "error", err)
	}

	// 6. 容量裁剪
	if c.cfg.MaxItems > 0 {
		removed, err := c.store.Prune(c.cfg.MaxItems)
		if err != nil {
			c.logger.Warn("prune failed", "error", err)
		}
		for _, id := range removed {
			c.index.Remove(id)
		}
	}

	c.logger.Info("item captured", "item", item.ID, "category", item.Category,
		"title", item.Title)
	c.bus.Publish(Event{Kind: EventCaptured, Item: *item})

	// 7. 嵌入/归组/索引移交后台worker，不在捕获关键路径上
	if c.cfg.SemanticSearch {
		select {
		case c.jobs <- *item:
		default:
			c.logger.Warn("index queue full, item kept without embedding", "item", item.ID)
		}
	}

	return OutcomeAccepted, item
}

// persistWithRetry 带重试的持久化
// 校验失败不重试；存储失败按退避序列重试，次数有界
func (c *Coordinator) persistWithRetry(item *store.Item) error {
	err := c.store.CreateItem(item)
	if err == nil || errors.Is(err, store.ErrValidation) {
		return err
	}

	for _, backoff := range saveBackoffs {
		if backoff > 0 {
			c.sleep(backoff)
		}

		c.logger.Debug("retrying save", "backoff", backoff)
		if err = c.store.CreateItem(item); err == nil {
			return nil
		}
		if errors.Is(err, store.ErrValidation) {
			return err
		}
	}

	return err
}

// worker 后台嵌入/归组/索引循环
func (c *Coordinator) worker() {
	defer c.workerWG.Done()

	for item := range c.jobs {
		c.process(item)
	}
}

// process 单条目的嵌入、集合推荐与索引更新
// 失败只记录日志，绝不回滚已持久化的条目
func (c *Coordinator) process(item store.Item) {
	vec, err := c.embedder.Embed(item.Body)
	if err != nil {
		if llm.IsModelUnavailable(err) {
			c.logger.Warn("embedding model unavailable, item kept without embedding",
				"item", item.ID)
		} else {
			c.logger.Warn("embedding failed, item kept without embedding",
				"item", item.ID, "error", err)
		}
		return
	}

	// 持久化的嵌入仅作参考，用于下次启动时回填索引
	if err := c.store.SetEmbedding(item.ID, vec); err != nil {
		c.logger.Debug("failed to persist embedding", "item", item.ID, "error", err)
	}

	// 集合推荐：仅对尚未归属的条目
	if item.CollectionID == "" {
		if suggestion := c.advisor.SuggestCollection(vec, c.collectCandidates()); suggestion != nil {
			if err := c.store.AssignCollection(item.ID, suggestion.CollectionID); err != nil {
				c.logger.Warn("failed to assign suggested collection",
					"item", item.ID, "collection", suggestion.CollectionID, "error", err)
			} else {
				item.CollectionID = suggestion.CollectionID
				c.logger.Info("item grouped", "item", item.ID,
					"collection", suggestion.CollectionID, "score", suggestion.Score)
				c.bus.Publish(Event{
					Kind:         EventGrouped,
					Item:         item,
					CollectionID: suggestion.CollectionID,
					Score:        suggestion.Score,
				})
			}
		}
	}

	c.index.UpsertVector(item.ID, vec, item.Fingerprint, item.CreatedAt)
	c.bus.Publish(Event{Kind: EventIndexed, Item: item})
}

// collectCandidates 从存储组装各集合的成员向量
// 成员向量优先取索引中的权威版本，索引缺失时退回持久化的参考嵌入
func (c *Coordinator) collectCandidates() []group.Candidate {
	cols, err := c.store.ListCollections()
	if err != nil {
		c.logger.Debug("failed to list collections for grouping", "error", err)
		return nil
	}

	candidates := make([]group.Candidate, 0, len(cols))
	for _, col := range cols {
		members, err := c.store.ItemsByCollection(col.ID)
		if err != nil {
			continue
		}

		var vectors [][]float32
		for _, member := range members {
			vec := c.index.Vector(member.ID)
			if vec == nil {
				vec = member.Embedding
			}
			if vec != nil {
				vectors = append(vectors, vec)
			}
		}

		candidates = append(candidates, group.Candidate{
			CollectionID:  col.ID,
			MemberVectors: vectors,
		})
	}

	return candidates
}

// Backfill 启动时从持久层回填相似度索引
// 指纹未变化的条目复用持久化嵌入，其余分批重新嵌入
func (c *Coordinator) Backfill() error {
	if !c.cfg.SemanticSearch {
		return nil
	}

	items, err := c.store.ListItems(store.ListOptions{Limit: -1})
	if err != nil {
		return err
	}

	var pending []index.BatchItem
	reused := 0

	for _, item := range items {
		if item.Embedding != nil && item.Fingerprint == hash.Fingerprint(item.Body) {
			c.index.UpsertVector(item.ID, item.Embedding, item.Fingerprint, item.CreatedAt)
			reused++
			continue
		}
		pending = append(pending, index.BatchItem{
			ID: item.ID, Text: item.Body, CreatedAt: item.CreatedAt,
		})
	}

	failures := c.index.UpsertBatch(pending)
	for _, f := range failures {
		c.logger.Warn("backfill embedding failed", "item", f.ID, "error", f.Err)
	}

	c.logger.Info("index backfill complete", "total", len(items),
		"reused", reused, "embedded", len(pending)-len(failures), "failed", len(failures))

	return nil
}
