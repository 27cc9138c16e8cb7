package clipboard

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dyike/clipmind/pkg/hash"
)

const (
	// DefaultInterval 默认轮询间隔
	DefaultInterval = 500 * time.Millisecond
	// MinInterval 最小轮询间隔
	MinInterval = 100 * time.Millisecond
	// MaxInterval 最大轮询间隔
	MaxInterval = 5 * time.Second
	// MaxCaptureBytes 单次捕获的最大字节数（10 MiB）
	MaxCaptureBytes = 10 << 20
)

// WatcherConfig 监听器配置
type WatcherConfig struct {
	// Interval 轮询间隔，超出[MinInterval, MaxInterval]时收敛到边界
	Interval time.Duration
	// SuppressDuplicates 抑制与前一次捕获指纹相同的内容
	SuppressDuplicates bool
	// Logger 结构化日志，nil时使用slog.Default()
	Logger *slog.Logger
}

// Watcher 缓冲区变更监听器
// 状态机：Stopped → Running → Stopped，Start/Stop均幂等
// 单一轮询goroutine，水位更新相对tick严格串行
type Watcher struct {
	buffer Buffer
	cfg    WatcherConfig
	logger *slog.Logger
	events chan CaptureEvent

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	// 轮询水位，只被轮询goroutine访问
	lastCount       uint64
	seenCount       bool
	lastFingerprint string
}

// NewWatcher 创建监听器
func NewWatcher(buffer Buffer, cfg WatcherConfig) *Watcher {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Interval < MinInterval {
		cfg.Interval = MinInterval
	}
	if cfg.Interval > MaxInterval {
		cfg.Interval = MaxInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		buffer: buffer,
		cfg:    cfg,
		logger: logger,
		events: make(chan CaptureEvent, 16),
	}
}

// Events 返回捕获事件通道
func (w *Watcher) Events() <-chan CaptureEvent {
	return w.events
}

// Start 启动周期性检测
// 已经Running时为无操作
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}

	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stop, w.done)

	w.logger.Info("watcher started", "interval", w.cfg.Interval)
}

// Stop 停止检测
// 已经Stopped时为无操作；不会取消已经发出的事件
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stop)
	<-w.done
	w.running = false

	w.logger.Info("watcher stopped")
}

// Running 返回当前是否在运行
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// loop 轮询主循环
func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick 单次检测
func (w *Watcher) tick() {
	count, err := w.buffer.ChangeCount()
	if err != nil {
		w.logger.Debug("failed to read change count", "error", err)
		return
	}

	// 计数未变化：不重新读取内容
	if w.seenCount && count == w.lastCount {
		return
	}

	// 无论后续是否产生事件，水位都要推进
	w.lastCount = count
	w.seenCount = true

	text, ok, err := w.buffer.ReadText()
	if err != nil {
		w.logger.Debug("failed to read buffer", "error", err)
		return
	}

	// 非文本载荷：静默跳过
	if !ok || strings.TrimSpace(text) == "" {
		return
	}

	if len(text) > MaxCaptureBytes {
		w.logger.Warn("capture discarded: size exceeded",
			"size", len(text), "limit", MaxCaptureBytes)
		return
	}

	fp := hash.Fingerprint(text)
	if w.cfg.SuppressDuplicates && fp == w.lastFingerprint {
		return
	}
	w.lastFingerprint = fp

	event := CaptureEvent{
		Text:      text,
		SourceApp: w.buffer.SourceApp(),
		Timestamp: time.Now(),
	}

	// 消费者迟滞时丢弃事件，轮询不能被阻塞
	select {
	case w.events <- event:
	default:
		w.logger.Warn("capture dropped: event channel full")
	}
}
