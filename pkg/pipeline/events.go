// Package pipeline 提供捕获流水线的编排
// 捕获事件 → 校验 → 限流 → 去重 → 持久化 → 分类 → 后台嵌入/归组/索引 → 通知订阅者
package pipeline

import (
	"sync"

	"github.com/dyike/clipmind/pkg/store"
)

// EventKind 流水线事件类型
type EventKind string

const (
	// EventCaptured 条目已持久化并完成分类
	EventCaptured EventKind = "captured"
	// EventIndexed 条目已进入相似度索引
	EventIndexed EventKind = "indexed"
	// EventGrouped 条目获得集合推荐并已归属
	EventGrouped EventKind = "grouped"
	// EventDropped 条目被丢弃（重复、限流、校验失败）
	EventDropped EventKind = "dropped"
)

// Event 推送给订阅者的事件
// 订阅者（展示层等）不允许同步回调流水线
type Event struct {
	Kind         EventKind  `json:"kind"`
	Item         store.Item `json:"item"`
	CollectionID string     `json:"collection_id,omitempty"` // EventGrouped的推荐集合
	Score        float64    `json:"score,omitempty"`         // 推荐的平均相似度
	Reason       string     `json:"reason,omitempty"`        // EventDropped的原因
}

// busCapacity 单个订阅者的事件缓冲容量
const busCapacity = 64

// Bus 有界事件总线
// 背压策略为丢弃最旧事件：迟滞的订阅者永远不能阻塞捕获路径
type Bus struct {
	mu     sync.Mutex
	subs   []chan Event
	closed bool
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe 注册订阅者，返回只读事件通道
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, busCapacity)
	if b.closed {
		close(ch)
		return ch
	}

	b.subs = append(b.subs, ch)
	return ch
}

// Publish 向所有订阅者广播事件
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// 缓冲已满：丢最旧的一条，为新事件腾位
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Close 关闭总线及所有订阅通道
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
