// Package store 提供条目与集合的SQLite持久化
package store

import (
	"time"

	"github.com/dyike/clipmind/pkg/classify"
)

// Item 捕获条目
// 一经创建基本不可变：分类结果和用户操作通过专门的更新方法写回
type Item struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	Category     classify.Category `json:"category"`
	Fingerprint  string            `json:"fingerprint"`
	SourceApp    string            `json:"source_app,omitempty"`
	Favorite     bool              `json:"favorite"`
	CollectionID string            `json:"collection_id,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Embedding    []float32         `json:"-"` // 持久化的嵌入仅作参考，索引才是权威
	CreatedAt    time.Time         `json:"created_at"`
}

// Collection 集合
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ItemCount int       `json:"item_count"`
}

// TagCount 标签及引用计数
// 标签是从条目重算的只读索引，没有独立生命周期
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ListOptions 条目列表选项
type ListOptions struct {
	Category     classify.Category // 空值不过滤
	CollectionID string            // 空值不过滤
	FavoriteOnly bool
	Limit        int // 0使用默认值，负值不限制
	Offset       int
}
