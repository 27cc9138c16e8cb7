// Package clipboard 提供外部共享缓冲区的读取与变更监听
package clipboard

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/dyike/clipmind/pkg/hash"
)

// Buffer 外部共享缓冲区协作者
// 只读接口：轮询读取，不支持推送
type Buffer interface {
	// ReadText 读取当前文本内容
	// 载荷不是文本时ok为false
	ReadText() (text string, ok bool, err error)

	// ChangeCount 读取单调递增的变更计数
	ChangeCount() (uint64, error)

	// SourceApp 当前内容的来源应用标识，未知时为空
	SourceApp() string
}

// CaptureEvent 捕获事件
type CaptureEvent struct {
	Text      string    // 捕获的原始文本
	SourceApp string    // 来源应用（可为空）
	Timestamp time.Time // 检测到变更的时间
}

// SystemBuffer 系统剪贴板实现
// 系统剪贴板没有跨平台的原生变更计数，这里通过内容指纹对比自行推导：
// 每次ChangeCount读取剪贴板，内容变化时计数加一
type SystemBuffer struct {
	mu       sync.Mutex
	lastHash string
	counter  uint64
}

// NewSystemBuffer 创建系统剪贴板缓冲区
func NewSystemBuffer() *SystemBuffer {
	return &SystemBuffer{}
}

// ReadText 读取剪贴板文本
func (b *SystemBuffer) ReadText() (string, bool, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		// 读取失败通常意味着非文本载荷或剪贴板为空
		return "", false, nil
	}
	return text, true, nil
}

// ChangeCount 返回推导的变更计数
func (b *SystemBuffer) ChangeCount() (uint64, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		// 非文本载荷也算一次变更，让watcher推进水位
		text = ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	h := hash.Fingerprint(text)
	if h != b.lastHash {
		b.lastHash = h
		b.counter++
	}

	return b.counter, nil
}

// SourceApp 系统剪贴板无法获取来源应用
func (b *SystemBuffer) SourceApp() string {
	return ""
}

// MemoryBuffer 内存缓冲区实现（测试和开发用）
type MemoryBuffer struct {
	mu      sync.Mutex
	text    string
	ok      bool
	counter uint64
	app     string
}

// NewMemoryBuffer 创建内存缓冲区
func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{ok: true}
}

// SetText 写入文本内容并推进变更计数
func (m *MemoryBuffer) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.ok = true
	m.counter++
}

// SetBinary 模拟写入非文本载荷
func (m *MemoryBuffer) SetBinary() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.ok = false
	m.counter++
}

// SetSourceApp 设置来源应用标识
func (m *MemoryBuffer) SetSourceApp(app string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.app = app
}

// ReadText 读取当前内容
func (m *MemoryBuffer) ReadText() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.ok, nil
}

// ChangeCount 返回变更计数
func (m *MemoryBuffer) ChangeCount() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter, nil
}

// SourceApp 返回来源应用标识
func (m *MemoryBuffer) SourceApp() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.app
}
