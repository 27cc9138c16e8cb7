package clipmind

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dyike/clipmind/pkg/clipboard"
	"github.com/dyike/clipmind/pkg/llm"
	"github.com/dyike/clipmind/pkg/pipeline"
)

// Config ClipMind配置
type Config struct {
	// DBPath 数据库路径
	DBPath string
	// PollInterval 剪贴板轮询间隔
	PollInterval time.Duration
	// MaxItems 条目数量上限，超出时裁剪最旧的非收藏条目（0表示不限制）
	MaxItems int
	// AllowDuplicates 是否允许重复内容入库
	AllowDuplicates bool
	// SemanticSearch 是否启用嵌入与语义搜索
	SemanticSearch bool
	// EmbeddingDims 嵌入向量维度
	EmbeddingDims int
	// RateLimit 滑动窗口内最大接受条目数
	RateLimit int
	// RateWindow 限流窗口长度
	RateWindow time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()

	return Config{
		DBPath:         filepath.Join(homeDir, ".clipmind", "clipmind.db"),
		PollInterval:   clipboard.DefaultInterval,
		MaxItems:       10000,
		SemanticSearch: true,
		EmbeddingDims:  llm.DefaultDimensions,
		RateLimit:      pipeline.DefaultRateLimit,
		RateWindow:     pipeline.DefaultRateWindow,
	}
}

// Validate 验证配置并填充默认值
func (c *Config) Validate() error {
	if c.DBPath == "" {
		c.DBPath = DefaultConfig().DBPath
	}

	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0755); err != nil {
		return err
	}

	if c.PollInterval == 0 {
		c.PollInterval = clipboard.DefaultInterval
	}

	if c.EmbeddingDims == 0 {
		c.EmbeddingDims = llm.DefaultDimensions
	}

	if c.RateLimit == 0 {
		c.RateLimit = pipeline.DefaultRateLimit
	}

	if c.RateWindow == 0 {
		c.RateWindow = pipeline.DefaultRateWindow
	}

	return nil
}
