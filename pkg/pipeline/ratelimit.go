package pipeline

import "time"

const (
	// DefaultRateLimit 滚动窗口内接受的最大条目数
	DefaultRateLimit = 100
	// DefaultRateWindow 限流滚动窗口长度
	DefaultRateWindow = 60 * time.Second
)

// RateLimiter 滚动窗口限流器
// 只在捕获路径上被调用，串行由Coordinator的捕获锁保证，自身无需加锁；
// 超限的事件直接丢弃而不是排队，突发不会积压
type RateLimiter struct {
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time // 测试注入时钟
}

// NewRateLimiter 创建限流器
// limit<=0或window<=0时使用默认值
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow 判断是否接受一次新捕获
// 接受时记录时间戳；拒绝不留痕迹
func (r *RateLimiter) Allow() bool {
	now := r.now()
	cutoff := now.Add(-r.window)

	// 裁剪窗口外的旧时间戳
	kept := r.stamps[:0]
	for _, ts := range r.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	r.stamps = kept

	if len(r.stamps) >= r.limit {
		return false
	}

	r.stamps = append(r.stamps, now)
	return true
}
