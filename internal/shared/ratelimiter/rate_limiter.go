package ratelimiter

import (
	"sync"
	"time"
)

// Limiter は、キーごとに操作の頻度を制限するインターフェースです。
type Limiter interface {
	Allow(key string) bool
}

// window は1つのキーに対する固定ウィンドウのカウンタです。
type window struct {
	count     int
	lastReset time.Time
}

// RateLimiterは、キー（クライアントIPなど）ごとに固定ウィンドウ方式で操作の頻度を制限します。
// 複数のgoroutineから同時に呼び出しても安全です。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
	windows  map[string]*window
	now      func() time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// DefaultInterval は interval が0以下の場合に使われるウィンドウ幅です。
const DefaultInterval = time.Minute

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合、すべての操作を許可します。
// interval が0以下の場合は DefaultInterval を使います。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allowはkeyに対する操作が上限内であればカウントしてtrueを返します。
// 上限に達している場合は待機せずにfalseを返します。
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.sweep(now)
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// sweepは期限切れのウィンドウを削除し、マップが無制限に増えないようにします。
func (rl *RateLimiter) sweep(now time.Time) {
	if len(rl.windows) < 1024 {
		return
	}
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
