// Package throttle caps callback frequency to at most one invocation per
// interval, leading-edge: the first call in a quiet window runs immediately
// and later calls inside the window are dropped, never queued.
package throttle

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate wraps a callback behind a rate limit. The callback reference is held
// in an indirection cell so it can be swapped without disturbing the window.
type Gate struct {
	mu      sync.Mutex
	fn      func()
	limiter *rate.Limiter
}

// New returns a Gate allowing fn to run at most once per interval. An
// interval of zero or less disables limiting entirely.
func New(interval time.Duration, fn func()) *Gate {
	return &Gate{
		fn:      fn,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Call invokes the current callback if the window permits and reports
// whether it ran. There is no trailing edge: a dropped call is gone, it does
// not fire later.
func (g *Gate) Call() bool {
	g.mu.Lock()
	fn := g.fn
	allowed := g.limiter.Allow()
	g.mu.Unlock()

	if !allowed {
		return false
	}
	if fn != nil {
		fn()
	}
	return true
}

// Swap replaces the callback. The current window is preserved: if the gate
// is closed it stays closed for the remainder of the interval, and the next
// permitted Call runs the new callback.
func (g *Gate) Swap(fn func()) {
	g.mu.Lock()
	g.fn = fn
	g.mu.Unlock()
}
