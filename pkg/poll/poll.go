// Package poll runs an asynchronous fetch repeatedly on a jittered interval.
// A scheduler pauses while the consuming surface reports itself hidden,
// resumes with an immediate fetch when it returns, supports manual refresh,
// and never lets a late result mutate state after teardown.
package poll

import (
	"context"
	"math/rand/v2"
	"time"
)

// Default polling bounds: roughly half a minute between fetches, spread out
// so a fleet of clients never aligns on the same instant.
const (
	DefaultMinInterval = 25 * time.Second
	DefaultMaxInterval = 35 * time.Second
)

// FetchFunc produces one result. It is supplied by the caller and is opaque
// to the scheduler; it should honor ctx cancellation so Stop does not block
// on a stuck call.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Signal is the visibility contract the scheduler consumes: a synchronously
// readable "is the surface active" bool plus transition notifications.
// *visibility.Flag satisfies it. A nil Signal means always visible, for
// hosts without the concept.
type Signal interface {
	Visible() bool
	Subscribe() <-chan bool
	Unsubscribe(<-chan bool)
}

// Phase is the scheduler's lifecycle position.
type Phase int

const (
	// Idle means Start has not run yet.
	Idle Phase = iota
	// Scheduled means a jittered timer is armed.
	Scheduled
	// Fetching means a fetch is in flight.
	Fetching
	// Paused means polling is held: hidden, disabled, or both.
	Paused
	// Stopped is terminal.
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Fetching:
		return "fetching"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is the scheduler's consumer-facing snapshot. Only the scheduler
// mutates it; consumers read copies via Snapshot or Updates.
type State[T any] struct {
	// Data is the last successful fetch result; meaningful only when
	// HasData is true.
	Data    T
	HasData bool

	// Loading is true only while a fetch is in flight.
	Loading bool

	// Err is the most recent failed fetch, cleared when the next attempt
	// starts. A failure never halts future cycles.
	Err error

	// LastUpdated is the wall-clock time of the last successful fetch,
	// zero until the first success.
	LastUpdated time.Time
}

// Age returns how long ago the last successful fetch completed, or zero if
// none has.
func (s State[T]) Age() time.Duration {
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

// Config controls one scheduler. The zero value polls on the default bounds,
// enabled, with a fetch on mount and no visibility coupling.
type Config struct {
	// MinInterval and MaxInterval bound the jittered delay between cycles.
	// Zero or negative values fall back to the defaults; MaxInterval is
	// raised to MinInterval when inverted.
	MinInterval time.Duration
	MaxInterval time.Duration

	// Disabled starts the scheduler paused; SetEnabled(true) begins polling.
	Disabled bool

	// SkipMountFetch arms the first jittered timer without the immediate
	// fetch Start otherwise performs.
	SkipMountFetch bool

	// Visibility pauses polling while the surface is hidden. Nil means
	// always visible.
	Visibility Signal
}

func (c Config) withDefaults() Config {
	if c.MinInterval <= 0 {
		c.MinInterval = DefaultMinInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = DefaultMaxInterval
	}
	if c.MaxInterval < c.MinInterval {
		c.MaxInterval = c.MinInterval
	}
	return c
}

// Jitter draws a delay uniformly from the closed interval [min, max], both
// ends included, independently on every call. min is returned when the
// interval is empty or inverted.
func Jitter(min, max time.Duration) time.Duration {
	span := int64(max - min)
	if span <= 0 {
		return min
	}
	return min + time.Duration(rand.Int64N(span+1))
}
