package debounce

import (
	"sync"
	"time"
)

// Value tracks a raw value that changes freely and a settled value that
// follows it only after the raw value has been stable for the delay window.
// The type parameter is constrained to comparable so Pending can report
// whether the two currently differ.
type Value[T comparable] struct {
	mu      sync.Mutex
	delay   time.Duration
	raw     T
	settled T
	timer   *time.Timer
	gen     uint64
	stopped bool
	updates chan T
}

// NewValue returns a value debouncer whose raw and settled values start at
// initial. A negative delay is treated as zero; zero still settles
// asynchronously on the timer goroutine.
func NewValue[T comparable](delay time.Duration, initial T) *Value[T] {
	if delay < 0 {
		delay = 0
	}
	return &Value[T]{
		delay:   delay,
		raw:     initial,
		settled: initial,
		updates: make(chan T, 1),
	}
}

// Set updates the raw value immediately and restarts the quiet timer. The
// settled value becomes v once no further Set arrives for a full delay.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}
	v.raw = val
	if v.timer != nil {
		v.timer.Stop()
	}
	v.gen++
	gen := v.gen
	v.timer = time.AfterFunc(v.delay, func() { v.settle(gen) })
}

// settle promotes raw to settled if this timer generation is still live.
func (v *Value[T]) settle(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped || gen != v.gen {
		return
	}
	v.timer = nil
	v.promoteLocked()
}

// promoteLocked assigns settled = raw and publishes the change. Caller must
// hold v.mu. Publishing never blocks: the channel holds the latest settled
// value only, older unread values are dropped.
func (v *Value[T]) promoteLocked() {
	if v.raw == v.settled {
		return
	}
	v.settled = v.raw
	select {
	case <-v.updates:
	default:
	}
	v.updates <- v.settled
}

// Get returns the settled value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Raw returns the latest raw value, which may be ahead of Get.
func (v *Value[T]) Raw() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.raw
}

// Pending reports whether the raw value differs from the settled value, i.e.
// a settle is owed.
func (v *Value[T]) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.raw != v.settled
}

// Flush settles the raw value immediately, cancelling any pending timer.
func (v *Value[T]) Flush() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}
	v.gen++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.promoteLocked()
}

// Updates delivers each settled value. The channel is buffered with the
// latest value only; a consumer that falls behind observes the newest state,
// not the full history.
func (v *Value[T]) Updates() <-chan T {
	return v.updates
}

// Stop cancels any pending settle. The raw and settled values freeze as they
// are; further Sets are ignored.
func (v *Value[T]) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopped = true
	v.gen++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}
