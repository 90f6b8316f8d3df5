// Package debounce defers work until a changing input has been quiet for a
// full delay window. It provides a value debouncer (the settled value trails
// the raw value) and callback debouncers (only the last call in a burst
// executes). All variants are safe for concurrent use and own exactly one
// pending timer at a time.
package debounce

import (
	"sync"
	"time"
)

// Func collapses a burst of Call invocations into a single execution of the
// callback, fired once the calls have been quiet for the configured delay.
type Func struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewFunc returns a callback debouncer. A negative delay is treated as zero;
// zero still defers execution to the timer goroutine, never running fn
// synchronously inside Call.
func NewFunc(delay time.Duration, fn func()) *Func {
	if delay < 0 {
		delay = 0
	}
	return &Func{delay: delay, fn: fn}
}

// Call restarts the quiet-period timer. The callback runs once, with no
// further Calls for a full delay window, and only the final Call in a burst
// survives.
func (f *Func) Call() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}
	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	gen := f.gen
	f.timer = time.AfterFunc(f.delay, func() { f.fire(gen) })
}

// fire runs the current callback if this timer generation is still the live
// one. A Call or Stop issued after the timer was armed supersedes it.
func (f *Func) fire(gen uint64) {
	f.mu.Lock()
	if f.stopped || gen != f.gen {
		f.mu.Unlock()
		return
	}
	fn := f.fn
	f.timer = nil
	f.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Swap replaces the callback without disturbing a pending timer: if a quiet
// window is already counting down, it keeps counting and the new callback is
// what fires.
func (f *Func) Swap(fn func()) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
}

// Pending reports whether a deferred execution is currently armed.
func (f *Func) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timer != nil
}

// Stop cancels any pending execution. No callback fires after Stop returns.
// Further Calls are no-ops.
func (f *Func) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// ArgFunc is Func for callbacks taking one argument. The execution receives
// the argument of the last Call in the burst.
type ArgFunc[A any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(A)
	last    A
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewArgFunc returns a one-argument callback debouncer.
func NewArgFunc[A any](delay time.Duration, fn func(A)) *ArgFunc[A] {
	if delay < 0 {
		delay = 0
	}
	return &ArgFunc[A]{delay: delay, fn: fn}
}

// Call records arg as the pending argument and restarts the quiet timer.
func (f *ArgFunc[A]) Call(arg A) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}
	f.last = arg
	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	gen := f.gen
	f.timer = time.AfterFunc(f.delay, func() { f.fire(gen) })
}

func (f *ArgFunc[A]) fire(gen uint64) {
	f.mu.Lock()
	if f.stopped || gen != f.gen {
		f.mu.Unlock()
		return
	}
	fn := f.fn
	arg := f.last
	f.timer = nil
	f.mu.Unlock()

	if fn != nil {
		fn(arg)
	}
}

// Swap replaces the callback, preserving any pending timer and argument.
func (f *ArgFunc[A]) Swap(fn func(A)) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
}

// Stop cancels any pending execution and disables the debouncer.
func (f *ArgFunc[A]) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
