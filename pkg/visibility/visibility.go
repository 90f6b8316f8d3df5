// Package visibility carries a boolean "is the consuming surface active"
// signal from whatever owns that knowledge (a TUI reacting to terminal focus,
// a test) to the components that pause work while hidden.
package visibility

import "sync"

// Flag is a mutex-guarded bool with fan-out to subscriber channels. It
// satisfies the signal contracts consumers declare (a readable state plus
// Subscribe/Unsubscribe transition channels).
type Flag struct {
	mu      sync.Mutex
	visible bool
	subs    []chan bool
}

// New returns a Flag starting in the given state.
func New(initial bool) *Flag {
	return &Flag{visible: initial}
}

// Visible reports the current state.
func (f *Flag) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Set updates the state and notifies subscribers on a transition. Sends
// never block: each subscriber channel holds only the latest state, so a
// slow consumer observes the newest value rather than a backlog.
func (f *Flag) Set(visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.visible == visible {
		return
	}
	f.visible = visible

	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- visible
	}
}

// Subscribe registers a new transition channel. The caller should
// Unsubscribe when done to release it.
func (f *Flag) Subscribe() <-chan bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan bool, 1)
	f.subs = append(f.subs, ch)
	return ch
}

// Unsubscribe removes a channel returned by Subscribe. Unknown channels are
// ignored.
func (f *Flag) Unsubscribe(ch <-chan bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subs {
		if sub == ch {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}
