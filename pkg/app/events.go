package app

import "time"

// DataUpdateEvent carries a scheduler snapshot from a poll goroutine back
// into the update loop. State is the poll.State[T] for the panel's record
// type; receivers type-assert based on Panel.
type DataUpdateEvent struct {
	Panel Panel
	State any
}

// TickEvent is the redraw heartbeat. It advances the clock behind relative
// timestamps and the search settle indicator.
type TickEvent struct {
	Time time.Time
}

// QuerySettledEvent reports that a panel's debounced query finished its
// quiet window, so the narrowed rows may have changed.
type QuerySettledEvent struct {
	Panel Panel
	Query string
}

// WriteResultEvent reports the outcome of a submit or completion-mark call.
type WriteResultEvent struct {
	Op  string
	Err error
}
