package search

import (
	"sync"
	"time"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/debounce"
)

// DefaultDebounce is the query settle delay used when NewComposer is given a
// non-positive one.
const DefaultDebounce = 250 * time.Millisecond

// Composer combines a debounced free-text query with structured filters over
// an in-memory record set. Results recomputes from the source on every call,
// so the composer holds no derived state that can go stale when the source
// is swapped mid-flight.
type Composer[E any] struct {
	mu      sync.Mutex
	source  []E
	paths   []string
	filters Filters
	query   *debounce.Value[string]
}

// NewComposer returns a composer matching query text against the given
// record paths.
func NewComposer[E any](delay time.Duration, paths []string) *Composer[E] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Composer[E]{
		paths:   append([]string(nil), paths...),
		filters: Filters{},
		query:   debounce.NewValue(delay, ""),
	}
}

// SetSource replaces the record set the composer draws from. The query and
// filters carry over unchanged.
func (c *Composer[E]) SetSource(records []E) {
	c.mu.Lock()
	c.source = records
	c.mu.Unlock()
}

// SetQuery records the raw query text. The query used by Results trails it
// by the debounce delay.
func (c *Composer[E]) SetQuery(q string) { c.query.Set(q) }

// Query returns the raw query as last typed, which may be ahead of the
// settled one.
func (c *Composer[E]) Query() string { return c.query.Raw() }

// SettledQuery returns the query Results currently filters by.
func (c *Composer[E]) SettledQuery() string { return c.query.Get() }

// Pending reports whether a newer query is waiting out its quiet window.
func (c *Composer[E]) Pending() bool { return c.query.Pending() }

// FlushQuery applies the raw query immediately, skipping the quiet window.
func (c *Composer[E]) FlushQuery() { c.query.Flush() }

// QuerySettled delivers each settled query value. The channel carries only
// the latest value; a slow consumer sees the newest state, not the history.
func (c *Composer[E]) QuerySettled() <-chan string { return c.query.Updates() }

// SetFilter sets the constraint for a field path. Setting nil or an empty
// string parks the key without constraining results.
func (c *Composer[E]) SetFilter(path string, constraint any) {
	c.mu.Lock()
	c.filters[path] = constraint
	c.mu.Unlock()
}

// FilterValue returns the constraint currently set for a field path.
func (c *Composer[E]) FilterValue(path string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[path]
}

// ClearFilters removes every constraint. The query is untouched.
func (c *Composer[E]) ClearFilters() {
	c.mu.Lock()
	c.filters = Filters{}
	c.mu.Unlock()
}

// Filtering reports whether any constraint is active.
func (c *Composer[E]) Filtering() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Active()
}

// Results applies the settled query and then the active filters to the
// current source, preserving source order. Each stage narrows the previous
// one, so the result is always a subset of a query-only search.
func (c *Composer[E]) Results() []E {
	c.mu.Lock()
	src := c.source
	paths := c.paths
	filters := c.filters.Clone()
	c.mu.Unlock()

	out := Search(src, c.query.Get(), paths)
	return Filter(out, filters)
}

// Stop cancels any pending query settle. The composer still answers Results
// with the last settled state.
func (c *Composer[E]) Stop() { c.query.Stop() }
