package poll

import (
	"context"
	"sync"
	"time"
)

// Scheduler drives one fetch function on the jittered cycle described by its
// Config. All timer and phase transitions happen on a single internal
// goroutine; fetches run inline on it, so at most one is ever in flight.
//
// Lifecycle: New, Start, any number of Refresh/Restart/SetEnabled/SetFetch,
// Stop. Stop is terminal and idempotent.
type Scheduler[T any] struct {
	cfg Config

	mu      sync.Mutex
	fetch   FetchFunc[T]
	enabled bool
	phase   Phase
	state   State[T]
	started bool
	stopped bool
	cancel  context.CancelFunc

	// Owned by the run goroutine after Start.
	ctx   context.Context
	timer *time.Timer
	visCh <-chan bool

	refreshCh chan struct{}
	restartCh chan struct{}
	enableCh  chan struct{}
	updates   chan State[T]
	loopDone  chan struct{}
	exitOnce  sync.Once
}

// New returns a scheduler for fetch. Nothing runs until Start.
func New[T any](fetch FetchFunc[T], cfg Config) *Scheduler[T] {
	return &Scheduler[T]{
		cfg:       cfg.withDefaults(),
		fetch:     fetch,
		enabled:   !cfg.Disabled,
		refreshCh: make(chan struct{}, 1),
		restartCh: make(chan struct{}, 1),
		enableCh:  make(chan struct{}, 1),
		updates:   make(chan State[T], 1),
		loopDone:  make(chan struct{}),
	}
}

// Start launches the polling loop. When enabled and visible it performs the
// mount fetch (unless SkipMountFetch) and arms the first jittered timer;
// otherwise it holds in Paused. Start is a no-op after the first call or
// after Stop. Cancelling ctx tears the scheduler down like Stop.
func (s *Scheduler[T]) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	if s.cfg.Visibility != nil {
		s.visCh = s.cfg.Visibility.Subscribe()
	}
	go s.run()
}

// Stop tears the scheduler down: the in-flight fetch's context is cancelled,
// no timer fires afterwards, and a fetch that settles late is discarded
// without touching state. Stop waits for the loop to exit and is safe to
// call multiple times.
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	alreadyStopped := s.stopped
	s.stopped = true
	started := s.started
	cancel := s.cancel
	s.mu.Unlock()

	if !alreadyStopped && cancel != nil {
		cancel()
	}
	if started {
		<-s.loopDone
		return
	}
	s.finish()
}

// Done is closed once the loop has fully exited (or immediately at Stop for
// a scheduler that never started).
func (s *Scheduler[T]) Done() <-chan struct{} {
	return s.loopDone
}

// Refresh requests an immediate out-of-band fetch: any pending timer is
// cancelled, the fetch runs now, and the normal schedule resumes after it
// settles. A refresh issued while a fetch is already in flight coalesces
// into it; no second concurrent fetch is started. Callable from any state.
func (s *Scheduler[T]) Refresh() {
	select {
	case s.refreshCh <- struct{}{}:
	default:
	}
}

// Restart resets the subscription lifecycle, for when the identity behind
// the fetch changes (a different course, a different user): the pending
// timer is cancelled, state is cleared to initial, and the mount sequence
// runs again.
func (s *Scheduler[T]) Restart() {
	select {
	case s.restartCh <- struct{}{}:
	default:
	}
}

// SetEnabled turns polling on or off. Disabling cancels the pending timer
// and holds in Paused; re-enabling while visible fetches immediately and
// rearms, like visibility regained.
func (s *Scheduler[T]) SetEnabled(enabled bool) {
	s.mu.Lock()
	changed := s.enabled != enabled
	s.enabled = enabled
	s.mu.Unlock()

	if changed {
		select {
		case s.enableCh <- struct{}{}:
		default:
		}
	}
}

// SetFetch swaps the fetch function without disturbing timing state: a
// pending timer keeps its deadline and the next cycle uses the new function.
func (s *Scheduler[T]) SetFetch(fetch FetchFunc[T]) {
	s.mu.Lock()
	s.fetch = fetch
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Scheduler[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Phase returns the current lifecycle phase.
func (s *Scheduler[T]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Updates delivers state snapshots as they change. The channel holds only
// the latest snapshot; a consumer that falls behind sees the newest state.
// It is closed when the loop exits.
func (s *Scheduler[T]) Updates() <-chan State[T] {
	return s.updates
}

// --- run loop ---

func (s *Scheduler[T]) run() {
	defer s.finish()
	if s.visCh != nil {
		defer s.cfg.Visibility.Unsubscribe(s.visCh)
	}

	if !s.mount() {
		return
	}

	for {
		select {
		case <-s.ctx.Done():
			s.stopTimer()
			return

		case <-s.visCh:
			if !s.onActivation() {
				return
			}

		case <-s.enableCh:
			if !s.onActivation() {
				return
			}

		case <-s.refreshCh:
			s.stopTimer()
			if !s.fetchAndSettle() {
				return
			}

		case <-s.timerC():
			s.timer = nil
			// A visibility loss racing the timer wins: the fetch only
			// starts if the surface is still active now.
			if !s.active() {
				s.setPhase(Paused)
				continue
			}
			if !s.fetchAndSettle() {
				return
			}

		case <-s.restartCh:
			s.stopTimer()
			s.clearState()
			if !s.mount() {
				return
			}
		}
	}
}

// mount performs the initial (or post-restart) transition out of Idle:
// fetch-on-mount then schedule when active, Paused otherwise.
func (s *Scheduler[T]) mount() bool {
	if !s.active() {
		s.setPhase(Paused)
		return true
	}
	if s.cfg.SkipMountFetch {
		s.arm()
		return true
	}
	return s.fetchAndSettle()
}

// onActivation handles a visibility or enabled transition. Both share one
// policy: inactive cancels the pending timer and holds; active while paused
// fetches immediately, bypassing jitter, then reschedules.
func (s *Scheduler[T]) onActivation() bool {
	if !s.active() {
		s.stopTimer()
		s.setPhase(Paused)
		return true
	}
	if s.Phase() == Paused {
		return s.fetchAndSettle()
	}
	return true
}

// fetchAndSettle runs one fetch, absorbs any refresh that arrived while it
// was in flight, and arms the next timer (or pauses). Returns false when the
// scheduler was torn down mid-fetch.
func (s *Scheduler[T]) fetchAndSettle() bool {
	if !s.runFetch() {
		return false
	}
	// A refresh requested during the fetch is satisfied by that fetch.
	select {
	case <-s.refreshCh:
	default:
	}
	if s.active() {
		s.arm()
	} else {
		s.setPhase(Paused)
	}
	return true
}

// runFetch executes the current fetch function inline and records the
// outcome. A result arriving after teardown is discarded: state is never
// mutated once ctx is done. A nil fetch is a cycle with nothing to do; it
// cannot fabricate a success.
func (s *Scheduler[T]) runFetch() bool {
	s.mu.Lock()
	fetch := s.fetch
	if fetch == nil {
		s.mu.Unlock()
		return true
	}
	s.phase = Fetching
	s.state.Loading = true
	s.state.Err = nil
	snap := s.state
	s.mu.Unlock()
	s.publish(snap)

	data, err := fetch(s.ctx)

	if s.ctx.Err() != nil {
		return false
	}

	s.mu.Lock()
	s.state.Loading = false
	if err != nil {
		s.state.Err = err
	} else {
		s.state.Data = data
		s.state.HasData = true
		s.state.LastUpdated = time.Now()
	}
	snap = s.state
	s.mu.Unlock()
	s.publish(snap)
	return true
}

// arm draws a fresh jittered delay and schedules the next cycle. A new timer
// is created each time so a stale fire from a replaced timer can never be
// observed.
func (s *Scheduler[T]) arm() {
	s.stopTimer()
	s.timer = time.NewTimer(Jitter(s.cfg.MinInterval, s.cfg.MaxInterval))
	s.setPhase(Scheduled)
}

func (s *Scheduler[T]) clearState() {
	s.mu.Lock()
	s.state = State[T]{}
	snap := s.state
	s.mu.Unlock()
	s.publish(snap)
}

// publish replaces the pending update with the newest snapshot. Only the run
// goroutine publishes, so the drain-then-send pair cannot race with itself.
func (s *Scheduler[T]) publish(st State[T]) {
	select {
	case <-s.updates:
	default:
	}
	s.updates <- st
}

func (s *Scheduler[T]) timerC() <-chan time.Time {
	if s.timer == nil {
		return nil
	}
	return s.timer.C
}

func (s *Scheduler[T]) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler[T]) active() bool {
	s.mu.Lock()
	enabled := s.enabled
	s.mu.Unlock()
	return enabled && s.visibleNow()
}

func (s *Scheduler[T]) visibleNow() bool {
	if s.cfg.Visibility == nil {
		return true
	}
	return s.cfg.Visibility.Visible()
}

func (s *Scheduler[T]) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// finish marks the terminal phase and releases consumers exactly once.
func (s *Scheduler[T]) finish() {
	s.exitOnce.Do(func() {
		s.setPhase(Stopped)
		close(s.updates)
		close(s.loopDone)
	})
}
