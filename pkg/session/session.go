// Package session hands out bearer tokens for backend calls, refreshing them
// before expiry. Concurrent callers that all find the token stale share one
// refresh flight instead of stampeding the auth endpoint.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultSkew is subtracted from a token's lifetime so callers never receive
// a token about to lapse mid-request.
const DefaultSkew = 30 * time.Second

// ErrNoRefresh is returned by Get when the token is missing or stale and no
// refresh function was configured.
var ErrNoRefresh = errors.New("session: token expired and no refresh configured")

// tokenKey is the singleflight key; the manager refreshes one token, so all
// flights collapse onto it.
const tokenKey = "token"

// Token is a bearer credential with an optional expiry. A zero ExpiresAt
// means the token never expires.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// fresh reports whether the token is usable at now, keeping skew of margin
// before the recorded expiry.
func (t Token) fresh(now time.Time, skew time.Duration) bool {
	if t.Value == "" {
		return false
	}
	if t.ExpiresAt.IsZero() {
		return true
	}
	return now.Add(skew).Before(t.ExpiresAt)
}

// RefreshFunc obtains a new token, typically by calling the backend's auth
// endpoint.
type RefreshFunc func(ctx context.Context) (Token, error)

// Option configures a Manager.
type Option func(*Manager)

// WithSkew sets how long before expiry a token is already treated as stale.
func WithSkew(d time.Duration) Option {
	return func(m *Manager) {
		if d < 0 {
			d = 0
		}
		m.skew = d
	}
}

// WithInitial seeds the manager with an existing token, so the first Get can
// skip the refresh round-trip.
func WithInitial(t Token) Option {
	return func(m *Manager) { m.tok = t }
}

// Manager caches a token and refreshes it on demand. The zero value is not
// usable; construct with NewManager.
type Manager struct {
	refresh RefreshFunc
	skew    time.Duration

	mu  sync.Mutex
	tok Token

	group singleflight.Group
}

// NewManager returns a manager that obtains tokens via refresh. A nil
// refresh is allowed for static-token setups seeded with WithInitial; Get
// then fails with ErrNoRefresh once that token goes stale.
func NewManager(refresh RefreshFunc, opts ...Option) *Manager {
	m := &Manager{refresh: refresh, skew: DefaultSkew}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a token value that is fresh at the time of the call,
// refreshing it first if needed. Concurrent callers needing a refresh share
// a single flight and all receive its result.
func (m *Manager) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	tok := m.tok
	m.mu.Unlock()

	if tok.fresh(time.Now(), m.skew) {
		return tok.Value, nil
	}
	if m.refresh == nil {
		return "", ErrNoRefresh
	}

	v, err, _ := m.group.Do(tokenKey, func() (any, error) {
		// A flight that finished while this caller queued may have
		// already stored a fresh token.
		m.mu.Lock()
		cur := m.tok
		m.mu.Unlock()
		if cur.fresh(time.Now(), m.skew) {
			return cur, nil
		}

		fresh, err := m.refresh(ctx)
		if err != nil {
			return Token{}, err
		}
		if fresh.Value == "" {
			return Token{}, errors.New("refresh returned an empty token")
		}
		m.mu.Lock()
		m.tok = fresh
		m.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return "", fmt.Errorf("refresh session: %w", err)
	}
	return v.(Token).Value, nil
}

// Invalidate discards the cached token, forcing the next Get to refresh.
// Call it when the backend rejects the token despite a future expiry.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.tok = Token{}
	m.mu.Unlock()
	// Detach any in-flight refresh: it was started before the rejection
	// and may resolve to the same bad token.
	m.group.Forget(tokenKey)
}

// Peek returns the cached token and whether it is currently fresh, without
// triggering a refresh.
func (m *Manager) Peek() (Token, bool) {
	m.mu.Lock()
	tok := m.tok
	m.mu.Unlock()
	return tok, tok.fresh(time.Now(), m.skew)
}
