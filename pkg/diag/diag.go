// Package diag probes the dashboard's external touchpoints: backend
// reachability, session token acquisition, and cache directory writability.
// It backs the -diagnose mode, which reports instead of rendering.
package diag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/cache"
)

// Status classifies a probe outcome.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is the outcome of one probe.
type Check struct {
	Name    string
	Status  Status
	Detail  string
	Elapsed time.Duration
}

// Pinger answers whether the backend responds at all.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TokenSource hands out a usable session token.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// probeTimeout bounds each individual probe so one hung dependency does not
// stall the whole report.
const probeTimeout = 5 * time.Second

// Service runs the probe set. Nil collaborators degrade to warnings, so a
// partially configured installation still produces a full report.
type Service struct {
	pinger   Pinger
	tokens   TokenSource
	cacheDir string
}

// NewService wires the probes to their targets.
func NewService(p Pinger, tokens TokenSource, cacheDir string) *Service {
	return &Service{pinger: p, tokens: tokens, cacheDir: cacheDir}
}

// Run executes all probes in order and never returns an error: failures are
// reported in the checks themselves.
func (s *Service) Run(ctx context.Context) []Check {
	return []Check{
		s.checkBackend(ctx),
		s.checkSession(ctx),
		s.checkCache(),
	}
}

func (s *Service) checkBackend(ctx context.Context) Check {
	c := Check{Name: "backend"}
	if s.pinger == nil {
		c.Status = StatusWarn
		c.Detail = "no backend configured"
		return c
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := s.pinger.Ping(ctx)
	c.Elapsed = time.Since(start)
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		return c
	}
	c.Status = StatusOK
	c.Detail = "reachable"
	return c
}

func (s *Service) checkSession(ctx context.Context) Check {
	c := Check{Name: "session"}
	if s.tokens == nil {
		c.Status = StatusWarn
		c.Detail = "no credentials configured"
		return c
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	tok, err := s.tokens.Get(ctx)
	c.Elapsed = time.Since(start)
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		return c
	}
	if tok == "" {
		c.Status = StatusFail
		c.Detail = "empty token"
		return c
	}
	c.Status = StatusOK
	c.Detail = "token acquired"
	return c
}

// checkCache proves the cache directory accepts a real store round-trip, not
// just a bare file write.
func (s *Service) checkCache() Check {
	c := Check{Name: "cache"}
	if s.cacheDir == "" {
		c.Status = StatusWarn
		c.Detail = "no cache directory configured"
		return c
	}

	start := time.Now()
	err := cacheRoundTrip(s.cacheDir)
	c.Elapsed = time.Since(start)
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		return c
	}
	c.Status = StatusOK
	c.Detail = s.cacheDir
	return c
}

func cacheRoundTrip(dir string) error {
	store, err := cache.NewStore(cache.Config{Dir: dir})
	if err != nil {
		return err
	}
	defer store.Close()

	const key = "diag/probe"
	want := fmt.Sprintf("probe-%d", time.Now().UnixNano())
	if err := store.Put(key, []byte(want)); err != nil {
		return err
	}
	got, err := store.Get(key)
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if string(got) != want {
		return fmt.Errorf("read back mismatch")
	}
	return store.Delete(key)
}

// Failed reports whether any check failed outright. Warnings do not count.
func Failed(checks []Check) bool {
	for _, c := range checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Format renders the checks as an aligned plain-text report.
func Format(checks []Check) string {
	var b strings.Builder
	for _, c := range checks {
		elapsed := ""
		if c.Elapsed > 0 {
			elapsed = c.Elapsed.Round(time.Millisecond).String()
		}
		fmt.Fprintf(&b, "%-8s %-5s %8s  %s\n", c.Name, c.Status, elapsed, c.Detail)
	}
	return b.String()
}
