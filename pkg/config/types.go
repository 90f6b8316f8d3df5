package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the full dashboard configuration, assembled from defaults, an
// optional config file, and environment overrides, in that order.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Backend BackendConfig `toml:"backend" yaml:"backend"`
	Poll    PollConfig    `toml:"poll" yaml:"poll"`
	Search  SearchConfig  `toml:"search" yaml:"search"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	UI      UIConfig      `toml:"ui" yaml:"ui"`
}

// GeneralConfig covers logging.
type GeneralConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// LogFile receives a copy of the log stream when set. The TUI owns
	// stdout, so file logging is the only way to watch logs live.
	LogFile string `toml:"log_file" yaml:"log_file"`
}

// BackendConfig points the client at the hosted backend.
type BackendConfig struct {
	// BaseURL is the backend origin, e.g. "https://lms.campus.edu". A
	// bare host gets https.
	BaseURL string `toml:"base_url" yaml:"base_url"`

	// Token seeds the session when set. Without an expiry the token is
	// used as-is; rotating setups should rely on the auth endpoint
	// instead.
	Token string `toml:"token" yaml:"token"`

	// UserID selects whose grades the dashboard shows.
	UserID string `toml:"user_id" yaml:"user_id"`

	RequestTimeout Duration `toml:"request_timeout" yaml:"request_timeout"`
}

// PollConfig shapes the background refresh cadence. Each cycle waits a
// uniformly random interval between min and max so many running dashboards
// do not align their fetches.
type PollConfig struct {
	MinInterval Duration `toml:"min_interval" yaml:"min_interval"`
	MaxInterval Duration `toml:"max_interval" yaml:"max_interval"`

	// FetchOnStart fires an immediate fetch when a panel starts instead
	// of waiting out the first interval.
	FetchOnStart bool `toml:"fetch_on_start" yaml:"fetch_on_start"`
}

// SearchConfig shapes the search box behavior.
type SearchConfig struct {
	// Debounce is how long the query must be stable before it applies.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// CacheConfig places and bounds the on-disk snapshot cache.
type CacheConfig struct {
	Dir        string   `toml:"dir" yaml:"dir"`
	MaxEntries int      `toml:"max_entries" yaml:"max_entries"`
	TTL        Duration `toml:"ttl" yaml:"ttl"`
}

// UIConfig covers presentation.
type UIConfig struct {
	Theme string `toml:"theme" yaml:"theme"`

	// Tick is the redraw heartbeat driving relative timestamps and the
	// search settle indicator.
	Tick Duration `toml:"tick" yaml:"tick"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cacheDir := filepath.Join(xdgCacheHome(home), "campus-pulse")

	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Backend: BackendConfig{
			RequestTimeout: Duration{10 * time.Second},
		},
		Poll: PollConfig{
			MinInterval:  Duration{25 * time.Second},
			MaxInterval:  Duration{35 * time.Second},
			FetchOnStart: true,
		},
		Search: SearchConfig{
			Debounce: Duration{250 * time.Millisecond},
		},
		Cache: CacheConfig{
			Dir:        cacheDir,
			MaxEntries: 256,
			TTL:        Duration{time.Hour},
		},
		UI: UIConfig{
			Theme: "default",
			Tick:  Duration{time.Second},
		},
	}
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate rejects configurations the dashboard cannot run with. It checks
// shape, not reachability: a well-formed base URL passes even if the host is
// down.
func (c *Config) Validate() error {
	if !logLevels[strings.ToLower(c.General.LogLevel)] {
		return fmt.Errorf("config: unknown log level %q", c.General.LogLevel)
	}
	if c.Poll.MinInterval.Duration <= 0 {
		return fmt.Errorf("config: poll.min_interval must be positive, got %s", c.Poll.MinInterval)
	}
	if c.Poll.MaxInterval.Duration < c.Poll.MinInterval.Duration {
		return fmt.Errorf("config: poll.max_interval %s is below poll.min_interval %s",
			c.Poll.MaxInterval, c.Poll.MinInterval)
	}
	if c.Search.Debounce.Duration < 0 {
		return fmt.Errorf("config: search.debounce must not be negative")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("config: cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.UI.Tick.Duration <= 0 {
		return fmt.Errorf("config: ui.tick must be positive")
	}
	if c.Backend.BaseURL != "" {
		raw := c.Backend.BaseURL
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("config: backend.base_url: %w", err)
		}
		if u.Host == "" {
			return fmt.Errorf("config: backend.base_url %q has no host", c.Backend.BaseURL)
		}
	}
	return nil
}
