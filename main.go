// campus-pulse is a terminal dashboard for a hosted campus LMS.
//
// It polls the backend for courses, assignments, roster, and grade standing
// on a jittered schedule, renders them as focusable bubbletea panels with
// debounced search and field filters, and mirrors every fresh snapshot to an
// on-disk cache so the next launch paints before the first fetch lands.
//
// Usage:
//
//	campus-pulse [flags]
//
// Flags:
//
//	-config string     Path to configuration file (default: XDG search paths)
//	-log-file string   Append logs to this file (the TUI owns the terminal)
//	-log-level string  Log level: debug|info|warn|error
//	-offline           Use bundled fixture data instead of the backend
//	-refresh           Fetch every panel snapshot into the cache and exit
//	-diagnose          Probe backend, session, and cache, then exit 0/1
//	-version           Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/app"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/cache"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/config"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/diag"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/session"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/theme"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		logFilePath = flag.String("log-file", "", "Append logs to this file")
		logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, or error")
		offline     = flag.Bool("offline", false, "Use bundled fixture data instead of the backend")
		runRefresh  = flag.Bool("refresh", false, "Fetch every panel snapshot into the cache and exit")
		runDiagnose = flag.Bool("diagnose", false, "Probe backend, session, and cache, then exit")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("campus-pulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags beat both the file and the environment.
	if *logLevel != "" {
		cfg.General.LogLevel = *logLevel
	}
	if *logFilePath != "" {
		cfg.General.LogFile = *logFilePath
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// In TUI mode stderr stays quiet so log lines do not tear the rendered
	// frame; the log file is then the only live stream.
	tuiMode := !*runRefresh && !*runDiagnose
	logger, closeLog, err := buildLogger(cfg, tuiMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	useOffline := *offline || cfg.Backend.BaseURL == ""
	if useOffline && !*offline {
		logger.Info("no backend configured, using fixture data")
	}

	fetcher, tokens, err := newFetcher(cfg, useOffline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build backend client: %v\n", err)
		os.Exit(1)
	}

	userID := cfg.Backend.UserID
	if userID == "" && useOffline {
		userID = lms.FixtureUserID
	}

	switch {
	case *runDiagnose:
		svc := diag.NewService(fetcher, tokenSource(tokens), cfg.Cache.Dir)
		checks := svc.Run(ctx)
		fmt.Print(diag.Format(checks))
		if diag.Failed(checks) {
			os.Exit(1)
		}

	case *runRefresh:
		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open cache: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		if !refreshOnce(ctx, fetcher, store, userID, logger) {
			os.Exit(1)
		}

	default:
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			fmt.Fprintln(os.Stderr, "campus-pulse: stdout is not a terminal (use -refresh or -diagnose for non-interactive runs)")
			os.Exit(1)
		}

		store, err := openStore(cfg)
		if err != nil {
			// The dashboard still works without warm starts and
			// write-through.
			logger.Warn("cache unavailable, starting cold", "error", err)
			store = nil
		} else {
			defer store.Close()
		}

		registerCustomThemes(logger)

		m := app.New(app.Deps{
			Fetcher: fetcher,
			Cache:   store,
			Config:  cfg,
			Theme:   resolveTheme(cfg.UI.Theme),
			UserID:  userID,
			Offline: useOffline,
			Logger:  logger,
		})

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
		final, err := p.Run()
		if fm, ok := final.(app.Model); ok {
			// Stops are idempotent; this covers exits that skipped the
			// quit keys, like a context cancel.
			fm.Shutdown()
		}
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logger.Error("dashboard exited with error", "error", err)
			os.Exit(1)
		}
	}
}

// buildLogger assembles the slog logger: stderr in one-shot modes, the
// configured log file in every mode, and a discard handler when neither
// applies.
func buildLogger(cfg *config.Config, tuiMode bool) (*slog.Logger, func(), error) {
	var writers []io.Writer
	if !tuiMode {
		writers = append(writers, os.Stderr)
	}

	closeLog := func() {}
	if cfg.General.LogFile != "" {
		if dir := filepath.Dir(cfg.General.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closeLog = func() { f.Close() }
	}

	if len(writers) == 0 {
		return slog.New(slog.DiscardHandler), closeLog, nil
	}
	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: parseLogLevel(cfg.General.LogLevel),
	})
	return slog.New(handler), closeLog, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newFetcher picks the fixture client offline; otherwise it builds the HTTP
// client over a session manager seeded with the configured token. The
// manager is nil in offline mode.
func newFetcher(cfg *config.Config, useOffline bool) (lms.Fetcher, *session.Manager, error) {
	if useOffline {
		return lms.NewOffline(), nil, nil
	}

	tokens := session.NewManager(nil, session.WithInitial(session.Token{Value: cfg.Backend.Token}))

	var opts []lms.Option
	if cfg.Backend.RequestTimeout.Duration > 0 {
		opts = append(opts, lms.WithTimeout(cfg.Backend.RequestTimeout.Duration))
	}
	client, err := lms.NewClient(cfg.Backend.BaseURL, tokens, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, tokens, nil
}

// tokenSource converts a possibly-nil manager into the interface diag
// expects. A typed nil inside a non-nil interface would dodge its nil check.
func tokenSource(m *session.Manager) diag.TokenSource {
	if m == nil {
		return nil
	}
	return m
}

func openStore(cfg *config.Config) (*cache.Store, error) {
	return cache.NewStore(cache.Config{
		Dir:        cfg.Cache.Dir,
		MaxEntries: cfg.Cache.MaxEntries,
		DefaultTTL: cfg.Cache.TTL.Duration,
	})
}

// registerCustomThemes loads every TOML palette from the user's themes
// directory so the configured theme name can refer to one. Bad files are
// skipped with a warning; a missing directory is normal.
func registerCustomThemes(log *slog.Logger) {
	paths, err := filepath.Glob(filepath.Join(config.ThemesDir(), "*.toml"))
	if err != nil {
		return
	}
	for _, p := range paths {
		t, err := theme.LoadFile(p)
		if err != nil {
			log.Warn("skipping custom theme", "path", p, "error", err)
			continue
		}
		theme.Register(t)
	}
}

// resolveTheme maps the configured name to a palette. "auto" or an empty
// name probes the terminal background so light terminals do not end up with
// the dark palette.
func resolveTheme(name string) theme.Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		if termenv.HasDarkBackground() {
			return theme.Get("default")
		}
		return theme.Get("light")
	default:
		return theme.Get(name)
	}
}

// refreshOnce fetches the course catalog and every course's panel snapshots
// into the cache, printing one summary line per key. A failing fetch does
// not stop the rest. Returns false when anything failed so cron jobs can
// alert on the exit code.
func refreshOnce(ctx context.Context, f lms.Fetcher, store *cache.Store, userID string, log *slog.Logger) bool {
	type line struct {
		key    string
		detail string
		err    error
	}
	var lines []line

	put := func(key, detail string, v any, err error) {
		if err == nil {
			err = cache.PutTyped(store, key, v)
		}
		lines = append(lines, line{key: key, detail: detail, err: err})
	}
	rows := func(n int) string { return fmt.Sprintf("%d rows", n) }

	courses, err := f.Courses(ctx)
	put(app.CoursesCacheKey, rows(len(courses)), courses, err)

	for _, c := range courses {
		if ctx.Err() != nil {
			break
		}
		as, err := f.Assignments(ctx, c.ID)
		put(app.AssignmentsCacheKey(c.ID), rows(len(as)), as, err)

		ro, err := f.Roster(ctx, c.ID)
		put(app.RosterCacheKey(c.ID), rows(len(ro)), ro, err)

		if userID == "" {
			continue
		}
		g, err := f.CourseGrade(ctx, c.ID, userID)
		put(app.GradeCacheKey(c.ID, userID), fmt.Sprintf("%.1f%%", g.CurrentScore), g, err)
	}

	ok := true
	for _, l := range lines {
		if l.err != nil {
			ok = false
			fmt.Printf("%-36s fail  %v\n", l.key, l.err)
			continue
		}
		fmt.Printf("%-36s ok    %s\n", l.key, l.detail)
	}
	log.Info("refresh finished", "keys", len(lines), "ok", ok)
	return ok
}
