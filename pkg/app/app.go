// Package app is the bubbletea program behind the campus-pulse dashboard.
// The model owns every piece of UI state; background work lives in the poll
// schedulers and search composers, and reaches the update loop only as
// messages. View is a pure composition of the widgets package, so the whole
// surface is testable by driving Update directly.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/cache"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/config"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/poll"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/search"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/theme"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/throttle"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/visibility"
)

// refreshWindow caps the manual refresh key: holding R down fires at most one
// refresh per window, the rest are dropped.
const refreshWindow = 2 * time.Second

// Panel identifies one dashboard pane. The first three cycle through focus;
// the grade footer only displays.
type Panel int

const (
	PanelCourses Panel = iota
	PanelAssignments
	PanelRoster
	PanelGrade
)

func (p Panel) String() string {
	switch p {
	case PanelCourses:
		return "courses"
	case PanelAssignments:
		return "assignments"
	case PanelRoster:
		return "roster"
	case PanelGrade:
		return "grade"
	}
	return "unknown"
}

// Deps are the collaborators the model is built from. Tests substitute an
// in-memory Fetcher and leave Cache nil, which disables warm start and
// write-through.
type Deps struct {
	Fetcher lms.Fetcher
	Cache   *cache.Store
	Config  *config.Config
	Theme   theme.Theme
	UserID  string
	Offline bool
	Logger  *slog.Logger
}

// Model is the root bubbletea model: three focusable panels over a grade
// footer and a status line. One scheduler polls per panel; one composer
// narrows per panel. Update and View use value receivers, so every message
// yields a fresh copy and nothing is shared with the renderer.
type Model struct {
	fetcher lms.Fetcher
	store   *cache.Store
	log     *slog.Logger
	theme   theme.Theme
	userID  string
	offline bool
	tick    time.Duration

	width, height int
	ready         bool
	quitting      bool

	focus      Panel
	sel        [4]int
	warm       [4]bool
	courseID   string
	courseCode string
	courseOpen bool

	now      time.Time
	writeErr error

	vis         *visibility.Flag
	spin        spinner.Model
	input       textinput.Model
	refreshGate *throttle.Gate

	searching    bool
	searchTarget Panel

	typeIdx int
	roleIdx int
	dueSoon bool

	coursesPoll     *poll.Scheduler[[]lms.Course]
	assignmentsPoll *poll.Scheduler[[]lms.Assignment]
	rosterPoll      *poll.Scheduler[[]lms.RosterEntry]
	gradePoll       *poll.Scheduler[lms.GradeSummary]

	courses     poll.State[[]lms.Course]
	assignments poll.State[[]lms.Assignment]
	roster      poll.State[[]lms.RosterEntry]
	grade       poll.State[lms.GradeSummary]

	courseSearch     *search.Composer[lms.Course]
	assignmentSearch *search.Composer[lms.Assignment]
	rosterSearch     *search.Composer[lms.RosterEntry]
}

// New builds the model and its schedulers without starting anything; Init
// launches the loops. The course-scoped schedulers begin disabled and get
// their fetch functions when the first course is opened.
func New(deps Deps) Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	vis := visibility.New(true)
	pc := poll.Config{
		MinInterval:    cfg.Poll.MinInterval.Duration,
		MaxInterval:    cfg.Poll.MaxInterval.Duration,
		SkipMountFetch: !cfg.Poll.FetchOnStart,
		Visibility:     vis,
	}
	f := deps.Fetcher

	coursesPoll := poll.New(func(ctx context.Context) ([]lms.Course, error) {
		return f.Courses(ctx)
	}, pc)

	cpc := pc
	cpc.Disabled = true

	delay := cfg.Search.Debounce.Duration
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "search"
	in.CharLimit = 64

	m := Model{
		fetcher: f,
		store:   deps.Cache,
		log:     log,
		theme:   deps.Theme,
		userID:  deps.UserID,
		offline: deps.Offline,
		tick:    cfg.UI.Tick.Duration,

		vis:         vis,
		spin:        spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		input:       in,
		refreshGate: throttle.New(refreshWindow, nil),

		coursesPoll:     coursesPoll,
		assignmentsPoll: poll.New[[]lms.Assignment](nil, cpc),
		rosterPoll:      poll.New[[]lms.RosterEntry](nil, cpc),
		gradePoll:       poll.New[lms.GradeSummary](nil, cpc),

		courseSearch:     search.NewComposer[lms.Course](delay, []string{"code", "name", "instructor", "term"}),
		assignmentSearch: search.NewComposer[lms.Assignment](delay, []string{"name", "type"}),
		rosterSearch:     search.NewComposer[lms.RosterEntry](delay, []string{"name", "email", "role"}),
	}
	m.warmStart()
	return m
}

// Init starts the schedulers and arms the message bridges: one blocking
// command per updates channel, the tick heartbeat, and the spinner.
func (m Model) Init() tea.Cmd {
	ctx := context.Background()
	m.coursesPoll.Start(ctx)
	m.assignmentsPoll.Start(ctx)
	m.rosterPoll.Start(ctx)
	m.gradePoll.Start(ctx)

	return tea.Batch(
		m.spin.Tick,
		tickCmd(m.tick),
		waitUpdate(PanelCourses, m.coursesPoll.Updates()),
		waitUpdate(PanelAssignments, m.assignmentsPoll.Updates()),
		waitUpdate(PanelRoster, m.rosterPoll.Updates()),
		waitUpdate(PanelGrade, m.gradePoll.Updates()),
		waitQuery(PanelCourses, m.courseSearch.QuerySettled()),
		waitQuery(PanelAssignments, m.assignmentSearch.QuerySettled()),
		waitQuery(PanelRoster, m.rosterSearch.QuerySettled()),
	)
}

// Shutdown stops the schedulers and composers. The quit keys call it before
// tea.Quit; main calls it again when the program exits on a signal, which is
// safe because every Stop involved is idempotent.
func (m Model) Shutdown() {
	m.coursesPoll.Stop()
	m.assignmentsPoll.Stop()
	m.rosterPoll.Stop()
	m.gradePoll.Stop()
	m.courseSearch.Stop()
	m.assignmentSearch.Stop()
	m.rosterSearch.Stop()
}

// Width returns the terminal width from the last resize.
func (m Model) Width() int { return m.width }

// Height returns the terminal height from the last resize.
func (m Model) Height() int { return m.height }

// Focused returns the panel that currently receives navigation keys.
func (m Model) Focused() Panel { return m.focus }

// Quitting reports whether a quit key has been handled.
func (m Model) Quitting() bool { return m.quitting }

// Searching reports whether the search input owns the keyboard.
func (m Model) Searching() bool { return m.searching }

// CourseID returns the opened course, or "" before the first enter.
func (m Model) CourseID() string { return m.courseID }

// Visible reports the shared visibility flag, as driven by terminal focus.
func (m Model) Visible() bool { return m.vis.Visible() }

// queryable is the type-independent slice of a search composer that the key
// handlers need; all three record composers satisfy it.
type queryable interface {
	SetQuery(string)
	Query() string
	Pending() bool
	FlushQuery()
	ClearFilters()
	SetFilter(path string, constraint any)
	QuerySettled() <-chan string
}

func (m Model) composer(p Panel) queryable {
	switch p {
	case PanelAssignments:
		return m.assignmentSearch
	case PanelRoster:
		return m.rosterSearch
	default:
		return m.courseSearch
	}
}

// resultsLen is the row count of the panel's narrowed view, which is what
// selection clamps against.
func (m Model) resultsLen(p Panel) int {
	switch p {
	case PanelCourses:
		return len(m.courseSearch.Results())
	case PanelAssignments:
		return len(m.assignmentSearch.Results())
	case PanelRoster:
		return len(m.rosterSearch.Results())
	}
	return 0
}
