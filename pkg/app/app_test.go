package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/cache"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/poll"
)

// newTestModel builds a model over the offline fixture set. Schedulers are
// constructed but never started; tests inject DataUpdateEvents directly.
func newTestModel() Model {
	return New(Deps{
		Fetcher: lms.NewOffline(),
		UserID:  lms.FixtureUserID,
		Offline: true,
	})
}

// update sends one message through Update and returns the typed model.
func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		m, _ = update(m, keyRune(r))
	}
	return m
}

func testCourses() []lms.Course {
	return []lms.Course{
		{ID: "c-101", Code: "MATH-218", Name: "Linear Algebra", Term: "2026S", Instructor: "Elena Vargas"},
		{ID: "c-102", Code: "BIO-201", Name: "Genetics", Term: "2026S", Instructor: "Owen Hart"},
	}
}

func testAssignments() []lms.Assignment {
	now := time.Now()
	return []lms.Assignment{
		{ID: "a-1", CourseID: "c-101", Name: "Problem Set 4", Type: lms.TypeAssignment, Points: 20, DueAt: now.Add(30 * time.Hour)},
		{ID: "a-2", CourseID: "c-101", Name: "Quiz 3", Type: lms.TypeQuiz, Points: 10, DueAt: now.Add(10 * 24 * time.Hour)},
		{ID: "a-3", CourseID: "c-101", Name: "Forum Week 9", Type: lms.TypeDiscussion, Points: 5, DueAt: now.Add(2 * time.Hour), Submitted: true},
	}
}

func testRoster() []lms.RosterEntry {
	return []lms.RosterEntry{
		{UserID: "u-100", Name: "Sam Porter", Email: "sporter@campus.edu", Role: lms.RoleStudent},
		{UserID: "u-200", Name: "Elena Vargas", Email: "evargas@campus.edu", Role: lms.RoleTeacher},
	}
}

func coursesEvent(courses []lms.Course) DataUpdateEvent {
	return DataUpdateEvent{
		Panel: PanelCourses,
		State: poll.State[[]lms.Course]{Data: courses, HasData: true, LastUpdated: time.Now()},
	}
}

func assignmentsEvent(rows []lms.Assignment) DataUpdateEvent {
	return DataUpdateEvent{
		Panel: PanelAssignments,
		State: poll.State[[]lms.Assignment]{Data: rows, HasData: true, LastUpdated: time.Now()},
	}
}

func rosterEvent(rows []lms.RosterEntry) DataUpdateEvent {
	return DataUpdateEvent{
		Panel: PanelRoster,
		State: poll.State[[]lms.RosterEntry]{Data: rows, HasData: true, LastUpdated: time.Now()},
	}
}

// sized returns a model after the initial resize, ready to render.
func sized(t *testing.T) Model {
	t.Helper()
	m := newTestModel()
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

// --- focus and navigation ---

func TestInitialFocusIsCourses(t *testing.T) {
	m := newTestModel()
	if m.Focused() != PanelCourses {
		t.Fatalf("expected initial focus on courses, got %v", m.Focused())
	}
}

func TestTabCyclesFocusForward(t *testing.T) {
	m := newTestModel()

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != PanelAssignments {
		t.Errorf("after first Tab, expected assignments, got %v", m.Focused())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != PanelRoster {
		t.Errorf("after second Tab, expected roster, got %v", m.Focused())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != PanelCourses {
		t.Errorf("after third Tab, expected focus to wrap to courses, got %v", m.Focused())
	}
}

func TestShiftTabCyclesFocusBackward(t *testing.T) {
	m := newTestModel()

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Focused() != PanelRoster {
		t.Errorf("after Shift+Tab from courses, expected roster, got %v", m.Focused())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Focused() != PanelAssignments {
		t.Errorf("after second Shift+Tab, expected assignments, got %v", m.Focused())
	}
}

func TestSelectionMovesAndClamps(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, coursesEvent(testCourses()))

	m, _ = update(m, keyRune('j'))
	if m.sel[PanelCourses] != 1 {
		t.Errorf("after j, expected selection 1, got %d", m.sel[PanelCourses])
	}

	// Two rows only: further moves stay pinned at the last row.
	m, _ = update(m, keyRune('j'))
	if m.sel[PanelCourses] != 1 {
		t.Errorf("selection ran past the last row: %d", m.sel[PanelCourses])
	}

	m, _ = update(m, keyRune('k'))
	m, _ = update(m, keyRune('k'))
	if m.sel[PanelCourses] != 0 {
		t.Errorf("selection ran past the first row: %d", m.sel[PanelCourses])
	}
}

// --- lifecycle ---

func TestWindowSizeStoresDimensions(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.Width() != 120 {
		t.Errorf("expected width 120, got %d", m.Width())
	}
	if m.Height() != 40 {
		t.Errorf("expected height 40, got %d", m.Height())
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := newTestModel()
	if out := m.View(); out != "Initializing..." {
		t.Errorf("expected 'Initializing...' before WindowSizeMsg, got %q", out)
	}
}

func TestQKeyQuits(t *testing.T) {
	m := newTestModel()
	m, cmd := update(m, keyRune('q'))

	if !m.Quitting() {
		t.Error("expected quitting=true after pressing q")
	}
	if cmd == nil {
		t.Error("expected non-nil quit command after pressing q")
	}
	if out := m.View(); out != "" {
		t.Errorf("expected empty view when quitting, got %q", out)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel()
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlC})

	if !m.Quitting() {
		t.Error("expected quitting=true after Ctrl+C")
	}
	if cmd == nil {
		t.Error("expected non-nil quit command after Ctrl+C")
	}
}

func TestTickReturnsNextTick(t *testing.T) {
	m := newTestModel()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	m, cmd := update(m, TickEvent{Time: at})
	if cmd == nil {
		t.Error("expected TickEvent to re-arm the heartbeat")
	}
	if !m.viewNow().Equal(at) {
		t.Errorf("expected clock reference %v, got %v", at, m.viewNow())
	}
}

func TestFocusBlurDriveVisibility(t *testing.T) {
	m := newTestModel()
	if !m.Visible() {
		t.Fatal("expected model to start visible")
	}

	m, _ = update(m, tea.BlurMsg{})
	if m.Visible() {
		t.Error("expected hidden after BlurMsg")
	}

	m, _ = update(m, tea.FocusMsg{})
	if !m.Visible() {
		t.Error("expected visible after FocusMsg")
	}
}

// --- data updates ---

func TestDataUpdateFillsCoursesPanel(t *testing.T) {
	m := sized(t)
	m, cmd := update(m, coursesEvent(testCourses()))

	if cmd == nil {
		t.Error("expected the updates bridge to re-arm after a delivery")
	}

	out := m.View()
	if !strings.Contains(out, "MATH-218") {
		t.Errorf("expected MATH-218 in view:\n%s", out)
	}
	if !strings.Contains(out, "BIO-201") {
		t.Errorf("expected BIO-201 in view:\n%s", out)
	}
}

func TestErrorSnapshotKeepsRows(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))

	m, _ = update(m, DataUpdateEvent{
		Panel: PanelCourses,
		State: poll.State[[]lms.Course]{Err: errors.New("backend returned 502")},
	})

	out := m.View()
	if !strings.Contains(out, "error: backend returned 502") {
		t.Errorf("expected the fetch error in view:\n%s", out)
	}
	if !strings.Contains(out, "MATH-218") {
		t.Error("expected previous rows to stay visible through a failed cycle")
	}
}

func TestLoadingSnapshotShowsIndicator(t *testing.T) {
	m := sized(t)
	m, _ = update(m, DataUpdateEvent{
		Panel: PanelCourses,
		State: poll.State[[]lms.Course]{Loading: true},
	})

	if !strings.Contains(m.View(), "loading") {
		t.Error("expected loading indicator before the first data lands")
	}
}

func TestViewFillsTerminalExactly(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 30 {
		t.Fatalf("expected 30 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if w := components.VisibleLen(line); w != 100 {
			t.Errorf("line %d: expected width 100, got %d", i, w)
		}
	}
}

// --- opening a course ---

func openSecondCourse(t *testing.T) Model {
	t.Helper()
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, keyRune('j'))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func TestEnterOpensSelectedCourse(t *testing.T) {
	m := openSecondCourse(t)

	if m.CourseID() != "c-102" {
		t.Fatalf("expected course c-102 opened, got %q", m.CourseID())
	}
	if !strings.Contains(m.View(), "Assignments: BIO-201") {
		t.Error("expected the assignments panel titled with the opened course code")
	}
}

func TestEnterOnSameCourseIsNoop(t *testing.T) {
	m := openSecondCourse(t)
	m, _ = update(m, assignmentsEvent(testAssignments()))

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.CourseID() != "c-102" {
		t.Errorf("expected course unchanged, got %q", m.CourseID())
	}
	if !strings.Contains(m.View(), "Problem Set 4") {
		t.Error("expected assignment rows to survive re-opening the same course")
	}
}

func TestEnterOffCoursesPanelIsNoop(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.CourseID() != "" {
		t.Errorf("expected no course opened from the assignments panel, got %q", m.CourseID())
	}
}

// --- search ---

func TestSlashEntersSearchMode(t *testing.T) {
	m := newTestModel()
	m, cmd := update(m, keyRune('/'))

	if !m.Searching() {
		t.Fatal("expected search mode after /")
	}
	if cmd == nil {
		t.Error("expected the input focus command")
	}
}

func TestSearchKeystrokesReachFocusedComposer(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, keyRune('/'))
	m = typeString(m, "bio")

	if q := m.courseSearch.Query(); q != "bio" {
		t.Errorf("expected raw query 'bio', got %q", q)
	}
	if !m.courseSearch.Pending() {
		t.Error("expected the query to still be waiting out its quiet window")
	}
}

func TestSearchEnterAppliesQuery(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, keyRune('/'))
	m = typeString(m, "bio")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Searching() {
		t.Error("expected search mode to end on enter")
	}
	if q := m.courseSearch.SettledQuery(); q != "bio" {
		t.Errorf("expected settled query 'bio', got %q", q)
	}

	out := m.View()
	if !strings.Contains(out, "BIO-201") {
		t.Error("expected the matching course to remain")
	}
	if strings.Contains(out, "MATH-218") {
		t.Error("expected non-matching courses to be filtered out")
	}
}

func TestSearchEscDropsQuery(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, keyRune('/'))
	m = typeString(m, "bio")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})

	if m.Searching() {
		t.Error("expected search mode to end on esc")
	}
	if q := m.courseSearch.SettledQuery(); q != "" {
		t.Errorf("expected query dropped, got %q", q)
	}
	if !strings.Contains(m.View(), "MATH-218") {
		t.Error("expected all rows back after esc")
	}
}

func TestSearchTargetsFocusedPanel(t *testing.T) {
	m := openSecondCourse(t)
	m, _ = update(m, assignmentsEvent(testAssignments()))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = update(m, keyRune('/'))
	m = typeString(m, "quiz")
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if q := m.assignmentSearch.SettledQuery(); q != "quiz" {
		t.Errorf("expected the assignments composer queried, got %q", q)
	}
	if q := m.courseSearch.SettledQuery(); q != "" {
		t.Errorf("expected the courses composer untouched, got %q", q)
	}
}

func TestQuerySettledClampsAndRearms(t *testing.T) {
	m := newTestModel()
	m, cmd := update(m, QuerySettledEvent{Panel: PanelCourses, Query: "x"})
	if cmd == nil {
		t.Error("expected the settle bridge to re-arm after a delivery")
	}
}

// --- filters ---

func TestTypeFilterCycles(t *testing.T) {
	m := openSecondCourse(t)
	m, _ = update(m, assignmentsEvent(testAssignments()))

	m, _ = update(m, keyRune('t'))
	out := m.View()
	if !strings.Contains(out, "[assignment]") {
		t.Error("expected the type filter badge in the panel title")
	}
	if !strings.Contains(out, "Problem Set 4") {
		t.Error("expected rows of the filtered type to remain")
	}
	if strings.Contains(out, "Quiz 3") {
		t.Error("expected other types filtered out")
	}

	// Walk the remaining values back around to off.
	for i := 0; i < 4; i++ {
		m, _ = update(m, keyRune('t'))
	}
	out = m.View()
	if strings.Contains(out, "[assignment]") {
		t.Error("expected the filter badge gone after a full cycle")
	}
	if !strings.Contains(out, "Quiz 3") {
		t.Error("expected all rows back after a full cycle")
	}
}

func TestDueSoonToggleFiltersRows(t *testing.T) {
	m := openSecondCourse(t)
	m, _ = update(m, assignmentsEvent(testAssignments()))

	m, _ = update(m, keyRune('d'))
	out := m.View()
	if !strings.Contains(out, "[due<7d]") {
		t.Error("expected the due-soon badge in the panel title")
	}
	if strings.Contains(out, "Quiz 3") {
		t.Error("expected rows due beyond the window filtered out")
	}
	if !strings.Contains(out, "Problem Set 4") {
		t.Error("expected rows inside the window to remain")
	}

	m, _ = update(m, keyRune('d'))
	if !strings.Contains(m.View(), "Quiz 3") {
		t.Error("expected all rows back after toggling off")
	}
}

func TestRoleFilterCycles(t *testing.T) {
	m := openSecondCourse(t)
	m, _ = update(m, rosterEvent(testRoster()))

	m, _ = update(m, keyRune('r'))
	out := m.View()
	if !strings.Contains(out, "[student]") {
		t.Error("expected the role filter badge in the panel title")
	}
	if !strings.Contains(out, "Sam Porter") {
		t.Error("expected entries of the filtered role to remain")
	}
	if strings.Contains(out, "evargas@campus.edu") {
		t.Error("expected other roles filtered out")
	}
}

func TestEscClearsFocusedPanelNarrowing(t *testing.T) {
	m := openSecondCourse(t)
	m, _ = update(m, assignmentsEvent(testAssignments()))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = update(m, keyRune('t'))
	m, _ = update(m, keyRune('d'))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEscape})

	out := m.View()
	if strings.Contains(out, "[assignment]") || strings.Contains(out, "[due<7d]") {
		t.Error("expected esc to clear the panel's filters")
	}
	if !strings.Contains(out, "Quiz 3") {
		t.Error("expected all rows back after esc")
	}
}

// --- writes ---

func TestSubmitReturnsWriteCommand(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter}) // open c-101
	m, _ = update(m, assignmentsEvent(testAssignments()))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})

	m, cmd := update(m, keyRune('s'))
	if cmd == nil {
		t.Fatal("expected a submit command")
	}

	ev, ok := cmd().(WriteResultEvent)
	if !ok {
		t.Fatalf("expected WriteResultEvent, got %T", cmd())
	}
	if ev.Op != "submit" {
		t.Errorf("expected op submit, got %q", ev.Op)
	}
	if ev.Err != nil {
		t.Errorf("expected submit against the fixtures to succeed, got %v", ev.Err)
	}
}

func TestCompleteToggleReturnsWriteCommand(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(m, assignmentsEvent(testAssignments()))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := update(m, keyRune('x'))
	if cmd == nil {
		t.Fatal("expected a completion command")
	}
	ev := cmd().(WriteResultEvent)
	if ev.Op != "complete" {
		t.Errorf("expected op complete, got %q", ev.Op)
	}
	if ev.Err != nil {
		t.Errorf("expected completion against the fixtures to succeed, got %v", ev.Err)
	}
}

func TestSubmitOffAssignmentsPanelIsNoop(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))

	_, cmd := update(m, keyRune('s'))
	if cmd != nil {
		t.Error("expected no write command from the courses panel")
	}
}

func TestWriteErrorShowsInStatusBar(t *testing.T) {
	m := sized(t)
	m, _ = update(m, WriteResultEvent{Op: "submit", Err: errors.New("rejected")})

	if !strings.Contains(m.View(), "error: rejected") {
		t.Error("expected the write error on the status line")
	}

	m, _ = update(m, WriteResultEvent{Op: "submit", Err: nil})
	if strings.Contains(m.View(), "rejected") {
		t.Error("expected a later success to clear the error")
	}
}

func TestRefreshKeySafeWithoutStart(t *testing.T) {
	m := newTestModel()
	for _, p := range []Panel{PanelCourses, PanelAssignments, PanelRoster} {
		m.focus = p
		m, _ = update(m, keyRune('R'))
	}
}

// --- status line ---

func TestStatusBarShowsOffline(t *testing.T) {
	m := sized(t)
	if !strings.Contains(m.View(), "offline") {
		t.Error("expected the offline badge on the status line")
	}
}

func TestStatusBarShowsSearchInput(t *testing.T) {
	m := sized(t)
	m, _ = update(m, coursesEvent(testCourses()))
	m, _ = update(m, keyRune('/'))
	m = typeString(m, "alg")

	if !strings.Contains(m.View(), "alg") {
		t.Error("expected the typed query on the status line")
	}
}

// --- warm start ---

func TestWarmStartPaintsCacheSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewStore(cache.Config{Dir: dir, MaxEntries: 16})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := cache.PutTyped(store, CoursesCacheKey, testCourses()); err != nil {
		t.Fatalf("PutTyped: %v", err)
	}

	m := New(Deps{
		Fetcher: lms.NewOffline(),
		Cache:   store,
		UserID:  lms.FixtureUserID,
	})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	if !strings.Contains(out, "MATH-218") {
		t.Error("expected cached rows on the first paint")
	}
	if !strings.Contains(out, "stale") {
		t.Error("expected the stale badge while showing a cache snapshot")
	}

	// The first live fetch replaces the snapshot and clears the badge.
	m, _ = update(m, coursesEvent(testCourses()))
	if strings.Contains(m.View(), "stale") {
		t.Error("expected the stale badge cleared by fresh data")
	}
}

func TestFreshDataWritesThroughToCache(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewStore(cache.Config{Dir: dir, MaxEntries: 16})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	m := New(Deps{
		Fetcher: lms.NewOffline(),
		Cache:   store,
		UserID:  lms.FixtureUserID,
	})
	m, _ = update(m, coursesEvent(testCourses()))

	got, err := cache.GetTyped[[]lms.Course](store, CoursesCacheKey)
	if err != nil {
		t.Fatalf("expected the snapshot written through, got %v", err)
	}
	if len(got) != 2 || got[0].Code != "MATH-218" {
		t.Errorf("unexpected cached payload: %+v", got)
	}
}
