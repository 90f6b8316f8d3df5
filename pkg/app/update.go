package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/poll"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/search"
)

// typeCycle and roleCycle are the filter values the t and r keys walk
// through. The leading empty string parks the filter.
var (
	typeCycle = []string{"", lms.TypeAssignment, lms.TypeQuiz, lms.TypeExam, lms.TypeDiscussion}
	roleCycle = []string{"", lms.RoleStudent, lms.RoleTeacher, lms.RoleTA, lms.RoleObserver}
)

const dueSoonWindow = 7 * 24 * time.Hour

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		return m, nil

	case tea.FocusMsg:
		m.vis.Set(true)
		return m, nil

	case tea.BlurMsg:
		m.vis.Set(false)
		return m, nil

	case TickEvent:
		m.now = msg.Time
		return m, tickCmd(m.tick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case DataUpdateEvent:
		return m.handleData(msg)

	case QuerySettledEvent:
		m.clampSel(msg.Panel)
		return m, waitQuery(msg.Panel, m.composer(msg.Panel).QuerySettled())

	case WriteResultEvent:
		m.writeErr = msg.Err
		if msg.Err != nil {
			m.log.Warn("write failed", "op", msg.Op, "error", msg.Err)
			return m, nil
		}
		m.assignmentsPoll.Refresh()
		m.gradePoll.Refresh()
		return m, nil
	}
	return m, nil
}

// handleData folds a scheduler snapshot into the model and re-arms the
// bridge command for that panel's channel.
func (m Model) handleData(msg DataUpdateEvent) (tea.Model, tea.Cmd) {
	switch st := msg.State.(type) {
	case poll.State[[]lms.Course]:
		if fresh(st) {
			m.warm[PanelCourses] = false
			m.courseSearch.SetSource(st.Data)
			m.putThrough(CoursesCacheKey, st.Data)
		}
		m.courses = mergeState(st, m.courses)
		m.clampSel(PanelCourses)
		return m, waitUpdate(PanelCourses, m.coursesPoll.Updates())

	case poll.State[[]lms.Assignment]:
		if fresh(st) {
			m.warm[PanelAssignments] = false
			m.assignmentSearch.SetSource(st.Data)
			m.putThrough(AssignmentsCacheKey(m.courseID), st.Data)
		}
		m.assignments = mergeState(st, m.assignments)
		m.clampSel(PanelAssignments)
		return m, waitUpdate(PanelAssignments, m.assignmentsPoll.Updates())

	case poll.State[[]lms.RosterEntry]:
		if fresh(st) {
			m.warm[PanelRoster] = false
			m.rosterSearch.SetSource(st.Data)
			m.putThrough(RosterCacheKey(m.courseID), st.Data)
		}
		m.roster = mergeState(st, m.roster)
		m.clampSel(PanelRoster)
		return m, waitUpdate(PanelRoster, m.rosterPoll.Updates())

	case poll.State[lms.GradeSummary]:
		if fresh(st) {
			m.warm[PanelGrade] = false
			m.putThrough(GradeCacheKey(m.courseID, m.userID), st.Data)
		}
		m.grade = mergeState(st, m.grade)
		return m, waitUpdate(PanelGrade, m.gradePoll.Updates())
	}
	return m, nil
}

// fresh reports whether the snapshot is the outcome of a completed successful
// fetch, as opposed to an in-flight publish or a cleared state.
func fresh[T any](st poll.State[T]) bool {
	return !st.Loading && st.Err == nil && st.HasData
}

// mergeState keeps previously shown rows when a snapshot without data passes
// through: the in-flight publish before the first live fetch, or an error
// landing while a cache snapshot is on screen.
func mergeState[T any](st, prev poll.State[T]) poll.State[T] {
	if !st.HasData && prev.HasData {
		st.Data = prev.Data
		st.HasData = true
		st.LastUpdated = prev.LastUpdated
	}
	return st
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()

	case "tab":
		m.focus = nextPanel(m.focus)
		return m, nil

	case "shift+tab":
		m.focus = prevPanel(m.focus)
		return m, nil

	case "up", "k":
		m.moveSel(-1)
		return m, nil

	case "down", "j":
		m.moveSel(1)
		return m, nil

	case "enter":
		return m.openSelected()

	case "/":
		return m.startSearch()

	case "t":
		m.typeIdx = (m.typeIdx + 1) % len(typeCycle)
		m.assignmentSearch.SetFilter("type", typeCycle[m.typeIdx])
		m.clampSel(PanelAssignments)
		return m, nil

	case "r":
		m.roleIdx = (m.roleIdx + 1) % len(roleCycle)
		m.rosterSearch.SetFilter("role", roleCycle[m.roleIdx])
		m.clampSel(PanelRoster)
		return m, nil

	case "d":
		m.toggleDueSoon()
		return m, nil

	case "R":
		if m.refreshGate.Call() {
			m.refreshFocused()
		}
		return m, nil

	case "s":
		if a, ok := m.selectedAssignment(); ok {
			return m, submitCmd(m.fetcher, a, m.userID)
		}
		return m, nil

	case "x":
		if a, ok := m.selectedAssignment(); ok {
			return m, completeCmd(m.fetcher, a, m.userID)
		}
		return m, nil

	case "esc":
		m.clearNarrowing()
		return m, nil
	}
	return m, nil
}

// handleSearchKey runs while the search input owns the keyboard. Enter keeps
// the query and applies it immediately; esc drops it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		c := m.composer(m.searchTarget)
		c.SetQuery("")
		c.FlushQuery()
		m.clampSel(m.searchTarget)
		return m, nil

	case "enter":
		m.searching = false
		m.input.Blur()
		m.composer(m.searchTarget).FlushQuery()
		m.clampSel(m.searchTarget)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.composer(m.searchTarget).SetQuery(m.input.Value())
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Shutdown()
	return m, tea.Quit
}

// startSearch aims the input at the focused panel, seeded with that panel's
// current query so a second / refines instead of restarting.
func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	m.searchTarget = m.focus
	m.input.SetValue(m.composer(m.focus).Query())
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// openSelected opens the selected course: the three course-scoped schedulers
// get fetch closures bound to the new ID and rerun their mount sequence.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	if m.focus != PanelCourses {
		return m, nil
	}
	rows := m.courseSearch.Results()
	i := m.sel[PanelCourses]
	if i < 0 || i >= len(rows) {
		return m, nil
	}
	return m.openCourse(rows[i]), nil
}

func (m Model) openCourse(c lms.Course) Model {
	if c.ID == m.courseID {
		return m
	}
	m.courseID, m.courseCode = c.ID, c.Code
	m.assignments = poll.State[[]lms.Assignment]{}
	m.roster = poll.State[[]lms.RosterEntry]{}
	m.grade = poll.State[lms.GradeSummary]{}
	m.sel[PanelAssignments] = 0
	m.sel[PanelRoster] = 0
	m.assignmentSearch.SetSource(nil)
	m.rosterSearch.SetSource(nil)
	m.warmCourse()

	f, id, uid := m.fetcher, c.ID, m.userID
	m.assignmentsPoll.SetFetch(func(ctx context.Context) ([]lms.Assignment, error) {
		return f.Assignments(ctx, id)
	})
	m.rosterPoll.SetFetch(func(ctx context.Context) ([]lms.RosterEntry, error) {
		return f.Roster(ctx, id)
	})
	m.gradePoll.SetFetch(func(ctx context.Context) (lms.GradeSummary, error) {
		return f.CourseGrade(ctx, id, uid)
	})

	// First open enables the idle schedulers, which mounts them; later
	// switches restart the running ones.
	if m.courseOpen {
		m.assignmentsPoll.Restart()
		m.rosterPoll.Restart()
		m.gradePoll.Restart()
	} else {
		m.courseOpen = true
		m.assignmentsPoll.SetEnabled(true)
		m.rosterPoll.SetEnabled(true)
		m.gradePoll.SetEnabled(true)
	}
	m.log.Info("course opened", "course", c.Code, "id", c.ID)
	return m
}

func (m *Model) toggleDueSoon() {
	m.dueSoon = !m.dueSoon
	if m.dueSoon {
		now := time.Now()
		m.assignmentSearch.SetFilter("due_at", search.DateRange{From: now, To: now.Add(dueSoonWindow)})
	} else {
		m.assignmentSearch.SetFilter("due_at", search.DateRange{})
	}
	m.clampSel(PanelAssignments)
}

func (m Model) refreshFocused() {
	switch m.focus {
	case PanelCourses:
		m.coursesPoll.Refresh()
	case PanelAssignments:
		m.assignmentsPoll.Refresh()
		m.gradePoll.Refresh()
	case PanelRoster:
		m.rosterPoll.Refresh()
	}
}

// selectedAssignment resolves the row the write keys act on.
func (m Model) selectedAssignment() (lms.Assignment, bool) {
	if m.focus != PanelAssignments {
		return lms.Assignment{}, false
	}
	rows := m.assignmentSearch.Results()
	i := m.sel[PanelAssignments]
	if i < 0 || i >= len(rows) {
		return lms.Assignment{}, false
	}
	return rows[i], true
}

// clearNarrowing drops the focused panel's query and filters.
func (m *Model) clearNarrowing() {
	c := m.composer(m.focus)
	c.SetQuery("")
	c.FlushQuery()
	c.ClearFilters()
	switch m.focus {
	case PanelAssignments:
		m.typeIdx = 0
		m.dueSoon = false
	case PanelRoster:
		m.roleIdx = 0
	}
	m.clampSel(m.focus)
}
