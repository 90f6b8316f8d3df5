package app

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/widgets"
)

// gradeHeight is the fixed footer height: frame plus two content lines.
const gradeHeight = 4

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	mainH := m.height - gradeHeight - 1
	if mainH < 4 {
		mainH = 4
	}
	leftW := m.width / 3
	if leftW < 24 {
		leftW = 24
	}
	rightW := m.width - leftW
	if rightW < 0 {
		rightW = 0
	}
	assignH := (mainH + 1) / 2
	rosterH := mainH - assignH

	left := widgets.RenderCourses(m.coursesData(), m.panelCfg(leftW, mainH, PanelCourses))
	assign := widgets.RenderAssignments(m.assignmentsData(), m.panelCfg(rightW, assignH, PanelAssignments))
	roster := widgets.RenderRoster(m.rosterData(), m.panelCfg(rightW, rosterH, PanelRoster))
	grade := widgets.RenderGrade(m.gradeData(), m.panelCfg(m.width, gradeHeight, PanelGrade))
	status := widgets.RenderStatusBar(m.statusData(), m.panelCfg(m.width, 1, PanelGrade))

	right := lipgloss.JoinVertical(lipgloss.Left, assign, roster)
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, main, grade, status)
}

func (m Model) panelCfg(w, h int, p Panel) widgets.Config {
	return widgets.Config{
		Width:   w,
		Height:  h,
		Focused: p == m.focus,
		Theme:   m.theme,
		Spinner: m.spin.View(),
		Now:     m.viewNow(),
	}
}

// viewNow is the clock reference for relative ages: the last tick, or the
// wall clock before the first tick lands.
func (m Model) viewNow() time.Time {
	if m.now.IsZero() {
		return time.Now()
	}
	return m.now
}

func (m Model) coursesData() widgets.CoursesData {
	return widgets.CoursesData{
		Courses:  m.courseSearch.Results(),
		Selected: m.selFor(PanelCourses),
		Loading:  m.courses.Loading,
		Err:      m.courses.Err,
	}
}

func (m Model) assignmentsData() widgets.AssignmentsData {
	return widgets.AssignmentsData{
		Assignments: m.assignmentSearch.Results(),
		Selected:    m.selFor(PanelAssignments),
		CourseCode:  m.courseCode,
		TypeFilter:  typeCycle[m.typeIdx],
		DueSoon:     m.dueSoon,
		Loading:     m.assignments.Loading,
		Err:         m.assignments.Err,
	}
}

func (m Model) rosterData() widgets.RosterData {
	return widgets.RosterData{
		Entries:    m.rosterSearch.Results(),
		Selected:   m.selFor(PanelRoster),
		CourseCode: m.courseCode,
		RoleFilter: roleCycle[m.roleIdx],
		Loading:    m.roster.Loading,
		Err:        m.roster.Err,
	}
}

func (m Model) gradeData() widgets.GradeData {
	d := widgets.GradeData{
		CourseCode: m.courseCode,
		Loading:    m.grade.Loading,
		Err:        m.grade.Err,
	}
	if m.grade.HasData {
		g := m.grade.Data
		d.Grade = &g
	}
	return d
}

func (m Model) statusData() widgets.StatusData {
	d := widgets.StatusData{
		Offline:  m.offline,
		Stale:    m.anyWarm(),
		Loading:  m.anyLoading(),
		LastSync: m.lastSync(),
		Err:      m.statusErr(),
	}
	if m.searching {
		d.SearchBar = m.input.View()
		d.Pending = m.composer(m.searchTarget).Pending()
	}
	return d
}

// anyWarm reports whether some panel still paints a cache snapshot no live
// fetch has replaced yet.
func (m Model) anyWarm() bool {
	for _, w := range m.warm {
		if w {
			return true
		}
	}
	return false
}

func (m Model) anyLoading() bool {
	return m.courses.Loading || m.assignments.Loading || m.roster.Loading || m.grade.Loading
}

// lastSync is the newest successful fetch across panels.
func (m Model) lastSync() time.Time {
	t := m.courses.LastUpdated
	for _, u := range []time.Time{m.assignments.LastUpdated, m.roster.LastUpdated, m.grade.LastUpdated} {
		if u.After(t) {
			t = u
		}
	}
	return t
}

// statusErr picks the error the status line shows: a failed write wins over
// the focused panel's fetch error.
func (m Model) statusErr() error {
	if m.writeErr != nil {
		return m.writeErr
	}
	switch m.focus {
	case PanelCourses:
		return m.courses.Err
	case PanelAssignments:
		return m.assignments.Err
	case PanelRoster:
		return m.roster.Err
	}
	return nil
}
