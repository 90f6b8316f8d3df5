package widgets

import (
	"strconv"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
)

// AssignmentsData is the snapshot the assignments panel renders. Assignments
// is the already-searched-and-filtered slice for the selected course.
type AssignmentsData struct {
	Assignments []lms.Assignment
	Selected    int
	CourseCode  string // code of the course the rows belong to
	TypeFilter  string // "" shows every type
	DueSoon     bool   // limited to the next seven days
	Loading     bool
	Err         error
}

var assignmentColumns = []components.Column{
	{Title: "Assignment"},
	{Title: "Type", Width: 10},
	{Title: "Due", Width: 11},
	{Title: "Pts", Width: 4, Align: components.AlignRight},
	{Title: "✓", Width: 1},
}

// RenderAssignments renders the assignment list panel for one course.
func RenderAssignments(d AssignmentsData, cfg Config) string {
	iw, ih := interior(cfg)
	now := cfg.now()

	var lines []string
	if d.Err != nil && ih > 0 {
		lines = append(lines, errLine(d.Err, iw, cfg.Theme))
	}
	rest := ih - len(lines)
	switch {
	case rest <= 0:
	case len(d.Assignments) == 0 && d.Loading:
		lines = append(lines, loadingLine(cfg.Spinner, iw))
	default:
		rows := make([][]string, len(d.Assignments))
		for i, a := range d.Assignments {
			mark := ""
			if a.Submitted {
				mark = "✓"
			}
			rows[i] = []string{
				a.Name,
				a.Type,
				formatDue(a.DueAt, now),
				strconv.FormatFloat(a.Points, 'f', -1, 64),
				mark,
			}
		}
		lines = append(lines, components.RenderTable(assignmentColumns, rows, d.Selected, iw, rest, tableStyle(cfg.Theme)))
	}

	return panelBox(strings.Join(lines, "\n"), assignmentsTitle(d), cfg)
}

func assignmentsTitle(d AssignmentsData) string {
	title := "Assignments"
	if d.CourseCode != "" {
		title += ": " + d.CourseCode
	}
	if d.TypeFilter != "" {
		title += " [" + d.TypeFilter + "]"
	}
	if d.DueSoon {
		title += " [due<7d]"
	}
	return title
}

// formatDue renders a due date compactly: clock time when due within a day,
// weekday within a week, month and day otherwise. Zero means no due date.
func formatDue(due, now time.Time) string {
	if due.IsZero() {
		return ""
	}
	d := due.Sub(now)
	switch {
	case d < 0:
		return due.Format("Jan 2")
	case d < 24*time.Hour:
		return "today " + due.Format("15:04")
	case d < 7*24*time.Hour:
		return due.Format("Mon 15:04")
	default:
		return due.Format("Jan 2")
	}
}
