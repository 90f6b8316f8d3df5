package widgets

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
)

// CoursesData is the snapshot the course catalog panel renders. Courses is
// the already-searched slice; Selected indexes into it.
type CoursesData struct {
	Courses  []lms.Course
	Selected int
	Loading  bool
	Err      error
}

var coursesColumns = []components.Column{
	{Title: "Code", Width: 8},
	{Title: "Course"},
	{Title: "Instructor", Width: 16},
}

// RenderCourses renders the course catalog panel.
func RenderCourses(d CoursesData, cfg Config) string {
	iw, ih := interior(cfg)

	var lines []string
	if d.Err != nil && ih > 0 {
		lines = append(lines, errLine(d.Err, iw, cfg.Theme))
	}
	rest := ih - len(lines)
	switch {
	case rest <= 0:
	case len(d.Courses) == 0 && d.Loading:
		lines = append(lines, loadingLine(cfg.Spinner, iw))
	default:
		rows := make([][]string, len(d.Courses))
		for i, c := range d.Courses {
			rows[i] = []string{c.Code, c.Name, c.Instructor}
		}
		lines = append(lines, components.RenderTable(coursesColumns, rows, d.Selected, iw, rest, tableStyle(cfg.Theme)))
	}

	title := fmt.Sprintf("Courses (%d)", len(d.Courses))
	return panelBox(strings.Join(lines, "\n"), title, cfg)
}
