package widgets

import (
	"strings"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
)

// RosterData is the snapshot the enrollment panel renders.
type RosterData struct {
	Entries    []lms.RosterEntry
	Selected   int
	CourseCode string
	RoleFilter string // "" shows every role
	Loading    bool
	Err        error
}

var rosterColumns = []components.Column{
	{Title: "Name"},
	{Title: "Role", Width: 8},
	{Title: "Email"},
}

// RenderRoster renders the enrollment panel for one course.
func RenderRoster(d RosterData, cfg Config) string {
	iw, ih := interior(cfg)

	var lines []string
	if d.Err != nil && ih > 0 {
		lines = append(lines, errLine(d.Err, iw, cfg.Theme))
	}
	rest := ih - len(lines)
	switch {
	case rest <= 0:
	case len(d.Entries) == 0 && d.Loading:
		lines = append(lines, loadingLine(cfg.Spinner, iw))
	default:
		rows := make([][]string, len(d.Entries))
		for i, e := range d.Entries {
			rows[i] = []string{e.Name, e.Role, e.Email}
		}
		lines = append(lines, components.RenderTable(rosterColumns, rows, d.Selected, iw, rest, tableStyle(cfg.Theme)))
	}

	title := "Roster"
	if d.CourseCode != "" {
		title += ": " + d.CourseCode
	}
	if d.RoleFilter != "" {
		title += " [" + d.RoleFilter + "]"
	}
	return panelBox(strings.Join(lines, "\n"), title, cfg)
}
