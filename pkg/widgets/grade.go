package widgets

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
)

// GradeData is the snapshot the grade footer renders. Grade is nil until the
// first summary lands.
type GradeData struct {
	Grade      *lms.GradeSummary
	CourseCode string
	Loading    bool
	Err        error
}

// RenderGrade renders the grade summary footer for the selected course: a
// score gauge plus graded/pending counts.
func RenderGrade(d GradeData, cfg Config) string {
	iw, ih := interior(cfg)
	th := cfg.Theme

	var lines []string
	if d.Err != nil && ih > 0 {
		lines = append(lines, errLine(d.Err, iw, th))
	}
	rest := ih - len(lines)
	switch {
	case rest <= 0:
	case d.Grade == nil && d.Loading:
		lines = append(lines, loadingLine(cfg.Spinner, iw))
	case d.Grade == nil:
		lines = append(lines, components.PadCenter("(no grade yet)", iw))
	default:
		g := d.Grade
		label := fmt.Sprintf(" %.1f%% (%s)", g.CurrentScore, g.LetterGrade)
		gaugeWidth := iw - components.VisibleLen(label)
		if gaugeWidth < 5 {
			gaugeWidth = 5
		}
		bar := components.RenderGauge(g.CurrentScore/100, gaugeWidth, components.GaugeStyle{
			FilledColor: th.GaugeFilled,
			EmptyColor:  th.GaugeEmpty,
		})
		lines = append(lines, components.Truncate(bar+label, iw))
		if rest > 1 {
			counts := fmt.Sprintf("graded %d, pending %d", g.Graded, g.Pending)
			if !g.ComputedAt.IsZero() {
				counts += "  computed " + relAge(g.ComputedAt, cfg.now())
			}
			lines = append(lines, components.Paint(components.Truncate(counts, iw), components.Color(th.Dim)))
		}
	}

	title := "Grade"
	if d.CourseCode != "" {
		title += ": " + d.CourseCode
	}
	return panelBox(strings.Join(lines, "\n"), title, cfg)
}
