// Package widgets renders the campus-pulse dashboard panels. Each panel is a
// pure function from a data snapshot plus a render Config to a string, so
// panel output is testable without a terminal. The app model owns all state;
// widgets never mutate anything.
package widgets

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/theme"
)

// Config carries the render parameters shared by every panel: the outer
// dimensions, focus state, the active palette, and the clock reference for
// relative times. A zero Theme renders plain text, which is what the tests
// use.
type Config struct {
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
	Spinner string    // current spinner frame, shown while a fetch is in flight
	Now     time.Time // reference time; zero falls back to time.Now
}

func (c Config) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// interior returns the content area inside the panel frame and padding.
func interior(cfg Config) (w, h int) {
	w = cfg.Width - 4
	h = cfg.Height - 2
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// panelBox frames content in the standard panel chrome. Focused panels draw
// the border in the theme's focus color.
func panelBox(content, title string, cfg Config) string {
	style := components.BoxStyle{
		Border:     components.BorderRounded,
		Title:      title,
		TitleAlign: components.AlignLeft,
		Padding:    components.NewPaddingHV(1, 0),
		FG:         cfg.Theme.Border,
		TitleFG:    cfg.Theme.Title,
	}
	if cfg.Focused {
		style.FG = cfg.Theme.BorderFocus
		style.TitleFG = cfg.Theme.BorderFocus
	}
	return components.RenderBox(content, cfg.Width, cfg.Height, style)
}

func tableStyle(th theme.Theme) components.TableStyle {
	return components.TableStyle{
		ShowHeader:    true,
		HeaderColor:   th.Accent,
		SelectedColor: th.Accent,
		DimColor:      th.Dim,
	}
}

// errLine formats a fetch error for the top line of a panel. The panel keeps
// rendering its last data below it.
func errLine(err error, width int, th theme.Theme) string {
	msg := components.TruncateWithTail("error: "+err.Error(), width, "…")
	return components.Paint(msg, components.Color(th.StatusError))
}

// loadingLine centers the in-flight indicator, used only before the first
// data lands.
func loadingLine(spinner string, width int) string {
	return components.PadCenter(strings.TrimSpace(spinner+" loading"), width)
}

// relAge formats how long ago t was, coarsely.
func relAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
