package widgets

import (
	"strings"
	"time"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
)

// StatusData is the snapshot the one-line status bar renders.
type StatusData struct {
	SearchBar string // rendered search input; replaces the key hints when set
	Pending   bool   // a debounced query is waiting to settle
	Offline   bool
	Stale     bool // some panel still shows a cache snapshot
	Loading   bool
	LastSync  time.Time // newest successful fetch across panels
	Err       error     // most recent fetch error
}

const statusKeyHints = "tab focus  / search  t/r/d filter  enter open  s submit  q quit"

// RenderStatusBar renders the bottom status line: search input or key hints
// on the left, sync state on the right. The result is exactly cfg.Width
// cells wide.
func RenderStatusBar(d StatusData, cfg Config) string {
	th := cfg.Theme
	now := cfg.now()

	var left string
	switch {
	case d.SearchBar != "":
		left = d.SearchBar
		if d.Pending {
			left += " …"
		}
	case d.Err != nil:
		left = components.Paint(
			components.TruncateWithTail("error: "+d.Err.Error(), cfg.Width, "…"),
			components.Color(th.StatusError))
	default:
		left = components.Paint(statusKeyHints, components.Color(th.Dim))
	}

	var segs []string
	if d.Loading && cfg.Spinner != "" {
		segs = append(segs, cfg.Spinner)
	}
	if d.Offline {
		segs = append(segs, components.Paint("offline", components.Color(th.StatusWarn)))
	}
	if d.Stale {
		segs = append(segs, components.Paint("stale", components.Color(th.StatusWarn)))
	}
	segs = append(segs, components.Paint("sync "+relAge(d.LastSync, now), components.Color(th.Dim)))
	right := strings.Join(segs, "  ")

	gap := cfg.Width - components.VisibleLen(left) - components.VisibleLen(right)
	if gap < 1 {
		keep := cfg.Width - components.VisibleLen(right) - 1
		if keep < 0 {
			keep = 0
		}
		left = components.TruncateWithTail(left, keep, "…")
		gap = cfg.Width - components.VisibleLen(left) - components.VisibleLen(right)
		if gap < 0 {
			gap = 0
		}
	}
	line := left + strings.Repeat(" ", gap) + right
	return components.PadRight(components.Truncate(line, cfg.Width), cfg.Width)
}
