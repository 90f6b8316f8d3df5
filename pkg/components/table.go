package components

import (
	"fmt"
	"strings"
)

// Column defines a single column in a table.
type Column struct {
	Title string
	Width int // fixed width in cells; <= 0 shares the remaining space
	Align Align
}

// TableStyle controls table rendering. Empty color strings render plain
// text, which keeps output deterministic for tests and non-TTY output.
type TableStyle struct {
	ShowHeader    bool
	HeaderColor   string // hex color for the header row
	SelectedColor string // hex color for the selected row
	DimColor      string // hex color for separators and scroll hints
}

const (
	tableGap         = "  "
	selectedGutter   = "▸ "
	unselectedGutter = "  "
)

// RenderTable lays out rows under the given columns within width and height,
// scrolling as needed to keep the selected row in view. Rows outside the
// window are summarized by "▲ n more" / "▼ n more" hint lines. Pass
// selected = -1 when nothing is selectable; that also removes the selection
// gutter. The result is exactly height lines, each exactly width cells.
func RenderTable(cols []Column, rows [][]string, selected, width, height int, style TableStyle) string {
	if width <= 0 || height <= 0 || len(cols) == 0 {
		return ""
	}

	gutter := selected >= 0
	if selected >= len(rows) {
		selected = len(rows) - 1
	}
	widths := resolveColumnWidths(cols, width, gutter)
	dim := Color(style.DimColor)

	var lines []string
	if style.ShowHeader {
		titles := make([]string, len(cols))
		for i, c := range cols {
			titles[i] = c.Title
		}
		header := tableRow(titles, cols, widths, width, gutter, false)
		if style.HeaderColor != "" {
			header = Bold(Paint(header, Color(style.HeaderColor)))
		}
		lines = append(lines, header)
		if height >= 2 {
			lines = append(lines, Paint(strings.Repeat("─", width), dim))
		}
	}

	avail := height - len(lines)
	switch {
	case avail <= 0:
	case len(rows) == 0:
		lines = append(lines, Paint(PadCenter("(none)", width), dim))
	default:
		start, count, top, bottom := tableWindow(len(rows), avail, selected)
		if top {
			lines = append(lines, Paint(PadCenter(fmt.Sprintf("▲ %d more", start), width), dim))
		}
		for i := start; i < start+count; i++ {
			line := tableRow(rows[i], cols, widths, width, gutter, gutter && i == selected)
			if gutter && i == selected && style.SelectedColor != "" {
				line = Paint(line, Color(style.SelectedColor))
			}
			lines = append(lines, line)
		}
		if bottom {
			more := len(rows) - (start + count)
			lines = append(lines, Paint(PadCenter(fmt.Sprintf("▼ %d more", more), width), dim))
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines[:height], "\n")
}

// tableWindow picks the slice of rows to show so the selected row stays
// visible within avail lines. Scroll hints consume one line each when
// present.
func tableWindow(total, avail, selected int) (start, count int, top, bottom bool) {
	if total <= 0 || avail <= 0 {
		return 0, 0, false, false
	}
	if selected < 0 {
		selected = 0
	}
	if selected >= total {
		selected = total - 1
	}
	if total <= avail {
		return 0, total, false, false
	}

	if avail <= 2 {
		// No room for hints; pin the selection at the top of the window.
		start = selected
		if start > total-avail {
			start = total - avail
		}
		return start, avail, false, false
	}

	// Reserve a line for each hint, then center the selection.
	count = avail - 2
	start = selected - count/2
	if start < 0 {
		start = 0
	}
	if start > total-count {
		start = total - count
	}
	top = start > 0
	bottom = start+count < total
	if !top && bottom {
		// The top hint line freed up; extend the window downward.
		count = avail - 1
		bottom = count < total
	} else if top && !bottom {
		count = avail - 1
		start = total - count
		top = start > 0
	}
	return start, count, top, bottom
}

// resolveColumnWidths allocates the available width across columns. Fixed
// widths are taken as-is; the remainder is shared across flexible columns,
// leftmost columns receiving any leftover cell.
func resolveColumnWidths(cols []Column, width int, gutter bool) []int {
	avail := width
	if gutter {
		avail -= VisibleLen(selectedGutter)
	}
	avail -= len(tableGap) * (len(cols) - 1)

	widths := make([]int, len(cols))
	flex := 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			avail -= c.Width
		} else {
			flex++
		}
	}
	if avail < 0 {
		avail = 0
	}
	if flex > 0 {
		share := avail / flex
		extra := avail % flex
		for i, c := range cols {
			if c.Width <= 0 {
				widths[i] = share
				if extra > 0 {
					widths[i]++
					extra--
				}
			}
		}
	}
	return widths
}

// tableRow renders one row of cells padded to the column widths and fitted
// to exactly width cells.
func tableRow(cells []string, cols []Column, widths []int, width int, gutter, marked bool) string {
	var b strings.Builder
	if gutter {
		if marked {
			b.WriteString(selectedGutter)
		} else {
			b.WriteString(unselectedGutter)
		}
	}
	for i := range cols {
		if i > 0 {
			b.WriteString(tableGap)
		}
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if VisibleLen(cell) > widths[i] {
			cell = Truncate(cell, widths[i])
		}
		b.WriteString(PadAligned(cell, widths[i], cols[i].Align))
	}
	return fitLine(b.String(), width)
}
