package components

import (
	"fmt"
	"math"
	"strings"
)

// Block characters for sub-cell precision (8 levels per cell).
var gaugeBlocks = [9]rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

const gaugeEmptyRune = '░'

// GaugeStyle configures the appearance of a horizontal bar gauge. Empty
// color strings render the bar without escapes.
type GaugeStyle struct {
	FilledColor string // hex color for the filled portion
	EmptyColor  string // hex color for the empty portion
	ShowPercent bool   // append a "73%" label after the bar
}

// RenderGauge renders a horizontal bar for ratio (clamped to [0, 1]) that is
// width cells wide, using eighth-block characters at the fill boundary for
// sub-cell precision.
func RenderGauge(ratio float64, width int, style GaugeStyle) string {
	if width <= 0 {
		return ""
	}
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	totalUnits := width * 8
	filledUnits := int(math.Round(ratio * float64(totalUnits)))
	fullCells := filledUnits / 8
	partialEighths := filledUnits % 8
	emptyCells := width - fullCells
	if partialEighths > 0 {
		emptyCells--
	}

	var b strings.Builder
	if fullCells > 0 {
		b.WriteString(Paint(strings.Repeat(string(gaugeBlocks[8]), fullCells), Color(style.FilledColor)))
	}
	if partialEighths > 0 {
		b.WriteString(Paint(string(gaugeBlocks[partialEighths]), Color(style.FilledColor)))
	}
	if emptyCells > 0 {
		b.WriteString(Paint(strings.Repeat(string(gaugeEmptyRune), emptyCells), Color(style.EmptyColor)))
	}
	if style.ShowPercent {
		b.WriteString(fmt.Sprintf(" %d%%", int(math.Round(ratio*100))))
	}
	return b.String()
}
