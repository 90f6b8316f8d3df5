package components

import (
	"strings"
)

// BorderStyle selects which set of box-drawing characters to use.
type BorderStyle int

const (
	// BorderNone renders no border at all.
	BorderNone BorderStyle = iota
	// BorderSingle uses single-line box-drawing characters.
	BorderSingle
	// BorderRounded uses single-line characters with rounded corners.
	BorderRounded
	// BorderHeavy uses heavy (thick) box-drawing characters.
	BorderHeavy
)

// borderChars holds the six characters that define a border.
type borderChars struct {
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string
	Horizontal  string
	Vertical    string
}

var borderSets = map[BorderStyle]borderChars{
	BorderSingle: {
		TopLeft: "┌", TopRight: "┐",
		BottomLeft: "└", BottomRight: "┘",
		Horizontal: "─", Vertical: "│",
	},
	BorderRounded: {
		TopLeft: "╭", TopRight: "╮",
		BottomLeft: "╰", BottomRight: "╯",
		Horizontal: "─", Vertical: "│",
	},
	BorderHeavy: {
		TopLeft: "┏", TopRight: "┓",
		BottomLeft: "┗", BottomRight: "┛",
		Horizontal: "━", Vertical: "┃",
	},
}

// BoxStyle controls the visual appearance of a rendered box.
type BoxStyle struct {
	Border     BorderStyle
	Title      string
	TitleAlign Align
	Padding    Padding
	FG         string // hex color for border characters, "" for plain
	TitleFG    string // hex color for the title, "" inherits FG
}

// DefaultBoxStyle returns a BoxStyle with rounded borders, no title,
// and zero padding.
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		Border:     BorderRounded,
		TitleAlign: AlignLeft,
	}
}

// RenderBox renders content inside a box with borders, returning a
// multi-line string. The width and height are the outer dimensions of
// the box including borders and padding.
//
// If width < 2 (no room for borders) or height < 2, an empty string is
// returned. Content lines are truncated or padded to fit the interior
// width, and empty lines fill any remaining interior height.
func RenderBox(content string, width, height int, style BoxStyle) string {
	if style.Border == BorderNone {
		return renderNoBorder(content, width, height, style)
	}
	if width < 2 || height < 2 {
		return ""
	}

	chars := borderSets[style.Border]
	border := Color(style.FG)

	interiorWidth := width - 2 - style.Padding.Left - style.Padding.Right
	if interiorWidth < 0 {
		interiorWidth = 0
	}
	interiorHeight := height - 2 - style.Padding.Top - style.Padding.Bottom
	if interiorHeight < 0 {
		interiorHeight = 0
	}

	var contentLines []string
	if content != "" {
		contentLines = strings.Split(content, "\n")
	}

	var buf strings.Builder

	// Top border with optional title.
	topFill := width - 2
	buf.WriteString(Paint(chars.TopLeft, border))
	if style.Title != "" && topFill > 0 {
		buf.WriteString(renderTitleBar(style.Title, style.TitleAlign, topFill, chars.Horizontal, style))
	} else {
		buf.WriteString(Paint(strings.Repeat(chars.Horizontal, topFill), border))
	}
	buf.WriteString(Paint(chars.TopRight, border))
	buf.WriteByte('\n')

	leftPad := strings.Repeat(" ", style.Padding.Left)
	rightPad := strings.Repeat(" ", style.Padding.Right)
	emptyInterior := strings.Repeat(" ", interiorWidth)

	writeRow := func(interior string) {
		buf.WriteString(Paint(chars.Vertical, border))
		buf.WriteString(leftPad)
		buf.WriteString(interior)
		buf.WriteString(rightPad)
		buf.WriteString(Paint(chars.Vertical, border))
		buf.WriteByte('\n')
	}

	for i := 0; i < style.Padding.Top; i++ {
		writeRow(emptyInterior)
	}
	for i := 0; i < interiorHeight; i++ {
		if i < len(contentLines) {
			writeRow(fitLine(contentLines[i], interiorWidth))
		} else {
			writeRow(emptyInterior)
		}
	}
	for i := 0; i < style.Padding.Bottom; i++ {
		writeRow(emptyInterior)
	}

	// Bottom border.
	buf.WriteString(Paint(chars.BottomLeft, border))
	buf.WriteString(Paint(strings.Repeat(chars.Horizontal, topFill), border))
	buf.WriteString(Paint(chars.BottomRight, border))

	return buf.String()
}

// renderNoBorder renders content without any border, applying only padding.
func renderNoBorder(content string, width, height int, style BoxStyle) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	interiorWidth := width - style.Padding.Left - style.Padding.Right
	if interiorWidth < 0 {
		interiorWidth = 0
	}
	interiorHeight := height - style.Padding.Top - style.Padding.Bottom
	if interiorHeight < 0 {
		interiorHeight = 0
	}

	var contentLines []string
	if content != "" {
		contentLines = strings.Split(content, "\n")
	}

	leftPad := strings.Repeat(" ", style.Padding.Left)
	rightPad := strings.Repeat(" ", style.Padding.Right)
	emptyInterior := strings.Repeat(" ", interiorWidth)

	var buf strings.Builder
	for i := 0; i < style.Padding.Top; i++ {
		buf.WriteString(leftPad + emptyInterior + rightPad + "\n")
	}
	for i := 0; i < interiorHeight; i++ {
		buf.WriteString(leftPad)
		if i < len(contentLines) {
			buf.WriteString(fitLine(contentLines[i], interiorWidth))
		} else {
			buf.WriteString(emptyInterior)
		}
		buf.WriteString(rightPad)
		buf.WriteByte('\n')
	}
	for i := 0; i < style.Padding.Bottom; i++ {
		buf.WriteString(leftPad + emptyInterior + rightPad + "\n")
	}
	return buf.String()
}

// fitLine truncates or right-pads a single content line to exactly
// targetWidth visible characters.
func fitLine(line string, targetWidth int) string {
	if targetWidth <= 0 {
		return ""
	}
	vis := VisibleLen(line)
	if vis > targetWidth {
		return Truncate(line, targetWidth)
	}
	if vis < targetWidth {
		return PadRight(line, targetWidth)
	}
	return line
}

// renderTitleBar renders the horizontal run of the top border with a title
// embedded in it, surrounded by single spaces.
func renderTitleBar(title string, align Align, barWidth int, hChar string, style BoxStyle) string {
	border := Color(style.FG)
	titleColor := Color(style.TitleFG)
	if titleColor == "" {
		titleColor = border
	}

	// Minimum room: one horizontal char plus a space on each side of the title.
	maxTitleWidth := barWidth - 4
	if maxTitleWidth <= 0 {
		return Paint(strings.Repeat(hChar, barWidth), border)
	}

	if VisibleLen(title) > maxTitleWidth {
		title = TruncateWithTail(title, maxTitleWidth, "…")
	}
	titleSegWidth := VisibleLen(title) + 2
	remaining := barWidth - titleSegWidth

	var leftChars, rightChars int
	switch align {
	case AlignLeft:
		leftChars = 1
		rightChars = remaining - 1
	case AlignRight:
		rightChars = 1
		leftChars = remaining - 1
	case AlignCenter:
		leftChars = remaining / 2
		rightChars = remaining - leftChars
	}
	if leftChars < 0 {
		leftChars = 0
	}
	if rightChars < 0 {
		rightChars = 0
	}

	var buf strings.Builder
	buf.WriteString(Paint(strings.Repeat(hChar, leftChars), border))
	buf.WriteString(" " + Paint(title, titleColor) + " ")
	buf.WriteString(Paint(strings.Repeat(hChar, rightChars), border))
	return buf.String()
}
