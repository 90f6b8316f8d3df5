package components

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Align / Padding tests
// ---------------------------------------------------------------------------

func TestNewPaddingHV(t *testing.T) {
	p := NewPaddingHV(2, 1)
	if p.Top != 1 || p.Bottom != 1 || p.Left != 2 || p.Right != 2 {
		t.Errorf("NewPaddingHV(2,1) = %+v, want T=1,B=1,L=2,R=2", p)
	}
}

func TestNewPaddingHVNegative(t *testing.T) {
	p := NewPaddingHV(-1, -2)
	if p.Top != 0 || p.Bottom != 0 || p.Left != 0 || p.Right != 0 {
		t.Errorf("NewPaddingHV(-1,-2) = %+v, want all 0", p)
	}
}

// ---------------------------------------------------------------------------
// Style tests
// ---------------------------------------------------------------------------

func TestColorHex(t *testing.T) {
	c := Color("#ff5500")
	want := "\x1b[38;2;255;85;0m"
	if c != want {
		t.Errorf("Color(#ff5500) = %q, want %q", c, want)
	}
}

func TestColorHexNoHash(t *testing.T) {
	c := Color("00ff00")
	want := "\x1b[38;2;0;255;0m"
	if c != want {
		t.Errorf("Color(00ff00) = %q, want %q", c, want)
	}
}

func TestBgColorHex(t *testing.T) {
	c := BgColor("#001122")
	want := "\x1b[48;2;0;17;34m"
	if c != want {
		t.Errorf("BgColor(#001122) = %q, want %q", c, want)
	}
}

func TestColorInvalid(t *testing.T) {
	if c := Color("xyz"); c != "" {
		t.Errorf("Color(xyz) = %q, want empty", c)
	}
	if c := Color(""); c != "" {
		t.Errorf("Color('') = %q, want empty", c)
	}
	if c := Color("#gg0000"); c != "" {
		t.Errorf("Color(#gg0000) = %q, want empty", c)
	}
}

func TestBold(t *testing.T) {
	s := Bold("hi")
	if s != "\x1b[1mhi\x1b[22m" {
		t.Errorf("Bold(hi) = %q", s)
	}
}

func TestReset(t *testing.T) {
	if Reset() != "\x1b[0m" {
		t.Errorf("Reset() = %q", Reset())
	}
}

func TestPaintWithColor(t *testing.T) {
	s := Paint("hi", Color("#ff0000"))
	want := "\x1b[38;2;255;0;0mhi\x1b[0m"
	if s != want {
		t.Errorf("Paint = %q, want %q", s, want)
	}
}

func TestPaintEmptyPrefixIsPlain(t *testing.T) {
	if s := Paint("hi", ""); s != "hi" {
		t.Errorf("Paint(hi, '') = %q, want %q", s, "hi")
	}
	if s := Paint("", Color("#ff0000")); s != "" {
		t.Errorf("Paint('', red) = %q, want empty", s)
	}
}

// ---------------------------------------------------------------------------
// Text utility tests: VisibleLen
// ---------------------------------------------------------------------------

func TestVisibleLenPlainText(t *testing.T) {
	if n := VisibleLen("hello"); n != 5 {
		t.Errorf("VisibleLen(hello) = %d, want 5", n)
	}
}

func TestVisibleLenEmpty(t *testing.T) {
	if n := VisibleLen(""); n != 0 {
		t.Errorf("VisibleLen('') = %d, want 0", n)
	}
}

func TestVisibleLenANSI(t *testing.T) {
	s := "\x1b[31mred\x1b[0m"
	if n := VisibleLen(s); n != 3 {
		t.Errorf("VisibleLen(ANSI red) = %d, want 3", n)
	}
}

func TestVisibleLenWideChars(t *testing.T) {
	// Each CJK character is width 2.
	s := "你好"
	n := VisibleLen(s)
	if n != 4 {
		t.Errorf("VisibleLen(CJK) = %d, want 4", n)
	}
}

// ---------------------------------------------------------------------------
// Text utility tests: Truncate
// ---------------------------------------------------------------------------

func TestTruncateNoOp(t *testing.T) {
	s := "short"
	if r := Truncate(s, 10); r != s {
		t.Errorf("Truncate(short, 10) = %q, want %q", r, s)
	}
}

func TestTruncateCuts(t *testing.T) {
	r := Truncate("hello world", 5)
	if r != "hello" {
		t.Errorf("Truncate(hello world, 5) = %q, want %q", r, "hello")
	}
}

func TestTruncateZeroWidth(t *testing.T) {
	if r := Truncate("hello", 0); r != "" {
		t.Errorf("Truncate(hello, 0) = %q, want empty", r)
	}
}

func TestTruncatePreservesANSI(t *testing.T) {
	s := "\x1b[31mhello world\x1b[0m"
	r := Truncate(s, 5)
	if vis := VisibleLen(r); vis != 5 {
		t.Errorf("Truncate(ANSI, 5) visible len = %d, want 5", vis)
	}
	if !strings.Contains(r, "\x1b[31m") {
		t.Errorf("Truncate should preserve ANSI prefix, got %q", r)
	}
}

func TestTruncateWithTailEllipsis(t *testing.T) {
	r := TruncateWithTail("hello world", 8, "...")
	if vis := VisibleLen(r); vis > 8 {
		t.Errorf("TruncateWithTail visible len = %d, want <= 8", vis)
	}
	if !strings.HasSuffix(r, "...") {
		t.Errorf("TruncateWithTail should end with '...', got %q", r)
	}
}

func TestTruncateWithTailShortString(t *testing.T) {
	if r := TruncateWithTail("hi", 10, "..."); r != "hi" {
		t.Errorf("TruncateWithTail(hi, 10, ...) = %q, want %q", r, "hi")
	}
}

// ---------------------------------------------------------------------------
// Text utility tests: Pad
// ---------------------------------------------------------------------------

func TestPadRightBasic(t *testing.T) {
	if r := PadRight("hi", 5); r != "hi   " {
		t.Errorf("PadRight(hi, 5) = %q, want %q", r, "hi   ")
	}
}

func TestPadRightNoOp(t *testing.T) {
	if r := PadRight("hello", 3); r != "hello" {
		t.Errorf("PadRight(hello, 3) should be unchanged, got %q", r)
	}
}

func TestPadRightWithANSI(t *testing.T) {
	r := PadRight("\x1b[31mhi\x1b[0m", 5)
	if vis := VisibleLen(r); vis != 5 {
		t.Errorf("PadRight(ANSI, 5) visible len = %d, want 5", vis)
	}
}

func TestPadLeftBasic(t *testing.T) {
	if r := PadLeft("hi", 5); r != "   hi" {
		t.Errorf("PadLeft(hi, 5) = %q, want %q", r, "   hi")
	}
}

func TestPadCenterBasic(t *testing.T) {
	if r := PadCenter("hi", 6); r != "  hi  " {
		t.Errorf("PadCenter(hi, 6) = %q, want %q", r, "  hi  ")
	}
}

func TestPadCenterOddPadding(t *testing.T) {
	// 7 - 2 = 5 total; left=2, right=3.
	if r := PadCenter("hi", 7); r != "  hi   " {
		t.Errorf("PadCenter(hi, 7) = %q, want %q", r, "  hi   ")
	}
}

func TestPadAligned(t *testing.T) {
	if r := PadAligned("hi", 5, AlignLeft); r != "hi   " {
		t.Errorf("PadAligned left = %q", r)
	}
	if r := PadAligned("hi", 5, AlignRight); r != "   hi" {
		t.Errorf("PadAligned right = %q", r)
	}
	if r := PadAligned("hi", 6, AlignCenter); r != "  hi  " {
		t.Errorf("PadAligned center = %q", r)
	}
}

// ---------------------------------------------------------------------------
// Border style character tests
// ---------------------------------------------------------------------------

func TestBorderStyleSingleChars(t *testing.T) {
	chars := borderSets[BorderSingle]
	if chars.TopLeft != "┌" {
		t.Errorf("Single TopLeft = %q, want U+250C", chars.TopLeft)
	}
	if chars.Horizontal != "─" {
		t.Errorf("Single Horizontal = %q, want U+2500", chars.Horizontal)
	}
	if chars.Vertical != "│" {
		t.Errorf("Single Vertical = %q, want U+2502", chars.Vertical)
	}
}

func TestBorderStyleRoundedChars(t *testing.T) {
	chars := borderSets[BorderRounded]
	if chars.TopLeft != "╭" {
		t.Errorf("Rounded TopLeft = %q, want U+256D", chars.TopLeft)
	}
	if chars.BottomRight != "╯" {
		t.Errorf("Rounded BottomRight = %q, want U+256F", chars.BottomRight)
	}
}

func TestBorderStyleHeavyChars(t *testing.T) {
	chars := borderSets[BorderHeavy]
	if chars.TopLeft != "┏" {
		t.Errorf("Heavy TopLeft = %q, want U+250F", chars.TopLeft)
	}
	if chars.Horizontal != "━" {
		t.Errorf("Heavy Horizontal = %q, want U+2501", chars.Horizontal)
	}
}

// ---------------------------------------------------------------------------
// Box rendering tests
// ---------------------------------------------------------------------------

func TestRenderBoxMinimal(t *testing.T) {
	style := BoxStyle{Border: BorderSingle}
	box := RenderBox("", 2, 2, style)
	lines := strings.Split(box, "\n")
	if len(lines) < 2 {
		t.Fatalf("2x2 box should have at least 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "┌") || !strings.Contains(lines[0], "┐") {
		t.Errorf("Top border missing corners: %q", lines[0])
	}
}

func TestRenderBoxTooSmall(t *testing.T) {
	style := BoxStyle{Border: BorderSingle}
	if box := RenderBox("", 1, 1, style); box != "" {
		t.Errorf("1x1 box should be empty, got %q", box)
	}
	if box := RenderBox("", 0, 5, style); box != "" {
		t.Errorf("0-width box should be empty, got %q", box)
	}
}

func TestRenderBoxSingleLine(t *testing.T) {
	style := BoxStyle{Border: BorderSingle}
	box := RenderBox("hi", 10, 3, style)
	lines := strings.Split(box, "\n")
	if len(lines) != 3 {
		t.Fatalf("10x3 box should have 3 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[1], "hi") {
		t.Errorf("Content line should contain 'hi': %q", lines[1])
	}
}

func TestRenderBoxMultiLine(t *testing.T) {
	style := BoxStyle{Border: BorderRounded}
	box := RenderBox("line1\nline2\nline3", 12, 5, style)
	lines := strings.Split(box, "\n")
	if len(lines) != 5 {
		t.Fatalf("12x5 box should have 5 lines, got %d: %v", len(lines), lines)
	}
	for i, expected := range []string{"line1", "line2", "line3"} {
		if !strings.Contains(lines[i+1], expected) {
			t.Errorf("Line %d should contain %q, got %q", i+1, expected, lines[i+1])
		}
	}
}

func TestRenderBoxContentTruncation(t *testing.T) {
	style := BoxStyle{Border: BorderSingle}
	// Width 6 means interior width 4; "toolong" is cut to fit.
	box := RenderBox("toolong", 6, 3, style)
	lines := strings.Split(box, "\n")
	inner := lines[1][len("│") : len(lines[1])-len("│")]
	if vis := VisibleLen(inner); vis != 4 {
		t.Errorf("Truncated content visible width = %d, want 4 (inner=%q)", vis, inner)
	}
}

func TestRenderBoxEveryLineSameWidth(t *testing.T) {
	style := BoxStyle{Border: BorderRounded, Title: "Courses", Padding: NewPaddingHV(1, 0)}
	box := RenderBox("a\nlonger line of text", 24, 6, style)
	for i, line := range strings.Split(box, "\n") {
		if vis := VisibleLen(line); vis != 24 {
			t.Errorf("line %d visible width = %d, want 24: %q", i, vis, line)
		}
	}
}

func TestRenderBoxEmptyFill(t *testing.T) {
	style := BoxStyle{Border: BorderSingle}
	box := RenderBox("only", 10, 5, style)
	lines := strings.Split(box, "\n")
	for _, idx := range []int{2, 3} {
		stripped := strings.TrimSpace(strings.ReplaceAll(lines[idx], "│", ""))
		if stripped != "" {
			t.Errorf("Empty fill line %d should be blank, got %q", idx, lines[idx])
		}
	}
}

func TestRenderBoxWithPadding(t *testing.T) {
	style := BoxStyle{
		Border:  BorderSingle,
		Padding: Padding{Top: 1, Right: 1, Bottom: 1, Left: 1},
	}
	box := RenderBox("x", 10, 5, style)
	lines := strings.Split(box, "\n")
	if len(lines) != 5 {
		t.Fatalf("10x5 padded box should have 5 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "│") {
		t.Errorf("Padding row should start with vertical border: %q", lines[1])
	}
	if !strings.Contains(lines[2], "x") {
		t.Errorf("Content row should contain 'x': %q", lines[2])
	}
}

// ---------------------------------------------------------------------------
// Title tests
// ---------------------------------------------------------------------------

func TestRenderBoxTitleLeft(t *testing.T) {
	style := BoxStyle{Border: BorderSingle, Title: "Test", TitleAlign: AlignLeft}
	box := RenderBox("", 20, 3, style)
	topBorder := strings.Split(box, "\n")[0]
	if !strings.Contains(topBorder, " Test ") {
		t.Errorf("Left-aligned title not found in top border: %q", topBorder)
	}
	if !strings.HasPrefix(topBorder, "┌─ ") {
		t.Errorf("Left-aligned title should sit one cell in: %q", topBorder)
	}
}

func TestRenderBoxTitleCenter(t *testing.T) {
	style := BoxStyle{Border: BorderSingle, Title: "Hi", TitleAlign: AlignCenter}
	box := RenderBox("", 20, 3, style)
	topBorder := strings.Split(box, "\n")[0]
	if !strings.Contains(topBorder, " Hi ") {
		t.Errorf("Centered title not found in top border: %q", topBorder)
	}
}

func TestRenderBoxTitleTruncation(t *testing.T) {
	style := BoxStyle{
		Border: BorderSingle,
		Title:  "This is a very long title that should be truncated",
	}
	box := RenderBox("", 15, 3, style)
	topBorder := strings.Split(box, "\n")[0]
	if vis := VisibleLen(topBorder); vis != 15 {
		t.Errorf("Top border width = %d, want 15. Line: %q", vis, topBorder)
	}
	if !strings.Contains(topBorder, "…") {
		t.Errorf("Truncated title should end with ellipsis: %q", topBorder)
	}
}

func TestRenderBoxTitleColor(t *testing.T) {
	style := BoxStyle{
		Border:  BorderSingle,
		Title:   "Roster",
		FG:      "#3e3e3e",
		TitleFG: "#d4d4d4",
	}
	box := RenderBox("", 20, 3, style)
	if !strings.Contains(box, "\x1b[38;2;212;212;212mRoster\x1b[0m") {
		t.Errorf("Title should use TitleFG color: %q", box)
	}
}

// ---------------------------------------------------------------------------
// BorderNone tests
// ---------------------------------------------------------------------------

func TestRenderBoxNoBorder(t *testing.T) {
	style := BoxStyle{Border: BorderNone}
	box := RenderBox("hello", 10, 3, style)
	if !strings.Contains(box, "hello") {
		t.Errorf("BorderNone box should contain 'hello': %q", box)
	}
	for _, ch := range []string{"┌", "─", "│"} {
		if strings.Contains(box, ch) {
			t.Errorf("BorderNone box should not contain box-drawing char %q", ch)
		}
	}
}

// ---------------------------------------------------------------------------
// DefaultBoxStyle / colors / fitLine
// ---------------------------------------------------------------------------

func TestDefaultBoxStyle(t *testing.T) {
	s := DefaultBoxStyle()
	if s.Border != BorderRounded {
		t.Errorf("DefaultBoxStyle border = %d, want BorderRounded", s.Border)
	}
	if s.Title != "" {
		t.Errorf("DefaultBoxStyle title = %q, want empty", s.Title)
	}
	if s.Padding != (Padding{}) {
		t.Errorf("DefaultBoxStyle padding = %+v, want zero", s.Padding)
	}
}

func TestRenderBoxWithColor(t *testing.T) {
	style := BoxStyle{Border: BorderSingle, FG: "#ff0000"}
	box := RenderBox("test", 10, 3, style)
	if !strings.Contains(box, "\x1b[38;2;255;0;0m") {
		t.Errorf("Colored box should contain fg escape: %q", box)
	}
	if !strings.Contains(box, "\x1b[0m") {
		t.Errorf("Colored box should contain reset: %q", box)
	}
}

func TestRenderBoxPlainWithoutColor(t *testing.T) {
	style := BoxStyle{Border: BorderSingle}
	box := RenderBox("test", 10, 3, style)
	if strings.Contains(box, "\x1b[") {
		t.Errorf("Uncolored box should contain no escapes: %q", box)
	}
}

func TestFitLineExactWidth(t *testing.T) {
	if r := fitLine("abcde", 5); r != "abcde" {
		t.Errorf("fitLine(abcde, 5) = %q, want abcde", r)
	}
}

func TestFitLineZeroWidth(t *testing.T) {
	if r := fitLine("hello", 0); r != "" {
		t.Errorf("fitLine(hello, 0) = %q, want empty", r)
	}
}
