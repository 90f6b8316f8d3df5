package widgets

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/components"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testConfig(w, h int) Config {
	return Config{Width: w, Height: h, Now: testNow}
}

func sampleCourses() []lms.Course {
	return []lms.Course{
		{ID: "c-101", Code: "MATH-218", Name: "Linear Algebra", Instructor: "Elena Vargas"},
		{ID: "c-102", Code: "BIO-201", Name: "Molecular Biology", Instructor: "Owen Hart"},
		{ID: "c-103", Code: "CS-310", Name: "Distributed Systems", Instructor: "Maya Chen"},
	}
}

func TestRenderCourses_Dimensions(t *testing.T) {
	view := RenderCourses(CoursesData{Courses: sampleCourses()}, testConfig(60, 10))
	lines := strings.Split(view, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if vis := components.VisibleLen(line); vis != 60 {
			t.Errorf("line %d visible width = %d, want 60: %q", i, vis, line)
		}
	}
}

func TestRenderCourses_ShowsRows(t *testing.T) {
	view := RenderCourses(CoursesData{Courses: sampleCourses()}, testConfig(60, 10))
	for _, want := range []string{"MATH-218", "Linear Algebra", "Elena Vargas", "CS-310"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
}

func TestRenderCourses_TitleCount(t *testing.T) {
	view := RenderCourses(CoursesData{Courses: sampleCourses()}, testConfig(60, 10))
	if !strings.Contains(view, "Courses (3)") {
		t.Errorf("title should show the course count:\n%s", view)
	}
}

func TestRenderCourses_SelectionMarker(t *testing.T) {
	view := RenderCourses(CoursesData{Courses: sampleCourses(), Selected: 1}, testConfig(60, 10))
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "BIO-201") {
			if !strings.Contains(line, "\u25b8") {
				t.Errorf("selected course row should carry the marker: %q", line)
			}
			return
		}
	}
	t.Fatal("selected course not rendered")
}

func TestRenderCourses_Error(t *testing.T) {
	d := CoursesData{Courses: sampleCourses(), Err: errors.New("backend unreachable")}
	view := RenderCourses(d, testConfig(60, 10))
	if !strings.Contains(view, "error: backend unreachable") {
		t.Errorf("view should surface the fetch error:\n%s", view)
	}
	// Stale rows keep rendering under the error line.
	if !strings.Contains(view, "MATH-218") {
		t.Errorf("rows should still render alongside the error:\n%s", view)
	}
}

func TestRenderCourses_LoadingBeforeFirstData(t *testing.T) {
	view := RenderCourses(CoursesData{Loading: true}, Config{Width: 40, Height: 6, Spinner: "|", Now: testNow})
	if !strings.Contains(view, "| loading") {
		t.Errorf("empty loading panel should show the spinner:\n%s", view)
	}
}

func TestRenderCourses_PlainWithoutTheme(t *testing.T) {
	view := RenderCourses(CoursesData{Courses: sampleCourses(), Selected: 0}, testConfig(60, 10))
	if strings.Contains(view, "\x1b[") {
		t.Errorf("zero theme should render without escapes:\n%q", view)
	}
}

func TestRenderCourses_FocusedBorderColor(t *testing.T) {
	cfg := testConfig(60, 10)
	cfg.Theme.Border = "#3e3e3e"
	cfg.Theme.BorderFocus = "#7C3AED"
	blurred := RenderCourses(CoursesData{Courses: sampleCourses()}, cfg)
	cfg.Focused = true
	focused := RenderCourses(CoursesData{Courses: sampleCourses()}, cfg)
	if !strings.Contains(focused, "\x1b[38;2;124;58;237m") {
		t.Errorf("focused border should use the focus color")
	}
	if strings.Contains(blurred, "\x1b[38;2;124;58;237m") {
		t.Errorf("unfocused border should not use the focus color")
	}
}
