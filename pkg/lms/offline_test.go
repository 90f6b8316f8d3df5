package lms

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestOfflineFixtureShape(t *testing.T) {
	o := NewOffline()
	ctx := context.Background()

	courses, err := o.Courses(ctx)
	if err != nil {
		t.Fatalf("Courses: %v", err)
	}
	if len(courses) != 3 {
		t.Fatalf("got %d courses, want 3", len(courses))
	}

	for _, c := range courses {
		as, err := o.Assignments(ctx, c.ID)
		if err != nil {
			t.Fatalf("Assignments(%s): %v", c.ID, err)
		}
		if len(as) == 0 {
			t.Errorf("course %s has no assignments", c.ID)
		}
		for _, a := range as {
			if a.CourseID != c.ID {
				t.Errorf("assignment %s claims course %s, listed under %s", a.ID, a.CourseID, c.ID)
			}
		}

		roster, err := o.Roster(ctx, c.ID)
		if err != nil {
			t.Fatalf("Roster(%s): %v", c.ID, err)
		}
		if len(roster) == 0 {
			t.Errorf("course %s has an empty roster", c.ID)
		}
	}
}

func TestOfflineUnknownCourse(t *testing.T) {
	o := NewOffline()
	_, err := o.Assignments(context.Background(), "c-999")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want a 404 APIError", err)
	}
}

func TestOfflineSubmitVisibleOnNextPoll(t *testing.T) {
	o := NewOffline()
	ctx := context.Background()

	before, err := o.CourseGrade(ctx, "c-101", FixtureUserID)
	if err != nil {
		t.Fatalf("CourseGrade: %v", err)
	}

	err = o.SubmitAssignment(ctx, Submission{AssignmentID: "a-1", UserID: FixtureUserID, Body: "answers attached"})
	if err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}

	as, err := o.Assignments(ctx, "c-101")
	if err != nil {
		t.Fatalf("Assignments: %v", err)
	}
	var found bool
	for _, a := range as {
		if a.ID == "a-1" {
			found = true
			if !a.Submitted {
				t.Error("a-1 not marked submitted after SubmitAssignment")
			}
		}
	}
	if !found {
		t.Fatal("a-1 missing from fixtures")
	}

	after, err := o.CourseGrade(ctx, "c-101", FixtureUserID)
	if err != nil {
		t.Fatalf("CourseGrade: %v", err)
	}
	if after.Graded != before.Graded+1 {
		t.Errorf("graded count = %d, want %d", after.Graded, before.Graded+1)
	}
}

func TestOfflineMarkCompleteToggles(t *testing.T) {
	o := NewOffline()
	ctx := context.Background()

	mark := CompletionMark{AssignmentID: "a-6", UserID: FixtureUserID, Done: true}
	if err := o.MarkComplete(ctx, mark); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	as, _ := o.Assignments(ctx, "c-102")
	for _, a := range as {
		if a.ID == "a-6" && !a.Submitted {
			t.Error("a-6 not marked done")
		}
	}

	mark.Done = false
	if err := o.MarkComplete(ctx, mark); err != nil {
		t.Fatalf("MarkComplete undo: %v", err)
	}
	as, _ = o.Assignments(ctx, "c-102")
	for _, a := range as {
		if a.ID == "a-6" && a.Submitted {
			t.Error("a-6 still marked done after undo")
		}
	}
}

func TestOfflineDashboard(t *testing.T) {
	o := NewOffline()
	d, err := o.Dashboard(context.Background(), "c-103", FixtureUserID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.Assignments) == 0 || len(d.Roster) == 0 {
		t.Errorf("dashboard incomplete: %d assignments, %d roster entries", len(d.Assignments), len(d.Roster))
	}
	if d.Grade.CourseID != "c-103" || d.Grade.LetterGrade == "" {
		t.Errorf("grade = %+v", d.Grade)
	}
}

func TestOfflineWriteValidation(t *testing.T) {
	o := NewOffline()
	ctx := context.Background()

	if err := o.SubmitAssignment(ctx, Submission{AssignmentID: "a-1"}); err == nil {
		t.Error("submission without user and body should fail validation")
	}
	if err := o.MarkComplete(ctx, CompletionMark{Done: true}); err == nil {
		t.Error("completion without ids should fail validation")
	}

	err := o.SubmitAssignment(ctx, Submission{AssignmentID: "a-404", UserID: "u-1", Body: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("unknown assignment: err = %v, want 404 APIError", err)
	}
}
