package lms

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Offline serves a fixed campus data set from memory. It satisfies Fetcher,
// so the dashboard runs against it unchanged; writes mutate the fixtures so
// a submission shows up on the next poll.
type Offline struct {
	mu          sync.Mutex
	courses     []Course
	assignments map[string][]Assignment
	roster      map[string][]RosterEntry
	scores      map[string]float64
}

var _ Fetcher = (*Offline)(nil)

// FixtureUserID is the enrollment the offline grade fixtures belong to.
const FixtureUserID = "u-100"

// NewOffline builds the fixture set. Due dates are anchored to the current
// time so relative views (overdue, due this week) stay meaningful.
func NewOffline() *Offline {
	now := time.Now().Truncate(time.Hour)
	day := 24 * time.Hour

	o := &Offline{
		courses: []Course{
			{ID: "c-101", Code: "MATH-218", Name: "Linear Algebra", Term: "2026 Fall", Instructor: "Elena Vargas", UpdatedAt: now.Add(-2 * day)},
			{ID: "c-102", Code: "BIO-201", Name: "Molecular Biology", Term: "2026 Fall", Instructor: "Owen Hart", UpdatedAt: now.Add(-day)},
			{ID: "c-103", Code: "CS-310", Name: "Distributed Systems", Term: "2026 Fall", Instructor: "Maya Chen", UpdatedAt: now.Add(-3 * time.Hour)},
		},
		assignments: map[string][]Assignment{
			"c-101": {
				{ID: "a-1", CourseID: "c-101", Name: "Problem Set 3", Type: TypeAssignment, Points: 20, DueAt: now.Add(2 * day)},
				{ID: "a-2", CourseID: "c-101", Name: "Eigenvalues Quiz", Type: TypeQuiz, Points: 10, DueAt: now.Add(5 * day)},
				{ID: "a-3", CourseID: "c-101", Name: "Matrix Factorization Project", Type: TypeAssignment, Points: 40, DueAt: now.Add(12 * day)},
			},
			"c-102": {
				{ID: "a-4", CourseID: "c-102", Name: "Lab Report: PCR", Type: TypeAssignment, Points: 25, DueAt: now.Add(-day), Submitted: true},
				{ID: "a-5", CourseID: "c-102", Name: "Midterm Exam", Type: TypeExam, Points: 50, DueAt: now.Add(3 * day)},
				{ID: "a-6", CourseID: "c-102", Name: "Reading Discussion: CRISPR", Type: TypeDiscussion, Points: 5, DueAt: now.Add(4 * day)},
			},
			"c-103": {
				{ID: "a-7", CourseID: "c-103", Name: "Raft Implementation", Type: TypeAssignment, Points: 60, DueAt: now.Add(9 * day)},
				{ID: "a-8", CourseID: "c-103", Name: "Consensus Quiz", Type: TypeQuiz, Points: 15, DueAt: now.Add(day)},
				{ID: "a-9", CourseID: "c-103", Name: "Paper Discussion: Spanner", Type: TypeDiscussion, Points: 5, DueAt: now.Add(6 * day)},
				{ID: "a-10", CourseID: "c-103", Name: "Vector Clocks Exercise", Type: TypeAssignment, Points: 10, DueAt: now.Add(-2 * day), Submitted: true},
			},
		},
		roster: map[string][]RosterEntry{
			"c-101": {
				{UserID: "u-1", Name: "Elena Vargas", Email: "evargas@campus.edu", Role: RoleTeacher, EnrolledAt: now.Add(-60 * day), LastSeenAt: now.Add(-2 * time.Hour)},
				{UserID: FixtureUserID, Name: "Sam Porter", Email: "sporter@campus.edu", Role: RoleStudent, EnrolledAt: now.Add(-58 * day), LastSeenAt: now.Add(-time.Hour)},
				{UserID: "u-101", Name: "Ada Okafor", Email: "aokafor@campus.edu", Role: RoleStudent, EnrolledAt: now.Add(-58 * day), LastSeenAt: now.Add(-26 * time.Hour)},
				{UserID: "u-102", Name: "Leo Brandt", Email: "lbrandt@campus.edu", Role: RoleStudent, EnrolledAt: now.Add(-50 * day), LastSeenAt: now.Add(-4 * day)},
			},
			"c-102": {
				{UserID: "u-2", Name: "Owen Hart", Email: "ohart@campus.edu", Role: RoleTeacher, EnrolledAt: now.Add(-60 * day), LastSeenAt: now.Add(-30 * time.Minute)},
				{UserID: "u-3", Name: "Priya Nair", Email: "pnair@campus.edu", Role: RoleTA, EnrolledAt: now.Add(-59 * day), LastSeenAt: now.Add(-3 * time.Hour)},
				{UserID: FixtureUserID, Name: "Sam Porter", Email: "sporter@campus.edu", Role: RoleStudent, EnrolledAt: now.Add(-57 * day), LastSeenAt: now.Add(-time.Hour)},
				{UserID: "u-103", Name: "Jonas Keller", Email: "jkeller@campus.edu", Role: RoleStudent, EnrolledAt: now.Add(-40 * day), LastSeenAt: now.Add(-7 * day)},
			},
			"c-103": {
				{UserID: "u-4", Name: "Maya Chen", Email: "mchen@campus.edu", Role: RoleTeacher, EnrolledAt: now.Add(-60 * day), LastSeenAt: now.Add(-10 * time.Minute)},
				{UserID: FixtureUserID, Name: "Sam Porter", Email: "sporter@campus.edu", Role: RoleStudent, EnrolledAt: now.Add(-55 * day), LastSeenAt: now.Add(-time.Hour)},
				{UserID: "u-104", Name: "Ines Moreau", Email: "imoreau@campus.edu", Role: RoleObserver, EnrolledAt: now.Add(-20 * day), LastSeenAt: now.Add(-12 * day)},
			},
		},
		scores: map[string]float64{
			"c-101": 91.3,
			"c-102": 84.6,
			"c-103": 88.0,
		},
	}
	return o
}

func (o *Offline) Ping(ctx context.Context) error { return nil }

func (o *Offline) Courses(ctx context.Context) ([]Course, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Course, len(o.courses))
	copy(out, o.courses)
	return out, nil
}

func (o *Offline) Assignments(ctx context.Context, courseID string) ([]Assignment, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	as, ok := o.assignments[courseID]
	if !ok {
		return nil, courseNotFound(courseID)
	}
	out := make([]Assignment, len(as))
	copy(out, as)
	return out, nil
}

func (o *Offline) Roster(ctx context.Context, courseID string) ([]RosterEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	rs, ok := o.roster[courseID]
	if !ok {
		return nil, courseNotFound(courseID)
	}
	out := make([]RosterEntry, len(rs))
	copy(out, rs)
	return out, nil
}

// CourseGrade derives the summary from the fixture assignments, mirroring
// what the backend's RPC computes from submissions.
func (o *Offline) CourseGrade(ctx context.Context, courseID, userID string) (GradeSummary, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	as, ok := o.assignments[courseID]
	if !ok {
		return GradeSummary{}, courseNotFound(courseID)
	}

	var graded, pending int
	for _, a := range as {
		if a.Submitted {
			graded++
		} else {
			pending++
		}
	}
	score := o.scores[courseID]
	return GradeSummary{
		CourseID:     courseID,
		UserID:       userID,
		CurrentScore: score,
		LetterGrade:  letterFor(score),
		Graded:       graded,
		Pending:      pending,
		ComputedAt:   time.Now(),
	}, nil
}

func (o *Offline) Dashboard(ctx context.Context, courseID, userID string) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := o.Assignments(ctx, courseID)
		d.Assignments = a
		return err
	})
	g.Go(func() error {
		r, err := o.Roster(ctx, courseID)
		d.Roster = r
		return err
	})
	g.Go(func() error {
		gr, err := o.CourseGrade(ctx, courseID, userID)
		d.Grade = gr
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// SubmitAssignment marks the fixture assignment submitted so the change is
// visible on the next poll.
func (o *Offline) SubmitAssignment(ctx context.Context, sub Submission) error {
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("validate submission: %w", err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.setSubmitted(sub.AssignmentID, true)
}

func (o *Offline) MarkComplete(ctx context.Context, mark CompletionMark) error {
	if err := mark.Validate(); err != nil {
		return fmt.Errorf("validate completion: %w", err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.setSubmitted(mark.AssignmentID, mark.Done)
}

// setSubmitted flips the submitted flag on the assignment, wherever it
// lives. Caller holds o.mu.
func (o *Offline) setSubmitted(assignmentID string, done bool) error {
	for courseID, as := range o.assignments {
		for i := range as {
			if as[i].ID == assignmentID {
				as[i].Submitted = done
				as[i].UpdatedAt = time.Now()
				o.assignments[courseID] = as
				return nil
			}
		}
	}
	return &APIError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("assignment %s not found", assignmentID)}
}

func courseNotFound(courseID string) error {
	return &APIError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("course %s not found", courseID)}
}

func letterFor(score float64) string {
	switch {
	case score >= 93:
		return "A"
	case score >= 90:
		return "A-"
	case score >= 87:
		return "B+"
	case score >= 83:
		return "B"
	case score >= 80:
		return "B-"
	case score >= 77:
		return "C+"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
