// Package lms talks to the hosted campus backend: course catalogs, per-course
// assignment lists, enrollment rosters, and the server-computed grade
// summary. Client is the HTTP implementation; Offline serves a fixed data
// set from memory so the dashboard works without a backend.
package lms

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Assignment types as the backend reports them.
const (
	TypeAssignment = "assignment"
	TypeQuiz       = "quiz"
	TypeExam       = "exam"
	TypeDiscussion = "discussion"
)

// Roster roles as the backend reports them.
const (
	RoleStudent  = "student"
	RoleTeacher  = "teacher"
	RoleTA       = "ta"
	RoleObserver = "observer"
)

// Course is one entry of the account's course catalog.
type Course struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Term       string    `json:"term"`
	Instructor string    `json:"instructor"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Assignment is one gradable item within a course.
type Assignment struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Points    float64   `json:"points"`
	DueAt     time.Time `json:"due_at"`
	Submitted bool      `json:"submitted"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RosterEntry is one enrollment within a course.
type RosterEntry struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	EnrolledAt time.Time `json:"enrolled_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// GradeSummary is the backend-computed standing of one user in one course.
// The score is a percentage.
type GradeSummary struct {
	CourseID     string    `json:"course_id"`
	UserID       string    `json:"user_id"`
	CurrentScore float64   `json:"current_score"`
	LetterGrade  string    `json:"letter_grade"`
	Graded       int       `json:"graded"`
	Pending      int       `json:"pending"`
	ComputedAt   time.Time `json:"computed_at"`
}

// Submission is the payload for turning in an assignment.
type Submission struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	UserID       string `json:"user_id" validate:"required"`
	Body         string `json:"body" validate:"required"`
}

// CompletionMark flags a non-gradable item (reading, module step) as done.
type CompletionMark struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	UserID       string `json:"user_id" validate:"required"`
	Done         bool   `json:"done"`
}

// Dashboard bundles the three per-course panels fetched in one round.
type Dashboard struct {
	Assignments []Assignment
	Roster      []RosterEntry
	Grade       GradeSummary
}

// validate reports violations by json field name so errors read like the
// wire payload.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the payload before it goes on the wire.
func (s Submission) Validate() error { return validate.Struct(s) }

// Validate checks the payload before it goes on the wire.
func (m CompletionMark) Validate() error { return validate.Struct(m) }
