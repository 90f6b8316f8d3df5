package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/poll"
)

// tickCmd schedules the next TickEvent after d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// waitUpdate blocks until the scheduler publishes its next snapshot. The
// update loop re-issues the command after every delivery; the channel closing
// at Stop ends the chain.
func waitUpdate[T any](p Panel, ch <-chan poll.State[T]) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return DataUpdateEvent{Panel: p, State: st}
	}
}

// waitQuery blocks until the panel's debounced query settles.
func waitQuery(p Panel, ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-ch
		if !ok {
			return nil
		}
		return QuerySettledEvent{Panel: p, Query: q}
	}
}

// submitCmd turns in the assignment for userID. The backend flips the
// submitted flag; the caller refreshes the assignment and grade pollers on a
// nil-error result so the flip is visible on the next paint.
func submitCmd(f lms.Fetcher, a lms.Assignment, userID string) tea.Cmd {
	return func() tea.Msg {
		sub := lms.Submission{
			AssignmentID: a.ID,
			UserID:       userID,
			Body:         "Submitted from the dashboard.",
		}
		if err := sub.Validate(); err != nil {
			return WriteResultEvent{Op: "submit", Err: err}
		}
		return WriteResultEvent{Op: "submit", Err: f.SubmitAssignment(context.Background(), sub)}
	}
}

// completeCmd toggles the completion mark on the assignment.
func completeCmd(f lms.Fetcher, a lms.Assignment, userID string) tea.Cmd {
	return func() tea.Msg {
		mark := lms.CompletionMark{
			AssignmentID: a.ID,
			UserID:       userID,
			Done:         !a.Submitted,
		}
		if err := mark.Validate(); err != nil {
			return WriteResultEvent{Op: "complete", Err: err}
		}
		return WriteResultEvent{Op: "complete", Err: f.MarkComplete(context.Background(), mark)}
	}
}
