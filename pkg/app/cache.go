package app

import (
	"gitlab.com/tinyland/lab/campus-pulse/pkg/cache"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/lms"
	"gitlab.com/tinyland/lab/campus-pulse/pkg/poll"
)

// Cache keys shared by the dashboard's write-through and the -refresh mode.
const CoursesCacheKey = "courses"

// AssignmentsCacheKey is the snapshot key for one course's assignment list.
func AssignmentsCacheKey(courseID string) string { return "assignments/" + courseID }

// RosterCacheKey is the snapshot key for one course's roster.
func RosterCacheKey(courseID string) string { return "roster/" + courseID }

// GradeCacheKey is the snapshot key for one user's standing in one course.
func GradeCacheKey(courseID, userID string) string {
	return "grade/" + courseID + "/" + userID
}

// warmStart seeds the course catalog from its cache snapshot so the first
// paint shows rows while the mount fetch is still in flight. Panels seeded
// this way report stale until a live fetch replaces them.
func (m *Model) warmStart() {
	if m.store == nil {
		return
	}
	if data, err := cache.GetTyped[[]lms.Course](m.store, CoursesCacheKey); err == nil {
		m.courses = cachedState(m.store, CoursesCacheKey, data)
		m.warm[PanelCourses] = true
		m.courseSearch.SetSource(data)
	}
}

// warmCourse seeds the course-scoped panels after a course is opened.
func (m *Model) warmCourse() {
	if m.store == nil {
		return
	}
	if data, err := cache.GetTyped[[]lms.Assignment](m.store, AssignmentsCacheKey(m.courseID)); err == nil {
		m.assignments = cachedState(m.store, AssignmentsCacheKey(m.courseID), data)
		m.warm[PanelAssignments] = true
		m.assignmentSearch.SetSource(data)
	}
	if data, err := cache.GetTyped[[]lms.RosterEntry](m.store, RosterCacheKey(m.courseID)); err == nil {
		m.roster = cachedState(m.store, RosterCacheKey(m.courseID), data)
		m.warm[PanelRoster] = true
		m.rosterSearch.SetSource(data)
	}
	key := GradeCacheKey(m.courseID, m.userID)
	if data, err := cache.GetTyped[lms.GradeSummary](m.store, key); err == nil {
		m.grade = cachedState(m.store, key, data)
		m.warm[PanelGrade] = true
	}
}

// cachedState wraps a cache payload as panel state, dated by when the
// snapshot was written.
func cachedState[T any](s *cache.Store, key string, data T) poll.State[T] {
	st := poll.State[T]{Data: data, HasData: true}
	if info, err := s.Stat(key); err == nil {
		st.LastUpdated = info.SavedAt
	}
	return st
}

// putThrough mirrors a fresh snapshot to disk. Failures only log; the live
// data is already on screen.
func (m Model) putThrough(key string, v any) {
	if m.store == nil {
		return
	}
	if err := cache.PutTyped(m.store, key, v); err != nil {
		m.log.Warn("cache write failed", "key", key, "error", err)
	}
}
