package search

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// dateLayouts are the accepted string forms for date-valued fields, tried in
// order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// DateRange bounds a time-valued field. A zero From or To leaves that side
// open. Both bounds are inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) active() bool { return !r.From.IsZero() || !r.To.IsZero() }

func (r DateRange) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Filters maps dotted field paths to constraints. A constraint is one of:
//
//   - a slice: the field's string form must equal one of the entries;
//     an empty slice is inactive
//   - a DateRange: the field must be, or parse as, a time inside the range
//   - anything else: the field must equal it, comparing string forms when
//     the types differ
//
// Nil constraints and empty strings are inactive and match everything, so a
// caller can park keys in the map without narrowing results.
type Filters map[string]any

// Active reports whether at least one constraint would narrow results.
func (f Filters) Active() bool {
	for _, c := range f {
		if constraintActive(c) {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy that can be mutated independently.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// MatchFilters reports whether record satisfies every active constraint. A
// path that does not resolve fails its constraint.
func MatchFilters(record any, f Filters) bool {
	for path, c := range f {
		if !constraintActive(c) {
			continue
		}
		val, ok := Resolve(record, path)
		if !ok {
			return false
		}
		if !matchConstraint(val, c) {
			return false
		}
	}
	return true
}

// Filter returns the records satisfying every active constraint, preserving
// input order. With no active constraints the input is returned unchanged.
func Filter[S ~[]E, E any](records S, f Filters) S {
	if !f.Active() {
		return records
	}
	out := make(S, 0, len(records))
	for _, r := range records {
		if MatchFilters(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func constraintActive(c any) bool {
	switch v := c.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case DateRange:
		return v.active()
	}
	rv := reflect.ValueOf(c)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len() > 0
	}
	return true
}

func matchConstraint(val, c any) bool {
	if dr, ok := c.(DateRange); ok {
		t, ok := asTime(val)
		if !ok {
			return false
		}
		return dr.contains(t)
	}
	rv := reflect.ValueOf(c)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		want := stringForm(val)
		for i := 0; i < rv.Len(); i++ {
			if stringForm(rv.Index(i).Interface()) == want {
				return true
			}
		}
		return false
	}
	return equalValue(val, c)
}

// equalValue compares with == when both sides share a comparable type and
// falls back to string forms otherwise, so 3 matches int64(3) and "3".
func equalValue(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != nil && ta == tb && ta.Comparable() {
		return a == b
	}
	return stringForm(a) == stringForm(b)
}

func stringForm(v any) string { return fmt.Sprint(v) }

// asTime coerces time values and the accepted date layouts.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
