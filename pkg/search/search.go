// Package search matches free-text queries and structured filters against
// in-memory record sets. Queries are case-insensitive substring matches over
// a configured set of record fields; filters constrain individual fields by
// membership, date range, or exact value. Composer ties both to a debounced
// query so a keystroke burst costs one re-filter, not one per key.
package search

import (
	"fmt"
	"strings"
)

// Match reports whether any of the record's values under paths contains
// query, comparing case-insensitively on the value's string form. An empty
// or all-space query matches everything. Paths that do not resolve are
// skipped rather than treated as a mismatch.
func Match(record any, query string, paths []string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, p := range paths {
		val, ok := Resolve(record, p)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(val)), q) {
			return true
		}
	}
	return false
}

// Search returns the records matching query, preserving input order. An
// empty query returns the input unchanged.
func Search[S ~[]E, E any](records S, query string, paths []string) S {
	q := strings.TrimSpace(query)
	if q == "" {
		return records
	}
	out := make(S, 0, len(records))
	for _, r := range records {
		if Match(r, q, paths) {
			out = append(out, r)
		}
	}
	return out
}
