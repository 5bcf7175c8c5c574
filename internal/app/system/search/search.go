// internal/app/system/search/search.go
package search

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Matches reports whether the folded query is a substring of any folded
// field. An empty query matches everything.
//
// Typical usage in list handlers:
//
//	q := search.Normalize(query.Get(r, "q"))
//	if search.Matches(q, m.Name, m.Role) { ... }
func Matches(q string, fields ...string) bool {
	q = Normalize(q)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(text.Fold(f), q) {
			return true
		}
	}
	return false
}

// Normalize trims and folds a query so "  João " finds "joao".
func Normalize(q string) string {
	return text.Fold(strings.TrimSpace(q))
}

// StatusFilter maps a status query parameter onto one of the allowed
// values, ignoring case. Empty or unknown values (including "all") return
// "" meaning no filter.
func StatusFilter(status string, allowed ...string) string {
	s := strings.TrimSpace(strings.ToLower(status))
	for _, v := range allowed {
		if s == strings.ToLower(v) {
			return v
		}
	}
	return ""
}
