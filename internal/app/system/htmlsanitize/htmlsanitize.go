// Package htmlsanitize cleans free-text input (notes, descriptions,
// member profile fields) before it is stored. The dashboard never accepts
// markup, so every tag is removed.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all markup from s, decodes entities, and trims surrounding
// whitespace. Script and style element contents are dropped entirely.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no tag-like sequences.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}
