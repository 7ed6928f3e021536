// Package title provides title normalization and display formatting for catalog entries.
package title

import (
	"strings"
	"unicode"
)

// DefaultDisplayLimit is the display-length bound for abbreviated titles.
// Chat select menus truncate long labels, so we elide before the platform does.
const DefaultDisplayLimit = 48

// Key derives the canonical catalog key for a title.
//
// Lookup policy: case-insensitive. Keys are Unicode-lowercased, trimmed, and
// have runs of inner whitespace collapsed to a single space, so "DUNE" and
// " dune " address the same entry.
func Key(title string) string {
	s := strings.ToLower(strings.TrimSpace(sanitize(title)))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// Abbreviate elides a title that exceeds limit runes.
// The final runes are replaced so the result is exactly limit runes long,
// ending with a single ellipsis marker. A limit below 1 falls back to
// DefaultDisplayLimit.
func Abbreviate(title string, limit int) string {
	if limit < 1 {
		limit = DefaultDisplayLimit
	}
	runes := []rune(strings.TrimSpace(title))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit-1]) + "…"
}

// sanitize removes null bytes and other control characters that some chat
// clients smuggle into submitted field values.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			return -1
		}
		return r
	}, s)
}
