package utils

import (
	"strings"
	"unicode/utf8"
)

// Fallback handle rendered when no usable display name can be derived.
const DefaultDisplayName = "player"

// SafeDisplayName derives a public display string for an actor from an
// optional stored username and an optional raw identity string (typically
// an email). Full email addresses must never reach a rendered surface, so
// an email-shaped candidate is reduced to its local part.
//
// Rules:
//   - candidate is the username if set, otherwise the fallback, trimmed
//   - empty candidate -> "player"
//   - candidate containing "@" -> the trimmed part before the first "@",
//     kept only if it is at least 3 characters, otherwise "player"
//   - anything else is returned unchanged
//
// Total function: every input maps to a non-empty string.
func SafeDisplayName(username, fallback string) string {
	candidate := username
	if candidate == "" {
		candidate = fallback
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return DefaultDisplayName
	}

	if strings.Contains(candidate, "@") {
		beforeAt := strings.TrimSpace(strings.SplitN(candidate, "@", 2)[0])
		if utf8.RuneCountInString(beforeAt) >= 3 {
			return beforeAt
		}
		return DefaultDisplayName
	}
	return candidate
}
