// Package strutil provides string utilities for case conversion and SQL naming
// used throughout the Masonry codebase.
package strutil

import (
	"strings"
	"unicode"
)

// -----------------------------------------------------------------------------
// Case Conversion
// -----------------------------------------------------------------------------

// ToSnakeCase converts a string to snake_case.
// Examples: userName -> user_name, UserName -> user_name, HTTPServer -> http_server
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s) + 4) // pre-allocate with some extra space for underscores

	for i, r := range s {
		if unicode.IsUpper(r) {
			// Add underscore before uppercase letter if:
			// - Not at the start
			// - Previous char is lowercase, OR
			// - Next char exists and is lowercase (handles "HTTPServer" -> "http_server")
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) {
					result.WriteByte('_')
				} else if i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					result.WriteByte('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else if r == '-' || r == ' ' {
			// Convert dashes and spaces to underscores
			result.WriteByte('_')
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// -----------------------------------------------------------------------------
// SQL Naming
// -----------------------------------------------------------------------------

// Normalize lower-snake-cases a name and collapses every run of characters
// outside [a-z0-9_] into a single underscore. The result never contains
// consecutive underscores and never starts or ends with one. Names that
// normalize to nothing fall back to "idx" so the result is always a usable
// SQL identifier.
func Normalize(s string) string {
	snake := strings.ToLower(ToSnakeCase(s))

	var result strings.Builder
	result.Grow(len(snake))

	lastUnderscore := true // suppress a leading underscore
	for _, r := range snake {
		safe := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		switch {
		case safe:
			result.WriteRune(r)
			lastUnderscore = false
		case lastUnderscore:
			// already emitted an underscore for this run
		default:
			result.WriteByte('_')
			lastUnderscore = true
		}
	}

	out := strings.TrimSuffix(result.String(), "_")
	if out == "" {
		return "idx"
	}
	return out
}

// IndexName returns the default index name for a table and field.
// Example: IndexName("users", "email") -> "users_email"
func IndexName(table, field string) string {
	return Normalize(table + "_" + field)
}
