package validators

import "strings"

// SanitizeString trims surrounding whitespace and truncates the result to at
// most maxLen runes. Truncation counts runes, not bytes, so multi-byte city
// names are never cut mid-character. A maxLen of zero disables truncation.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= maxLen {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:maxLen]))
}
