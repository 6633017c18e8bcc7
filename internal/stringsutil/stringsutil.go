package stringsutil

import "strings"

// SplitNonEmpty splits s by sep and returns only non-empty parts.
func SplitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Lines splits command output into non-empty lines, accepting CRLF endings.
func Lines(s string) []string {
	return SplitNonEmpty(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
