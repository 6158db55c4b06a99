package util

import "strings"

// StripCodeFences removes a surrounding markdown fence, including an optional
// language tag on the opening line.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		if tag := strings.TrimSpace(s[:i]); tag != "" && !strings.ContainsAny(tag, " \t") {
			s = s[i:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
