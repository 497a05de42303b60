package utils

import (
	"strings"
)

// SafeText strips invalid UTF-8 and collapses whitespace runs so scraped
// strings are safe for storage and prompts.
func SafeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// TruncateString cuts s to at most max runes, appending an ellipsis when it
// had to cut.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
