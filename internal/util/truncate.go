package util

import "fmt"

// TruncateLog truncates long strings for verbose logging so generated
// content does not balloon the log files.
func TruncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}
