package stringutil

import "fmt"

const ShortenLogLength = 16

// ShortenLog shortens a hash or address for log lines, keeping both ends
func ShortenLog(s string) string {
	indexCut := ShortenLogLength / 2
	if len(s) <= ShortenLogLength {
		return s
	}
	return fmt.Sprintf("%s...%s", s[:indexCut], s[len(s)-indexCut:])
}
