package common

import (
	"fmt"
)

// FormatCharacters renders a character count with thousands separators for
// log lines and the usage summary job.
func FormatCharacters(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// FormatCost renders a synthesis cost in dollars with enough precision for
// the per-character price points in use.
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.4f", cost)
}
