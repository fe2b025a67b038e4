package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Score computes a normalized similarity between two text labels. The result
// is in [0, 1]: 1.0 for strings equal under case folding, 0.0 for strings
// sharing no characters. Symmetric and deterministic.
func Score(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	score := 1 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}
