package letters

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Distance returns the normalized Levenshtein distance between two texts:
// rune-level edit distance divided by the longer trimmed length. It is 0 iff
// the texts are equal after trimming, never negative, and deterministic.
func Distance(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return 0
	}

	d := levenshtein.ComputeDistance(a, b)
	n := len([]rune(a))
	if m := len([]rune(b)); m > n {
		n = m
	}
	if n == 0 {
		return 0
	}

	return float64(d) / float64(n)
}
