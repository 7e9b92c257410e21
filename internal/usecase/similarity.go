package usecase

import (
	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityRatio returns 2*M/T where M is the number of characters in the
// matching blocks of a and b and T is the total number of characters in
// both. It is symmetric, in [0,1], and 1 only for identical strings.
func SimilarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	matcher := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	return matcher.Ratio()
}

// splitRunes turns a string into one element per character so the line
// based matcher compares characters, including multi-byte Cyrillic ones.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
