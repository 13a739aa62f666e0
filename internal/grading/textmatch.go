package grading

import "strings"

// Normalize trims surrounding whitespace and case-folds for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Match reports whether a supplied answer matches the canonical answer
// under normalized text equality.
func Match(supplied, canonical string) bool {
	return Normalize(supplied) == Normalize(canonical)
}

// Score awards the full point weight on an exact normalized match,
// zero otherwise. Points below the default weight are lifted to 1.
func Score(supplied, canonical string, points float64) float64 {
	if points <= 0 {
		points = 1
	}
	if Match(supplied, canonical) {
		return points
	}
	return 0
}
