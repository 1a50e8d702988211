package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity converts the Levenshtein distance between two strings into a
// ratio in [0, 1]. A score of 1.0 means the strings are identical; two empty
// strings are defined as identical. The result is symmetric and counts runes,
// not bytes, so multi-byte scripts compare correctly.
func Similarity(s1, s2 string) float64 {
	maxLen := utf8.RuneCountInString(s1)
	if l2 := utf8.RuneCountInString(s2); l2 > maxLen {
		maxLen = l2
	}
	if maxLen == 0 {
		return 1.0
	}
	distance := fuzzy.LevenshteinDistance(s1, s2)
	return float64(maxLen-distance) / float64(maxLen)
}

// containsEither reports whether either non-empty string contains the other.
func containsEither(s1, s2 string) bool {
	if s1 == "" || s2 == "" {
		return false
	}
	return strings.Contains(s1, s2) || strings.Contains(s2, s1)
}
