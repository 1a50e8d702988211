package matching

import "unicode"

// cjkRanges covers the scripts the detector groups together as "CJK/Hangul":
// Korean, Chinese and Japanese text all live here.
var cjkRanges = []*unicode.RangeTable{
	unicode.Hangul,
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
}

func containsLatinLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.IsOneOf(cjkRanges, r) {
			return true
		}
	}
	return false
}

// isMainlyLatin reports whether a string is written in Latin script with no
// CJK/Hangul characters at all.
func isMainlyLatin(s string) bool {
	return containsLatinLetter(s) && !containsCJK(s)
}

// isMainlyCJK reports whether a string is written in CJK/Hangul script with no
// Latin letters at all.
func isMainlyCJK(s string) bool {
	return containsCJK(s) && !containsLatinLetter(s)
}

// IsLanguageMismatch reports whether the two strings visibly belong to
// different writing systems: one mainly Latin, the other mainly CJK/Hangul.
// Mixed-script or script-free strings are never flagged. The selector uses
// this as a hard exclusion filter in its looser tiers, where transliterated
// titles would otherwise score deceptively well on raw edit distance.
func IsLanguageMismatch(s1, s2 string) bool {
	return (isMainlyLatin(s1) && isMainlyCJK(s2)) || (isMainlyCJK(s1) && isMainlyLatin(s2))
}
