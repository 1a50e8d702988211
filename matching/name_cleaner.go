package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Regex to remove featured artist information (e.g., feat, ft).
	featRegex = regexp.MustCompile(`(?i)\[\s*(feat|ft)\.?\s*[^\]]+\]|\(\s*(feat|ft)\.?\s*[^)]+\)`)

	// Regex to remove common tags like (remix, live, edit, etc.).
	tagsRegex = regexp.MustCompile(`(?i)[\(\[].*?(remix|edit|live|version|explicit|clean|instrumental|deluxe|mastered).*?[\)\]]`)

	// Regex to remove characters that are neither word characters nor whitespace.
	// Letters from any script count as word characters so Hangul and CJK titles
	// survive normalization.
	nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

	// Regex to collapse multiple whitespace characters into a single space.
	extraWhitespaceRegex = regexp.MustCompile(`\s+`)

	// Decorative heart glyphs that show up around titles in comment tracklists.
	heartRegex = regexp.MustCompile(`[♥♡]`)
)

// Clean normalizes a metadata string for use in catalog search queries.
// It lowercases, removes diacritics, strips "(feat. ...)"-style credits and
// common tags like "(remix)", drops punctuation and collapses whitespace.
func Clean(s string) string {
	s = strings.ToLower(s)

	// Remove diacritics.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)

	s = featRegex.ReplaceAllString(s, "")
	s = tagsRegex.ReplaceAllString(s, "")
	s = nonWordRegex.ReplaceAllString(s, " ")
	s = extraWhitespaceRegex.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Normalize prepares a string for similarity comparison: lowercase, strip
// everything that is not a word character or whitespace, collapse internal
// whitespace and trim. Unlike Clean it keeps featuring credits intact, because
// the selector's featuring tier needs to see them.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordRegex.ReplaceAllString(s, "")
	s = extraWhitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripHearts removes decorative heart glyphs and trims the result.
func StripHearts(s string) string {
	return strings.TrimSpace(heartRegex.ReplaceAllString(s, ""))
}
