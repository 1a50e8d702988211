package parsing

import (
	"regexp"
	"strings"

	"github.com/sejinpark/tracklift/core"
	"github.com/sejinpark/tracklift/matching"
)

// Line patterns, tried strictly in order. More specific timestamp shapes come
// before looser ones, which keeps the rules mutually exclusive; do not reorder.
var (
	// "00:01:56 d4vd - Sleep Well" (long timestamp, artist - title)
	reLongTsDash = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2})\s+(.+?)\s*-\s*(.+)$`)
	// "00:00:12 지난날 _ 유재하" (long timestamp, title _ artist)
	reLongTsUnderscore = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2})\s+(.+?)\s*_\s*(.+)$`)
	// "00:12:32 Until I Found You" (long timestamp, no artist)
	reLongTsTitleOnly = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2})\s+(.+?)(?:\s*♥\s*)?$`)
	// "0:00 wRoNg (feat. kehlani) -ZAYN" (short timestamp, dash pair)
	reShortTsDash = regexp.MustCompile(`^(\d{1,2}:\d{2})\s+(.+?)\s*-\s*(.+)$`)
	// "04:55 이 밤이 지나면 _ 임재범" (short timestamp, title _ artist)
	reShortTsUnderscore = regexp.MustCompile(`^(\d{1,2}:\d{2})\s+(.+?)\s*_\s*(.+)$`)
	// "3:45 Some Title" (short timestamp, no artist)
	reShortTsTitleOnly = regexp.MustCompile(`^(\d{1,2}:\d{2})\s+(.+?)(?:\s*♥\s*)?$`)
	// "1. Artist - Song 3:45" (ordinal list entry, optional trailing time)
	reNumbered = regexp.MustCompile(`^\d+\.\s*(.+?)\s*-\s*(.+?)(?:\s+\d{1,2}:\d{2}(?::\d{2})?)?$`)
	// "3:09-5:50 Song(feat. Artist)-MainArtist" (time range prefix)
	reTimeRange = regexp.MustCompile(`^(\d{1,2}:\d{2}[-–]\d{1,2}:\d{2})\s+(.+?)-(.+)$`)
	// "Artist - Title" (generic fallback, gated below)
	reGenericDash = regexp.MustCompile(`^(.+?)\s*[-–]\s*(.+)$`)

	reOrdinalPrefix = regexp.MustCompile(`^\d+\.`)
	reEmbeddedTime  = regexp.MustCompile(`\d{1,2}:\d{2}`)
	reFeatSuffix    = regexp.MustCompile(`(?i)\s*\(feat\..*?\)`)

	// Timestamp shapes for the standalone extractor; ranges before singles.
	reAnyTimeRange = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?[-–]\d{1,2}:\d{2}(?::\d{2})?`)
	reAnyTime      = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`)
)

// Markers that identify boilerplate rather than track entries. The generic
// dash rule refuses lines carrying any of these.
var boilerplateMarkers = []string{"감사합니다", "좋아요", "구독", "Spotify"}

// NewLineParser creates a stateless parser. Instances are freely shareable.
func NewLineParser() *LineParser {
	return &LineParser{}
}

type LineParser struct{}

// ParseLine attempts to extract a track from one already-trimmed line of
// text. The boolean is false when no pattern rule matches; most lines in a
// comment are not track entries, so a miss is the common case, not an error.
func (p *LineParser) ParseLine(line string) (core.MusicTrack, bool) {
	cleanLine := strings.TrimSpace(line)
	if cleanLine == "" {
		return core.MusicTrack{}, false
	}

	// Rule 1: "HH:MM:SS artist - title".
	if m := reLongTsDash.FindStringSubmatch(cleanLine); m != nil {
		return newTrack(m[3], m[2], cleanLine, m[1]), true
	}

	// Rule 2: "HH:MM:SS title _ artist".
	if m := reLongTsUnderscore.FindStringSubmatch(cleanLine); m != nil {
		return newTrack(m[2], m[3], cleanLine, m[1]), true
	}

	// Rule 3: "HH:MM:SS title" with no separator at all.
	if m := reLongTsTitleOnly.FindStringSubmatch(cleanLine); m != nil &&
		!strings.Contains(cleanLine, " - ") && !strings.Contains(cleanLine, " _ ") {
		return newTrack(m[2], core.UnknownArtist, cleanLine, m[1]), true
	}

	// Rule 4: "M:SS left - right" where the title/artist order varies by
	// convention and has to be guessed.
	if m := reShortTsDash.FindStringSubmatch(cleanLine); m != nil {
		left := matching.StripHearts(m[2])
		right := matching.StripHearts(m[3])
		title, artist := p.resolveDashOrder(left, right)
		return newTrack(title, artist, cleanLine, m[1]), true
	}

	// Rule 5: "M:SS title _ artist".
	if m := reShortTsUnderscore.FindStringSubmatch(cleanLine); m != nil {
		return newTrack(m[2], m[3], cleanLine, m[1]), true
	}

	// Rule 6: "M:SS title" with no separator.
	if m := reShortTsTitleOnly.FindStringSubmatch(cleanLine); m != nil &&
		!strings.Contains(cleanLine, " - ") && !strings.Contains(cleanLine, " _ ") {
		return newTrack(m[2], core.UnknownArtist, cleanLine, m[1]), true
	}

	// Rule 7: "N. artist - title [trailing time]".
	if m := reNumbered.FindStringSubmatch(cleanLine); m != nil {
		return newTrack(m[2], m[1], cleanLine, ExtractTimeStamp(cleanLine)), true
	}

	// Rule 8: "MM:SS-MM:SS title-artist", stripping featuring credits from
	// the title portion.
	if m := reTimeRange.FindStringSubmatch(cleanLine); m != nil {
		title := reFeatSuffix.ReplaceAllString(strings.TrimSpace(m[2]), "")
		return newTrack(title, m[3], cleanLine, m[1]), true
	}

	// Rule 9: generic "artist - title" fallback. Only lines that look like
	// list entries qualify: an ordinal prefix or an embedded time token.
	// Plain prose with a hyphen must not parse.
	if m := reGenericDash.FindStringSubmatch(cleanLine); m != nil && !containsBoilerplate(cleanLine) {
		if reOrdinalPrefix.MatchString(cleanLine) || reEmbeddedTime.MatchString(cleanLine) {
			return newTrack(m[2], m[1], cleanLine, ExtractTimeStamp(cleanLine)), true
		}
	}

	return core.MusicTrack{}, false
}

// resolveDashOrder decides whether a "M:SS left - right" line is
// title - artist or artist - title. A comma/ampersand-joined multi-artist
// list on the left flips the order unconditionally; otherwise the right side
// is classified as artist-like through known name shapes and simple
// word-count heuristics. Ambiguous lines default to title - artist.
func (p *LineParser) resolveDashOrder(left, right string) (title, artist string) {
	if p.multiArtistList(left) {
		return right, left
	}
	return left, right
}

// multiArtistList reports whether a string reads like a comma-joined list of
// artist names rather than a song title.
func (p *LineParser) multiArtistList(s string) bool {
	if strings.Contains(s, ",") && strings.Contains(s, "&") {
		return true
	}
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		if len(strings.TrimSpace(part)) <= 2 {
			return false
		}
	}
	return true
}

// ExtractTimeStamp finds the first time token anywhere in a line: a range
// like "3:09-5:50" wins over a single time like "3:45" or "00:01:56".
// Returns the empty string when the line has no time token.
func ExtractTimeStamp(line string) string {
	if m := reAnyTimeRange.FindString(line); m != "" {
		return m
	}
	return reAnyTime.FindString(line)
}

func containsBoilerplate(line string) bool {
	for _, marker := range boilerplateMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// newTrack builds an immutable track with decorative glyphs stripped and
// fields trimmed.
func newTrack(title, artist, originalText, timeStamp string) core.MusicTrack {
	return core.MusicTrack{
		Title:        matching.StripHearts(title),
		Artist:       matching.StripHearts(artist),
		OriginalText: originalText,
		TimeStamp:    timeStamp,
	}
}
