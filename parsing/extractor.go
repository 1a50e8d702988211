package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sejinpark/tracklift/core"
)

// Tracklist shape probes for ContainsMusicList. A text qualifies when any
// single line matches one of these.
var (
	reListNumberedDash = regexp.MustCompile(`\d+\.\s*.+\s*-\s*.+`)
	reListTimeRange    = regexp.MustCompile(`\d{1,2}:\d{2}[-–]\d{1,2}:\d{2}`)
	reListTimePrefix   = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?\s+\S`)
	reListDashPair     = regexp.MustCompile(`.+\s+-\s+.+`)
	reListUnderscore   = regexp.MustCompile(`.+\s+_\s+.+`)
)

// Boilerplate fragments that disqualify a parsed track. Creator sign-offs
// and engagement pleas routinely land on lines that also pattern-match as
// track entries.
var trackDenylist = []*regexp.Regexp{
	regexp.MustCompile(`감사합니다`),
	regexp.MustCompile(`좋아요`),
	regexp.MustCompile(`구독`),
	regexp.MustCompile(`알림`),
	regexp.MustCompile(`간주\s*점프`),
	regexp.MustCompile(`제작에\s*큰\s*힘`),
}

// NewCommentMusicExtractor builds an extractor around the given line parser.
func NewCommentMusicExtractor(lineParser *LineParser) *CommentMusicExtractor {
	return &CommentMusicExtractor{
		lineParser: lineParser,
	}
}

// CommentMusicExtractor turns a free-form comment or description into an
// ordered, deduplicated tracklist.
type CommentMusicExtractor struct {
	lineParser *LineParser
}

// Extract parses every line of the text, drops invalid or boilerplate
// entries and removes duplicates while preserving first-seen order.
func (e *CommentMusicExtractor) Extract(text string) []core.MusicTrack {
	tracks := []core.MusicTrack{}
	for _, line := range strings.Split(text, "\n") {
		track, ok := e.lineParser.ParseLine(line)
		if !ok {
			continue
		}
		if !IsValidMusicTrack(track) {
			continue
		}
		tracks = append(tracks, track)
	}
	return RemoveDuplicateTracks(tracks)
}

// RemoveDuplicateTracks keeps the first occurrence of each track, keyed by
// the lowercased title and artist.
func RemoveDuplicateTracks(tracks []core.MusicTrack) []core.MusicTrack {
	seen := core.NewSet[string]()
	unique := []core.MusicTrack{}
	for _, track := range tracks {
		key := strings.ToLower(track.Title) + "-" + strings.ToLower(track.Artist)
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		unique = append(unique, track)
	}
	return unique
}

// IsValidMusicTrack rejects tracks whose fields are too short to be real
// metadata or that carry known boilerplate fragments.
func IsValidMusicTrack(track core.MusicTrack) bool {
	title := strings.TrimSpace(track.Title)
	artist := strings.TrimSpace(track.Artist)
	if len([]rune(title)) < 2 || len([]rune(artist)) < 2 {
		return false
	}
	combined := title + " " + artist
	for _, denied := range trackDenylist {
		if denied.MatchString(combined) {
			return false
		}
	}
	return true
}

// reDecorativeGlyphs matches hearts, stars and music notes that commenters
// decorate track lines with.
var reDecorativeGlyphs = regexp.MustCompile(`[♥♡❤★☆✨♪♫🎵🎶]`)

// FormatMusicTracks renders a tracklist for display, one "artist - title"
// string per valid track. A track with the unknown-artist sentinel renders
// its title alone.
func FormatMusicTracks(tracks []core.MusicTrack) []string {
	lines := make([]string, 0, len(tracks))
	for _, track := range tracks {
		if !IsValidMusicTrack(track) {
			continue
		}
		title := stripDecorativeGlyphs(track.Title)
		if !track.HasKnownArtist() {
			lines = append(lines, title)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s - %s", stripDecorativeGlyphs(track.Artist), title))
	}
	return lines
}

func stripDecorativeGlyphs(s string) string {
	return strings.TrimSpace(reDecorativeGlyphs.ReplaceAllString(s, ""))
}

// ContainsMusicList is a cheap pre-filter that reports whether a text looks
// like it carries a tracklist at all, so callers can skip full parsing of
// ordinary comments.
func ContainsMusicList(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if reListNumberedDash.MatchString(line) ||
			reListTimeRange.MatchString(line) ||
			reListTimePrefix.MatchString(line) ||
			reListDashPair.MatchString(line) ||
			reListUnderscore.MatchString(line) {
			return true
		}
	}
	return false
}
