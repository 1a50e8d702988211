package core

// UnknownArtist is the sentinel artist used when a parsed line carries no
// artist information. Matching treats queries with this artist as title-only.
const UnknownArtist = "Unknown Artist"

// MusicTrack is one parsed song reference recovered from a line of text.
// Instances are immutable once created by the parser.
type MusicTrack struct {
	Title        string
	Artist       string
	OriginalText string // verbatim source line, kept for diagnostics
	TimeStamp    string // e.g. "3:45", "00:01:56" or a range "3:09-5:50"; empty when absent
}

// HasKnownArtist reports whether the track carries real artist information.
func (t MusicTrack) HasKnownArtist() bool {
	return t.Artist != UnknownArtist
}

// CatalogCandidate is a single search result from an external music catalog.
// IsExact and Confidence are computed by the match scorer, never supplied by
// the catalog itself.
type CatalogCandidate struct {
	Id         string
	Title      string
	Artist     string
	Album      string
	Artwork    string
	IsExact    bool
	Confidence float64
}

// ListSource identifies where a tracklist (or a candidate text block) came from.
type ListSource string

const (
	ListSourcePinnedComment   ListSource = "pinnedComment"
	ListSourceDescription     ListSource = "videoDescription"
	ListSourceRegularComments ListSource = "regularComments"
	ListSourceNotFound        ListSource = "notFound"
)

// TextBlock is one raw text block fetched from the video, tagged with the
// source it was read from. Content is plain text, HTML already stripped.
type TextBlock struct {
	Source  ListSource
	Content string
}

// LocatedTracklist is the locator outcome: the parsed tracks plus the source
// they were read from. Source is ListSourceNotFound when no block yielded a
// usable tracklist.
type LocatedTracklist struct {
	Source ListSource
	Tracks []MusicTrack
}

// BuildPlaylistRequest describes one playlist build run. RunId may be left
// empty, in which case the engine assigns one.
type BuildPlaylistRequest struct {
	RunId        string
	VideoId      string
	Catalog      CatalogName
	PlaylistName string
	Description  string
}

// BuildPlaylistResult summarizes a finished build run.
type BuildPlaylistResult struct {
	RunId        string
	PlaylistId   string
	Source       ListSource
	TotalTracks  int
	Matched      int
	FailedTracks []string
}

// BuildStatus tracks the lifecycle of a playlist build run.
type BuildStatus string

const (
	BuildStatusRunning   BuildStatus = "RUNNING"
	BuildStatusCompleted BuildStatus = "COMPLETED"
	BuildStatusFailed    BuildStatus = "FAILED"
)

// BuildProgress is one progress event emitted while a playlist build run works
// through its tracks.
type BuildProgress struct {
	RunId        string
	Status       BuildStatus
	Current      int
	Total        int
	CurrentTrack string
	Matched      int
	FailedTracks []string
	PlaylistId   string
}
