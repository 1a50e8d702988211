package core

import (
	"context"
	"net/http"
)

// TextSource yields the candidate text blocks for a video, ordered by the
// priority the locator searches them in: pinned/top comments first, then the
// video description, then ranked regular comments.
type TextSource interface {
	FetchCandidateTexts(ctx context.Context, videoId string) ([]TextBlock, error)
}

// Catalog is a music catalog that can be searched with a free-text query.
// Implementations must tolerate partial results: a missing title, artist or
// album on a raw response entry becomes "Unknown" rather than an error.
type Catalog interface {
	// Search returns zero or more candidates for the query. Absence of
	// results is not an error.
	Search(ctx context.Context, query string) ([]CatalogCandidate, error)
	// CreatePlaylist creates an empty playlist and returns its id.
	CreatePlaylist(ctx context.Context, name, description string) (string, error)
	// AddToPlaylist appends the given catalog song ids to a playlist.
	AddToPlaylist(ctx context.Context, playlistId string, songIds []string) error
}

// SearchCacheStore caches the chosen candidate for a catalog search query.
// A nil store disables caching; errors are advisory and never fail a build.
type SearchCacheStore interface {
	Get(ctx context.Context, catalog, query string) (*CatalogCandidate, bool, error)
	Put(ctx context.Context, catalog, query string, candidate *CatalogCandidate) error
}

// TracklistLocator finds the best tracklist for a video among its candidate
// text blocks.
type TracklistLocator interface {
	// Locate never fails just because no tracklist exists; that outcome is
	// reported with ListSourceNotFound and an empty track slice.
	Locate(ctx context.Context, videoId string) (*LocatedTracklist, error)
}

// PlaylistEngine runs complete playlist build runs: locate the tracklist,
// match every track against a catalog and assemble the playlist.
type PlaylistEngine interface {
	BuildPlaylist(ctx context.Context, req *BuildPlaylistRequest) (*BuildPlaylistResult, error)
}

// Handler is the shape every request handler implements. CheckPerms runs
// before ProcessRequest and rejects requests the caller may not make.
type Handler[RequestT any, ResponseT any] interface {
	CheckPerms(ctx context.Context, reqBody RequestT) error
	ProcessRequest(ctx context.Context, reqBody RequestT) *HandlerResponse[ResponseT]
}

// HandlerResponse carries a handler outcome plus the HTTP status to serve it
// with. Err takes precedence over Response when set.
type HandlerResponse[T any] struct {
	StatusCode int
	Response   T
	Err        error
}

func NewHandlerResponse_OK[T any](resp T) *HandlerResponse[T] {
	return &HandlerResponse[T]{StatusCode: http.StatusOK, Response: resp}
}

func NewHandlerResponse_BadRequest[T any](err error) *HandlerResponse[T] {
	return &HandlerResponse[T]{StatusCode: http.StatusBadRequest, Err: err}
}

func NewHandlerResponse_NotFound[T any](err error) *HandlerResponse[T] {
	return &HandlerResponse[T]{StatusCode: http.StatusNotFound, Err: err}
}

func NewHandlerResponse_InternalServerError[T any](err error) *HandlerResponse[T] {
	return &HandlerResponse[T]{StatusCode: http.StatusInternalServerError, Err: err}
}
