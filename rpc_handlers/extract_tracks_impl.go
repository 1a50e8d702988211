package rpc_handlers

import (
	"context"

	"github.com/sejinpark/tracklift/core"
	"github.com/sejinpark/tracklift/parsing"
)

// ExtractTracksRequest carries raw comment or description text to parse.
type ExtractTracksRequest struct {
	Text string `json:"text"`
}

// TrackJson is the wire form of one parsed track.
type TrackJson struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	TimeStamp    string `json:"timeStamp,omitempty"`
	OriginalText string `json:"originalText,omitempty"`
}

type ExtractTracksResponse struct {
	Tracks    []TrackJson `json:"tracks"`
	Formatted []string    `json:"formatted"`
}

func NewExtractTracksHandler(
	extractor *parsing.CommentMusicExtractor,
) core.Handler[*ExtractTracksRequest, *ExtractTracksResponse] {
	return &extractTracksImpl{extractor: extractor}
}

type extractTracksImpl struct {
	extractor *parsing.CommentMusicExtractor
}

var _ core.Handler[*ExtractTracksRequest, *ExtractTracksResponse] = (*extractTracksImpl)(nil)

func (e *extractTracksImpl) CheckPerms(
	ctx context.Context,
	reqBody *ExtractTracksRequest, /*const*/
) error {
	if len(reqBody.Text) == 0 {
		return core.NewError("text is required")
	}
	return nil
}

func (e *extractTracksImpl) ProcessRequest(
	ctx context.Context,
	reqBody *ExtractTracksRequest, /*const*/
) *core.HandlerResponse[*ExtractTracksResponse] {
	tracks := e.extractor.Extract(reqBody.Text)
	return core.NewHandlerResponse_OK(
		&ExtractTracksResponse{
			Tracks:    toTrackJsons(tracks),
			Formatted: parsing.FormatMusicTracks(tracks),
		},
	)
}

func toTrackJsons(tracks []core.MusicTrack /*const*/) []TrackJson {
	r := make([]TrackJson, 0, len(tracks))
	for _, track := range tracks {
		r = append(r, TrackJson{
			Title:        track.Title,
			Artist:       track.Artist,
			TimeStamp:    track.TimeStamp,
			OriginalText: track.OriginalText,
		})
	}
	return r
}
