package playlist_engine

import (
	"context"

	"github.com/sejinpark/tracklift/core"
	"github.com/sejinpark/tracklift/parsing"
)

// Regular comments are noisier than pinned comments or the description, so a
// tracklist found there must clear a minimum size before it is trusted.
const cMinRegularCommentTracks = 3

func NewTracklistLocator(extractor *parsing.CommentMusicExtractor) core.TracklistLocator {
	return &tracklistLocatorImpl{extractor: extractor}
}

type tracklistLocatorImpl struct {
	extractor *parsing.CommentMusicExtractor
}

var _ core.TracklistLocator = (*tracklistLocatorImpl)(nil)

func (l *tracklistLocatorImpl) Locate(
	ctx context.Context,
	videoId string,
) (*core.LocatedTracklist, error) {
	if videoId == "" {
		return nil, core.NewError("video id is required")
	}

	blocks, err := core.ToAppCtx(ctx).TextSource.FetchCandidateTexts(ctx, videoId)
	if err != nil {
		return nil, core.WrappedError(err, "failed to fetch candidate texts for video %s", videoId)
	}

	// Sources are searched in trust order. The first source that yields a
	// qualifying tracklist wins; later sources are not consulted.
	searchOrder := []struct {
		source    core.ListSource
		minTracks int
	}{
		{core.ListSourcePinnedComment, 0},
		{core.ListSourceDescription, 0},
		{core.ListSourceRegularComments, cMinRegularCommentTracks},
	}
	for _, s := range searchOrder {
		if tracks := l.extractFromSource(blocks, s.source, s.minTracks); len(tracks) > 0 {
			core.Printf("Located %d tracks for video %s in %s", len(tracks), videoId, s.source)
			return &core.LocatedTracklist{Source: s.source, Tracks: tracks}, nil
		}
	}

	core.Printf("No tracklist found for video %s in %d candidate blocks", videoId, len(blocks))
	return &core.LocatedTracklist{Source: core.ListSourceNotFound, Tracks: []core.MusicTrack{}}, nil
}

// extractFromSource returns the first tracklist larger than minTracks among
// the blocks of one source. Blocks that do not even look like tracklists are
// skipped without full parsing.
func (l *tracklistLocatorImpl) extractFromSource(
	blocks []core.TextBlock, /*const*/
	source core.ListSource,
	minTracks int,
) []core.MusicTrack {
	for _, block := range blocks {
		if block.Source != source {
			continue
		}
		if !parsing.ContainsMusicList(block.Content) {
			continue
		}
		if tracks := l.extractor.Extract(block.Content); len(tracks) > minTracks {
			return tracks
		}
	}
	return nil
}
