package playlist_engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejinpark/tracklift/core"
	"github.com/sejinpark/tracklift/parsing"
)

type fakeTextSource struct {
	blocks []core.TextBlock
	err    error
}

var _ core.TextSource = (*fakeTextSource)(nil)

func (f *fakeTextSource) FetchCandidateTexts(
	ctx context.Context,
	videoId string,
) ([]core.TextBlock, error) {
	return f.blocks, f.err
}

func locatorTestCtx(source core.TextSource) context.Context {
	return core.WithAppCtx(context.Background(), &core.AppCtx{
		Config:              &core.Config{},
		TextSource:          source,
		Catalogs:            &core.CatalogClients{},
		ProgressBroadcaster: core.NewProgressBroadcaster(),
	})
}

func newTestLocator() core.TracklistLocator {
	return NewTracklistLocator(parsing.NewCommentMusicExtractor(parsing.NewLineParser()))
}

func TestLocate_PinnedCommentBeatsDescription(t *testing.T) {
	ctx := locatorTestCtx(&fakeTextSource{blocks: []core.TextBlock{
		{
			Source:  core.ListSourceDescription,
			Content: "00:00:10 IU - Blueming",
		},
		{
			Source:  core.ListSourcePinnedComment,
			Content: "00:00:10 d4vd - Sleep Well\n00:03:45 d4vd - Here With Me",
		},
	}})

	located, err := newTestLocator().Locate(ctx, "video-1")
	require.NoError(t, err)

	assert.Equal(t, core.ListSourcePinnedComment, located.Source)
	require.Len(t, located.Tracks, 2)
	assert.Equal(t, "Sleep Well", located.Tracks[0].Title)
}

func TestLocate_FallsBackToDescription(t *testing.T) {
	ctx := locatorTestCtx(&fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourcePinnedComment, Content: "first comment, no tracklist here"},
		{Source: core.ListSourceDescription, Content: "00:00:10 IU - Blueming"},
	}})

	located, err := newTestLocator().Locate(ctx, "video-1")
	require.NoError(t, err)

	assert.Equal(t, core.ListSourceDescription, located.Source)
	require.Len(t, located.Tracks, 1)
	assert.Equal(t, "Blueming", located.Tracks[0].Title)
}

func TestLocate_RegularCommentsNeedMoreThanThreeTracks(t *testing.T) {
	shortList := "00:00 가나다라 - 가수이름\n03:45 마바사 - 다른가수"
	longList := "00:00 A Song - Artist One\n" +
		"03:45 B Song - Artist Two\n" +
		"07:20 C Song - Artist Three\n" +
		"11:05 D Song - Artist Four"

	locator := newTestLocator()

	ctx := locatorTestCtx(&fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourceRegularComments, Content: shortList},
	}})
	located, err := locator.Locate(ctx, "video-1")
	require.NoError(t, err)
	assert.Equal(t, core.ListSourceNotFound, located.Source)
	assert.Empty(t, located.Tracks)

	ctx = locatorTestCtx(&fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourceRegularComments, Content: longList},
	}})
	located, err = locator.Locate(ctx, "video-1")
	require.NoError(t, err)
	assert.Equal(t, core.ListSourceRegularComments, located.Source)
	assert.Len(t, located.Tracks, 4)
}

func TestLocate_NoTracklistAnywhere(t *testing.T) {
	ctx := locatorTestCtx(&fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourcePinnedComment, Content: "what a great mix"},
		{Source: core.ListSourceRegularComments, Content: "second this!"},
	}})

	located, err := newTestLocator().Locate(ctx, "video-1")
	require.NoError(t, err)

	assert.Equal(t, core.ListSourceNotFound, located.Source)
	assert.Empty(t, located.Tracks)
}

func TestLocate_FetchError(t *testing.T) {
	ctx := locatorTestCtx(&fakeTextSource{err: core.NewError("quota exceeded")})

	_, err := newTestLocator().Locate(ctx, "video-1")
	assert.Error(t, err)
}

func TestLocate_EmptyVideoId(t *testing.T) {
	ctx := locatorTestCtx(&fakeTextSource{})

	_, err := newTestLocator().Locate(ctx, "")
	assert.Error(t, err)
}
