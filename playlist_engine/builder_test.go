package playlist_engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejinpark/tracklift/core"
	"github.com/sejinpark/tracklift/matching"
	"github.com/sejinpark/tracklift/parsing"
)

type fakeCatalog struct {
	results    map[string][]core.CatalogCandidate
	searchErr  error
	createErr  error
	searches   []string
	createdIds int
	added      map[string][]string
}

var _ core.Catalog = (*fakeCatalog)(nil)

func (f *fakeCatalog) Search(
	ctx context.Context,
	query string,
) ([]core.CatalogCandidate, error) {
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results[query], nil
}

func (f *fakeCatalog) CreatePlaylist(
	ctx context.Context,
	name string,
	description string,
) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createdIds++
	return "pl-1", nil
}

func (f *fakeCatalog) AddToPlaylist(
	ctx context.Context,
	playlistId string,
	songIds []string,
) error {
	if f.added == nil {
		f.added = map[string][]string{}
	}
	f.added[playlistId] = append(f.added[playlistId], songIds...)
	return nil
}

type fakeSearchCache struct {
	entries map[string]*core.CatalogCandidate
	puts    int
}

var _ core.SearchCacheStore = (*fakeSearchCache)(nil)

func (f *fakeSearchCache) Get(
	ctx context.Context,
	catalog string,
	query string,
) (*core.CatalogCandidate, bool, error) {
	candidate, ok := f.entries[catalog+"|"+query]
	return candidate, ok, nil
}

func (f *fakeSearchCache) Put(
	ctx context.Context,
	catalog string,
	query string,
	candidate *core.CatalogCandidate,
) error {
	if f.entries == nil {
		f.entries = map[string]*core.CatalogCandidate{}
	}
	f.entries[catalog+"|"+query] = candidate
	f.puts++
	return nil
}

func newTestEngine() *playlistEngineImpl {
	return &playlistEngineImpl{
		locator:     newTestLocator(),
		scorer:      matching.NewMatchScorer(),
		selector:    matching.NewCandidateSelector(),
		searchDelay: 0,
	}
}

func builderTestCtx(
	source core.TextSource,
	catalog core.Catalog,
	cache core.SearchCacheStore,
) context.Context {
	return core.WithAppCtx(context.Background(), &core.AppCtx{
		Config:              &core.Config{},
		TextSource:          source,
		Catalogs:            &core.CatalogClients{SpotifyClient: catalog},
		SearchCache:         cache,
		ProgressBroadcaster: core.NewProgressBroadcaster(),
	})
}

func TestBuildPlaylist_MatchesAndRecordsFailures(t *testing.T) {
	source := &fakeTextSource{blocks: []core.TextBlock{
		{
			Source:  core.ListSourcePinnedComment,
			Content: "00:00:10 d4vd - Sleep Well\n00:03:45 IU - Blueming",
		},
	}}
	catalog := &fakeCatalog{results: map[string][]core.CatalogCandidate{
		"sleep well d4vd": {{Id: "s1", Title: "Sleep Well", Artist: "d4vd"}},
		// "blueming iu" intentionally unmapped: no candidates, track fails.
	}}
	ctx := builderTestCtx(source, catalog, nil)

	result, err := newTestEngine().BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		VideoId: "video-1",
		Catalog: core.CatalogSpotify,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunId)
	assert.Equal(t, "pl-1", result.PlaylistId)
	assert.Equal(t, core.ListSourcePinnedComment, result.Source)
	assert.Equal(t, 2, result.TotalTracks)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, []string{"Blueming - IU"}, result.FailedTracks)

	assert.Equal(t, []string{"sleep well d4vd", "blueming iu"}, catalog.searches)
	assert.Equal(t, []string{"s1"}, catalog.added["pl-1"])
}

func TestBuildPlaylist_BroadcastsProgress(t *testing.T) {
	source := &fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourceDescription, Content: "00:00:10 d4vd - Sleep Well"},
	}}
	catalog := &fakeCatalog{results: map[string][]core.CatalogCandidate{
		"sleep well d4vd": {{Id: "s1", Title: "Sleep Well", Artist: "d4vd"}},
	}}
	ctx := builderTestCtx(source, catalog, nil)

	broadcaster := core.ToAppCtx(ctx).ProgressBroadcaster
	ch := broadcaster.Subscribe("run-1")
	defer broadcaster.Unsubscribe("run-1", ch)

	_, err := newTestEngine().BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		RunId:   "run-1",
		VideoId: "video-1",
		Catalog: core.CatalogSpotify,
	})
	require.NoError(t, err)

	events := []*core.BuildProgress{}
	for len(ch) > 0 {
		events = append(events, <-ch)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, core.BuildStatusRunning, events[0].Status)
	final := events[len(events)-1]
	assert.Equal(t, core.BuildStatusCompleted, final.Status)
	assert.Equal(t, 1, final.Matched)
	assert.Equal(t, "pl-1", final.PlaylistId)
}

func TestBuildPlaylist_NoTracklistFails(t *testing.T) {
	source := &fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourcePinnedComment, Content: "love this mix"},
	}}
	ctx := builderTestCtx(source, &fakeCatalog{}, nil)

	_, err := newTestEngine().BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		VideoId: "video-1",
		Catalog: core.CatalogSpotify,
	})
	assert.Error(t, err)
}

func TestBuildPlaylist_SearchErrorRecordsFailure(t *testing.T) {
	source := &fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourceDescription, Content: "00:00:10 d4vd - Sleep Well"},
	}}
	catalog := &fakeCatalog{searchErr: core.NewError("rate limited")}
	ctx := builderTestCtx(source, catalog, nil)

	result, err := newTestEngine().BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		VideoId: "video-1",
		Catalog: core.CatalogSpotify,
	})
	require.NoError(t, err)

	assert.Zero(t, result.Matched)
	assert.Equal(t, []string{"Sleep Well - d4vd"}, result.FailedTracks)
	assert.Empty(t, catalog.added)
}

func TestBuildPlaylist_SearchCacheShortCircuitsCatalog(t *testing.T) {
	source := &fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourceDescription, Content: "00:00:10 d4vd - Sleep Well"},
	}}
	catalog := &fakeCatalog{}
	cache := &fakeSearchCache{entries: map[string]*core.CatalogCandidate{
		"spotify|sleep well d4vd": {Id: "cached-1", Title: "Sleep Well", Artist: "d4vd"},
	}}
	ctx := builderTestCtx(source, catalog, cache)

	result, err := newTestEngine().BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		VideoId: "video-1",
		Catalog: core.CatalogSpotify,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Matched)
	assert.Empty(t, catalog.searches)
	assert.Equal(t, []string{"cached-1"}, catalog.added["pl-1"])
}

func TestBuildPlaylist_StoresSelectionInCache(t *testing.T) {
	source := &fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourceDescription, Content: "00:00:10 d4vd - Sleep Well"},
	}}
	catalog := &fakeCatalog{results: map[string][]core.CatalogCandidate{
		"sleep well d4vd": {{Id: "s1", Title: "Sleep Well", Artist: "d4vd"}},
	}}
	cache := &fakeSearchCache{}
	ctx := builderTestCtx(source, catalog, cache)

	_, err := newTestEngine().BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		VideoId: "video-1",
		Catalog: core.CatalogSpotify,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.puts)
	cached, ok, err := cache.Get(context.Background(), "spotify", "sleep well d4vd")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s1", cached.Id)
}

func TestBuildPlaylist_AliasOverridesSearchQuery(t *testing.T) {
	source := &fakeTextSource{blocks: []core.TextBlock{
		{Source: core.ListSourceDescription, Content: "00:00:10 아이유 - 밤편지"},
	}}
	catalog := &fakeCatalog{results: map[string][]core.CatalogCandidate{
		"밤편지 아이유": {{Id: "k1", Title: "밤편지", Artist: "아이유"}},
	}}
	ctx := builderTestCtx(source, catalog, nil)

	engine := newTestEngine()
	engine.aliases = matching.NewAliasTable(map[[2]string]string{
		{"밤편지", "아이유"}: "밤편지 아이유",
	})

	result, err := engine.BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		VideoId: "video-1",
		Catalog: core.CatalogSpotify,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, []string{"밤편지 아이유"}, catalog.searches)
}

func TestBuildPlaylist_ValidatesRequest(t *testing.T) {
	ctx := builderTestCtx(&fakeTextSource{}, &fakeCatalog{}, nil)
	engine := newTestEngine()

	_, err := engine.BuildPlaylist(ctx, nil)
	assert.Error(t, err)

	_, err = engine.BuildPlaylist(ctx, &core.BuildPlaylistRequest{Catalog: core.CatalogSpotify})
	assert.Error(t, err)

	_, err = engine.BuildPlaylist(ctx, &core.BuildPlaylistRequest{VideoId: "video-1"})
	assert.Error(t, err)
}

func TestBuildPlaylist_UnknownCatalog(t *testing.T) {
	ctx := builderTestCtx(&fakeTextSource{}, &fakeCatalog{}, nil)

	_, err := newTestEngine().BuildPlaylist(ctx, &core.BuildPlaylistRequest{
		VideoId: "video-1",
		Catalog: core.CatalogName("tape-deck"),
	})
	assert.Error(t, err)
}

func TestMusicExtractorRoundTripThroughEngineQuery(t *testing.T) {
	// The alias-free query path lowercases and strips featuring credits, so
	// catalogs get a clean free-text query.
	engine := newTestEngine()
	extractor := parsing.NewCommentMusicExtractor(parsing.NewLineParser())
	tracks := extractor.Extract("0:00 wRoNg (feat. kehlani) -ZAYN")
	require.Len(t, tracks, 1)

	assert.Equal(t, "wrong zayn", engine.searchQuery(tracks[0]))
}
