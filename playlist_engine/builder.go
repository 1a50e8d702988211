package playlist_engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sejinpark/tracklift/core"
	"github.com/sejinpark/tracklift/matching"
)

// Delay between consecutive catalog searches. Catalog APIs rate-limit
// aggressively and a build run issues one search per track.
const cSearchDelay = 200 * time.Millisecond

func NewPlaylistEngine(
	locator core.TracklistLocator,
	aliases *matching.AliasTable, /*const*/
) core.PlaylistEngine {
	return &playlistEngineImpl{
		locator:     locator,
		scorer:      matching.NewMatchScorer(),
		selector:    matching.NewCandidateSelector(),
		aliases:     aliases,
		searchDelay: cSearchDelay,
	}
}

type playlistEngineImpl struct {
	locator     core.TracklistLocator
	scorer      *matching.MatchScorer
	selector    *matching.CandidateSelector
	aliases     *matching.AliasTable
	searchDelay time.Duration
}

var _ core.PlaylistEngine = (*playlistEngineImpl)(nil)

func (e *playlistEngineImpl) BuildPlaylist(
	ctx context.Context,
	req *core.BuildPlaylistRequest, /*const*/
) (*core.BuildPlaylistResult, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, core.WrappedError(err, "failed to validate build request")
	}
	appCtx := core.ToAppCtx(ctx)
	catalog, err := appCtx.Catalogs.Get(req.Catalog)
	if err != nil {
		return nil, core.WrappedError(err, "failed to resolve catalog")
	}

	runId := req.RunId
	if runId == "" {
		runId = uuid.NewString()
	}
	progress := &core.BuildProgress{
		RunId:        runId,
		Status:       core.BuildStatusRunning,
		FailedTracks: []string{},
	}
	e.emit(ctx, progress)

	located, err := e.locator.Locate(ctx, req.VideoId)
	if err != nil {
		e.fail(ctx, progress)
		return nil, core.WrappedError(err, "failed to locate tracklist")
	}
	if located.Source == core.ListSourceNotFound {
		e.fail(ctx, progress)
		return nil, core.NewError("no tracklist found for video %s", req.VideoId)
	}

	tracks := located.Tracks
	if e.shouldNormalize(ctx) {
		// Normalization is best-effort: a flaky LLM response must not sink
		// the whole build run.
		normalized, err := NewLlmTracksNormalizer().NormalizeTracks(ctx, tracks)
		if err != nil {
			core.Warningf("Track normalization failed, continuing with parsed tracks: %v", err)
		} else {
			tracks = normalized
		}
	}

	playlistName := req.PlaylistName
	if playlistName == "" {
		playlistName = fmt.Sprintf("Tracklift %s", req.VideoId)
	}
	playlistId, err := catalog.CreatePlaylist(ctx, playlistName, req.Description)
	if err != nil {
		e.fail(ctx, progress)
		return nil, core.WrappedError(err, "failed to create playlist")
	}
	progress.PlaylistId = playlistId
	progress.Total = len(tracks)

	// Sequential matching loop. Individual track failures are recorded and
	// skipped; the run only fails outright when the playlist itself cannot
	// be created or filled.
	songIds := []string{}
	for i, track := range tracks {
		if i > 0 {
			select {
			case <-ctx.Done():
				e.fail(ctx, progress)
				return nil, core.WrappedError(ctx.Err(), "build run canceled")
			case <-time.After(e.searchDelay):
			}
		}
		progress.Current = i + 1
		progress.CurrentTrack = fmt.Sprintf("%s - %s", track.Title, track.Artist)
		e.emit(ctx, progress)

		candidate, err := e.matchTrack(ctx, catalog, req.Catalog, track)
		if err != nil {
			core.Errorf(core.WrappedError(err, "failed to match track %q", track.Title))
		}
		if candidate == nil {
			progress.FailedTracks = append(progress.FailedTracks, progress.CurrentTrack)
			continue
		}
		songIds = append(songIds, candidate.Id)
		progress.Matched++
	}

	if len(songIds) > 0 {
		if err := catalog.AddToPlaylist(ctx, playlistId, songIds); err != nil {
			e.fail(ctx, progress)
			return nil, core.WrappedError(err, "failed to add songs to playlist")
		}
	}

	progress.Status = core.BuildStatusCompleted
	progress.CurrentTrack = ""
	e.emit(ctx, progress)
	core.Printf(
		"Build run %s completed: %d/%d tracks matched into playlist %s",
		runId, progress.Matched, progress.Total, playlistId,
	)

	return &core.BuildPlaylistResult{
		RunId:        runId,
		PlaylistId:   playlistId,
		Source:       located.Source,
		TotalTracks:  progress.Total,
		Matched:      progress.Matched,
		FailedTracks: progress.FailedTracks,
	}, nil
}

// matchTrack resolves one track to a catalog candidate, consulting the search
// cache when configured. A (nil, nil) return means the catalog had no
// acceptable candidate.
func (e *playlistEngineImpl) matchTrack(
	ctx context.Context,
	catalog core.Catalog,
	catalogName core.CatalogName,
	track core.MusicTrack, /*const*/
) (*core.CatalogCandidate, error) {
	query := e.searchQuery(track)
	appCtx := core.ToAppCtx(ctx)

	if cache := appCtx.SearchCache; cache != nil {
		cached, ok, err := cache.Get(ctx, string(catalogName), query)
		if err != nil {
			core.Warningf("Search cache lookup failed for %q: %v", query, err)
		} else if ok {
			return cached, nil
		}
	}

	candidates, err := catalog.Search(ctx, query)
	if err != nil {
		return nil, core.WrappedError(err, "catalog search failed for %q", query)
	}
	scored := e.scorer.ScoreCandidates(track, candidates)
	result := e.selector.SelectBest(track.Title, track.Artist, scored)
	if !result.Found() {
		return nil, nil
	}

	if cache := appCtx.SearchCache; cache != nil {
		if err := cache.Put(ctx, string(catalogName), query, result.Candidate); err != nil {
			core.Warningf("Search cache store failed for %q: %v", query, err)
		}
	}
	return result.Candidate, nil
}

// searchQuery builds the catalog query text for a track: an alias override
// when one is known, otherwise the cleaned title plus the cleaned artist
// (omitted for unknown artists).
func (e *playlistEngineImpl) searchQuery(track core.MusicTrack /*const*/) string {
	if query, ok := e.aliases.Lookup(track.Title, track.Artist); ok {
		return query
	}
	query := matching.Clean(track.Title)
	if track.HasKnownArtist() {
		query += " " + matching.Clean(track.Artist)
	}
	return query
}

func (e *playlistEngineImpl) validateRequest(req *core.BuildPlaylistRequest /*const*/) error {
	if req == nil {
		return core.NewError("request is required")
	}
	if req.VideoId == "" {
		return core.NewError("video id is required")
	}
	if req.Catalog == "" {
		return core.NewError("catalog is required")
	}
	return nil
}

func (e *playlistEngineImpl) shouldNormalize(ctx context.Context) bool {
	return core.ToAppCtx(ctx).Config.LlmConfig.Enabled
}

// emit broadcasts a snapshot of the progress object so later mutations do not
// race with subscribers reading an earlier event.
func (e *playlistEngineImpl) emit(ctx context.Context, progress *core.BuildProgress /*const*/) {
	snapshot := *progress
	snapshot.FailedTracks = append([]string(nil), progress.FailedTracks...)
	core.ToAppCtx(ctx).ProgressBroadcaster.Broadcast(&snapshot)
}

func (e *playlistEngineImpl) fail(ctx context.Context, progress *core.BuildProgress) {
	progress.Status = core.BuildStatusFailed
	e.emit(ctx, progress)
}
