package datasources

import (
	"context"
	"net/http"

	spotify "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sejinpark/tracklift/core"
)

const (
	cSpotifyTokenUrl   = "https://accounts.spotify.com/api/token"
	cSpotifySearchCap  = 10
	cSpotifyAddPerCall = 100 // API limit on tracks per add request
)

func NewSpotifyCatalog() core.Catalog {
	return &spotifyCatalogImpl{}
}

type spotifyCatalogImpl struct{}

var _ core.Catalog = (*spotifyCatalogImpl)(nil)

func (s *spotifyCatalogImpl) Search(
	ctx context.Context,
	query string,
) ([]core.CatalogCandidate, error) {
	client, err := s.getSearchClient(ctx)
	if err != nil {
		return nil, core.WrappedError(err, "failed to get spotify client")
	}

	result, err := client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(cSpotifySearchCap))
	if err != nil {
		if spotifyErr, ok := err.(spotify.Error); ok &&
			spotifyErr.Status == http.StatusTooManyRequests {
			core.Printf("Spotify API rate limit hit, with message: %s", spotifyErr.Message)
		}
		return nil, core.WrappedError(err, "spotify search failed for query %q", query)
	}
	if result.Tracks == nil {
		return []core.CatalogCandidate{}, nil
	}

	candidates := []core.CatalogCandidate{}
	for i := range result.Tracks.Tracks {
		candidates = append(candidates, buildCandidateFromSpotifyTrack(&result.Tracks.Tracks[i]))
	}
	return candidates, nil
}

func (s *spotifyCatalogImpl) CreatePlaylist(
	ctx context.Context,
	name string,
	description string,
) (string, error) {
	client, err := s.getWriteClient(ctx)
	if err != nil {
		return "", core.WrappedError(err, "failed to get spotify client")
	}
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return "", core.WrappedError(err, "failed to get current spotify user")
	}
	playlist, err := client.CreatePlaylistForUser(
		ctx,
		user.ID,
		name,
		description,
		false, // public
		false, // collaborative
	)
	if err != nil {
		return "", core.WrappedError(err, "failed to create spotify playlist %q", name)
	}
	return playlist.ID.String(), nil
}

func (s *spotifyCatalogImpl) AddToPlaylist(
	ctx context.Context,
	playlistId string,
	songIds []string, /*const*/
) error {
	if len(playlistId) == 0 {
		return core.NewError("invalid playlist id")
	}
	if len(songIds) == 0 {
		return nil
	}
	client, err := s.getWriteClient(ctx)
	if err != nil {
		return core.WrappedError(err, "failed to get spotify client")
	}

	trackIds := []spotify.ID{}
	for _, id := range songIds {
		trackIds = append(trackIds, spotify.ID(id))
	}
	for start := 0; start < len(trackIds); start += cSpotifyAddPerCall {
		end := start + cSpotifyAddPerCall
		if end > len(trackIds) {
			end = len(trackIds)
		}
		if _, err := client.AddTracksToPlaylist(
			ctx,
			spotify.ID(playlistId),
			trackIds[start:end]...,
		); err != nil {
			return core.WrappedError(err, "failed to add tracks to playlist %s", playlistId)
		}
	}
	return nil
}

// getSearchClient authenticates with the client credentials flow. Catalog
// search needs no user scope.
func (s *spotifyCatalogImpl) getSearchClient(ctx context.Context) (*spotify.Client, error) {
	spotifyConfig := core.ToAppCtx(ctx).Config.SpotifyConfig
	if spotifyConfig.ClientId == "" || spotifyConfig.ClientSecret == "" {
		return nil, core.NewError("spotify client credentials are not configured")
	}
	config := &clientcredentials.Config{
		ClientID:     spotifyConfig.ClientId,
		ClientSecret: spotifyConfig.ClientSecret,
		TokenURL:     cSpotifyTokenUrl,
	}
	return spotify.New(config.Client(ctx)), nil
}

// getWriteClient authenticates with the pre-provisioned refresh token, needed
// for playlist creation and modification.
func (s *spotifyCatalogImpl) getWriteClient(ctx context.Context) (*spotify.Client, error) {
	spotifyConfig := core.ToAppCtx(ctx).Config.SpotifyConfig
	if spotifyConfig.RefreshToken == "" {
		return nil, core.NewError("spotify refresh token is not configured, playlist writes are unavailable")
	}
	conf := &oauth2.Config{
		ClientID:     spotifyConfig.ClientId,
		ClientSecret: spotifyConfig.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: cSpotifyTokenUrl},
	}
	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: spotifyConfig.RefreshToken})
	return spotify.New(oauth2.NewClient(ctx, tokenSource)), nil
}

// buildCandidateFromSpotifyTrack maps a raw track to a candidate. Missing
// metadata degrades to "Unknown" rather than dropping the entry: the scorer
// decides what a partial record is worth.
func buildCandidateFromSpotifyTrack(track *spotify.FullTrack /*const*/) core.CatalogCandidate {
	artist := "Unknown"
	if len(track.Artists) > 0 && track.Artists[0].Name != "" {
		artist = track.Artists[0].Name
	}
	album := "Unknown"
	if track.Album.Name != "" {
		album = track.Album.Name
	}
	artwork := ""
	if len(track.Album.Images) > 0 {
		artwork = track.Album.Images[0].URL
	}
	title := track.Name
	if title == "" {
		title = "Unknown"
	}
	return core.CatalogCandidate{
		Id:      track.ID.String(),
		Title:   title,
		Artist:  artist,
		Album:   album,
		Artwork: artwork,
	}
}
