package datasources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sejinpark/tracklift/auth"
	"github.com/sejinpark/tracklift/core"
)

const (
	cAppleMusicAPIBaseURL  = "https://api.music.apple.com/v1"
	cAppleMusicSearchCap   = 10
	cAppleMusicHTTPTimeout = 15 * time.Second
	cAppleMusicArtworkSize = 300
)

// AppleMusicSong represents one song resource in a catalog response.
type AppleMusicSong struct {
	Id         string                   `json:"id"`
	Attributes AppleMusicSongAttributes `json:"attributes"`
}

// AppleMusicSongAttributes holds song metadata.
type AppleMusicSongAttributes struct {
	Name       string            `json:"name"`
	ArtistName string            `json:"artistName"`
	AlbumName  string            `json:"albumName"`
	Artwork    AppleMusicArtwork `json:"artwork"`
}

// AppleMusicArtwork is a templated artwork URL; Url carries literal "{w}" and
// "{h}" placeholders that must be substituted before use.
type AppleMusicArtwork struct {
	Url    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// AppleMusicSearchResponse represents the search endpoint response.
type AppleMusicSearchResponse struct {
	Results struct {
		Songs struct {
			Data []AppleMusicSong `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

// AppleMusicPlaylistResponse represents a library playlist create response.
type AppleMusicPlaylistResponse struct {
	Data []struct {
		Id string `json:"id"`
	} `json:"data"`
}

func NewAppleMusicCatalog(tokenMinter *auth.DeveloperTokenMinter) core.Catalog {
	return &appleMusicCatalogImpl{
		tokenMinter: tokenMinter,
		httpClient:  &http.Client{Timeout: cAppleMusicHTTPTimeout},
		baseUrl:     cAppleMusicAPIBaseURL,
	}
}

type appleMusicCatalogImpl struct {
	tokenMinter *auth.DeveloperTokenMinter
	httpClient  *http.Client
	baseUrl     string
}

var _ core.Catalog = (*appleMusicCatalogImpl)(nil)

func (a *appleMusicCatalogImpl) Search(
	ctx context.Context,
	query string,
) ([]core.CatalogCandidate, error) {
	storefront := a.storefront(ctx)
	searchUrl := fmt.Sprintf(
		"%s/catalog/%s/search?types=songs&limit=%d&term=%s",
		a.baseUrl,
		storefront,
		cAppleMusicSearchCap,
		url.QueryEscape(query),
	)

	var searchResp AppleMusicSearchResponse
	if err := a.doRequest(ctx, http.MethodGet, searchUrl, nil, false, &searchResp); err != nil {
		return nil, core.WrappedError(err, "apple music search failed for query %q", query)
	}

	candidates := []core.CatalogCandidate{}
	for _, song := range searchResp.Results.Songs.Data {
		candidates = append(candidates, buildCandidateFromAppleMusicSong(song))
	}
	return candidates, nil
}

func (a *appleMusicCatalogImpl) CreatePlaylist(
	ctx context.Context,
	name string,
	description string,
) (string, error) {
	body := map[string]any{
		"attributes": map[string]string{
			"name":        name,
			"description": description,
		},
	}
	var playlistResp AppleMusicPlaylistResponse
	createUrl := a.baseUrl + "/me/library/playlists"
	if err := a.doRequest(ctx, http.MethodPost, createUrl, body, true, &playlistResp); err != nil {
		return "", core.WrappedError(err, "failed to create apple music playlist %q", name)
	}
	if len(playlistResp.Data) == 0 || playlistResp.Data[0].Id == "" {
		return "", core.NewError("apple music playlist create response carries no id")
	}
	return playlistResp.Data[0].Id, nil
}

func (a *appleMusicCatalogImpl) AddToPlaylist(
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

	data := []map[string]string{}
	for _, id := range songIds {
		data = append(data, map[string]string{"id": id, "type": "songs"})
	}
	addUrl := fmt.Sprintf("%s/me/library/playlists/%s/tracks", a.baseUrl, playlistId)
	if err := a.doRequest(ctx, http.MethodPost, addUrl, map[string]any{"data": data}, true, nil); err != nil {
		return core.WrappedError(err, "failed to add tracks to apple music playlist %s", playlistId)
	}
	return nil
}

// doRequest issues one authenticated API call. Catalog reads carry only the
// developer token; library writes additionally need the Music-User-Token.
func (a *appleMusicCatalogImpl) doRequest(
	ctx context.Context,
	method string,
	requestUrl string,
	body any,
	userScoped bool,
	out any,
) error {
	developerToken, err := a.tokenMinter.Token()
	if err != nil {
		return core.WrappedError(err, "failed to get apple music developer token")
	}

	var bodyReader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return core.WrappedError(err, "failed to encode apple music request body")
		}
		bodyReader = bytes.NewReader(encoded)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, bodyReader)
	if err != nil {
		return core.WrappedError(err, "failed to build apple music request")
	}
	req.Header.Set("Authorization", "Bearer "+developerToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userScoped {
		userToken := core.ToAppCtx(ctx).Config.AppleMusicConfig.MusicUserToken
		if userToken == "" {
			return core.NewError("apple music user token is not configured, library writes are unavailable")
		}
		req.Header.Set("Music-User-Token", userToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return core.WrappedError(err, "apple music request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return core.NewError("apple music API returned status %d for %s", resp.StatusCode, requestUrl)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.WrappedError(err, "failed to decode apple music response")
	}
	return nil
}

func (a *appleMusicCatalogImpl) storefront(ctx context.Context) string {
	storefront := core.ToAppCtx(ctx).Config.AppleMusicConfig.Storefront
	if storefront == "" {
		storefront = "us"
	}
	return storefront
}

// buildCandidateFromAppleMusicSong maps a raw song to a candidate. Missing
// metadata degrades to "Unknown"; the artwork URL template is resolved to a
// fixed size.
func buildCandidateFromAppleMusicSong(song AppleMusicSong /*const*/) core.CatalogCandidate {
	title := song.Attributes.Name
	if title == "" {
		title = "Unknown"
	}
	artist := song.Attributes.ArtistName
	if artist == "" {
		artist = "Unknown"
	}
	album := song.Attributes.AlbumName
	if album == "" {
		album = "Unknown"
	}
	return core.CatalogCandidate{
		Id:      song.Id,
		Title:   title,
		Artist:  artist,
		Album:   album,
		Artwork: resolveArtworkUrl(song.Attributes.Artwork.Url),
	}
}

func resolveArtworkUrl(templated string) string {
	if templated == "" {
		return ""
	}
	size := strconv.Itoa(cAppleMusicArtworkSize)
	resolved := strings.ReplaceAll(templated, "{w}", size)
	return strings.ReplaceAll(resolved, "{h}", size)
}
