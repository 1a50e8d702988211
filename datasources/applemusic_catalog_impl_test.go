package datasources

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejinpark/tracklift/auth"
	"github.com/sejinpark/tracklift/core"
)

func newTestMinter(t *testing.T) *auth.DeveloperTokenMinter {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	keyPem := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})

	minter, err := auth.NewDeveloperTokenMinter("TEAM123456", "KEY1234567", string(keyPem))
	require.NoError(t, err)
	return minter
}

func appleTestCtx(userToken string) context.Context {
	return core.WithAppCtx(context.Background(), &core.AppCtx{
		Config: &core.Config{
			AppleMusicConfig: core.AppleMusicConfig{
				Storefront:     "kr",
				MusicUserToken: userToken,
			},
		},
		Catalogs:            &core.CatalogClients{},
		ProgressBroadcaster: core.NewProgressBroadcaster(),
	})
}

func TestAppleMusicSearch_MapsSongsToCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog/kr/search", r.URL.Path)
		assert.Equal(t, "songs", r.URL.Query().Get("types"))
		assert.Equal(t, "밤편지 아이유", r.URL.Query().Get("term"))
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		assert.Empty(t, r.Header.Get("Music-User-Token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": {"songs": {"data": [
				{
					"id": "1442924843",
					"attributes": {
						"name": "밤편지",
						"artistName": "아이유",
						"albumName": "Palette",
						"artwork": {"url": "https://example.com/{w}x{h}.jpg", "width": 3000, "height": 3000}
					}
				},
				{"id": "999", "attributes": {"name": "something"}}
			]}}
		}`))
	}))
	defer server.Close()

	catalog := NewAppleMusicCatalog(newTestMinter(t)).(*appleMusicCatalogImpl)
	catalog.baseUrl = server.URL

	candidates, err := catalog.Search(appleTestCtx(""), "밤편지 아이유")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "1442924843", candidates[0].Id)
	assert.Equal(t, "밤편지", candidates[0].Title)
	assert.Equal(t, "아이유", candidates[0].Artist)
	assert.Equal(t, "Palette", candidates[0].Album)
	assert.Equal(t, "https://example.com/300x300.jpg", candidates[0].Artwork)

	// Partial metadata degrades to "Unknown", never to an error.
	assert.Equal(t, "Unknown", candidates[1].Artist)
	assert.Equal(t, "Unknown", candidates[1].Album)
}

func TestAppleMusicCreatePlaylist_RequiresUserToken(t *testing.T) {
	catalog := NewAppleMusicCatalog(newTestMinter(t)).(*appleMusicCatalogImpl)

	_, err := catalog.CreatePlaylist(appleTestCtx(""), "Lo-fi Mix", "")
	assert.Error(t, err)
}

func TestAppleMusicCreatePlaylist_SendsUserToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/library/playlists", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "user-token-1", r.Header.Get("Music-User-Token"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": [{"id": "p.abc123"}]}`))
	}))
	defer server.Close()

	catalog := NewAppleMusicCatalog(newTestMinter(t)).(*appleMusicCatalogImpl)
	catalog.baseUrl = server.URL

	playlistId, err := catalog.CreatePlaylist(appleTestCtx("user-token-1"), "Lo-fi Mix", "from a comment")
	require.NoError(t, err)
	assert.Equal(t, "p.abc123", playlistId)
}

func TestAppleMusicAddToPlaylist(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	catalog := NewAppleMusicCatalog(newTestMinter(t)).(*appleMusicCatalogImpl)
	catalog.baseUrl = server.URL

	err := catalog.AddToPlaylist(appleTestCtx("user-token-1"), "p.abc123", []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, "/me/library/playlists/p.abc123/tracks", gotPath)

	// Adding nothing is a no-op, not an error.
	require.NoError(t, catalog.AddToPlaylist(appleTestCtx("user-token-1"), "p.abc123", nil))
}

func TestAppleMusicSearch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	catalog := NewAppleMusicCatalog(newTestMinter(t)).(*appleMusicCatalogImpl)
	catalog.baseUrl = server.URL

	_, err := catalog.Search(appleTestCtx(""), "anything")
	assert.Error(t, err)
}

func TestResolveArtworkUrl(t *testing.T) {
	assert.Equal(t, "https://x/300x300.jpg", resolveArtworkUrl("https://x/{w}x{h}.jpg"))
	assert.Empty(t, resolveArtworkUrl(""))
}
