package datasources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	spotify "github.com/zmb3/spotify/v2"
)

func TestBuildCandidateFromSpotifyTrack(t *testing.T) {
	track := &spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:   "6y6jbcPG4Yn3Du4moXaenr",
			Name: "Sleep Well",
			Artists: []spotify.SimpleArtist{
				{Name: "d4vd"},
				{Name: "someone else"},
			},
		},
		Album: spotify.SimpleAlbum{
			Name:   "Petals to Thorns",
			Images: []spotify.Image{{URL: "https://i.scdn.co/image/abc"}},
		},
	}

	candidate := buildCandidateFromSpotifyTrack(track)

	assert.Equal(t, "6y6jbcPG4Yn3Du4moXaenr", candidate.Id)
	assert.Equal(t, "Sleep Well", candidate.Title)
	assert.Equal(t, "d4vd", candidate.Artist)
	assert.Equal(t, "Petals to Thorns", candidate.Album)
	assert.Equal(t, "https://i.scdn.co/image/abc", candidate.Artwork)
	assert.False(t, candidate.IsExact)
	assert.Zero(t, candidate.Confidence)
}

func TestBuildCandidateFromSpotifyTrack_PartialMetadata(t *testing.T) {
	candidate := buildCandidateFromSpotifyTrack(&spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{ID: "x"},
	})

	assert.Equal(t, "Unknown", candidate.Title)
	assert.Equal(t, "Unknown", candidate.Artist)
	assert.Equal(t, "Unknown", candidate.Album)
	assert.Empty(t, candidate.Artwork)
}
