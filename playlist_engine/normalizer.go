package playlist_engine

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/sejinpark/tracklift/core"
)

const (
	cGeminiModel = "gemini-2.0-flash"

	cNormalizePrompt = `You are given a JSON array of song references parsed from YouTube comments.
Titles and artist names may carry typos, decorations, romanizations or swapped fields.
Return a JSON array of the same length and order, where each element is an object with
"title" and "artist" holding the canonical spelling of that song. Keep the original
language of each field. If you cannot improve an entry, return it unchanged.

Input:
`
)

// NewLlmTracksNormalizer creates a normalizer that rewrites parsed tracks
// into canonical spellings through Gemini. Requires an API key in the LLM
// config; callers gate on LlmConfig.Enabled.
func NewLlmTracksNormalizer() *LlmTracksNormalizer {
	return &LlmTracksNormalizer{}
}

type LlmTracksNormalizer struct{}

type normalizedTrack struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// NormalizeTracks sends the whole tracklist through the model in one request
// and merges the response back, preserving each track's original text and
// timestamp. The input slice is not modified.
func (n *LlmTracksNormalizer) NormalizeTracks(
	ctx context.Context,
	tracks []core.MusicTrack, /*const*/
) ([]core.MusicTrack, error) {
	if len(tracks) == 0 {
		return tracks, nil
	}
	cfg := core.ToAppCtx(ctx).Config.LlmConfig
	if cfg.GeminiApiKey == "" {
		return nil, core.NewError("LLM normalization enabled but no Gemini API key configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, core.WrappedError(err, "failed to create Gemini client")
	}

	prompt, err := n.buildPrompt(tracks)
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.GenerateContent(
		ctx,
		cGeminiModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, core.WrappedError(err, "Gemini request failed")
	}

	return n.mergeResponse(tracks, resp.Text())
}

func (n *LlmTracksNormalizer) buildPrompt(tracks []core.MusicTrack /*const*/) (string, error) {
	entries := make([]normalizedTrack, len(tracks))
	for i, track := range tracks {
		entries[i] = normalizedTrack{Title: track.Title, Artist: track.Artist}
	}
	encoded, err := json.Marshal(entries)
	if err != nil {
		return "", core.WrappedError(err, "failed to encode tracks for normalization prompt")
	}
	return cNormalizePrompt + string(encoded), nil
}

// mergeResponse applies the model output on top of the parsed tracks. Empty
// model fields keep the parsed value, so a lazy response degrades to a no-op
// instead of corrupting the tracklist.
func (n *LlmTracksNormalizer) mergeResponse(
	tracks []core.MusicTrack, /*const*/
	responseText string,
) ([]core.MusicTrack, error) {
	normalized := []normalizedTrack{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(responseText)), &normalized); err != nil {
		return nil, core.WrappedError(err, "failed to parse normalization response")
	}
	if len(normalized) != len(tracks) {
		return nil, core.NewError(
			"normalization response has %d entries, want %d", len(normalized), len(tracks),
		)
	}

	merged := make([]core.MusicTrack, len(tracks))
	for i, track := range tracks {
		if title := strings.TrimSpace(normalized[i].Title); title != "" {
			track.Title = title
		}
		if artist := strings.TrimSpace(normalized[i].Artist); artist != "" {
			track.Artist = artist
		}
		merged[i] = track
	}
	return merged, nil
}
