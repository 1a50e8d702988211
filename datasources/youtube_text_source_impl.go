package datasources

import (
	"context"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/sejinpark/tracklift/core"
)

const (
	// Comment threads fetched per video, ordered by relevance. The pinned
	// comment, when present, surfaces at the top of this ordering.
	cMaxCommentThreads = 50
)

func NewYouTubeTextSource() core.TextSource {
	return &youtubeTextSourceImpl{}
}

type youtubeTextSourceImpl struct{}

var _ core.TextSource = (*youtubeTextSourceImpl)(nil)

// FetchCandidateTexts reads the video's top comments and its description.
// Each read is independently tolerant: comments can be disabled on a video
// that still has a tracklist in its description, and vice versa. An error is
// returned only when every read failed.
func (c *youtubeTextSourceImpl) FetchCandidateTexts(
	ctx context.Context,
	videoId string,
) ([]core.TextBlock, error) {
	svc, err := c.getService(ctx)
	if err != nil {
		return nil, core.WrappedError(err, "failed to get YouTube service")
	}

	blocks := []core.TextBlock{}
	var lastErr error

	comments, err := c.fetchCommentBlocks(svc, videoId)
	if err != nil {
		core.Warningf("Failed to fetch comments for video %s: %v", videoId, err)
		lastErr = err
	} else {
		blocks = append(blocks, comments...)
	}

	description, err := c.fetchDescriptionBlock(svc, videoId)
	if err != nil {
		core.Warningf("Failed to fetch description for video %s: %v", videoId, err)
		lastErr = err
	} else if description != nil {
		blocks = append(blocks, *description)
	}

	if len(blocks) == 0 && lastErr != nil {
		return nil, core.WrappedError(lastErr, "failed to fetch any candidate text for video %s", videoId)
	}
	return blocks, nil
}

// fetchCommentBlocks returns the top-level comments in relevance order. The
// first comment is tagged as the pinned/top tier, the rest as regular.
func (c *youtubeTextSourceImpl) fetchCommentBlocks(
	svc *youtube.Service,
	videoId string,
) ([]core.TextBlock, error) {
	resp, err := svc.CommentThreads.
		List([]string{"snippet"}).
		VideoId(videoId).
		Order("relevance").
		TextFormat("plainText").
		MaxResults(cMaxCommentThreads).
		Do()
	if err != nil {
		return nil, core.WrappedError(err, "failed to fetch comment threads")
	}

	blocks := []core.TextBlock{}
	for i, thread := range resp.Items {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil ||
			thread.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		text := thread.Snippet.TopLevelComment.Snippet.TextDisplay
		if text == "" {
			continue
		}
		source := core.ListSourceRegularComments
		if i == 0 {
			source = core.ListSourcePinnedComment
		}
		blocks = append(blocks, core.TextBlock{Source: source, Content: text})
	}
	return blocks, nil
}

func (c *youtubeTextSourceImpl) fetchDescriptionBlock(
	svc *youtube.Service,
	videoId string,
) (*core.TextBlock, error) {
	resp, err := svc.Videos.List([]string{"snippet"}).Id(videoId).Do()
	if err != nil {
		return nil, core.WrappedError(err, "failed to fetch video %s", videoId)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, core.NewError("video %s not found", videoId)
	}
	description := resp.Items[0].Snippet.Description
	if description == "" {
		return nil, nil
	}
	return &core.TextBlock{Source: core.ListSourceDescription, Content: description}, nil
}

// getService builds an API-key backed service. Comment and video reads are
// public data, so no user OAuth is involved.
func (c *youtubeTextSourceImpl) getService(ctx context.Context) (*youtube.Service, error) {
	apiKey := core.ToAppCtx(ctx).Config.YoutubeConfig.ApiKey
	if apiKey == "" {
		return nil, core.NewError("YouTube API key is not configured")
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, core.WrappedError(err, "failed to create YouTube service")
	}
	return svc, nil
}
