package rpc_handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/sejinpark/tracklift/core"
)

type BuildPlaylistRequest struct {
	VideoId      string `json:"videoId"`
	Catalog      string `json:"catalog"`
	PlaylistName string `json:"playlistName,omitempty"`
	Description  string `json:"description,omitempty"`
}

type BuildPlaylistResponse struct {
	RunId  string           `json:"runId"`
	Status core.BuildStatus `json:"status"`
}

func NewBuildPlaylistHandler(
	engine core.PlaylistEngine,
) core.Handler[*BuildPlaylistRequest, *BuildPlaylistResponse] {
	return &buildPlaylistImpl{engine: engine}
}

type buildPlaylistImpl struct {
	engine core.PlaylistEngine
}

var _ core.Handler[*BuildPlaylistRequest, *BuildPlaylistResponse] = (*buildPlaylistImpl)(nil)

func (b *buildPlaylistImpl) CheckPerms(
	ctx context.Context,
	reqBody *BuildPlaylistRequest, /*const*/
) error {
	if len(reqBody.VideoId) == 0 {
		return core.NewError("video id is required")
	}
	if _, err := core.ToAppCtx(ctx).Catalogs.Get(core.CatalogName(reqBody.Catalog)); err != nil {
		return core.WrappedError(err, "failed to validate catalog")
	}
	return nil
}

// ProcessRequest starts the build run in a background goroutine and returns
// the run id immediately; progress is streamed separately. The goroutine gets
// a fresh context so the build survives the HTTP request ending.
func (b *buildPlaylistImpl) ProcessRequest(
	ctx context.Context,
	reqBody *BuildPlaylistRequest, /*const*/
) *core.HandlerResponse[*BuildPlaylistResponse] {
	appCtx := core.ToAppCtx(ctx)
	runId := uuid.NewString()

	go func() {
		bgCtx := core.WithAppCtx(context.Background(), appCtx)
		_, err := b.engine.BuildPlaylist(bgCtx, &core.BuildPlaylistRequest{
			RunId:        runId,
			VideoId:      reqBody.VideoId,
			Catalog:      core.CatalogName(reqBody.Catalog),
			PlaylistName: reqBody.PlaylistName,
			Description:  reqBody.Description,
		})
		if err != nil {
			core.Errorf(core.WrappedError(err, "failed to run playlist build %s", runId))
		}
	}()

	return core.NewHandlerResponse_OK(
		&BuildPlaylistResponse{
			RunId:  runId,
			Status: core.BuildStatusRunning,
		},
	)
}
