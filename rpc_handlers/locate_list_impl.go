package rpc_handlers

import (
	"context"

	"github.com/sejinpark/tracklift/core"
)

type LocateListRequest struct {
	VideoId string `json:"videoId"`
}

type LocateListResponse struct {
	Source core.ListSource `json:"source"`
	Tracks []TrackJson     `json:"tracks"`
}

func NewLocateListHandler(
	locator core.TracklistLocator,
) core.Handler[*LocateListRequest, *LocateListResponse] {
	return &locateListImpl{locator: locator}
}

type locateListImpl struct {
	locator core.TracklistLocator
}

var _ core.Handler[*LocateListRequest, *LocateListResponse] = (*locateListImpl)(nil)

func (l *locateListImpl) CheckPerms(
	ctx context.Context,
	reqBody *LocateListRequest, /*const*/
) error {
	if len(reqBody.VideoId) == 0 {
		return core.NewError("video id is required")
	}
	return nil
}

func (l *locateListImpl) ProcessRequest(
	ctx context.Context,
	reqBody *LocateListRequest, /*const*/
) *core.HandlerResponse[*LocateListResponse] {
	located, err := l.locator.Locate(ctx, reqBody.VideoId)
	if err != nil {
		return core.NewHandlerResponse_InternalServerError[*LocateListResponse](
			core.WrappedError(err, "could not locate tracklist for video %s", reqBody.VideoId),
		)
	}
	if located.Source == core.ListSourceNotFound {
		return core.NewHandlerResponse_NotFound[*LocateListResponse](
			core.NewError("no tracklist found for video %s", reqBody.VideoId),
		)
	}
	return core.NewHandlerResponse_OK(
		&LocateListResponse{
			Source: located.Source,
			Tracks: toTrackJsons(located.Tracks),
		},
	)
}
