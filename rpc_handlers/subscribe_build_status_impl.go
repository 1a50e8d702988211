package rpc_handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sejinpark/tracklift/core"
)

const cHeartbeatInterval = 30 * time.Second

type BuildProgressJson struct {
	RunId        string           `json:"runId"`
	Status       core.BuildStatus `json:"status"`
	Current      int              `json:"current"`
	Total        int              `json:"total"`
	CurrentTrack string           `json:"currentTrack,omitempty"`
	Matched      int              `json:"matched"`
	FailedTracks []string         `json:"failedTracks,omitempty"`
	PlaylistId   string           `json:"playlistId,omitempty"`
}

// SubscribeToBuildStatus streams progress events for a single build run over
// server-sent events until the run finishes or the client disconnects.
func SubscribeToBuildStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runId := r.URL.Query().Get("runId")
	if len(runId) == 0 {
		http.Error(w, "run id is required", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(runId); err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	broadcaster := core.ToAppCtx(ctx).ProgressBroadcaster
	subscription := broadcaster.Subscribe(runId)
	defer broadcaster.Unsubscribe(runId, subscription)
	core.Printf("Client subscribed to build status for run ID: %s", runId)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var mostRecent *core.BuildProgress
	ticker := time.NewTicker(cHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			core.Printf("Client disconnected from build status stream for run ID: %s", runId)
			return
		case progress, ok := <-subscription:
			if !ok {
				return
			}
			mostRecent = progress
			if err := sendProgressEvent(w, flusher, progress); err != nil {
				core.Errorf(core.WrappedError(err, "failed to send build progress to client for run ID: %s", runId))
				return
			}
			if progress.Status == core.BuildStatusCompleted || progress.Status == core.BuildStatusFailed {
				return
			}
		case <-ticker.C:
			// Re-send the latest state as a heartbeat so proxies keep the
			// connection open.
			if mostRecent != nil {
				if err := sendProgressEvent(w, flusher, mostRecent); err != nil {
					core.Errorf(core.WrappedError(err, "failed to send heartbeat for run ID: %s", runId))
					return
				}
			}
		}
	}
}

func sendProgressEvent(
	w http.ResponseWriter,
	flusher http.Flusher,
	progress *core.BuildProgress, /*const*/
) error {
	payload, err := json.Marshal(toBuildProgressJson(progress))
	if err != nil {
		return core.WrappedError(err, "failed to marshal build progress")
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func toBuildProgressJson(progress *core.BuildProgress /*const*/) *BuildProgressJson {
	return &BuildProgressJson{
		RunId:        progress.RunId,
		Status:       progress.Status,
		Current:      progress.Current,
		Total:        progress.Total,
		CurrentTrack: progress.CurrentTrack,
		Matched:      progress.Matched,
		FailedTracks: progress.FailedTracks,
		PlaylistId:   progress.PlaylistId,
	}
}
