package services

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sejinpark/tracklift/core"
)

// OrchestrateHandler adapts a handler to an http.HandlerFunc. It handles
// orchestration of the handler framework: decoding the JSON request body,
// checking permissions through CheckPerms and then processing the actual
// request through ProcessRequest.
func OrchestrateHandler[RequestT any, ResponseT any](
	handler core.Handler[*RequestT, *ResponseT],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reqBody := new(RequestT)
		if err := decodeRequestBody(r, reqBody); err != nil {
			writeError(w, http.StatusBadRequest, core.WrappedError(err, "failed to decode request body"))
			return
		}

		if err := handler.CheckPerms(ctx, reqBody); err != nil {
			core.Printf("Rejected request: %v", err)
			writeError(w, http.StatusForbidden, err)
			return
		}

		resp := handler.ProcessRequest(ctx, reqBody)
		if resp.Err != nil {
			err := core.WrappedError(resp.Err, "failed to process request")
			core.Errorf(err)
			writeError(w, resp.StatusCode, err)
			return
		}
		writeJson(w, resp.StatusCode, resp.Response)
	}
}

// decodeRequestBody decodes a JSON body into out. An empty body decodes to
// the zero request so GET-style calls work without a payload.
func decodeRequestBody(r *http.Request, out any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return core.WrappedError(err, "failed to read request body")
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeJson(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		core.Errorf(core.WrappedError(err, "failed to encode response"))
	}
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	writeJson(w, statusCode, map[string]string{"error": err.Error()})
}
