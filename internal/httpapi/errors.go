package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobfinder-engine/internal/ingest"
	"jobfinder-engine/internal/poll"
	"jobfinder-engine/internal/scrape"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeErr maps core errors onto statuses. Anything unrecognised is a 500
// with a generic message.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scrape.ErrUnknownSource):
		WriteError(w, r, http.StatusBadRequest, "invalid_source", err.Error())
	case errors.Is(err, ingest.ErrPayload):
		WriteError(w, r, http.StatusBadRequest, "invalid_payload", err.Error())
	case errors.Is(err, poll.ErrAlreadyRunning):
		WriteError(w, r, http.StatusConflict, "already_running", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
