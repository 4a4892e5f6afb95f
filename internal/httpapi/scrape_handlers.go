package httpapi

import (
	"context"
	"errors"
	"net/http"

	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/poll"
)

type ScrapeHandler struct {
	d Deps
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.d.Poller.Status())
}

// Run starts a full scrape in the background. Progress is visible through
// Status and the scrape_status event.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.d.Poller.Status().Running {
		WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	reqID := RequestIDFrom(r.Context())
	go func() {
		_, err := h.d.Poller.RunOnce(context.Background())
		if errors.Is(err, poll.ErrAlreadyRunning) {
			return
		}
		if h.d.Hub != nil {
			h.d.Hub.Publish(events.MakeEvent(reqID, events.TypeScrapeStatus, 1, h.d.Poller.Status()))
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}
