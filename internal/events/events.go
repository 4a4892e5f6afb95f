package events

import (
	"encoding/json"
	"time"
)

const (
	TypePing         = "ping"
	TypeJobsChanged  = "jobs_changed"
	TypeJobsCleared  = "jobs_cleared"
	TypeScrapeStatus = "scrape_status"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// StoreChanged is the payload published after every store write.
type StoreChanged struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// StoreHook adapts the hub to the store's change callback.
func StoreHook(h *Hub) func(added, total int) {
	return func(added, total int) {
		if total == 0 && added == 0 {
			h.Publish(MakeEvent("", TypeJobsCleared, 1, nil))
			return
		}
		h.Publish(MakeEvent("", TypeJobsChanged, 1, StoreChanged{Added: added, Total: total}))
	}
}
