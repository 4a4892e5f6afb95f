package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/ingest"
)

type jobsResponse struct {
	Jobs      []domain.JobListing `json:"jobs"`
	Count     int                 `json:"count"`
	Timestamp time.Time           `json:"timestamp"`
}

type addResponse struct {
	Success   bool               `json:"success"`
	Added     int                `json:"added"`
	Rejected  []ingest.Rejection `json:"rejected"`
	Total     int                `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

type JobsHandler struct {
	d Deps
}

func (h JobsHandler) respond(w http.ResponseWriter, jobs []domain.JobListing) {
	if jobs == nil {
		jobs = []domain.JobListing{}
	}
	WriteJSON(w, http.StatusOK, jobsResponse{Jobs: jobs, Count: len(jobs), Timestamp: h.d.now()})
}

// Search scrapes the named source (or "all") live. Results are only kept
// when the caller asks with ?store=true and the search ran to completion.
func (h JobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	jobs, err := h.d.Search.SearchJobs(r.Context(), source)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if keep, _ := strconv.ParseBool(r.URL.Query().Get("store")); keep && len(jobs) > 0 {
		if err := r.Context().Err(); err != nil {
			// partial aggregate
			h.d.logger().Printf("level=warn msg=\"search not stored\" request_id=%s err=%v", RequestIDFrom(r.Context()), err)
		} else {
			h.d.Store.UpsertMany(jobs)
		}
	}
	h.respond(w, jobs)
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.d.Store.Snapshot())
}

// Add accepts a JSON array of listings from the browser extension.
func (h JobsHandler) Add(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ingest.MaxBodyBytes+1)
	res, err := h.d.Ingest.Decode(r.Body, h.d.now())
	if err != nil {
		h.d.logger().Printf("level=warn msg=\"ingest rejected\" request_id=%s err=%v", RequestIDFrom(r.Context()), err)
		writeErr(w, r, err)
		return
	}
	added := 0
	if len(res.Accepted) > 0 {
		added = h.d.Store.UpsertMany(res.Accepted)
	}
	rejected := res.Rejected
	if rejected == nil {
		rejected = []ingest.Rejection{}
	}
	WriteJSON(w, http.StatusOK, addResponse{
		Success:   true,
		Added:     added,
		Rejected:  rejected,
		Total:     h.d.Store.Count(),
		Timestamp: h.d.now(),
	})
}

func (h JobsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.d.Store.Clear()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "total": 0})
}

func (h JobsHandler) Mock(w http.ResponseWriter, r *http.Request) {
	h.respond(w, domain.SampleListings(h.d.now()))
}
