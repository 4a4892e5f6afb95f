// Package store keeps the listings the engine has accepted, one per URL.
// Nothing survives a restart.
package store

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"jobfinder-engine/internal/domain"
)

// ChangeFunc is called after a batch lands. added counts keys that did not
// exist before; total is the store size afterwards.
type ChangeFunc func(added, total int)

type Store struct {
	mu   sync.RWMutex
	jobs map[string]domain.JobListing

	onChange ChangeFunc
	logger   *log.Logger
}

func New(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{jobs: make(map[string]domain.JobListing), logger: logger}
}

// OnChange registers fn. Set it before the store is shared.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// UpsertMany writes every listing under its URL, replacing what was there.
// A listing without URL gets a fresh synthetic key so it never collides.
// The batch is applied under one lock: readers see all of it or none.
func (s *Store) UpsertMany(listings []domain.JobListing) int {
	if len(listings) == 0 {
		return 0
	}

	s.mu.Lock()
	added := 0
	for _, j := range listings {
		key := Key(j)
		if _, ok := s.jobs[key]; !ok {
			added++
		}
		s.jobs[key] = j
	}
	total := len(s.jobs)
	fn := s.onChange
	s.mu.Unlock()

	s.logger.Printf("[store] upserted=%d new=%d total=%d", len(listings), added, total)
	if fn != nil {
		fn(added, total)
	}
	return len(listings)
}

// Key is the dedup key for j.
func Key(j domain.JobListing) string {
	if u := strings.TrimSpace(j.URL); u != "" {
		return u
	}
	return "synthetic:" + uuid.NewString()
}

// Snapshot returns a copy ordered by PostedDate, newest first. Equal dates
// are ordered by URL so repeated calls agree.
func (s *Store) Snapshot() []domain.JobListing {
	s.mu.RLock()
	out := make([]domain.JobListing, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		if !out[a].PostedDate.Equal(out[b].PostedDate) {
			return out[a].PostedDate.After(out[b].PostedDate)
		}
		if out[a].URL != out[b].URL {
			return out[a].URL < out[b].URL
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Clear drops everything.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.jobs)
	s.jobs = make(map[string]domain.JobListing)
	fn := s.onChange
	s.mu.Unlock()

	s.logger.Printf("[store] cleared %d listings", n)
	if fn != nil {
		fn(0, 0)
	}
}
