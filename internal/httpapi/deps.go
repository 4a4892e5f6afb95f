package httpapi

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/ingest"
	"jobfinder-engine/internal/poll"
	"jobfinder-engine/internal/store"
)

type Searcher interface {
	SearchJobs(ctx context.Context, selector string) ([]domain.JobListing, error)
	Sources() []string
}

type Scraper interface {
	RunOnce(ctx context.Context) (int, error)
	Status() poll.Status
}

type Deps struct {
	Search Searcher
	Store  *store.Store
	Ingest *ingest.Decoder
	Hub    *events.Hub
	Poller Scraper

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	// Reload rebuilds whatever depends on config or secrets (the source
	// registry). May be nil.
	Reload func(cfg config.Config)

	StaticDir string

	Logger *log.Logger
	Now    func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}
