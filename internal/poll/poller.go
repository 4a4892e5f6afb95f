package poll

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/scheduler"
	"jobfinder-engine/internal/scrape"
)

var ErrAlreadyRunning = errors.New("scrape already running")

type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}

type Searcher interface {
	SearchJobs(ctx context.Context, selector string) ([]domain.JobListing, error)
}

type Sink interface {
	UpsertMany(listings []domain.JobListing) int
}

// Poller scrapes every source and writes the aggregate into the store once
// the whole search has finished.
type Poller struct {
	Search  Searcher
	Store   Sink
	Timeout time.Duration
	Logger  *log.Logger

	running atomic.Bool
	status  atomic.Value // Status
}

func New(search Searcher, store Sink, timeout time.Duration, logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.Default()
	}
	p := &Poller{Search: search, Store: store, Timeout: timeout, Logger: logger}
	p.status.Store(Status{})
	return p
}

func (p *Poller) Status() Status {
	if st, ok := p.status.Load().(Status); ok {
		return st
	}
	return Status{}
}

// RunOnce does one full scrape. A second call while one is in flight gets
// ErrAlreadyRunning.
func (p *Poller) RunOnce(ctx context.Context) (added int, err error) {
	if !p.running.CompareAndSwap(false, true) {
		return 0, ErrAlreadyRunning
	}
	defer p.running.Store(false)

	st := p.Status()
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	p.status.Store(st)

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	jobs, err := p.Search.SearchJobs(ctx, scrape.All)
	if err == nil {
		err = ctx.Err()
	}

	// Update status
	st = p.Status()
	st.Running = false
	if err != nil {
		// cancelled mid-scrape: nothing is written
		st.LastError = err.Error()
		st.LastAdded = 0
		p.Logger.Printf("[poll] error: %v", err)
	} else {
		added = p.Store.UpsertMany(jobs)
		st.LastError = ""
		st.LastAdded = added
		st.LastOkAt = time.Now().Format(time.RFC3339)
		p.Logger.Printf("[poll] ok added=%d", added)
	}
	p.status.Store(st)
	return added, err
}

// Start runs RunOnce every interval until ctx is done. interval <= 0 turns
// the background scrape off.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	go scheduler.Every(ctx, interval, "poll", func(ctx context.Context) error {
		_, err := p.RunOnce(ctx)
		if errors.Is(err, ErrAlreadyRunning) {
			return nil
		}
		return err
	}, p.Logger)
}
