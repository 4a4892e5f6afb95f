package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"jobfinder-engine/internal/domain"
)

// All selects every registered source.
const All = "all"

var ErrUnknownSource = errors.New("unknown source")

type UnknownSourceError struct {
	Source string
	Valid  []string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source %q (valid: %s)", e.Source, strings.Join(e.Valid, ", "))
}

func (e *UnknownSourceError) Is(target error) bool { return target == ErrUnknownSource }

// Registry fans a search out to its sources. Source ids are matched
// case-insensitively and results keep registration order.
type Registry struct {
	sources []Source
	byID    map[string]Source
	logger  *log.Logger
}

func NewRegistry(logger *log.Logger, sources ...Source) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{byID: map[string]Source{}, logger: logger}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// Register adds s. A second source with the same id replaces the first in place.
func (r *Registry) Register(s Source) {
	id := strings.ToLower(strings.TrimSpace(s.Name()))
	if _, dup := r.byID[id]; dup {
		for i, old := range r.sources {
			if strings.EqualFold(old.Name(), id) {
				r.sources[i] = s
			}
		}
	} else {
		r.sources = append(r.sources, s)
	}
	r.byID[id] = s
}

// Sources lists the registered ids in registration order.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, strings.ToLower(s.Name()))
	}
	return out
}

// SearchJobs runs the selected source, or every source for "all". The only
// error is *UnknownSourceError.
func (r *Registry) SearchJobs(ctx context.Context, selector string) ([]domain.JobListing, error) {
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == All {
		return r.searchAll(ctx), nil
	}
	s, ok := r.byID[sel]
	if !ok {
		return nil, &UnknownSourceError{Source: selector, Valid: append([]string{All}, r.Sources()...)}
	}
	return r.run(ctx, s), nil
}

func (r *Registry) searchAll(ctx context.Context) []domain.JobListing {
	slots := make([][]domain.JobListing, len(r.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range r.sources {
		g.Go(func() error {
			slots[i] = r.run(gctx, s)
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.JobListing
	for _, jobs := range slots {
		out = append(out, jobs...)
	}
	r.logger.Printf("[aggregate] %d sources, %d listings", len(r.sources), len(out))
	return out
}

// run isolates one source: a panic escaping Search is logged and yields nothing.
func (r *Registry) run(ctx context.Context, s Source) (jobs []domain.JobListing) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("[aggregate] source=%s panic: %v", s.Name(), rec)
			jobs = nil
		}
	}()
	jobs = s.Search(ctx)
	r.logger.Printf("[aggregate] source=%s found=%d took=%s", s.Name(), len(jobs), time.Since(start).Round(time.Millisecond))
	return jobs
}

// Handle lets the registry be rebuilt (config saved from the API) while
// searches are running. Calls use whichever registry was current at entry.
type Handle struct {
	p atomic.Pointer[Registry]
}

func NewHandle(r *Registry) *Handle {
	h := &Handle{}
	h.p.Store(r)
	return h
}

func (h *Handle) Swap(r *Registry) { h.p.Store(r) }

func (h *Handle) Registry() *Registry { return h.p.Load() }

func (h *Handle) SearchJobs(ctx context.Context, selector string) ([]domain.JobListing, error) {
	return h.p.Load().SearchJobs(ctx, selector)
}

func (h *Handle) Sources() []string { return h.p.Load().Sources() }
