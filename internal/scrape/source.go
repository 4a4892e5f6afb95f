package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/scrape/extract"
	"jobfinder-engine/internal/scrape/util"
)

// Source is one place listings come from. Search never fails: a source that
// cannot be reached or parsed contributes nothing.
type Source interface {
	Name() string
	Search(ctx context.Context) []domain.JobListing
}

// HTMLSource scrapes one listing site's search page.
type HTMLSource struct {
	ID          string
	DisplayName string
	// SearchURL holds a {query} placeholder for the escaped search terms.
	SearchURL string
	Query     string

	Spec    extract.Spec
	Policy  filter.Policy
	Fetcher Fetcher
	Pacer   util.Pacer
	Limiter *util.HostLimiter

	// DumpDir, when set, receives <id>_response.html for every fetch.
	DumpDir string

	Logger *log.Logger
	Now    func() time.Time
}

func (s *HTMLSource) Name() string { return s.ID }

func (s *HTMLSource) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// URL is the concrete search URL.
func (s *HTMLSource) URL() string {
	return strings.ReplaceAll(s.SearchURL, "{query}", url.QueryEscape(s.Query))
}

func (s *HTMLSource) Search(ctx context.Context) (out []domain.JobListing) {
	logger := s.logger()
	tag := "[scrape:" + s.ID + "]"
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("%s panic: %v", tag, r)
			out = nil
		}
	}()

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	target := s.URL()
	if s.Pacer != nil {
		if err := s.Pacer.Wait(ctx); err != nil {
			logger.Printf("%s pacing aborted: %v", tag, err)
			return nil
		}
	}
	if err := s.Limiter.WaitURL(ctx, target); err != nil {
		logger.Printf("%s rate limit wait aborted: %v", tag, err)
		return nil
	}

	start := time.Now()
	body, err := s.Fetcher.Fetch(ctx, target)
	if err != nil {
		logger.Printf("%s fetch %s failed: %v", tag, target, err)
		return nil
	}
	logger.Printf("%s fetched %d bytes in %s", tag, len(body), time.Since(start).Round(time.Millisecond))
	s.dump(body)

	doc, err := extract.Parse(bytes.NewReader(body))
	if err != nil {
		logger.Printf("%s %v", tag, err)
		return nil
	}

	spec := s.Spec
	if spec.Name == "" {
		spec.Name = s.ID
	}
	cands := extract.Extract(doc, spec, now, logger)

	display := s.DisplayName
	if display == "" {
		display = s.ID
	}
	for _, c := range cands {
		if !s.Policy.IsEligible(c) {
			continue
		}
		c.Source = display
		out = append(out, domain.NewListing(c, now))
	}
	logger.Printf("%s %d candidates, %d eligible", tag, len(cands), len(out))
	return out
}

func (s *HTMLSource) dump(body []byte) {
	if s.DumpDir == "" {
		return
	}
	if err := os.MkdirAll(s.DumpDir, 0o755); err != nil {
		s.logger().Printf("[scrape:%s] dump dir: %v", s.ID, err)
		return
	}
	path := filepath.Join(s.DumpDir, fmt.Sprintf("%s_response.html", s.ID))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		s.logger().Printf("[scrape:%s] dump: %v", s.ID, err)
	}
}

// StaticSource serves a fixed list. Used for the mock data set and tests.
type StaticSource struct {
	ID       string
	Listings []domain.JobListing
}

func (s StaticSource) Name() string { return s.ID }

func (s StaticSource) Search(ctx context.Context) []domain.JobListing {
	if ctx.Err() != nil {
		return nil
	}
	out := make([]domain.JobListing, len(s.Listings))
	copy(out, s.Listings)
	return out
}
