package scrape

import (
	"log"
	"time"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/filter"
	"jobfinder-engine/internal/scrape/extract"
	"jobfinder-engine/internal/scrape/llm"
	"jobfinder-engine/internal/scrape/util"
)

type BuildOptions struct {
	Logger  *log.Logger
	Limiter *util.HostLimiter
	// Generator backs the llm source; nil makes it serve the sample set.
	Generator llm.Generator
	// Fetcher overrides the HTTP fetcher (tests).
	Fetcher Fetcher
}

func MapPolicy(f config.Filter) filter.Policy {
	return filter.Policy{
		Tech:          f.Tech,
		RolePrimary:   f.RolePrimary,
		RoleSecondary: f.RoleSecondary,
		Clearance:     f.Clearance,
	}
}

func MapSpec(s config.Source) extract.Spec {
	return extract.Spec{
		Name:    s.Display,
		BaseURL: s.BaseURL,
		Cards:   extract.Chain(s.Selectors.Cards),
		Fields: extract.FieldChains{
			Title:       extract.Chain(s.Selectors.Title),
			Company:     extract.Chain(s.Selectors.Company),
			Location:    extract.Chain(s.Selectors.Location),
			Description: extract.Chain(s.Selectors.Description),
			Link:        extract.Chain(s.Selectors.Link),
		},
		MaxCards:  s.MaxCards,
		TitleAttr: s.Selectors.TitleAttr,
		LinkAttr:  s.Selectors.LinkAttr,
	}
}

func MapPacer(s config.Source) util.Pacer {
	if s.PacingMaxMS <= 0 {
		return util.NoPacer{}
	}
	return util.NewRandomPacer(
		time.Duration(s.PacingMinMS)*time.Millisecond,
		time.Duration(s.PacingMaxMS)*time.Millisecond,
	)
}

// BuildRegistry turns the enabled sources of cfg into a registry, in config
// order, with the llm source last when enabled.
func BuildRegistry(cfg config.Config, opts BuildOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second

	httpFetcher := opts.Fetcher
	if httpFetcher == nil {
		httpFetcher = NewHTTPFetcher(timeout, cfg.Scrape.MaxRedirects)
	}
	browser := &BrowserFetcher{Timeout: timeout, Settle: 3 * time.Second, Logger: logger}
	policy := MapPolicy(cfg.Filter)

	reg := NewRegistry(logger)
	for _, s := range cfg.EnabledSources() {
		var f Fetcher = httpFetcher
		if s.Render == config.RenderBrowser {
			f = browser
		}
		reg.Register(&HTMLSource{
			ID:          s.ID,
			DisplayName: s.Display,
			SearchURL:   s.SearchURL,
			Query:       cfg.Scrape.Query,
			Spec:        MapSpec(s),
			Policy:      policy,
			Fetcher:     f,
			Pacer:       MapPacer(s),
			Limiter:     opts.Limiter,
			DumpDir:     cfg.Scrape.DebugDumpDir,
			Logger:      logger,
		})
	}
	if cfg.LLM.Enabled {
		reg.Register(&llm.Source{
			Gen:    opts.Generator,
			Policy: policy,
			Query:  cfg.Scrape.Query,
			Limit:  cfg.LLM.Limit,
			Logger: logger,
		})
	}
	logger.Printf("[scrape] registry built sources=%v", reg.Sources())
	return reg
}
