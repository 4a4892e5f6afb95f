package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/scrape"
	"jobfinder-engine/internal/scrape/llm"
	"jobfinder-engine/internal/scrape/util"
	"jobfinder-engine/internal/secrets"
)

// app holds what both the server and the one-shot search need: the loaded
// config and a way to (re)build the source registry from it.
type app struct {
	userCfgPath string
	cfg         config.Config
	logger      *log.Logger

	mu      sync.Mutex
	gen     *llm.Gemini
	limiter *util.HostLimiter
}

func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if d := os.Getenv(config.EnvDataDir); d != "" {
		return d
	}
	return "."
}

func loadApp(logger *log.Logger) (*app, error) {
	userCfgPath, err := config.EnsureUserConfig(resolveDataDir(), defaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config bootstrap: %w", err)
	}
	cfg, err := config.LoadUser(userCfgPath, logger)
	if err != nil {
		return nil, fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	return &app{
		userCfgPath: userCfgPath,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

func (a *app) loadConfig() (config.Config, error) {
	return config.LoadUser(a.userCfgPath, a.logger)
}

// buildRegistry builds the sources for cfg. A Gemini client is only opened
// when the llm source is enabled and a key is available; otherwise the llm
// source serves the sample set.
func (a *app) buildRegistry(ctx context.Context, cfg config.Config) *scrape.Registry {
	var gen llm.Generator
	var client *llm.Gemini
	if cfg.LLM.Enabled {
		key, err := secrets.GetLLMAPIKey()
		switch {
		case errors.Is(err, secrets.ErrNoAPIKey):
			a.logger.Printf("[llm] no api key, serving sample listings")
		case err != nil:
			a.logger.Printf("[llm] api key lookup: %v", err)
		default:
			client, err = llm.NewGemini(ctx, key, cfg.LLM.Model)
			if err != nil {
				a.logger.Printf("[llm] client: %v", err)
			} else {
				gen = client
			}
		}
	}

	// a fresh limiter so rate changes apply with the new sources
	limiter := util.NewHostLimiter(cfg.Scrape.HostRatePerSec, cfg.Scrape.HostBurst)
	reg := scrape.BuildRegistry(cfg, scrape.BuildOptions{
		Logger:    a.logger,
		Limiter:   limiter,
		Generator: gen,
	})

	a.mu.Lock()
	old := a.gen
	a.gen = client
	a.limiter = limiter
	a.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return reg
}

func (a *app) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != nil {
		_ = a.gen.Close()
		a.gen = nil
	}
}
