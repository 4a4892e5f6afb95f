package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RenderHTTP    = "http"
	RenderBrowser = "browser"

	EnvPort    = "JOBFINDER_PORT"
	EnvDataDir = "JOBFINDER_DATA_DIR"
)

// Selectors are the per-site CSS fallback chains. Order matters: the first
// selector that matches wins.
type Selectors struct {
	Cards       []string `yaml:"cards" json:"cards"`
	Title       []string `yaml:"title" json:"title"`
	Company     []string `yaml:"company" json:"company"`
	Location    []string `yaml:"location" json:"location"`
	Description []string `yaml:"description" json:"description"`
	Link        []string `yaml:"link" json:"link"`

	TitleAttr string `yaml:"title_attr,omitempty" json:"title_attr,omitempty"`
	LinkAttr  string `yaml:"link_attr,omitempty" json:"link_attr,omitempty"`
}

type Source struct {
	ID       string `yaml:"id" json:"id" validate:"required,alphanum"`
	Display  string `yaml:"display" json:"display"`
	Disabled bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`

	BaseURL   string `yaml:"base_url" json:"base_url" validate:"required,http_url"`
	SearchURL string `yaml:"search_url" json:"search_url" validate:"required"`
	Render    string `yaml:"render,omitempty" json:"render,omitempty" validate:"omitempty,oneof=http browser"`

	PacingMinMS int `yaml:"pacing_min_ms,omitempty" json:"pacing_min_ms,omitempty" validate:"gte=0"`
	PacingMaxMS int `yaml:"pacing_max_ms,omitempty" json:"pacing_max_ms,omitempty" validate:"gte=0"`
	MaxCards    int `yaml:"max_cards,omitempty" json:"max_cards,omitempty" validate:"gte=0,lte=200"`

	Selectors Selectors `yaml:"selectors" json:"selectors"`
}

type Filter struct {
	Tech          []string `yaml:"tech" json:"tech"`
	RolePrimary   []string `yaml:"role_primary" json:"role_primary"`
	RoleSecondary []string `yaml:"role_secondary" json:"role_secondary"`
	Clearance     []string `yaml:"clearance" json:"clearance"`
}

type Config struct {
	App struct {
		Port      int    `yaml:"port" json:"port" validate:"gte=1,lte=65535"`
		DataDir   string `yaml:"data_dir" json:"data_dir"`
		StaticDir string `yaml:"static_dir" json:"static_dir"`
	} `yaml:"app" json:"app"`

	Scrape struct {
		Query          string  `yaml:"query" json:"query"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds" validate:"gte=0"`
		MaxRedirects   int     `yaml:"max_redirects" json:"max_redirects" validate:"gte=0"`
		HostRatePerSec float64 `yaml:"host_rate_per_sec" json:"host_rate_per_sec" validate:"gte=0"`
		HostBurst      int     `yaml:"host_burst" json:"host_burst" validate:"gte=0"`
		DebugDumpDir   string  `yaml:"debug_dump_dir,omitempty" json:"debug_dump_dir,omitempty"`
	} `yaml:"scrape" json:"scrape"`

	Polling struct {
		IntervalMinutes int `yaml:"interval_minutes" json:"interval_minutes" validate:"gte=0"`
	} `yaml:"polling" json:"polling"`

	Filter Filter `yaml:"filter" json:"filter"`

	Sources []Source `yaml:"sources" json:"sources" validate:"dive"`

	LLM struct {
		Enabled bool   `yaml:"enabled" json:"enabled"`
		Model   string `yaml:"model" json:"model"`
		Limit   int    `yaml:"limit" json:"limit" validate:"gte=0"`
	} `yaml:"llm" json:"llm"`

	// Ingest.FilterSubmitted runs listings posted by the extension through
	// the eligibility filter as well. Off: the extension already filtered.
	Ingest struct {
		FilterSubmitted bool `yaml:"filter_submitted" json:"filter_submitted"`
	} `yaml:"ingest" json:"ingest"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with JOBFINDER_PORT / JOBFINDER_DATA_DIR.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		cfg.App.Port = p
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.App.DataDir = v
	}
	return nil
}

// EnabledSources returns the sources not marked disabled, in file order.
func (c Config) EnabledSources() []Source {
	out := make([]Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		if !s.Disabled {
			out = append(out, s)
		}
	}
	return out
}
