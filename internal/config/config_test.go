package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultConfigPath = "../../config/config.yml"

func loadDefault(t *testing.T) Config {
	t.Helper()
	cfg, err := Load(defaultConfigPath)
	require.NoError(t, err)
	return cfg
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := loadDefault(t)
	out, vr := NormalizeAndValidate(cfg)
	assert.True(t, vr.OK(), "errors: %v", vr.Errors)
	assert.Empty(t, vr.Warnings)

	require.Len(t, out.Sources, 2)
	assert.Equal(t, "indeed", out.Sources[0].ID)
	assert.Equal(t, "Monster", out.Sources[1].Display)
	assert.Equal(t, 1000, out.Sources[1].PacingMinMS)
	assert.Equal(t, 3000, out.Sources[1].PacingMaxMS)
	assert.Equal(t, RenderHTTP, out.Sources[0].Render)
	assert.Equal(t, "div[class*='job_seen_beacon']", out.Sources[0].Selectors.Cards[0])
	assert.Len(t, out.Filter.Clearance, 12)
}

func TestNormalizeAndValidate_Errors(t *testing.T) {
	cfg := loadDefault(t)
	cfg.App.Port = 0
	cfg.Filter.Tech = []string{" ", ""}
	cfg.Sources[0].Selectors.Cards = []string{"div["}
	cfg.Sources[1].ID = "Indeed"
	cfg.Sources[1].PacingMaxMS = 10
	cfg.Sources[1].BaseURL = "not a url"

	_, vr := NormalizeAndValidate(cfg)
	require.False(t, vr.OK())
	all := strings.Join(vr.Errors, "\n")
	assert.Contains(t, all, "Port")
	assert.Contains(t, all, "filter.tech")
	assert.Contains(t, all, "sources[0].selectors.cards")
	assert.Contains(t, all, `sources[1].id "indeed" is duplicated`)
	assert.Contains(t, all, "pacing_max_ms")
	assert.Contains(t, all, "BaseURL")
	assert.Error(t, vr.Err())
}

func TestNormalizeAndValidate_DoesNotMutateInput(t *testing.T) {
	cfg := loadDefault(t)
	cfg.Sources[0].ID = "  INDEED "
	out, _ := NormalizeAndValidate(cfg)
	assert.Equal(t, "indeed", out.Sources[0].ID)
	assert.Equal(t, "  INDEED ", cfg.Sources[0].ID)
}

func TestNormalizeAndValidate_ReservedIDAndWarnings(t *testing.T) {
	cfg := loadDefault(t)
	cfg.Sources[0].ID = "all"
	cfg.Sources[1].SearchURL = "https://www.monster.com/jobs"
	cfg.Scrape.Query = ""

	_, vr := NormalizeAndValidate(cfg)
	assert.Contains(t, strings.Join(vr.Errors, "\n"), "reserved")
	warn := strings.Join(vr.Warnings, "\n")
	assert.Contains(t, warn, "{query}")
	assert.Contains(t, warn, "scrape.query")
}

func TestOverlaySelectors(t *testing.T) {
	cfg := loadDefault(t)
	dir := t.TempDir()
	path := filepath.Join(dir, SelectorsName)
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  INDEED:
    cards: ["div.new-card"]
    link_attr: data-href
`), 0o644))

	require.NoError(t, OverlaySelectors(&cfg, path))
	assert.Equal(t, []string{"div.new-card"}, cfg.Sources[0].Selectors.Cards)
	assert.Equal(t, "data-href", cfg.Sources[0].Selectors.LinkAttr)
	// untouched fields keep their chains
	assert.Equal(t, "h2[class*='jobTitle'] span[title]", cfg.Sources[0].Selectors.Title[0])
	assert.Equal(t, "section[class*='card-content']", cfg.Sources[1].Selectors.Cards[0])

	require.NoError(t, OverlaySelectors(&cfg, filepath.Join(dir, "missing.yml")))

	require.NoError(t, os.WriteFile(path, []byte("sources: [oops"), 0o644))
	assert.Error(t, OverlaySelectors(&cfg, path))
}

func TestEnsureUserConfigAndLoadUser(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("JOBFINDER_PORT", "6123")
	t.Setenv("JOBFINDER_DATA_DIR", "")

	userPath, err := EnsureUserConfig(dir, defaultConfigPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, UserConfigName), userPath)

	// second call keeps the user's edits
	require.NoError(t, os.WriteFile(userPath, []byte(strings.Replace(mustRead(t, userPath), "port: 5000", "port: 5001", 1)), 0o644))
	again, err := EnsureUserConfig(dir, defaultConfigPath)
	require.NoError(t, err)
	assert.Contains(t, mustRead(t, again), "port: 5001")

	cfg, err := LoadUser(userPath, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, 6123, cfg.App.Port)
	assert.Equal(t, dir, cfg.App.DataDir)
}

func TestApplyEnv_BadPort(t *testing.T) {
	t.Setenv("JOBFINDER_PORT", "abc")
	var cfg Config
	assert.Error(t, ApplyEnv(&cfg))
}

func TestSaveAtomic(t *testing.T) {
	cfg := loadDefault(t)
	path := filepath.Join(t.TempDir(), UserConfigName)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	cfg.Polling.IntervalMinutes = 30
	require.NoError(t, SaveAtomic(path, cfg))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, back.Polling.IntervalMinutes)
	assert.Equal(t, "old", mustRead(t, path+".bak"))

	cfg.Filter.Clearance = nil
	assert.Error(t, SaveAtomic(path, cfg))
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}
