package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/scrape/util"
)

func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("../../config/config.yml")
	require.NoError(t, err)
	out, vr := config.NormalizeAndValidate(cfg)
	require.True(t, vr.OK(), vr.Errors)
	return out
}

func TestBuildRegistry_FromDefaultConfig(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.LLM.Enabled = true

	var fetched []string
	reg := BuildRegistry(cfg, BuildOptions{
		Logger: quiet,
		Fetcher: fetcherFunc(func(ctx context.Context, u string) ([]byte, error) {
			fetched = append(fetched, u)
			return []byte(indeedPage), nil
		}),
	})
	assert.Equal(t, []string{"indeed", "monster", "llm"}, reg.Sources())

	got, err := reg.SearchJobs(context.Background(), "Indeed")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Indeed", got[0].Source)
	assert.Equal(t, "https://www.indeed.com/viewjob?id=42", got[0].URL)
	assert.Equal(t, []string{"https://www.indeed.com/jobs?q=full-stack+developer+C%23+Azure+security+clearance&l="}, fetched)

	llmJobs, err := reg.SearchJobs(context.Background(), "llm")
	require.NoError(t, err)
	assert.Len(t, llmJobs, 2)
}

func TestBuildRegistry_SkipsDisabledAndPicksFetcher(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Sources[0].Disabled = true
	cfg.Sources[1].Render = config.RenderBrowser

	reg := BuildRegistry(cfg, BuildOptions{Logger: quiet})
	assert.Equal(t, []string{"monster"}, reg.Sources())

	src := reg.byID["monster"].(*HTMLSource)
	assert.IsType(t, &BrowserFetcher{}, src.Fetcher)
	p, ok := src.Pacer.(*util.RandomPacer)
	require.True(t, ok)
	assert.Equal(t, time.Second, p.Min)
	assert.Equal(t, 3*time.Second, p.Max)
}

func TestMapPacer(t *testing.T) {
	assert.Equal(t, util.NoPacer{}, MapPacer(config.Source{}))
}
