package poll

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/store"
)

var quiet = log.New(io.Discard, "", 0)

type searchFunc func(ctx context.Context, sel string) ([]domain.JobListing, error)

func (f searchFunc) SearchJobs(ctx context.Context, sel string) ([]domain.JobListing, error) {
	return f(ctx, sel)
}

func TestRunOnce_WritesAggregateAndStatus(t *testing.T) {
	st := store.New(quiet)
	var gotSel string
	p := New(searchFunc(func(ctx context.Context, sel string) ([]domain.JobListing, error) {
		gotSel = sel
		return []domain.JobListing{{URL: "https://x/1"}, {URL: "https://x/2"}}, nil
	}), st, time.Second, quiet)

	added, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "all", gotSel)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, st.Count())

	s := p.Status()
	assert.False(t, s.Running)
	assert.Equal(t, 2, s.LastAdded)
	assert.NotEmpty(t, s.LastOkAt)
	assert.Empty(t, s.LastError)
}

func TestRunOnce_CancelledWritesNothing(t *testing.T) {
	st := store.New(quiet)
	p := New(searchFunc(func(ctx context.Context, sel string) ([]domain.JobListing, error) {
		<-ctx.Done()
		// partial results from sources that finished before cancellation
		return []domain.JobListing{{URL: "https://x/partial"}}, nil
	}), st, 0, quiet)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.RunOnce(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, st.Count())
	assert.NotEmpty(t, p.Status().LastError)
}

func TestRunOnce_RejectsOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := New(searchFunc(func(ctx context.Context, sel string) ([]domain.JobListing, error) {
		close(started)
		<-release
		return nil, nil
	}), store.New(quiet), 0, quiet)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = p.RunOnce(context.Background())
	}()
	<-started
	assert.True(t, p.Status().Running)

	_, err := p.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(release)
	wg.Wait()
	assert.False(t, p.Status().Running)
}

func TestStart_RunsInBackground(t *testing.T) {
	st := store.New(quiet)
	p := New(searchFunc(func(ctx context.Context, sel string) ([]domain.JobListing, error) {
		return []domain.JobListing{{URL: "https://x/1"}}, nil
	}), st, 0, quiet)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx, time.Hour)

	assert.Eventually(t, func() bool { return st.Count() == 1 }, 2*time.Second, 5*time.Millisecond)
}
