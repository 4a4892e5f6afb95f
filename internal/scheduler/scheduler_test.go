package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var quiet = log.New(io.Discard, "", 0)

func TestEvery_RunsImmediatelyAndOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32

	done := make(chan struct{})
	go func() {
		defer close(done)
		Every(ctx, 10*time.Millisecond, "test", func(context.Context) error {
			if n.Add(1) >= 3 {
				cancel()
			}
			return errors.New("logged, not fatal")
		}, quiet)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not stop after cancel")
	}
	assert.GreaterOrEqual(t, n.Load(), int32(3))
}

func TestEvery_DisabledInterval(t *testing.T) {
	var n atomic.Int32
	Every(context.Background(), 0, "off", func(context.Context) error {
		n.Add(1)
		return nil
	}, quiet)
	assert.Zero(t, n.Load())
}
