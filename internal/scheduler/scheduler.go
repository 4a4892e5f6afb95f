package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task right away and then on each tick until ctx is done. Runs
// never overlap: a tick that fires while task is still busy is dropped.
func Every(ctx context.Context, interval time.Duration, name string, task Task, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		logger.Printf("[%s] disabled (interval=%s)", name, interval)
		return
	}

	run := func() {
		if err := task(ctx); err != nil {
			logger.Printf("[%s] error: %v", name, err)
		}
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	// run immediately
	run()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ctx.Err() != nil {
				return
			}
			run()
		}
	}
}
