package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer is the "wait before the next request" step a source runs before it
// fetches. Implementations must return promptly once ctx is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NoPacer never waits.
type NoPacer struct{}

func (NoPacer) Wait(ctx context.Context) error { return ctx.Err() }

// RandomPacer sleeps a uniformly random duration in [Min, Max].
type RandomPacer struct {
	Min time.Duration
	Max time.Duration

	// Int64N overrides the random source (tests).
	Int64N func(n int64) int64
}

func NewRandomPacer(min, max time.Duration) *RandomPacer {
	if max < min {
		min, max = max, min
	}
	return &RandomPacer{Min: min, Max: max}
}

func (p *RandomPacer) Delay() time.Duration {
	span := int64(p.Max - p.Min)
	if span <= 0 {
		return p.Min
	}
	pick := rand.Int64N
	if p.Int64N != nil {
		pick = p.Int64N
	}
	return p.Min + time.Duration(pick(span+1))
}

func (p *RandomPacer) Wait(ctx context.Context) error {
	d := p.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
