package usecase

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a fixed minimum delay between consecutive page requests.
type Pacer interface {
	Wait(ctx context.Context) error
}

type fixedPacer struct {
	limiter *rate.Limiter
}

// NewFixedPacer allows one request per delay. A non-positive delay disables pacing.
func NewFixedPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return fixedPacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)
	// Drain the initial token so the first Wait after a fetch blocks a full delay.
	limiter.Allow()
	return fixedPacer{limiter: limiter}
}

func (p fixedPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
