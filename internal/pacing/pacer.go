// Package pacing enforces minimum spacing and retry discipline for outbound
// Aviato API calls.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer owns the shared "time of last call" slot for one upstream surface.
// All callers in the process share one Pacer per surface, so concurrent
// prospecting requests queue on the same slot.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer allowing one call per interval. A zero or negative
// interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call slot is free or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
