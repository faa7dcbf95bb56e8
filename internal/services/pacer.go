package services

import (
	"context"
	"time"
)

// Pacer spaces out calls to the external classifier. The screener waits
// on it before every classification request, independent of the
// client's own retry backoff.
type Pacer interface {
	Wait(ctx context.Context) error
}

type intervalPacer struct {
	interval time.Duration
}

// NewIntervalPacer returns a fixed-interval gate: every Wait blocks for
// the full interval. A non-positive interval disables pacing.
func NewIntervalPacer(interval time.Duration) Pacer {
	return &intervalPacer{interval: interval}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
