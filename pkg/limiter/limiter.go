package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token-bucket limiter refilling one token per interval.
type Limiter struct {
	limiter *rate.Limiter
}

func New(interval time.Duration, burst int) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), burst)}
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until an event may happen or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
