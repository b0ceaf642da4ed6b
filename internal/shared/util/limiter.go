package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out watch-mode re-checks with a token bucket of burst one.
type Limiter struct {
	inner *rate.Limiter
}

// NewPerMinuteLimiter allows n events per minute. n <= 0 disables limiting.
func NewPerMinuteLimiter(n int) *Limiter {
	if n <= 0 {
		return &Limiter{inner: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)}
}

// Allow takes a token if one is available now.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Acquire takes a token, blocking until one is available or ctx is done.
// onWait runs once before blocking, so callers can count throttled events.
func (l *Limiter) Acquire(ctx context.Context, onWait func()) error {
	if l.inner.Allow() {
		return nil
	}
	if onWait != nil {
		onWait()
	}
	return l.inner.Wait(ctx)
}
