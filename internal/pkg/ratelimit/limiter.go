package ratelimit

import (
	"context"
	"fmt"
	"time"

	"swapbridge/internal/metrics"
	"swapbridge/internal/pkg/apperrors"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket rate limiter for calls to one upstream service.
type Limiter struct {
	limiter *rate.Limiter
	service string
}

// NewLimiter allows rps requests per second with a burst capacity of burst tokens.
// A non-positive rps disables limiting.
func NewLimiter(rps float64, burst int, service string) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		service: service,
	}
}

// Wait blocks until the limiter allows one event, or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	r := l.limiter.Reserve()
	if !r.OK() {
		return fmt.Errorf("%w: cannot reserve token for %s", apperrors.ErrRateLimited, l.service)
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
		r.Cancel()
		return fmt.Errorf("%w: %s wait of %v exceeds deadline", apperrors.ErrRateLimited, l.service, delay)
	}

	metrics.RateLimitWaits.WithLabelValues(l.service).Inc()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
