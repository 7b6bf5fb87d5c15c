package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute is the shared request budget when none is
// configured.
const DefaultRequestsPerMinute = 10

// Limiter is the process-wide admission gate in front of the endpoint.
// One Limiter instance is constructed per run and handed to every client;
// it is never package-level state, so tests can inject a tiny budget.
type Limiter struct {
	bucket *rate.Limiter
	rpm    int
}

// NewLimiter creates a token-bucket limiter admitting rpm requests per
// minute. Burst is 1: the benchmark streams requests, it never needs to
// front-load a burst against a shared academic endpoint.
func NewLimiter(rpm int) *Limiter {
	if rpm <= 0 {
		rpm = DefaultRequestsPerMinute
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		rpm:    rpm,
	}
}

// Wait blocks the caller until a request slot is available or the context
// is cancelled. A call that would exceed the budget suspends, it never
// fails on its own.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.bucket.Wait(ctx); err != nil {
		return &RequestError{Kind: KindRateLimited, Err: fmt.Errorf("admission wait aborted: %w", err)}
	}
	return nil
}

// RPM returns the configured requests-per-minute budget.
func (l *Limiter) RPM() int { return l.rpm }
