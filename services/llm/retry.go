package llm

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between retries.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier for exponential backoff.
	BackoffFactor float64

	// JitterFactor is the maximum jitter as a fraction of backoff (0-1).
	JitterFactor float64
}

// DefaultRetryConfig mirrors the endpoint's observed failure profile:
// seven attempts, 2s initial wait, 30s cap.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    7,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
		JitterFactor:   0.2,
	}
}

// Validate checks that the configuration is usable.
func (c RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return &RequestError{Kind: KindInvalid, Err: errInvalidRetryConfig("max attempts must be at least 1")}
	}
	if c.InitialBackoff <= 0 {
		return &RequestError{Kind: KindInvalid, Err: errInvalidRetryConfig("initial backoff must be positive")}
	}
	if c.MaxBackoff < c.InitialBackoff {
		return &RequestError{Kind: KindInvalid, Err: errInvalidRetryConfig("max backoff below initial backoff")}
	}
	if c.BackoffFactor < 1.0 {
		return &RequestError{Kind: KindInvalid, Err: errInvalidRetryConfig("backoff factor must be >= 1")}
	}
	return nil
}

type errInvalidRetryConfig string

func (e errInvalidRetryConfig) Error() string { return string(e) }

// RetryResult contains the outcome of a retry operation.
type RetryResult struct {
	// Attempts is the number of attempts made.
	Attempts int

	// TotalDuration is the total time spent including waits.
	TotalDuration time.Duration

	// LastError is the error from the last attempt (nil if successful).
	LastError error
}

// RetryableFunc is one attempt of the operation under retry.
type RetryableFunc func(ctx context.Context, attempt int) error

// Retry executes fn with exponential backoff.
//
// fn is retried only when it returns a retryable error (per IsRetryable).
// Non-retryable errors return immediately. When the attempt budget runs
// out the last error is returned unchanged; the caller wraps it into
// KindExhausted so that call sites see the taxonomy, not the mechanism.
func Retry(ctx context.Context, config RetryConfig, fn RetryableFunc) (RetryResult, error) {
	start := time.Now()
	result := RetryResult{}

	backoff := config.InitialBackoff

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		result.Attempts = attempt

		if err := ctx.Err(); err != nil {
			result.LastError = err
			result.TotalDuration = time.Since(start)
			return result, err
		}

		err := fn(ctx, attempt)
		if err == nil {
			result.TotalDuration = time.Since(start)
			return result, nil
		}

		result.LastError = err

		if !IsRetryable(err) {
			result.TotalDuration = time.Since(start)
			return result, err
		}

		if attempt == config.MaxAttempts {
			break
		}

		waitTime := calculateBackoff(backoff, config.JitterFactor)

		select {
		case <-ctx.Done():
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(start)
			return result, ctx.Err()
		case <-time.After(waitTime):
		}

		backoff = nextBackoff(backoff, config.BackoffFactor, config.MaxBackoff)
	}

	result.TotalDuration = time.Since(start)
	return result, result.LastError
}

// calculateBackoff applies jitter around the base wait.
func calculateBackoff(base time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return base
	}
	jitter := (rand.Float64()*2 - 1) * jitterFactor
	return time.Duration(float64(base) * (1.0 + jitter))
}

func nextBackoff(current time.Duration, factor float64, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * factor)
	if next > max {
		return max
	}
	return next
}
