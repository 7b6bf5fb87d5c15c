package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetryConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  RetryConfig
		wantErr bool
	}{
		{"default config is valid", DefaultRetryConfig(), false},
		{"zero max attempts is invalid", RetryConfig{MaxAttempts: 0, InitialBackoff: time.Second, MaxBackoff: time.Second, BackoffFactor: 2.0}, true},
		{"negative initial backoff is invalid", RetryConfig{MaxAttempts: 3, InitialBackoff: -time.Second, MaxBackoff: time.Second, BackoffFactor: 2.0}, true},
		{"max below initial is invalid", RetryConfig{MaxAttempts: 3, InitialBackoff: 10 * time.Second, MaxBackoff: time.Second, BackoffFactor: 2.0}, true},
		{"factor below 1 is invalid", RetryConfig{MaxAttempts: 3, InitialBackoff: time.Second, MaxBackoff: time.Second, BackoffFactor: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	var attempts int
	result, err := Retry(context.Background(), fastRetry(3), func(ctx context.Context, attempt int) error {
		attempts++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 || result.Attempts != 1 {
		t.Errorf("expected exactly one attempt, got attempts=%d result=%d", attempts, result.Attempts)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	var attempts int
	result, err := Retry(context.Background(), fastRetry(5), func(ctx context.Context, attempt int) error {
		attempts++
		if attempts < 3 {
			return &RequestError{Kind: KindTransient, Err: errors.New("upstream 503")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
}

func TestRetry_InvalidFailsImmediately(t *testing.T) {
	var attempts int
	_, err := Retry(context.Background(), fastRetry(5), func(ctx context.Context, attempt int) error {
		attempts++
		return &RequestError{Kind: KindInvalid, Err: errors.New("bad credentials")}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("invalid errors must not be retried, got %d attempts", attempts)
	}
	if !IsInvalid(err) {
		t.Errorf("expected invalid kind, got %v", Kind(err))
	}
}

func TestRetry_BudgetSpent(t *testing.T) {
	var attempts int
	result, err := Retry(context.Background(), fastRetry(3), func(ctx context.Context, attempt int) error {
		attempts++
		return &RequestError{Kind: KindTransient, Err: errors.New("timeout")}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 || result.Attempts != 3 {
		t.Errorf("expected full budget of 3 attempts, got %d", attempts)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var attempts int
	_, err := Retry(ctx, fastRetry(3), func(ctx context.Context, attempt int) error {
		attempts++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Errorf("cancelled context must not attempt, got %d attempts", attempts)
	}
}
