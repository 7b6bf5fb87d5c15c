package llm

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  ErrorKind
		retryable bool
	}{
		{"rate limited", &RequestError{Kind: KindRateLimited, Err: errors.New("429")}, KindRateLimited, true},
		{"transient", &RequestError{Kind: KindTransient, Err: errors.New("503")}, KindTransient, true},
		{"invalid", &RequestError{Kind: KindInvalid, Err: errors.New("401")}, KindInvalid, false},
		{"exhausted", &RequestError{Kind: KindExhausted, Err: errors.New("gave up")}, KindExhausted, false},
		{"plain error defaults to transient", errors.New("who knows"), KindTransient, true},
		{"wrapped request error", fmt.Errorf("outer: %w", &RequestError{Kind: KindInvalid, Err: errors.New("400")}), KindInvalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got, tt.wantKind)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestRequestError_Message(t *testing.T) {
	err := &RequestError{Kind: KindExhausted, Attempts: 7, Err: errors.New("timeout")}
	msg := err.Error()
	if !strings.Contains(msg, "exhausted") || !strings.Contains(msg, "7 attempts") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestIsExhausted(t *testing.T) {
	if !IsExhausted(&RequestError{Kind: KindExhausted, Err: errors.New("x")}) {
		t.Error("expected exhausted detection")
	}
	if IsExhausted(&RequestError{Kind: KindTransient, Err: errors.New("x")}) {
		t.Error("transient must not read as exhausted")
	}
}
