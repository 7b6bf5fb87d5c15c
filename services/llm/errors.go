package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a request failure.
type ErrorKind int

const (
	// KindRateLimited means the endpoint pushed back with 429. The client
	// normally absorbs this by waiting; it surfaces only when the context
	// is cancelled during the wait.
	KindRateLimited ErrorKind = iota

	// KindTransient covers timeouts, 5xx responses and malformed
	// completions. Retried with backoff.
	KindTransient

	// KindInvalid covers unrecoverable failures: bad credentials,
	// malformed requests, unknown models. Never retried.
	KindInvalid

	// KindExhausted means the retry budget ran out. The call site decides
	// whether to skip the unit of work or abort the run.
	KindExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	case KindInvalid:
		return "invalid"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// RequestError is the typed failure returned by the request client.
type RequestError struct {
	Kind     ErrorKind
	Attempts int // attempts made before giving up
	Err      error
}

func (e *RequestError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("llm request %s after %d attempts: %v", e.Kind, e.Attempts, e.Err)
	}
	return fmt.Sprintf("llm request %s: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Kind extracts the error kind from err, or KindTransient if err is not a
// *RequestError (unknown failures are treated as retryable once).
func Kind(err error) ErrorKind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindTransient
}

// IsRetryable reports whether the failure may succeed on another attempt.
func IsRetryable(err error) bool {
	switch Kind(err) {
	case KindTransient, KindRateLimited:
		return true
	default:
		return false
	}
}

// IsExhausted reports whether the retry budget was spent on this failure.
func IsExhausted(err error) bool {
	return Kind(err) == KindExhausted
}

// IsInvalid reports whether the failure is unrecoverable.
func IsInvalid(err error) bool {
	return Kind(err) == KindInvalid
}
