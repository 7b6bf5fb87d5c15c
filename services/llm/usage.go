package llm

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perturbench_llm_requests_total",
		Help: "LLM requests by final outcome.",
	}, []string{"outcome"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perturbench_llm_retries_total",
		Help: "Retry attempts beyond the first request attempt.",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "perturbench_llm_request_duration_seconds",
		Help:    "End-to-end request latency including admission wait and retries.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)

// Usage is the shared request ledger for coarse cost and throughput
// reporting. One instance per run, incremented by every client call.
type Usage struct {
	requests        atomic.Int64
	retries         atomic.Int64
	failures        atomic.Int64
	completionChars atomic.Int64
}

// UsageSnapshot is a point-in-time copy of the counters.
type UsageSnapshot struct {
	Requests        int64 `json:"requests"`
	Retries         int64 `json:"retries"`
	Failures        int64 `json:"failures"`
	CompletionChars int64 `json:"completion_chars"`
}

// NewUsage creates an empty usage ledger.
func NewUsage() *Usage { return &Usage{} }

func (u *Usage) recordSuccess(attempts int, completionLen int) {
	u.requests.Add(int64(attempts))
	u.completionChars.Add(int64(completionLen))
	if attempts > 1 {
		u.retries.Add(int64(attempts - 1))
		retriesTotal.Add(float64(attempts - 1))
	}
	requestsTotal.WithLabelValues("ok").Inc()
}

func (u *Usage) recordFailure(attempts int, kind ErrorKind) {
	u.requests.Add(int64(attempts))
	u.failures.Add(1)
	if attempts > 1 {
		u.retries.Add(int64(attempts - 1))
		retriesTotal.Add(float64(attempts - 1))
	}
	requestsTotal.WithLabelValues(kind.String()).Inc()
}

// Snapshot returns a consistent-enough copy for reporting. Individual
// counters are read atomically; cross-counter skew during an active run
// is acceptable for coarse reporting.
func (u *Usage) Snapshot() UsageSnapshot {
	return UsageSnapshot{
		Requests:        u.requests.Load(),
		Retries:         u.retries.Load(),
		Failures:        u.failures.Load(),
		CompletionChars: u.completionChars.Load(),
	}
}
