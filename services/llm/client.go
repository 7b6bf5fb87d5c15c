package llm

import (
	"context"
	"time"
)

// Options are per-request generation parameters.
type Options struct {
	Temperature *float32 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

// Completion is a successful response from the endpoint.
type Completion struct {
	// Text is the completion body, trimmed and with any reasoning
	// prefix removed.
	Text string

	// Attempts is the number of request attempts spent, including the
	// successful one.
	Attempts int

	// Latency is the end-to-end duration including admission wait and
	// backoff delays.
	Latency time.Duration
}

// Client is the single access path to the LLM endpoint. Every component
// that talks to the model routes through one shared Client instance so the
// requests-per-minute budget holds program-wide.
type Client interface {
	// Complete sends a single-turn prompt and returns the completion.
	// Failures carry a *RequestError classifying the outcome.
	Complete(ctx context.Context, prompt string, opts Options) (Completion, error)

	// Models lists the model ids available at the endpoint.
	Models(ctx context.Context) ([]string, error)
}

// Temp is a convenience for populating Options.Temperature inline.
func Temp(t float32) *float32 {
	return &t
}
