package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config configures the OpenAI-compatible client.
type Config struct {
	// APIKey authenticates against the endpoint. Required.
	APIKey string

	// BaseURL points at an OpenAI-compatible endpoint, e.g. a vLLM or
	// academic gateway deployment. Empty means api.openai.com.
	BaseURL string

	// Model is the model id used for every completion.
	Model string

	// Retry controls backoff behavior. Zero value uses DefaultRetryConfig.
	Retry RetryConfig

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// OpenAIClient implements Client against an OpenAI-compatible endpoint,
// with admission control and bounded retry built in.
type OpenAIClient struct {
	api     *openai.Client
	model   string
	limiter *Limiter
	usage   *Usage
	retry   RetryConfig
	logger  *slog.Logger
}

// NewOpenAIClient builds a client. The limiter and usage ledger are shared
// handles: pass the same instances to every component of a run.
func NewOpenAIClient(cfg Config, limiter *Limiter, usage *Usage) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key not set")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model not set")
	}
	if limiter == nil {
		limiter = NewLimiter(DefaultRequestsPerMinute)
	}
	if usage == nil {
		usage = NewUsage()
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}
	if err := retry.Validate(); err != nil {
		return nil, fmt.Errorf("retry config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"
	}

	return &OpenAIClient{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   cfg.Model,
		limiter: limiter,
		usage:   usage,
		retry:   retry,
		logger:  logger,
	}, nil
}

// Model returns the configured model id.
func (c *OpenAIClient) Model() string { return c.model }

// Complete implements Client.
//
// Admission runs before every attempt, so retries also consume budget.
// Transient failures back off and retry; invalid requests fail fast; a
// spent retry budget is reported as KindExhausted.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, opts Options) (Completion, error) {
	start := time.Now()

	var text string
	result, err := Retry(ctx, c.retry, func(ctx context.Context, attempt int) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req := openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		}
		if opts.Temperature != nil {
			req.Temperature = *opts.Temperature
		}
		if opts.MaxTokens != nil {
			req.MaxCompletionTokens = *opts.MaxTokens
		}

		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			classified := classify(err)
			c.logger.Warn("completion attempt failed",
				"attempt", attempt,
				"kind", Kind(classified).String(),
				"error", err)
			return classified
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return &RequestError{Kind: KindTransient, Err: errors.New("empty completion")}
		}
		text = stripReasoning(resp.Choices[0].Message.Content)
		return nil
	})

	latency := time.Since(start)
	requestDuration.Observe(latency.Seconds())

	if err != nil {
		kind := Kind(err)
		// A retryable failure that survived the whole budget becomes
		// Exhausted; the call site chooses skip or abort.
		if IsRetryable(err) && result.Attempts >= c.retry.MaxAttempts {
			kind = KindExhausted
			err = &RequestError{Kind: KindExhausted, Attempts: result.Attempts, Err: err}
		}
		c.usage.recordFailure(result.Attempts, kind)
		return Completion{Attempts: result.Attempts, Latency: latency}, err
	}

	c.usage.recordSuccess(result.Attempts, len(text))
	return Completion{Text: text, Attempts: result.Attempts, Latency: latency}, nil
}

// Models implements Client.
func (c *OpenAIClient) Models(ctx context.Context) ([]string, error) {
	resp, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, classify(err)
	}
	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// classify maps transport and API errors onto the failure taxonomy.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &RequestError{Kind: KindRateLimited, Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &RequestError{Kind: KindTransient, Err: err}
		case apiErr.HTTPStatusCode >= 400:
			return &RequestError{Kind: KindInvalid, Err: err}
		}
	}

	var authErr *openai.RequestError
	if errors.As(err, &authErr) {
		if authErr.HTTPStatusCode >= 400 && authErr.HTTPStatusCode < 500 && authErr.HTTPStatusCode != 429 {
			return &RequestError{Kind: KindInvalid, Err: err}
		}
		if authErr.HTTPStatusCode == 429 {
			return &RequestError{Kind: KindRateLimited, Err: err}
		}
		return &RequestError{Kind: KindTransient, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &RequestError{Kind: KindTransient, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RequestError{Kind: KindTransient, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &RequestError{Kind: KindTransient, Err: err}
}

// stripReasoning removes a <think>...</think> prefix that reasoning models
// prepend to their completions.
func stripReasoning(content string) string {
	if _, after, found := strings.Cut(content, "</think>"); found {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(content)
}
