// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/perturbench/perturbench/services/llm"
	"github.com/perturbench/perturbench/services/prompt"
	"github.com/perturbench/perturbench/services/storage"
)

// selfConsistencySamples is the number of diverse answers drawn before
// the consolidation call.
const selfConsistencySamples = 3

// HarnessConfig wires a Harness.
type HarnessConfig struct {
	Client llm.Client
	Model  string
	// Journal persists results per tuple; nil disables resume support.
	Journal *storage.Journal
	// Scorer decides correctness; defaults to the lexical scorer.
	Scorer Scorer
	// Seed drives few-shot exemplar sampling.
	Seed   int64
	Logger *slog.Logger
}

// Harness walks one tuple through preprocessing, the model query,
// postprocessing and scoring. Model-side failures end the tuple in the
// FAILED state; only context cancellation aborts the caller's run.
//
// Safe for concurrent Evaluate calls: the seeded rng is the only shared
// mutable state and rngMu serializes it.
type Harness struct {
	client  llm.Client
	model   string
	journal *storage.Journal
	scorer  Scorer
	rngMu   sync.Mutex
	rng     *rand.Rand
	logger  *slog.Logger
}

func NewHarness(cfg HarnessConfig) *Harness {
	scorer := cfg.Scorer
	if scorer == nil {
		scorer = NewLexicalScorer()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Harness{
		client:  cfg.Client,
		model:   cfg.Model,
		journal: cfg.Journal,
		scorer:  scorer,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		logger:  logger,
	}
}

// Evaluate runs one tuple. question is the (possibly perturbed) question
// text and reference the expected answer. A previously journaled result
// for the same tuple is returned as-is without touching the model.
//
// The returned error is non-nil only when the context is done; every
// other failure is captured in the Result's FAILED state.
func (h *Harness) Evaluate(ctx context.Context, t Tuple, question, reference string) (Result, error) {
	if h.journal != nil {
		var stored Result
		found, err := h.journal.Get(h.resultKey(t), &stored)
		if err != nil {
			return Result{}, err
		}
		if found {
			return stored, nil
		}
	}

	res := Result{
		Tuple:     t,
		Question:  question,
		Reference: reference,
		State:     StatePending,
	}

	// Preprocessing rewrites the question before anything else sees it.
	preprocPrompt, needsCall, err := prompt.PreprocPrompt(t.Preproc, question)
	if err != nil {
		return res, err
	}
	if needsCall {
		rewritten, failed, err := h.call(ctx, &res, preprocPrompt, llm.Temp(0))
		if err != nil {
			return res, err
		}
		if failed {
			return h.finish(res), nil
		}
		question, _ = prompt.ExtractResult(rewritten, false)
	}
	res.State = StatePreprocessed

	// Assemble the final query: in-processing suffix on the question,
	// post-processing constraint in front of it. rand.Rand is not safe
	// for concurrent use, so exemplar sampling is serialized.
	h.rngMu.Lock()
	suffix, err := prompt.InprocSuffix(t.Inproc, h.rng)
	h.rngMu.Unlock()
	if err != nil {
		return res, err
	}
	constraint, err := prompt.PostprocConstraint(t.Postproc, t.Dataset)
	if err != nil {
		return res, err
	}
	query := question + suffix
	if constraint != "" {
		query = constraint + "Question: " + query
	}

	var raw string
	if t.Postproc == "self_consistency" {
		raw, err = h.selfConsistency(ctx, &res, query)
	} else {
		raw, _, err = h.call(ctx, &res, query, llm.Temp(t.Temperature))
	}
	if err != nil {
		return res, err
	}
	if res.FailureReason != "" {
		return h.finish(res), nil
	}
	res.RawResponse = raw
	res.State = StateQueried

	// Lenient extraction: answers without tags are used as-is.
	answer, _ := prompt.ExtractResult(raw, false)
	res.Answer = answer
	res.State = StatePostprocessed

	res.Correct = h.scorer.Score(answer, reference)
	res.State = StateScored
	return h.finish(res), nil
}

// selfConsistency draws diverse samples at temperature 1 and consolidates
// them with one final call.
func (h *Harness) selfConsistency(ctx context.Context, res *Result, query string) (string, error) {
	answers := make([]string, 0, selfConsistencySamples)
	for i := 0; i < selfConsistencySamples; i++ {
		raw, failed, err := h.call(ctx, res, query, llm.Temp(1))
		if err != nil || failed {
			return "", err
		}
		answer, _ := prompt.ExtractResult(raw, false)
		answers = append(answers, answer)
	}

	raw, _, err := h.call(ctx, res, prompt.ConsolidationPrompt(answers), llm.Temp(res.Tuple.Temperature))
	return raw, err
}

// call issues one model request, accounting calls, retries and latency on
// the result. failed is true when the tuple should end FAILED; err is
// non-nil only on context cancellation.
func (h *Harness) call(ctx context.Context, res *Result, p string, temp *float32) (string, bool, error) {
	completion, err := h.client.Complete(ctx, p, llm.Options{Temperature: temp})
	res.CallsUsed++
	// The client reports Attempts on both paths, so failed calls are
	// counted here exactly once.
	if completion.Attempts > 1 {
		res.Retries += completion.Attempts - 1
	}
	res.Latency += completion.Latency

	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return "", false, err
		}
		res.State = StateFailed
		res.FailureReason = fmt.Sprintf("%s: %v", llm.Kind(err), err)
		h.logger.Warn("tuple failed",
			"record", res.Tuple.RecordID,
			"perturbation", res.Tuple.Perturbation,
			"kind", llm.Kind(err).String())
		return "", true, nil
	}
	return completion.Text, false, nil
}

// finish journals the result when a journal is configured.
func (h *Harness) finish(res Result) Result {
	if res.State != StateScored {
		res.State = StateFailed
	}
	if h.journal != nil {
		if err := h.journal.Put(h.resultKey(res.Tuple), res); err != nil {
			h.logger.Error("journal result", "error", err)
		}
	}
	return res
}

func (h *Harness) resultKey(t Tuple) string {
	return storage.ResultKey(h.model, t.Key())
}
