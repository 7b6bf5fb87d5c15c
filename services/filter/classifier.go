// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package filter screens question-answer records through model-judged
// quality criteria before they enter the benchmark pool.
package filter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/perturbench/perturbench/services/llm"
	"github.com/perturbench/perturbench/services/prompt"
)

// Names lists the filter criteria in their canonical chain order: cheap
// structural checks last would waste calls, so question clarity runs first.
var Names = []string{"question", "answer", "causal_chain"}

// Verdict is one filter's decision on one record.
type Verdict struct {
	Filter    string `json:"filter"`
	Keep      bool   `json:"keep"`
	Parsed    bool   `json:"parsed"`
	Rationale string `json:"rationale"`
}

// Classifier runs a single filter criterion against the model.
//
// When the model response carries no parseable verdict the classifier does
// not fail the run; it applies the configured fallback (discard by default)
// and preserves the raw response as the rationale.
type Classifier struct {
	client      llm.Client
	keepOnParse bool
	logger      *slog.Logger
}

// NewClassifier builds a Classifier. keepOnParseFailure selects the
// fallback verdict for unparseable responses.
func NewClassifier(client llm.Client, keepOnParseFailure bool, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{client: client, keepOnParse: keepOnParseFailure, logger: logger}
}

// Evaluate judges one record against one filter criterion.
func (c *Classifier) Evaluate(ctx context.Context, filterName, question, answer string) (Verdict, error) {
	p, err := prompt.FilterPrompt(filterName, question, answer)
	if err != nil {
		return Verdict{}, err
	}

	completion, err := c.client.Complete(ctx, p, llm.Options{Temperature: llm.Temp(0)})
	if err != nil {
		return Verdict{}, fmt.Errorf("filter %s: %w", filterName, err)
	}

	verdict := Verdict{Filter: filterName, Rationale: completion.Text}
	result, err := prompt.ExtractResult(completion.Text, true)
	if err == nil {
		switch strings.TrimSpace(result) {
		case "1":
			verdict.Keep = true
			verdict.Parsed = true
			return verdict, nil
		case "0":
			verdict.Keep = false
			verdict.Parsed = true
			return verdict, nil
		}
	}

	c.logger.Warn("filter verdict not parseable, applying fallback",
		"filter", filterName, "keep", c.keepOnParse)
	verdict.Keep = c.keepOnParse
	return verdict, nil
}

// Chain runs several filters in order, short-circuiting on the first
// discard so later criteria spend no calls on rejected records.
type Chain struct {
	classifier *Classifier
	filters    []string
}

// NewChain validates the filter names and fixes their execution order.
func NewChain(classifier *Classifier, filters []string) (*Chain, error) {
	for _, f := range filters {
		known := false
		for _, n := range Names {
			if f == n {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown filter %q", f)
		}
	}
	return &Chain{classifier: classifier, filters: filters}, nil
}

// Run evaluates the record against every configured filter until one
// discards it. It returns the verdicts issued and whether the record
// survives the whole chain.
func (ch *Chain) Run(ctx context.Context, question, answer string) ([]Verdict, bool, error) {
	verdicts := make([]Verdict, 0, len(ch.filters))
	for _, name := range ch.filters {
		v, err := ch.classifier.Evaluate(ctx, name, question, answer)
		if err != nil {
			return verdicts, false, err
		}
		verdicts = append(verdicts, v)
		if !v.Keep {
			return verdicts, false, nil
		}
	}
	return verdicts, true, nil
}
