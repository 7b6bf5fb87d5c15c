// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package perturb produces controlled corruptions of question text. The
// typo level runs locally with seeded randomness; every other level asks
// the model for a rewrite and insists on tagged output.
package perturb

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/perturbench/perturbench/services/llm"
	"github.com/perturbench/perturbench/services/prompt"
)

// Types lists the perturbation levels the generator can produce. The
// identity level "none" is handled by callers and never reaches Apply.
var Types = []string{"typo", "synonym", "language", "paraphrase", "sentence-inj", "bias"}

// PerturbationError marks a variant that could not be produced. Callers
// record the skip and move on rather than aborting the run.
type PerturbationError struct {
	Type      string
	Intensity int
	Err       error
}

func (e *PerturbationError) Error() string {
	return fmt.Sprintf("perturbation %s@%d failed: %v", e.Type, e.Intensity, e.Err)
}

func (e *PerturbationError) Unwrap() error { return e.Err }

// Generator produces perturbed variants of questions.
type Generator struct {
	client llm.Client
	rng    *rand.Rand
	logger *slog.Logger
}

// NewGenerator returns a Generator whose local randomness (typo noise,
// language choice) derives from seed.
func NewGenerator(client llm.Client, seed int64, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client: client,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Apply produces one perturbed variant of question. An intensity of zero
// selects the default. The typo level never touches the model; all other
// levels issue one model call and require <result> tags in the response.
func (g *Generator) Apply(ctx context.Context, ptype, question string, intensity int) (string, error) {
	if intensity == 0 {
		intensity = prompt.DefaultIntensity
	}
	if err := validIntensity(intensity); err != nil {
		return "", err
	}
	if strings.TrimSpace(question) == "" {
		return question, nil
	}

	var p string
	switch ptype {
	case "typo":
		return CorruptText(question, intensity, g.rng), nil
	case "synonym":
		p = prompt.SynonymPrompt(question, intensity)
	case "language":
		language := prompt.Languages[g.rng.Intn(len(prompt.Languages))]
		p = prompt.LanguagePrompt(question, intensity, language)
	case "paraphrase":
		p = prompt.ParaphrasePrompt(question, intensity)
	case "sentence-inj":
		p = prompt.SentenceInjectionPrompt(question, intensity)
	case "bias":
		p = prompt.BiasPrompt(question, intensity)
	default:
		return "", fmt.Errorf("invalid perturbation type specified: %s", ptype)
	}

	completion, err := g.client.Complete(ctx, p, llm.Options{})
	if err != nil {
		return "", &PerturbationError{Type: ptype, Intensity: intensity, Err: err}
	}

	variant, err := prompt.ExtractResult(completion.Text, true)
	if err != nil {
		g.logger.Warn("perturbation response missing result tags",
			"type", ptype, "intensity", intensity)
		return "", &PerturbationError{Type: ptype, Intensity: intensity, Err: err}
	}
	return variant, nil
}

func validIntensity(intensity int) error {
	switch intensity {
	case 25, 50, 75, 100:
		return nil
	}
	return fmt.Errorf("intensity must be one of 25, 50, 75, 100, got %d", intensity)
}
