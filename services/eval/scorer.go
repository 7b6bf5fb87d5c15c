// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"strings"
	"unicode"
)

// Scorer decides whether a processed answer matches the reference.
type Scorer interface {
	Score(answer, reference string) bool
}

// LexicalScorer scores by normalized token overlap. An answer counts as
// correct when the normalized reference appears verbatim inside it, or
// when the token F1 between the two reaches Threshold.
type LexicalScorer struct {
	Threshold float64
}

// NewLexicalScorer returns the default scorer with a 0.4 F1 threshold.
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{Threshold: 0.4}
}

func (s *LexicalScorer) Score(answer, reference string) bool {
	normAnswer := normalize(answer)
	normRef := normalize(reference)
	if normRef == "" {
		return normAnswer == ""
	}
	if strings.Contains(normAnswer, normRef) {
		return true
	}
	return tokenF1(strings.Fields(normAnswer), strings.Fields(normRef)) >= s.Threshold
}

// normalize lowercases, strips punctuation and collapses whitespace.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokenF1(answer, reference []string) float64 {
	if len(answer) == 0 || len(reference) == 0 {
		return 0
	}

	refCounts := make(map[string]int, len(reference))
	for _, tok := range reference {
		refCounts[tok]++
	}
	overlap := 0
	for _, tok := range answer {
		if refCounts[tok] > 0 {
			refCounts[tok]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	precision := float64(overlap) / float64(len(answer))
	recall := float64(overlap) / float64(len(reference))
	return 2 * precision * recall / (precision + recall)
}
