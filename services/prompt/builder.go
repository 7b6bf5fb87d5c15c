// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package prompt builds the prompts used across the benchmark pipeline:
// few-shot filter classifications, one-shot perturbation instructions, and
// the pre/in/post-processing fragments of the evaluation harness.
//
// Every function here is pure and deterministic: the same inputs always
// produce the same prompt text, so a logged prompt can be replayed and
// inspected byte for byte.
package prompt

import (
	"fmt"
	"strings"
)

// resultOpen and resultClose delimit the machine-readable part of a
// completion. Models are instructed to wrap their final output in them.
const (
	resultOpen  = "<result>"
	resultClose = "</result>"
)

// ErrNoResultTags is returned by ExtractResult in strict mode when a
// completion lacks the expected tags.
type ErrNoResultTags struct {
	Response string
}

func (e *ErrNoResultTags) Error() string {
	return fmt.Sprintf("completion does not contain %s tags: %.80q", resultOpen, e.Response)
}

// ExtractResult pulls the text between <result> tags out of a completion.
//
// In strict mode a missing tag pair is an error; the perturbation path
// needs this because an untagged response is usually prompt echo, not a
// perturbed question. In lenient mode the trimmed raw response is
// returned instead, which is the right default when grading answers:
// better to score a sloppy completion than to drop the tuple.
func ExtractResult(response string, strict bool) (string, error) {
	if _, after, found := strings.Cut(response, resultOpen); found {
		if inner, _, closed := strings.Cut(after, resultClose); closed {
			return strings.TrimSpace(inner), nil
		}
	}
	if strict {
		return "", &ErrNoResultTags{Response: response}
	}
	return strings.TrimSpace(response), nil
}

// wordCount counts whitespace-separated tokens; all intensity arithmetic
// in this package is defined over these.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// scaledWords computes how many words an intensity covers, always at
// least one.
func scaledWords(total, intensity int) int {
	n := total * intensity / 100
	if n < 1 {
		return 1
	}
	return n
}
