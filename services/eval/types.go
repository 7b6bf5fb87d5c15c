// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package eval runs the benchmark matrix: each tuple pairs a perturbed
// question with a processing configuration, drives it through the model
// and scores the processed answer against the reference.
package eval

import (
	"fmt"
	"strconv"
	"time"
)

// State tracks a tuple through the evaluation pipeline.
type State string

const (
	StatePending       State = "PENDING"
	StatePreprocessed  State = "PREPROCESSED"
	StateQueried       State = "QUERIED"
	StatePostprocessed State = "POSTPROCESSED"
	StateScored        State = "SCORED"
	StateFailed        State = "FAILED"
)

// Tuple is one unit of evaluation work.
type Tuple struct {
	RecordID     string  `json:"record_id"`
	Dataset      string  `json:"dataset"`
	Perturbation string  `json:"perturbation"`
	Intensity    int     `json:"intensity"`
	Preproc      string  `json:"preproc"`
	Inproc       string  `json:"inproc"`
	Postproc     string  `json:"postproc"`
	Temperature  float32 `json:"temperature"`
}

// Key identifies the tuple within one model's result space. Temperature
// is part of the identity: the same configuration at a different
// temperature is different work, so resumes must not conflate them.
func (t Tuple) Key() string {
	return fmt.Sprintf("%s/%s/%d/%s/%s/%s/%s",
		t.RecordID, t.Perturbation, t.Intensity, t.Preproc, t.Inproc, t.Postproc,
		formatTemp(t.Temperature))
}

// formatTemp renders a temperature compactly for keys ("0", "0.7", "1").
func formatTemp(t float32) string {
	return strconv.FormatFloat(float64(t), 'g', -1, 32)
}

// Result is the outcome of evaluating one tuple.
type Result struct {
	Tuple         Tuple         `json:"tuple"`
	Question      string        `json:"question"`
	RawResponse   string        `json:"raw_response"`
	Answer        string        `json:"answer"`
	Reference     string        `json:"reference"`
	Correct       bool          `json:"correct"`
	Latency       time.Duration `json:"latency_ns"`
	Retries       int           `json:"retries"`
	CallsUsed     int           `json:"calls_used"`
	State         State         `json:"state"`
	FailureReason string        `json:"failure_reason,omitempty"`
}

// Failed reports whether the tuple ended in the FAILED state.
func (r Result) Failed() bool {
	return r.State == StateFailed
}
