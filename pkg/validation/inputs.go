// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for run configuration values.
//
// Everything validated here ends up in prompts, file paths, or journal keys,
// so the checks are strict allow-lists rather than best-effort sanitizing.
package validation

import (
	"fmt"
	"regexp"
)

// Datasets is the fixed set of source datasets a QA record may come from.
var Datasets = []string{"eli5", "gooaq", "msmarco", "naturalquestions", "squad2"}

// Perturbations is the set of supported perturbation types.
// "none" is the unperturbed control and is always valid.
var Perturbations = []string{"none", "typo", "synonym", "language", "paraphrase", "sentence-inj", "bias"}

// Intensities is the set of supported perturbation intensities.
var Intensities = []int{25, 50, 75, 100}

// Filters is the set of supported filter criteria, in default chain order.
var Filters = []string{"causal_chain", "answer", "question"}

// Preprocs is the set of supported pre-processing strategies.
var Preprocs = []string{"none", "translate", "filter", "correct"}

// Inprocs is the set of supported in-processing strategies.
var Inprocs = []string{
	"none", "direct", "cot", "translate", "subproblems",
	"few_shot1", "few_shot3", "few_shot5", "few_shot7",
	"few_shot_gooaq", "robust",
}

// Postprocs is the set of supported post-processing strategies.
var Postprocs = []string{"none", "list1", "list2", "length", "self_consistency"}

// modelPattern matches OpenAI-compatible model identifiers, including
// namespaced ones like "gwdg.llama-3.3-70b-instruct".
var modelPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-/:]{0,127}$`)

// recordIDPattern keeps record ids safe for journal keys and CSV cells.
var recordIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]{0,63}$`)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Dataset validates a dataset name against the fixed set.
func Dataset(name string) error {
	if !oneOf(name, Datasets) {
		return fmt.Errorf("unknown dataset %q (valid: %v)", name, Datasets)
	}
	return nil
}

// Perturbation validates a perturbation type name.
func Perturbation(name string) error {
	if !oneOf(name, Perturbations) {
		return fmt.Errorf("unknown perturbation %q (valid: %v)", name, Perturbations)
	}
	return nil
}

// Intensity validates a perturbation intensity. Zero means "use the
// type-specific default" and is accepted.
func Intensity(v int) error {
	if v == 0 {
		return nil
	}
	for _, i := range Intensities {
		if v == i {
			return nil
		}
	}
	return fmt.Errorf("invalid intensity %d (valid: %v or 0 for default)", v, Intensities)
}

// Filter validates a filter criterion name.
func Filter(name string) error {
	if !oneOf(name, Filters) {
		return fmt.Errorf("unknown filter %q (valid: %v)", name, Filters)
	}
	return nil
}

// Strategy validates a pre/in/post-processing strategy triple.
func Strategy(preproc, inproc, postproc string) error {
	if !oneOf(preproc, Preprocs) {
		return fmt.Errorf("unknown preprocessing strategy %q (valid: %v)", preproc, Preprocs)
	}
	if !oneOf(inproc, Inprocs) {
		return fmt.Errorf("unknown inprocessing strategy %q (valid: %v)", inproc, Inprocs)
	}
	if !oneOf(postproc, Postprocs) {
		return fmt.Errorf("unknown postprocessing strategy %q (valid: %v)", postproc, Postprocs)
	}
	return nil
}

// Model validates a model identifier before it is sent to the endpoint.
func Model(id string) error {
	if id == "" {
		return fmt.Errorf("model id cannot be empty")
	}
	if !modelPattern.MatchString(id) {
		return fmt.Errorf("invalid model id %q", id)
	}
	return nil
}

// RecordID validates a QA record identifier.
func RecordID(id string) error {
	if id == "" {
		return fmt.Errorf("record id cannot be empty")
	}
	if !recordIDPattern.MatchString(id) {
		return fmt.Errorf("invalid record id %q", id)
	}
	return nil
}

// Temperature validates a sampling temperature.
func Temperature(t float32) error {
	if t < 0 || t > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", t)
	}
	return nil
}
