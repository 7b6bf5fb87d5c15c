// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package eval

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// Cell summarizes every tuple of one (dataset, perturbation) pair.
type Cell struct {
	Scored  int `json:"scored"`
	Correct int `json:"correct"`
	Failed  int `json:"failed"`
	// Accuracy is only meaningful when Scored > 0; use HasData.
	Accuracy    float64       `json:"accuracy"`
	LatencyMean time.Duration `json:"latency_mean_ns"`
	LatencyP50  time.Duration `json:"latency_p50_ns"`
	LatencyP95  time.Duration `json:"latency_p95_ns"`
}

// HasData reports whether any tuple in this cell was scored. Cells
// without scored tuples render as N/A, never as zero accuracy.
func (c Cell) HasData() bool { return c.Scored > 0 }

// Report is the aggregated outcome of a benchmark run. Aggregation is a
// pure function of the results, so recomputing over the same journal
// yields an identical report.
type Report struct {
	Model         string                     `json:"model"`
	Datasets      []string                   `json:"datasets"`
	Perturbations []string                   `json:"perturbations"`
	Cells         map[string]map[string]Cell `json:"cells"`

	TotalScored     int     `json:"total_scored"`
	TotalCorrect    int     `json:"total_correct"`
	TotalFailed     int     `json:"total_failed"`
	OverallAccuracy float64 `json:"overall_accuracy"`
	FailureRate     float64 `json:"failure_rate"`
}

// PerturbationLabel names a perturbation column, folding intensity in.
func PerturbationLabel(ptype string, intensity int) string {
	if ptype == "none" {
		return "none"
	}
	return fmt.Sprintf("%s@%d", ptype, intensity)
}

// Cell returns the cell for a dataset/perturbation pair.
func (r Report) Cell(dataset, perturbation string) (Cell, bool) {
	row, ok := r.Cells[dataset]
	if !ok {
		return Cell{}, false
	}
	c, ok := row[perturbation]
	return c, ok
}

// Aggregate groups results by (dataset, perturbation label) and computes
// per-cell accuracy over scored tuples only. Failed tuples never enter
// an accuracy denominator; they surface through the failure rate.
func Aggregate(model string, results []Result) Report {
	report := Report{
		Model: model,
		Cells: make(map[string]map[string]Cell),
	}

	latencies := make(map[string]map[string][]float64)
	datasetSet := make(map[string]bool)
	perturbSet := make(map[string]bool)

	for _, res := range results {
		dataset := res.Tuple.Dataset
		label := PerturbationLabel(res.Tuple.Perturbation, res.Tuple.Intensity)
		datasetSet[dataset] = true
		perturbSet[label] = true

		if report.Cells[dataset] == nil {
			report.Cells[dataset] = make(map[string]Cell)
			latencies[dataset] = make(map[string][]float64)
		}
		cell := report.Cells[dataset][label]

		if res.Failed() {
			cell.Failed++
			report.TotalFailed++
		} else {
			cell.Scored++
			report.TotalScored++
			if res.Correct {
				cell.Correct++
				report.TotalCorrect++
			}
			latencies[dataset][label] = append(latencies[dataset][label], float64(res.Latency))
		}
		report.Cells[dataset][label] = cell
	}

	for dataset, row := range report.Cells {
		for label, cell := range row {
			if cell.Scored > 0 {
				cell.Accuracy = float64(cell.Correct) / float64(cell.Scored)
			}
			if samples := latencies[dataset][label]; len(samples) > 0 {
				mean, _ := stats.Mean(samples)
				p50, _ := stats.Median(samples)
				p95, _ := stats.Percentile(samples, 95)
				cell.LatencyMean = time.Duration(mean)
				cell.LatencyP50 = time.Duration(p50)
				cell.LatencyP95 = time.Duration(p95)
			}
			row[label] = cell
		}
	}

	if report.TotalScored > 0 {
		report.OverallAccuracy = float64(report.TotalCorrect) / float64(report.TotalScored)
	}
	if total := report.TotalScored + report.TotalFailed; total > 0 {
		report.FailureRate = float64(report.TotalFailed) / float64(total)
	}

	report.Datasets = sortedKeys(datasetSet)
	report.Perturbations = sortedKeys(perturbSet)
	return report
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
