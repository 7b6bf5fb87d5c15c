// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/perturbench/perturbench/pkg/ux"
	"github.com/perturbench/perturbench/services/eval"
	"github.com/perturbench/perturbench/services/storage"
)

func runReport(cmd *cobra.Command, _ []string) {
	journal, err := openJournal()
	if err != nil {
		slog.Error("Failed to open journal", "dir", cfg.JournalDir, "error", err)
		return
	}
	defer journal.Close()

	var results []eval.Result
	err = journal.ForEach(storage.ResultPrefix(cfg.Model),
		func() any { return &eval.Result{} },
		func(_ string, v any) error {
			results = append(results, *v.(*eval.Result))
			return nil
		})
	if err != nil {
		slog.Error("Failed to read results", "error", err)
		return
	}
	if len(results) == 0 {
		ux.Warn(fmt.Sprintf("No journaled results for model %s", cfg.Model))
		return
	}

	report := eval.Aggregate(cfg.Model, results)

	headers, rows := reportMatrix(report)
	ux.Title(fmt.Sprintf("Accuracy by dataset and perturbation for %s", report.Model))
	fmt.Println(ux.Table(headers, rows))

	ux.KeyValue("Scored", fmt.Sprintf("%d", report.TotalScored))
	ux.KeyValue("Correct", fmt.Sprintf("%d", report.TotalCorrect))
	ux.KeyValue("Failed", fmt.Sprintf("%d", report.TotalFailed))
	ux.KeyValue("Overall accuracy", fmt.Sprintf("%.3f", report.OverallAccuracy))
	ux.KeyValue("Failure rate", fmt.Sprintf("%.3f", report.FailureRate))

	if reportCSV != "" {
		if err := writeReportCSV(reportCSV, headers, rows); err != nil {
			slog.Error("Failed to write CSV report", "path", reportCSV, "error", err)
			return
		}
		ux.Success(fmt.Sprintf("Wrote accuracy matrix to %s", reportCSV))
	}
}

// reportMatrix flattens the report into one row per dataset with one
// accuracy column per perturbation label. Cells with no scored tuples
// render as N/A.
func reportMatrix(r eval.Report) ([]string, [][]string) {
	headers := append([]string{"dataset"}, r.Perturbations...)
	headers = append(headers, "latency_p50")

	rows := make([][]string, 0, len(r.Datasets))
	for _, ds := range r.Datasets {
		row := []string{ds}
		var p50 time.Duration
		seen := 0
		for _, pert := range r.Perturbations {
			cell, ok := r.Cell(ds, pert)
			if !ok || !cell.HasData() {
				row = append(row, "N/A")
				continue
			}
			row = append(row, fmt.Sprintf("%.3f", cell.Accuracy))
			p50 += cell.LatencyP50
			seen++
		}
		if seen > 0 {
			row = append(row, (p50 / time.Duration(seen)).Round(time.Millisecond).String())
		} else {
			row = append(row, "N/A")
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func writeReportCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
