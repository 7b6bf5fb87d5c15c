// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/perturbench/perturbench/pkg/ux"
	"github.com/perturbench/perturbench/services/dataset"
	"github.com/perturbench/perturbench/services/perturb"
	"github.com/perturbench/perturbench/services/storage"
)

// variantEntry is the journaled outcome of one perturbation attempt.
// Skipped entries record extraction failures so resumes do not retry
// a question the model refuses to rewrite cleanly.
type variantEntry struct {
	Question string `json:"question"`
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func runPerturb(cmd *cobra.Command, args []string) {
	pool := args[0]
	out := derivedPath(poolPath, pool, "perturbed")

	types := perturbTypes
	if len(types) == 0 {
		types = cfg.Perturbations
	}
	intensities := perturbIntensities
	if len(intensities) == 0 {
		intensities = cfg.Intensities
	}

	// The unperturbed baseline needs no generated variant.
	var genTypes []string
	for _, t := range types {
		if t != "none" {
			genTypes = append(genTypes, t)
		}
	}

	records, err := dataset.Load(pool)
	if err != nil {
		slog.Error("Failed to load record pool", "path", pool, "error", err)
		return
	}

	client, _, usage, err := newClient()
	if err != nil {
		slog.Error("Failed to build endpoint client", "error", err)
		return
	}
	journal, err := openJournal()
	if err != nil {
		slog.Error("Failed to open journal", "dir", cfg.JournalDir, "error", err)
		return
	}
	defer journal.Close()

	gen := perturb.NewGenerator(client, cfg.Seed, slog.Default())

	ctx, stop := signalContext()
	defer stop()

	if err := verifyModel(ctx, client); err != nil {
		slog.Error("Model check failed", "error", err)
		return
	}

	total := len(records) * len(genTypes) * len(intensities)
	ux.Title(fmt.Sprintf("Generating %d variants (%d records x %v x %v)",
		total, len(records), genTypes, intensities))
	bar := ux.NewProgressBar(os.Stdout, "perturb", total)

	skipped, resumed := 0, 0
	for i := range records {
		rec := &records[i]
		if rec.Variants == nil {
			rec.Variants = make(map[string]string)
		}
		for _, ptype := range genTypes {
			for _, intensity := range intensities {
				key := storage.VariantKey(rec.ID, ptype, intensity)

				var entry variantEntry
				found, err := journal.Get(key, &entry)
				if err != nil {
					slog.Error("Journal read failed", "key", key, "error", err)
					return
				}
				if found {
					resumed++
				} else {
					variant, err := gen.Apply(ctx, ptype, rec.Question, intensity)
					switch {
					case err == nil:
						entry = variantEntry{Question: variant}
					case errors.Is(err, context.Canceled):
						slog.Warn("Interrupted, progress is journaled")
						return
					case stopsRun(err):
						// Bad credentials or model id will fail every cell.
						slog.Error("Endpoint rejected the request, stopping", "error", err)
						return
					default:
						// Exhausted retry budgets and extraction failures
						// skip the cell, not the run.
						slog.Warn("Perturbation skipped",
							"record", rec.ID, "type", ptype, "intensity", intensity, "error", err)
						entry = variantEntry{Skipped: true, Reason: err.Error()}
					}
					if err := journal.Put(key, entry); err != nil {
						slog.Error("Journal write failed", "key", key, "error", err)
						return
					}
				}

				if entry.Skipped {
					skipped++
				} else {
					rec.Variants[dataset.VariantKey(ptype, intensity)] = entry.Question
				}
				bar.Increment()
			}
		}
	}
	bar.Finish()

	if err := dataset.Save(out, records); err != nil {
		slog.Error("Failed to write perturbed pool", "path", out, "error", err)
		return
	}

	snap := usage.Snapshot()
	ux.Success(fmt.Sprintf("Wrote %d records with variants to %s", len(records), out))
	ux.KeyValue("Variants", fmt.Sprintf("%d", total-skipped))
	ux.KeyValue("Skipped", fmt.Sprintf("%d", skipped))
	ux.KeyValue("Resumed", fmt.Sprintf("%d", resumed))
	ux.KeyValue("Requests", fmt.Sprintf("%d", snap.Requests))
}
