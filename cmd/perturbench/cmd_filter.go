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
	"github.com/perturbench/perturbench/services/filter"
	"github.com/perturbench/perturbench/services/storage"
)

// filterOutcome is the journaled per-record filter decision.
type filterOutcome struct {
	Keep     bool             `json:"keep"`
	Verdicts []filter.Verdict `json:"verdicts"`
}

func runFilter(cmd *cobra.Command, args []string) {
	pool := args[0]
	out := derivedPath(poolPath, pool, "filtered")

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

	classifier := filter.NewClassifier(client, cfg.FilterKeepOnParseFailure, slog.Default())
	chain, err := filter.NewChain(classifier, cfg.Filters)
	if err != nil {
		slog.Error("Invalid filter chain", "filters", cfg.Filters, "error", err)
		return
	}

	ctx, stop := signalContext()
	defer stop()

	if err := verifyModel(ctx, client); err != nil {
		slog.Error("Model check failed", "error", err)
		return
	}

	ux.Title(fmt.Sprintf("Filtering %d records through %v", len(records), cfg.Filters))
	bar := ux.NewProgressBar(os.Stdout, "filter", len(records))

	var kept []dataset.QARecord
	resumed, skipped := 0, 0
	for _, rec := range records {
		key := storage.VerdictKey(rec.ID)

		var outcome filterOutcome
		found, err := journal.Get(key, &outcome)
		if err != nil {
			slog.Error("Journal read failed", "key", key, "error", err)
			return
		}
		if found {
			resumed++
		} else {
			verdicts, keep, err := chain.Run(ctx, rec.Question, rec.Answer)
			if err != nil {
				switch {
				case errors.Is(err, context.Canceled):
					slog.Warn("Interrupted, progress is journaled", "done", len(kept))
					return
				case stopsRun(err):
					slog.Error("Endpoint rejected the request, stopping", "error", err)
					return
				default:
					// An exhausted retry budget loses one record, not the
					// run. No verdict is journaled so a resume retries it.
					slog.Warn("Filter skipped", "record", rec.ID, "error", err)
					skipped++
					bar.Increment()
					continue
				}
			}
			outcome = filterOutcome{Keep: keep, Verdicts: verdicts}
			if err := journal.Put(key, outcome); err != nil {
				slog.Error("Journal write failed", "key", key, "error", err)
				return
			}
		}

		if outcome.Keep {
			kept = append(kept, rec)
		}
		bar.Increment()
	}
	bar.Finish()

	if err := dataset.Save(out, kept); err != nil {
		slog.Error("Failed to write filtered pool", "path", out, "error", err)
		return
	}

	snap := usage.Snapshot()
	ux.Success(fmt.Sprintf("Kept %d of %d records", len(kept), len(records)))
	ux.KeyValue("Output", out)
	ux.KeyValue("Resumed", fmt.Sprintf("%d", resumed))
	ux.KeyValue("Skipped", fmt.Sprintf("%d", skipped))
	ux.KeyValue("Requests", fmt.Sprintf("%d", snap.Requests))
}
