// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/perturbench/perturbench/pkg/ux"
	"github.com/perturbench/perturbench/pkg/validation"
	"github.com/perturbench/perturbench/services/dataset"
	"github.com/perturbench/perturbench/services/eval"
	"github.com/perturbench/perturbench/services/monitor"
	"github.com/perturbench/perturbench/services/storage"
)

// workItem pairs a tuple with the question text to evaluate.
type workItem struct {
	tuple     eval.Tuple
	question  string
	reference string
}

// runInfo is the journaled metadata for one eval invocation.
type runInfo struct {
	Model     string    `json:"model"`
	Pool      string    `json:"pool"`
	Tuples    int       `json:"tuples"`
	StartedAt time.Time `json:"started_at"`
}

func runEval(cmd *cobra.Command, args []string) {
	pool := args[0]

	for _, pre := range evalPreprocs {
		for _, in := range evalInprocs {
			for _, post := range evalPostprocs {
				if err := validation.Strategy(pre, in, post); err != nil {
					slog.Error("Invalid strategy combination", "error", err)
					return
				}
			}
		}
	}

	records, err := dataset.Load(pool)
	if err != nil {
		slog.Error("Failed to load record pool", "path", pool, "error", err)
		return
	}

	work, missing := buildWork(records)
	if evalLimit > 0 && len(work) > evalLimit {
		work = work[:evalLimit]
	}
	if len(work) == 0 {
		slog.Error("No evaluable tuples; did you run perturb first?")
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

	harness := eval.NewHarness(eval.HarnessConfig{
		Client:  client,
		Model:   cfg.Model,
		Journal: journal,
		Seed:    cfg.Seed,
		Logger:  slog.Default(),
	})

	runID := uuid.NewString()
	info := runInfo{Model: cfg.Model, Pool: pool, Tuples: len(work), StartedAt: time.Now()}
	if err := journal.Put(storage.RunKey(runID), info); err != nil {
		slog.Error("Journal write failed", "error", err)
		return
	}

	tracker := monitor.NewTracker(len(work))
	if cfg.Monitor.Enabled {
		srv := monitor.NewServer(tracker, usage, slog.Default())
		srv.Start(cfg.Monitor.Addr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				slog.Warn("Monitor shutdown failed", "error", err)
			}
		}()
		ux.Info(fmt.Sprintf("Monitor listening on %s", cfg.Monitor.Addr))
	}

	ctx, stop := signalContext()
	defer stop()

	if err := verifyModel(ctx, client); err != nil {
		slog.Error("Model check failed", "error", err)
		return
	}

	ux.Title(fmt.Sprintf("Evaluating %s over %d tuples (run %s)", cfg.Model, len(work), runID))
	if missing > 0 {
		ux.Warn(fmt.Sprintf("%d tuples skipped: variants missing from the pool", missing))
	}
	bar := ux.NewProgressBar(os.Stdout, "eval", len(work))

	workers := evalWorkers
	if workers < 1 {
		workers = 1
	}

	var scored, correct, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range work {
		g.Go(func() error {
			res, err := harness.Evaluate(gctx, item.tuple, item.question, item.reference)
			if err != nil {
				return err
			}
			if res.Failed() {
				failed.Add(1)
				tracker.Fail()
			} else {
				scored.Add(1)
				if res.Correct {
					correct.Add(1)
				}
				tracker.Done()
			}
			bar.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("Evaluation stopped early, progress is journaled", "error", err)
		return
	}
	bar.Finish()

	snap := usage.Snapshot()
	ux.Success(fmt.Sprintf("Scored %d tuples (%d correct, %d failed)",
		scored.Load(), correct.Load(), failed.Load()))
	ux.KeyValue("Run", runID)
	ux.KeyValue("Requests", fmt.Sprintf("%d", snap.Requests))
	ux.KeyValue("Retries", fmt.Sprintf("%d", snap.Retries))
}

// buildWork expands the pool into the record x perturbation x intensity
// x strategy cross product. Tuples whose variant was never generated
// (or was skipped during perturbation) are counted, not evaluated.
func buildWork(records []dataset.QARecord) ([]workItem, int) {
	var work []workItem
	missing := 0
	for _, rec := range records {
		for _, ptype := range cfg.Perturbations {
			intensities := cfg.Intensities
			if ptype == "none" {
				intensities = []int{0}
			}
			for _, intensity := range intensities {
				question := rec.Question
				if ptype != "none" {
					var ok bool
					question, ok = rec.Variants[dataset.VariantKey(ptype, intensity)]
					if !ok {
						missing += len(evalPreprocs) * len(evalInprocs) * len(evalPostprocs)
						continue
					}
				}
				for _, pre := range evalPreprocs {
					for _, in := range evalInprocs {
						for _, post := range evalPostprocs {
							work = append(work, workItem{
								tuple: eval.Tuple{
									RecordID:     rec.ID,
									Dataset:      rec.Dataset,
									Perturbation: ptype,
									Intensity:    intensity,
									Preproc:      pre,
									Inproc:       in,
									Postproc:     post,
									Temperature:  cfg.Temperature,
								},
								question:  question,
								reference: rec.Answer,
							})
						}
					}
				}
			}
		}
	}
	return work, missing
}
