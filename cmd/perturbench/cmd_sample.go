// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/perturbench/perturbench/pkg/ux"
	"github.com/perturbench/perturbench/services/dataset"
)

func runSample(cmd *cobra.Command, _ []string) {
	dir := rawDir
	if dir == "" {
		dir = filepath.Join(cfg.DataDir, "raw")
	}
	out := samplePool
	if out == "" {
		out = filepath.Join(cfg.DataDir, "pool.csv")
	}

	byDataset, err := dataset.LoadRawDir(dir)
	if err != nil {
		slog.Error("Failed to load raw datasets", "dir", dir, "error", err)
		return
	}
	total := 0
	for name, records := range byDataset {
		total += len(records)
		slog.Info("Loaded raw dataset", "dataset", name, "records", len(records))
	}
	if total == 0 {
		slog.Error("No records found in raw dataset directory", "dir", dir)
		return
	}

	// Records already drawn into earlier pools stay excluded so pools
	// never overlap.
	exclude := make(map[string]bool)
	for _, path := range excludePools {
		prior, err := dataset.Load(path)
		if err != nil {
			slog.Error("Failed to load exclusion pool", "path", path, "error", err)
			return
		}
		for _, rec := range prior {
			exclude[rec.ID] = true
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	sample := dataset.DrawSample(byDataset, sampleSize, exclude, rng)
	if len(sample) < sampleSize {
		ux.Warn(fmt.Sprintf("Only %d of %d requested records available after exclusions", len(sample), sampleSize))
	}

	if err := dataset.Save(out, sample); err != nil {
		slog.Error("Failed to write sample pool", "path", out, "error", err)
		return
	}

	ux.Success(fmt.Sprintf("Wrote %d records to %s", len(sample), out))
	ux.KeyValue("Datasets", fmt.Sprintf("%d", len(byDataset)))
	ux.KeyValue("Excluded", fmt.Sprintf("%d", len(exclude)))
}
