// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dataset

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadRawDir reads every CSV file in dir as one source dataset, keyed by
// the file name without extension. Raw files carry the same schema as
// pools but may omit the dataset column; it is filled from the file name.
func LoadRawDir(dir string) (map[string][]QARecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raw dir %s: %w", dir, err)
	}

	byDataset := make(map[string][]QARecord)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".csv")
		records, err := loadRawFile(filepath.Join(dir, entry.Name()), name)
		if err != nil {
			return nil, err
		}
		byDataset[name] = records
	}
	if len(byDataset) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", dir)
	}
	return byDataset, nil
}

func loadRawFile(path, datasetName string) ([]QARecord, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Dataset == "" {
			records[i].Dataset = datasetName
		}
	}
	return records, nil
}

// DrawSample collects target records by repeatedly picking a random
// non-empty source dataset and drawing one unseen record from it, so no
// single large dataset dominates the pool. IDs in exclude are never drawn.
// It returns fewer than target records only when the sources run dry.
func DrawSample(byDataset map[string][]QARecord, target int, exclude map[string]bool, rng *rand.Rand) []QARecord {
	if target < 1 {
		return nil
	}

	names := make([]string, 0, len(byDataset))
	remaining := make(map[string][]QARecord, len(byDataset))
	for name, records := range byDataset {
		pool := make([]QARecord, 0, len(records))
		for _, rec := range records {
			if !exclude[rec.ID] {
				pool = append(pool, rec)
			}
		}
		if len(pool) > 0 {
			names = append(names, name)
			remaining[name] = pool
		}
	}
	// Map iteration order is random; sort so equal seeds draw equally.
	sort.Strings(names)

	drawn := make([]QARecord, 0, target)
	for len(drawn) < target && len(names) > 0 {
		ni := rng.Intn(len(names))
		name := names[ni]
		pool := remaining[name]

		ri := rng.Intn(len(pool))
		drawn = append(drawn, pool[ri])

		pool[ri] = pool[len(pool)-1]
		remaining[name] = pool[:len(pool)-1]
		if len(remaining[name]) == 0 {
			names = append(names[:ni], names[ni+1:]...)
		}
	}

	rng.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	return drawn
}

// Sample draws n records from the pool without replacement.
func Sample(records []QARecord, n int, rng *rand.Rand) ([]QARecord, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample size must be at least 1, got %d", n)
	}
	if n > len(records) {
		return nil, fmt.Errorf("sample size %d exceeds pool size %d", n, len(records))
	}
	perm := rng.Perm(len(records))
	out := make([]QARecord, n)
	for i := 0; i < n; i++ {
		out[i] = records[perm[i]]
	}
	return out, nil
}
