// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dataset reads and writes the question pools the benchmark runs
// on. Pools are CSV files with a fixed base schema plus one column per
// stored perturbation variant.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Names lists the source datasets, ordered by decreasing answer length.
var Names = []string{"eli5", "gooaq", "msmarco", "naturalquestions", "squad2"}

// variantPrefix marks CSV columns holding perturbed question variants.
const variantPrefix = "perturbed_"

// QARecord is one question-answer pair in a pool.
type QARecord struct {
	ID       string
	Question string
	Answer   string
	Dataset  string
	// Variants maps a variant key (see VariantKey) to perturbed question text.
	Variants map[string]string
}

// VariantKey names the stored variant for a perturbation type and intensity.
func VariantKey(ptype string, intensity int) string {
	return fmt.Sprintf("%s_%d", ptype, intensity)
}

// Load reads a pool file. The base columns id, question_processed,
// answer_processed and dataset are required; any perturbed_* column is
// loaded as a variant.
func Load(path string) ([]QARecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pool %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses pool CSV content.
func Read(r io.Reader) ([]QARecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read pool header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	// Raw source files omit the dataset column; pools carry it.
	for _, required := range []string{"id", "question_processed", "answer_processed"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("pool missing required column %q", required)
		}
	}

	var records []QARecord
	seen := make(map[string]bool)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pool row: %w", err)
		}
		line++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		rec := QARecord{
			ID:       field("id"),
			Question: field("question_processed"),
			Answer:   field("answer_processed"),
			Dataset:  field("dataset"),
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("pool row %d has no id", line)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("duplicate record id %q at row %d", rec.ID, line)
		}
		seen[rec.ID] = true

		for name, i := range cols {
			key, ok := strings.CutPrefix(name, variantPrefix)
			if !ok || i >= len(row) || row[i] == "" {
				continue
			}
			if rec.Variants == nil {
				rec.Variants = make(map[string]string)
			}
			rec.Variants[key] = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save writes a pool file, storing the union of all variant keys as
// columns in sorted order so repeated saves produce identical headers.
func Save(path string, records []QARecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pool %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, records)
}

// Write serializes records as pool CSV content.
func Write(w io.Writer, records []QARecord) error {
	keySet := make(map[string]bool)
	for _, rec := range records {
		for key := range rec.Variants {
			keySet[key] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	writer := csv.NewWriter(w)
	header := []string{"id", "question_processed", "answer_processed", "dataset"}
	for _, key := range keys {
		header = append(header, variantPrefix+key)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write pool header: %w", err)
	}

	for _, rec := range records {
		row := []string{rec.ID, rec.Question, rec.Answer, rec.Dataset}
		for _, key := range keys {
			row = append(row, rec.Variants[key])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write pool row %s: %w", rec.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
