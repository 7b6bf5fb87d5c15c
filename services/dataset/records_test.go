// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dataset

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadPool(t *testing.T) {
	content := "id,question_processed,answer_processed,dataset,perturbed_typo_50,perturbed_synonym_25\n" +
		"q1,why is the sky blue?,rayleigh scattering,squad2,wyh is teh sky blue?,\n" +
		"q2,does smoking cause cancer?,yes,gooaq,,does tobacco use cause cancer?\n"

	records, err := Read(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "q1" || first.Dataset != "squad2" {
		t.Errorf("unexpected base fields: %+v", first)
	}
	if first.Variants["typo_50"] != "wyh is teh sky blue?" {
		t.Errorf("variant not loaded: %+v", first.Variants)
	}
	if _, ok := first.Variants["synonym_25"]; ok {
		t.Error("empty variant cell must not produce a variant")
	}
	if records[1].Variants["synonym_25"] != "does tobacco use cause cancer?" {
		t.Errorf("variant not loaded: %+v", records[1].Variants)
	}
}

func TestReadPoolErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name:    "missing required column",
			content: "id,question_processed,dataset\nq1,why?,squad2\n",
		},
		{
			name: "duplicate id",
			content: "id,question_processed,answer_processed,dataset\n" +
				"q1,a?,x,squad2\nq1,b?,y,squad2\n",
		},
		{
			name: "blank id",
			content: "id,question_processed,answer_processed,dataset\n" +
				",a?,x,squad2\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tc.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.csv")
	records := []QARecord{
		{
			ID: "a", Question: "why do cats purr?", Answer: "contentment, mostly", Dataset: "eli5",
			Variants: map[string]string{
				VariantKey("typo", 50):    "wjy do cats purr?",
				VariantKey("bias", 100):   "cats barely purr, so why would they?",
				VariantKey("synonym", 25): "why do felines purr?",
			},
		},
		{ID: "b", Question: "does rain smell?", Answer: "petrichor", Dataset: "msmarco"},
	}

	if err := Save(path, records); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if len(loaded[0].Variants) != 3 {
		t.Errorf("variants lost in round trip: %+v", loaded[0].Variants)
	}
	if loaded[0].Variants["bias_100"] != "cats barely purr, so why would they?" {
		t.Errorf("variant corrupted: %+v", loaded[0].Variants)
	}
	if loaded[1].Variants != nil {
		t.Errorf("record without variants gained some: %+v", loaded[1].Variants)
	}

	// Header columns must be stable across saves.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	header := strings.SplitN(string(raw), "\n", 2)[0]
	want := "id,question_processed,answer_processed,dataset,perturbed_bias_100,perturbed_typo_50,perturbed_synonym_25"
	if header != want {
		t.Errorf("header = %q, want %q", header, want)
	}
}

func TestSample(t *testing.T) {
	records := []QARecord{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	rng := rand.New(rand.NewSource(1))

	got, err := Sample(records, 3, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	seen := make(map[string]bool)
	for _, rec := range got {
		if seen[rec.ID] {
			t.Errorf("record %s drawn twice", rec.ID)
		}
		seen[rec.ID] = true
	}

	if _, err := Sample(records, 5, rng); err == nil {
		t.Error("expected error when sample exceeds pool")
	}
	if _, err := Sample(records, 0, rng); err == nil {
		t.Error("expected error for zero sample size")
	}
}

func TestDrawSample(t *testing.T) {
	byDataset := map[string][]QARecord{
		"eli5":   {{ID: "e1"}, {ID: "e2"}, {ID: "e3"}},
		"squad2": {{ID: "s1"}, {ID: "s2"}},
	}
	rng := rand.New(rand.NewSource(9))

	drawn := DrawSample(byDataset, 4, map[string]bool{"s1": true}, rng)
	if len(drawn) != 4 {
		t.Fatalf("expected 4 records, got %d", len(drawn))
	}
	for _, rec := range drawn {
		if rec.ID == "s1" {
			t.Error("excluded record was drawn")
		}
	}

	// Requesting more than available drains the sources and stops.
	rng = rand.New(rand.NewSource(9))
	drawn = DrawSample(byDataset, 10, nil, rng)
	if len(drawn) != 5 {
		t.Errorf("expected all 5 records, got %d", len(drawn))
	}
}

func TestDrawSampleDeterministic(t *testing.T) {
	byDataset := map[string][]QARecord{
		"gooaq":   {{ID: "g1"}, {ID: "g2"}, {ID: "g3"}},
		"msmarco": {{ID: "m1"}, {ID: "m2"}},
	}

	a := DrawSample(byDataset, 4, nil, rand.New(rand.NewSource(5)))
	b := DrawSample(byDataset, 4, nil, rand.New(rand.NewSource(5)))

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("draw order diverged at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestLoadRawDir(t *testing.T) {
	dir := t.TempDir()
	content := "id,question_processed,answer_processed,dataset\nr1,why?,because,\n"
	if err := os.WriteFile(filepath.Join(dir, "eli5.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	byDataset, err := LoadRawDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byDataset) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(byDataset))
	}
	if byDataset["eli5"][0].Dataset != "eli5" {
		t.Errorf("dataset name not filled from file name: %+v", byDataset["eli5"][0])
	}
}
