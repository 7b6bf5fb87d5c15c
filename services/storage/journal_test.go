// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"testing"
)

type testRecord struct {
	Answer string `json:"answer"`
	Score  int    `json:"score"`
}

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenInMemoryJournal()
	if err != nil {
		t.Fatalf("open in-memory journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalPutGet(t *testing.T) {
	j := newTestJournal(t)
	key := ResultKey("llama3", "q1/typo/50/none/cot/list1/0")

	var missing testRecord
	found, err := j.Get(key, &missing)
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if found {
		t.Fatal("key should not exist yet")
	}

	if err := j.Put(key, testRecord{Answer: "yes", Score: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got testRecord
	found, err = j.Get(key, &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || got.Answer != "yes" || got.Score != 1 {
		t.Errorf("found=%v got=%+v", found, got)
	}
}

func TestJournalPutOverwrites(t *testing.T) {
	j := newTestJournal(t)
	key := VariantKey("q1", "synonym", 25)

	if err := j.Put(key, "first variant"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := j.Put(key, "second variant"); err != nil {
		t.Fatalf("put again: %v", err)
	}

	var got string
	if _, err := j.Get(key, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "second variant" {
		t.Errorf("got %q, want latest write", got)
	}

	count, err := j.Count(variantPrefix)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("overwrite created %d entries", count)
	}
}

func TestJournalHas(t *testing.T) {
	j := newTestJournal(t)
	key := VerdictKey("q9")

	found, err := j.Has(key)
	if err != nil || found {
		t.Fatalf("found=%v err=%v for absent key", found, err)
	}

	if err := j.Put(key, []string{"keep"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	found, err = j.Has(key)
	if err != nil || !found {
		t.Errorf("found=%v err=%v for present key", found, err)
	}
}

func TestJournalKeysByPrefix(t *testing.T) {
	j := newTestJournal(t)

	entries := map[string]string{
		ResultKey("llama3", "q1/typo/50/none/none/none/0"):  "a",
		ResultKey("llama3", "q2/typo/50/none/none/none/0"):  "b",
		ResultKey("mistral", "q1/typo/50/none/none/none/0"): "c",
		VerdictKey("q1"): "d",
	}
	for key, val := range entries {
		if err := j.Put(key, val); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	count, err := j.CountResults("llama3")
	if err != nil {
		t.Fatalf("count results: %v", err)
	}
	if count != 2 {
		t.Errorf("llama3 results = %d, want 2", count)
	}

	count, err = j.CountVerdicts()
	if err != nil {
		t.Fatalf("count verdicts: %v", err)
	}
	if count != 1 {
		t.Errorf("verdicts = %d, want 1", count)
	}
}

func TestJournalForEach(t *testing.T) {
	j := newTestJournal(t)

	for _, id := range []string{"q1", "q2", "q3"} {
		if err := j.Put(VerdictKey(id), testRecord{Answer: id}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	seen := make(map[string]string)
	err := j.ForEach(verdictPrefix,
		func() any { return &testRecord{} },
		func(key string, v any) error {
			seen[key] = v.(*testRecord).Answer
			return nil
		})
	if err != nil {
		t.Fatalf("foreach: %v", err)
	}

	if len(seen) != 3 || seen["q2"] != "q2" {
		t.Errorf("unexpected iteration result: %v", seen)
	}
}

func TestResultKeyDistinguishesTuples(t *testing.T) {
	a := ResultKey("llama3", "q1/typo/50/none/cot/list1/0")
	b := ResultKey("llama3", "q1/typo/50/none/cot/list2/0")
	c := ResultKey("llama3", "q1/typo/25/none/cot/list1/0")
	d := ResultKey("llama3", "q1/typo/50/none/cot/list1/0.7")

	keys := map[string]bool{a: true, b: true, c: true, d: true}
	if len(keys) != 4 {
		t.Errorf("tuple keys collide: %q %q %q %q", a, b, c, d)
	}
}

func TestOpenJournalRequiresPath(t *testing.T) {
	if _, err := OpenJournal(Config{}); err == nil {
		t.Error("expected error for persistent journal without path")
	}
}

func TestJournalPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	j, err := OpenJournalAt(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := j.Put(VerdictKey("q1"), "kept"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	j, err = OpenJournalAt(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()

	var got string
	found, err := j.Get(VerdictKey("q1"), &got)
	if err != nil || !found || got != "kept" {
		t.Errorf("found=%v got=%q err=%v after reopen", found, got, err)
	}
}
