// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes partition the journal by work stage.
const (
	verdictPrefix = "verdict/"
	variantPrefix = "variant/"
	resultPrefix  = "result/"
	runPrefix     = "run/"
)

// Journal records completed benchmark work keyed by what produced it.
// Writes are idempotent: re-recording a key overwrites the same value,
// so resumed runs converge on identical journal state.
type Journal struct {
	db *badger.DB
	gc *gcRunner
}

// OpenJournal opens (or creates) a journal with the given configuration.
//
// Description:
//
//	Opens the BadgerDB instance backing the journal and starts periodic
//	value log garbage collection when configured.
//
// Inputs:
//
//	cfg - Database configuration. Path is required unless InMemory is true.
//
// Outputs:
//
//	*Journal - The opened journal. Call Close() when done.
//	error - Non-nil if the database cannot be opened.
//
// Thread Safety: The returned Journal is safe for concurrent use.
func OpenJournal(cfg Config) (*Journal, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	j := &Journal{db: db}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		j.gc = newGCRunner(db, cfg.GCInterval, cfg.GCDiscardRatio, cfg.Logger)
		j.gc.start()
	}
	return j, nil
}

// OpenJournalAt opens a persistent journal at path with default settings.
func OpenJournalAt(path string, logger *slog.Logger) (*Journal, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.Logger = logger
	return OpenJournal(cfg)
}

// OpenInMemoryJournal opens a throwaway journal for tests.
func OpenInMemoryJournal() (*Journal, error) {
	return OpenJournal(InMemoryConfig())
}

// Close stops garbage collection and closes the database.
func (j *Journal) Close() error {
	if j.gc != nil {
		j.gc.stop()
	}
	return j.db.Close()
}

// VerdictKey addresses the filter verdicts for one record.
func VerdictKey(recordID string) string {
	return verdictPrefix + recordID
}

// VariantKey addresses one stored perturbation variant.
func VariantKey(recordID, ptype string, intensity int) string {
	return fmt.Sprintf("%s%s/%s/%d", variantPrefix, recordID, ptype, intensity)
}

// ResultKey addresses one evaluation result. tupleKey must carry the
// full evaluated configuration, temperature included, so the same record
// can be scored under many configurations without collisions.
func ResultKey(model, tupleKey string) string {
	return fmt.Sprintf("%s%s/%s", resultPrefix, model, tupleKey)
}

// RunKey addresses the metadata record for one evaluation run.
func RunKey(runID string) string {
	return runPrefix + runID
}

// ResultPrefix returns the key prefix covering every stored evaluation
// result for model. Use with ForEach to read a run back out.
func ResultPrefix(model string) string {
	return resultPrefix + model + "/"
}

// Put stores v under key as JSON, overwriting any previous value.
func (j *Journal) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal journal value for %s: %w", key, err)
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write journal key %s: %w", key, err)
	}
	return nil
}

// Get loads the value stored under key into v. The boolean reports
// whether the key exists.
func (j *Journal) Get(key string, v any) (bool, error) {
	var data []byte
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read journal key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal journal value for %s: %w", key, err)
	}
	return true, nil
}

// Has reports whether key exists without loading its value.
func (j *Journal) Has(key string) (bool, error) {
	err := j.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check journal key %s: %w", key, err)
	}
	return true, nil
}

// Keys returns every journal key under prefix in lexical order.
func (j *Journal) Keys(prefix string) ([]string, error) {
	var keys []string
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan journal prefix %s: %w", prefix, err)
	}
	return keys, nil
}

// Count returns the number of journal entries under prefix.
func (j *Journal) Count(prefix string) (int, error) {
	keys, err := j.Keys(prefix)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// CountResults returns the number of stored evaluation results for model.
func (j *Journal) CountResults(model string) (int, error) {
	return j.Count(ResultPrefix(model))
}

// CountVerdicts returns the number of records with stored filter verdicts.
func (j *Journal) CountVerdicts() (int, error) {
	return j.Count(verdictPrefix)
}

// ForEach loads every value under prefix, decoding each into a fresh
// value produced by newV and passing it to fn together with the key
// relative to the prefix.
func (j *Journal) ForEach(prefix string, newV func() any, fn func(key string, v any) error) error {
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.KeyCopy(nil)), prefix)
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			v := newV()
			if err := json.Unmarshal(data, v); err != nil {
				return fmt.Errorf("unmarshal journal value for %s: %w", key, err)
			}
			if err := fn(key, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate journal prefix %s: %w", prefix, err)
	}
	return nil
}
