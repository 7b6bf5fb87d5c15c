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
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/perturbench/perturbench/services/llm"
	"github.com/perturbench/perturbench/services/storage"
)

// newClient builds the shared endpoint client from config. The limiter
// and usage ledger are returned so every caller in the run shares them.
func newClient() (*llm.OpenAIClient, *llm.Limiter, *llm.Usage, error) {
	limiter := llm.NewLimiter(cfg.RequestsPerMinute)
	usage := llm.NewUsage()

	retry := llm.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}

	client, err := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Retry:   retry,
		Logger:  slog.Default(),
	}, limiter, usage)
	if err != nil {
		return nil, nil, nil, err
	}
	return client, limiter, usage, nil
}

// stopsRun reports whether an endpoint failure invalidates the whole run
// rather than its one record. Only unrecoverable errors qualify: bad
// credentials or an unknown model will fail every remaining unit, while
// an exhausted retry budget or a malformed completion loses a single
// record and the run continues.
func stopsRun(err error) bool {
	return llm.IsInvalid(err)
}

// verifyModel checks the configured model is actually served by the
// endpoint before a long run starts. Endpoints without a /v1/models
// surface are tolerated with a warning.
func verifyModel(ctx context.Context, client llm.Client) error {
	models, err := client.Models(ctx)
	if err != nil || len(models) == 0 {
		slog.Warn("Could not list endpoint models, skipping check", "error", err)
		return nil
	}
	for _, m := range models {
		if m == cfg.Model {
			return nil
		}
	}
	return fmt.Errorf("model %s is not served by %s", cfg.Model, cfg.BaseURL)
}

// openJournal opens the resume journal in the configured directory.
func openJournal() (*storage.Journal, error) {
	if err := os.MkdirAll(cfg.JournalDir, 0750); err != nil {
		return nil, err
	}
	return storage.OpenJournalAt(cfg.JournalDir, slog.Default())
}

// signalContext returns a context cancelled on SIGINT or SIGTERM so
// long runs shut down cleanly with the journal intact.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// derivedPath returns out when set, otherwise base with suffix inserted
// before the extension ("pool.csv" -> "pool_filtered.csv").
func derivedPath(out, base, suffix string) string {
	if out != "" {
		return out
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + suffix + ext
}
