// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for perturbench components.
//
// The package is built on Go's standard library slog package. By default
// logs go to stderr so that progress bars and report tables on stdout stay
// machine-readable. File logging can be enabled for unattended multi-hour
// evaluation runs, where the terminal may be long gone by the time a
// failure needs diagnosing.
//
// Basic usage:
//
//	logger := logging.Default()
//	logger.Info("starting evaluation run", "run_id", runID)
//	logger.Error("request failed", "error", err)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	// Default: info.
	Level string

	// FilePath enables file logging when non-empty. The parent directory
	// is created if it does not exist. Output then goes to both stderr
	// and the file.
	FilePath string

	// JSON switches the handler from text to JSON output.
	JSON bool

	// Quiet suppresses stderr output entirely. Only meaningful together
	// with FilePath.
	Quiet bool
}

// ParseLevel converts a level name to a slog.Level.
//
// Unknown names fall back to info rather than failing: a bad LOG_LEVEL
// value should never stop a run.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns a stderr logger at info level.
func Default() *slog.Logger {
	logger, _ := New(Config{})
	return logger
}

// New builds a logger from the given configuration.
//
// Outputs:
//
//	*slog.Logger - ready-to-use logger
//	func()       - cleanup closing any opened log file; safe to call
//	               even when no file was opened
func New(cfg Config) (*slog.Logger, func()) {
	level := ParseLevel(cfg.Level)

	var writers []io.Writer
	if !cfg.Quiet {
		writers = append(writers, os.Stderr)
	}

	cleanup := func() {}
	if cfg.FilePath != "" {
		if f, err := openLogFile(cfg.FilePath); err != nil {
			fmt.Fprintf(os.Stderr, "logging: cannot open %s: %v, falling back to stderr\n", cfg.FilePath, err)
		} else {
			writers = append(writers, f)
			cleanup = func() { _ = f.Close() }
		}
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	out := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), cleanup
}

func openLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
