// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DEBUG", slog.LevelDebug},
		{"padded", "  info  ", slog.LevelInfo},
		{"unknown falls back to info", "verbose", slog.LevelInfo},
		{"empty falls back to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "run.log")

	logger, cleanup := New(Config{Level: "debug", FilePath: path, Quiet: true})
	logger.Info("evaluation started", "run_id", "test-run")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "evaluation started") {
		t.Errorf("log file missing expected entry, got: %s", data)
	}
	if !strings.Contains(string(data), "run_id=test-run") {
		t.Errorf("log file missing structured attribute, got: %s", data)
	}
}

func TestNew_JSONHandler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json.log")

	logger, cleanup := New(Config{FilePath: path, JSON: true, Quiet: true})
	logger.Warn("tuple failed", "record_id", "42")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"record_id":"42"`) {
		t.Errorf("expected JSON attribute, got: %s", data)
	}
}

func TestDefault_NotNil(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil logger")
	}
}
