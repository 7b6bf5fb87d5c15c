// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	t.Setenv(EnvAPIKey, "test-key")
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "perturbench.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Model, "default config has empty model")
	assert.Equal(t, "test-key", cfg.APIKey)

	data, err := os.ReadFile(path)
	require.NoError(t, err, "default config file not written")
	assert.NotContains(t, string(data), "test-key",
		"config file must not contain the API key")
}

func TestLoadParsesAndOverrides(t *testing.T) {
	t.Setenv(EnvAPIKey, "k")
	t.Setenv(EnvBaseURL, "http://override:9000")
	path := filepath.Join(t.TempDir(), "perturbench.yaml")
	body := `model: qwen2.5-32b
base_url: http://configured:8000
requests_per_minute: 30
max_attempts: 5
data_dir: /tmp/pb/data
journal_dir: /tmp/pb/journal
filters: [question]
perturbations: [typo, bias]
intensities: [25, 100]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0640))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5-32b", cfg.Model)
	assert.Equal(t, "http://override:9000", cfg.BaseURL, "env should override the file")
	assert.Equal(t, 30, cfg.RequestsPerMinute)
	assert.Equal(t, []string{"typo", "bias"}, cfg.Perturbations)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"bad url", func(c *Config) { c.BaseURL = "not a url" }},
		{"zero rpm", func(c *Config) { c.RequestsPerMinute = 0 }},
		{"unknown filter", func(c *Config) { c.Filters = []string{"vibes"} }},
		{"unknown perturbation", func(c *Config) { c.Perturbations = []string{"noise"} }},
		{"bad intensity", func(c *Config) { c.Intensities = []int{33} }},
		{"no filters", func(c *Config) { c.Filters = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
