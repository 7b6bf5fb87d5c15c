// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads and validates the benchmark configuration file.
// The file lives at ~/.perturbench/perturbench.yaml by default and is
// created with defaults on first run. API credentials come from the
// environment (LLM_API_KEY, LLM_BASE_URL), never from the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/perturbench/perturbench/pkg/validation"
)

const (
	// EnvAPIKey supplies the endpoint credential.
	EnvAPIKey = "LLM_API_KEY"
	// EnvBaseURL overrides the configured endpoint URL.
	EnvBaseURL = "LLM_BASE_URL"
)

// Monitor configures the optional HTTP listener for unattended runs.
type Monitor struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" validate:"required_with=Enabled"`
}

// Logging configures structured log output.
type Logging struct {
	Level    string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	FilePath string `yaml:"file_path"`
	JSON     bool   `yaml:"json"`
}

// Config is the full benchmark configuration.
type Config struct {
	// Model is the model id evaluated and used for filters/perturbations.
	Model string `yaml:"model" validate:"required"`

	// BaseURL is the OpenAI-compatible endpoint root.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// APIKey is read from the environment, never serialized.
	APIKey string `yaml:"-"`

	RequestsPerMinute int     `yaml:"requests_per_minute" validate:"gte=1,lte=600"`
	MaxAttempts       int     `yaml:"max_attempts" validate:"gte=1,lte=20"`
	Temperature       float32 `yaml:"temperature" validate:"gte=0,lte=2"`

	// Seed drives every locally seeded random choice (typo noise,
	// language pick, sampling) so runs are reproducible.
	Seed int64 `yaml:"seed"`

	// DataDir holds raw datasets, pools and report output.
	DataDir string `yaml:"data_dir" validate:"required"`

	// JournalDir holds the BadgerDB resume journal.
	JournalDir string `yaml:"journal_dir" validate:"required"`

	// Filters is the filter chain, applied in order.
	Filters []string `yaml:"filters" validate:"min=1"`

	// FilterKeepOnParseFailure keeps records whose filter verdict could
	// not be parsed instead of discarding them.
	FilterKeepOnParseFailure bool `yaml:"filter_keep_on_parse_failure"`

	// Perturbations and Intensities span the variant matrix.
	Perturbations []string `yaml:"perturbations" validate:"min=1"`
	Intensities   []int    `yaml:"intensities" validate:"min=1"`

	Monitor Monitor `yaml:"monitor"`
	Logging Logging `yaml:"logging"`
}

// Default returns the configuration written on first run.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".perturbench")
	return Config{
		Model:             "llama-3.3-70b-instruct",
		BaseURL:           "http://localhost:8000",
		RequestsPerMinute: 10,
		MaxAttempts:       7,
		Temperature:       0,
		Seed:              1,
		DataDir:           filepath.Join(base, "data"),
		JournalDir:        filepath.Join(base, "journal"),
		Filters:           []string{"question", "answer", "causal_chain"},
		Perturbations:     []string{"none", "typo", "synonym", "language", "paraphrase", "sentence-inj", "bias"},
		Intensities:       []int{50},
		Monitor:           Monitor{Enabled: false, Addr: ":9090"},
		Logging:           Logging{Level: "info"},
	}
}

// DefaultPath returns ~/.perturbench/perturbench.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".perturbench", "perturbench.yaml"), nil
}

// Load reads the configuration at path, creating it with defaults when
// it does not exist, then applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if writeErr := writeDefault(path, cfg); writeErr != nil {
			return Config{}, writeErr
		}
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.APIKey = os.Getenv(EnvAPIKey)
	if url := os.Getenv(EnvBaseURL); url != "" {
		cfg.BaseURL = url
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func writeDefault(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("write default config %s: %w", path, err)
	}
	return nil
}

// Validate checks struct constraints and domain enums.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validation.Model(c.Model); err != nil {
		return err
	}
	for _, f := range c.Filters {
		if err := validation.Filter(f); err != nil {
			return err
		}
	}
	for _, p := range c.Perturbations {
		if err := validation.Perturbation(p); err != nil {
			return err
		}
	}
	for _, i := range c.Intensities {
		if err := validation.Intensity(i); err != nil {
			return err
		}
	}
	return nil
}
