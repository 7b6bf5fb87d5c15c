// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/perturbench/perturbench/cmd/perturbench/config"
	"github.com/perturbench/perturbench/pkg/logging"
)

var cfg config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				log.Fatalf("Error resolving config path: %v", err)
			}
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}

		logger, cleanup := logging.New(logging.Config{
			Level:    cfg.Logging.Level,
			FilePath: cfg.Logging.FilePath,
			JSON:     cfg.Logging.JSON,
		})
		slog.SetDefault(logger)
		cobra.OnFinalize(cleanup)
	}
}
