// Copyright (C) 2025 The Perturbench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string

	// sample flags
	rawDir       string
	sampleSize   int
	samplePool   string
	excludePools []string

	// shared pool flag
	poolPath string

	// perturb flags
	perturbTypes       []string
	perturbIntensities []int

	// eval flags
	evalPreprocs  []string
	evalInprocs   []string
	evalPostprocs []string
	evalLimit     int
	evalWorkers   int

	// report flags
	reportCSV string

	rootCmd = &cobra.Command{
		Use:   "perturbench",
		Short: "A cli to benchmark LLM answer robustness under textual perturbations",
		Long: `Perturbench filters noisy causal question-answer datasets, generates
				controlled textual perturbations of the surviving questions, and
				measures how model accuracy degrades across perturbation types,
				intensities, and prompting strategies.`,
	}

	// --- Sampling ---
	sampleCmd = &cobra.Command{
		Use:   "sample",
		Short: "Draw a balanced record sample from the raw dataset files",
		Run:   runSample, // Defined in cmd_sample.go
	}

	// --- Filtering ---
	filterCmd = &cobra.Command{
		Use:   "filter [pool.csv]",
		Short: "Run the LLM filter chain over a record pool",
		Args:  cobra.ExactArgs(1),
		Run:   runFilter, // Defined in cmd_filter.go
	}

	// --- Perturbation ---
	perturbCmd = &cobra.Command{
		Use:   "perturb [pool.csv]",
		Short: "Generate perturbed question variants for a filtered pool",
		Args:  cobra.ExactArgs(1),
		Run:   runPerturb, // Defined in cmd_perturb.go
	}

	// --- Evaluation ---
	evalCmd = &cobra.Command{
		Use:   "eval [pool.csv]",
		Short: "Evaluate the model across the perturbation and strategy matrix",
		Args:  cobra.ExactArgs(1),
		Run:   runEval, // Defined in cmd_eval.go
	}

	// --- Reporting ---
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Aggregate journaled results into an accuracy matrix",
		Run:   runReport, // Defined in cmd_report.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the configuration file (default ~/.perturbench/perturbench.yaml)")

	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringVar(&rawDir, "raw-dir", "",
		"Directory of raw dataset CSV files (default <data_dir>/raw)")
	sampleCmd.Flags().IntVar(&sampleSize, "size", 200, "Number of records to draw")
	sampleCmd.Flags().StringVar(&samplePool, "out", "",
		"Output pool path (default <data_dir>/pool.csv)")
	sampleCmd.Flags().StringSliceVar(&excludePools, "exclude", nil,
		"Existing pool files whose records must not be drawn again")

	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringVar(&poolPath, "out", "",
		"Output path for the filtered pool (default <pool>_filtered.csv)")

	rootCmd.AddCommand(perturbCmd)
	perturbCmd.Flags().StringSliceVar(&perturbTypes, "types", nil,
		"Perturbation types to generate (default from config)")
	perturbCmd.Flags().IntSliceVar(&perturbIntensities, "intensities", nil,
		"Intensities to generate (default from config)")

	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringSliceVar(&evalPreprocs, "preproc", []string{"none"},
		"Pre-processing strategies to evaluate")
	evalCmd.Flags().StringSliceVar(&evalInprocs, "inproc", []string{"none"},
		"In-processing strategies to evaluate")
	evalCmd.Flags().StringSliceVar(&evalPostprocs, "postproc", []string{"none"},
		"Post-processing strategies to evaluate")
	evalCmd.Flags().IntVar(&evalLimit, "limit", 0,
		"Stop after this many tuples (0 = no limit)")
	evalCmd.Flags().IntVar(&evalWorkers, "workers", 1,
		"Concurrent tuples in flight; the rate limiter still bounds request rate")

	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportCSV, "csv", "",
		"Also write the accuracy matrix to this CSV path")
}
