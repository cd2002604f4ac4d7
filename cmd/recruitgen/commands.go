// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
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
	seed       uint64
	rows       int
	outDir     string
	noManifest bool
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "recruitgen",
		Short: "A cli to generate synthetic recruiting datasets with controllable bias",
		Long: `Recruitgen generates seed-reproducible synthetic recruiting datasets
with known, controllable demographic and outcome biases, for exercising
fairness tooling against a ground truth.`,
		SilenceUsage: true,
	}

	// --- Generation ---
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset and write partition CSV files",
		RunE:  runGenerate, // Defined in cmd_generate.go
	}

	initConfigCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInitConfig, // Defined in cmd_generate.go
	}

	// --- Run Registry ---
	runsCmd = &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded generation runs",
	}
	runsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE:  runRunsList, // Defined in cmd_runs.go
	}
	runsShowCmd = &cobra.Command{
		Use:   "show [run_id]",
		Short: "Show the manifest of one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunsShow, // Defined in cmd_runs.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (defaults built in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	generateCmd.Flags().Uint64Var(&seed, "seed", 0, "Override the config seed")
	generateCmd.Flags().IntVar(&rows, "rows", 0, "Override the config row count")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "Override the output directory")
	generateCmd.Flags().BoolVar(&noManifest, "no-manifest", false, "Skip recording a run manifest")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(initConfigCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
