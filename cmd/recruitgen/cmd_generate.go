// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fairlens/recruitgen/cmd/recruitgen/config"
	"github.com/fairlens/recruitgen/pkg/logging"
	"github.com/fairlens/recruitgen/services/generator/dataset"
	"github.com/fairlens/recruitgen/services/generator/pipeline"
	"github.com/fairlens/recruitgen/services/generator/registry"
	"github.com/fairlens/recruitgen/services/generator/schema"
)

// loadConfig resolves the effective configuration: the built-in defaults,
// optionally replaced by --config, with per-flag overrides on top.
func loadConfig(cmd *cobra.Command) (config.GeneratorConfig, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(expandPath(configPath))
		if err != nil {
			return config.GeneratorConfig{}, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("rows") {
		cfg.Rows = rows
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if err := cfg.Validate(); err != nil {
		return config.GeneratorConfig{}, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger from the config, honoring --verbose.
func newLogger(cfg config.LoggingConfig) *logging.Logger {
	level := logging.ParseLevel(cfg.Level)
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.LogDir,
		Service: "recruitgen",
		JSON:    cfg.JSON,
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging)
	defer logger.Close()

	runner, err := pipeline.NewRunner(cfg.Pipeline(), logger.Slog())
	if err != nil {
		return err
	}
	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("generation complete",
		"run_id", result.RunID,
		"rows", result.Rows,
		"duration", result.Duration,
	)

	artifacts, err := writeArtifacts(expandPath(cfg.Output.Dir), result)
	if err != nil {
		return err
	}
	for _, path := range artifacts {
		logger.Debug("artifact written", "path", path)
	}

	if !noManifest && cfg.Output.RegistryPath != "" {
		if err := recordManifest(cfg, result, artifacts, logger); err != nil {
			return err
		}
	}

	printSummary(cmd, result)
	return nil
}

// writeArtifacts writes the six partition CSVs and returns their paths.
func writeArtifacts(dir string, result *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tables := map[string]*dataset.Table{
		"train.csv":                 result.Raw.Train,
		"validation.csv":            result.Raw.Validation,
		"test.csv":                  result.Raw.Test,
		"train_normalized.csv":      result.Normalized.Train,
		"validation_normalized.csv": result.Normalized.Validation,
		"test_normalized.csv":       result.Normalized.Test,
	}
	names := []string{
		"train.csv", "validation.csv", "test.csv",
		"train_normalized.csv", "validation_normalized.csv", "test_normalized.csv",
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := writeCSV(path, tables[name]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// recordManifest stores the run manifest in the local registry.
func recordManifest(cfg config.GeneratorConfig, result *pipeline.Result, artifacts []string, logger *logging.Logger) error {
	store, err := registry.Open(registry.Config{
		Path:       expandPath(cfg.Output.RegistryPath),
		SyncWrites: true,
		Logger:     logger.Slog(),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Put(registry.Manifest{
		RunID:          result.RunID.String(),
		Seed:           result.Seed,
		Rows:           result.Rows,
		ConfigDigest:   configDigest(cfg),
		TrainRows:      result.Raw.Train.Len(),
		ValidationRows: result.Raw.Validation.Len(),
		TestRows:       result.Raw.Test.Len(),
		Artifacts:      artifacts,
	})
}

// configDigest hashes the canonical YAML rendering of the configuration so
// two runs are comparable without storing the whole config.
func configDigest(cfg config.GeneratorConfig) string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// printSummary reports partition sizes and outcome rates per demographic
// group, computed over the raw partitions.
func printSummary(cmd *cobra.Command, result *pipeline.Result) {
	all := []*dataset.Table{result.Raw.Train, result.Raw.Validation, result.Raw.Test}

	cmd.Printf("run %s  seed=%d  rows=%d\n", result.RunID, result.Seed, result.Rows)
	cmd.Printf("partitions: train=%d validation=%d test=%d\n",
		result.Raw.Train.Len(), result.Raw.Validation.Len(), result.Raw.Test.Len())
	cmd.Printf("hired overall:   %.4f\n", groupRate(all, "", 0))
	cmd.Printf("hired male:      %.4f  female:   %.4f\n",
		groupRate(all, schema.ColSexMale, 1), groupRate(all, schema.ColSexMale, 0))
	cmd.Printf("hired white:     %.4f  nonwhite: %.4f\n",
		groupRate(all, schema.ColRaceWhite, 1), groupRate(all, schema.ColRaceWhite, 0))
}

// groupRate computes the positive outcome rate across tables, restricted to
// rows where groupCol equals groupVal. An empty groupCol selects all rows.
func groupRate(tables []*dataset.Table, groupCol string, groupVal float64) float64 {
	var n, positive int
	for _, t := range tables {
		outcome, err := t.Column(schema.ColEmployed)
		if err != nil {
			continue
		}
		var group []float64
		if groupCol != "" {
			group, err = t.Column(groupCol)
			if err != nil {
				continue
			}
		}
		for i, y := range outcome {
			if group != nil && group[i] != groupVal {
				continue
			}
			n++
			if y == 1 {
				positive++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return float64(positive) / float64(n)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := "recruitgen.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteDefault(expandPath(path)); err != nil {
		return err
	}
	cmd.Printf("wrote default config to %s\n", path)
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
