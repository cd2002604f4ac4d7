// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config defines the YAML configuration surface of the recruitgen
// CLI and maps it onto the generation pipeline.
package config

import (
	"github.com/fairlens/recruitgen/services/generator/pipeline"
)

// GeneratorConfig is the root of the recruitgen YAML configuration.
//
// Validation tags are enforced at load time; a config that fails validation
// never reaches the pipeline.
type GeneratorConfig struct {
	// Rows is the population size to generate.
	Rows int `yaml:"rows" validate:"gt=0"`

	// Seed pins the random stream. Two runs with identical config and seed
	// produce byte-identical datasets.
	Seed uint64 `yaml:"seed"`

	// Demographics controls the base population composition.
	Demographics DemographicsConfig `yaml:"demographics"`

	// Partition controls the train/validation/test split.
	Partition PartitionConfig `yaml:"partition"`

	// Normalize controls train-fitted feature standardization.
	Normalize NormalizeConfig `yaml:"normalize"`

	// Output controls artifact and manifest destinations.
	Output OutputConfig `yaml:"output"`

	// Logging controls CLI log verbosity and destinations.
	Logging LoggingConfig `yaml:"logging"`
}

// DemographicsConfig holds the Bernoulli parameters for the two base
// demographic columns.
type DemographicsConfig struct {
	ProbSexMale   float64 `yaml:"prob_sex_male" validate:"gte=0,lte=1"`
	ProbRaceWhite float64 `yaml:"prob_race_white" validate:"gte=0,lte=1"`
}

// PartitionConfig holds the two split fractions. TestFraction is taken from
// the full population; ValidationFraction is taken from the remainder.
type PartitionConfig struct {
	TestFraction       float64 `yaml:"test_fraction" validate:"gt=0,lt=1"`
	ValidationFraction float64 `yaml:"validation_fraction" validate:"gt=0,lt=1"`
}

// NormalizeConfig lists the features standardized with training-partition
// statistics. An empty list selects the built-in continuous feature set.
type NormalizeConfig struct {
	ContinuousFeatures []string `yaml:"continuous_features"`
}

// OutputConfig holds artifact destinations.
type OutputConfig struct {
	// Dir receives the partition CSV files. Supports ~ expansion.
	Dir string `yaml:"dir"`

	// RegistryPath is the run-manifest database directory. Empty disables
	// manifest recording.
	RegistryPath string `yaml:"registry_path"`
}

// LoggingConfig mirrors the logging package configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogDir string `yaml:"log_dir"`
	JSON   bool   `yaml:"json"`
}

// DefaultConfig returns the canonical configuration: 10000 rows, seed 42,
// balanced demographics, 80/20 then 75/25 splits.
func DefaultConfig() GeneratorConfig {
	p := pipeline.DefaultConfig()
	return GeneratorConfig{
		Rows: p.Rows,
		Seed: p.Seed,
		Demographics: DemographicsConfig{
			ProbSexMale:   p.ProbSexMale,
			ProbRaceWhite: p.ProbRaceWhite,
		},
		Partition: PartitionConfig{
			TestFraction:       p.TestFraction,
			ValidationFraction: p.ValidationFraction,
		},
		Normalize: NormalizeConfig{
			ContinuousFeatures: pipeline.DefaultContinuousFeatures(),
		},
		Output: OutputConfig{
			Dir:          "out",
			RegistryPath: "~/.recruitgen/registry",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Pipeline converts the validated configuration to a pipeline.Config.
func (c GeneratorConfig) Pipeline() pipeline.Config {
	features := c.Normalize.ContinuousFeatures
	if len(features) == 0 {
		features = pipeline.DefaultContinuousFeatures()
	}
	return pipeline.Config{
		Rows:               c.Rows,
		Seed:               c.Seed,
		ProbSexMale:        c.Demographics.ProbSexMale,
		ProbRaceWhite:      c.Demographics.ProbRaceWhite,
		TestFraction:       c.Partition.TestFraction,
		ValidationFraction: c.Partition.ValidationFraction,
		ContinuousFeatures: append([]string(nil), features...),
	}
}
