// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package pipeline runs the synthetic population generator end to end.
//
// The pipeline is a strictly linear, single-threaded sequence of five
// stages — demographics, dependent features, outcome, partition, normalize —
// each fully materializing its output before the next begins. One explicitly
// seeded draw source is threaded through every stage and never reseeded, so
// two runs with the same configuration produce byte-identical tables.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/google/uuid"

	"github.com/fairlens/recruitgen/services/generator/dataset"
	"github.com/fairlens/recruitgen/services/generator/sample"
	"github.com/fairlens/recruitgen/services/generator/schema"
)

var (
	tracer = otel.Tracer("recruitgen.pipeline")
	meter  = otel.Meter("recruitgen.pipeline")
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds the run-time constants of a generation run. All values are
// fixed at construction; nothing is tunable mid-run.
type Config struct {
	// Rows is the population size N.
	Rows int

	// Seed seeds the pipeline-wide draw source.
	Seed uint64

	// ProbSexMale is the base probability of the sex_male demographic.
	ProbSexMale float64

	// ProbRaceWhite is the base probability of the race_white demographic.
	ProbRaceWhite float64

	// TestFraction is the share of the population assigned to the test
	// partition in the first split stage.
	TestFraction float64

	// ValidationFraction is the share of the remainder assigned to the
	// validation partition in the second split stage.
	ValidationFraction float64

	// ContinuousFeatures lists the columns the normalizer standardizes.
	// Empty means DefaultContinuousFeatures().
	ContinuousFeatures []string
}

// DefaultConfig returns the reference configuration: a 10k population with
// balanced demographics and a 60/20/20 split.
func DefaultConfig() Config {
	return Config{
		Rows:               10000,
		Seed:               42,
		ProbSexMale:        0.5,
		ProbRaceWhite:      0.5,
		TestFraction:       0.2,
		ValidationFraction: 0.25,
	}
}

// DefaultContinuousFeatures returns the non-binary generated columns, the
// ones standardization applies to.
func DefaultContinuousFeatures() []string {
	return []string{
		schema.ColYearsExperience,
		schema.ColGCSE,
		schema.ColALevel,
		schema.ColYearsVolunteer,
		schema.ColIncome,
		schema.ColITSkills,
		schema.ColYearsGaps,
		schema.ColQualityCV,
	}
}

// validate checks the configuration domain. Out-of-range values are
// unrecoverable configuration errors reported before any sampling happens.
func (c Config) validate(reg *schema.Registry) error {
	if c.Rows <= 0 {
		return fmt.Errorf("%w: rows=%d, must be positive", ErrInvalidConfig, c.Rows)
	}
	if c.ProbSexMale < 0 || c.ProbSexMale > 1 {
		return fmt.Errorf("%w: prob_sex_male=%v, must be in [0,1]", ErrInvalidConfig, c.ProbSexMale)
	}
	if c.ProbRaceWhite < 0 || c.ProbRaceWhite > 1 {
		return fmt.Errorf("%w: prob_race_white=%v, must be in [0,1]", ErrInvalidConfig, c.ProbRaceWhite)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("%w: test_fraction=%v, must be in (0,1)", ErrInvalidConfig, c.TestFraction)
	}
	if c.ValidationFraction <= 0 || c.ValidationFraction >= 1 {
		return fmt.Errorf("%w: validation_fraction=%v, must be in (0,1)", ErrInvalidConfig, c.ValidationFraction)
	}
	for _, name := range c.ContinuousFeatures {
		if !reg.Has(name) {
			return fmt.Errorf("%q: %w", name, ErrUnknownFeature)
		}
	}
	return nil
}

// =============================================================================
// Runner
// =============================================================================

// Runner executes the generation pipeline.
//
// A Runner is immutable after construction; Run may be called repeatedly
// (each call is an independent run with its own run ID and draw source, all
// from the same seed, so repeated runs are identical by design).
type Runner struct {
	cfg      Config
	features []string
	registry *schema.Registry
	outcome  schema.OutcomeModel
	logger   *slog.Logger

	metricsOnce   sync.Once
	stageLatency  metric.Float64Histogram
	rowsGenerated metric.Int64Counter
}

// NewRunner creates a Runner for the fixed recruiting graph.
//
// Inputs:
//
//	cfg - Run configuration. Validated here; out-of-domain values fail fast.
//	logger - Logger for stage progress. If nil, uses slog.Default().
//
// Outputs:
//
//	*Runner - The configured runner.
//	error - Non-nil on configuration or registry errors.
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg, err := schema.NewRecruitingRegistry()
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	if err := cfg.validate(reg); err != nil {
		return nil, err
	}
	features := cfg.ContinuousFeatures
	if len(features) == 0 {
		features = DefaultContinuousFeatures()
	}
	return &Runner{
		cfg:      cfg,
		features: features,
		registry: reg,
		outcome:  schema.RecruitingOutcome(),
		logger:   logger,
	}, nil
}

// initMetrics lazily creates the otel instruments. Failures degrade
// observability, never the run.
func (r *Runner) initMetrics() {
	r.metricsOnce.Do(func() {
		var err error
		r.stageLatency, err = meter.Float64Histogram("generator_stage_duration_seconds",
			metric.WithDescription("Time spent in each pipeline stage"),
			metric.WithUnit("s"),
		)
		if err != nil {
			r.logger.Error("failed to create stage latency histogram", "error", err)
		}
		r.rowsGenerated, err = meter.Int64Counter("generator_rows_total",
			metric.WithDescription("Number of synthetic individuals generated"),
		)
		if err != nil {
			r.logger.Error("failed to create rows counter", "error", err)
		}
	})
}

// Result is the output of one pipeline run.
type Result struct {
	// RunID uniquely identifies this run.
	RunID uuid.UUID

	// Seed is the seed the run was generated with.
	Seed uint64

	// Rows is the population size.
	Rows int

	// Raw holds the three partitions before normalization, demographic
	// columns included — the surface fairness collaborators read.
	Raw dataset.Partitions

	// Normalized holds the three partitions after standardization — the
	// surface model-training collaborators read.
	Normalized dataset.Partitions

	// Scaler is the training-partition fit used for Normalized.
	Scaler *Scaler

	// Assignment maps row index to partition, over the full population.
	Assignment []Part

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Run executes the pipeline.
//
// Stages run strictly in order, each consuming the previous stage's output.
// Any error is a configuration error and aborts the run; no partial dataset
// is ever returned.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	r.initMetrics()

	runID := uuid.New()
	start := time.Now()
	ctx, span := tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run_id", runID.String()),
			attribute.Int("rows", r.cfg.Rows),
			attribute.Int64("seed", int64(r.cfg.Seed)),
		),
	)
	defer span.End()

	logger := r.logger.With("run_id", runID.String(), "seed", r.cfg.Seed, "rows", r.cfg.Rows)
	logger.Info("starting generation run")

	src := sample.New(r.cfg.Seed)
	table, err := dataset.NewTable(r.cfg.Rows)
	if err != nil {
		return nil, r.fail(span, err)
	}

	if err := r.stage(ctx, logger, "demographics", func() error {
		return r.sampleDemographics(src, table)
	}); err != nil {
		return nil, r.fail(span, err)
	}

	if err := r.stage(ctx, logger, "features", func() error {
		return r.generateFeatures(src, table)
	}); err != nil {
		return nil, r.fail(span, err)
	}

	if err := r.stage(ctx, logger, "outcome", func() error {
		return r.synthesizeOutcome(src, table)
	}); err != nil {
		return nil, r.fail(span, err)
	}

	var raw dataset.Partitions
	var parts []Part
	if err := r.stage(ctx, logger, "partition", func() error {
		train, val, test, err := splitIndices(src, r.cfg.Rows, r.cfg.TestFraction, r.cfg.ValidationFraction)
		if err != nil {
			return err
		}
		parts = assignment(r.cfg.Rows, train, val, test)
		if raw.Train, err = table.Select(train); err != nil {
			return err
		}
		if raw.Validation, err = table.Select(val); err != nil {
			return err
		}
		raw.Test, err = table.Select(test)
		return err
	}); err != nil {
		return nil, r.fail(span, err)
	}

	var scaler *Scaler
	var normalized dataset.Partitions
	if err := r.stage(ctx, logger, "normalize", func() error {
		var err error
		if scaler, err = FitScaler(raw.Train, r.features); err != nil {
			return err
		}
		if normalized.Train, err = scaler.Transform(raw.Train); err != nil {
			return err
		}
		if normalized.Validation, err = scaler.Transform(raw.Validation); err != nil {
			return err
		}
		normalized.Test, err = scaler.Transform(raw.Test)
		return err
	}); err != nil {
		return nil, r.fail(span, err)
	}

	if r.rowsGenerated != nil {
		r.rowsGenerated.Add(ctx, int64(r.cfg.Rows))
	}
	duration := time.Since(start)
	logger.Info("generation run complete",
		"duration_ms", duration.Milliseconds(),
		"train_rows", raw.Train.Len(),
		"validation_rows", raw.Validation.Len(),
		"test_rows", raw.Test.Len(),
	)
	span.SetStatus(codes.Ok, "")

	return &Result{
		RunID:      runID,
		Seed:       r.cfg.Seed,
		Rows:       r.cfg.Rows,
		Raw:        raw,
		Normalized: normalized,
		Scaler:     scaler,
		Assignment: parts,
		Duration:   duration,
	}, nil
}

// stage wraps one pipeline stage with a span, a duration metric, and
// start/end logs.
func (r *Runner) stage(ctx context.Context, logger *slog.Logger, name string, fn func() error) error {
	_, span := tracer.Start(ctx, "pipeline.stage."+name)
	defer span.End()

	start := time.Now()
	logger.Debug("stage starting", "stage", name)
	err := fn()
	elapsed := time.Since(start)

	if r.stageLatency != nil {
		r.stageLatency.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(attribute.String("stage", name)))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("stage %s: %w", name, err)
	}
	logger.Debug("stage complete", "stage", name, "duration_ms", elapsed.Milliseconds())
	span.SetStatus(codes.Ok, "")
	return nil
}

// fail records the error on the run span and returns it.
func (r *Runner) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.logger.Error("generation run failed", "error", err)
	return err
}

// =============================================================================
// Stages
// =============================================================================

// sampleDemographics draws the two independent binary demographic columns.
func (r *Runner) sampleDemographics(src *sample.Source, table *dataset.Table) error {
	n := table.Len()
	for _, demo := range []struct {
		name string
		p    float64
	}{
		{schema.ColSexMale, r.cfg.ProbSexMale},
		{schema.ColRaceWhite, r.cfg.ProbRaceWhite},
	} {
		col := make([]float64, n)
		for i := range col {
			v, err := src.Bernoulli(demo.p)
			if err != nil {
				return fmt.Errorf("column %q: %w", demo.name, err)
			}
			col[i] = v
		}
		if err := table.AddColumn(demo.name, col); err != nil {
			return err
		}
	}
	return nil
}

// generateFeatures walks the registry in its declared topological order,
// evaluating each feature's parameter function against the rows generated so
// far and drawing one value per row.
func (r *Runner) generateFeatures(src *sample.Source, table *dataset.Table) error {
	n := table.Len()
	for _, def := range r.registry.Features() {
		col := make([]float64, n)
		for i := 0; i < n; i++ {
			params, err := def.Params(table.Row(i), src)
			if err != nil {
				return schema.NewFeatureError(def.Name, err)
			}
			v, err := r.draw(src, def.Family, params)
			if err != nil {
				return schema.NewFeatureError(def.Name, err)
			}
			if def.Transform != nil {
				v = def.Transform(v)
			}
			col[i] = v
		}
		if err := table.AddColumn(def.Name, col); err != nil {
			return err
		}
	}
	return nil
}

// draw dispatches one draw to the source by distribution family.
func (r *Runner) draw(src *sample.Source, family schema.Family, p schema.Params) (float64, error) {
	switch family {
	case schema.FamilyBernoulli:
		return src.Bernoulli(p.P)
	case schema.FamilyPoisson:
		return src.Poisson(p.Lambda)
	case schema.FamilyBinomial:
		return src.Binomial(p.Trials, p.P)
	case schema.FamilyNormal:
		return src.Normal(p.Mu, p.Sigma)
	default:
		return 0, schema.ErrUnknownFamily
	}
}

// synthesizeOutcome scores every row with the logistic generative model and
// samples the binary label.
func (r *Runner) synthesizeOutcome(src *sample.Source, table *dataset.Table) error {
	n := table.Len()
	col := make([]float64, n)
	for i := 0; i < n; i++ {
		p := sigmoid(r.outcome.Score(table.Row(i)))
		v, err := src.Bernoulli(p)
		if err != nil {
			return fmt.Errorf("column %q: %w", schema.ColEmployed, err)
		}
		col[i] = v
	}
	return table.AddColumn(schema.ColEmployed, col)
}

// sigmoid is the logistic link mapping a score onto (0,1).
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
