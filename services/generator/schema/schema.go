// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package schema declares the feature-dependency graph of the synthetic
// population generator.
//
// A feature is declared as a (name, dependency set, distribution family,
// parameter function) tuple. Declaration order is the generation order, and
// the Registry builder verifies that this order is a topological sort of the
// dependency graph: every dependency must be declared before its dependents,
// and the graph must be acyclic. Violations are configuration errors that
// abort the run with a diagnostic naming the offending feature.
package schema

import (
	"github.com/fairlens/recruitgen/services/generator/sample"
)

// =============================================================================
// Feature Definitions
// =============================================================================

// Family identifies the generating distribution of a feature.
type Family int

const (
	// FamilyBernoulli draws a {0,1} value with success probability Params.P.
	FamilyBernoulli Family = iota

	// FamilyPoisson draws a count with rate Params.Lambda.
	FamilyPoisson

	// FamilyBinomial draws a count out of Params.Trials with probability Params.P.
	FamilyBinomial

	// FamilyNormal draws a real value with mean Params.Mu and std dev Params.Sigma.
	FamilyNormal
)

// String returns the family name for diagnostics.
func (f Family) String() string {
	switch f {
	case FamilyBernoulli:
		return "bernoulli"
	case FamilyPoisson:
		return "poisson"
	case FamilyBinomial:
		return "binomial"
	case FamilyNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// Params holds concrete distribution parameters for a single row. Only the
// fields relevant to the feature's Family are read.
type Params struct {
	// P is the success probability for Bernoulli and Binomial draws.
	P float64

	// Trials is the trial count for Binomial draws.
	Trials int

	// Lambda is the rate for Poisson draws.
	Lambda float64

	// Mu is the mean for Normal draws.
	Mu float64

	// Sigma is the standard deviation for Normal draws.
	Sigma float64
}

// Row is a read-only view of the columns already generated for one individual.
// Value panics on unknown names only in programmer-error situations; the
// registry validation guarantees parameter functions never see one.
type Row interface {
	Value(name string) float64
}

// ParamFn maps a row's already-generated attributes to concrete distribution
// parameters. The draw source is provided for auxiliary draws that are local
// to the generation step (the assumed-age intermediate); such draws consume
// the pipeline stream in row order, keeping runs reproducible.
type ParamFn func(row Row, src *sample.Source) (Params, error)

// FeatureDef declares one generated feature.
type FeatureDef struct {
	// Name is the output column name. Must be unique within the registry.
	Name string

	// DependsOn lists the attribute names the parameter function reads.
	// Every entry must be a base column or a feature declared earlier.
	DependsOn []string

	// Family selects the generating distribution.
	Family Family

	// Params computes per-row distribution parameters.
	Params ParamFn

	// Transform is an optional post-draw transform applied to each value
	// (e.g. the income quantization). Nil means identity.
	Transform func(float64) float64
}

// =============================================================================
// Registry
// =============================================================================

// Registry is a validated, ordered collection of feature definitions.
//
// The slice order is the generation order. A Registry is immutable after
// Build and safe for concurrent reads.
type Registry struct {
	base  []string
	defs  []FeatureDef
	index map[string]int
}

// Base returns the base column names (generated upstream of the registry,
// e.g. the demographic columns).
func (r *Registry) Base() []string {
	out := make([]string, len(r.base))
	copy(out, r.base)
	return out
}

// Features returns the feature definitions in generation order.
func (r *Registry) Features() []FeatureDef {
	out := make([]FeatureDef, len(r.defs))
	copy(out, r.defs)
	return out
}

// Names returns the feature names in generation order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Name
	}
	return out
}

// Has reports whether name is a base column or declared feature.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// =============================================================================
// Builder
// =============================================================================

// Builder constructs a Registry with validation.
//
// Builder is NOT safe for concurrent use; build the registry in a single
// goroutine. Errors are accumulated and reported by Build, mirroring the
// declared-first-wins diagnostics of the pipeline DAG builder this package
// descends from.
type Builder struct {
	base   []string
	defs   []FeatureDef
	seen   map[string]int // name -> declaration position (base columns at -1)
	errors []error
}

// NewBuilder creates a registry builder with the given base columns.
// Base columns are attributes generated before the registry runs (the
// demographic columns); features may depend on them freely.
func NewBuilder(base ...string) *Builder {
	b := &Builder{
		base: base,
		seen: make(map[string]int, len(base)),
	}
	for _, name := range base {
		if name == "" {
			b.errors = append(b.errors, ErrEmptyName)
			continue
		}
		if _, exists := b.seen[name]; exists {
			b.errors = append(b.errors, NewFeatureError(name, ErrDuplicateFeature))
			continue
		}
		b.seen[name] = -1
	}
	return b
}

// Add appends a feature definition. Validation errors are recorded and
// surfaced by Build.
func (b *Builder) Add(def FeatureDef) *Builder {
	if def.Name == "" {
		b.errors = append(b.errors, ErrEmptyName)
		return b
	}
	if def.Params == nil {
		b.errors = append(b.errors, NewFeatureError(def.Name, ErrNilParamFn))
		return b
	}
	if def.Family < FamilyBernoulli || def.Family > FamilyNormal {
		b.errors = append(b.errors, NewFeatureError(def.Name, ErrUnknownFamily))
		return b
	}
	if _, exists := b.seen[def.Name]; exists {
		b.errors = append(b.errors, NewFeatureError(def.Name, ErrDuplicateFeature))
		return b
	}

	for _, dep := range def.DependsOn {
		if _, ok := b.seen[dep]; !ok {
			b.errors = append(b.errors, NewFeatureError(def.Name, ErrUnknownDependency))
		}
	}

	b.seen[def.Name] = len(b.defs)
	b.defs = append(b.defs, def)
	return b
}

// Build validates and constructs the Registry.
//
// Validation covers: duplicate and empty names, missing parameter functions,
// unknown dependencies, forward references, and cycles. The cycle check is
// redundant once declaration order is enforced, but it is kept explicit so a
// reordered or hand-edited graph fails with a cycle-path diagnostic instead
// of a bare order violation.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	if len(b.defs) == 0 {
		return nil, ErrEmptyRegistry
	}

	if err := b.detectCycles(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(b.seen))
	for name, pos := range b.seen {
		index[name] = pos
	}
	return &Registry{
		base:  b.base,
		defs:  b.defs,
		index: index,
	}, nil
}

// detectCycles runs a DFS over the declared dependency edges.
func (b *Builder) detectCycles() error {
	adj := make(map[string][]string, len(b.defs))
	for _, def := range b.defs {
		adj[def.Name] = def.DependsOn
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make([]string, 0, len(b.defs))

	var dfs func(node string) error
	dfs = func(node string) error {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, dep := range adj[node] {
			if _, isFeature := adj[dep]; !isFeature {
				continue // base column, no outgoing edges
			}
			if !visited[dep] {
				if err := dfs(dep); err != nil {
					return err
				}
			} else if recStack[dep] {
				cycleStart := 0
				for i, n := range path {
					if n == dep {
						cycleStart = i
						break
					}
				}
				return NewCycleError(append(path[cycleStart:], dep))
			}
		}

		path = path[:len(path)-1]
		recStack[node] = false
		return nil
	}

	for _, def := range b.defs {
		if !visited[def.Name] {
			if err := dfs(def.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Parameter Clamping
// =============================================================================

// ClampProb clamps p into [0,1]. Parameter functions use it so that the
// conditional formulas stay in-domain even if the base constants are tuned.
func ClampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ClampRate clamps a rate to be non-negative.
func ClampRate(r float64) float64 {
	if r < 0 {
		return 0
	}
	return r
}
