// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for the schema package.
var (
	// ErrEmptyName is returned when a feature definition has no name.
	ErrEmptyName = errors.New("feature name must not be empty")

	// ErrDuplicateFeature is returned when adding a feature with an existing name.
	ErrDuplicateFeature = errors.New("feature with this name already exists")

	// ErrUnknownDependency is returned when a declared dependency does not
	// exist at declaration time. The declaration order is the generation
	// order, so it must be a topological sort of the dependency graph and a
	// forward reference fails the same way a typo does.
	ErrUnknownDependency = errors.New("dependency not declared in registry")

	// ErrCycleDetected is returned when the dependency graph contains a cycle.
	ErrCycleDetected = errors.New("cycle detected in feature dependency graph")

	// ErrNilParamFn is returned when a feature definition has no parameter function.
	ErrNilParamFn = errors.New("parameter function must not be nil")

	// ErrEmptyRegistry is returned when building a registry with no features.
	ErrEmptyRegistry = errors.New("registry must contain at least one feature")

	// ErrUnknownFamily is returned for a distribution family outside the
	// supported set (Bernoulli, Poisson, Binomial, Normal).
	ErrUnknownFamily = errors.New("unknown distribution family")
)

// FeatureError wraps an error with the feature that caused it.
type FeatureError struct {
	Feature string
	Err     error
}

// Error returns the error message.
func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature %q: %v", e.Feature, e.Err)
}

// Unwrap returns the underlying error.
func (e *FeatureError) Unwrap() error {
	return e.Err
}

// NewFeatureError creates a FeatureError.
func NewFeatureError(feature string, err error) *FeatureError {
	return &FeatureError{
		Feature: feature,
		Err:     err,
	}
}

// CycleError provides the path of a detected dependency cycle.
type CycleError struct {
	Path []string
}

// Error returns the cycle description.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %v", e.Path)
}

// Unwrap returns ErrCycleDetected so callers can match with errors.Is.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// NewCycleError creates a CycleError.
func NewCycleError(path []string) *CycleError {
	return &CycleError{Path: path}
}
