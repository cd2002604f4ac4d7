// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sample

import (
	"errors"
	"fmt"
)

// Sentinel errors for the sample package.
var (
	// ErrInvalidProbability is returned for a probability outside [0,1].
	ErrInvalidProbability = errors.New("probability must be in [0,1]")

	// ErrNegativeRate is returned for a negative Poisson rate.
	ErrNegativeRate = errors.New("rate must be non-negative")

	// ErrInvalidTrials is returned for a negative Binomial trial count.
	ErrInvalidTrials = errors.New("trial count must be non-negative")

	// ErrInvalidSigma is returned for a non-positive Normal standard deviation.
	ErrInvalidSigma = errors.New("standard deviation must be positive")

	// ErrNotFinite is returned when a parameter is NaN or infinite.
	ErrNotFinite = errors.New("parameter must be finite")
)

// ParamError wraps a domain error with the offending parameter and value,
// so configuration mistakes surface with a usable diagnostic.
type ParamError struct {
	Param string
	Value float64
	Err   error
}

// Error returns the error message.
func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %s=%v: %v", e.Param, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParamError) Unwrap() error {
	return e.Err
}

// NewParamError creates a ParamError.
func NewParamError(param string, value float64, err error) *ParamError {
	return &ParamError{Param: param, Value: value, Err: err}
}
