// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pipeline

import "errors"

// Sentinel errors for the pipeline package. All of them are configuration
// errors: the pipeline has no per-row failure mode, so any error aborts the
// run before a malformed dataset can reach a downstream consumer.
var (
	// ErrNilContext is returned when a nil context is passed to Run.
	ErrNilContext = errors.New("context must not be nil")

	// ErrInvalidConfig is returned for out-of-domain configuration values.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")

	// ErrZeroVariance is returned when a feature has zero variance on the
	// training partition, which would make normalization divide by zero.
	ErrZeroVariance = errors.New("zero variance on training partition")

	// ErrUnknownFeature is returned when the continuous-feature list names a
	// column the generator does not produce.
	ErrUnknownFeature = errors.New("unknown continuous feature")

	// ErrEmptyPartition is returned when the configured fractions leave a
	// partition with no rows.
	ErrEmptyPartition = errors.New("partition would be empty")
)
