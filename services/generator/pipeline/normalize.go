// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/fairlens/recruitgen/services/generator/dataset"
)

// Scaler holds per-feature standardization parameters fitted on the training
// partition. The parameters are immutable after FitScaler and are shared by
// reference across partitions: validation and test are transformed with the
// training fit and never influence it.
type Scaler struct {
	Features []string
	Mean     map[string]float64
	Std      map[string]float64
}

// FitScaler computes mean and population standard deviation per continuous
// feature, restricted to the training partition.
//
// A zero-variance feature is a configuration error: transforming with it
// would divide by zero and silently poison every downstream consumer, so the
// fit aborts naming the feature instead.
func FitScaler(train *dataset.Table, features []string) (*Scaler, error) {
	s := &Scaler{
		Features: append([]string(nil), features...),
		Mean:     make(map[string]float64, len(features)),
		Std:      make(map[string]float64, len(features)),
	}
	for _, name := range features {
		col, err := train.Column(name)
		if err != nil {
			return nil, fmt.Errorf("fit scaler: %w", err)
		}
		mean := stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		if std == 0 {
			return nil, fmt.Errorf("feature %q: %w", name, ErrZeroVariance)
		}
		s.Mean[name] = mean
		s.Std[name] = std
	}
	return s, nil
}

// Transform returns a copy of t with every fitted feature replaced by
// (x - mean) / std. Columns outside the fitted list pass through untouched.
func (s *Scaler) Transform(t *dataset.Table) (*dataset.Table, error) {
	out := t.Clone()
	for _, name := range s.Features {
		col, err := out.Column(name)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		mean, std := s.Mean[name], s.Std[name]
		scaled := make([]float64, len(col))
		for i, x := range col {
			scaled[i] = (x - mean) / std
		}
		if err := out.SetColumn(name, scaled); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
	}
	return out, nil
}
