// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pipeline

import (
	"fmt"
	"sort"

	"github.com/fairlens/recruitgen/services/generator/sample"
)

// Part labels one partition of the population.
type Part int8

const (
	// PartTrain is the training partition.
	PartTrain Part = iota

	// PartValidation is the validation partition.
	PartValidation

	// PartTest is the test partition.
	PartTest
)

// String returns the partition name.
func (p Part) String() string {
	switch p {
	case PartTrain:
		return "train"
	case PartValidation:
		return "validation"
	case PartTest:
		return "test"
	default:
		return "unknown"
	}
}

// splitIndices performs the two-stage reproducible split: first the full
// population splits into (train+validation) vs test at testFrac, then the
// remainder splits into train vs validation at valFrac. Both draws come from
// the pipeline stream, so the assignment is pinned by the run seed.
//
// Returned index slices are sorted ascending so partition tables preserve
// the original row order; the randomness is only in membership.
func splitIndices(src *sample.Source, n int, testFrac, valFrac float64) (train, val, test []int, err error) {
	perm := src.Perm(n)
	nTest := int(float64(n) * testFrac)
	test = append([]int(nil), perm[:nTest]...)
	rest := perm[nTest:]

	subPerm := src.Perm(len(rest))
	nVal := int(float64(len(rest)) * valFrac)
	val = make([]int, 0, nVal)
	train = make([]int, 0, len(rest)-nVal)
	for i, j := range subPerm {
		if i < nVal {
			val = append(val, rest[j])
		} else {
			train = append(train, rest[j])
		}
	}

	for name, part := range map[string][]int{"train": train, "validation": val, "test": test} {
		if len(part) == 0 {
			return nil, nil, nil, fmt.Errorf("%s: %w", name, ErrEmptyPartition)
		}
	}

	sort.Ints(train)
	sort.Ints(val)
	sort.Ints(test)
	return train, val, test, nil
}

// assignment expands sorted index slices into a per-row partition label.
func assignment(n int, train, val, test []int) []Part {
	out := make([]Part, n)
	for _, i := range train {
		out[i] = PartTrain
	}
	for _, i := range val {
		out[i] = PartValidation
	}
	for _, i := range test {
		out[i] = PartTest
	}
	return out
}
