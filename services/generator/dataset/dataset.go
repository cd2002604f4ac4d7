// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dataset holds the column-oriented population table the generator
// stages build up and hand to downstream consumers.
//
// A Table preserves row identity: index i refers to the same synthetic
// individual in every column, across every stage. Columns are appended one
// per generation step and never mutated afterwards, except by the
// normalizer, which replaces named columns on cloned tables.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Table is an ordered collection of named, equal-length float64 columns.
//
// Binary attributes are stored as 0/1 floats so every column shares one
// representation; consumers that need ints truncate losslessly.
type Table struct {
	n     int
	order []string
	cols  map[string][]float64
}

// NewTable creates an empty table with n rows.
func NewTable(n int) (*Table, error) {
	if n <= 0 {
		return nil, ErrNoRows
	}
	return &Table{
		n:    n,
		cols: make(map[string][]float64),
	}, nil
}

// Len returns the row count.
func (t *Table) Len() int {
	return t.n
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// AddColumn appends a column. The table takes ownership of values.
func (t *Table) AddColumn(name string, values []float64) error {
	if _, exists := t.cols[name]; exists {
		return fmt.Errorf("column %q: %w", name, ErrColumnExists)
	}
	if len(values) != t.n {
		return fmt.Errorf("column %q: %w (got %d, want %d)", name, ErrLengthMismatch, len(values), t.n)
	}
	t.order = append(t.order, name)
	t.cols[name] = values
	return nil
}

// SetColumn replaces an existing column, keeping its position.
func (t *Table) SetColumn(name string, values []float64) error {
	if _, exists := t.cols[name]; !exists {
		return fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
	}
	if len(values) != t.n {
		return fmt.Errorf("column %q: %w (got %d, want %d)", name, ErrLengthMismatch, len(values), t.n)
	}
	t.cols[name] = values
	return nil
}

// Column returns the named column. The returned slice is the table's backing
// storage; callers must not mutate it.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
	}
	return col, nil
}

// Row returns a read-only view of row i, suitable for per-row parameter
// functions.
func (t *Table) Row(i int) RowView {
	return RowView{table: t, index: i}
}

// Select returns a new table containing the given rows (in the given order)
// of every column. Used by the partitioner to materialize splits while
// keeping column alignment.
func (t *Table) Select(rows []int) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	for _, r := range rows {
		if r < 0 || r >= t.n {
			return nil, fmt.Errorf("row %d: %w", r, ErrRowOutOfRange)
		}
	}
	out := &Table{
		n:     len(rows),
		order: make([]string, len(t.order)),
		cols:  make(map[string][]float64, len(t.cols)),
	}
	copy(out.order, t.order)
	for name, col := range t.cols {
		sel := make([]float64, len(rows))
		for i, r := range rows {
			sel[i] = col[r]
		}
		out.cols[name] = sel
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		n:     t.n,
		order: make([]string, len(t.order)),
		cols:  make(map[string][]float64, len(t.cols)),
	}
	copy(out.order, t.order)
	for name, col := range t.cols {
		dup := make([]float64, len(col))
		copy(dup, col)
		out.cols[name] = dup
	}
	return out
}

// Equal reports whether two tables have identical columns, order, and values.
// Used by determinism checks; NaN values compare unequal, which is the
// desired behavior (a NaN in output is a bug).
func (t *Table) Equal(other *Table) bool {
	if other == nil || t.n != other.n || len(t.order) != len(other.order) {
		return false
	}
	for i, name := range t.order {
		if other.order[i] != name {
			return false
		}
		a, b := t.cols[name], other.cols[name]
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// WriteCSV writes the table with a header row of column names. Values are
// rendered with the shortest exact float representation so round-tripping
// is lossless.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.order); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.order))
	for i := 0; i < t.n; i++ {
		for j, name := range t.order {
			record[j] = strconv.FormatFloat(t.cols[name][i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RowView is a read-only view of one table row.
type RowView struct {
	table *Table
	index int
}

// Value returns the row's value in the named column. Unknown names panic:
// the schema registry validates dependency names before generation starts,
// so reaching this is a programmer error, not a configuration error.
func (v RowView) Value(name string) float64 {
	col, ok := v.table.cols[name]
	if !ok {
		panic(fmt.Sprintf("dataset: row view read of unknown column %q", name))
	}
	return col[v.index]
}

// Partitions groups the three dataset splits.
type Partitions struct {
	Train      *Table
	Validation *Table
	Test       *Table
}

// Clone deep-copies all three splits.
func (p Partitions) Clone() Partitions {
	return Partitions{
		Train:      p.Train.Clone(),
		Validation: p.Validation.Clone(),
		Test:       p.Test.Clone(),
	}
}
