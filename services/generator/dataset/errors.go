// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dataset

import "errors"

// Sentinel errors for the dataset package.
var (
	// ErrNoRows is returned when constructing a table with a non-positive row count.
	ErrNoRows = errors.New("table must have at least one row")

	// ErrColumnExists is returned when adding a column that already exists.
	ErrColumnExists = errors.New("column already exists")

	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")

	// ErrLengthMismatch is returned when a column's length differs from the
	// table's row count.
	ErrLengthMismatch = errors.New("column length does not match row count")

	// ErrRowOutOfRange is returned for a row index outside [0, Len).
	ErrRowOutOfRange = errors.New("row index out of range")
)
