// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package imat

import "fmt"

// CheckShape verifies that m has at least one row, at least one column and
// that every row has the same length. It returns the matrix dims.
func CheckShape(m Matrix) (Dims, error) {
	if len(m) == 0 {
		return Dims{}, fmt.Errorf("matrix has no rows: %w", ErrInvalidDimensions)
	}
	cols := len(m[0])
	if cols == 0 {
		return Dims{}, fmt.Errorf("matrix has no columns: %w", ErrInvalidDimensions)
	}
	for i, row := range m {
		if len(row) != cols {
			return Dims{}, fmt.Errorf("row %d has %d columns, row 0 has %d: %w",
				i, len(row), cols, ErrInvalidDimensions)
		}
	}
	return Dims{Rows: len(m), Cols: cols}, nil
}

// Validate checks that a and b are well formed and that a*b is defined.
// On success it returns the dims of the product.
//
// Every failure wraps ErrInvalidDimensions.
func Validate(a, b Matrix) (Dims, error) {
	da, err := CheckShape(a)
	if err != nil {
		return Dims{}, fmt.Errorf("left operand: %w", err)
	}
	db, err := CheckShape(b)
	if err != nil {
		return Dims{}, fmt.Errorf("right operand: %w", err)
	}
	if da.Cols != db.Rows {
		return Dims{}, fmt.Errorf("cannot multiply %s by %s: columns of left must equal rows of right: %w",
			da, db, ErrInvalidDimensions)
	}
	return Dims{Rows: da.Rows, Cols: db.Cols}, nil
}
