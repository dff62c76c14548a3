// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

// Package imat provides the dense integer matrix type shared by the
// multiplication packages under imat/contrib.
//
// A Matrix is a plain [][]int in row-major order:
//
//	m := imat.Matrix{
//	    {1, 2, 3},
//	    {4, 5, 6},
//	}
//	fmt.Println(m.Dims()) // 2x3
//
// Matrices allocated by this package (New, FromFlat, Identity) keep all rows
// in one contiguous backing slice.
package imat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalidDimensions is returned when a matrix is missing, empty, ragged,
// or when two operands cannot be multiplied.
var ErrInvalidDimensions = errors.New("imat: invalid dimensions")

// Matrix is a rectangular, row-major matrix of signed integers.
type Matrix [][]int

// Dims is a (rows, columns) pair.
type Dims struct {
	Rows, Cols int
}

// String returns the dims as "RxC".
func (d Dims) String() string {
	return fmt.Sprintf("%dx%d", d.Rows, d.Cols)
}

// Size returns Rows*Cols.
func (d Dims) Size() int {
	return d.Rows * d.Cols
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the length of the first row, or 0 for a matrix without rows.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Dims returns the matrix dimensions as reported by Rows and Cols.
func (m Matrix) Dims() Dims {
	return Dims{Rows: m.Rows(), Cols: m.Cols()}
}

// New allocates a zeroed rows x cols matrix backed by a single slice.
func New(rows, cols int) (Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("New(%d,%d): %w", rows, cols, ErrInvalidDimensions)
	}
	return fromFlat(make([]int, rows*cols), rows, cols), nil
}

// FromFlat wraps data as a rows x cols matrix without copying. Row i aliases
// data[i*cols : (i+1)*cols].
func FromFlat(data []int, rows, cols int) (Matrix, error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("FromFlat(len=%d,%d,%d): %w", len(data), rows, cols, ErrInvalidDimensions)
	}
	return fromFlat(data, rows, cols), nil
}

func fromFlat(data []int, rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range rows {
		// Full slice expression so appending to a row never bleeds into the next.
		m[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) (Matrix, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}
	for i := range n {
		m[i][i] = 1
	}
	return m, nil
}

// Clone returns a deep copy of m in a fresh contiguous buffer.
// Clone of a matrix with no rows returns nil.
func (m Matrix) Clone() Matrix {
	if len(m) == 0 {
		return nil
	}
	d, err := CheckShape(m)
	if err != nil {
		// Ragged or column-less input: keep the row lengths as they were.
		out := make(Matrix, len(m))
		for i, row := range m {
			out[i] = append([]int(nil), row...)
		}
		return out
	}
	data := make([]int, 0, d.Size())
	for _, row := range m {
		data = append(data, row...)
	}
	return fromFlat(data, d.Rows, d.Cols)
}

// Equal reports whether m and o have the same shape and the same values.
func (m Matrix) Equal(o Matrix) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(o[i]) {
			return false
		}
		for j := range m[i] {
			if m[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

// String renders the matrix with rows separated by newlines and cells
// separated by ", ".
func (m Matrix) String() string {
	return Format(m)
}

// Format renders m the same way as Matrix.String.
func Format(m Matrix) string {
	rows := lo.Map(m, func(row []int, _ int) string {
		cells := lo.Map(row, func(v int, _ int) string {
			return strconv.Itoa(v)
		})
		return strings.Join(cells, ", ")
	})
	return strings.Join(rows, "\n")
}
