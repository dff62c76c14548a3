// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"fmt"

	"github.com/presenso/intmat/imat"
)

// Multiply computes C = A * B with a plain triple loop on the calling
// goroutine.
//
//   - A is M x K
//   - B is K x N
//   - C is M x N, freshly allocated
//
// Both operands are validated before anything is allocated; malformed or
// incompatible operands return an error wrapping imat.ErrInvalidDimensions.
func Multiply(a, b imat.Matrix) (imat.Matrix, error) {
	dims, err := imat.Validate(a, b)
	if err != nil {
		return nil, fmt.Errorf("matmul: %w", err)
	}

	data := make([]int, dims.Size())
	rootView(data, dims).multiply(a, b)

	return imat.FromFlat(data, dims.Rows, dims.Cols)
}
