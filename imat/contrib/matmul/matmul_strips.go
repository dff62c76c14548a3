// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"fmt"

	"github.com/presenso/intmat/imat"
)

// MultiplyStrips computes C = A * B by cutting the output into one
// horizontal strip per worker and running the strips through
// Pool.ParallelFor. It ignores LoadPerWorker and Hooks.
//
// The result is identical to Multiply; it exists as a flat baseline for the
// recursive decomposition of MultiplyParallel.
func MultiplyStrips(a, b imat.Matrix, cfg Config) (imat.Matrix, error) {
	dims, err := imat.Validate(a, b)
	if err != nil {
		return nil, fmt.Errorf("matmul: %w", err)
	}
	cfg = cfg.resolved()

	data := make([]int, dims.Size())
	stride := dims.Cols
	err = cfg.Pool.ParallelFor(dims.Rows, func(rowStart, rowEnd int) {
		strip := view{
			data:   data[rowStart*stride : rowEnd*stride],
			stride: stride,
			region: Region{StartRow: rowStart, EndRow: rowEnd, StartCol: 0, EndCol: dims.Cols},
		}
		strip.multiply(a, b)
	})
	if err != nil {
		return nil, fmt.Errorf("matmul: strip multiply %s by %s: %w", a.Dims(), b.Dims(), err)
	}

	return imat.FromFlat(data, dims.Rows, dims.Cols)
}
