// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"fmt"

	"github.com/presenso/intmat/imat"
)

// Region is a half-open sub-rectangle [StartRow, EndRow) x [StartCol, EndCol)
// of the product matrix.
type Region struct {
	StartRow, EndRow int
	StartCol, EndCol int
}

// FullRegion returns the region covering a whole rows x cols matrix.
func FullRegion(d imat.Dims) Region {
	return Region{StartRow: 0, EndRow: d.Rows, StartCol: 0, EndCol: d.Cols}
}

// Rows returns the region height.
func (r Region) Rows() int { return r.EndRow - r.StartRow }

// Cols returns the region width.
func (r Region) Cols() int { return r.EndCol - r.StartCol }

// Size returns the number of cells in the region.
func (r Region) Size() int { return r.Rows() * r.Cols() }

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.StartRow, r.EndRow, r.StartCol, r.EndCol)
}

// Split bisects r along its longer side, preferring columns on a tie.
// It reports false when r should be computed directly: the chosen extent
// is below loadPerWorker, or it is 1 and cannot be halved.
//
// The two halves exactly partition r. The first half is
// [start, start+extent/2) along the split dimension.
func (r Region) Split(loadPerWorker int) (first, second Region, ok bool) {
	if r.Rows() > r.Cols() {
		n := r.Rows()
		if n < loadPerWorker || n < 2 {
			return r, Region{}, false
		}
		mid := r.StartRow + n/2
		first = Region{StartRow: r.StartRow, EndRow: mid, StartCol: r.StartCol, EndCol: r.EndCol}
		second = Region{StartRow: mid, EndRow: r.EndRow, StartCol: r.StartCol, EndCol: r.EndCol}
		return first, second, true
	}

	n := r.Cols()
	if n < loadPerWorker || n < 2 {
		return r, Region{}, false
	}
	mid := r.StartCol + n/2
	first = Region{StartRow: r.StartRow, EndRow: r.EndRow, StartCol: r.StartCol, EndCol: mid}
	second = Region{StartRow: r.StartRow, EndRow: r.EndRow, StartCol: mid, EndCol: r.EndCol}
	return first, second, true
}

// view is the window of the result buffer a task may write. Cell (i, j) of
// the product, for i and j inside region, lives at
// data[(i-region.StartRow)*stride + (j-region.StartCol)].
//
// Splitting a view hands each half its own window; the halves never share a
// cell, so tasks holding different views can write without synchronization.
type view struct {
	data   []int
	stride int
	region Region
}

// rootView wraps a freshly allocated rows*cols buffer.
func rootView(data []int, d imat.Dims) view {
	return view{data: data, stride: d.Cols, region: FullRegion(d)}
}

// split divides v the way Region.Split divides v.region.
func (v view) split(loadPerWorker int) (view, view, bool) {
	first, second, ok := v.region.Split(loadPerWorker)
	if !ok {
		return v, view{}, false
	}
	if first.EndCol == v.region.EndCol {
		// Split by rows: the second half starts first.Rows() rows down.
		off := first.Rows() * v.stride
		return view{data: v.data[:off], stride: v.stride, region: first},
			view{data: v.data[off:], stride: v.stride, region: second}, true
	}
	// Split by columns: the second half starts first.Cols() cells to the right.
	off := first.Cols()
	return view{data: v.data, stride: v.stride, region: first},
		view{data: v.data[off:], stride: v.stride, region: second}, true
}

// multiply writes a*b for every cell of v.region. It is the triple loop of
// Multiply restricted to the region's row and column ranges.
func (v view) multiply(a, b imat.Matrix) {
	r := v.region
	inner := len(b)
	for i := r.StartRow; i < r.EndRow; i++ {
		ai := a[i]
		out := v.data[(i-r.StartRow)*v.stride:]
		for j := r.StartCol; j < r.EndCol; j++ {
			sum := 0
			for k := range inner {
				sum += ai[k] * b[k][j]
			}
			out[j-r.StartCol] = sum
		}
	}
}
