// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/presenso/intmat/imat"
	"github.com/presenso/intmat/imat/contrib/workerpool"
)

func TestRegionSplit(t *testing.T) {
	testCases := []struct {
		name          string
		r             Region
		load          int
		first, second Region
		ok            bool
	}{
		{
			name:   "taller splits rows",
			r:      Region{StartRow: 0, EndRow: 5, StartCol: 0, EndCol: 3},
			load:   2,
			first:  Region{StartRow: 0, EndRow: 2, StartCol: 0, EndCol: 3},
			second: Region{StartRow: 2, EndRow: 5, StartCol: 0, EndCol: 3},
			ok:     true,
		},
		{
			name:   "square splits columns",
			r:      Region{StartRow: 4, EndRow: 8, StartCol: 10, EndCol: 14},
			load:   2,
			first:  Region{StartRow: 4, EndRow: 8, StartCol: 10, EndCol: 12},
			second: Region{StartRow: 4, EndRow: 8, StartCol: 12, EndCol: 14},
			ok:     true,
		},
		{
			name:   "wider splits columns with floor midpoint",
			r:      Region{StartRow: 1, EndRow: 2, StartCol: 3, EndCol: 10},
			load:   2,
			first:  Region{StartRow: 1, EndRow: 2, StartCol: 3, EndCol: 6},
			second: Region{StartRow: 1, EndRow: 2, StartCol: 6, EndCol: 10},
			ok:     true,
		},
		{
			name: "extent below threshold is a leaf",
			r:    Region{StartRow: 0, EndRow: 3, StartCol: 0, EndCol: 1},
			load: 4,
			ok:   false,
		},
		{
			name:   "extent equal to threshold splits",
			r:      Region{StartRow: 0, EndRow: 4, StartCol: 0, EndCol: 1},
			load:   4,
			first:  Region{StartRow: 0, EndRow: 2, StartCol: 0, EndCol: 1},
			second: Region{StartRow: 2, EndRow: 4, StartCol: 0, EndCol: 1},
			ok:     true,
		},
		{
			name: "single cell with load 1 is a leaf",
			r:    Region{StartRow: 7, EndRow: 8, StartCol: 7, EndCol: 8},
			load: 1,
			ok:   false,
		},
		{
			name: "only the chosen dimension counts",
			r:    Region{StartRow: 0, EndRow: 100, StartCol: 0, EndCol: 1},
			load: 1000,
			ok:   false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first, second, ok := tc.r.Split(tc.load)
			require.Equal(t, tc.ok, ok)
			if !ok {
				require.Equal(t, tc.r, first)
				return
			}
			require.Equal(t, tc.first, first)
			require.Equal(t, tc.second, second)
			require.Equal(t, tc.r.Size(), first.Size()+second.Size())
		})
	}
}

func TestViewSplitWindows(t *testing.T) {
	d := imat.Dims{Rows: 3, Cols: 4}
	data := make([]int, d.Size())
	root := rootView(data, d)

	left, right, ok := root.split(2)
	require.True(t, ok)
	require.Equal(t, Region{StartRow: 0, EndRow: 3, StartCol: 0, EndCol: 2}, left.region)
	require.Equal(t, Region{StartRow: 0, EndRow: 3, StartCol: 2, EndCol: 4}, right.region)

	top, bottom, ok := right.split(2)
	require.True(t, ok)
	require.Equal(t, Region{StartRow: 0, EndRow: 1, StartCol: 2, EndCol: 4}, top.region)
	require.Equal(t, Region{StartRow: 1, EndRow: 3, StartCol: 2, EndCol: 4}, bottom.region)

	// bottom's first cell is product cell (1, 2).
	bottom.data[0] = 12
	require.Equal(t, 12, data[1*d.Cols+2])
}

// leafCover runs a parallel multiply and counts how often each output cell
// falls inside a leaf region.
func leafCover(t *testing.T, pool *workerpool.Pool, d imat.Dims, load int) []atomic.Int32 {
	t.Helper()
	r := rand.New(rand.NewPCG(uint64(d.Rows), uint64(d.Cols)))
	a := randomMatrix(r, d.Rows, 3)
	b := randomMatrix(r, 3, d.Cols)

	visits := make([]atomic.Int32, d.Size())
	hooks := &Hooks{
		OnTransition: func(reg Region, s State) {
			if s != StateComputingLeaf {
				return
			}
			for i := reg.StartRow; i < reg.EndRow; i++ {
				for j := reg.StartCol; j < reg.EndCol; j++ {
					visits[i*d.Cols+j].Add(1)
				}
			}
		},
	}
	_, err := MultiplyParallelWithConfig(a, b, Config{LoadPerWorker: load, Pool: pool, Hooks: hooks})
	require.NoError(t, err)
	return visits
}

func TestLeafRegionsCoverOutputExactlyOnce(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	for _, d := range []imat.Dims{{Rows: 1, Cols: 1}, {Rows: 1, Cols: 9}, {Rows: 9, Cols: 1}, {Rows: 3, Cols: 3}, {Rows: 7, Cols: 13}, {Rows: 32, Cols: 32}, {Rows: 50, Cols: 3}} {
		for _, load := range []int{1, 2, 5, 1000} {
			visits := leafCover(t, pool, d, load)
			for idx := range visits {
				if n := visits[idx].Load(); n != 1 {
					t.Errorf("dims=%s load=%d: cell (%d,%d) visited %d times",
						d, load, idx/d.Cols, idx%d.Cols, n)
				}
			}
		}
	}
}

func TestStateTransitions(t *testing.T) {
	var (
		mu      sync.Mutex
		history = map[Region][]State{}
	)
	hooks := &Hooks{
		OnTransition: func(r Region, s State) {
			mu.Lock()
			defer mu.Unlock()
			history[r] = append(history[r], s)
		},
	}

	d := imat.Dims{Rows: 6, Cols: 5}
	r := rand.New(rand.NewPCG(9, 9))
	a := randomMatrix(r, d.Rows, 4)
	b := randomMatrix(r, 4, d.Cols)
	_, err := MultiplyParallelWithConfig(a, b, Config{LoadPerWorker: 2, Hooks: hooks})
	require.NoError(t, err)

	split := []State{StateCreated, StateSplitting, StateDone}
	leaf := []State{StateCreated, StateComputingLeaf, StateDone}

	require.Equal(t, split, history[FullRegion(d)], "root region")

	var leaves, cells int
	for reg, states := range history {
		switch states[1] {
		case StateSplitting:
			require.Equal(t, split, states, "region %s", reg)
		case StateComputingLeaf:
			require.Equal(t, leaf, states, "region %s", reg)
			leaves++
			cells += reg.Size()
		default:
			t.Errorf("region %s: unexpected history %v", reg, states)
		}
	}
	require.Equal(t, d.Size(), cells)
	// A binary tree with L leaves has L-1 internal nodes.
	require.Equal(t, 2*leaves-1, len(history))
}

func TestLargeThresholdIsSingleLeaf(t *testing.T) {
	var leaves atomic.Int32
	hooks := &Hooks{OnTransition: func(_ Region, s State) {
		if s == StateComputingLeaf {
			leaves.Add(1)
		}
	}}
	got, err := MultiplyParallelWithConfig(refA, refB, Config{LoadPerWorker: 1000, Hooks: hooks})
	require.NoError(t, err)
	require.Equal(t, refC, got)
	require.EqualValues(t, 1, leaves.Load())
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateCreated:       "Created",
		StateSplitting:     "Splitting",
		StateComputingLeaf: "ComputingLeaf",
		StateDone:          "Done",
		State(9):           "State(9)",
	} {
		require.Equal(t, want, s.String())
	}
	require.Equal(t, "[0,3)x[1,4)", fmt.Sprint(Region{StartRow: 0, EndRow: 3, StartCol: 1, EndCol: 4}))
}
