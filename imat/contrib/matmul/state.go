// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

//go:generate go tool stringer -type=State -trimprefix=State

// State is the lifecycle stage of a region in the parallel task tree.
//
//	Created -> Splitting -> (two children) -> Done
//	Created -> ComputingLeaf -> Done
type State int

const (
	// StateCreated is the state of a region that has not yet been examined.
	StateCreated State = iota
	// StateSplitting means the region was bisected and its halves forked.
	StateSplitting
	// StateComputingLeaf means the region is being computed directly.
	StateComputingLeaf
	// StateDone means every cell of the region has been written.
	StateDone
)
