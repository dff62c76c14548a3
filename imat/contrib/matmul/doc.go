// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

// Package matmul multiplies dense integer matrices.
//
// Multiply is the sequential triple-loop reference. MultiplyParallel
// computes the same product by recursively bisecting the output rectangle
// along its longer side until a region is thinner than LoadPerWorker, then
// computing each leaf region directly. Sibling regions are forked onto a
// shared workerpool.Pool and joined before their parent completes; every
// leaf writes a disjoint window of one pre-allocated result buffer.
//
// Example usage:
//
//	// C = A * B where A is MxK and B is KxN
//	c, err := matmul.MultiplyParallel(a, b)
//	if errors.Is(err, imat.ErrInvalidDimensions) {
//	    // malformed or incompatible operands
//	}
//
// Per-call tuning goes through Config:
//
//	c, err := matmul.MultiplyParallelWithConfig(a, b, matmul.Config{
//	    LoadPerWorker: 64,
//	    Pool:          pool,
//	    Logger:        logger,
//	})
//
// Arithmetic uses Go int semantics: overflow wraps silently.
package matmul
