// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/presenso/intmat/imat"
	"github.com/presenso/intmat/imat/contrib/workerpool"
)

// MultiplyParallel computes C = A * B by recursive fork-join decomposition
// of the output on the shared pool, using the process-wide LoadPerWorker.
// The result is identical to Multiply. The call blocks until every region
// has been computed.
func MultiplyParallel(a, b imat.Matrix) (imat.Matrix, error) {
	return MultiplyParallelWithConfig(a, b, Config{})
}

// MultiplyParallelWithConfig is MultiplyParallel with explicit tuning.
//
// Operands are validated once, before any task is forked. If the pool is
// closed the call fails with workerpool.ErrClosed and returns no matrix.
func MultiplyParallelWithConfig(a, b imat.Matrix, cfg Config) (imat.Matrix, error) {
	dims, err := imat.Validate(a, b)
	if err != nil {
		return nil, fmt.Errorf("matmul: %w", err)
	}
	cfg = cfg.resolved()

	start := time.Now()
	data := make([]int, dims.Size())
	j := &job{
		a:     a,
		b:     b,
		load:  cfg.LoadPerWorker,
		pool:  cfg.Pool,
		hooks: cfg.Hooks,
	}
	if err := cfg.Pool.Invoke(func() error { return j.compute(rootView(data, dims)) }); err != nil {
		return nil, fmt.Errorf("matmul: parallel multiply %s by %s: %w", a.Dims(), b.Dims(), err)
	}

	cfg.Logger.Debug("parallel multiply",
		zap.Stringer("left", a.Dims()),
		zap.Stringer("right", b.Dims()),
		zap.Int("load_per_worker", cfg.LoadPerWorker),
		zap.Int64("leaves", j.leaves.Load()),
		zap.Int("workers", cfg.Pool.NumWorkers()),
		zap.Duration("elapsed", time.Since(start)))

	return imat.FromFlat(data, dims.Rows, dims.Cols)
}

// job holds what every region of one parallel call shares. a and b are only
// read; each region writes through its own view.
type job struct {
	a, b   imat.Matrix
	load   int
	pool   *workerpool.Pool
	hooks  *Hooks
	leaves atomic.Int64
}

func (j *job) transition(r Region, s State) {
	if j.hooks != nil && j.hooks.OnTransition != nil {
		j.hooks.OnTransition(r, s)
	}
}

// compute either fills v directly or splits it and forks both halves,
// returning once the whole region is written.
func (j *job) compute(v view) error {
	j.transition(v.region, StateCreated)

	first, second, ok := v.split(j.load)
	if !ok {
		j.transition(v.region, StateComputingLeaf)
		v.multiply(j.a, j.b)
		j.leaves.Add(1)
		j.transition(v.region, StateDone)
		return nil
	}

	j.transition(v.region, StateSplitting)
	err := j.pool.Fork(
		func() error { return j.compute(first) },
		func() error { return j.compute(second) },
	)
	if err != nil {
		return err
	}
	j.transition(v.region, StateDone)
	return nil
}
