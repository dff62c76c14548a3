// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadPerWorkerFromEnv(t *testing.T) {
	for val, want := range map[string]int64{
		"":      DefaultLoadPerWorker,
		"16":    16,
		"1":     1,
		"0":     DefaultLoadPerWorker,
		"-3":    DefaultLoadPerWorker,
		"lots":  DefaultLoadPerWorker,
		"2.5":   DefaultLoadPerWorker,
		"  8  ": DefaultLoadPerWorker,
	} {
		t.Setenv(LoadPerWorkerEnv, val)
		require.Equal(t, want, loadPerWorkerFromEnv(), "%s=%q", LoadPerWorkerEnv, val)
	}
}

func TestSetLoadPerWorker(t *testing.T) {
	prev := LoadPerWorker()
	t.Cleanup(func() { SetLoadPerWorker(prev) })

	SetLoadPerWorker(7)
	require.Equal(t, 7, LoadPerWorker())

	SetLoadPerWorker(0)
	require.Equal(t, DefaultLoadPerWorker, LoadPerWorker())

	cfg := Config{}.resolved()
	require.Equal(t, DefaultLoadPerWorker, cfg.LoadPerWorker)
	require.Same(t, SharedPool(), cfg.Pool)
	require.NotNil(t, cfg.Logger)

	cfg = Config{LoadPerWorker: 3}.resolved()
	require.Equal(t, 3, cfg.LoadPerWorker)
}

// countLeaves multiplies the reference operands and returns the number of
// leaf regions computed.
func countLeaves(t *testing.T, cfg Config) int32 {
	t.Helper()
	var leaves atomic.Int32
	cfg.Hooks = &Hooks{OnTransition: func(_ Region, s State) {
		if s == StateComputingLeaf {
			leaves.Add(1)
		}
	}}
	got, err := MultiplyParallelWithConfig(refA, refB, cfg)
	require.NoError(t, err)
	require.Equal(t, refC, got)
	return leaves.Load()
}

func TestDefaultLoadAppliesToLaterCalls(t *testing.T) {
	prev := LoadPerWorker()
	t.Cleanup(func() { SetLoadPerWorker(prev) })

	SetLoadPerWorker(1000)
	require.EqualValues(t, 1, countLeaves(t, Config{}))

	SetLoadPerWorker(1)
	require.EqualValues(t, 9, countLeaves(t, Config{}))

	// An explicit threshold wins over the process default.
	require.EqualValues(t, 1, countLeaves(t, Config{LoadPerWorker: 1000}))
}

func TestDefaultLoadSnapshotPerCall(t *testing.T) {
	prev := LoadPerWorker()
	t.Cleanup(func() { SetLoadPerWorker(prev) })
	SetLoadPerWorker(1)

	// Changing the default from inside a running call must not affect it.
	var leaves atomic.Int32
	hooks := &Hooks{OnTransition: func(_ Region, s State) {
		if s == StateCreated {
			SetLoadPerWorker(1000)
		}
		if s == StateComputingLeaf {
			leaves.Add(1)
		}
	}}
	got, err := MultiplyParallelWithConfig(refA, refB, Config{Hooks: hooks})
	require.NoError(t, err)
	require.Equal(t, refC, got)
	require.EqualValues(t, 9, leaves.Load())
	require.Equal(t, 1000, LoadPerWorker())
}

func TestParallelLogsDebugEntry(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	_, err := MultiplyParallelWithConfig(refA, refB, Config{LoadPerWorker: 1, Logger: zap.New(core)})
	require.NoError(t, err)

	entries := logs.FilterMessage("parallel multiply").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "3x4", fields["left"])
	require.Equal(t, "4x3", fields["right"])
	require.EqualValues(t, 1, fields["load_per_worker"])
	require.EqualValues(t, 9, fields["leaves"])
}
