// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/presenso/intmat/imat/contrib/workerpool"
)

// Parallel tuning parameters
const (
	// DefaultLoadPerWorker is the split threshold used when neither the
	// caller nor MATMUL_LOAD_PER_WORKER provides one.
	DefaultLoadPerWorker = 2

	// LoadPerWorkerEnv names the environment variable read at init to
	// override DefaultLoadPerWorker for the whole process.
	LoadPerWorkerEnv = "MATMUL_LOAD_PER_WORKER"
)

// defaultLoad is the process-wide threshold. Calls snapshot it once on entry.
var defaultLoad atomic.Int64

func init() {
	defaultLoad.Store(loadPerWorkerFromEnv())
}

// loadPerWorkerFromEnv parses LoadPerWorkerEnv. Unset, malformed or
// non-positive values fall back to DefaultLoadPerWorker.
func loadPerWorkerFromEnv() int64 {
	val := os.Getenv(LoadPerWorkerEnv)
	if val == "" {
		return DefaultLoadPerWorker
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return DefaultLoadPerWorker
	}
	return int64(n)
}

// LoadPerWorker returns the current process-wide split threshold.
func LoadPerWorker() int {
	return int(defaultLoad.Load())
}

// SetLoadPerWorker changes the process-wide split threshold used by
// calls that leave Config.LoadPerWorker unset. Calls already running keep
// the value they started with. Values <= 0 restore DefaultLoadPerWorker.
func SetLoadPerWorker(n int) {
	if n <= 0 {
		n = DefaultLoadPerWorker
	}
	defaultLoad.Store(int64(n))
}

// sharedPool backs every call that does not bring its own pool. It lives for
// the whole process.
var sharedPool = sync.OnceValue(func() *workerpool.Pool {
	return workerpool.New(0)
})

// SharedPool returns the pool used when Config.Pool is nil.
func SharedPool() *workerpool.Pool {
	return sharedPool()
}

// Config tunes a single parallel multiplication. The zero value is valid.
type Config struct {
	// LoadPerWorker is the smallest extent, along the dimension chosen for
	// splitting, that a region needs in order to be bisected. Zero or
	// negative means the process default.
	LoadPerWorker int

	// Pool executes forked regions. Nil means SharedPool().
	Pool *workerpool.Pool

	// Logger receives one debug entry per call. Nil disables logging.
	Logger *zap.Logger

	// Hooks observes region state transitions. Optional.
	Hooks *Hooks
}

// Hooks lets callers observe the task tree. Callbacks run concurrently on
// pool workers and must be safe for concurrent use.
type Hooks struct {
	// OnTransition is called every time a region enters a new State.
	OnTransition func(r Region, s State)
}

// resolved returns a copy of c with every default filled in.
func (c Config) resolved() Config {
	if c.LoadPerWorker <= 0 {
		c.LoadPerWorker = LoadPerWorker()
	}
	if c.Pool == nil {
		c.Pool = SharedPool()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
