// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable fork-join worker pool.
// A Pool is created once and shared by many divide-and-conquer computations,
// so no goroutines are spawned per task.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	var solve func(lo, hi int) error
//	solve = func(lo, hi int) error {
//	    if hi-lo < 2 {
//	        return leaf(lo, hi)
//	    }
//	    mid := lo + (hi-lo)/2
//	    return pool.Fork(
//	        func() error { return solve(lo, mid) },
//	        func() error { return solve(mid, hi) },
//	    )
//	}
//	err := pool.Invoke(func() error { return solve(0, n) })
//
// Fork never blocks on a busy pool: the right half is offered to the queue
// and, if no worker has picked it up by the time the left half returns, the
// forking goroutine takes it back and runs it itself. A goroutine therefore
// only ever waits for a task that is already running, which keeps nested
// forks on a fixed number of workers free of deadlocks.
package workerpool

import (
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned when work is submitted to a pool after Close.
var ErrClosed = errors.New("workerpool: pool is closed")

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan *task

	// mu guards closed and the close of workC against concurrent sends.
	mu     sync.RWMutex
	closed bool

	stats counters
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan *task, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for t := range p.workC {
		if t.claim() {
			p.stats.stolen.Add(1)
			t.run()
		}
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. Work already queued still completes.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.workC)
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// offer hands t to an idle worker without blocking. It reports false when
// the queue is full, in which case the caller keeps t for itself.
func (p *Pool) offer(t *task) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false, ErrClosed
	}
	select {
	case p.workC <- t:
		p.stats.forked.Add(1)
		return true, nil
	default:
		return false, nil
	}
}

// Invoke runs fn as the root of a fork-join computation on the calling
// goroutine and blocks until it and every task it forked have finished.
func (p *Pool) Invoke(fn func() error) error {
	if p.Closed() {
		return ErrClosed
	}
	return fn()
}

// Fork runs left and right, potentially in parallel, and returns once both
// have finished. Writes made by either function happen-before Fork returns.
//
// The returned error joins the errors of both halves. If the pool is closed
// Fork returns ErrClosed without running either function.
func (p *Pool) Fork(left, right func() error) error {
	t := newTask(right)
	queued, err := p.offer(t)
	if err != nil {
		return err
	}

	leftErr := left()

	if !queued || t.claim() {
		p.stats.inlined.Add(1)
		t.run()
	} else {
		<-t.done
	}
	return errors.Join(leftErr, t.err)
}

// ParallelFor executes fn for each index in [0, n) using the worker pool.
// Each task processes a contiguous range of indices.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	if p.Closed() {
		return ErrClosed
	}

	// Don't use more workers than items
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return nil
	}

	// Calculate chunk size (ensure all items are covered)
	chunkSize := (n + workers - 1) / workers

	var (
		tasks  []*task
		queued []bool
	)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		t := newTask(func() error {
			fn(start, end)
			return nil
		})
		ok, err := p.offer(t)
		if err != nil {
			// Reclaim what we queued so nothing runs after we return.
			for i, q := range queued {
				if q && !tasks[i].claim() {
					<-tasks[i].done
				}
			}
			return err
		}
		tasks = append(tasks, t)
		queued = append(queued, ok)
	}

	// Run anything no worker has picked up, then wait for the rest.
	for i, t := range tasks {
		if !queued[i] || t.claim() {
			p.stats.inlined.Add(1)
			t.run()
		}
	}
	for i, t := range tasks {
		if queued[i] {
			<-t.done
		}
	}
	return nil
}
