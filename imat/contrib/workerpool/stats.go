// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// counters are bumped from every worker, so each one sits on its own cache
// line.
type counters struct {
	_       cpu.CacheLinePad
	forked  atomic.Int64
	_       cpu.CacheLinePad
	stolen  atomic.Int64
	_       cpu.CacheLinePad
	inlined atomic.Int64
	_       cpu.CacheLinePad
}

// Stats is a snapshot of pool activity since creation.
type Stats struct {
	// Forked counts tasks handed to the queue.
	Forked int64
	// Stolen counts queued tasks that a pool worker ran.
	Stolen int64
	// Inlined counts tasks run by the goroutine that created them, either
	// because the queue was full or because no worker got to them first.
	Inlined int64
}

// Stats returns the current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Forked:  p.stats.forked.Load(),
		Stolen:  p.stats.stolen.Load(),
		Inlined: p.stats.inlined.Load(),
	}
}
