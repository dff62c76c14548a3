// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import "sync/atomic"

const (
	taskPending int32 = iota
	taskClaimed
)

// task is a unit of forked work. Exactly one goroutine wins claim and runs
// it; everyone else waits on done.
type task struct {
	fn    func() error
	state atomic.Int32
	done  chan struct{}
	err   error
}

func newTask(fn func() error) *task {
	return &task{fn: fn, done: make(chan struct{})}
}

// claim transitions the task from pending to claimed.
func (t *task) claim() bool {
	return t.state.CompareAndSwap(taskPending, taskClaimed)
}

// run executes fn and publishes err through the close of done.
func (t *task) run() {
	defer close(t.done)
	t.err = t.fn()
}
