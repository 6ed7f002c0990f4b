// Package sched runs callbacks one at a time on a single logical thread, with
// cancellable one-shot and periodic tasks.
//
// Callbacks never overlap, so state touched only from callbacks needs no locks.
// Once Cancel returns, a task's callback will not start again, even if a timer
// had already fired.
package sched

import (
	"context"
	"sync/atomic"
	"time"
)

// Task is a handle on scheduled work
type Task interface {
	// Cancel stops the task; safe to call more than once
	Cancel()
	// Active reports whether the task may still run
	Active() bool
}

// Scheduler is the seam components schedule through
type Scheduler interface {
	// Post queues fn to run after the current callback completes
	Post(fn func())
	// After runs fn once, d from now
	After(d time.Duration, fn func()) Task
	// Every runs fn each d until cancelled; the first run is d from now
	Every(d time.Duration, fn func()) Task
	// Do runs fn on the scheduler thread and waits for it. Calling Do from
	// inside a callback deadlocks.
	Do(ctx context.Context, fn func()) error
}

// flag is the cancellation state shared by both scheduler implementations
type flag struct {
	off  atomic.Bool
	stop func()
}

func (f *flag) Cancel() {
	if f.off.Swap(true) {
		return
	}
	if f.stop != nil {
		f.stop()
	}
}

func (f *flag) Active() bool { return !f.off.Load() }

// Nop is a Task that was never scheduled
type Nop struct{}

// Cancel implements Task
func (Nop) Cancel() {}

// Active implements Task
func (Nop) Active() bool { return false }
