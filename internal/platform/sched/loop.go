package sched

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
)

// LoopOptions configure a Loop
type LoopOptions struct {
	Logger *logger.Logger
	// OnPanic observes recovered callback panics, e.g. for a metrics counter
	OnPanic func(v any)
}

// Loop is a Scheduler backed by one goroutine and wall clock timers
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	running bool
	stopped chan struct{}

	log     *logger.Logger
	onPanic func(any)
}

// NewLoop builds a Loop; nothing runs until Run is called
func NewLoop(opt LoopOptions) *Loop {
	log := opt.Logger
	if log == nil {
		log = logger.Named("sched")
	}
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		log:     log,
		onPanic: opt.OnPanic,
	}
}

// Post implements Scheduler; it never blocks
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After implements Scheduler
func (l *Loop) After(d time.Duration, fn func()) Task {
	f := &flag{}
	t := time.AfterFunc(d, func() {
		l.Post(func() {
			if f.off.Swap(true) {
				return
			}
			fn()
		})
	})
	f.stop = func() { t.Stop() }
	return f
}

// Every implements Scheduler. Ticks that arrive while the previous run is
// still queued are dropped.
func (l *Loop) Every(d time.Duration, fn func()) Task {
	f := &flag{}
	quit := make(chan struct{})
	f.stop = func() { close(quit) }

	var queued sync.Mutex
	go func() {
		tk := time.NewTicker(d)
		defer tk.Stop()
		for {
			select {
			case <-quit:
				return
			case <-l.stopped:
				return
			case <-tk.C:
				if !queued.TryLock() {
					continue
				}
				l.Post(func() {
					defer queued.Unlock()
					if f.Active() {
						fn()
					}
				})
			}
		}
	}()
	return f
}

// Do implements Scheduler
func (l *Loop) Do(ctx context.Context, fn func()) error {
	select {
	case <-l.stopped:
		return perr.Unavailablef("scheduler stopped")
	default:
	}
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return perr.Unavailablef("scheduler stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes callbacks until ctx is done. It returns nil on cancellation and
// an error if the loop is already running.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return perr.Conflictf("scheduler loop already running")
	}
	l.running = true
	l.mu.Unlock()
	defer close(l.stopped)

	for {
		for {
			fn, ok := l.pop()
			if !ok {
				break
			}
			l.run(fn)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) run(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			l.log.Error().Interface("panic", v).Bytes("stack", debug.Stack()).Msg("scheduled callback panicked")
			if l.onPanic != nil {
				l.onPanic(v)
			}
		}
	}()
	fn()
}
