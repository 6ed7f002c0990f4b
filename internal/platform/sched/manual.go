package sched

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by a virtual clock, for tests and one-shot tools.
// Nothing runs until Advance, Drain or Do is called.
type Manual struct {
	run sync.Mutex // serializes callback execution

	mu     sync.Mutex
	now    time.Duration
	seq    int
	posted []func()
	timers []*manualTask

	// Panics collects values recovered from callbacks
	Panics []any
}

type manualTask struct {
	flag
	at     time.Duration
	period time.Duration
	seq    int
	fn     func()
}

// NewManual returns a Manual at virtual time zero
func NewManual() *Manual { return &Manual{} }

// Now returns the elapsed virtual time
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Post implements Scheduler
func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.posted = append(m.posted, fn)
	m.mu.Unlock()
}

// After implements Scheduler
func (m *Manual) After(d time.Duration, fn func()) Task { return m.add(d, 0, fn) }

// Every implements Scheduler
func (m *Manual) Every(d time.Duration, fn func()) Task {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.add(d, d, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{at: m.now + d, period: period, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Do implements Scheduler by running fn and then anything it posted
func (m *Manual) Do(_ context.Context, fn func()) error {
	m.run.Lock()
	defer m.run.Unlock()
	m.call(fn)
	m.drain()
	return nil
}

// Drain runs posted callbacks until none remain
func (m *Manual) Drain() {
	m.run.Lock()
	defer m.run.Unlock()
	m.drain()
}

// Advance moves the clock forward by d, firing due tasks in time order
func (m *Manual) Advance(d time.Duration) {
	m.run.Lock()
	defer m.run.Unlock()

	m.drain()
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		t := m.next(target)
		if t == nil {
			break
		}
		if t.period > 0 {
			t.at += t.period
		} else {
			t.off.Store(true)
		}
		m.call(t.fn)
		m.drain()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// Pending counts tasks that may still fire
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	return len(m.timers)
}

// next returns the earliest active task due by target and moves the clock to it
func (m *Manual) next(target time.Duration) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at != m.timers[j].at {
			return m.timers[i].at < m.timers[j].at
		}
		return m.timers[i].seq < m.timers[j].seq
	})
	if len(m.timers) == 0 || m.timers[0].at > target {
		return nil
	}
	t := m.timers[0]
	m.now = t.at
	return t
}

func (m *Manual) prune() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.Active() {
			live = append(live, t)
		}
	}
	m.timers = live
}

func (m *Manual) drain() {
	for {
		m.mu.Lock()
		if len(m.posted) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.posted[0]
		m.posted = m.posted[1:]
		m.mu.Unlock()
		m.call(fn)
	}
}

func (m *Manual) call(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			m.mu.Lock()
			m.Panics = append(m.Panics, v)
			m.mu.Unlock()
		}
	}()
	fn()
}
