package testkit

import (
	"sync"
	"testing"
)

// Swap replaces *target for the rest of t and puts the old value back in cleanup
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}

var (
	locksMu sync.Mutex
	locks   = map[string]*sync.Mutex{}
)

// Serial holds a process wide lock named by scope until t ends, so tests
// touching the same package state (the ports registry, swagger mutators)
// never overlap. No scope means one shared lock.
func Serial(t *testing.T, scope ...string) {
	t.Helper()
	key := ""
	if len(scope) > 0 {
		key = scope[0]
	}
	l := lockFor(key)
	l.Lock()
	t.Cleanup(l.Unlock)
}

func lockFor(key string) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()
	l, ok := locks[key]
	if !ok {
		l = &sync.Mutex{}
		locks[key] = l
	}
	return l
}
