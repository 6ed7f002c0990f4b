package module

import (
	"slices"
	"sync"

	perr "timeslider/internal/platform/errors"
)

// process wide port sets keyed by module name, filled while the API mounts
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set for name. A name can only be claimed once
// until Reset.
func Register(name string, ports any) error {
	mu.Lock()
	defer mu.Unlock()
	if _, taken := reg[name]; taken {
		return perr.Conflictf("module %q already registered", name)
	}
	reg[name] = ports
	return nil
}

// PortsAs fetches the port set for name as T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Names lists registered modules in order
func Names() []string {
	mu.RLock()
	out := make([]string, 0, len(reg))
	for name := range reg {
		out = append(out, name)
	}
	mu.RUnlock()
	slices.Sort(out)
	return out
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
