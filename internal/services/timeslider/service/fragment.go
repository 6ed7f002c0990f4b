package service

import (
	"sync"

	"timeslider/internal/services/timeslider/domain"
)

// Fragment is an in-memory URL fragment. SetHash is silent; Navigate tells
// every subscriber, the way a browser fires hashchange only on navigation.
type Fragment struct {
	mu   sync.Mutex
	hash string
	next int
	subs map[int]func(string)
}

var _ domain.Location = (*Fragment)(nil)

// NewFragment starts at hash
func NewFragment(hash string) *Fragment {
	return &Fragment{hash: hash, subs: map[int]func(string){}}
}

// Hash implements domain.Location
func (f *Fragment) Hash() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hash
}

// SetHash implements domain.Location
func (f *Fragment) SetHash(h string) {
	f.mu.Lock()
	f.hash = h
	f.mu.Unlock()
}

// Navigate implements domain.Location; subscribers run after the lock is released
func (f *Fragment) Navigate(h string) {
	f.mu.Lock()
	f.hash = h
	fns := make([]func(string), 0, len(f.subs))
	for i := 0; i < f.next; i++ {
		if fn, ok := f.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(h)
	}
}

// Subscribe implements domain.Location
func (f *Fragment) Subscribe(fn func(string)) (cancel func()) {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}
