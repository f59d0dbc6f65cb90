// Package inflight tracks requests currently executing so that concurrent
// callers for the same fingerprint share a single attempt and observe a
// single settlement. One caller owns the attempt; every other caller attaches
// as a waiter and receives the identical outcome when the owner settles.
package inflight

import (
	"context"
	"sync"
)

// Entry represents one in-flight attempt shared between an owner and any
// number of waiters. The outcome is written exactly once, at settlement, and
// broadcast by closing done.
type Entry[T any] struct {
	done  chan struct{}
	value T
	err   error

	mu      sync.Mutex
	waiters int
}

// Wait blocks until the owning attempt settles or ctx is cancelled. A
// cancelled ctx affects only this waiter; the shared attempt continues for
// everyone else.
func (e *Entry[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Waiters reports how many callers are attached to this entry, owner included.
func (e *Entry[T]) Waiters() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.waiters
}

// Registry tracks in-flight attempts by fingerprint.
type Registry[T any] struct {
	mu      sync.Mutex
	entries map[string]*Entry[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]*Entry[T]),
	}
}

// Find returns the entry currently registered for key without attaching.
func (r *Registry[T]) Find(key string) (*Entry[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, exists := r.entries[key]
	return entry, exists
}

// GetOrCreate returns the entry for key. The boolean reports ownership: true
// means this caller registered a new attempt and must eventually call Settle;
// false means the caller attached to an existing attempt as a waiter.
// Check-then-act is atomic: two near-simultaneous callers for the same key
// can never both become owners.
func (r *Registry[T]) GetOrCreate(key string) (*Entry[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, exists := r.entries[key]; exists {
		entry.mu.Lock()
		entry.waiters++
		entry.mu.Unlock()
		return entry, false
	}

	entry := &Entry[T]{
		done:    make(chan struct{}),
		waiters: 1,
	}
	r.entries[key] = entry
	return entry, true
}

// Settle removes key from the registry and then broadcasts the outcome to
// every waiter. Removal happens before the broadcast: the registry never
// holds a fingerprint whose attempt has already settled, so a later call for
// the same key starts a fresh attempt instead of replaying a stale outcome.
func (r *Registry[T]) Settle(key string, value T, err error) {
	r.mu.Lock()
	entry, exists := r.entries[key]
	if exists {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	if !exists {
		return
	}

	entry.value = value
	entry.err = err
	close(entry.done)
}

// Forget drops key without settling it. Waiters attached to the dropped entry
// keep waiting on the owner; only lookup for new callers is affected.
func (r *Registry[T]) Forget(key string) {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
}

// Len reports the number of attempts currently registered.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
