// Package keymutex provides per-key mutual exclusion within one process.
package keymutex

import (
	"context"
	"sync"
)

// KeyedMutex serializes callers that use the same key while letting different
// keys proceed in parallel. Entries are reference counted and removed when the
// last holder or waiter leaves, so the map only holds keys in use.
//
// The zero value is ready to use.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	// ch has capacity 1; holding the lock means having sent into it.
	ch   chan struct{}
	refs int
}

// Lock blocks until key is free or ctx is done. On success the returned
// function releases the lock; it must be called exactly once.
func (m *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	e := m.acquireEntry(key)

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			m.releaseEntry(key)
		}, nil
	case <-ctx.Done():
		m.releaseEntry(key)
		return nil, ctx.Err()
	}
}

// Len reports how many keys are currently held or waited on.
func (m *KeyedMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *KeyedMutex) acquireEntry(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locks == nil {
		m.locks = make(map[string]*entry)
	}
	e, ok := m.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	return e
}

func (m *KeyedMutex) releaseEntry(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
}
