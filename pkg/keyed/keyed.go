// Package keyed provides per-key mutual exclusion: goroutines holding
// different keys proceed in parallel, goroutines contending on the same key
// are serialized.
package keyed

import "sync"

type Mutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewMutex() *Mutex {
	return &Mutex{entries: make(map[string]*entry)}
}

func (m *Mutex) Lock(key string) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
}

func (m *Mutex) Unlock(key string) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		panic("keyed: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()

	e.mu.Unlock()
}
