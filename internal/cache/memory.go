package cache

import (
	"sync"
	"time"
)

// Memory is an in-process TTL cache. TTL and invalidation are explicit
// parameters, injected by whoever owns the cached computation.
type Memory[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[K]memoryEntry[V]
	now     func() time.Time
}

type memoryEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewMemory creates a Memory cache whose entries expire after ttl.
func NewMemory[K comparable, V any](ttl time.Duration) *Memory[K, V] {
	return &Memory[K, V]{
		ttl:     ttl,
		entries: make(map[K]memoryEntry[V]),
		now:     time.Now,
	}
}

// Get returns the live value for key, if any.
func (m *Memory[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.now().After(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores the value for key with a fresh TTL.
func (m *Memory[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry[V]{value: value, expiresAt: m.now().Add(m.ttl)}
}

// Delete drops the key.
func (m *Memory[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Purge drops every entry.
func (m *Memory[K, V]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[K]memoryEntry[V])
}
