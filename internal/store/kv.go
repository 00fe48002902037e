// Package store provides the durable key-value persistence behind the
// snapshot cache, the favorites list, and the last-viewed location.
//
// The core treats persistence as synchronous and always-available: the KV
// interface returns no errors, and implementations swallow failures into
// misses or no-ops (logging them), mirroring how the rest of the system
// degrades instead of surfacing storage faults.
package store

import "sync"

// KV is a string-keyed get/set/remove store, assumed durable across process
// restarts.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool)
	// Set stores a value, overwriting any prior value at the key.
	Set(key, value string)
	// Delete removes a key. Removing an absent key is a no-op.
	Delete(key string)
}

// MemoryKV is an in-memory KV used in tests and as a non-durable fallback.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
