package draft

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV backend. It exists so the store can be
// exercised in tests and demo shells without touching disk.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryKV returns an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: make(map[string]string)}
}

// Get returns the stored payload for key.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.slots[key]
	return value, ok, nil
}

// Set overwrites the payload for key.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

// Remove deletes the payload for key; missing keys are a no-op.
func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

var _ KV = (*MemoryKV)(nil)
