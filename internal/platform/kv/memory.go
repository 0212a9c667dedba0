package kv

import (
	"context"
	"sync"
)

// MemoryStore implements Store in process memory. The zero value is not usable;
// call NewMemoryStore.
//
// GetErr, SetErr and RemoveErr, when set, are returned by the matching method
// instead of touching the map, which lets tests simulate a failing device store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string

	GetErr    error
	SetErr    error
	RemoveErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)
