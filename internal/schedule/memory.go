package schedule

import (
	"context"
	"sync"
)

// MemoryStorage is an in-process Storage, used for tests and ephemeral sessions.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
	writes int
	// FailWrites makes Set return this error when non-nil.
	FailWrites error
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the stored value.
func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = value
	m.writes++
	return nil
}

// Writes returns how many successful Set calls were made.
func (m *MemoryStorage) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
