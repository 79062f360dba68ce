package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and throwaway sessions.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string][]byte
	pingError error
	putError  error
	puts      int
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// SetPingError configures the store to fail on ping with the given error
func (m *MemoryStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetPutError makes every following Put fail with err.
func (m *MemoryStore) SetPutError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putError = err
}

// Puts returns how many writes have succeeded.
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putError != nil {
		return m.putError
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.docs[key] = stored
	m.puts++
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}
