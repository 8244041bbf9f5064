package storage

import (
	"context"
	"slices"
	"sync"
)

// MemorySaveStore keeps save blobs in a map. Used by tests and when no
// database path is configured.
type MemorySaveStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySaveStore() *MemorySaveStore {
	return &MemorySaveStore{data: make(map[string][]byte)}
}

func (m *MemorySaveStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemorySaveStore) Put(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), payload...)
	return nil
}

// MemoryEventRepository is an EventRepository held in a slice.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events []StoredEvent
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{}
}

func (m *MemoryEventRepository) Append(ctx context.Context, event StoredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryEventRepository) GetRecent(ctx context.Context, saveKey string, limit int, exclude ...string) ([]StoredEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []StoredEvent
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].SaveKey == saveKey && !slices.Contains(exclude, m.events[i].EventType) {
			out = append(out, m.events[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *MemoryEventRepository) GetByEventType(ctx context.Context, saveKey string, eventType string) ([]StoredEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []StoredEvent
	for _, e := range m.events {
		if e.SaveKey == saveKey && e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}
