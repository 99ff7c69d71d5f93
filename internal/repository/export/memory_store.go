package export

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps archives in memory. Used when no bucket is configured
// and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	byKey   map[string]Archive
	lastKey string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byKey: make(map[string]Archive)}
}

func (m *MemoryStore) Save(_ context.Context, a Archive) (string, error) {
	if a.ExportedAt.IsZero() {
		a.ExportedAt = time.Now().UTC()
	}
	key := archiveKey(strings.TrimSpace(a.UserID), a.ExportedAt)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[key] = a
	m.lastKey = key
	return key, nil
}

func (m *MemoryStore) Load(_ context.Context, key string) (Archive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byKey[key]
	if !ok {
		return Archive{}, ErrNotFound
	}
	return a, nil
}

// LastKey returns the key of the most recent save.
func (m *MemoryStore) LastKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastKey
}
