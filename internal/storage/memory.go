package storage

import (
	"context"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory Backend. Contents are lost on
// restart, so returning browsers start signed out.
type MemoryStore struct {
	mu sync.RWMutex

	// key: browser id, value: that browser's keys
	data map[string]map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]string),
	}
}

// Bucket returns the storage view for one browser.
func (s *MemoryStore) Bucket(browserID string) Storage {
	return &memoryBucket{store: s, id: browserID}
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

type memoryBucket struct {
	store *MemoryStore
	id    string
}

func (b *memoryBucket) Get(_ context.Context, key string) (string, bool, error) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	keys, ok := b.store.data[b.id]
	if !ok {
		return "", false, nil
	}
	v, ok := keys[key]
	return v, ok, nil
}

func (b *memoryBucket) Set(_ context.Context, key, value string) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	keys, ok := b.store.data[b.id]
	if !ok {
		keys = make(map[string]string)
		b.store.data[b.id] = keys
	}
	keys[key] = value
	return nil
}

func (b *memoryBucket) Remove(_ context.Context, key string) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	keys, ok := b.store.data[b.id]
	if !ok {
		return nil
	}
	delete(keys, key)
	if len(keys) == 0 {
		delete(b.store.data, b.id)
	}
	return nil
}
