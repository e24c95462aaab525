package repository

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for tests and STORE_DRIVER=memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[string]Entry{},
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Entry{Key: key}, ErrKeyNotFound
	}

	value := make([]byte, len(e.Value))
	copy(value, e.Value)
	return Entry{Key: key, Value: value, Revision: e.Revision}, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[key].Revision != expectedRevision {
		return 0, ErrStaleRevision
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	next := expectedRevision + 1
	s.entries[key] = Entry{Key: key, Value: stored, Revision: next}
	return next, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
