package storage

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	savedAt time.Time
}

type memoryStore struct {
	mu     sync.Mutex
	m      map[string]memEntry
	closed bool
}

// NewMemory returns a process-local store.
func NewMemory() Store {
	return &memoryStore{m: map[string]memEntry{}}
}

func (s *memoryStore) Load(ctx context.Context, id string) ([]byte, bool, error) {
	_ = ctx
	if !validKey(id) {
		return nil, false, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, ErrClosed
	}
	e, ok := s.m[id]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

func (s *memoryStore) Save(ctx context.Context, id string, data []byte) error {
	_ = ctx
	if !validKey(id) {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if len(data) == 0 {
		delete(s.m, id)
		return nil
	}
	s.m[id] = memEntry{data: append([]byte(nil), data...), savedAt: time.Now()}
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	return s.Save(ctx, id, nil)
}

func (s *memoryStore) Prune(ctx context.Context, before time.Time) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	n := 0
	for k, e := range s.m {
		if e.savedAt.Before(before) {
			delete(s.m, k)
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.m = nil
	s.mu.Unlock()
	return nil
}
