package limiter

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore — потокобезопасное in-memory хранилище счётчиков.
// Просроченные записи удаляются лениво при обращении.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	e, ok := s.entries[key]
	if !ok || !e.expiresAt.After(now) {
		e = &entry{expiresAt: now.Add(window)}
		s.entries[key] = e
	}

	e.count++

	return e.count, e.expiresAt.Sub(now), nil
}

func (s *MemoryStore) Status(_ context.Context, key string) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	e, ok := s.entries[key]
	if !ok {
		return 0, 0, nil
	}

	if !e.expiresAt.After(now) {
		delete(s.entries, key)
		return 0, 0, nil
	}

	return e.count, e.expiresAt.Sub(now), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

func (s *MemoryStore) Close() error { return nil }
