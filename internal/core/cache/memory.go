package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	val []byte
	exp time.Time
}

type MemoryStore struct {
	mu  sync.RWMutex
	m   map[string]memEntry
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if s.expired(e) {
		s.mu.Lock()
		// 解锁期间可能已被 Set 刷新
		if cur, ok := s.m[key]; ok && s.expired(cur) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return nil, ErrMiss
	}
	return e.val, nil
}

func (s *MemoryStore) expired(e memEntry) bool {
	return !e.exp.IsZero() && !s.now().Before(e.exp)
}

// Set ttl <= 0 表示不过期
func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := memEntry{val: val}
	if ttl > 0 {
		e.exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
