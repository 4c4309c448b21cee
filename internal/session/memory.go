// File: internal/session/memory.go
package session

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process. Suitable for a single instance or tests.
type MemoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewMemoryStore creates a store whose expired sessions are swept every cleanupInterval.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (s *MemoryStore) SetAttribute(ctx context.Context, sid, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attrs := map[string][]byte{}
	if v, found := s.cache.Get(sid); found {
		for k, b := range v.(map[string][]byte) {
			attrs[k] = b
		}
	}
	attrs[key] = append([]byte(nil), value...)
	s.cache.Set(sid, attrs, ttl)
	return nil
}

func (s *MemoryStore) GetAttribute(ctx context.Context, sid, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, found := s.cache.Get(sid)
	if !found {
		return nil, ErrNotFound
	}
	b, ok := v.(map[string][]byte)[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *MemoryStore) Destroy(ctx context.Context, sid string) error {
	s.cache.Delete(sid)
	return nil
}

// Count reports live sessions, expired-but-unswept ones included.
func (s *MemoryStore) Count() int {
	return s.cache.ItemCount()
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
