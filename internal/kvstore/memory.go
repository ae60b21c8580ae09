package kvstore

import "sync"

// MemoryStore keeps everything in a map. Used by tests and as a fallback when
// no database path is configured (state then lives only as long as the
// process, like a private-browsing session).
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
