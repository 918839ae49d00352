package memory

import (
	"sync"

	"Portal/internal/cli/repo"
)

// Store: in-memory KeyValueStore. Состояние живёт только в процессе,
// используется в тестах и при SESSION_BACKEND=memory.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ repo.KeyValueStore = (*Store)(nil)

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{data: map[string][]byte{}}
}

func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
