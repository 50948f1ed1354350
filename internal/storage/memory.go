package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps blobs in process memory. Used for tests and ephemeral runs.
type MemorySlot struct {
	mu    sync.RWMutex
	data  map[string][]byte
	fails error
}

// NewMemorySlot creates an empty in-memory slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

// FailWith makes subsequent Save calls return err. Pass nil to clear.
func (s *MemorySlot) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails = err
}

func (s *MemorySlot) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemorySlot) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fails != nil {
		return s.fails
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemorySlot) Close() error {
	return nil
}
