package statestore

import (
	"context"
	"sync"

	reload "github.com/goliatone/go-reload"
)

// MemoryStore is a minimal in-memory Store implementation intended for tests
// and examples. It keeps only the snapshot bytes; restored snapshots get a
// fresh identity.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string][]byte{}}
}

func (s *MemoryStore) Save(_ context.Context, key string, snapshot reload.SaveState) error {
	if key == "" {
		return ErrBadKey
	}
	s.mu.Lock()
	s.records[key] = snapshot.Bytes()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (reload.SaveState, bool, error) {
	if key == "" {
		return reload.SaveState{}, false, ErrBadKey
	}
	s.mu.RLock()
	data, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return reload.SaveState{}, false, nil
	}
	return reload.NewSaveState(data), true, nil
}
