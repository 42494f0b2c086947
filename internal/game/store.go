package game

import (
	"context"
	"sync"
)

// Store persists game snapshots. Load returns nil, nil for an unknown ID.
type Store interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context, id string) (*Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]Snapshot)}
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[snap.ID] = snap.clone()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.games[id]
	if !ok {
		return nil, nil
	}
	out := snap.clone()
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}
