package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps mind maps in memory. Intended for tests and CLI use
// without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	maps map[string]MindMap
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{maps: make(map[string]MindMap)}
}

func (s *MemoryStore) Save(ctx context.Context, m MindMap) error {
	m.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps[m.ID] = m
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (MindMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.maps[id]
	if !ok {
		return MindMap{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]MindMap, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	maps := make([]MindMap, 0, len(s.maps))
	for _, m := range s.maps {
		maps = append(maps, m)
	}
	s.mu.RUnlock()

	sort.Slice(maps, func(i, j int) bool {
		return maps[i].UpdatedAt.After(maps[j].UpdatedAt)
	})
	if len(maps) > limit {
		maps = maps[:limit]
	}
	return maps, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.maps, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
