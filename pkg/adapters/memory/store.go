package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/format/codec"
)

// Store implements ports.ExplorationStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save keeps the encoded exploration, so later changes to x never reach the
// store.
func (s *Store) Save(ctx context.Context, sessionID string, x *exploration.Exploration) error {
	data, err := codec.Marshal(x)
	if err != nil {
		return fmt.Errorf("failed to encode exploration: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = data
	return nil
}

// Load decodes a fresh copy of the stored exploration.
func (s *Store) Load(ctx context.Context, sessionID string) (*exploration.Exploration, error) {
	s.mu.RLock()
	data, ok := s.data[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	x, err := codec.DecodeExploration(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exploration: %w", err)
	}
	return x, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
