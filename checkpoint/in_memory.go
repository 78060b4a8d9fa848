package checkpoint

import (
	"context"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// InMemoryStore is a volatile Store keeping snapshots in a process-local
// map. It is safe for concurrent access and best suited for tests and
// ephemeral sessions. Snapshots are cloned on both read and write so
// callers can never mutate internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.State
}

// NewInMemoryStore constructs an empty in-memory checkpoint store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.State)}
}

// Load returns a clone of the stored snapshot or ErrNotFound.
func (s *InMemoryStore) Load(_ context.Context, sessionID string) (*core.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

// Save stores a clone of the provided snapshot.
func (s *InMemoryStore) Save(_ context.Context, sessionID string, state *core.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = state.Clone()
	return nil
}
