package quiz

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store keeps sessions between requests. Sessions are ephemeral: they live in
// Redis (or memory) with an expiry and are never written to the database.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryStore is the fallback when no Redis is configured, and what the tests
// use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]*Session)}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = snapshot(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot(s), nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// snapshot copies the mutable parts so callers never alias stored state.
// Questions are immutable after creation and can be shared.
func snapshot(s *Session) *Session {
	out := *s
	out.Answers = append([]int(nil), s.Answers...)
	return &out
}
