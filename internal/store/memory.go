// internal/store/memory.go
//
// Per-scope session storage.
//
// Each chat scope (channel) holds at most one live *game.Session. The room
// controller is the only writer; Store implementations only guarantee that
// concurrent Get/Save/Delete calls do not corrupt the map.
//
// Characteristics of the in-memory implementation:
//   - Sessions keyed by ScopeID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; rounds are ephemeral.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/robalobadob/wordle/apps/room-bot/internal/game"
)

// ErrNotFound is returned by Get when a scope has no session.
var ErrNotFound = errors.New("store: session not found")

// Store defines the storage interface for live sessions.
type Store interface {
	// Save stores s under s.ScopeID, replacing any previous session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves the session for scopeID, or ErrNotFound.
	Get(ctx context.Context, scopeID string) (*game.Session, error)

	// Delete removes the session for scopeID. Deleting an empty scope is a no-op.
	Delete(ctx context.Context, scopeID string) error

	// Scopes lists scopes with a live session, sorted.
	Scopes(ctx context.Context) ([]string, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions
	sessions map[string]*game.Session // keyed by Session.ScopeID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ScopeID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, scopeID string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[scopeID]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, scopeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, scopeID)
	return nil
}

func (m *memory) Scopes(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for k := range m.sessions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
