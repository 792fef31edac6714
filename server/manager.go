package server

import (
	"sync"

	"github.com/spiketrade/spiketrade/game"
)

// Manager is the in-memory session registry. Each session owns its own
// ledger and round; the manager only hands out references.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*game.Session)}
}

func (m *Manager) Put(s *game.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
}

func (m *Manager) Get(id string) (*game.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) List() []*game.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*game.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}
