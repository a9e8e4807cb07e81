package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager tracks live sessions by token.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	sizePixels int
}

// NewManager returns a Manager whose sessions render rasters of sizePixels
// per side.
func NewManager(sizePixels int) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		sizePixels: sizePixels,
	}
}

// Create registers a new session under a fresh token.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.sizePixels)
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by token.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	return s, ok
}

// Remove deletes a session and cancels its pending timers.
func (m *Manager) Remove(token string) {
	m.mu.Lock()
	s := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if s != nil {
		s.Close()
	}
}
