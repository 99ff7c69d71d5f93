package craving

import (
	"sync"
	"time"
)

// Manager hands out one craving session per account and tears them all down
// on shutdown or account reset.
type Manager struct {
	coach    Interventionist
	cooldown time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(coach Interventionist, cooldown time.Duration) *Manager {
	return &Manager{
		coach:    coach,
		cooldown: cooldown,
		sessions: make(map[string]*Session),
	}
}

// Session returns the account's session, creating it with the given outcome
// sink on first use. The sink is captured at creation; callers pass the same
// tracker for the life of the account.
func (m *Manager) Session(userID string, outcomes Outcomes) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	s := NewSession(m.coach, outcomes, m.cooldown)
	m.sessions[userID] = s
	return s
}

// Drop closes and forgets the account's session.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll tears down every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
