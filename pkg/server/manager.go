package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrTooManySessions is returned when the session cap is reached.
var ErrTooManySessions = errors.New("server: session limit reached")

// Manager tracks live sessions and evicts idle ones.
type Manager struct {
	config      *SessionConfig
	maxSessions int
	logger      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. maxSessions of 0 means no limit.
func NewManager(config *SessionConfig, maxSessions int, logger *slog.Logger) *Manager {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		config:      config,
		maxSessions: maxSessions,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// Create registers a new session.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}

	s := NewSession(m.config, m.logger)
	m.sessions[s.id] = s
	setActiveSessions(len(m.sessions))
	return s, nil
}

// Get returns the session with the given ID, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove closes and unregisters a session. Removing an unknown ID is a
// no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s := m.sessions[id]
	delete(m.sessions, id)
	setActiveSessions(len(m.sessions))
	m.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run evicts idle sessions until ctx is cancelled, then closes all
// remaining sessions.
func (m *Manager) Run(ctx context.Context) {
	interval := m.config.IdleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.config.IdleTimeout)

	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.logger.Info("evicting idle session", "session", id)
		m.Remove(id)
	}
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	setActiveSessions(0)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
