package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/ai"
	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager maps opaque session ids to owned sessions. The map lock is
// held only for lookups; all play serialization lives in the session's
// own mutex, so sessions never contend with each other.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *zap.Logger
	done     chan struct{}
	closeOne sync.Once
}

func NewManager(ttl time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		sessions: map[string]*Session{},
		ttl:      ttl,
		log:      log,
		done:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Create registers a new session with its strategy fixed for life.
func (m *Manager) Create(human engine.Position, strategy ai.Strategy) *Session {
	s := newSession(uuid.NewString(), human, strategy, m.log)
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	m.log.Info("session created", zap.String("session", s.id), zap.String("human", human.String()))
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Close() {
	m.closeOne.Do(func() { close(m.done) })
}

func (m *Manager) janitor() {
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.reap(now)
		}
	}
}

// reap scans without the manager lock held: idleSince takes each
// session's mutex, and a session mid-search must not stall lookups.
func (m *Manager) reap(now time.Time) {
	m.mu.RLock()
	candidates := make(map[string]*Session, len(m.sessions))
	for id, s := range m.sessions {
		candidates[id] = s
	}
	m.mu.RUnlock()

	var expired []string
	for id, s := range candidates {
		if s.idleSince(now) > m.ttl {
			expired = append(expired, id)
		}
	}
	if len(expired) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range expired {
		// The session may have been touched since the scan.
		if s, ok := m.sessions[id]; ok && s.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			m.log.Info("session expired", zap.String("session", id))
		}
	}
}
