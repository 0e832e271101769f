// Package sessions keeps in-memory survey sessions keyed by id and expires idle ones.
package sessions

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/feedback-survey/internal/survey"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Config controls session expiry.
type Config struct {
	TTL             time.Duration // idle time after which a session is dropped
	CleanupInterval time.Duration // how often expired sessions are swept; 0 disables the sweeper
}

// Factory builds the survey session for a new id.
type Factory func(id uuid.UUID) *survey.Session

type entry struct {
	session    *survey.Session
	lastAccess time.Time
}

// Manager owns every live session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	config   Config
	factory  Factory
	now      func() time.Time

	onChange func(count int)
	onExpire func(id uuid.UUID)

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithCountHook is called with the session count after every create, delete or sweep.
func WithCountHook(fn func(count int)) Option {
	return func(m *Manager) { m.onChange = fn }
}

// WithExpireHook is called with the id of every session removed by the sweeper.
func WithExpireHook(fn func(id uuid.UUID)) Option {
	return func(m *Manager) { m.onExpire = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager and starts its sweeper when configured.
func NewManager(cfg Config, factory Factory, opts ...Option) *Manager {
	if factory == nil {
		factory = func(uuid.UUID) *survey.Session { return survey.NewSession(nil) }
	}

	m := &Manager{
		sessions: make(map[uuid.UUID]*entry),
		config:   cfg,
		factory:  factory,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if cfg.TTL > 0 && cfg.CleanupInterval > 0 {
		m.cleanupTicker = time.NewTicker(cfg.CleanupInterval)
		m.cleanupStop = make(chan struct{})
		go m.cleanup()
	}
	return m
}

// Create starts a new session and returns its id.
func (m *Manager) Create() (uuid.UUID, *survey.Session) {
	id := uuid.New()
	session := m.factory(id)

	m.mu.Lock()
	m.sessions[id] = &entry{session: session, lastAccess: m.now()}
	count := len(m.sessions)
	m.mu.Unlock()

	m.changed(count)
	return id, session
}

// Get returns the session for id and refreshes its last access time.
func (m *Manager) Get(id uuid.UUID) (*survey.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastAccess = m.now()
	return e.session, nil
}

// Delete removes the session for id.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	if _, ok := m.sessions[id]; !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	m.changed(count)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many were removed.
// Sessions with a submission in flight are kept.
func (m *Manager) Sweep() int {
	if m.config.TTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.config.TTL)

	m.mu.Lock()
	var expired []uuid.UUID
	for id, e := range m.sessions {
		if e.lastAccess.Before(cutoff) && e.session.State() != survey.StateSubmitting {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		log.Printf("[sessions] Expired %d idle sessions (%d remaining)", len(expired), count)
		if m.onExpire != nil {
			for _, id := range expired {
				m.onExpire(id)
			}
		}
		m.changed(count)
	}
	return len(expired)
}

// Stop halts the sweeper goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		if m.cleanupTicker != nil {
			m.cleanupTicker.Stop()
			close(m.cleanupStop)
		}
	})
}

func (m *Manager) cleanup() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.Sweep()
		case <-m.cleanupStop:
			return
		}
	}
}

func (m *Manager) changed(count int) {
	if m.onChange != nil {
		m.onChange(count)
	}
}
