package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/battlesnakeio/snake/store"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrSessionNotFound is returned when no live session has the id.
	ErrSessionNotFound = errors.New("engine: session not found")
	// ErrTooManySessions is returned by Create once MaxSessions are live.
	ErrTooManySessions = errors.New("engine: too many sessions")
)

// Manager keeps track of the live sessions and their frame history.
type Manager struct {
	Store       store.Store
	MaxSessions int
	// NewTicker is handed to every session created, NewTimeTicker when nil.
	NewTicker NewTickerFunc
	// IdleTimeout is handed to every session created. Abandoned sessions are
	// removed once it passes.
	IdleTimeout time.Duration

	lock     sync.Mutex
	sessions map[string]*managed
}

type managed struct {
	session *Session
	cancel  context.CancelFunc
	// removed is closed once the session is gone from the manager and store.
	removed chan struct{}
}

// NewManager creates a manager recording frames to st. A maxSessions of zero
// or less means no limit.
func NewManager(st store.Store, maxSessions int) *Manager {
	return &Manager{
		Store:       st,
		MaxSessions: maxSessions,
		sessions:    map[string]*managed{},
	}
}

// Create starts a new session that runs until ctx is cancelled or Close is
// called for it.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.MaxSessions > 0 && len(m.sessions) >= m.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.NewV4().String()
	s := NewSession(id, m.Store)
	if m.NewTicker != nil {
		s.NewTicker = m.NewTicker
	}
	s.IdleTimeout = m.IdleTimeout

	ctx, cancel := context.WithCancel(ctx)
	ms := &managed{session: s, cancel: cancel, removed: make(chan struct{})}
	m.sessions[id] = ms
	activeSessions.Inc()

	go func() {
		defer close(ms.removed)
		switch err := s.Run(ctx); err {
		case nil, context.Canceled:
		case ErrIdle:
			log.WithField("game", id).Info("removing abandoned session")
		default:
			log.WithError(err).WithField("game", id).Warn("session ended")
		}
		m.remove(id)
	}()

	return s, nil
}

// Get returns the live session with the id.
func (m *Manager) Get(id string) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ms.session, nil
}

// IDs lists the ids of the live sessions.
func (m *Manager) IDs() []string {
	m.lock.Lock()
	defer m.lock.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops a session and waits for it to finish.
func (m *Manager) Close(id string) error {
	m.lock.Lock()
	ms, ok := m.sessions[id]
	m.lock.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	ms.cancel()
	<-ms.removed
	return nil
}

// CloseAll stops every session.
func (m *Manager) CloseAll() {
	for _, id := range m.IDs() {
		if err := m.Close(id); err != nil && err != ErrSessionNotFound {
			log.WithError(err).WithField("game", id).Warn("unable to close session")
		}
	}
}

// remove forgets the session and its history.
func (m *Manager) remove(id string) {
	m.lock.Lock()
	ms, ok := m.sessions[id]
	delete(m.sessions, id)
	m.lock.Unlock()
	if !ok {
		return
	}

	ms.cancel()
	activeSessions.Dec()
	if m.Store != nil {
		if err := m.Store.DeleteGame(context.Background(), id); err != nil && err != store.ErrNotFound {
			log.WithError(err).WithField("game", id).Warn("unable to delete game history")
		}
	}
}
