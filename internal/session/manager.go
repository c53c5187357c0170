package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/zarahq/zara/internal/logging"
)

var (
	// ErrSessionExists is returned when connecting an ID that is already
	// registered.
	ErrSessionExists = errors.New("session already exists")

	// ErrUnknownSession is returned for operations on an ID that was never
	// connected or has been disconnected.
	ErrUnknownSession = errors.New("unknown session")
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// Responder produces the assistant reply for one user input given the
// conversation so far. Implementations may be stateful; the manager
// guarantees Respond is never called concurrently for the same session.
type Responder interface {
	Respond(ctx context.Context, history []Turn, input string) (string, error)
}

// ResponderFactory creates a fresh responder for a new session, so
// per-session responder state never leaks across conversations.
type ResponderFactory func(sessionID string) Responder

// session is the tracked state for one connection. Its mutex serializes
// turns within the session.
type session struct {
	mu        sync.Mutex
	history   []Turn
	responder Responder
	createdAt time.Time
}

// Manager owns the registry of active sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	factory  ResponderFactory
	logger   *slog.Logger
}

// NewManager creates a session manager. The factory is called once per
// connected session.
func NewManager(factory ResponderFactory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*session),
		factory:  factory,
		logger:   logger,
	}
}

// Connect registers a new session with an empty history.
func (m *Manager) Connect(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sessionID]; exists {
		return ErrSessionExists
	}
	m.sessions[sessionID] = &session{
		responder: m.factory(sessionID),
		createdAt: time.Now(),
	}

	m.logger.Info("Session connected",
		logging.Operation("session_connect"),
		logging.Session(sessionID),
		slog.Int("active_sessions", len(m.sessions)))
	return nil
}

// Disconnect removes a session and discards its history.
func (m *Manager) Disconnect(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.sessions[sessionID]
	if !exists {
		return ErrUnknownSession
	}
	delete(m.sessions, sessionID)

	m.logger.Info("Session disconnected",
		logging.Operation("session_disconnect"),
		logging.Session(sessionID),
		logging.Duration(time.Since(s.createdAt)),
		slog.Int("active_sessions", len(m.sessions)))
	return nil
}

// HandleMessage runs one conversational turn. Turns for the same session
// are serialized on the session's lock and applied in order. The user and
// assistant turns are appended to history only when the responder succeeds;
// on error the history is left untouched.
func (m *Manager) HandleMessage(ctx context.Context, sessionID, input string) (string, error) {
	m.mu.RLock()
	s, exists := m.sessions[sessionID]
	m.mu.RUnlock()
	if !exists {
		return "", ErrUnknownSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so the responder cannot observe appends from this turn.
	snapshot := make([]Turn, len(s.history))
	copy(snapshot, s.history)

	start := time.Now()
	reply, err := s.responder.Respond(ctx, snapshot, input)
	if err != nil {
		m.logger.Error("Turn failed",
			logging.Operation("session_turn"),
			logging.Session(sessionID),
			logging.Duration(time.Since(start)),
			logging.Err(err))
		return "", err
	}

	s.history = append(s.history,
		Turn{Role: RoleUser, Content: input},
		Turn{Role: RoleAssistant, Content: reply},
	)

	m.logger.Info("Turn completed",
		logging.Operation("session_turn"),
		logging.Session(sessionID),
		logging.Duration(time.Since(start)),
		slog.Int("history_turns", len(s.history)))
	return reply, nil
}

// History returns a copy of a session's turns.
func (m *Manager) History(sessionID string) ([]Turn, error) {
	m.mu.RLock()
	s, exists := m.sessions[sessionID]
	m.mu.RUnlock()
	if !exists {
		return nil, ErrUnknownSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	return history, nil
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
