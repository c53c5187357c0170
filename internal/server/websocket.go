package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zarahq/zara/internal/calendar"
	"github.com/zarahq/zara/internal/instrumentation"
	"github.com/zarahq/zara/internal/logging"
	"github.com/zarahq/zara/internal/session"
)

const (
	// DefaultChatAddr is the default address for the chat server.
	DefaultChatAddr = ":3090"

	// DefaultShutdownTimeout is the timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	maxMessageBytes = 16 * 1024
)

// inboundFrame is a client message.
type inboundFrame struct {
	Message string `json:"message"`
}

// outboundFrame is a server message. Exactly one of Message or Error is set.
type outboundFrame struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatServerConfig holds configuration for the chat server.
type ChatServerConfig struct {
	// Addr is the address to bind to (default ":3090").
	Addr string

	Manager *session.Manager
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// ChatServer serves the websocket chat endpoint on /ws along with health
// endpoints.
type ChatServer struct {
	addr       string
	manager    *session.Manager
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	health     *HealthChecker
	upgrader   websocket.Upgrader
	httpServer *http.Server
	shutdown   atomic.Bool
}

// NewChatServer creates a chat server.
func NewChatServer(config ChatServerConfig) (*ChatServer, error) {
	if config.Manager == nil {
		return nil, errors.New("session manager is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultChatAddr
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &ChatServer{
		addr:    config.Addr,
		manager: config.Manager,
		logger:  config.Logger,
		metrics: config.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The chat endpoint has no cookie-based auth, so cross-origin
			// upgrades carry no ambient credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.health = NewHealthChecker(s.shutdown.Load)
	return s, nil
}

// Handler returns the HTTP handler serving /ws and the health endpoints.
func (s *ChatServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.health.RegisterHealthEndpoints(mux)
	return mux
}

// Start runs the server. It blocks until the listener fails or Shutdown is
// called.
func (s *ChatServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting chat server", slog.String("addr", s.addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight ones.
func (s *ChatServer) Shutdown(ctx context.Context) error {
	s.shutdown.Store(true)
	s.health.SetReady(false)
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Shutting down chat server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *ChatServer) Addr() string {
	return s.addr
}

// handleWebSocket upgrades the connection and runs the session read loop.
// Frames are handled synchronously so replies always come back in the order
// the messages arrived.
func (s *ChatServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed",
			logging.Operation("ws_upgrade"),
			logging.Err(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageBytes)

	sessionID := uuid.NewString()
	if err := s.manager.Connect(sessionID); err != nil {
		s.logger.Error("Failed to register session",
			logging.Operation("ws_connect"),
			logging.Session(sessionID),
			logging.Err(err))
		return
	}
	s.metrics.IncrementActiveSessions(r.Context())
	defer func() {
		if err := s.manager.Disconnect(sessionID); err != nil {
			s.logger.Warn("Failed to deregister session",
				logging.Operation("ws_disconnect"),
				logging.Session(sessionID),
				logging.Err(err))
		}
		s.metrics.DecrementActiveSessions(context.Background())
	}()

	for {
		var in inboundFrame
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Websocket read failed",
					logging.Operation("ws_read"),
					logging.Session(sessionID),
					logging.Err(err))
			}
			return
		}

		if in.Message == "" {
			if err := conn.WriteJSON(outboundFrame{Error: "empty message"}); err != nil {
				return
			}
			continue
		}

		start := time.Now()
		reply, err := s.manager.HandleMessage(r.Context(), sessionID, in.Message)
		s.metrics.RecordTurn(r.Context(), time.Since(start), err)

		if err != nil {
			if errors.Is(err, session.ErrUnknownSession) {
				// The session vanished mid-conversation; the reply has no
				// home, so drop it and end the loop.
				s.logger.Warn("Reply for unknown session dropped",
					logging.Operation("ws_message"),
					logging.Session(sessionID))
				return
			}
			if writeErr := conn.WriteJSON(outboundFrame{Error: userFacingError(err)}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(outboundFrame{Message: reply}); err != nil {
			s.logger.Warn("Websocket write failed",
				logging.Operation("ws_write"),
				logging.Session(sessionID),
				logging.Err(err))
			return
		}
	}
}

// userFacingError maps an internal turn error onto a message safe to show
// the user.
func userFacingError(err error) string {
	if errors.Is(err, calendar.ErrBackendUnavailable) {
		return "The calendar service is temporarily unavailable. Please try again in a moment."
	}
	return "Something went wrong handling that message. Please try again."
}
