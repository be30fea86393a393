// Package server hosts two-player blackjack tables over websockets. Each
// connection pair shares one authoritative engine; clients only ever see
// redacted snapshots, so the dealer's hole card stays on the server until
// the dealer acts.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Server accepts websocket connections and feeds them to the session
// manager.
type Server struct {
	cfg         *Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	sessions    *SessionManager
	httpSrv     *http.Server
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithClock substitutes the clock used for turn timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.sessions.clock = clock
	}
}

// WithSeed makes every session's shuffle deterministic. Zero keeps the
// default time-based seeding.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.sessions.seed = seed
	}
}

// NewServer creates a websocket server from the given configuration.
func NewServer(cfg *Config, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
	s.sessions = NewSessionManager(logger, quartz.NewReal(), cfg, 0)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	go s.run()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: r,
	}

	s.logger.Info("Starting WebSocket server", "addr", s.cfg.ListenAddr())
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and closes the existing ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpSrv != nil {
		return s.httpSrv.Shutdown(ctx)
	}
	return nil
}

// run handles connection lifecycle.
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			s.sessions.Leave(conn)
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.sessions)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
