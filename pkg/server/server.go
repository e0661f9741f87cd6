package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/unison-ui/unison/pkg/component"
	"github.com/unison-ui/unison/pkg/render"
)

// Server hosts the live sessions: it upgrades WebSocket connections,
// serves the initial HTML for any path, and manages session lifecycle.
type Server struct {
	config   *Config
	root     *component.Definition
	sessions *Manager
	upgrader websocket.Upgrader
	router   chi.Router
	mounted  sync.Once
	logger   *slog.Logger

	httpServer *http.Server

	// page decorates the SSR response document.
	page render.Page
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPage sets the document shell (title, styles, scripts) for SSR
// responses. The Body field is ignored; it comes from the root render.
func WithPage(page render.Page) Option {
	return func(s *Server) {
		s.page = page
	}
}

// New creates a Server serving root as the application component.
func New(config *Config, root *component.Definition, opts ...Option) *Server {
	config = config.withDefaults()

	s := &Server{
		config: config,
		root:   root,
		logger: slog.Default().With("component", "server"),
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sessions = NewManager(config.Session, config.MaxSessions, s.logger)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     config.CheckOrigin,
	}

	return s
}

// Router returns the server's mux so callers can mount additional
// routes and middleware before Start. The server's own routes mount
// lazily, so middleware added here still precedes them; chi rejects
// Use once the first route is registered.
func (s *Server) Router() chi.Router {
	return s.router
}

// Handler mounts the server's routes and returns the mux, for
// embedding in an existing server or tests. Add middleware via
// Router().Use before the first call.
func (s *Server) Handler() http.Handler {
	s.mounted.Do(func() {
		s.router.Get("/_unison/ws", s.handleWebSocket)
		s.router.NotFound(s.handleSSR)
	})
	return s.router
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// handleSSR renders the root component for the requested path into a
// full HTML document. The session created here is short-lived; the live
// session starts when the client's WebSocket handshake arrives.
func (s *Server) handleSSR(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		http.Error(w, "server busy", http.StatusServiceUnavailable)
		return
	}
	defer s.sessions.Remove(sess.ID())

	tree, err := sess.MountRoot(s.root, map[string]any{"path": r.URL.Path})
	if err != nil {
		s.logger.Error("ssr mount failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := s.page
	page.Body = tree

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, render.New(render.Config{AssignHIDs: true}), page); err != nil {
		s.logger.Error("ssr write failed", "path", r.URL.Path, "error", err)
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.Handler(),
	}

	go s.sessions.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops accepting connections and closes all sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.CloseAll()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
