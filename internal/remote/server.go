package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/shared"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Server is the remote control surface for one presentation.
type Server struct {
	cfg      shared.RemoteConfig
	cmd      presenter.Commander
	hub      *Hub
	limiter  *rate.Limiter
	logger   *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
	closed     bool
}

// New creates a server that drives cmd. Register [Server.Hub] as a controller listener to push state to clients.
func New(cfg shared.RemoteConfig, cmd presenter.Commander, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		cfg:     cfg,
		cmd:     cmd,
		hub:     NewHub(logger),
		limiter: newLimiter(cfg.RateLimit, cfg.Burst),
		logger:  logger,
	}
	s.upgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	if cfg.AllowAllOrigins {
		s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter))
			r.Post("/next", s.command(s.cmd.Advance))
			r.Post("/prev", s.command(s.cmd.Retreat))
			r.Post("/start", s.command(s.cmd.Start))
			r.Post("/end", s.command(s.cmd.End))
			r.Post("/goto/{n}", s.handleGoto)
		})
	})

	return r
}

// Handler returns the router for mounting or testing.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub. It implements [presenter.Listener].
func (s *Server) Hub() *Hub { return s.hub }

// Addr returns the bound address once the server is serving, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// URL returns the base http URL clients should use, falling back to the configured address.
func (s *Server) URL() string {
	if a := s.Addr(); a != nil {
		return "http://" + a.String()
	}
	return "http://" + s.cfg.Addr()
}

// Start listens on the configured address and serves until [Server.Shutdown].
func (s *Server) Start() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Listen binds the configured address without serving it.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return ln, nil
}

// Serve accepts connections on ln. It returns nil after a graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ln.Close()
	}
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.addr = ln.Addr()
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("remote listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("remote server failed: %w", err)
	}
	return nil
}

// Shutdown disconnects websocket clients and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()

	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
