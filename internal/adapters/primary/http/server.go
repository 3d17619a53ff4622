package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// Per-IP request budget
const (
	rateLimitPerMinute = 120
	rateLimitBurst     = 30
)

// Services bundles what the HTTP server needs from the domain
type Services struct {
	Posts ports.PostService
	Forms ports.PostFormController
	Auth  ports.AuthService
	Pages ports.PageRenderer
	// Health is optional; it backs /healthz when set
	Health func(ctx context.Context) error
	// Metrics is optional; it counts requests and adds a runtime snapshot to /healthz
	Metrics ports.MetricsRecorder
}

// Server implements the HTTPServer interface
type Server struct {
	server   *http.Server
	handler  http.Handler
	connMgr  *ConnectionManager
	limiter  *ipRateLimiter
	ips      *clientIPResolver
	services Services
	config   *entities.Config
	logger   *HTTPLogger
	cancel   context.CancelFunc
	mu       sync.RWMutex
	running  bool
}

// NewServer creates a new HTTP server.
// config must not be nil; use config.GetDefaultConfig() if needed.
func NewServer(services Services, config *entities.Config) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid Config")
	}

	s := &Server{
		services: services,
		connMgr:  NewConnectionManager(),
		limiter:  newIPRateLimiter(rateLimitPerMinute, rateLimitBurst),
		config:   config,
		logger:   NewHTTPLoggerFromConfig("server", config.Logging),
	}

	trusted, err := config.Server.TrustedProxyNets()
	if err != nil {
		s.logger.Warn("Ignoring trusted proxies: %v", err)
		trusted = nil
	}
	s.ips = newClientIPResolver(trusted)
	s.handler = s.buildHandler()
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server in the background
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.connMgr.Run(runCtx)
	go s.limiter.runCleanup(runCtx, 5*time.Minute)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           s.handler,
		ReadTimeout:       s.config.Server.GetReadTimeout(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.Server.GetWriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	s.running = true

	go func() {
		s.logger.Info("HTTP server starting on %s:%d", host, port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.CloseAll()
	if s.cancel != nil {
		s.cancel()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// NotifyClients sends an update event to all connected clients
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.Broadcast(event)
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// buildHandler wires routes, CORS and the middleware chain
func (s *Server) buildHandler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	router.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	router.HandleFunc("/posts", s.handlePostList).Methods(http.MethodGet)
	// admin routes must be registered before /posts/{slug}
	router.Handle("/posts/admin", s.requireAdmin(s.handleAdminIndex)).Methods(http.MethodGet)
	router.Handle("/posts/admin/{slug}", s.requireAdmin(s.handlePostForm)).Methods(http.MethodGet)
	router.Handle("/posts/admin/{slug}", s.requireAdmin(s.handlePostSubmit)).Methods(http.MethodPost)
	router.HandleFunc("/posts/{slug}", s.handlePost).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.Server.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	// innermost first: security -> rate limiting -> recovery -> logging
	handler := securityHeadersMiddleware(c.Handler(router))
	handler = createRateLimitMiddleware(handler, s.limiter, s.ips)
	handler = createRecoveryMiddleware(handler, s.logger)
	handler = createLoggingMiddleware(handler, s.logger, s.services.Metrics)

	return handler
}

// Ensure Server implements ports.HTTPServer
var _ ports.HTTPServer = (*Server)(nil)
