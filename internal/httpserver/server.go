// internal/httpserver/server.go
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/routes"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http    *http.Server
	logger  logger.Logger
	started time.Time
}

// NewRouter builds the router: global middlewares then every registered route.
func NewRouter(cfg *config.Config, d deps.Deps) http.Handler {
	r := chi.NewRouter()

	// --- Global middlewares (safe defaults)
	r.Use(middleware.RequestID)                         // X-Request-ID on each request
	r.Use(mw.Log(d.Logger))                             // structured access logs
	r.Use(middleware.Recoverer)                         // never crash the process on panic
	r.Use(mw.Metrics(d.Metrics))                        // per-route Prometheus metrics
	r.Use(mw.CORS(d.CORSOrigins, d.Logger))             // passthrough when no origin is configured
	r.Use(middleware.Timeout(cfg.RequestTimeout))       // per-request deadline, propagated to the store
	r.Use(middleware.RequestSize(cfg.MaxBodyBytes + 1)) // hard cap, the validator reports the overflow

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteStatus(w, http.StatusNotFound, "Cannot find route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteStatus(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	routes.RegisterAll(r, d)
	return r
}

// New builds the HTTP server (router, middlewares, route registration).
func New(cfg *config.Config, d deps.Deps) *Server {
	s := &http.Server{
		Addr:              cfg.ListenPort,
		Handler:           NewRouter(cfg, d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		http:    s,
		logger:  d.Logger,
		started: d.StartTime,
	}
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	// http.ErrServerClosed is expected on graceful shutdown.
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down...",
		logger.Duration("uptime", time.Since(s.started)),
	)
	return s.http.Shutdown(ctx)
}
