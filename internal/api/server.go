// Package api implements the mindgrove HTTP API server.
//
// The server exposes the pipeline over JSON endpoints:
//
//	POST   /api/mindmaps           generate a mind map from content
//	POST   /api/mindmaps/process   re-run the structural pipeline over an artifact
//	GET    /api/mindmaps           list stored mind maps
//	GET    /api/mindmaps/{id}      fetch a stored mind map
//	DELETE /api/mindmaps/{id}      delete a stored mind map
//	GET    /health                 liveness check
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindgrove/pkg/pipeline"
	"github.com/matzehuels/mindgrove/pkg/store"
)

// Config holds the server's collaborators and defaults.
type Config struct {
	Addr     string
	Runner   *pipeline.Runner
	Store    store.Store
	Logger   *log.Logger
	Defaults pipeline.Options
}

// Server is the HTTP API server for mindgrove.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	store  store.Store
	log    *log.Logger
	cfg    Config
}

// NewServer creates and configures the HTTP server.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		log:    cfg.Logger,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Post("/api/mindmaps", s.handleGenerate)
	r.Post("/api/mindmaps/process", s.handleProcess)
	r.Get("/api/mindmaps", s.handleList)
	r.Get("/api/mindmaps/{id}", s.handleGet)
	r.Delete("/api/mindmaps/{id}", s.handleDelete)

	s.router = r
}

// Run starts the server and shuts it down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.log.Info("listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
