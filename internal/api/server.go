// Package api serves the chunking pipeline over HTTP: one-shot document
// chunking, pipeline statistics, and a health probe.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pagesmith/pdfchunk/chunker"
	"github.com/pagesmith/pdfchunk/internal/config"
)

// Server is the HTTP chunking service. All requests share one chunker, so
// its worker pool and statistics span the process lifetime.
type Server struct {
	router  chi.Router
	chunker *chunker.Chunker
	log     *slog.Logger
	cfg     config.Config
}

// NewServer wires routes around a shared chunker.
func NewServer(ck *chunker.Chunker, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		chunker: ck,
		log:     log,
		cfg:     cfg,
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
	r.Use(middleware.RealIP)
	r.Use(logRequests(s.log))

	// Public endpoints.
	r.Get("/healthz", s.handleHealth)

	// Authenticated endpoints. An empty key leaves them open.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(requireAPIKey(s.cfg.APIKey, s.log))
		}

		r.Post("/v1/chunk", s.handleChunk)
		r.Get("/v1/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
