// Package api exposes summarization over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/docsum/internal/backend"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/jobs"
	"github.com/dgallion1/docsum/internal/summarize"
)

// LLMInfo describes the summarizer backend for the stats endpoint.
type LLMInfo interface {
	Provider() string
	Model() string
	Stats() *backend.LatencyStats
}

// Server is the HTTP API server for docsum.
type Server struct {
	router   chi.Router
	queue    *jobs.Queue
	pipeline *summarize.Pipeline
	llm      LLMInfo
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(q *jobs.Queue, p *summarize.Pipeline, llm LLMInfo, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		queue:    q,
		pipeline: p,
		llm:      llm,
		log:      log,
		cfg:      cfg,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.DocsumAPIKey, s.log))

		r.Post("/api/summarize", s.handleSummarize)
		r.Post("/api/summarize/file", s.handleSummarizeFile)
		r.Post("/api/summarize/batch", s.handleSummarizeBatch)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
