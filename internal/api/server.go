// Package api exposes the chunking pipeline over HTTP: upload one
// document, receive its JSONL chunk records. The endpoint is a pure
// transform; no state survives the request.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pharmadoc/regchunk/internal/config"
	"github.com/pharmadoc/regchunk/internal/meta"
)

// Server is the HTTP API server for regchunk.
type Server struct {
	router   chi.Router
	log      *slog.Logger
	cfg      config.Config
	metaOpts meta.Options
}

// NewServer creates and configures the HTTP server. The provenance map
// is loaded once at startup and shared read-only across requests.
func NewServer(cfg config.Config, metaOpts meta.Options, log *slog.Logger) *Server {
	s := &Server{
		log:      log,
		cfg:      cfg,
		metaOpts: metaOpts,
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

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Post("/api/chunk", s.handleChunk)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
