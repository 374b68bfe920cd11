// Package api exposes the link store and search engine over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linkden/linkden/internal/search"
	"github.com/linkden/linkden/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	store  *store.SQLiteStore
	engine *search.Engine
	logger *slog.Logger
}

// New creates the HTTP API server.
func New(st *store.SQLiteStore, engine *search.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: st, engine: engine, logger: logger}
}

// Router assembles the handler tree with its middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/categories", s.handleCategories)

		r.Route("/links", func(r chi.Router) {
			r.Post("/", s.handleAddLink)
			r.Get("/", s.handleListLinks)
			r.Get("/{id}", s.handleGetLink)
			r.Post("/{id}/confirm", s.handleConfirmLink)
			r.Delete("/{id}", s.handleDeleteLink)
		})

		r.Get("/settings/{key}", s.handleGetSetting)
		r.Put("/settings/{key}", s.handleSetSetting)

		r.Get("/health", s.handleHealth)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(started)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}
