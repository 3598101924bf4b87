// Package server exposes the skill-tree catalog, validation, layout, and
// per-user progress over an HTTP JSON API.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nasimstg/skilltree/pkg/progress"
	"github.com/nasimstg/skilltree/pkg/treestore"
)

const requestTimeout = 60 * time.Second

// Server is the HTTP API server.
type Server struct {
	router   *chi.Mux
	trees    treestore.Store
	progress progress.Store
	logger   *log.Logger
}

// New creates an API server over the given stores.
func New(trees treestore.Store, prog progress.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		trees:    trees,
		progress: prog,
		logger:   logger,
	}
	s.setupRouter()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/trees", s.handleListTrees)
		r.Route("/trees/{treeID}", func(r chi.Router) {
			r.Get("/", s.handleGetTree)
			r.Get("/layout", s.handleLayout)
			r.Get("/render", s.handleRender)
		})

		r.Post("/validate", s.handleValidate)

		r.Route("/progress/{user}/{treeID}", func(r chi.Router) {
			r.Get("/", s.handleGetProgress)
			r.Put("/", s.handlePutProgress)
		})
	})

	s.router = r
}

// logRequests emits one structured line per request with status and timing.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
