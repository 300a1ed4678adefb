package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/san-kum/zetasim/internal/config"
	"github.com/san-kum/zetasim/internal/storage"
)

// DefaultMaxPoints caps the grid size a single request may ask for.
const DefaultMaxPoints = 250000

// Server is the dashboard and JSON API for running field evaluations.
type Server struct {
	router    *mux.Router
	server    *http.Server
	cfg       *config.Config
	store     *storage.Store
	logger    *zap.SugaredLogger
	maxPoints int
}

// New builds a server around the given defaults. The store may be nil,
// which disables run persistence.
func New(cfg *config.Config, store *storage.Store, logger *zap.SugaredLogger, maxPoints int) *Server {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	s := &Server{
		router:    mux.NewRouter(),
		cfg:       cfg,
		store:     store,
		logger:    logger,
		maxPoints: maxPoints,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.HandleFunc("/", s.index).Methods("GET")
	s.router.HandleFunc("/api/simulate", s.simulate).Methods("POST")
	s.router.HandleFunc("/api/presets", s.getPresets).Methods("GET")
	s.router.HandleFunc("/api/runs", s.getRuns).Methods("GET")
	s.router.HandleFunc("/api/runs/{id}", s.getRun).Methods("GET")
	s.router.HandleFunc("/healthz", s.healthCheck).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves until Stop or failure.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Infow("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Infow("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
