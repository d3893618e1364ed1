// Package status exposes the running loop's state over HTTP for
// observability. It serves JSON only.
package status

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// Version is the optimizer version, set at build time using ldflags.
var Version = "dev"

// Sources are snapshot-at-read accessors into the live loop state.
// Every accessor returns copies; the server never holds locks owned by
// the loop.
type Sources struct {
	Snapshots func() map[string]models.PerformanceSnapshot
	States    func() []*models.ScalingState
	Events    func(limit int) []models.ScalingEvent
	Config    func() models.OptimizationConfig
	Ticks     func() int
}

// Server serves the status API.
type Server struct {
	httpServer *http.Server
	sources    Sources
	startTime  time.Time
	logger     *slog.Logger
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Ticks   int    `json:"ticks"`
}

// stateResponse is the /api/v1/state payload.
type stateResponse struct {
	Snapshots map[string]models.PerformanceSnapshot `json:"snapshots"`
	Scaling   []*models.ScalingState                `json:"scaling"`
	Config    models.OptimizationConfig             `json:"config"`
}

// NewServer creates a status Server listening on the given port.
func NewServer(port int, sources Sources, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		sources:   sources,
		startTime: time.Now(),
		logger:    logger,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Router builds the chi router for the status API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/events", s.handleEvents)
	})

	return r
}

// Start begins serving. It blocks until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting status server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("status server: %w", err)
	}
	return nil
}

// HTTPServer exposes the underlying server for shutdown coordination.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	}
	if s.sources.Ticks != nil {
		resp.Ticks = s.sources.Ticks()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{}
	if s.sources.Snapshots != nil {
		resp.Snapshots = s.sources.Snapshots()
	}
	if s.sources.States != nil {
		resp.Scaling = s.sources.States()
	}
	if s.sources.Config != nil {
		resp.Config = s.sources.Config()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events := []models.ScalingEvent{}
	if s.sources.Events != nil {
		events = s.sources.Events(limit)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding status response failed", "error", err)
	}
}
