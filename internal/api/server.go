package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/quorumhq/minuted/internal/analysis"
)

// Analyzer is the core pipeline surface the API depends on.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, cfg analysis.InferenceConfig) (*analysis.Result, error)
}

// ModelLister exposes the backend's installed models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// EventSink receives analysis lifecycle announcements. Nil disables
// event publication.
type EventSink interface {
	Publish(subject string, data any) error
}

// Defaults are the inference settings applied when a request does not
// override them.
type Defaults struct {
	Model       string
	Temperature float64
	TopP        float64
	NumCtx      int
	MaxRetries  int
}

type Server struct {
	router   *chi.Mux
	port     int
	pipeline Analyzer
	models   ModelLister
	events   EventSink
	validate *validator.Validate
	defaults Defaults
	logger   *slog.Logger
}

func NewServer(port int, pipeline Analyzer, models ModelLister, events EventSink, defaults Defaults, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		pipeline: pipeline,
		models:   models,
		events:   events,
		validate: validator.New(),
		defaults: defaults,
		logger:   logger,
	}

	router.Get("/", s.home)
	router.Get("/api/health", s.health)
	router.Get("/api/models", s.listModels)
	router.Post("/api/analyze", s.analyze)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "minuted meeting analysis API",
		"endpoints": map[string]string{
			"/api/health":  "check inference backend connectivity",
			"/api/analyze": "POST a meeting transcript for analysis",
			"/api/models":  "list installed models",
		},
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	models, err := s.models.ListModels(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":          "error",
			"backend_running": false,
			"error":           "cannot reach the inference backend",
			"details":         err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"backend_running":  true,
		"available_models": models,
		"current_model":    s.defaults.Model,
		"models_count":     len(models),
	})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	models, err := s.models.ListModels(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":  err.Error(),
			"models": []string{},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
