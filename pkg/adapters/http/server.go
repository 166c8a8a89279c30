package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/presets"
	"github.com/aretw0/arbor/pkg/schema"
	"github.com/aretw0/arbor/pkg/service"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Generator is the generation service behind the API.
type Generator interface {
	Generate(ctx context.Context, req service.Request) (*domain.Result, error)
	Get(ctx context.Context, id string) (*domain.Result, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]service.Summary, error)
	Catalog() *presets.Catalog
}

// Server serves the generation API.
type Server struct {
	Generator Generator
	logger    *slog.Logger
	metrics   http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler replaces the default Prometheus handler on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// PresetInfo describes a preset.
type PresetInfo struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	DefaultIterations int    `json:"default_iterations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for gen.
func NewHandler(gen Generator, opts ...Option) http.Handler {
	s := &Server{
		Generator: gen,
		logger:    slog.Default(),
		metrics:   promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetSpec)
	r.Get("/presets", s.ListPresets)
	r.Post("/generate", s.Generate)
	r.Get("/results", s.ListResults)
	r.Get("/results/{id}", s.GetResult)
	r.Delete("/results/{id}", s.DeleteResult)
	r.Handle("/metrics", s.metrics)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// writeError maps service errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	var symErr *domain.SymbolError
	var schemaErr *schema.AggregateError

	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, presets.ErrInvalidParams):
		status = http.StatusBadRequest
	case errors.Is(err, presets.ErrUnknownPreset), errors.Is(err, ports.ErrResultNotFound):
		status = http.StatusNotFound
	case errors.As(err, &symErr), errors.As(err, &schemaErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err, "status", status)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetSpec handles GET /openapi.yaml.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = w.Write(rawSpec)
}

// ListPresets handles GET /presets.
func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	list := s.Generator.Catalog().List()
	out := make([]PresetInfo, 0, len(list))
	for _, p := range list {
		out = append(out, PresetInfo{
			Name:              p.Name(),
			Description:       p.Describe(),
			DefaultIterations: p.DefaultIterations(),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// Generate handles POST /generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, "generate", fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		return
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		s.writeError(w, "generate", fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		return
	}
	sch, err := requestSchema("/generate", http.MethodPost)
	if err != nil {
		s.writeError(w, "generate", err)
		return
	}
	if err := sch.VisitJSON(raw); err != nil {
		s.writeError(w, "generate", fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		return
	}

	var req service.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, "generate", fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		return
	}

	result, err := s.Generator.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, "generate", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// ListResults handles GET /results.
func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		s.writeError(w, "list results", fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		return
	}
	if limit < 0 {
		s.writeError(w, "list results", fmt.Errorf("%w: limit must be positive", service.ErrInvalidRequest))
		return
	}

	list, err := s.Generator.List(r.Context())
	if err != nil {
		s.writeError(w, "list results", err)
		return
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) resultID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
	}
	return id, nil
}

// GetResult handles GET /results/{id}.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	id, err := s.resultID(r)
	if err != nil {
		s.writeError(w, "get result", err)
		return
	}
	result, err := s.Generator.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, "get result", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// DeleteResult handles DELETE /results/{id}.
func (s *Server) DeleteResult(w http.ResponseWriter, r *http.Request) {
	id, err := s.resultID(r)
	if err != nil {
		s.writeError(w, "delete result", err)
		return
	}
	if err := s.Generator.Delete(r.Context(), id); err != nil {
		s.writeError(w, "delete result", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
