// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oxbow-labs/diagraph/pkg/logging"
	"github.com/oxbow-labs/diagraph/pkg/metrics"
	"github.com/oxbow-labs/diagraph/pkg/pipeline"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server routes analysis requests to the pipeline and serves stored
// run results.
type Server struct {
	runner    *pipeline.Runner
	store     *pipeline.RunStore
	metrics   *metrics.Registry
	log       logging.Logger
	startTime time.Time
}

// NewServer creates an API server around a configured runner.
func NewServer(runner *pipeline.Runner, store *pipeline.RunStore, reg *metrics.Registry, log logging.Logger) *Server {
	if store == nil {
		store = pipeline.NewRunStore()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Server{
		runner:    runner,
		store:     store,
		metrics:   reg,
		log:       log.With(logging.Component("api")),
		startTime: time.Now(),
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/runs/", s.handleRun) // /runs/{id}, /runs/{id}/export
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metrics.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	var h http.Handler = mux
	h = s.metricsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = corsMiddleware(h)
	return h
}

// ErrorResponse is the error payload shape for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encode response", logging.Err(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        Version,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"runs":           s.store.Len(),
	})
}
