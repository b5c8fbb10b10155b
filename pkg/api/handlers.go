package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oxbow-labs/diagraph/pkg/detect"
	"github.com/oxbow-labs/diagraph/pkg/export"
	"github.com/oxbow-labs/diagraph/pkg/logging"
	"github.com/oxbow-labs/diagraph/pkg/pipeline"
)

// RunSummary is the list-view shape of a stored run.
type RunSummary struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Stats     pipeline.Stats `json:"stats"`
}

func summarize(res *pipeline.Result) RunSummary {
	return RunSummary{ID: res.ID, CreatedAt: res.CreatedAt, Stats: res.Stats}
}

// handleAnalyze runs the pipeline on a posted detection set and stores
// the result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var set detect.Set
	if s.NewRequestDecoder(w, r).
		RequireMethod(http.MethodPost).
		DecodeJSON(&set).
		ValidateDetections(&set).
		RespondError() {
		return
	}

	res, err := s.runner.Run(r.Context(), &set)
	if err != nil {
		s.log.Error("analysis failed", logging.Err(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.store.Put(res)

	s.respondJSON(w, http.StatusCreated, res)
}

// handleRuns lists stored runs, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	results := s.store.List()
	summaries := make([]RunSummary, 0, len(results))
	for _, res := range results {
		summaries = append(summaries, summarize(res))
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"runs":  summaries,
		"count": len(summaries),
	})
}

// handleRun serves /runs/{id} and /runs/{id}/export.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/runs/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "Run ID required")
		return
	}

	res, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, pipeline.ErrRunNotFound) {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("Run %s not found", id))
			return
		}
		s.respondError(w, http.StatusInternalServerError, "Lookup failed")
		return
	}

	switch sub {
	case "":
		s.respondJSON(w, http.StatusOK, res)
	case "export":
		s.handleExport(w, r, res)
	default:
		s.respondError(w, http.StatusNotFound, "Unknown resource")
	}
}

// handleExport serves the run's document in the requested format:
// ?format=json (default) or ?format=csv (zip of CSV tables).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	switch format {
	case "json":
		data, err := export.JSON(res.Document)
		if err != nil {
			s.log.Error("export failed", logging.RunID(res.ID), logging.Err(err))
			s.respondError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		s.metrics.RecordExport("json")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.ID+".json"))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case "csv":
		data, err := export.ZipBundle(res.Document)
		if err != nil {
			s.log.Error("export failed", logging.RunID(res.ID), logging.Err(err))
			s.respondError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		s.metrics.RecordExport("csv")
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.ID+".zip"))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	default:
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown format %q, want json or csv", format))
	}
}
