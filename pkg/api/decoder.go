package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oxbow-labs/diagraph/pkg/detect"
)

// requestDecoder decodes and validates request bodies. It provides a
// fluent interface so handlers stay flat.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

// NewRequestDecoder creates a new request decoder for the given request.
func (s *Server) NewRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{
		r:      r,
		w:      w,
		server: s,
	}
}

// RequireMethod fails with 405 unless the request uses the method.
func (rd *requestDecoder) RequireMethod(method string) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if rd.r.Method != method {
		rd.err = fmt.Errorf("method %s not allowed", rd.r.Method)
		rd.statusCode = http.StatusMethodNotAllowed
	}
	return rd
}

// DecodeJSON decodes the request body into the provided struct.
// Returns the decoder for chaining.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := json.NewDecoder(rd.r.Body).Decode(v); err != nil {
		rd.err = fmt.Errorf("invalid request body: %w", err)
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateDetections validates a detection set request body.
func (rd *requestDecoder) ValidateDetections(set *detect.Set) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := set.Validate(); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// RespondError sends the error response and reports whether one was
// sent. Handlers return immediately when it reports true.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}
