// Package metrics exposes Prometheus instrumentation for the
// assembly pipeline and the HTTP service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Pipeline Metrics
	RunsTotal            *prometheus.CounterVec
	RunDuration          prometheus.Histogram
	StageDuration        *prometheus.HistogramVec
	GraphNodesAssembled  prometheus.Histogram
	GraphEdgesAssembled  prometheus.Histogram
	JunctionsSynthesized prometheus.Counter
	IssuesTotal          *prometheus.CounterVec
	ExportsTotal         *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initHTTPMetrics()
	r.initPipelineMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
