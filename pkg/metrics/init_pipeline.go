package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagraph_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagraph_run_duration_seconds",
			Help:    "End-to-end analysis run latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagraph_stage_duration_seconds",
			Help:    "Per-stage pipeline latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	r.GraphNodesAssembled = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagraph_graph_nodes_assembled",
			Help:    "Node count of assembled graphs",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.GraphEdgesAssembled = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagraph_graph_edges_assembled",
			Help:    "Edge count of assembled graphs",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.JunctionsSynthesized = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "diagraph_junctions_synthesized_total",
			Help: "Total number of synthetic junction nodes created",
		},
	)

	r.IssuesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagraph_validation_issues_total",
			Help: "Total number of validation issues reported",
		},
		[]string{"severity"},
	)

	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagraph_exports_total",
			Help: "Total number of document exports",
		},
		[]string{"format"},
	)
}
