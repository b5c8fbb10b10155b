package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordRun records a completed analysis run
func (r *Registry) RecordRun(status string, duration time.Duration, nodes, edges, junctions int) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	if status == "ok" {
		r.GraphNodesAssembled.Observe(float64(nodes))
		r.GraphEdgesAssembled.Observe(float64(edges))
		r.JunctionsSynthesized.Add(float64(junctions))
	}
}

// RecordStage records one pipeline stage execution
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordIssue records a validation issue by severity
func (r *Registry) RecordIssue(severity string) {
	r.IssuesTotal.WithLabelValues(severity).Inc()
}

// RecordExport records a document export by format
func (r *Registry) RecordExport(format string) {
	r.ExportsTotal.WithLabelValues(format).Inc()
}
