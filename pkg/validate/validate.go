// Package validate runs the consistency rule battery over an assembled
// graph. Every rule always runs; findings come back as issues in a
// stable order so re-validating an unchanged graph is byte-identical.
package validate

import (
	"fmt"

	"github.com/oxbow-labs/diagraph/pkg/graph"
)

// Options tunes the rule battery.
type Options struct {
	// ConfidenceFloor is the detection confidence below which a node or
	// edge is flagged.
	ConfidenceFloor float64 `yaml:"confidence_floor" json:"confidence_floor"`

	// Vocabulary is the set of recognized symbol classes. A detected
	// node whose type is outside it is flagged as unknown.
	Vocabulary []string `yaml:"vocabulary" json:"vocabulary"`
}

// DefaultOptions returns the standard floor and symbol vocabulary.
func DefaultOptions() Options {
	return Options{
		ConfidenceFloor: 0.5,
		Vocabulary: []string{
			"pump", "tank", "vessel", "valve", "compressor", "heat_exchanger",
			"instrument", "indicator", "transmitter", "controller",
		},
	}
}

// Validate checks the graph against the full rule set and returns the
// findings. The graph is not mutated; the caller appends the returned
// issues to graph.Issues. Messages are fully determined by the
// triggering entity, so repeated validation of the same graph yields
// identical issues.
func Validate(g *graph.Graph, opts Options) []*graph.Issue {
	vocab := make(map[string]struct{}, len(opts.Vocabulary))
	for _, v := range opts.Vocabulary {
		vocab[v] = struct{}{}
	}

	var issues []*graph.Issue
	add := func(severity graph.Severity, targetID, format string, args ...any) {
		issues = append(issues, &graph.Issue{
			ID:       fmt.Sprintf("issue_%d", len(issues)),
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
			TargetID: targetID,
		})
	}

	for _, n := range g.Nodes {
		if n.Kind == graph.KindJunction {
			continue
		}
		if _, known := vocab[n.Type]; !known {
			add(graph.SeverityWarning, n.ID, "unknown symbol type %q", n.Type)
		}
	}

	for _, n := range g.Nodes {
		if n.Kind != graph.KindJunction && n.Confidence < opts.ConfidenceFloor {
			add(graph.SeverityInfo, n.ID, "low confidence detection (%.2f) for %q", n.Confidence, n.Type)
		}
	}
	for _, e := range g.Edges {
		if e.Confidence < opts.ConfidenceFloor {
			add(graph.SeverityInfo, e.ID, "low confidence detection (%.2f) for %s line", e.Confidence, e.Kind)
		}
	}

	for _, n := range g.Nodes {
		if (n.Kind == graph.KindEquipment || n.Kind == graph.KindInstrument) && n.Tag == "" {
			add(graph.SeverityWarning, n.ID, "%s %q has no tag", n.Kind, n.ID)
		}
	}

	for _, e := range g.Edges {
		if e.From == "" || e.To == "" {
			add(graph.SeverityError, e.ID, "line %q has a dangling endpoint (degenerate geometry)", e.ID)
		}
	}

	for _, n := range g.Nodes {
		if n.Kind == graph.KindInstrument && n.Tag != "" && n.ParsedTag == nil {
			add(graph.SeverityInfo, n.ID, "instrument tag %q does not match the ISA pattern", n.Tag)
		}
	}

	for _, e := range g.Edges {
		if e.Kind == graph.EdgeProcess && e.Tag == "" {
			add(graph.SeverityWarning, e.ID, "process line %q has no label", e.ID)
		}
	}

	return issues
}
