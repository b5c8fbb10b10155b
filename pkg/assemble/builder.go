// Package assemble fuses the three detector outputs (symbol nodes, raw
// line edges, OCR text spans) into one consistent diagram graph:
// line endpoints are resolved to nodes, junctions are synthesized where
// lines meet no detected symbol, and text spans are associated with
// their nearest target and parsed into structured tags.
package assemble

import (
	"fmt"

	"github.com/oxbow-labs/diagraph/pkg/graph"
)

// Builder assembles graphs. A Builder holds no per-run state and is
// safe to share across concurrent analysis runs.
type Builder struct {
	opts Options
}

// NewBuilder creates a builder with the given association options.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Assemble builds a graph from detector outputs. The steps run in a
// fixed order: seed nodes, seed edges, resolve endpoint connectivity
// (which may synthesize junction nodes), associate text, then merge
// near-coincident junctions. Later steps depend on the results of
// earlier ones, so the order is a hard dependency chain.
//
// Symbol inputs are assumed to be de-duplicated upstream (non-max
// suppression is the detector's responsibility). Empty inputs produce
// an empty graph, not an error; only shape violations (duplicate ids,
// malformed entities) fail.
func (b *Builder) Assemble(symbols []*graph.Node, lines []*graph.Edge, texts []*graph.Text) (*graph.Graph, error) {
	g := &graph.Graph{
		Nodes: make([]*graph.Node, 0, len(symbols)),
		Edges: make([]*graph.Edge, 0, len(lines)),
		Texts: make([]*graph.Text, 0, len(texts)),
	}

	seen := make(map[string]struct{}, len(symbols))
	for _, n := range symbols {
		if n.ID == "" {
			return nil, fmt.Errorf("assemble: symbol node: %w", graph.ErrEmptyID)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("assemble: symbol node %q: %w", n.ID, graph.ErrDuplicateID)
		}
		seen[n.ID] = struct{}{}
		g.Nodes = append(g.Nodes, n)
	}

	seenEdges := make(map[string]struct{}, len(lines))
	for _, e := range lines {
		if e.ID == "" {
			return nil, fmt.Errorf("assemble: edge: %w", graph.ErrEmptyID)
		}
		if _, dup := seenEdges[e.ID]; dup {
			return nil, fmt.Errorf("assemble: edge %q: %w", e.ID, graph.ErrDuplicateID)
		}
		if len(e.Polyline) < 2 {
			return nil, fmt.Errorf("assemble: edge %q: %w", e.ID, graph.ErrShortPolyline)
		}
		seenEdges[e.ID] = struct{}{}
		// Endpoints are owned by this pass; reset so re-assembly of the
		// same raw edges resolves identically.
		e.From, e.To = "", ""
		g.Edges = append(g.Edges, e)
	}

	g.Texts = append(g.Texts, texts...)

	b.connectEndpoints(g)
	b.associateTexts(g)
	b.mergeJunctions(g)

	return g, nil
}
