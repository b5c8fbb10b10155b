// Package graph defines the in-memory diagram graph: nodes detected as
// symbols or synthesized at line junctions, edges carrying line
// geometry and resolved connectivity, OCR text spans, and validation
// issues. One Graph is the canonical result of one analysis run and is
// exclusively owned by that run.
package graph

import (
	"fmt"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/tagparse"
)

// Node is a point-or-region entity in the diagram: a piece of
// equipment, an instrument, or a synthesized junction.
type Node struct {
	ID         string               `json:"id"`
	Kind       NodeKind             `json:"kind"`
	Type       string               `json:"type,omitempty"` // symbol class, empty for junctions
	BBox       geometry.BoundingBox `json:"bbox"`
	Confidence float64              `json:"confidence"` // 1.0 for synthesized junctions
	Tag        string               `json:"tag,omitempty"`
	ParsedTag  *tagparse.Tag        `json:"parsed_tag,omitempty"`
	Attributes map[string]string    `json:"attributes,omitempty"`
}

// Edge is a connection, typically a process or signal line. From and To
// hold resolved endpoint node ids; the empty string marks an endpoint
// that could not be resolved (degenerate geometry only, after
// assembly).
type Edge struct {
	ID         string            `json:"id"`
	Kind       EdgeKind          `json:"kind"`
	Polyline   []geometry.Point  `json:"polyline"`
	Direction  string            `json:"direction"`
	From       string            `json:"from,omitempty"`
	To         string            `json:"to,omitempty"`
	Tag        string            `json:"tag,omitempty"`
	ParsedTag  *tagparse.Tag     `json:"parsed_tag,omitempty"`
	Confidence float64           `json:"confidence"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Degenerate reports whether the edge has effectively zero length, in
// which case its endpoints can never be resolved.
func (e *Edge) Degenerate() bool {
	first := e.Polyline[0]
	for _, p := range e.Polyline[1:] {
		if p.Distance(first) > 1e-9 {
			return false
		}
	}
	return true
}

// Start returns the first polyline point.
func (e *Edge) Start() geometry.Point { return e.Polyline[0] }

// End returns the last polyline point.
func (e *Edge) End() geometry.Point { return e.Polyline[len(e.Polyline)-1] }

// Text is an OCR span. It is consumed, never mutated: an association is
// recorded on the target node or edge, not here.
type Text struct {
	ID         string               `json:"id"`
	Content    string               `json:"content"`
	BBox       geometry.BoundingBox `json:"bbox"`
	Confidence float64              `json:"confidence"`
}

// Issue is a validation finding. TargetID is a weak reference to the
// node or edge that triggered it, empty for graph-level findings.
type Issue struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	TargetID string   `json:"target_id,omitempty"`
}

// Graph is the aggregate root owning all entities of one analysis run.
// Collections preserve insertion order so repeated runs over identical
// input produce identical output.
type Graph struct {
	Nodes  []*Node  `json:"nodes"`
	Edges  []*Edge  `json:"edges"`
	Texts  []*Text  `json:"texts"`
	Issues []*Issue `json:"issues"`
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// EdgeByID returns the edge with the given id, or nil.
func (g *Graph) EdgeByID(id string) *Edge {
	for _, e := range g.Edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// NewNode validates and creates a detected symbol node.
func NewNode(id string, kind NodeKind, symbolType string, bbox geometry.BoundingBox, confidence float64) (*Node, error) {
	if id == "" {
		return nil, fmt.Errorf("node: %w", ErrEmptyID)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("node %s: %w: %q", id, ErrUnknownKind, kind)
	}
	if !bbox.Valid() {
		return nil, fmt.Errorf("node %s: %w", id, ErrInvalidBBox)
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("node %s: %w: %v", id, ErrBadConfidence, confidence)
	}
	return &Node{ID: id, Kind: kind, Type: symbolType, BBox: bbox, Confidence: confidence}, nil
}

// NewJunction creates a synthetic junction node at the given point.
// Junctions carry a zero-size bounding box at the exact coordinate and
// full confidence.
func NewJunction(id string, at geometry.Point) *Node {
	return &Node{
		ID:         id,
		Kind:       KindJunction,
		BBox:       geometry.PointBox(at),
		Confidence: 1.0,
	}
}

// NewEdge validates and creates an edge from a raw detected line.
// Endpoints start unresolved.
func NewEdge(id string, kind EdgeKind, polyline []geometry.Point, confidence float64) (*Edge, error) {
	if id == "" {
		return nil, fmt.Errorf("edge: %w", ErrEmptyID)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("edge %s: %w: %q", id, ErrUnknownKind, kind)
	}
	if len(polyline) < 2 {
		return nil, fmt.Errorf("edge %s: %w (got %d)", id, ErrShortPolyline, len(polyline))
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("edge %s: %w: %v", id, ErrBadConfidence, confidence)
	}
	return &Edge{
		ID:         id,
		Kind:       kind,
		Polyline:   polyline,
		Direction:  DirectionUnknown,
		Confidence: confidence,
	}, nil
}

// NewText validates and creates an OCR text span.
func NewText(id, content string, bbox geometry.BoundingBox, confidence float64) (*Text, error) {
	if id == "" {
		return nil, fmt.Errorf("text: %w", ErrEmptyID)
	}
	if content == "" {
		return nil, fmt.Errorf("text %s: %w", id, ErrEmptyContent)
	}
	if !bbox.Valid() {
		return nil, fmt.Errorf("text %s: %w", id, ErrInvalidBBox)
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("text %s: %w: %v", id, ErrBadConfidence, confidence)
	}
	return &Text{ID: id, Content: content, BBox: bbox, Confidence: confidence}, nil
}
