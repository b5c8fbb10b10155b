// Package detect defines the contracts for the three external
// detectors (symbol model, OCR engine, line finder) and converts their
// raw outputs into graph entities. The engine never touches pixels;
// everything arrives here as already-detected geometry.
//
// Symbol detections are expected to be de-duplicated (non-max
// suppressed) by the detector before they reach this package.
package detect

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/graph"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Box is a detector-reported bounding box.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w" validate:"gte=0"`
	H float64 `json:"h" validate:"gte=0"`
}

func (b Box) bounding() geometry.BoundingBox {
	return geometry.NewBoundingBox(b.X, b.Y, b.W, b.H)
}

// Symbol is one symbol-detector hit.
type Symbol struct {
	Type       string  `json:"type" validate:"required"`
	BBox       Box     `json:"bbox"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Line is one line-detector segment or polyline.
type Line struct {
	Polyline   [][2]float64 `json:"polyline" validate:"required,min=2"`
	Kind       string       `json:"kind,omitempty" validate:"omitempty,oneof=process signal connection"`
	Confidence float64      `json:"confidence,omitempty" validate:"gte=0,lte=1"`
}

// Text is one OCR span.
type Text struct {
	Content    string  `json:"content" validate:"required"`
	BBox       Box     `json:"bbox"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Set bundles the three detector outputs for one diagram.
type Set struct {
	Symbols []Symbol `json:"symbols" validate:"dive"`
	Lines   []Line   `json:"lines" validate:"dive"`
	Texts   []Text   `json:"texts" validate:"dive"`
}

// Validate checks the detection set's shape. Malformed detections
// fail loudly here rather than being silently dropped downstream.
func (s *Set) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("detections: %w", err)
	}
	return nil
}

// Load reads and validates a detection set from a JSON file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("detections: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a detection set from JSON bytes.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("detections: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ToGraphInputs converts the set into graph entities with normalized
// sequential ids, ready for assembly. Node kind is inferred from the
// symbol class through the vocabulary.
func (s *Set) ToGraphInputs(vocab Vocabulary) ([]*graph.Node, []*graph.Edge, []*graph.Text, error) {
	nodes := make([]*graph.Node, 0, len(s.Symbols))
	for i, sym := range s.Symbols {
		n, err := graph.NewNode(
			fmt.Sprintf("symbol_%d", i),
			vocab.KindFor(sym.Type),
			sym.Type,
			sym.BBox.bounding(),
			sym.Confidence,
		)
		if err != nil {
			return nil, nil, nil, err
		}
		nodes = append(nodes, n)
	}

	edges := make([]*graph.Edge, 0, len(s.Lines))
	for i, l := range s.Lines {
		kind := graph.EdgeKind(l.Kind)
		if l.Kind == "" {
			kind = graph.EdgeProcess
		}
		conf := l.Confidence
		if conf == 0 {
			conf = 1.0 // line detectors rarely score segments
		}
		poly := make([]geometry.Point, len(l.Polyline))
		for j, p := range l.Polyline {
			poly[j] = geometry.Point{X: p[0], Y: p[1]}
		}
		e, err := graph.NewEdge(fmt.Sprintf("line_%d", i), kind, poly, conf)
		if err != nil {
			return nil, nil, nil, err
		}
		edges = append(edges, e)
	}

	texts := make([]*graph.Text, 0, len(s.Texts))
	for i, t := range s.Texts {
		txt, err := graph.NewText(fmt.Sprintf("text_%d", i), t.Content, t.BBox.bounding(), t.Confidence)
		if err != nil {
			return nil, nil, nil, err
		}
		texts = append(texts, txt)
	}

	return nodes, edges, texts, nil
}
