package assemble

import (
	"errors"
	"reflect"
	"testing"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/graph"
)

func mustNode(t *testing.T, id string, kind graph.NodeKind, typ string, x, y, w, h float64) *graph.Node {
	t.Helper()
	n, err := graph.NewNode(id, kind, typ, geometry.NewBoundingBox(x, y, w, h), 0.9)
	if err != nil {
		t.Fatalf("NewNode(%s): %v", id, err)
	}
	return n
}

func mustEdge(t *testing.T, id string, points ...geometry.Point) *graph.Edge {
	t.Helper()
	e, err := graph.NewEdge(id, graph.EdgeProcess, points, 1.0)
	if err != nil {
		t.Fatalf("NewEdge(%s): %v", id, err)
	}
	return e
}

func mustText(t *testing.T, id, content string, x, y, w, h float64) *graph.Text {
	t.Helper()
	txt, err := graph.NewText(id, content, geometry.NewBoundingBox(x, y, w, h), 0.8)
	if err != nil {
		t.Fatalf("NewText(%s): %v", id, err)
	}
	return txt
}

func TestAssembleEmptyInputs(t *testing.T) {
	g, err := NewBuilder(DefaultOptions()).Assemble(nil, nil, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 || len(g.Texts) != 0 {
		t.Errorf("empty inputs produced non-empty graph: %+v", g)
	}
}

// An untagged pump with a nearby "P-101" text: the tag attaches but
// stays unparsed, because single-letter prefixes are equipment tags,
// not instrument loops.
func TestAssembleEquipmentTagging(t *testing.T) {
	pump := mustNode(t, "symbol_0", graph.KindEquipment, "pump", 150, 200, 50, 50)
	label := mustText(t, "text_0", "P-101", 140, 170, 40, 20)

	g, err := NewBuilder(DefaultOptions()).Assemble([]*graph.Node{pump}, nil, []*graph.Text{label})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got := g.NodeByID("symbol_0")
	if got.Tag != "P-101" {
		t.Errorf("Tag = %q, want %q", got.Tag, "P-101")
	}
	if got.ParsedTag != nil {
		t.Errorf("ParsedTag = %+v, want nil", got.ParsedTag)
	}
	if len(g.Texts) != 1 {
		t.Errorf("texts must remain in the graph, got %d", len(g.Texts))
	}
}

func TestAssembleInstrumentTagParsing(t *testing.T) {
	inst := mustNode(t, "symbol_0", graph.KindInstrument, "controller", 100, 100, 40, 40)
	label := mustText(t, "text_0", "FIC-101", 100, 60, 40, 20)

	g, err := NewBuilder(DefaultOptions()).Assemble([]*graph.Node{inst}, nil, []*graph.Text{label})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got := g.NodeByID("symbol_0")
	if got.Tag != "FIC-101" {
		t.Fatalf("Tag = %q", got.Tag)
	}
	if got.ParsedTag == nil || got.ParsedTag.Prefix != "FIC" || got.ParsedTag.Number != "101" {
		t.Errorf("ParsedTag = %+v", got.ParsedTag)
	}
}

// A lone line far from any symbol gets junctions synthesized at both
// exact endpoint coordinates, leaving no dangling endpoints.
func TestAssembleJunctionSynthesis(t *testing.T) {
	line := mustEdge(t, "line_0", geometry.Point{X: 100, Y: 150}, geometry.Point{X: 300, Y: 150})

	g, err := NewBuilder(DefaultOptions()).Assemble(nil, []*graph.Edge{line}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2 junctions", len(g.Nodes))
	}
	e := g.EdgeByID("line_0")
	if e.From == "" || e.To == "" {
		t.Fatalf("endpoints unresolved: from=%q to=%q", e.From, e.To)
	}
	from, to := g.NodeByID(e.From), g.NodeByID(e.To)
	if from.Kind != graph.KindJunction || to.Kind != graph.KindJunction {
		t.Errorf("endpoint kinds = %q, %q", from.Kind, to.Kind)
	}
	if c := from.BBox.Center(); c.X != 100 || c.Y != 150 {
		t.Errorf("from junction at %v, want (100, 150)", c)
	}
	if c := to.BBox.Center(); c.X != 300 || c.Y != 150 {
		t.Errorf("to junction at %v, want (300, 150)", c)
	}
	if from.Confidence != 1.0 || to.Confidence != 1.0 {
		t.Error("synthetic junctions must carry confidence 1.0")
	}
}

func TestAssembleConnectsToDetectedSymbols(t *testing.T) {
	pump := mustNode(t, "symbol_0", graph.KindEquipment, "pump", 80, 130, 40, 40) // center (100, 150)
	tank := mustNode(t, "symbol_1", graph.KindEquipment, "tank", 280, 130, 40, 40)
	line := mustEdge(t, "line_0", geometry.Point{X: 105, Y: 150}, geometry.Point{X: 295, Y: 150})

	g, err := NewBuilder(DefaultOptions()).Assemble([]*graph.Node{pump, tank}, []*graph.Edge{line}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	e := g.EdgeByID("line_0")
	if e.From != "symbol_0" || e.To != "symbol_1" {
		t.Errorf("endpoints = (%q, %q), want (symbol_0, symbol_1)", e.From, e.To)
	}
	if len(g.Nodes) != 2 {
		t.Errorf("no junctions expected, got %d nodes", len(g.Nodes))
	}
}

// Near-coincident synthesized junctions coalesce, and edge endpoints
// referencing a merged junction are rewritten to the survivor.
func TestAssembleJunctionMerge(t *testing.T) {
	opts := DefaultOptions()
	opts.ConnectRadius = 1 // force separate junctions at adjacent endpoints
	opts.MergeRadius = 5

	e1 := mustEdge(t, "line_0", geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 150})
	e2 := mustEdge(t, "line_1", geometry.Point{X: 102, Y: 151}, geometry.Point{X: 200, Y: 300})

	g, err := NewBuilder(opts).Assemble(nil, []*graph.Edge{e1, e2}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3 after merge", len(g.Nodes))
	}
	if g.EdgeByID("line_0").To != g.EdgeByID("line_1").From {
		t.Errorf("merged junction not shared: to=%q from=%q",
			g.EdgeByID("line_0").To, g.EdgeByID("line_1").From)
	}
	for _, e := range g.Edges {
		if g.NodeByID(e.From) == nil || g.NodeByID(e.To) == nil {
			t.Errorf("edge %s references missing node after merge", e.ID)
		}
	}
}

// The closer of two texts wins a node, whatever order the texts arrive
// in.
func TestAssembleClosestTextWins(t *testing.T) {
	near := mustText(t, "text_0", "FIC-101", 100, 60, 40, 20)  // center (120, 70)
	far := mustText(t, "text_1", "FIC-999", 100, 20, 40, 20)   // center (120, 30)

	for name, order := range map[string][]*graph.Text{
		"near first": {near, far},
		"far first":  {far, near},
	} {
		t.Run(name, func(t *testing.T) {
			inst := mustNode(t, "symbol_0", graph.KindInstrument, "controller", 100, 80, 40, 40)
			g, err := NewBuilder(DefaultOptions()).Assemble([]*graph.Node{inst}, nil, order)
			if err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			if got := g.NodeByID("symbol_0").Tag; got != "FIC-101" {
				t.Errorf("Tag = %q, want FIC-101", got)
			}
		})
	}
}

// A text closer to a line midpoint than to any node tags the line.
func TestAssembleTextPrefersCloserEdge(t *testing.T) {
	tank := mustNode(t, "symbol_0", graph.KindEquipment, "tank", 0, 0, 40, 40)
	line := mustEdge(t, "line_0", geometry.Point{X: 20, Y: 20}, geometry.Point{X: 220, Y: 20}) // midpoint (120, 20)
	label := mustText(t, "text_0", "CW-12", 100, 30, 40, 20)                                  // center (120, 40)

	g, err := NewBuilder(DefaultOptions()).Assemble([]*graph.Node{tank}, []*graph.Edge{line}, []*graph.Text{label})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got := g.EdgeByID("line_0").Tag; got != "CW-12" {
		t.Errorf("edge Tag = %q, want CW-12", got)
	}
	if got := g.NodeByID("symbol_0").Tag; got != "" {
		t.Errorf("node Tag = %q, want empty", got)
	}
}

func TestAssembleDegenerateEdgeLeftDangling(t *testing.T) {
	e := mustEdge(t, "line_0", geometry.Point{X: 5, Y: 5}, geometry.Point{X: 5, Y: 5})
	g, err := NewBuilder(DefaultOptions()).Assemble(nil, []*graph.Edge{e}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got := g.EdgeByID("line_0")
	if got.From != "" || got.To != "" {
		t.Errorf("degenerate edge resolved endpoints: (%q, %q)", got.From, got.To)
	}
	if len(g.Nodes) != 0 {
		t.Errorf("degenerate edge must not synthesize junctions, got %d nodes", len(g.Nodes))
	}
}

func TestAssembleDuplicateIDs(t *testing.T) {
	a := mustNode(t, "symbol_0", graph.KindEquipment, "pump", 0, 0, 10, 10)
	b := mustNode(t, "symbol_0", graph.KindEquipment, "tank", 50, 50, 10, 10)
	if _, err := NewBuilder(DefaultOptions()).Assemble([]*graph.Node{a, b}, nil, nil); !errors.Is(err, graph.ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}

	e1 := mustEdge(t, "line_0", geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 1})
	e2 := mustEdge(t, "line_0", geometry.Point{X: 2, Y: 2}, geometry.Point{X: 3, Y: 3})
	if _, err := NewBuilder(DefaultOptions()).Assemble(nil, []*graph.Edge{e1, e2}, nil); !errors.Is(err, graph.ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
}

// Re-assembling the same raw inputs yields an identical graph.
func TestAssembleDeterministic(t *testing.T) {
	build := func() *graph.Graph {
		pump := mustNode(t, "symbol_0", graph.KindEquipment, "pump", 80, 130, 40, 40)
		inst := mustNode(t, "symbol_1", graph.KindInstrument, "controller", 400, 130, 40, 40)
		l1 := mustEdge(t, "line_0", geometry.Point{X: 105, Y: 150}, geometry.Point{X: 395, Y: 150})
		l2 := mustEdge(t, "line_1", geometry.Point{X: 600, Y: 10}, geometry.Point{X: 600, Y: 200})
		t1 := mustText(t, "text_0", "P-101", 70, 90, 40, 20)
		t2 := mustText(t, "text_1", "FIC-205", 390, 90, 40, 20)

		g, err := NewBuilder(DefaultOptions()).Assemble(
			[]*graph.Node{pump, inst}, []*graph.Edge{l1, l2}, []*graph.Text{t1, t2})
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		return g
	}

	if a, b := build(), build(); !reflect.DeepEqual(a, b) {
		t.Error("two assemblies of identical input differ")
	}
}
