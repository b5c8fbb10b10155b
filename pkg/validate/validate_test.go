package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/graph"
	"github.com/oxbow-labs/diagraph/pkg/tagparse"
)

func node(id string, kind graph.NodeKind, typ, tag string, conf float64) *graph.Node {
	n := &graph.Node{
		ID: id, Kind: kind, Type: typ, Tag: tag, Confidence: conf,
		BBox: geometry.NewBoundingBox(0, 0, 10, 10),
	}
	if tag != "" {
		n.ParsedTag = tagparse.Parse(tag)
	}
	return n
}

func edge(id string, kind graph.EdgeKind, from, to, tag string, conf float64) *graph.Edge {
	return &graph.Edge{
		ID: id, Kind: kind, From: from, To: to, Tag: tag, Confidence: conf,
		Direction: graph.DirectionUnknown,
		Polyline:  []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
	}
}

func countBySeverity(issues []*graph.Issue) map[graph.Severity]int {
	counts := make(map[graph.Severity]int)
	for _, i := range issues {
		counts[i.Severity]++
	}
	return counts
}

func TestValidateCleanGraph(t *testing.T) {
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("symbol_0", graph.KindEquipment, "pump", "P-101", 0.9),
			node("jct_0", graph.KindJunction, "", "", 1.0),
		},
		Edges: []*graph.Edge{
			edge("line_0", graph.EdgeProcess, "symbol_0", "jct_0", "CW-12", 1.0),
		},
	}
	issues := Validate(g, DefaultOptions())
	if len(issues) != 0 {
		t.Errorf("clean graph produced %d issues: %+v", len(issues), issues[0])
	}
}

func TestValidateUnknownSymbol(t *testing.T) {
	g := &graph.Graph{Nodes: []*graph.Node{
		node("symbol_0", graph.KindEquipment, "flux_capacitor", "FC-1", 0.9),
	}}
	issues := Validate(g, DefaultOptions())
	if len(issues) != 1 || issues[0].Severity != graph.SeverityWarning {
		t.Fatalf("issues = %+v", issues)
	}
	if !strings.Contains(issues[0].Message, "flux_capacitor") {
		t.Errorf("message %q does not name the type", issues[0].Message)
	}
	if issues[0].TargetID != "symbol_0" {
		t.Errorf("TargetID = %q", issues[0].TargetID)
	}
}

func TestValidateLowConfidence(t *testing.T) {
	g := &graph.Graph{
		Nodes: []*graph.Node{node("symbol_0", graph.KindEquipment, "pump", "P-1", 0.3)},
		Edges: []*graph.Edge{edge("line_0", graph.EdgeSignal, "symbol_0", "symbol_0", "", 0.2)},
	}
	issues := Validate(g, DefaultOptions())
	counts := countBySeverity(issues)
	if counts[graph.SeverityInfo] != 2 {
		t.Errorf("want 2 info issues (node + edge), got %+v", counts)
	}
}

// Junctions are synthetic: they carry no tag and no type, and must not
// trip the vocabulary or labeling rules.
func TestValidateJunctionsExempt(t *testing.T) {
	g := &graph.Graph{Nodes: []*graph.Node{node("jct_0", graph.KindJunction, "", "", 1.0)}}
	if issues := Validate(g, DefaultOptions()); len(issues) != 0 {
		t.Errorf("junction produced issues: %+v", issues)
	}
}

func TestValidateUnlabeledEquipment(t *testing.T) {
	g := &graph.Graph{Nodes: []*graph.Node{
		node("symbol_0", graph.KindEquipment, "pump", "", 0.9),
	}}
	issues := Validate(g, DefaultOptions())
	if len(issues) != 1 || issues[0].Severity != graph.SeverityWarning {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestValidateDanglingEdge(t *testing.T) {
	g := &graph.Graph{Edges: []*graph.Edge{
		edge("line_0", graph.EdgeSignal, "", "", "SIG-1", 1.0),
	}}
	issues := Validate(g, DefaultOptions())
	if len(issues) != 1 || issues[0].Severity != graph.SeverityError {
		t.Fatalf("issues = %+v", issues)
	}
}

// An instrument tagged with free text gets a low-severity finding; the
// same tag on equipment does not, since only instruments are expected
// to carry loop tags.
func TestValidateUnparsedTag(t *testing.T) {
	inst := node("symbol_0", graph.KindInstrument, "controller", "SEE NOTE 3", 0.9)
	equip := node("symbol_1", graph.KindEquipment, "pump", "P-101", 0.9)
	g := &graph.Graph{Nodes: []*graph.Node{inst, equip}}

	issues := Validate(g, DefaultOptions())
	if len(issues) != 1 {
		t.Fatalf("issues = %+v", issues)
	}
	if issues[0].Severity != graph.SeverityInfo || issues[0].TargetID != "symbol_0" {
		t.Errorf("issue = %+v", issues[0])
	}
}

func TestValidateUnlabeledProcessLine(t *testing.T) {
	g := &graph.Graph{Edges: []*graph.Edge{
		edge("line_0", graph.EdgeProcess, "a", "b", "", 1.0),
		edge("line_1", graph.EdgeSignal, "a", "b", "", 1.0), // signal lines exempt
	}}
	issues := Validate(g, DefaultOptions())
	if len(issues) != 1 || issues[0].TargetID != "line_0" {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestValidateIdempotent(t *testing.T) {
	g := &graph.Graph{
		Nodes: []*graph.Node{
			node("symbol_0", graph.KindEquipment, "mystery", "", 0.2),
			node("symbol_1", graph.KindInstrument, "controller", "NOTES", 0.9),
		},
		Edges: []*graph.Edge{
			edge("line_0", graph.EdgeProcess, "", "", "", 0.1),
		},
	}
	first := Validate(g, DefaultOptions())
	second := Validate(g, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated validation of an unchanged graph differs")
	}
	if len(first) == 0 {
		t.Fatal("expected issues from the dirty graph")
	}
	for i, issue := range first {
		if issue.ID != first[i].ID || issue.Message == "" {
			t.Errorf("issue %d malformed: %+v", i, issue)
		}
	}
}

func TestValidateConfigurableFloor(t *testing.T) {
	opts := DefaultOptions()
	opts.ConfidenceFloor = 0.95
	g := &graph.Graph{Nodes: []*graph.Node{
		node("symbol_0", graph.KindEquipment, "pump", "P-1", 0.9),
	}}
	issues := Validate(g, opts)
	if countBySeverity(issues)[graph.SeverityInfo] != 1 {
		t.Errorf("raised floor should flag 0.9 confidence, got %+v", issues)
	}
}
