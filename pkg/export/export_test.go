package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/graph"
	"github.com/oxbow-labs/diagraph/pkg/tagparse"
)

func sampleGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []*graph.Node{
			{
				ID: "symbol_0", Kind: graph.KindEquipment, Type: "pump",
				BBox: geometry.NewBoundingBox(150, 200, 50, 50), Confidence: 0.92, Tag: "P-101",
			},
			{
				ID: "symbol_1", Kind: graph.KindInstrument, Type: "controller",
				BBox: geometry.NewBoundingBox(400, 200, 40, 40), Confidence: 0.85,
				Tag: "FIC-101", ParsedTag: tagparse.Parse("FIC-101"),
			},
			{
				ID: "jct_0", Kind: graph.KindJunction,
				BBox: geometry.PointBox(geometry.Point{X: 600, Y: 225}), Confidence: 1.0,
			},
		},
		Edges: []*graph.Edge{
			{
				ID: "line_0", Kind: graph.EdgeProcess, Direction: graph.DirectionUnknown,
				Polyline: []geometry.Point{{X: 200, Y: 225}, {X: 400, Y: 225}},
				From:     "symbol_0", To: "symbol_1", Tag: "CW-12", Confidence: 1.0,
			},
			{
				ID: "line_1", Kind: graph.EdgeSignal, Direction: graph.DirectionUnknown,
				Polyline: []geometry.Point{{X: 440, Y: 225}, {X: 600, Y: 225}},
				From:     "symbol_1", To: "jct_0", Confidence: 1.0,
			},
		},
		Texts: []*graph.Text{
			{ID: "text_0", Content: "P-101", BBox: geometry.NewBoundingBox(140, 170, 40, 20), Confidence: 0.8},
		},
		Issues: []*graph.Issue{
			{ID: "issue_0", Severity: graph.SeverityWarning, Message: "process line \"line_0\" has no label", TargetID: "line_0"},
		},
	}
}

// Every node id lands in exactly one collection, and every connection's
// node references exist in the exported node collections.
func TestFromGraphCompleteness(t *testing.T) {
	doc := FromGraph(sampleGraph())

	ids := make(map[string]int)
	for _, r := range doc.Equipment {
		ids[r.ID]++
	}
	for _, r := range doc.Instruments {
		ids[r.ID]++
	}
	for _, r := range doc.Junctions {
		ids[r.ID]++
	}
	require.Len(t, ids, 3)
	for id, n := range ids {
		assert.Equalf(t, 1, n, "node %s appears %d times", id, n)
	}

	require.Len(t, doc.Lines, 2)
	require.Len(t, doc.Connections, 2)
	for _, c := range doc.Connections {
		assert.Contains(t, ids, c.FromNode)
		assert.Contains(t, ids, c.ToNode)
	}

	require.Len(t, doc.Texts, 1)
	require.Len(t, doc.Issues, 1)
}

func TestFromGraphClassRefs(t *testing.T) {
	doc := FromGraph(sampleGraph())
	assert.Equal(t, "placeholder/pump", doc.Equipment[0].ClassRef)
	assert.Equal(t, "placeholder/controller", doc.Instruments[0].ClassRef)
	assert.Equal(t, "placeholder/process_line", doc.Lines[0].ClassRef)
	assert.Equal(t, "placeholder/signal_line", doc.Lines[1].ClassRef)
}

func TestFromGraphDanglingEdgeHasNoConnection(t *testing.T) {
	g := &graph.Graph{Edges: []*graph.Edge{{
		ID: "line_0", Kind: graph.EdgeProcess, Direction: graph.DirectionUnknown,
		Polyline:   []geometry.Point{{X: 5, Y: 5}, {X: 5, Y: 5}},
		Confidence: 1.0,
	}}}
	doc := FromGraph(g)
	assert.Len(t, doc.Lines, 1)
	assert.Empty(t, doc.Connections)
}

// A graph whose edge names a node that does not exist violates the
// assembly contract; export must fail loudly, not emit broken topology.
func TestFromGraphPanicsOnUnknownNodeRef(t *testing.T) {
	g := &graph.Graph{Edges: []*graph.Edge{{
		ID: "line_0", Kind: graph.EdgeProcess, Direction: graph.DirectionUnknown,
		Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
		From:     "ghost", To: "ghost",
	}}}
	assert.Panics(t, func() { FromGraph(g) })
}

func TestJSONDeterministic(t *testing.T) {
	a, err := JSON(FromGraph(sampleGraph()))
	require.NoError(t, err)
	b, err := JSON(FromGraph(sampleGraph()))
	require.NoError(t, err)
	assert.Equal(t, a, b, "repeated export must be byte-identical")
	assert.Contains(t, string(a), `"from_node": "symbol_0"`)
}

func TestTables(t *testing.T) {
	tables, err := Tables(FromGraph(sampleGraph()))
	require.NoError(t, err)
	require.Contains(t, tables, "nodes.csv")
	require.Contains(t, tables, "edges.csv")
	require.Contains(t, tables, "issues.csv")

	nodes := parseCSV(t, tables["nodes.csv"])
	require.Len(t, nodes, 4) // header + 3 nodes
	assert.Equal(t, []string{"id", "kind", "type", "tag", "confidence", "bbox_x", "bbox_y", "bbox_w", "bbox_h"}, nodes[0])
	assert.Equal(t, []string{"symbol_0", "equipment", "pump", "P-101", "0.92", "150", "200", "50", "50"}, nodes[1])
	assert.Equal(t, "junction", nodes[3][1])

	edges := parseCSV(t, tables["edges.csv"])
	require.Len(t, edges, 3)
	assert.Equal(t, []string{"line_0", "process", "unknown", "CW-12", "symbol_0", "symbol_1"}, edges[1])

	issues := parseCSV(t, tables["issues.csv"])
	require.Len(t, issues, 2)
	assert.Equal(t, "warning", issues[1][1])
}

func TestZipBundle(t *testing.T) {
	data, err := ZipBundle(FromGraph(sampleGraph()))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.NotEmpty(t, content)
	}
	assert.Equal(t, []string{"nodes.csv", "edges.csv", "issues.csv"}, names)

	again, err := ZipBundle(FromGraph(sampleGraph()))
	require.NoError(t, err)
	assert.Equal(t, data, again, "zip bundle must be byte-stable")
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}
