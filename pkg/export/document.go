// Package export renders an assembled graph into the DEXPI-lite
// interchange document and serializes it as nested JSON or as flat CSV
// tables. The document separates entity classes and splits each line
// into a geometry record and a connectivity record, so downstream tools
// can consume topology without parsing polylines.
package export

import (
	"fmt"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/graph"
	"github.com/oxbow-labs/diagraph/pkg/tagparse"
)

// EquipmentRecord describes one equipment or instrument node.
type EquipmentRecord struct {
	ID         string               `json:"id"`
	ClassRef   string               `json:"classRef"`
	BBox       geometry.BoundingBox `json:"bbox"`
	Tag        string               `json:"tag,omitempty"`
	ParsedTag  *tagparse.Tag        `json:"parsed_tag,omitempty"`
	Confidence float64              `json:"confidence"`
}

// JunctionRecord describes one synthesized junction.
type JunctionRecord struct {
	ID   string               `json:"id"`
	BBox geometry.BoundingBox `json:"bbox"`
}

// LineRecord is the geometry half of an edge.
type LineRecord struct {
	ID        string           `json:"id"`
	ClassRef  string           `json:"classRef"`
	Kind      graph.EdgeKind   `json:"kind"`
	Direction string           `json:"direction"`
	Tag       string           `json:"tag,omitempty"`
	Polyline  []geometry.Point `json:"polyline"`
}

// ConnectionRecord is the topology half of an edge. Both node
// references are guaranteed to exist in the document's node
// collections.
type ConnectionRecord struct {
	LineID   string `json:"line_id"`
	FromNode string `json:"from_node"`
	ToNode   string `json:"to_node"`
}

// TextRecord is an OCR span carried through for round-tripping.
type TextRecord struct {
	ID         string               `json:"id"`
	Content    string               `json:"content"`
	BBox       geometry.BoundingBox `json:"bbox"`
	Confidence float64              `json:"confidence"`
}

// Document is the normalized interchange representation of one graph.
type Document struct {
	Equipment   []EquipmentRecord  `json:"equipment"`
	Instruments []EquipmentRecord  `json:"instruments"`
	Junctions   []JunctionRecord   `json:"junctions"`
	Lines       []LineRecord       `json:"lines"`
	Connections []ConnectionRecord `json:"connections"`
	Texts       []TextRecord       `json:"texts"`
	Issues      []*graph.Issue     `json:"issues"`
}

// FromGraph builds the interchange document. It is pure and total over
// well-formed graphs: every node partitions into exactly one
// collection and every edge yields one line record plus, when both
// endpoints are resolved, one connection record.
//
// An edge endpoint naming a node id that is not in the graph means a
// core invariant was broken upstream; FromGraph panics rather than
// emit silently wrong topology.
func FromGraph(g *graph.Graph) *Document {
	doc := &Document{
		Equipment:   []EquipmentRecord{},
		Instruments: []EquipmentRecord{},
		Junctions:   []JunctionRecord{},
		Lines:       []LineRecord{},
		Connections: []ConnectionRecord{},
		Texts:       []TextRecord{},
		Issues:      []*graph.Issue{},
	}

	nodeIDs := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeIDs[n.ID] = struct{}{}
		switch n.Kind {
		case graph.KindEquipment:
			doc.Equipment = append(doc.Equipment, nodeRecord(n))
		case graph.KindInstrument:
			doc.Instruments = append(doc.Instruments, nodeRecord(n))
		case graph.KindJunction:
			doc.Junctions = append(doc.Junctions, JunctionRecord{ID: n.ID, BBox: n.BBox})
		default:
			panic(fmt.Sprintf("export: node %q has impossible kind %q", n.ID, n.Kind))
		}
	}

	for _, e := range g.Edges {
		doc.Lines = append(doc.Lines, LineRecord{
			ID:        e.ID,
			ClassRef:  "placeholder/" + string(e.Kind) + "_line",
			Kind:      e.Kind,
			Direction: e.Direction,
			Tag:       e.Tag,
			Polyline:  e.Polyline,
		})

		if e.From == "" && e.To == "" {
			continue // dangling edge, flagged by validation
		}
		for _, ref := range []string{e.From, e.To} {
			if ref == "" {
				continue
			}
			if _, ok := nodeIDs[ref]; !ok {
				panic(fmt.Sprintf("export: edge %q references unknown node %q (graph invariant broken)", e.ID, ref))
			}
		}
		if e.From != "" && e.To != "" {
			doc.Connections = append(doc.Connections, ConnectionRecord{
				LineID:   e.ID,
				FromNode: e.From,
				ToNode:   e.To,
			})
		}
	}

	for _, t := range g.Texts {
		doc.Texts = append(doc.Texts, TextRecord{
			ID: t.ID, Content: t.Content, BBox: t.BBox, Confidence: t.Confidence,
		})
	}
	doc.Issues = append(doc.Issues, g.Issues...)

	return doc
}

func nodeRecord(n *graph.Node) EquipmentRecord {
	return EquipmentRecord{
		ID:         n.ID,
		ClassRef:   "placeholder/" + n.Type,
		BBox:       n.BBox,
		Tag:        n.Tag,
		ParsedTag:  n.ParsedTag,
		Confidence: n.Confidence,
	}
}
