package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// JSON serializes the document as indented DEXPI-lite JSON.
func JSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal document: %w", err)
	}
	return data, nil
}

// Tables renders the flat tabular form: one CSV per entity kind, keyed
// by file name. It reads only the document, never the graph, so the
// two export shapes cannot diverge in content.
func Tables(doc *Document) (map[string][]byte, error) {
	nodes, err := nodesTable(doc)
	if err != nil {
		return nil, err
	}
	edges, err := edgesTable(doc)
	if err != nil {
		return nil, err
	}
	issues, err := issuesTable(doc)
	if err != nil {
		return nil, err
	}
	return map[string][]byte{
		"nodes.csv":  nodes,
		"edges.csv":  edges,
		"issues.csv": issues,
	}, nil
}

// ZipBundle packs the CSV tables into a single zip archive, the shape
// the export endpoint serves for spreadsheet consumers.
func ZipBundle(doc *Document) ([]byte, error) {
	tables, err := Tables(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// Fixed file order keeps the archive byte-stable across runs.
	for _, name := range []string{"nodes.csv", "edges.csv", "issues.csv"} {
		f, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("export: zip %s: %w", name, err)
		}
		if _, err := f.Write(tables[name]); err != nil {
			return nil, fmt.Errorf("export: zip %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("export: close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func nodesTable(doc *Document) ([]byte, error) {
	rows := [][]string{
		{"id", "kind", "type", "tag", "confidence", "bbox_x", "bbox_y", "bbox_w", "bbox_h"},
	}
	appendNode := func(kind string, r EquipmentRecord) {
		rows = append(rows, []string{
			r.ID, kind, classOf(r.ClassRef), r.Tag, formatFloat(r.Confidence),
			formatFloat(r.BBox.X), formatFloat(r.BBox.Y), formatFloat(r.BBox.W), formatFloat(r.BBox.H),
		})
	}
	for _, r := range doc.Equipment {
		appendNode("equipment", r)
	}
	for _, r := range doc.Instruments {
		appendNode("instrument", r)
	}
	for _, r := range doc.Junctions {
		rows = append(rows, []string{
			r.ID, "junction", "", "", "1",
			formatFloat(r.BBox.X), formatFloat(r.BBox.Y), formatFloat(r.BBox.W), formatFloat(r.BBox.H),
		})
	}
	return writeCSV(rows)
}

func edgesTable(doc *Document) ([]byte, error) {
	// Connectivity is joined back onto geometry by line id.
	byLine := make(map[string]ConnectionRecord, len(doc.Connections))
	for _, c := range doc.Connections {
		byLine[c.LineID] = c
	}

	rows := [][]string{
		{"id", "kind", "direction", "label", "from_node", "to_node"},
	}
	for _, l := range doc.Lines {
		conn := byLine[l.ID]
		rows = append(rows, []string{
			l.ID, string(l.Kind), l.Direction, l.Tag, conn.FromNode, conn.ToNode,
		})
	}
	return writeCSV(rows)
}

func issuesTable(doc *Document) ([]byte, error) {
	rows := [][]string{{"id", "severity", "message", "target_id"}}
	for _, i := range doc.Issues {
		rows = append(rows, []string{i.ID, string(i.Severity), i.Message, i.TargetID})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("export: write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// classOf strips the classRef mapping prefix back to the raw symbol
// class for the tabular view.
func classOf(classRef string) string {
	const prefix = "placeholder/"
	if len(classRef) >= len(prefix) && classRef[:len(prefix)] == prefix {
		return classRef[len(prefix):]
	}
	return classRef
}
