package assemble

import "github.com/oxbow-labs/diagraph/pkg/graph"

// mergeJunctions coalesces synthesized junctions that lie within
// MergeRadius of each other. The earliest junction survives; edge
// endpoints referencing a merged junction are rewritten to the
// survivor, and a tag on a merged junction moves to the survivor if
// the survivor has none. Detected symbol nodes are never merged.
func (b *Builder) mergeJunctions(g *graph.Graph) {
	remap := make(map[string]string)
	var survivors []*graph.Node

	for _, n := range g.Nodes {
		if n.Kind != graph.KindJunction {
			continue
		}
		merged := false
		for _, s := range survivors {
			if n.BBox.Center().Distance(s.BBox.Center()) <= b.opts.MergeRadius {
				remap[n.ID] = s.ID
				if s.Tag == "" && n.Tag != "" {
					s.Tag = n.Tag
					s.ParsedTag = n.ParsedTag
				}
				merged = true
				break
			}
		}
		if !merged {
			survivors = append(survivors, n)
		}
	}

	if len(remap) == 0 {
		return
	}

	kept := g.Nodes[:0]
	for _, n := range g.Nodes {
		if _, gone := remap[n.ID]; !gone {
			kept = append(kept, n)
		}
	}
	g.Nodes = kept

	for _, e := range g.Edges {
		if to, ok := remap[e.From]; ok {
			e.From = to
		}
		if to, ok := remap[e.To]; ok {
			e.To = to
		}
	}
}
