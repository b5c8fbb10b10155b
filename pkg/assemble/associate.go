package assemble

import (
	"sort"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/graph"
	"github.com/oxbow-labs/diagraph/pkg/tagparse"
)

// assignment is one candidate text-to-target association.
type assignment struct {
	textIdx int
	dist    float64
	node    *graph.Node // exactly one of node/edge is set
	edge    *graph.Edge
}

// associateTexts assigns each text span to its nearest target: the
// closer of the nearest node center and the nearest edge midpoint,
// both within TagRadius. Assignments apply closest-first, so when two
// texts compete for one target the closer text wins regardless of
// input order, and the farther text stays unassociated. A successful
// assignment immediately runs the tag parser; unparsable tags stay raw.
//
// Association never fails: a text with no target within radius simply
// remains unattached in the graph.
func (b *Builder) associateTexts(g *graph.Graph) {
	nodeCands := make([]geometry.Candidate, len(g.Nodes))
	for i, n := range g.Nodes {
		nodeCands[i] = geometry.Candidate{ID: n.ID, Center: n.BBox.Center()}
	}
	edgeCands := make([]geometry.Candidate, len(g.Edges))
	for i, e := range g.Edges {
		edgeCands[i] = geometry.Candidate{ID: e.ID, Center: geometry.PolylineMidpoint(e.Polyline)}
	}

	assignments := make([]assignment, 0, len(g.Texts))
	for i, txt := range g.Texts {
		center := txt.BBox.Center()
		nc, nodeOK := geometry.NearestWithin(center, nodeCands, b.opts.TagRadius)
		ec, edgeOK := geometry.NearestWithin(center, edgeCands, b.opts.TagRadius)

		switch {
		case !nodeOK && !edgeOK:
			continue
		case nodeOK && (!edgeOK || center.Distance(nc.Center) <= center.Distance(ec.Center)):
			// Node wins ties: symbols are the primary tag carriers.
			assignments = append(assignments, assignment{
				textIdx: i,
				dist:    center.Distance(nc.Center),
				node:    g.NodeByID(nc.ID),
			})
		default:
			assignments = append(assignments, assignment{
				textIdx: i,
				dist:    center.Distance(ec.Center),
				edge:    g.EdgeByID(ec.ID),
			})
		}
	}

	// Closest association wins. Ties resolve by text insertion order so
	// the result is fully determined by the input.
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].dist != assignments[j].dist {
			return assignments[i].dist < assignments[j].dist
		}
		return assignments[i].textIdx < assignments[j].textIdx
	})

	for _, a := range assignments {
		content := g.Texts[a.textIdx].Content
		if a.node != nil {
			if a.node.Tag != "" {
				continue // a closer text already claimed this node
			}
			a.node.Tag = content
			a.node.ParsedTag = tagparse.Parse(content)
		} else {
			if a.edge.Tag != "" {
				continue
			}
			a.edge.Tag = content
			a.edge.ParsedTag = tagparse.Parse(content)
		}
	}
}
