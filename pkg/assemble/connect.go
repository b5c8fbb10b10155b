package assemble

import (
	"fmt"

	"github.com/oxbow-labs/diagraph/pkg/geometry"
	"github.com/oxbow-labs/diagraph/pkg/graph"
)

// connectEndpoints resolves every edge endpoint to a node. An endpoint
// with no node center within ConnectRadius gets a junction synthesized
// at its exact coordinate, so after this pass only degenerate
// (zero-length) edges keep unresolved endpoints — those are left for
// the validator to flag.
//
// Synthesized junctions join the candidate pool immediately: when two
// lines end at the same bare intersection, the second line connects to
// the junction created for the first.
func (b *Builder) connectEndpoints(g *graph.Graph) {
	nextJunction := 0

	for _, e := range g.Edges {
		if e.Degenerate() {
			continue
		}

		e.From = b.resolveEndpoint(g, e.Start(), "", &nextJunction)
		// The far end never reuses the near end's node: a line from a
		// node back to itself is noise from the line detector, not
		// plumbing. A junction is synthesized instead.
		e.To = b.resolveEndpoint(g, e.End(), e.From, &nextJunction)
	}
}

// resolveEndpoint finds the nearest eligible node for the point or
// synthesizes a junction there. exclude names a node id that must not
// be chosen (the edge's other endpoint).
func (b *Builder) resolveEndpoint(g *graph.Graph, at geometry.Point, exclude string, nextJunction *int) string {
	candidates := make([]geometry.Candidate, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == exclude {
			continue
		}
		candidates = append(candidates, geometry.Candidate{ID: n.ID, Center: n.BBox.Center()})
	}

	if c, ok := geometry.NearestWithin(at, candidates, b.opts.ConnectRadius); ok {
		return c.ID
	}

	j := graph.NewJunction(fmt.Sprintf("jct_%d", *nextJunction), at)
	*nextJunction++
	g.Nodes = append(g.Nodes, j)
	return j.ID
}
