package geometry

// Candidate is an (id, center) pair offered to a nearest-neighbor query.
type Candidate struct {
	ID     string
	Center Point
}

// NearestWithin returns the candidate whose center is closest to the
// query point, provided the distance does not exceed maxDist. Ties are
// broken by input order: the earliest candidate at the winning distance
// is kept, so results are deterministic for a fixed input sequence.
//
// The candidate sets in this domain are small (hundreds of detections
// per diagram), so a linear scan is deliberate. Callers hold no
// reference into the slice after the call, leaving room for an indexed
// implementation behind the same contract.
func NearestWithin(p Point, candidates []Candidate, maxDist float64) (Candidate, bool) {
	best := -1
	bestDist := 0.0
	for i, c := range candidates {
		d := p.Distance(c.Center)
		if d > maxDist {
			continue
		}
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == -1 {
		return Candidate{}, false
	}
	return candidates[best], true
}

// PolylineMidpoint returns the point halfway along the total arc length
// of the polyline. For a two-point segment this is the segment midpoint.
// The polyline must have at least one point; a single point is returned
// unchanged.
func PolylineMidpoint(points []Point) Point {
	if len(points) == 1 {
		return points[0]
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	if total == 0 {
		return points[0]
	}
	remaining := total / 2
	for i := 1; i < len(points); i++ {
		seg := points[i-1].Distance(points[i])
		if seg >= remaining {
			t := remaining / seg
			return Point{
				X: points[i-1].X + t*(points[i].X-points[i-1].X),
				Y: points[i-1].Y + t*(points[i].Y-points[i-1].Y),
			}
		}
		remaining -= seg
	}
	return points[len(points)-1]
}
