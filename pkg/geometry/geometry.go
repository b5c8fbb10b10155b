// Package geometry provides the 2D primitives shared by the assembly
// engine: points, axis-aligned bounding boxes, and a deterministic
// nearest-candidate lookup.
package geometry

import "math"

// Point is a 2D point in image pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BoundingBox is an axis-aligned rectangle in image pixel coordinates.
// W and H must be non-negative; a zero-size box is valid and marks a
// single point (used for synthesized junctions).
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NewBoundingBox creates a bounding box from its top-left corner and size.
func NewBoundingBox(x, y, w, h float64) BoundingBox {
	return BoundingBox{X: x, Y: y, W: w, H: h}
}

// PointBox returns a zero-size bounding box at the given point.
func PointBox(p Point) BoundingBox {
	return BoundingBox{X: p.X, Y: p.Y}
}

// Valid reports whether the box has non-negative dimensions.
func (b BoundingBox) Valid() bool {
	return b.W >= 0 && b.H >= 0
}

// Center returns the center point of the box.
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W &&
		p.Y >= b.Y && p.Y <= b.Y+b.H
}

// CenterDistance returns the Euclidean distance between box centers.
func (b BoundingBox) CenterDistance(other BoundingBox) float64 {
	return b.Center().Distance(other.Center())
}
