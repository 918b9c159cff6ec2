// Package geom provides integer grid points and the planar distance helpers
// used by the layout and color stages.
//
// Grid coordinates and pixel coordinates share the same [Point] type: every
// pixel offset produced by the layout engine is an integer multiple of the
// background cell size, so no floating point is needed until distances are
// measured.
package geom

import (
	"fmt"
	"math"
)

// Point is an integer (x, y) coordinate. It is comparable and can be used as
// a map key.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Rect is an axis-aligned rectangle with Min inclusive and Max exclusive.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// R builds a rectangle from its top-left corner and size.
func R(x, y, w, h int) Rect {
	return Rect{Min: Pt(x, y), Max: Pt(x+w, y+h)}
}

func (r Rect) Dx() int { return r.Max.X - r.Min.X }
func (r Rect) Dy() int { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() []Point {
	return []Point{r.Min, Pt(r.Max.X, r.Min.Y), r.Max, Pt(r.Min.X, r.Max.Y)}
}

// Segment is a straight line between two grid points.
type Segment struct {
	A, B Point
}

// Seg is shorthand for Segment{A: Pt(x1, y1), B: Pt(x2, y2)}.
func Seg(x1, y1, x2, y2 int) Segment {
	return Segment{A: Pt(x1, y1), B: Pt(x2, y2)}
}

// PointSegmentDistance returns the Euclidean distance from p to the closest
// point of s. A zero-length segment degrades to a point-to-point distance.
func PointSegmentDistance(p Point, s Segment) float64 {
	px, py := float64(p.X), float64(p.Y)
	x1, y1 := float64(s.A.X), float64(s.A.Y)
	dx, dy := float64(s.B.X-s.A.X), float64(s.B.Y-s.A.Y)

	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}

	t := ((px-x1)*dx + (py-y1)*dy) / lengthSq
	t = max(0, min(1, t))
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

// SegmentDistance returns the minimum endpoint-to-segment distance between
// s and t. For the axis-aligned, non-crossing segments produced by entity
// boundaries this equals the true segment-to-segment distance.
func SegmentDistance(s, t Segment) float64 {
	return min(
		PointSegmentDistance(s.A, t),
		PointSegmentDistance(s.B, t),
		PointSegmentDistance(t.A, s),
		PointSegmentDistance(t.B, s),
	)
}
