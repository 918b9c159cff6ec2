package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/setgrid/pkg/geom"
)

// Vec is a floating point position.
type Vec struct{ X, Y float64 }

// Corner is one rounded vertex: the outline runs straight to Start, arcs
// around Vertex and leaves from End.
type Corner struct {
	Start, Vertex, End Vec
	Radius             float64
	// Sweep is the SVG arc sweep flag.
	Sweep int
}

// RoundCorners replaces each vertex of the closed polygon pts by an arc of
// the given radius. The arc is shortened where an edge is too short to hold
// it. Fewer than three points yield nil.
func RoundCorners(pts []geom.Point, radius float64) []Corner {
	n := len(pts)
	if n < 3 {
		return nil
	}

	out := make([]Corner, n)
	for i := range n {
		prev, cur, next := vec(pts[(i-1+n)%n]), vec(pts[i]), vec(pts[(i+1)%n])

		v1x, v1y := cur.X-prev.X, cur.Y-prev.Y
		v2x, v2y := next.X-cur.X, next.Y-cur.Y
		len1, len2 := math.Hypot(v1x, v1y), math.Hypot(v2x, v2y)
		if len1 > 0 {
			v1x, v1y = v1x/len1, v1y/len1
		}
		if len2 > 0 {
			v2x, v2y = v2x/len2, v2y/len2
		}

		angle := math.Acos(max(-1, min(1, v1x*v2x+v1y*v2y)))
		offset := 0.0
		if t := math.Tan(angle / 2); t > 1e-9 {
			offset = min(radius/t, len1/2, len2/2)
		}

		sweep := 1
		if v1x*v2y-v1y*v2x < 0 {
			sweep = 0
		}
		out[i] = Corner{
			Start:  Vec{cur.X - v1x*offset, cur.Y - v1y*offset},
			Vertex: cur,
			End:    Vec{cur.X + v2x*offset, cur.Y + v2y*offset},
			Radius: radius,
			Sweep:  sweep,
		}
	}
	return out
}

// SVGPath returns path data for the rounded polygon.
func SVGPath(pts []geom.Point, radius float64) string {
	var b strings.Builder
	for i, c := range RoundCorners(pts, radius) {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s %s,%s ", cmd, Num(c.Start.X), Num(c.Start.Y))
		fmt.Fprintf(&b, "A %s,%s 0 0 %d %s,%s ", Num(c.Radius), Num(c.Radius), c.Sweep, Num(c.End.X), Num(c.End.Y))
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString("Z")
	return b.String()
}

// RectPoints returns the corners of r clockwise from the top-left.
func RectPoints(r geom.Rect) []geom.Point {
	return []geom.Point{r.Min, geom.Pt(r.Max.X, r.Min.Y), r.Max, geom.Pt(r.Min.X, r.Max.Y)}
}

// Offset moves every point by (dx, dy).
func Offset(pts []geom.Point, dx, dy int) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(geom.Pt(dx, dy))
	}
	return out
}

// Num formats v with at most two decimals and no trailing zeros.
func Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func vec(p geom.Point) Vec { return Vec{float64(p.X), float64(p.Y)} }
