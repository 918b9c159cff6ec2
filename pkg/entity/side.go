package entity

import "github.com/matzehuels/setgrid/pkg/geom"

// Side identifies one of the four boundary orientations of an entity.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// AllSides lists the sides in the order boundaries are registered and walked.
var AllSides = [4]Side{Top, Right, Bottom, Left}

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	return (s + 2) % 4
}

// Horizontal reports whether intervals on this side run along the x axis.
func (s Side) Horizontal() bool {
	return s == Top || s == Bottom
}

// Outward is the unit step, along the fixed axis, from a boundary cell to the
// cell just outside the entity.
func (s Side) Outward() int {
	if s == Top || s == Left {
		return -1
	}
	return 1
}

// Cell maps a (running, fixed) coordinate pair on this side to a grid cell.
func (s Side) Cell(along, fixed int) geom.Point {
	if s.Horizontal() {
		return geom.Pt(along, fixed)
	}
	return geom.Pt(fixed, along)
}
