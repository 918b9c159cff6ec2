package entity

import (
	"cmp"
	"slices"

	"github.com/matzehuels/setgrid/pkg/errors"
)

// Interval is a maximal straight run of an entity's boundary on one side.
//
// Start and End are inclusive cell indexes along the running axis (x for
// top/bottom, y for left/right); Other is the fixed row or column. The
// pixel fields are filled by the position engine.
type Interval struct {
	Start, End int
	Other      int
	Side       Side

	// Margin is the distance, in background cells, from the cell edge out
	// into the adjoining gap. It is at least 1.
	Margin int

	// TopLeft marks the first top interval, which reserves space for headers.
	TopLeft bool

	StartPx, EndPx, OtherPx int

	owner *Entity
}

// Owner returns the entity this interval bounds.
func (iv *Interval) Owner() *Entity { return iv.owner }

// Len returns End-Start; a single-cell interval has length 0.
func (iv *Interval) Len() int { return iv.End - iv.Start }

func (iv *Interval) singleton() bool {
	return iv.owner != nil && iv.owner.Singleton
}

// aligned reports whether the two intervals lie on the same or opposite sides.
func (iv *Interval) aligned(o *Interval) bool {
	return iv.Side == o.Side || iv.Side.Opposite() == o.Side
}

// Overlaps reports whether two intervals on parallel sides share at least
// one grid position along the running axis. Singleton owners never overlap.
func (iv *Interval) Overlaps(o *Interval) bool {
	if iv.singleton() || o.singleton() || !iv.aligned(o) {
		return false
	}
	return iv.Start <= o.End && iv.End >= o.Start
}

// PixelOverlaps is Overlaps evaluated on positioned pixel ranges. Ranges
// that merely touch count only when CornerOverlaps holds.
func (iv *Interval) PixelOverlaps(o *Interval) bool {
	if iv.singleton() || o.singleton() || !iv.aligned(o) {
		return false
	}
	return (iv.StartPx < o.EndPx && iv.EndPx > o.StartPx) || iv.CornerOverlaps(o)
}

// CornerOverlaps detects opposite-side intervals whose pixel ranges touch
// end to start at a point where each owner's cells straddle the other's
// boundary, so the two outlines would share a corner.
func (iv *Interval) CornerOverlaps(o *Interval) bool {
	if iv.owner == nil || o.owner == nil || o.Side != iv.Side.Opposite() {
		return false
	}

	startTouches := iv.StartPx == o.EndPx
	endTouches := iv.EndPx == o.StartPx
	if !startTouches && !endTouches {
		return false
	}

	thisPart, otherPart := iv.End, o.Start
	if startTouches {
		thisPart, otherPart = iv.Start, o.End
	}

	theirs, ours := o.owner.Cells, iv.owner.Cells
	return theirs.Has(iv.Side.Cell(thisPart, iv.Other)) &&
		theirs.Has(iv.Side.Cell(thisPart, iv.Other+iv.Side.Outward())) &&
		ours.Has(o.Side.Cell(otherPart, o.Other)) &&
		ours.Has(o.Side.Cell(otherPart, o.Other+o.Side.Outward()))
}

// Sides holds an entity's intervals per side, each sorted by Start.
type Sides struct {
	Top, Right, Bottom, Left []*Interval
}

// Get returns the intervals on one side.
func (s *Sides) Get(side Side) []*Interval {
	switch side {
	case Top:
		return s.Top
	case Right:
		return s.Right
	case Bottom:
		return s.Bottom
	default:
		return s.Left
	}
}

// All returns every interval, side by side in top, right, bottom, left order.
func (s *Sides) All() []*Interval {
	all := make([]*Interval, 0, s.Count())
	for _, side := range AllSides {
		all = append(all, s.Get(side)...)
	}
	return all
}

// Count returns the total number of intervals.
func (s *Sides) Count() int {
	return len(s.Top) + len(s.Right) + len(s.Bottom) + len(s.Left)
}

// buildIntervals computes the boundary intervals of e's cell set.
func buildIntervals(e *Entity, headers bool) (Sides, error) {
	cells := e.Cells
	rows, cols := cells.RowKeys(), cells.ColKeys()

	sides := Sides{
		Top:    scanRuns(cells.Rows, rows, Top, e),
		Right:  scanRuns(cells.Cols, cols, Right, e),
		Bottom: scanRuns(cells.Rows, rows, Bottom, e),
		Left:   scanRuns(cells.Cols, cols, Left, e),
	}
	if len(sides.Top) == 0 {
		return Sides{}, errors.New(errors.ErrCodeGeometry, "entity %q has no top interval", e.Name)
	}

	// Rows are scanned in ascending order, so the first top run is the
	// top-left one.
	sides.Top[0].TopLeft = true
	if headers {
		sides.Top[0].Margin += 2
	}

	byStart := func(a, b *Interval) int { return cmp.Compare(a.Start, b.Start) }
	slices.SortStableFunc(sides.Top, byStart)
	slices.SortStableFunc(sides.Right, byStart)
	slices.SortStableFunc(sides.Bottom, byStart)
	slices.SortStableFunc(sides.Left, byStart)
	return sides, nil
}

// scanRuns walks each line (row or column) and emits one interval per
// maximal run of cells whose outward neighbour is empty. A run also closes
// where the outward neighbour of the next cell is occupied.
func scanRuns(lines map[int][]int, keys []int, side Side, owner *Entity) []*Interval {
	var out []*Interval
	d := side.Outward()
	cells := owner.Cells

	for _, fixed := range keys {
		run := lines[fixed]
		open, start := false, 0
		for i, v := range run {
			if !open && !cells.Has(side.Cell(v, fixed+d)) {
				open, start = true, v
			}
			if !open {
				continue
			}
			last := i == len(run)-1
			if last || run[i+1] != v+1 || cells.Has(side.Cell(run[i+1], fixed+d)) {
				out = append(out, &Interval{
					Start:  start,
					End:    v,
					Other:  fixed,
					Side:   side,
					Margin: 1,
					owner:  owner,
				})
				open = false
			}
		}
	}
	return out
}
