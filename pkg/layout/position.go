package layout

import (
	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
)

// =============================================================================
// Pixel Positioning
// =============================================================================

// cornerRule selects the interval on a perpendicular side that shares a
// corner with an interval. c is the candidate, iv the interval whose end is
// being resolved.
type cornerRule struct {
	side  entity.Side
	match func(c, iv *entity.Interval) bool
}

// corners lists, per side, the rules for the start corner and the end
// corner. The first rule that finds an interval wins.
var corners = map[entity.Side][2][2]cornerRule{
	entity.Top: {
		{
			{entity.Left, func(c, iv *entity.Interval) bool { return c.Other == iv.Start && c.Start == iv.Other }},
			{entity.Right, func(c, iv *entity.Interval) bool { return c.Other+1 == iv.Start && c.End+1 == iv.Other }},
		},
		{
			{entity.Left, func(c, iv *entity.Interval) bool { return c.Other-1 == iv.End && c.End+1 == iv.Other }},
			{entity.Right, func(c, iv *entity.Interval) bool { return c.Other == iv.End && c.Start == iv.Other }},
		},
	},
	entity.Right: {
		{
			{entity.Top, func(c, iv *entity.Interval) bool { return c.Other == iv.Start && c.End == iv.Other }},
			{entity.Bottom, func(c, iv *entity.Interval) bool { return c.Other+1 == iv.Start && c.Start-1 == iv.Other }},
		},
		{
			{entity.Top, func(c, iv *entity.Interval) bool { return c.Other-1 == iv.End && c.Start-1 == iv.Other }},
			{entity.Bottom, func(c, iv *entity.Interval) bool { return c.Other == iv.End && c.End == iv.Other }},
		},
	},
	entity.Bottom: {
		{
			{entity.Left, func(c, iv *entity.Interval) bool { return c.Other == iv.Start && c.End == iv.Other }},
			{entity.Right, func(c, iv *entity.Interval) bool { return c.Other+1 == iv.Start && c.Start-1 == iv.Other }},
		},
		{
			{entity.Left, func(c, iv *entity.Interval) bool { return c.Other-1 == iv.End && c.Start-1 == iv.Other }},
			{entity.Right, func(c, iv *entity.Interval) bool { return c.Other == iv.End && c.End == iv.Other }},
		},
	},
	entity.Left: {
		{
			{entity.Top, func(c, iv *entity.Interval) bool { return c.Other == iv.Start && c.Start == iv.Other }},
			{entity.Bottom, func(c, iv *entity.Interval) bool { return c.Other+1 == iv.Start && c.End+1 == iv.Other }},
		},
		{
			{entity.Top, func(c, iv *entity.Interval) bool { return c.Other-1 == iv.End && c.End+1 == iv.Other }},
			{entity.Bottom, func(c, iv *entity.Interval) bool { return c.Other == iv.End && c.Start == iv.Other }},
		},
	},
}

// edge is a directed polygon side in pixel space.
type edge struct {
	from, to geom.Point
}

func (c *Context) positionAll() error {
	for _, e := range c.Entities {
		if err := c.position(e); err != nil {
			return err
		}
	}
	return nil
}

// position computes pixel coordinates for every interval of e and rebuilds
// its ring.
func (c *Context) position(e *entity.Entity) error {
	all := e.Intervals.All()
	for _, iv := range all {
		iv.OtherPx = c.otherPixel(iv)
	}

	edges := make([]edge, 0, len(all))
	for _, iv := range all {
		start, err := findCorner(e, iv, 0)
		if err != nil {
			return err
		}
		end, err := findCorner(e, iv, 1)
		if err != nil {
			return err
		}
		iv.StartPx, iv.EndPx = start.OtherPx, end.OtherPx

		var a, b geom.Point
		switch iv.Side {
		case entity.Top:
			a, b = geom.Pt(iv.StartPx, iv.OtherPx), geom.Pt(iv.EndPx, iv.OtherPx)
		case entity.Right:
			a, b = geom.Pt(iv.OtherPx, iv.StartPx), geom.Pt(iv.OtherPx, iv.EndPx)
		case entity.Bottom:
			a, b = geom.Pt(iv.EndPx, iv.OtherPx), geom.Pt(iv.StartPx, iv.OtherPx)
		case entity.Left:
			a, b = geom.Pt(iv.OtherPx, iv.EndPx), geom.Pt(iv.OtherPx, iv.StartPx)
		}
		edges = append(edges, edge{from: a, to: b})
	}

	ring, err := walkRing(edges)
	if err != nil {
		return errors.Wrap(errors.ErrCodeGeometry, err, "entity %q", e.Name)
	}
	e.Ring = ring
	return nil
}

func findCorner(e *entity.Entity, iv *entity.Interval, end int) (*entity.Interval, error) {
	for _, rule := range corners[iv.Side][end] {
		for _, cand := range e.Intervals.Get(rule.side) {
			if rule.match(cand, iv) {
				return cand, nil
			}
		}
	}
	which := "start"
	if end == 1 {
		which = "end"
	}
	return nil, errors.New(errors.ErrCodeGeometry, "entity %q: no corner at the %s of %s interval %d..%d@%d",
		e.Name, which, iv.Side, iv.Start, iv.End, iv.Other)
}

// otherPixel places an interval's fixed coordinate: the edge of its cell
// moved out into the adjoining gap by its margin.
func (c *Context) otherPixel(iv *entity.Interval) int {
	bcs, cw := c.cfg.CellSize, c.cfg.CellWidth
	o, m := iv.Other, iv.Margin
	switch iv.Side {
	case entity.Top:
		return bcs*sum(c.Heights[:o]) + bcs*sum(c.RowGaps[:o+1]) - bcs*m
	case entity.Right:
		return (o+1)*bcs*cw + bcs*sum(c.ColGaps[:o+1]) + bcs*m
	case entity.Bottom:
		return bcs*sum(c.Heights[:o+1]) + bcs*sum(c.RowGaps[:o+1]) + bcs*m
	default:
		return o*bcs*cw + bcs*sum(c.ColGaps[:o+1]) - bcs*m
	}
}

// positionStatements places every statement rectangle in its cell.
func (c *Context) positionStatements() {
	bcs, cw := c.cfg.CellSize, c.cfg.CellWidth
	for _, s := range c.Statements {
		x := s.X*bcs*cw + bcs*sum(c.ColGaps[:s.X+1])
		y := bcs*sum(c.Heights[:s.Y]) + bcs*sum(c.RowGaps[:s.Y+1])
		s.Rect = geom.R(x, y, cw*bcs, c.Heights[s.Y]*bcs)
	}
}
