package entity

import (
	"maps"
	"slices"

	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
)

// CellSet is the set of grid cells an entity occupies, indexed for O(1)
// membership and for row and column scans.
type CellSet struct {
	cells map[geom.Point]struct{}

	// Rows maps a row index to the sorted x coordinates occupied in it.
	Rows map[int][]int
	// Cols maps a column index to the sorted y coordinates occupied in it.
	Cols map[int][]int
}

// ExtractCells expands row-start/row-end coordinate pairs into a cell set.
// Each pair (start, end) covers cells (x, start.Y) for x in [start.X, end.X].
func ExtractCells(coords []geom.Point) (*CellSet, error) {
	if len(coords) == 0 {
		return nil, errors.New(errors.ErrCodeGeometry, "entity has no coordinates")
	}
	if len(coords)%2 != 0 {
		return nil, errors.New(errors.ErrCodeGeometry, "odd number of coordinates (%d): want row-start/row-end pairs", len(coords))
	}

	cs := &CellSet{
		cells: make(map[geom.Point]struct{}),
		Rows:  make(map[int][]int),
		Cols:  make(map[int][]int),
	}

	for i := 0; i < len(coords); i += 2 {
		start, end := coords[i], coords[i+1]
		if start.Y != end.Y {
			return nil, errors.New(errors.ErrCodeGeometry, "row pair %v-%v spans more than one row", start, end)
		}
		if end.X < start.X {
			return nil, errors.New(errors.ErrCodeGeometry, "row pair %v-%v ends before it starts", start, end)
		}
		for x := start.X; x <= end.X; x++ {
			p := geom.Pt(x, start.Y)
			if _, ok := cs.cells[p]; ok {
				continue
			}
			cs.cells[p] = struct{}{}
			cs.Rows[p.Y] = append(cs.Rows[p.Y], p.X)
			cs.Cols[p.X] = append(cs.Cols[p.X], p.Y)
		}
	}

	for _, xs := range cs.Rows {
		slices.Sort(xs)
	}
	for _, ys := range cs.Cols {
		slices.Sort(ys)
	}
	return cs, nil
}

// Has reports whether p is occupied.
func (c *CellSet) Has(p geom.Point) bool {
	if c == nil {
		return false
	}
	_, ok := c.cells[p]
	return ok
}

// Contains is Has for an (x, y) pair.
func (c *CellSet) Contains(x, y int) bool {
	return c.Has(geom.Pt(x, y))
}

// Len returns the number of occupied cells.
func (c *CellSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cells)
}

// RowKeys returns the occupied row indexes in ascending order.
func (c *CellSet) RowKeys() []int {
	return slices.Sorted(maps.Keys(c.Rows))
}

// ColKeys returns the occupied column indexes in ascending order.
func (c *CellSet) ColKeys() []int {
	return slices.Sorted(maps.Keys(c.Cols))
}

// Points returns every cell ordered by row, then column.
func (c *CellSet) Points() []geom.Point {
	pts := make([]geom.Point, 0, c.Len())
	for _, y := range c.RowKeys() {
		for _, x := range c.Rows[y] {
			pts = append(pts, geom.Pt(x, y))
		}
	}
	return pts
}

// dimensions returns max-min over coords along each axis.
func dimensions(coords []geom.Point) (w, h int) {
	minX, maxX := coords[0].X, coords[0].X
	minY, maxY := coords[0].Y, coords[0].Y
	for _, p := range coords[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return maxX - minX, maxY - minY
}
