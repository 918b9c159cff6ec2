package stacking

import (
	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/geom"
)

// Covered reports whether every part of iv is hidden by some entity in
// others. Different entities may cover different parts.
func Covered(iv *entity.Interval, others []*entity.Entity) bool {
	if iv.Start == iv.End {
		return singleCovered(iv, others)
	}

	for p := iv.Start; p <= iv.End; p++ {
		hidden := false
		for _, e := range others {
			if partCovered(iv, p, e) {
				hidden = true
				break
			}
		}
		if !hidden {
			return false
		}
	}
	return true
}

// partCovered checks the cell at running position p of iv against e. The
// first and last parts also need the corner just beyond the interval to be
// closed off by e.
func partCovered(iv *entity.Interval, p int, e *entity.Entity) bool {
	switch p {
	case iv.Start:
		return cornerCovered(iv, p-1, e) && internal(iv, p, e)
	case iv.End:
		return cornerCovered(iv, p+1, e) && internal(iv, p, e)
	default:
		return internal(iv, p, e)
	}
}

// singleCovered handles intervals one cell long: both corners must be
// closed off, possibly by different entities.
func singleCovered(iv *entity.Interval, others []*entity.Entity) bool {
	p := iv.Start
	start, end := false, false
	for _, e := range others {
		if !internal(iv, p, e) {
			continue
		}
		start = start || cornerCovered(iv, p-1, e)
		end = end || cornerCovered(iv, p+1, e)
		if start && end {
			return true
		}
	}
	return false
}

// internal reports whether e holds both the cell at p and its outward
// neighbour.
func internal(iv *entity.Interval, p int, e *entity.Entity) bool {
	return e.Cells.Has(in(iv, p)) && e.Cells.Has(out(iv, p))
}

// cornerCovered checks the neighbouring position q of an interval end: e
// must hold the cell at q, and either the owner leaves the outward cell at
// q free or e holds it too.
func cornerCovered(iv *entity.Interval, q int, e *entity.Entity) bool {
	if !e.Cells.Has(in(iv, q)) {
		return false
	}
	return !iv.Owner().Cells.Has(out(iv, q)) || e.Cells.Has(out(iv, q))
}

func in(iv *entity.Interval, p int) geom.Point {
	return iv.Side.Cell(p, iv.Other)
}

func out(iv *entity.Interval, p int) geom.Point {
	return iv.Side.Cell(p, iv.Other+iv.Side.Outward())
}
