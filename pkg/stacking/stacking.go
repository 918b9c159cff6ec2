// Package stacking decides the paint order of opaque, overlapping entities.
//
// An interval of an entity is "covered" by the remaining entities when each
// of its cells, and the cell just outside it, already belong to another
// entity that is still to be painted. Such a boundary would be hidden if the
// entity were painted first. [Order] repeatedly peels off the entity with
// the fewest covered intervals, so entities whose outlines would be hidden
// are painted last.
package stacking

import (
	"cmp"
	"slices"

	"github.com/matzehuels/setgrid/pkg/entity"
)

// Order returns the entities in paint order. The input slice is not
// modified. Every entity appears exactly once.
func Order(es []*entity.Entity) []*entity.Entity {
	remaining := slices.Clone(es)
	out := make([]*entity.Entity, 0, len(es))

	for len(remaining) > 0 {
		i := pick(remaining)
		out = append(out, remaining[i])
		remaining = slices.Delete(remaining, i, i+1)
	}
	return out
}

type candidate struct {
	index     int
	covered   int
	intervals int
	cells     int
}

// pick returns the index of the entity to paint next.
func pick(remaining []*entity.Entity) int {
	cands := make([]candidate, len(remaining))
	for i, e := range remaining {
		others := make([]*entity.Entity, 0, len(remaining)-1)
		others = append(others, remaining[:i]...)
		others = append(others, remaining[i+1:]...)
		cands[i] = candidate{
			index:     i,
			covered:   CountCovered(e, others),
			intervals: e.Intervals.Count(),
			cells:     e.Cells.Len(),
		}
	}

	best := slices.MinFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.covered, b.covered); c != 0 {
			return c
		}
		if c := cmp.Compare(b.intervals, a.intervals); c != 0 {
			return c
		}
		if c := cmp.Compare(b.cells, a.cells); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	return best.index
}

// CountCovered returns how many of e's intervals are covered by others.
func CountCovered(e *entity.Entity, others []*entity.Entity) int {
	n := 0
	for _, iv := range e.Intervals.All() {
		if Covered(iv, others) {
			n++
		}
	}
	return n
}
