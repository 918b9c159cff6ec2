package colors

import (
	"math"

	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/geom"
	"github.com/matzehuels/setgrid/pkg/stacking"
)

// Overlapping or touching entities are overlapStep times their index
// difference apart.
const overlapStep = 0.01

// segments returns an entity's logical boundary as grid-unit segments.
func segments(e *entity.Entity) []geom.Segment {
	var out []geom.Segment
	for _, iv := range e.Intervals.All() {
		if iv.Side.Horizontal() {
			out = append(out, geom.Seg(iv.Start, iv.Other, iv.End, iv.Other))
		} else {
			out = append(out, geom.Seg(iv.Other, iv.Start, iv.Other, iv.End))
		}
	}
	return out
}

// spatial computes distances between entity boundaries. index maps every
// entity of the run to its input position.
type spatial struct {
	index map[*entity.Entity]int
	segs  map[*entity.Entity][]geom.Segment
}

func newSpatial(all []*entity.Entity) *spatial {
	s := &spatial{
		index: make(map[*entity.Entity]int, len(all)),
		segs:  make(map[*entity.Entity][]geom.Segment, len(all)),
	}
	for i, e := range all {
		s.index[e] = i
		s.segs[e] = segments(e)
	}
	return s
}

func (s *spatial) tie(a, b *entity.Entity) float64 {
	d := s.index[a] - s.index[b]
	if d < 0 {
		d = -d
	}
	return float64(d) * overlapStep
}

// polygon is the minimum boundary distance of a and b.
func (s *spatial) polygon(a, b *entity.Entity) float64 {
	if stacking.Overlap(a, b) {
		return s.tie(a, b)
	}
	best := math.Inf(1)
	for _, sa := range s.segs[a] {
		for _, sb := range s.segs[b] {
			best = min(best, geom.SegmentDistance(sa, sb))
			if best == 0 {
				return s.tie(a, b)
			}
		}
	}
	return best
}

// group is the minimum polygon distance over every copy of a and b.
func (s *spatial) group(as, bs []*entity.Entity) float64 {
	best := math.Inf(1)
	for _, a := range as {
		for _, b := range bs {
			best = min(best, s.polygon(a, b))
		}
	}
	return best
}

// Matrix returns the symmetric spatial distance matrix of targets. Targets
// whose primary name is repeated are measured through their closest copy in
// groups.
func Matrix(all, targets []*entity.Entity, groups map[string][]*entity.Entity) [][]float64 {
	s := newSpatial(all)
	members := func(e *entity.Entity) []*entity.Entity {
		if g, ok := groups[e.PrimaryName()]; ok {
			return g
		}
		return []*entity.Entity{e}
	}

	n := len(targets)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			d := s.group(members(targets[i]), members(targets[j]))
			m[i][j], m[j][i] = d, d
		}
	}
	return m
}
