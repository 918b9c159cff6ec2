package layout

import "github.com/matzehuels/setgrid/pkg/entity"

// =============================================================================
// Gap Resolution
// =============================================================================

// resolveGaps widens row and column gaps so that nested and neighbouring
// boundaries fit. Gaps are expected to hold their starting values.
func (c *Context) resolveGaps(pixels bool) {
	rowHit := func(s *Statement, i int, iv *entity.Interval) bool {
		return s.Y == i && s.X >= iv.Start && s.X <= iv.End
	}
	colHit := func(s *Statement, i int, iv *entity.Interval) bool {
		return s.X == i && s.Y >= iv.Start && s.Y <= iv.End
	}

	c.nestedGaps(c.RowGaps, c.rowBuckets, rowHit)
	c.nestedGaps(c.ColGaps, c.colBuckets, colHit)
	neighbourGaps(c.RowGaps, c.rowBuckets, pixels)
	neighbourGaps(c.ColGaps, c.colBuckets, pixels)
}

// nestedGaps adds to each gap the largest margin among its intervals that
// border the outer edge of the grid or run past a statement in the adjacent
// cell line.
func (c *Context) nestedGaps(gaps []int, buckets [][]*entity.Interval, hit func(*Statement, int, *entity.Interval) bool) {
	last := len(buckets) - 1
	for i, bucket := range buckets {
		best := 0
		for _, iv := range bucket {
			if iv.Margin <= best {
				continue
			}
			if i == 0 || i == last || c.statementNear(i, iv, hit) {
				best = iv.Margin
			}
		}
		gaps[i] += best
	}
}

func (c *Context) statementNear(i int, iv *entity.Interval, hit func(*Statement, int, *entity.Interval) bool) bool {
	for _, s := range c.Statements {
		if hit(s, i, iv) {
			return true
		}
	}
	return false
}

// neighbourGaps makes room for two facing boundaries that share a gap.
func neighbourGaps(gaps []int, buckets [][]*entity.Interval, pixels bool) {
	for i, bucket := range buckets {
		for j := 0; j < len(bucket); j++ {
			for k := j + 1; k < len(bucket); k++ {
				s1, s2 := bucket[j], bucket[k]
				if s1.Side == s2.Side {
					continue
				}
				overlaps := s1.Overlaps(s2)
				if pixels {
					overlaps = s1.PixelOverlaps(s2)
				}
				if overlaps && s1.Margin+s2.Margin >= gaps[i] {
					gaps[i] = s1.Margin + s2.Margin + 1
				}
			}
		}
	}
}
