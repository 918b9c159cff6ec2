package layout

import (
	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/errors"
)

// =============================================================================
// Margin Resolution
// =============================================================================

// resolveMargins separates overlapping same-side intervals in every bucket,
// columns first. With pixels set, overlap is tested on positioned ranges and
// each changed interval's owner is repositioned immediately. It returns the
// total number of margin changes.
func (c *Context) resolveMargins(pixels bool) (int, error) {
	total := 0
	for i, bucket := range c.colBuckets {
		n, err := c.settleBucket(bucket, false, pixels)
		if err != nil {
			return total, errors.Wrap(errors.ErrCodeConvergence, err, "column gap %d", i)
		}
		total += n
	}
	for i, bucket := range c.rowBuckets {
		n, err := c.settleBucket(bucket, true, pixels)
		if err != nil {
			return total, errors.Wrap(errors.ErrCodeConvergence, err, "row gap %d", i)
		}
		total += n
	}
	c.cfg.Logger.Debug("resolved margins", "pixels", pixels, "changes", total)
	return total, nil
}

// settleBucket repeats margin passes over one bucket until a pass changes
// nothing.
func (c *Context) settleBucket(bucket []*entity.Interval, rows, pixels bool) (int, error) {
	total := 0
	for pass := 0; ; pass++ {
		if pass >= c.cfg.MaxPasses {
			return total, errors.New(errors.ErrCodeConvergence,
				"margins did not settle after %d passes", c.cfg.MaxPasses)
		}
		changes, err := c.marginPass(bucket, rows, pixels)
		if err != nil {
			return total, err
		}
		if changes == 0 {
			return total, nil
		}
		total += changes
	}
}

func (c *Context) marginPass(bucket []*entity.Interval, rows, pixels bool) (int, error) {
	changes := 0
	for j := 0; j < len(bucket); j++ {
		for k := j + 1; k < len(bucket); k++ {
			s1, s2 := bucket[j], bucket[k]

			overlaps := s1.Overlaps(s2)
			if pixels {
				overlaps = s1.PixelOverlaps(s2)
			}
			if !overlaps {
				continue
			}

			if rows && c.cfg.Headers {
				if changed := c.headerRule(s1, s2); changed != nil {
					changes++
					if err := c.reposition(changed, pixels); err != nil {
						return changes, err
					}
				}
			}

			if s1.Side != s2.Side {
				continue
			}
			if c.sameSideRule(s1, s2, pixels) {
				changes++
				if err := c.reposition(s2, pixels); err != nil {
					return changes, err
				}
			}
		}
	}
	return changes, nil
}

// headerRule keeps two top intervals far enough apart that the header rows
// reserved by the top-left one fit between them. It returns the interval
// whose margin changed, or nil.
func (c *Context) headerRule(s1, s2 *entity.Interval) *entity.Interval {
	if s1.Side != entity.Top || s2.Side != entity.Top {
		return nil
	}
	need := func(iv *entity.Interval) int { return 2*iv.Owner().VisibleHeaders + 1 }
	if abs(s2.Margin-s1.Margin) >= need(s2) {
		return nil
	}

	if s2.Margin >= s1.Margin {
		if s2.TopLeft {
			return setMargin(s2, s1.Margin+need(s2))
		}
		return nil
	}
	if s1.TopLeft {
		return setMargin(s1, s2.Margin+need(s1))
	}
	return nil
}

// sameSideRule moves the later interval one cell further out. Stacked
// layouts require strictly increasing margins in bucket order; transparent
// layouts only forbid equal ones. Pixel passes always use the stacked rule.
func (c *Context) sameSideRule(s1, s2 *entity.Interval, pixels bool) bool {
	if pixels || c.cfg.Mode == Stacked {
		if s1.Margin >= s2.Margin {
			return setMargin(s2, s1.Margin+1) != nil
		}
		return false
	}
	if s1.Margin == s2.Margin {
		return setMargin(s2, s1.Margin+1) != nil
	}
	return false
}

// setMargin updates iv and returns it, or nil if the margin already had
// that value.
func setMargin(iv *entity.Interval, m int) *entity.Interval {
	if iv.Margin == m {
		return nil
	}
	iv.Margin = m
	return iv
}

func (c *Context) reposition(iv *entity.Interval, pixels bool) error {
	if !pixels {
		return nil
	}
	return c.position(iv.Owner())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
