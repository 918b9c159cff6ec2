// Package layout turns a grid solution into collision-free pixel polygons.
//
// A solution places entities (sets of grid cells) and statements (single
// cells of text) on a grid. Every entity boundary is split into intervals;
// intervals of different entities that would be drawn on top of each other
// receive increasing margins, and the gaps between grid rows and columns are
// widened until every nested or neighbouring boundary fits. The result is
// one orthogonal ring per entity plus a rectangle per statement.
//
// # Usage
//
//	c, err := layout.Prepare(doc, layout.Config{Headers: true})
//	// assign header colors here (see package colors)
//	err = c.Resolve(ctx)
//	res := c.Result()
//
// Prepare and Resolve are split so that colors, which are computed from the
// unmerged entities, can be applied in between.
package layout

import (
	"cmp"
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
	"github.com/matzehuels/setgrid/pkg/observability"
	"github.com/matzehuels/setgrid/pkg/stacking"
	"github.com/matzehuels/setgrid/pkg/text"
)

// Mode selects how overlapping entities are drawn.
type Mode string

const (
	// Stacked paints entities opaquely in stacking order.
	Stacked Mode = "stacked"
	// Transparent paints translucent fills, largest first, and merges
	// entities that hold exactly the same statements.
	Transparent Mode = "transparent"
)

const (
	DefaultCellSize  = 10
	DefaultCellWidth = 20
	DefaultMaxPasses = 10000
)

// Config controls a layout run.
type Config struct {
	// CellSize is the background cell size in pixels.
	CellSize int
	// CellWidth is the width of one grid column in background cells.
	CellWidth int
	// Headers reserves room for entity name headers.
	Headers bool
	Mode    Mode
	// MaxPasses caps the margin passes spent on a single bucket.
	MaxPasses int
	Measurer  text.Measurer
	Logger    *log.Logger
}

func (c *Config) setDefaults() {
	if c.CellSize <= 0 {
		c.CellSize = DefaultCellSize
	}
	if c.CellWidth <= 0 {
		c.CellWidth = DefaultCellWidth
	}
	if c.Mode == "" {
		c.Mode = Stacked
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = DefaultMaxPasses
	}
	if c.Measurer == nil {
		c.Measurer = text.FixedMeasurer(float64(c.CellSize) / 2)
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Statement is a positioned text cell.
type Statement struct {
	ID       int
	X, Y     int
	Text     string
	Lines    []string
	Spans    []text.Span
	Entities []*entity.Entity
	Rect     geom.Rect
}

// Context owns all mutable state of one layout run.
type Context struct {
	cfg Config

	Width, Height int

	// Entities is in input order until Resolve, draw order afterwards.
	Entities   []*entity.Entity
	Statements []*Statement

	RowGaps, ColGaps []int
	Heights          []int

	rowBuckets, colBuckets [][]*entity.Interval
	repeated               map[string]bool
	resolved               bool
}

// Prepare validates the document and builds entities and statements.
func Prepare(doc *Document, cfg Config) (*Context, error) {
	cfg.setDefaults()
	if err := errors.ValidateMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	c := &Context{
		cfg:    cfg,
		Width:  doc.Width,
		Height: doc.Height,
	}

	names := make([]string, 0, len(doc.Entities))
	for _, in := range doc.Entities {
		e, err := entity.New(in.ID, in.Name, in.Coords, in.Statements, cfg.Headers)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeGeometry, err, "entity %q", in.Name)
		}
		c.Entities = append(c.Entities, e)
		names = append(names, in.Name)
	}
	c.repeated = entity.RepeatedNames(names)

	lineWidth := float64((cfg.CellWidth - 2) * cfg.CellSize)
	for _, in := range doc.Statements {
		c.Statements = append(c.Statements, &Statement{
			ID:    in.ID,
			X:     in.X,
			Y:     in.Y,
			Text:  in.Text,
			Lines: text.Wrap(in.Text, lineWidth, cfg.Measurer),
		})
	}

	c.RowGaps = ones(c.Height + 1)
	c.ColGaps = ones(c.Width + 1)
	c.rowBuckets = make([][]*entity.Interval, c.Height+1)
	c.colBuckets = make([][]*entity.Interval, c.Width+1)
	return c, nil
}

// Config returns the effective configuration.
func (c *Context) Config() Config { return c.cfg }

// Repeated reports the names that occur on more than one entity.
func (c *Context) Repeated() map[string]bool { return c.repeated }

// Resolve merges, orders and positions everything. It may run only once.
func (c *Context) Resolve(ctx context.Context) error {
	if c.resolved {
		return errors.New(errors.ErrCodeInternal, "layout already resolved")
	}
	c.resolved = true

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, string(c.cfg.Mode), len(c.Entities))
	err := c.resolve(ctx)
	observability.Layout().OnLayoutComplete(ctx, string(c.cfg.Mode), time.Since(start), err)
	return err
}

func (c *Context) resolve(ctx context.Context) error {
	c.arrange()
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.resolveLogical(); err != nil {
		return err
	}
	c.computeHeights()

	if err := c.positionAll(); err != nil {
		return err
	}
	if err := c.resolvePixels(); err != nil {
		return err
	}
	if err := c.positionAll(); err != nil {
		return err
	}

	c.positionStatements()
	c.labelHeaders()
	c.highlightStatements()

	c.cfg.Logger.Debug("resolved layout",
		"entities", len(c.Entities),
		"statements", len(c.Statements),
		"width", c.CanvasWidth(),
		"height", c.CanvasHeight())
	return nil
}

// arrange merges and orders the entities, sizes their header reservations
// and files their intervals into buckets.
func (c *Context) arrange() {
	if c.cfg.Mode == Transparent {
		c.merge()
	}
	c.mapStatements()
	for _, e := range c.Entities {
		e.ClassifyHeaders(c.repeated, c.cfg.Headers)
	}

	switch c.cfg.Mode {
	case Stacked:
		c.Entities = stacking.Order(c.Entities)
	case Transparent:
		slices.SortStableFunc(c.Entities, func(a, b *entity.Entity) int {
			return cmp.Compare(b.Cells.Len(), a.Cells.Len())
		})
	}
	c.register()
}

// resolveLogical runs the grid-level margin and gap passes.
func (c *Context) resolveLogical() error {
	if _, err := c.resolveMargins(false); err != nil {
		return err
	}
	c.resolveGaps(false)
	return nil
}

// resolvePixels reruns margins on positioned intervals, then recomputes the
// gaps from scratch.
func (c *Context) resolvePixels() error {
	if _, err := c.resolveMargins(true); err != nil {
		return err
	}
	fill(c.RowGaps, 1)
	fill(c.ColGaps, 1)
	c.resolveGaps(true)
	return nil
}

// merge folds entities with identical statement sets into the earlier one.
// Entities without statements count as identical to each other.
func (c *Context) merge() {
	es := c.Entities
	for i := 0; i < len(es); i++ {
		for j := len(es) - 1; j > i; j-- {
			if es[i].SameStatements(es[j]) {
				es[i].Absorb(es[j], c.cfg.Headers)
				es = slices.Delete(es, j, j+1)
			}
		}
	}
	c.Entities = es
}

func (c *Context) mapStatements() {
	byID := make(map[int]*Statement, len(c.Statements))
	for _, s := range c.Statements {
		byID[s.ID] = s
	}
	for _, e := range c.Entities {
		for _, id := range e.Statements {
			if s, ok := byID[id]; ok {
				s.Entities = append(s.Entities, e)
			}
		}
	}
}

// register files every interval under the row or column gap it borders,
// walking entities in reverse draw order.
func (c *Context) register() {
	for i := len(c.Entities) - 1; i >= 0; i-- {
		sides := &c.Entities[i].Intervals
		for _, iv := range sides.Top {
			c.rowBuckets[iv.Other] = append(c.rowBuckets[iv.Other], iv)
		}
		for _, iv := range sides.Right {
			c.colBuckets[iv.Other+1] = append(c.colBuckets[iv.Other+1], iv)
		}
		for _, iv := range sides.Bottom {
			c.rowBuckets[iv.Other+1] = append(c.rowBuckets[iv.Other+1], iv)
		}
		for _, iv := range sides.Left {
			c.colBuckets[iv.Other] = append(c.colBuckets[iv.Other], iv)
		}
	}
}

// computeHeights sizes each row to its tallest statement plus padding.
func (c *Context) computeHeights() {
	c.Heights = make([]int, c.Height+1)
	for _, s := range c.Statements {
		c.Heights[s.Y] = max(c.Heights[s.Y], len(s.Lines))
	}
	for i := range c.Heights {
		c.Heights[i] += 2
	}
}

// CanvasWidth returns the drawing width in pixels.
func (c *Context) CanvasWidth() int {
	bcs := c.cfg.CellSize
	return c.Width*c.cfg.CellWidth*bcs + bcs*sum(c.ColGaps)
}

// CanvasHeight returns the drawing height in pixels.
func (c *Context) CanvasHeight() int {
	bcs := c.cfg.CellSize
	return bcs*sum(c.Heights) + bcs*sum(c.RowGaps)
}

func ones(n int) []int {
	s := make([]int, n)
	fill(s, 1)
	return s
}

func fill(s []int, v int) {
	for i := range s {
		s[i] = v
	}
}

func sum(s []int) int {
	t := 0
	for _, v := range s {
		t += v
	}
	return t
}
