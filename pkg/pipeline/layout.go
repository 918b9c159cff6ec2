package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/setgrid/pkg/colors"
	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/text"
)

// =============================================================================
// Layout Generation
// =============================================================================

// layout prepares doc, colors its entities and resolves the geometry.
// Colors are assigned before Resolve so that statement highlighting and
// merged headers see them.
func (r *Runner) layout(ctx context.Context, doc *layout.Document, opts Options) (*layout.Result, *colors.Assignment, Stats, error) {
	var stats Stats

	done, err := measurerFor(&opts)
	if err != nil {
		return nil, nil, stats, err
	}
	defer done()

	lc, err := layout.Prepare(doc, opts.LayoutConfig())
	if err != nil {
		return nil, nil, stats, err
	}
	stats.Entities = len(lc.Entities)
	stats.Statements = len(lc.Statements)

	colorStart := time.Now()
	assignment, err := r.Colors.Assign(ctx, lc.Entities, lc.Repeated(), opts.ColorOptions())
	if err != nil {
		return nil, nil, stats, fmt.Errorf("colors: %w", err)
	}
	stats.ColorTime = time.Since(colorStart)
	stats.ColorHit = assignment.Cached
	opts.Logger.Debug("assigned colors",
		"targets", len(assignment.Targets),
		"energy", assignment.Energy,
		"cached", assignment.Cached,
		"duration", stats.ColorTime)

	layoutStart := time.Now()
	if err := lc.Resolve(ctx); err != nil {
		return nil, nil, stats, err
	}
	stats.LayoutTime = time.Since(layoutStart)

	res := lc.Result()
	res.Energy = assignment.Energy
	return res, assignment, stats, nil
}

// measurerFor installs a font measurer on opts unless one is set or fixed
// metrics were requested. The returned func releases it.
func measurerFor(opts *Options) (func(), error) {
	if opts.Measurer != nil || opts.FixedMetrics {
		return func() {}, nil
	}
	m, err := text.NewFontMeasurer(float64(opts.CellSize))
	if err != nil {
		return nil, fmt.Errorf("load font metrics: %w", err)
	}
	opts.Measurer = m
	return func() { _ = m.Close() }, nil
}
