package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/setgrid/pkg/cache"
	"github.com/matzehuels/setgrid/pkg/colors"
	"github.com/matzehuels/setgrid/pkg/layout"
)

// Runner encapsulates pipeline execution with a persistent color store.
// Both the CLI and the server use it.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Colors *colors.Assigner
	Logger *log.Logger
}

// NewRunner creates a runner whose color assignments live in c.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Colors: colors.NewAssigner(cache.NewColorStore(c, 0), logger),
		Logger: logger,
	}
}

// Execute runs the complete prepare → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, doc *layout.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	done, err := measurerFor(&opts)
	if err != nil {
		return nil, err
	}
	defer done()

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)
	opts.Logger = logger

	// Stage 1+2: Prepare, color and lay out
	res, assignment, stats, err := r.layout(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Assignment = assignment
	result.Stats = stats

	logger.Info("computed layout",
		"entities", stats.Entities,
		"statements", stats.Statements,
		"energy", res.Energy,
		"cached_colors", stats.ColorHit,
		"duration", stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout colors and positions doc without rendering it.
func (r *Runner) Layout(ctx context.Context, doc *layout.Document, opts Options) (*layout.Result, *colors.Assignment, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}
	done, err := measurerFor(&opts)
	if err != nil {
		return nil, nil, err
	}
	defer done()

	res, a, _, err := r.layout(ctx, doc, opts)
	return res, a, err
}

// Reoptimize searches again for a better color assignment for doc and
// persists it only when its energy is strictly lower than the stored one.
func (r *Runner) Reoptimize(ctx context.Context, doc *layout.Document, opts Options) (*colors.Reoptimization, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	lc, err := layout.Prepare(doc, opts.LayoutConfig())
	if err != nil {
		return nil, err
	}
	return r.Colors.Reoptimize(ctx, lc.Entities, lc.Repeated(), opts.ColorOptions())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
