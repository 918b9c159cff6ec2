// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete load → color → layout → render
// flow. By centralizing it, the CLI commands and the server endpoints
// produce identical drawings for identical inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Prepare: validate the document and build entities and statements
//  2. Layout: color the entities, then resolve margins, gaps and polygons
//  3. Render: generate output in the requested formats (SVG, PNG, JSON)
//
// Coloring must happen between preparation and resolution: the colors feed
// statement highlighting, and entities are merged during resolution.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, logger)
//	doc, err := pipeline.Load("solution.txt")
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Mode:    "stacked",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, assignment, err := runner.Layout(ctx, doc, opts)
//	artifacts, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/setgrid/pkg/colors"
	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/render"
	"github.com/matzehuels/setgrid/pkg/text"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMode is the default entity render mode.
	DefaultMode = string(layout.Stacked)

	// DefaultCellSize is the default background cell size in pixels.
	DefaultCellSize = layout.DefaultCellSize

	// DefaultCellWidth is the default grid column width in cells.
	DefaultCellWidth = layout.DefaultCellWidth

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. It decodes from
// both JSON (HTTP requests) and TOML (the config file).
type Options struct {
	// Layout options
	Mode      string `json:"mode,omitempty" toml:"mode"`
	Headers   bool   `json:"headers,omitempty" toml:"headers"`
	CellSize  int    `json:"cell_size,omitempty" toml:"cell_size"`
	CellWidth int    `json:"cell_width,omitempty" toml:"cell_width"`
	MaxPasses int    `json:"max_passes,omitempty" toml:"max_passes"`
	// FixedMetrics measures text with a fixed advance of half a cell
	// instead of real font metrics.
	FixedMetrics bool `json:"fixed_metrics,omitempty" toml:"fixed_metrics"`

	// Color options
	Colors    colors.Params `json:"colors" toml:"colors"`
	Grayscale bool          `json:"grayscale,omitempty" toml:"grayscale"`
	Palette   []string      `json:"palette,omitempty" toml:"palette"`
	Deadline  time.Duration `json:"deadline,omitempty" toml:"deadline"`

	// Render options
	Formats     []string      `json:"formats,omitempty" toml:"formats"`
	Style       *render.Style `json:"style,omitempty" toml:"style"`
	Scale       float64       `json:"scale,omitempty" toml:"scale"`
	EmbedFont   bool          `json:"embed_font,omitempty" toml:"embed_font"`
	Interactive bool          `json:"interactive,omitempty" toml:"interactive"`

	// Runtime options (not serialized)
	Logger   *log.Logger   `json:"-" toml:"-"`
	Measurer text.Measurer `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and responses.
	RunID string

	// Layout is the positioned drawing.
	Layout *layout.Result

	// Assignment is the color assignment used.
	Assignment *colors.Assignment

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities   int
	Statements int
	ColorTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	// ColorHit reports whether the colors came from the store.
	ColorHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = layout.DefaultMaxPasses
	}
	o.Colors.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Deadline < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "deadline %v must not be negative", o.Deadline)
	}
	if o.Colors.SigmaC <= 0 || o.Colors.SigmaS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "annealing sigmas must be positive")
	}
	if o.Colors.TempEnd <= 0 || o.Colors.TempStart < o.Colors.TempEnd {
		return errors.New(errors.ErrCodeInvalidConfig, "annealing temperatures must satisfy 0 < end <= start")
	}
	for _, c := range o.Palette {
		if err := errors.ValidateHexColor(c); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == nil {
		s := render.DefaultStyle()
		o.Style = &s
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale %v must be positive", o.Scale)
	}
	return o.Style.Validate()
}

// LayoutConfig returns the layout engine configuration.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		CellSize:  o.CellSize,
		CellWidth: o.CellWidth,
		Headers:   o.Headers,
		Mode:      layout.Mode(o.Mode),
		MaxPasses: o.MaxPasses,
		Measurer:  o.Measurer,
		Logger:    o.Logger,
	}
}

// ColorOptions returns the color assigner configuration.
func (o *Options) ColorOptions() colors.Options {
	return colors.Options{
		Params:    o.Colors,
		Palette:   o.Palette,
		Grayscale: o.Grayscale,
		Deadline:  o.Deadline,
	}
}
