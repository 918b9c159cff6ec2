package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setgrid/pkg/pipeline"
	"github.com/matzehuels/setgrid/pkg/render"
)

// pipelineFlags holds the layout and color flags shared by commands that
// run the pipeline. A flag overrides the config file only when it was set
// on the command line.
type pipelineFlags struct {
	mode         string
	headers      bool
	cellSize     int
	cellWidth    int
	fixedMetrics bool
	grayscale    bool
	palette      []string
	iterations   int
	seed         uint64
	deadline     time.Duration
	noCache      bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.mode, "mode", "m", pipeline.DefaultMode, "entity mode: stacked, transparent")
	fs.BoolVar(&f.headers, "headers", true, "draw entity name headers")
	fs.IntVar(&f.cellSize, "cell-size", pipeline.DefaultCellSize, "background cell size in pixels")
	fs.IntVar(&f.cellWidth, "cell-width", pipeline.DefaultCellWidth, "grid column width in cells")
	fs.BoolVar(&f.fixedMetrics, "fixed-metrics", false, "measure text with a fixed advance instead of font metrics")
	fs.BoolVar(&f.grayscale, "grayscale", false, "color every entity gray")
	fs.StringSliceVar(&f.palette, "palette", nil, "hex colors to use instead of the default palette")
	fs.IntVar(&f.iterations, "iterations", 0, "annealing iterations (default 10000)")
	fs.Uint64Var(&f.seed, "seed", 0, "annealing random seed (default 1)")
	fs.DurationVar(&f.deadline, "deadline", 0, "stop annealing after this long (0 for no limit)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the color cache")
}

func (f *pipelineFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("mode") {
		opts.Mode = f.mode
	}
	if fs.Changed("headers") {
		opts.Headers = f.headers
	}
	if fs.Changed("cell-size") {
		opts.CellSize = f.cellSize
	}
	if fs.Changed("cell-width") {
		opts.CellWidth = f.cellWidth
	}
	if fs.Changed("fixed-metrics") {
		opts.FixedMetrics = f.fixedMetrics
	}
	if fs.Changed("grayscale") {
		opts.Grayscale = f.grayscale
	}
	if fs.Changed("palette") {
		opts.Palette = f.palette
	}
	if fs.Changed("iterations") {
		opts.Colors.Iterations = f.iterations
	}
	if fs.Changed("seed") {
		opts.Colors.Seed = f.seed
	}
	if fs.Changed("deadline") {
		opts.Deadline = f.deadline
	}
}

// styleFlags holds the drawing flags of the render command.
type styleFlags struct {
	formats     string
	scale       float64
	highlight   string
	radius      float64
	shadow      bool
	outline     bool
	embedFont   bool
	interactive bool
}

func (f *styleFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	fs.StringVar(&f.highlight, "highlight", string(render.HighlightText), "name highlighting: text, background, none")
	fs.Float64Var(&f.radius, "radius", 4, "corner radius")
	fs.BoolVar(&f.shadow, "shadow", false, "draw drop shadows")
	fs.BoolVar(&f.outline, "outline", true, "outline entities")
	fs.BoolVar(&f.embedFont, "embed-font", false, "embed the font in SVG output")
	fs.BoolVar(&f.interactive, "interactive", false, "add hover effects to SVG output")
}

func (f *styleFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
	if fs.Changed("embed-font") {
		opts.EmbedFont = f.embedFont
	}
	if fs.Changed("interactive") {
		opts.Interactive = f.interactive
	}

	if opts.Style == nil {
		s := render.DefaultStyle()
		opts.Style = &s
	}
	if fs.Changed("highlight") {
		opts.Style.Highlight = render.Highlight(f.highlight)
	}
	if fs.Changed("radius") {
		opts.Style.CornerRadius = f.radius
	}
	if fs.Changed("shadow") {
		opts.Style.Shadow = f.shadow
	}
	if fs.Changed("outline") {
		opts.Style.Outline = f.outline
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
