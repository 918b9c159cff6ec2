package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/observability"
	"github.com/matzehuels/setgrid/pkg/render/sink"
)

// Render generates artifacts for res in every requested format.
func (r *Runner) Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Layout().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(res, opts)
	observability.Layout().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// Render generates output artifacts in the requested formats. opts must
// have render defaults applied.
func Render(res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(res, buildSVGOptions(opts)...)
		case FormatPNG:
			data, err = sink.RenderPNG(res, sink.WithPNGStyle(*opts.Style), sink.WithScale(opts.Scale))
		case FormatJSON:
			data, err = sink.RenderJSON(res, sink.WithJSONStyle(*opts.Style))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(*opts.Style)}
	if opts.Measurer != nil {
		svgOpts = append(svgOpts, sink.WithMeasurer(opts.Measurer))
	}
	if opts.EmbedFont {
		svgOpts = append(svgOpts, sink.WithEmbeddedFont())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}
