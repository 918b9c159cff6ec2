// Package sink provides output format renderers for laid out set diagrams.
//
// # Overview
//
// A "sink" transforms a [layout.Result] into a final output format:
//
//   - SVG: vector output with optional embedded font and hover styling
//   - PNG: raster output drawn natively with gg and freetype
//   - JSON: the positioned polygons and statements for external tools
//
// # SVG Output
//
//	svg := sink.RenderSVG(res,
//	    sink.WithStyle(style),
//	    sink.WithEmbeddedFont(),
//	)
//
// Entities are painted in result order, each as a rounded polygon with
// optional shadow and outline, followed by its header boxes. Statements
// are drawn last with entity names highlighted in their entity's color.
//
// # PNG Output
//
// [RenderPNG] draws the same shapes as [RenderSVG] without any external
// converter. [WithScale] controls the resolution (default 2x).
//
// # JSON Output
//
// [RenderJSON] exports the result with optional run metadata; [ReadJSON]
// reads it back so a stored layout can be re-rendered later.
//
// [layout.Result]: github.com/matzehuels/setgrid/pkg/layout.Result
package sink
