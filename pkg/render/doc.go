// Package render holds what the output sinks share: the visual [Style] of a
// drawing and the rounded-corner geometry of entity and statement outlines.
//
// # Overview
//
// A layout run produces a [layout.Result] of pixel polygons. The [sink]
// subpackage turns a Result into SVG, PNG or JSON. Both raster and vector
// sinks round polygon corners the same way: each vertex is replaced by a
// circular arc tangent to its two edges, see [RoundCorners].
//
//	res := ctx.Result()
//	svg := sink.RenderSVG(res, sink.WithStyle(render.DefaultStyle()))
//	png, err := sink.RenderPNG(res, sink.WithScale(2))
//
// # Style
//
// [Style] collects the drawing switches: corner radius, shadows, outlines
// (optionally dashed for repeated entities) and how names are highlighted
// inside statements. [DefaultStyle] enables everything except shadows.
//
// [layout.Result]: github.com/matzehuels/setgrid/pkg/layout.Result
// [sink]: github.com/matzehuels/setgrid/pkg/render/sink
package render
