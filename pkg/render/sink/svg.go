package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/setgrid/pkg/colors"
	"github.com/matzehuels/setgrid/pkg/fonts"
	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/render"
	"github.com/matzehuels/setgrid/pkg/text"
)

const interactionCSS = `
    .entity-body { transition: stroke-width 0.2s ease; }
    .entity:hover .entity-body { stroke-width: 4; }
    .statement:hover .statement-box { stroke-opacity: 1; }`

// hatchSpacing is the distance between crosshatch lines on repeated headers.
const hatchSpacing = 5

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       render.Style
	measurer    text.Measurer
	embedFont   bool
	interactive bool
}

func WithStyle(s render.Style) SVGOption     { return func(r *svgRenderer) { r.style = s } }
func WithMeasurer(m text.Measurer) SVGOption { return func(r *svgRenderer) { r.measurer = m } }
func WithEmbeddedFont() SVGOption            { return func(r *svgRenderer) { r.embedFont = true } }
func WithInteraction() SVGOption             { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG draws the layout. Entities are painted in result order, then
// statements on top.
func RenderSVG(res *layout.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(res, opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		res.Width, res.Height, res.Width, res.Height)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="white"/>`+"\n", res.Width, res.Height)

	for _, e := range res.Entities {
		r.renderEntity(&buf, res, e)
	}
	for _, s := range res.Statements {
		r.renderStatement(&buf, res, s)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(res *layout.Result, opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: render.DefaultStyle()}
	for _, opt := range opts {
		opt(&r)
	}
	if r.measurer == nil {
		r.measurer = text.FixedMeasurer(float64(res.CellSize) / 2)
	}
	return r
}

func (r svgRenderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <style>")
	if r.embedFont {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	fmt.Fprintf(buf, "\n    text { font-family: %s; white-space: pre; }", fonts.FallbackFontFamily)
	if r.interactive {
		buf.WriteString(interactionCSS)
	}
	buf.WriteString("\n  </style>\n")
}

// =============================================================================
// Entities
// =============================================================================

func (r svgRenderer) renderEntity(buf *bytes.Buffer, res *layout.Result, e layout.EntityLayout) {
	if e.Singleton || len(e.Ring) < 3 {
		return
	}
	st := r.style
	fmt.Fprintf(buf, `  <g id="entity-%d" class="entity" font-size="%dpx">`+"\n", e.ID, res.CellSize)

	if st.Shadow {
		fmt.Fprintf(buf, `    <path d="%s" fill="%s" fill-opacity="0.5"/>`+"\n",
			render.SVGPath(render.Offset(e.Ring, render.ShadowOffset, render.ShadowOffset), st.CornerRadius), render.ShadowColor)
	}

	d := render.SVGPath(e.Ring, st.CornerRadius)
	if res.Mode == layout.Transparent {
		for _, c := range fills(e) {
			fmt.Fprintf(buf, `    <path d="%s" fill="%s" fill-opacity="%s"/>`+"\n", d, c, render.Num(render.TransparentOpacity))
		}
		fmt.Fprintf(buf, `    <path class="entity-body" d="%s" fill="none" %s/>`+"\n", d, r.strokeAttrs(e, true))
	} else {
		fmt.Fprintf(buf, `    <path class="entity-body" d="%s" fill="%s" %s/>`+"\n", d, e.Color, r.strokeAttrs(e, false))
	}

	for k, h := range e.Headers {
		r.renderHeader(buf, res, e, k, h)
	}
	buf.WriteString("  </g>\n")
}

// fills lists the colors a transparent entity is tinted with, one layer per
// header.
func fills(e layout.EntityLayout) []string {
	if len(e.Colors) == 0 {
		return []string{e.Color}
	}
	return e.Colors
}

func (r svgRenderer) strokeAttrs(e layout.EntityLayout, transparent bool) string {
	st := r.style
	if !st.Outlined(e.Repeated) {
		if transparent {
			return fmt.Sprintf(`stroke="%s"`, e.Color)
		}
		return ""
	}

	stroke := colors.RGBA(st.OutlineColor, 0.5)
	if st.OutlineEntityColor {
		stroke = colors.Darken(e.Color, render.OutlineDarken)
	}
	attrs := fmt.Sprintf(`stroke="%s" stroke-width="%s"`, stroke, render.Num(st.Stroke()))
	if st.Dashed(e.Repeated) {
		attrs += ` stroke-dasharray="6,2"`
	}
	return attrs
}

func (r svgRenderer) renderHeader(buf *bytes.Buffer, res *layout.Result, e layout.EntityLayout, k int, h layout.HeaderBox) {
	cs := float64(res.CellSize)
	radius := max(r.style.CornerRadius-1, 0)

	fmt.Fprintf(buf, `    <path d="%s" fill="%s"/>`+"\n", render.SVGPath(render.RectPoints(h.Rect), radius), h.Color)
	if h.Duplicate {
		r.renderCrosshatch(buf, e, k, h)
	}

	name := h.Rect
	name.Max.X = name.Min.X + int(r.measurer.Width(h.Display)+2*cs)
	fmt.Fprintf(buf, `    <path d="%s" fill="%s"/>`+"\n", render.SVGPath(render.RectPoints(name), radius), h.Color)

	top := e.Ring[0].Y + k*2*res.CellSize
	fmt.Fprintf(buf, `    <text x="%s" y="%s" fill="%s">%s</text>`+"\n",
		render.Num(float64(e.Ring[0].X)+cs+1), render.Num(float64(top)+1.25*cs+1), render.HeaderTextColor, escapeXML(h.Display))
}

// renderCrosshatch covers a repeated header with white diagonal lines,
// clipped to the header.
func (r svgRenderer) renderCrosshatch(buf *bytes.Buffer, e layout.EntityLayout, k int, h layout.HeaderBox) {
	clip := fmt.Sprintf("clip-%d-%d", e.ID, k)
	x0, top := e.Ring[0].X, h.Rect.Min.Y-1
	width, height := e.Ring[1].X-x0, h.Rect.Dy()

	fmt.Fprintf(buf, `    <clipPath id="%s"><rect x="%d" y="%d" width="%d" height="%d"/></clipPath>`+"\n",
		clip, x0+5, top+1, width-7, height-1)
	fmt.Fprintf(buf, `    <g clip-path="url(#%s)" stroke="white" stroke-width="0.75">`+"\n", clip)
	for x := -height; x < width+height; x += hatchSpacing {
		fmt.Fprintf(buf, `      <line x1="%d" y1="%d" x2="%d" y2="%d"/>`+"\n", x0+x, top, x0+x+height, top+height)
		fmt.Fprintf(buf, `      <line x1="%d" y1="%d" x2="%d" y2="%d"/>`+"\n", x0+x+height, top, x0+x, top+height)
	}
	buf.WriteString("    </g>\n")
}

// =============================================================================
// Statements
// =============================================================================

func (r svgRenderer) renderStatement(buf *bytes.Buffer, res *layout.Result, s layout.StatementLayout) {
	st := r.style
	cs := float64(res.CellSize)

	fmt.Fprintf(buf, `  <g id="statement-%d" class="statement" font-size="%dpx">`+"\n", s.ID, res.CellSize)
	fmt.Fprintf(buf, `    <path class="statement-box" d="%s" fill="%s" stroke="%s" stroke-opacity="0.5" stroke-width="%s"/>`+"\n",
		render.SVGPath(render.RectPoints(s.Rect), st.CornerRadius), render.StatementFill, render.StatementStroke, render.Num(st.Stroke()))

	x := float64(s.Rect.Min.X) + cs
	for i, line := range text.Segments(s.Text, s.Lines, s.Spans) {
		y := float64(s.Rect.Min.Y) + float64(2+i)*cs
		r.renderLine(buf, x, y, cs, line)
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) renderLine(buf *bytes.Buffer, x, y, cs float64, line []text.Segment) {
	mode := r.style.Highlight

	if mode == render.HighlightBackground {
		pos := x
		for _, seg := range line {
			w := r.measurer.Width(seg.Text)
			if seg.Named() && !seg.Bold {
				fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
					render.Num(pos), render.Num(y-cs+2), render.Num(w+0.3), render.Num(cs+2), colors.Lighten(seg.Color, render.HighlightLighten))
			}
			pos += w
		}
	}

	fmt.Fprintf(buf, `    <text x="%s" y="%s">`, render.Num(x), render.Num(y))
	for _, seg := range line {
		buf.WriteString(r.tspan(seg))
	}
	buf.WriteString("</text>\n")
}

// tspan styles one segment. Names of uncolored entities are drawn bold
// and underlined in black.
func (r svgRenderer) tspan(seg text.Segment) string {
	body := escapeXML(seg.Text)
	mode := r.style.Highlight
	switch {
	case mode == render.HighlightNone || !seg.Named():
		return fmt.Sprintf(`<tspan fill="%s">%s</tspan>`, render.TextColor, body)
	case seg.Bold:
		return fmt.Sprintf(`<tspan fill="%s" font-weight="bolder" text-decoration="underline">%s</tspan>`, render.TextColor, body)
	case mode == render.HighlightBackground:
		return fmt.Sprintf(`<tspan fill="%s" font-weight="bold" stroke="%s" stroke-width="1" paint-order="stroke">%s</tspan>`,
			render.TextColor, render.StatementFill, body)
	default:
		return fmt.Sprintf(`<tspan fill="%s" font-weight="bold">%s</tspan>`, seg.Color, body)
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
