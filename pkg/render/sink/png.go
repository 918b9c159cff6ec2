package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"github.com/matzehuels/setgrid/pkg/colors"
	"github.com/matzehuels/setgrid/pkg/fonts"
	"github.com/matzehuels/setgrid/pkg/geom"
	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/render"
	"github.com/matzehuels/setgrid/pkg/text"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style render.Style
	scale float64
}

// WithPNGStyle sets the drawing style.
func WithPNGStyle(s render.Style) PNGOption {
	return func(r *pngRenderer) { r.style = s }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the layout. It draws the same shapes as
// [RenderSVG]; rounded corners are approximated by quadratic curves.
func RenderPNG(res *layout.Result, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: render.DefaultStyle(), scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", r.scale)
	}

	regular, err := loadFace(fonts.RegularTTF(), float64(res.CellSize))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	bold, err := loadFace(fonts.BoldTTF(), float64(res.CellSize))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	dc := gg.NewContext(int(float64(res.Width)*r.scale), int(float64(res.Height)*r.scale))
	dc.Scale(r.scale, r.scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	p := painter{dc: dc, style: r.style, cs: float64(res.CellSize), regular: regular, bold: bold}
	for _, e := range res.Entities {
		p.entity(res.Mode, e)
	}
	for _, s := range res.Statements {
		p.statement(s)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}

type painter struct {
	dc            *gg.Context
	style         render.Style
	cs            float64
	regular, bold font.Face
}

func (p painter) color(hex string, alpha float64) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{}
	}
	p.dc.SetRGBA(c.R, c.G, c.B, alpha)
}

// path traces the rounded polygon pts as the current path.
func (p painter) path(pts []geom.Point, radius float64) {
	p.dc.NewSubPath()
	for i, c := range render.RoundCorners(pts, radius) {
		if i == 0 {
			p.dc.MoveTo(c.Start.X, c.Start.Y)
		} else {
			p.dc.LineTo(c.Start.X, c.Start.Y)
		}
		p.dc.QuadraticTo(c.Vertex.X, c.Vertex.Y, c.End.X, c.End.Y)
	}
	p.dc.ClosePath()
}

func (p painter) entity(mode layout.Mode, e layout.EntityLayout) {
	if e.Singleton || len(e.Ring) < 3 {
		return
	}
	st := p.style

	if st.Shadow {
		p.path(render.Offset(e.Ring, render.ShadowOffset, render.ShadowOffset), st.CornerRadius)
		p.color(render.ShadowColor, 0.5)
		p.dc.Fill()
	}

	if mode == layout.Transparent {
		for _, c := range fills(e) {
			p.path(e.Ring, st.CornerRadius)
			p.color(c, render.TransparentOpacity)
			p.dc.Fill()
		}
		p.path(e.Ring, st.CornerRadius)
		p.color(e.Color, 1)
		p.dc.SetLineWidth(1)
		p.dc.Stroke()
	} else {
		p.path(e.Ring, st.CornerRadius)
		p.color(e.Color, 1)
		p.dc.Fill()
	}

	if st.Outlined(e.Repeated) {
		p.path(e.Ring, st.CornerRadius)
		if st.OutlineEntityColor {
			p.color(colors.Darken(e.Color, render.OutlineDarken), 1)
		} else {
			p.color(st.OutlineColor, 0.5)
		}
		p.dc.SetLineWidth(st.Stroke())
		if st.Dashed(e.Repeated) {
			p.dc.SetDash(6, 2)
		}
		p.dc.Stroke()
		p.dc.SetDash()
	}

	for k, h := range e.Headers {
		p.header(e, k, h)
	}
}

func (p painter) header(e layout.EntityLayout, k int, h layout.HeaderBox) {
	radius := max(p.style.CornerRadius-1, 0)
	p.dc.SetFontFace(p.regular)

	p.path(render.RectPoints(h.Rect), radius)
	p.color(h.Color, 1)
	p.dc.Fill()

	if h.Duplicate {
		x0, top := float64(e.Ring[0].X), float64(h.Rect.Min.Y-1)
		width, height := float64(e.Ring[1].X-e.Ring[0].X), float64(h.Rect.Dy())
		p.dc.DrawRectangle(x0+5, top+1, width-7, height-1)
		p.dc.Clip()
		p.color(render.HeaderTextColor, 1)
		p.dc.SetLineWidth(0.75)
		for x := -height; x < width+height; x += hatchSpacing {
			p.dc.DrawLine(x0+x, top, x0+x+height, top+height)
			p.dc.DrawLine(x0+x+height, top, x0+x, top+height)
		}
		p.dc.Stroke()
		p.dc.ResetClip()
	}

	w, _ := p.dc.MeasureString(h.Display)
	name := h.Rect
	name.Max.X = name.Min.X + int(w+2*p.cs)
	p.path(render.RectPoints(name), radius)
	p.color(h.Color, 1)
	p.dc.Fill()

	top := float64(e.Ring[0].Y) + float64(k)*2*p.cs
	p.color(render.HeaderTextColor, 1)
	p.dc.DrawString(h.Display, float64(e.Ring[0].X)+p.cs+1, top+1.25*p.cs+1)
}

func (p painter) statement(s layout.StatementLayout) {
	st := p.style
	p.path(render.RectPoints(s.Rect), st.CornerRadius)
	p.color(render.StatementFill, 1)
	p.dc.FillPreserve()
	p.color(render.StatementStroke, 0.5)
	p.dc.SetLineWidth(st.Stroke())
	p.dc.Stroke()

	x0 := float64(s.Rect.Min.X) + p.cs
	for i, line := range text.Segments(s.Text, s.Lines, s.Spans) {
		y := float64(s.Rect.Min.Y) + float64(2+i)*p.cs
		x := x0
		for _, seg := range line {
			x += p.segment(seg, x, y)
		}
	}
}

// segment draws one run of text at baseline y and returns its advance.
func (p painter) segment(seg text.Segment, x, y float64) float64 {
	mode := p.style.Highlight
	named := seg.Named() && mode != render.HighlightNone

	face, fill := p.regular, render.TextColor
	if named {
		face = p.bold
		if !seg.Bold && mode == render.HighlightText {
			fill = seg.Color
		}
	}
	p.dc.SetFontFace(face)
	w, _ := p.dc.MeasureString(seg.Text)

	if named && !seg.Bold && mode == render.HighlightBackground {
		p.color(colors.Lighten(seg.Color, render.HighlightLighten), 1)
		p.dc.DrawRectangle(x, y-p.cs+2, w+0.3, p.cs+2)
		p.dc.Fill()
	}

	p.color(fill, 1)
	p.dc.DrawString(seg.Text, x, y)

	if named && seg.Bold {
		p.dc.SetLineWidth(1)
		p.dc.DrawLine(x, y+1, x+w, y+1)
		p.dc.Stroke()
	}
	return w
}
