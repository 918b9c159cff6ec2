package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/setgrid/pkg/geom"
	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/render"
	"github.com/matzehuels/setgrid/pkg/text"
)

func testResult() *layout.Result {
	return &layout.Result{
		Width:    200,
		Height:   120,
		CellSize: 10,
		Mode:     layout.Stacked,
		Headers:  true,
		Entities: []layout.EntityLayout{
			{
				ID:       0,
				Name:     "Alice",
				Ring:     render.RectPoints(geom.R(10, 10, 100, 70)),
				Color:    "#4E79A7",
				Colors:   []string{"#4E79A7"},
				Repeated: true,
				Headers: []layout.HeaderBox{
					{Name: "Alice", Display: "Alice", Color: "#4E79A7", Duplicate: true, Rect: geom.R(11, 11, 98, 20)},
				},
			},
			{ID: 1, Name: "Bob", Ring: render.RectPoints(geom.R(150, 10, 10, 10)), Color: "#F28E2B", Singleton: true},
		},
		Statements: []layout.StatementLayout{
			{
				ID:    0,
				Text:  "Alice met Bob & Carl",
				Lines: []string{"Alice met", "Bob & Carl"},
				Spans: []text.Span{{Start: 0, End: 5, Color: "#E15759"}},
				Rect:  geom.R(20, 40, 80, 30),
			},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testResult()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 120"`,
		`id="entity-0"`,
		`fill="#4E79A7"`,
		`stroke-dasharray="6,2"`,
		`clip-path="url(#clip-0-0)"`,
		`<tspan fill="#E15759" font-weight="bold">Alice</tspan>`,
		`<tspan fill="#000000"> met</tspan>`,
		`Bob &amp; Carl`,
		`id="statement-0"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Contains(svg, `id="entity-1"`) {
		t.Error("singleton entity should not be drawn")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestRenderSVGStyles(t *testing.T) {
	tests := []struct {
		name   string
		style  func(*render.Style)
		mode   layout.Mode
		want   string
		absent string
	}{
		{
			name:   "no highlight",
			style:  func(s *render.Style) { s.Highlight = render.HighlightNone },
			absent: `font-weight="bold"`,
		},
		{
			name:  "background highlight",
			style: func(s *render.Style) { s.Highlight = render.HighlightBackground },
			want:  `paint-order="stroke"`,
		},
		{
			name:   "solid outline",
			style:  func(s *render.Style) { s.DashRepeated = false },
			absent: `stroke-dasharray`,
		},
		{
			name:  "shadow",
			style: func(s *render.Style) { s.Shadow = true },
			want:  `fill="#323232" fill-opacity="0.5"`,
		},
		{
			name: "transparent",
			mode: layout.Transparent,
			want: `fill="#4E79A7" fill-opacity="0.15"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := render.DefaultStyle()
			if tt.style != nil {
				tt.style(&style)
			}
			res := testResult()
			if tt.mode != "" {
				res.Mode = tt.mode
			}
			svg := string(RenderSVG(res, WithStyle(style)))
			if tt.want != "" && !strings.Contains(svg, tt.want) {
				t.Errorf("svg missing %q", tt.want)
			}
			if tt.absent != "" && strings.Contains(svg, tt.absent) {
				t.Errorf("svg unexpectedly contains %q", tt.absent)
			}
		})
	}
}

func TestRenderSVGEmbeddedFont(t *testing.T) {
	svg := string(RenderSVG(testResult(), WithEmbeddedFont(), WithInteraction()))
	if !strings.Contains(svg, "@font-face") {
		t.Error("missing @font-face")
	}
	if !strings.Contains(svg, ".entity:hover") {
		t.Error("missing interaction css")
	}
}

func TestRenderPNG(t *testing.T) {
	tests := []struct {
		scale         float64
		width, height int
	}{
		{1, 200, 120},
		{2, 400, 240},
	}

	for _, tt := range tests {
		data, err := RenderPNG(testResult(), WithScale(tt.scale))
		if err != nil {
			t.Fatalf("RenderPNG(scale %v) error: %v", tt.scale, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("png.Decode() error: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != tt.width || b.Dy() != tt.height {
			t.Errorf("scale %v: size = %dx%d, want %dx%d", tt.scale, b.Dx(), b.Dy(), tt.width, tt.height)
		}
	}
}

func TestRenderPNGInvalidScale(t *testing.T) {
	if _, err := RenderPNG(testResult(), WithScale(0)); err == nil {
		t.Error("expected error for zero scale")
	}
}

func TestRenderJSON(t *testing.T) {
	res := testResult()
	data, err := RenderJSON(res, WithJSONRunID("run-1"), WithJSONStyle(render.DefaultStyle()))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if raw["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", raw["run_id"])
	}
	if _, ok := raw["style"]; !ok {
		t.Error("style missing")
	}

	back, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if back.Width != res.Width || back.Height != res.Height {
		t.Errorf("size = %dx%d, want %dx%d", back.Width, back.Height, res.Width, res.Height)
	}
	if len(back.Entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(back.Entities))
	}
	if got := back.Entities[0].Ring; len(got) != 4 || got[2] != geom.Pt(110, 80) {
		t.Errorf("ring = %v, want rectangle to (110, 80)", got)
	}
	if got := back.Statements[0].Spans; len(got) != 1 || got[0].Color != "#E15759" {
		t.Errorf("spans = %v", got)
	}
}
