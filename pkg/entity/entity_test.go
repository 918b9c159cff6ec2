package entity

import (
	"testing"

	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
)

func rect(x1, y1, x2, y2 int) []geom.Point {
	var coords []geom.Point
	for y := y1; y <= y2; y++ {
		coords = append(coords, geom.Pt(x1, y), geom.Pt(x2, y))
	}
	return coords
}

func mustNew(t *testing.T, name string, coords []geom.Point, stmts []int, headers bool) *Entity {
	t.Helper()
	e, err := New(0, name, coords, stmts, headers)
	if err != nil {
		t.Fatalf("New(%q) error: %v", name, err)
	}
	return e
}

type span struct{ start, end, other int }

func spans(ivs []*Interval) []span {
	out := make([]span, len(ivs))
	for i, iv := range ivs {
		out[i] = span{iv.Start, iv.End, iv.Other}
	}
	return out
}

func equalSpans(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestExtractCells(t *testing.T) {
	cs, err := ExtractCells(rect(0, 0, 2, 1))
	if err != nil {
		t.Fatalf("ExtractCells() error: %v", err)
	}
	if cs.Len() != 6 {
		t.Errorf("Len() = %d, want 6", cs.Len())
	}
	if !cs.Contains(2, 1) || cs.Contains(3, 1) {
		t.Error("Contains() wrong membership")
	}
	if got := cs.Rows[1]; len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("Rows[1] = %v, want [0 1 2]", got)
	}
	if got := cs.Cols[2]; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Cols[2] = %v, want [0 1]", got)
	}
	pts := cs.Points()
	if pts[0] != geom.Pt(0, 0) || pts[5] != geom.Pt(2, 1) {
		t.Errorf("Points() = %v, want row-major order", pts)
	}
}

func TestExtractCellsErrors(t *testing.T) {
	tests := []struct {
		name   string
		coords []geom.Point
	}{
		{"empty", nil},
		{"odd", []geom.Point{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(0, 1)}},
		{"row mismatch", []geom.Point{geom.Pt(0, 0), geom.Pt(1, 1)}},
		{"reversed", []geom.Point{geom.Pt(3, 0), geom.Pt(1, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractCells(tt.coords)
			if !errors.Is(err, errors.ErrCodeGeometry) {
				t.Errorf("ExtractCells() error = %v, want %v", err, errors.ErrCodeGeometry)
			}
		})
	}
}

func TestIntervalsRectangle(t *testing.T) {
	e := mustNew(t, "A", rect(0, 0, 2, 1), nil, false)

	if e.Width != 2 || e.Height != 1 {
		t.Errorf("size = %dx%d, want 2x1", e.Width, e.Height)
	}

	tests := []struct {
		side Side
		want []span
	}{
		{Top, []span{{0, 2, 0}}},
		{Right, []span{{0, 1, 2}}},
		{Bottom, []span{{0, 2, 1}}},
		{Left, []span{{0, 1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := spans(e.Intervals.Get(tt.side)); !equalSpans(got, tt.want) {
				t.Errorf("%s intervals = %v, want %v", tt.side, got, tt.want)
			}
		})
	}
	if e.Intervals.Count() != 4 {
		t.Errorf("Count() = %d, want 4", e.Intervals.Count())
	}
}

func TestIntervalsLShape(t *testing.T) {
	// X..
	// XXX
	coords := []geom.Point{geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(0, 1), geom.Pt(2, 1)}
	e := mustNew(t, "L", coords, nil, false)

	tests := []struct {
		side Side
		want []span
	}{
		{Top, []span{{0, 0, 0}, {1, 2, 1}}},
		{Right, []span{{0, 0, 0}, {1, 1, 2}}},
		{Bottom, []span{{0, 2, 1}}},
		{Left, []span{{0, 1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := spans(e.Intervals.Get(tt.side)); !equalSpans(got, tt.want) {
				t.Errorf("%s intervals = %v, want %v", tt.side, got, tt.want)
			}
		})
	}

	if tl := e.TopLeft(); tl == nil || tl.Start != 0 || tl.Other != 0 {
		t.Errorf("TopLeft() = %+v, want interval at row 0", tl)
	}
}

func TestTopLeftHeaderMargin(t *testing.T) {
	tests := []struct {
		name    string
		headers bool
		want    int
	}{
		{"without headers", false, 1},
		{"with headers", true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustNew(t, "A", rect(0, 0, 1, 1), nil, tt.headers)
			if got := e.TopLeft().Margin; got != tt.want {
				t.Errorf("TopLeft().Margin = %d, want %d", got, tt.want)
			}
			for _, iv := range e.Intervals.All() {
				if iv != e.TopLeft() && iv.Margin != 1 {
					t.Errorf("%s margin = %d, want 1", iv.Side, iv.Margin)
				}
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := mustNew(t, "A", rect(0, 0, 2, 0), []int{1, 2}, false)
	b := mustNew(t, "B", rect(2, 0, 4, 0), []int{3, 4}, false)
	c := mustNew(t, "C", rect(5, 0, 6, 0), []int{5, 6}, false)

	if !a.Intervals.Top[0].Overlaps(b.Intervals.Top[0]) {
		t.Error("same-side intervals sharing x=2 should overlap")
	}
	if !a.Intervals.Top[0].Overlaps(b.Intervals.Bottom[0]) {
		t.Error("opposite-side intervals sharing x=2 should overlap")
	}
	if a.Intervals.Top[0].Overlaps(b.Intervals.Left[0]) {
		t.Error("perpendicular intervals should never overlap")
	}
	if a.Intervals.Top[0].Overlaps(c.Intervals.Top[0]) {
		t.Error("disjoint ranges should not overlap")
	}

	b.Singleton = true
	if a.Intervals.Top[0].Overlaps(b.Intervals.Top[0]) {
		t.Error("singleton owners should never overlap")
	}
}

func TestCornerOverlaps(t *testing.T) {
	a := mustNew(t, "A", rect(1, 0, 2, 1), []int{1, 2}, false)
	left := a.Intervals.Left[0]
	left.StartPx, left.EndPx = 0, 50

	tests := []struct {
		name   string
		coords []geom.Point
		want   bool
	}{
		{"straddling corner", rect(0, 1, 1, 2), true},
		{"no shared corner cells", rect(0, 2, 1, 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustNew(t, "B", tt.coords, []int{3, 4}, false)
			right := b.Intervals.Right[0]
			right.StartPx, right.EndPx = 50, 100

			if got := left.CornerOverlaps(right); got != tt.want {
				t.Errorf("CornerOverlaps() = %v, want %v", got, tt.want)
			}
			if got := left.PixelOverlaps(right); got != tt.want {
				t.Errorf("PixelOverlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelOverlapsRanges(t *testing.T) {
	a := mustNew(t, "A", rect(0, 0, 1, 0), []int{1, 2}, false)
	b := mustNew(t, "B", rect(0, 0, 1, 0), []int{1, 2}, false)
	s1, s2 := a.Intervals.Top[0], b.Intervals.Top[0]

	s1.StartPx, s1.EndPx = 0, 100
	s2.StartPx, s2.EndPx = 90, 200
	if !s1.PixelOverlaps(s2) {
		t.Error("intersecting pixel ranges should overlap")
	}

	s2.StartPx = 100
	if s1.PixelOverlaps(s2) {
		t.Error("touching same-side ranges should not overlap")
	}
}

func TestClassifyHeaders(t *testing.T) {
	repeated := map[string]bool{"R": true}

	tests := []struct {
		name          string
		entity        string
		stmts         []int
		wantVisible   int
		wantMargin    int
		wantSingleton bool
	}{
		{"multi statement", "A", []int{0, 1}, 1, 3, false},
		{"repeated single", "R", []int{0}, 1, 3, false},
		{"plain single", "S", []int{0}, 0, 1, true},
		{"no statements", "T", nil, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustNew(t, tt.entity, rect(0, 0, 1, 1), tt.stmts, true)
			e.ClassifyHeaders(repeated, true)

			if e.VisibleHeaders != tt.wantVisible {
				t.Errorf("VisibleHeaders = %d, want %d", e.VisibleHeaders, tt.wantVisible)
			}
			if got := e.TopLeft().Margin; got != tt.wantMargin {
				t.Errorf("TopLeft().Margin = %d, want %d", got, tt.wantMargin)
			}
			if e.Singleton != tt.wantSingleton {
				t.Errorf("Singleton = %v, want %v", e.Singleton, tt.wantSingleton)
			}
		})
	}
}

func TestAbsorb(t *testing.T) {
	a := mustNew(t, "A", rect(0, 0, 1, 1), []int{0, 1}, true)
	b := mustNew(t, "B", rect(0, 0, 1, 1), []int{1, 0}, true)

	if !a.SameStatements(b) {
		t.Fatal("SameStatements() = false, want true")
	}

	a.Absorb(b, true)
	if len(a.Headers) != 2 || a.Headers[1].Name != "B" {
		t.Errorf("Headers = %+v, want [A B]", a.Headers)
	}
	if got := a.TopLeft().Margin; got != 5 {
		t.Errorf("TopLeft().Margin after Absorb = %d, want 5", got)
	}

	a.ClassifyHeaders(nil, true)
	if a.VisibleHeaders != 2 || a.TopLeft().Margin != 5 {
		t.Errorf("after ClassifyHeaders: visible=%d margin=%d, want 2 and 5", a.VisibleHeaders, a.TopLeft().Margin)
	}
}

func TestFillColor(t *testing.T) {
	e := mustNew(t, "A", rect(0, 0, 0, 0), []int{0}, false)
	e.Headers = []Header{
		{Name: "A", Kind: Primary, Color: "#111111"},
		{Name: "B", Kind: Duplicate, Color: "#222222"},
	}
	if got := e.FillColor(); got != "#222222" {
		t.Errorf("FillColor() = %v, want %v", got, "#222222")
	}

	e.Statements = []int{0, 1}
	if got := e.FillColor(); got != "#111111" {
		t.Errorf("FillColor() = %v, want %v", got, "#111111")
	}
}

func TestRepeatedNames(t *testing.T) {
	got := RepeatedNames([]string{"a", "b", "a", "c", "b", "a"})
	if len(got) != 2 || !got["a"] || !got["b"] || got["c"] {
		t.Errorf("RepeatedNames() = %v, want a and b", got)
	}
}

func TestSide(t *testing.T) {
	tests := []struct {
		side     Side
		opposite Side
		outward  int
		cell     geom.Point
	}{
		{Top, Bottom, -1, geom.Pt(3, 7)},
		{Right, Left, 1, geom.Pt(7, 3)},
		{Bottom, Top, 1, geom.Pt(3, 7)},
		{Left, Right, -1, geom.Pt(7, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := tt.side.Opposite(); got != tt.opposite {
				t.Errorf("Opposite() = %v, want %v", got, tt.opposite)
			}
			if got := tt.side.Outward(); got != tt.outward {
				t.Errorf("Outward() = %v, want %v", got, tt.outward)
			}
			if got := tt.side.Cell(3, 7); got != tt.cell {
				t.Errorf("Cell(3, 7) = %v, want %v", got, tt.cell)
			}
		})
	}
}
