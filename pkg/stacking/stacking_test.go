package stacking

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/geom"
)

func rect(x1, y1, x2, y2 int) []geom.Point {
	var coords []geom.Point
	for y := y1; y <= y2; y++ {
		coords = append(coords, geom.Pt(x1, y), geom.Pt(x2, y))
	}
	return coords
}

func mustNew(t *testing.T, id int, name string, coords []geom.Point) *entity.Entity {
	t.Helper()
	e, err := entity.New(id, name, coords, nil, false)
	if err != nil {
		t.Fatalf("entity.New(%q) error: %v", name, err)
	}
	return e
}

// fixture returns a 1x1 entity nested in a 3x3 one plus an isolated 1x1.
func fixture(t *testing.T) (inner, outer, far *entity.Entity) {
	inner = mustNew(t, 1, "inner", rect(1, 1, 1, 1))
	outer = mustNew(t, 2, "outer", rect(0, 0, 2, 2))
	far = mustNew(t, 3, "far", rect(6, 6, 6, 6))
	return inner, outer, far
}

func TestCountCovered(t *testing.T) {
	inner, outer, far := fixture(t)

	tests := []struct {
		name   string
		e      *entity.Entity
		others []*entity.Entity
		want   int
	}{
		{"nested inside outer", inner, []*entity.Entity{outer, far}, 4},
		{"outer around inner", outer, []*entity.Entity{inner, far}, 0},
		{"isolated", far, []*entity.Entity{inner, outer}, 0},
		{"nothing left", inner, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCovered(tt.e, tt.others); got != tt.want {
				t.Errorf("CountCovered() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCoveredPartial(t *testing.T) {
	// A 3-wide strip whose top is only partly under the other entity.
	strip := mustNew(t, 1, "strip", rect(0, 1, 2, 1))
	lid := mustNew(t, 2, "lid", rect(0, 0, 1, 1))

	top := strip.Intervals.Top[0]
	if Covered(top, []*entity.Entity{lid}) {
		t.Error("Covered() = true for a partly hidden interval, want false")
	}
}

func TestCoveredSingleCellNeedsBothCorners(t *testing.T) {
	inner := mustNew(t, 1, "inner", rect(1, 1, 1, 1))
	// Holds the cell above and left of inner but nothing to the right.
	left := mustNew(t, 2, "left", rect(0, 0, 1, 1))

	top := inner.Intervals.Top[0]
	if Covered(top, []*entity.Entity{left}) {
		t.Error("Covered() = true with only the start corner closed, want false")
	}

	right := mustNew(t, 3, "right", rect(1, 0, 2, 1))
	if !Covered(top, []*entity.Entity{left, right}) {
		t.Error("Covered() = false with both corners closed by different entities, want true")
	}
}

func TestOrder(t *testing.T) {
	inner, outer, far := fixture(t)
	in := []*entity.Entity{inner, outer, far}

	got := Order(in)
	if len(got) != len(in) {
		t.Fatalf("Order() returned %d entities, want %d", len(got), len(in))
	}

	seen := make(map[*entity.Entity]int)
	for _, e := range got {
		seen[e]++
	}
	for _, e := range in {
		if seen[e] != 1 {
			t.Errorf("entity %q picked %d times, want 1", e.Name, seen[e])
		}
	}

	if slices.Index(got, outer) > slices.Index(got, inner) {
		t.Errorf("outer painted after inner: %v", names(got))
	}
	if in[0] != inner || in[1] != outer || in[2] != far {
		t.Error("Order() modified its input")
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := Order(nil); len(got) != 0 {
		t.Errorf("Order(nil) = %v, want empty", got)
	}
}

func TestOverlapAndGraph(t *testing.T) {
	inner, outer, far := fixture(t)

	if !Overlap(inner, outer) {
		t.Error("Overlap(inner, outer) = false, want true")
	}
	if Overlap(inner, far) {
		t.Error("Overlap(inner, far) = true, want false")
	}

	g := Graph([]*entity.Entity{inner, outer, far})
	want := [][]int{{1}, {0}, nil}
	for i := range want {
		if !slices.Equal(g[i], want[i]) {
			t.Errorf("Graph()[%d] = %v, want %v", i, g[i], want[i])
		}
	}
}

func TestDOT(t *testing.T) {
	inner, outer, far := fixture(t)
	dot := DOT([]*entity.Entity{inner, outer, far})

	for _, want := range []string{"graph G {", "n0 -- n1;", `"outer\n#1"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n2 --") || strings.Contains(dot, "-- n2") {
		t.Errorf("DOT() links the isolated entity:\n%s", dot)
	}
}

func names(es []*entity.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Name
	}
	return out
}

// lShape is a vertical bar at x=1 (rows 1-3) with an arm along row 3 to
// x=3. Its top side has two intervals: the bar top and the arm top, which
// starts at the concave corner.
func lShape(t *testing.T) *entity.Entity {
	t.Helper()
	coords := []geom.Point{
		geom.Pt(1, 1), geom.Pt(1, 1),
		geom.Pt(1, 2), geom.Pt(1, 2),
		geom.Pt(1, 3), geom.Pt(3, 3),
	}
	return mustNew(t, 1, "ell", coords)
}

func TestConcaveCorner(t *testing.T) {
	ell := lShape(t)
	if got := ell.Intervals.Count(); got != 6 {
		t.Fatalf("Intervals.Count() = %d, want 6", got)
	}
	arm := ell.Intervals.Top[1]
	if arm.Start != 2 || arm.End != 3 || arm.Other != 3 {
		t.Fatalf("arm top = %d..%d at %d, want 2..3 at 3", arm.Start, arm.End, arm.Other)
	}

	tests := []struct {
		name   string
		coords []geom.Point
		want   bool
	}{
		// Fills the notch above the arm but leaves the bar cells at the
		// concave corner to the owner.
		{"notch only", rect(2, 2, 4, 3), false},
		// Also holds the bar cells beside the corner.
		{"notch and corner", rect(1, 2, 4, 3), true},
		// Holds the corner but stops short of the far end.
		{"short of far end", rect(1, 2, 3, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := mustNew(t, 2, "other", tt.coords)
			if got := Covered(arm, []*entity.Entity{other}); got != tt.want {
				t.Errorf("Covered(arm) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcaveNestedOrder(t *testing.T) {
	ell := lShape(t)
	outer := mustNew(t, 2, "outer", rect(0, 0, 4, 4))

	if got, want := CountCovered(ell, []*entity.Entity{outer}), ell.Intervals.Count(); got != want {
		t.Errorf("CountCovered(ell) = %d, want all %d", got, want)
	}
	if got := CountCovered(outer, []*entity.Entity{ell}); got != 0 {
		t.Errorf("CountCovered(outer) = %d, want 0", got)
	}
	if got := Order([]*entity.Entity{ell, outer}); got[0] != outer {
		t.Errorf("Order() = %v, want outer first", names(got))
	}
}
