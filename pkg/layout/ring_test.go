package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
)

// polygon returns the closed chain of edges through pts, rotated by shift
// so the walk cannot rely on input order.
func polygon(shift int, pts ...geom.Point) []edge {
	edges := make([]edge, len(pts))
	for i := range pts {
		edges[i] = edge{from: pts[i], to: pts[(i+1)%len(pts)]}
	}
	shift %= len(edges)
	return append(edges[shift:], edges[:shift]...)
}

func TestWalkRing(t *testing.T) {
	lShape := []geom.Point{
		geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10),
		geom.Pt(20, 10), geom.Pt(20, 20), geom.Pt(0, 20),
	}
	uShape := []geom.Point{
		geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(20, 10),
		geom.Pt(20, 0), geom.Pt(30, 0), geom.Pt(30, 20), geom.Pt(0, 20),
	}

	tests := []struct {
		name  string
		edges []edge
		want  []geom.Point
	}{
		{"rectangle", polygon(2, geom.Pt(0, 0), geom.Pt(30, 0), geom.Pt(30, 20), geom.Pt(0, 20)),
			[]geom.Point{geom.Pt(0, 0), geom.Pt(30, 0), geom.Pt(30, 20), geom.Pt(0, 20)}},
		{"L shape", polygon(3, lShape...), lShape},
		{"U shape", polygon(5, uShape...), uShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := walkRing(tt.edges)
			if err != nil {
				t.Fatalf("walkRing() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("walkRing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkRingRejects(t *testing.T) {
	square := func(x, y int) []edge {
		return polygon(0, geom.Pt(x, y), geom.Pt(x+10, y), geom.Pt(x+10, y+10), geom.Pt(x, y+10))
	}
	broken := square(0, 0)[:3]

	tests := []struct {
		name  string
		edges []edge
	}{
		{"empty", nil},
		{"two regions", append(square(0, 0), square(20, 20)...)},
		{"open chain", broken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := walkRing(tt.edges); err == nil {
				t.Errorf("walkRing() = %v, want error", got)
			}
		})
	}
}

func TestDisconnectedEntity(t *testing.T) {
	doc := &Document{
		Width:  3,
		Height: 2,
		Entities: []EntityInput{
			{ID: 1, Name: "Split", Coords: []geom.Point{geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(2, 1), geom.Pt(2, 1)}, Statements: []int{1}},
		},
		Statements: []StatementInput{{ID: 1, X: 0, Y: 0, Text: "left part"}},
	}

	c, err := Prepare(doc, Config{})
	if err == nil {
		err = c.Resolve(t.Context())
	}
	if !errors.Is(err, errors.ErrCodeGeometry) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeGeometry)
	}
}

func TestConcaveEntityRings(t *testing.T) {
	tests := []struct {
		name   string
		coords []geom.Point
		points int
	}{
		{"L shape", []geom.Point{geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(0, 1), geom.Pt(1, 1)}, 6},
		{"U shape", []geom.Point{geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, 0), geom.Pt(0, 1), geom.Pt(2, 1)}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{
				Width:  3,
				Height: 2,
				Entities: []EntityInput{
					{ID: 1, Name: "Shape", Coords: tt.coords, Statements: []int{1}},
				},
				Statements: []StatementInput{{ID: 1, X: 0, Y: 0, Text: "corner"}},
			}
			c := resolve(t, doc, Config{})
			ring := c.Entities[0].Ring
			if len(ring) != tt.points {
				t.Fatalf("Ring has %d points, want %d: %v", len(ring), tt.points, ring)
			}
			for i, p := range ring {
				q := ring[(i+1)%len(ring)]
				if p.X != q.X && p.Y != q.Y {
					t.Errorf("Ring side %v -> %v is not axis-aligned", p, q)
				}
			}
		})
	}
}
