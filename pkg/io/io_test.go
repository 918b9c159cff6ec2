package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
)

const rectangles = `type: rectangles
w: 4
h: 2
Entity Dorian Gray [Dorian]: (0, 0) - (2, 1)
Entity London: (1, 1) - (4, 2)
Statement Dorian lives in London.: (1, 1)
Statement Only London: (4, 2)
`

func TestParseRectangles(t *testing.T) {
	doc, err := ParseSolution(rectangles)
	if err != nil {
		t.Fatalf("ParseSolution() error: %v", err)
	}
	if doc.Width != 5 || doc.Height != 3 {
		t.Errorf("size = %dx%d, want 5x3", doc.Width, doc.Height)
	}
	if len(doc.Entities) != 2 || len(doc.Statements) != 2 {
		t.Fatalf("got %d entities and %d statements, want 2 and 2", len(doc.Entities), len(doc.Statements))
	}

	dorian := doc.Entities[0]
	if dorian.Name != "Dorian Gray [Dorian]" || dorian.ID != 0 {
		t.Errorf("entity 0 = %d %q", dorian.ID, dorian.Name)
	}
	wantCoords := []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(0, 1), geom.Pt(2, 1)}
	if !slices.Equal(dorian.Coords, wantCoords) {
		t.Errorf("coords = %v, want %v", dorian.Coords, wantCoords)
	}

	tests := []struct {
		entity int
		want   []int
	}{
		{0, []int{0}},
		{1, []int{0, 1}},
	}
	for _, tt := range tests {
		if got := doc.Entities[tt.entity].Statements; !slices.Equal(got, tt.want) {
			t.Errorf("entity %d statements = %v, want %v", tt.entity, got, tt.want)
		}
	}

	if s := doc.Statements[0]; s.Text != "Dorian lives in London." || s.X != 1 || s.Y != 1 {
		t.Errorf("statement 0 = %+v", s)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestParsePolygons(t *testing.T) {
	src := "type: polygons\nw: 3\nh: 1\n" +
		"Entity Basil: (0, 0) - (3, 0) - (1, 1) - (2, 1)\n" +
		"Statement in the gap: (0, 1)\n" +
		"Statement in Basil: (2, 1)\n"

	doc, err := ParseSolution(src)
	if err != nil {
		t.Fatalf("ParseSolution() error: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Fatalf("len(Entities) = %d, want 1", len(doc.Entities))
	}
	if got := len(doc.Entities[0].Coords); got != 4 {
		t.Errorf("len(Coords) = %d, want 4", got)
	}
	if got, want := doc.Entities[0].Statements, []int{1}; !slices.Equal(got, want) {
		t.Errorf("Statements = %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"no type", "w: 1\nh: 1\n", errors.ErrCodeInvalidFormat},
		{"no size", "type: rectangles\n", errors.ErrCodeInvalidFormat},
		{"unknown type", "type: circles\nw: 1\nh: 1\n", errors.ErrCodeInvalidFormat},
		{"inverted rectangle", "type: rectangles\nw: 3\nh: 3\nEntity A: (0, 2) - (1, 0)\n", errors.ErrCodeGeometry},
		{"span past grid", "type: rectangles\nw: 1\nh: 1\nEntity A: (0, 0) - (5000000, 0)\n", errors.ErrCodeGeometry},
		{"rows past grid", "type: rectangles\nw: 1\nh: 1\nEntity A: (0, 0) - (1, 5000000)\n", errors.ErrCodeGeometry},
		{"polygon past grid", "type: polygons\nw: 1\nh: 1\nEntity A: (0, 0) - (9000000, 0)\n", errors.ErrCodeGeometry},
		{"negative point", "type: polygons\nw: 1\nh: 1\nEntity A: (-1, 0) - (1, 0)\n", errors.ErrCodeGeometry},
		{"too many cells", "type: rectangles\nw: 4194304\nh: 1\nEntity A: (0, 0) - (4194304, 1)\n", errors.ErrCodeInvalidInput},
		{"size overflow", "type: rectangles\nw: 99999999999999999999\nh: 1\n", errors.ErrCodeInvalidFormat},
		{"coordinate overflow", "type: rectangles\nw: 1\nh: 1\nEntity A: (0, 0) - (99999999999999999999, 0)\n", errors.ErrCodeInvalidFormat},
		{"statement overflow", "type: rectangles\nw: 1\nh: 1\nEntity A: (0, 0) - (1, 1)\nStatement s: (0, 99999999999999999999)\n", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSolution(tt.src)
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSolutionRoundTrip(t *testing.T) {
	doc, err := ParseSolution(rectangles)
	if err != nil {
		t.Fatalf("ParseSolution() error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteSolution(doc, &buf); err != nil {
		t.Fatalf("WriteSolution() error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "type: polygons\nw: 4\nh: 2\n") {
		t.Errorf("header = %q", buf.String())
	}

	back, err := ReadSolution(&buf)
	if err != nil {
		t.Fatalf("ReadSolution() error: %v", err)
	}
	for i := range doc.Entities {
		if !slices.Equal(back.Entities[i].Coords, doc.Entities[i].Coords) ||
			!slices.Equal(back.Entities[i].Statements, doc.Entities[i].Statements) {
			t.Errorf("entity %d = %+v, want %+v", i, back.Entities[i], doc.Entities[i])
		}
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	doc, err := ParseSolution(rectangles)
	if err != nil {
		t.Fatalf("ParseSolution() error: %v", err)
	}

	jsonPath := filepath.Join(dir, "doc.json")
	txtPath := filepath.Join(dir, "doc.txt")
	for _, path := range []string{jsonPath, txtPath} {
		if err := Export(doc, path); err != nil {
			t.Fatalf("Export(%s) error: %v", path, err)
		}
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 2 {
		t.Errorf("dir has %d entries after export, want 2", len(entries))
	}

	for _, path := range []string{jsonPath, txtPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			got, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			if got.Width != doc.Width || len(got.Entities) != len(doc.Entities) {
				t.Errorf("Import() = %+v, want %+v", got, doc)
			}
		})
	}

	if _, err := Import(filepath.Join(dir, "missing.txt")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestReadJSONValidates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"malformed", `{"width":`, errors.ErrCodeInvalidFormat},
		{"no entities", `{"width": 2, "height": 2}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.src))
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}
