package io

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
	"github.com/matzehuels/setgrid/pkg/layout"
)

// Solution types.
const (
	TypeRectangles = "rectangles"
	TypePolygons   = "polygons"
)

var (
	typeRe      = regexp.MustCompile(`type:\s*(\w+)`)
	sizeRe      = regexp.MustCompile(`w:\s*(\d+)\s*\n\s*h:\s*(\d+)`)
	rectRe      = regexp.MustCompile(`Entity (.+?): \((-?\d+), (-?\d+)\) - \((-?\d+), (-?\d+)\)`)
	polyRe      = regexp.MustCompile(`Entity (.+?): ((?:\(-?\d+, -?\d+\)(?:\s*-\s*\(-?\d+, -?\d+\))*)+)`)
	pointRe     = regexp.MustCompile(`\((-?\d+), (-?\d+)\)`)
	statementRe = regexp.MustCompile(`Statement (.+?): \((-?\d+), (-?\d+)\)`)
)

// maxCells bounds the number of cells a solution may cover, summed over
// its entities.
const maxCells = 1 << 22

// ParseSolution decodes solution text. Coordinates are checked against the
// grid before any entity is expanded into cells.
func ParseSolution(src string) (*layout.Document, error) {
	m := typeRe.FindStringSubmatch(src)
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "solution has no type line")
	}
	kind := m[1]

	m = sizeRe.FindStringSubmatch(src)
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "solution has no w/h lines")
	}
	var p parser
	doc := &layout.Document{Width: p.int(m[1]) + 1, Height: p.int(m[2]) + 1}
	if p.err != nil {
		return nil, p.err
	}
	p.doc = doc

	switch kind {
	case TypeRectangles:
		for _, m := range rectRe.FindAllStringSubmatch(src, -1) {
			a, b := p.point(m[2], m[3]), p.point(m[4], m[5])
			p.span(m[1], a, b, b.Y-a.Y+1)
			if p.err != nil {
				return nil, p.err
			}
			var coords []geom.Point
			for y := a.Y; y <= b.Y; y++ {
				coords = append(coords, geom.Pt(a.X, y), geom.Pt(b.X, y))
			}
			doc.Entities = append(doc.Entities, layout.EntityInput{
				ID: len(doc.Entities), Name: m[1], Coords: coords,
			})
		}
	case TypePolygons:
		for _, m := range polyRe.FindAllStringSubmatch(src, -1) {
			var coords []geom.Point
			for _, pt := range pointRe.FindAllStringSubmatch(m[2], -1) {
				coords = append(coords, p.point(pt[1], pt[2]))
			}
			for i := 0; i+1 < len(coords); i += 2 {
				p.span(m[1], coords[i], coords[i+1], 1)
			}
			if p.err != nil {
				return nil, p.err
			}
			doc.Entities = append(doc.Entities, layout.EntityInput{
				ID: len(doc.Entities), Name: m[1], Coords: coords,
			})
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown solution type %q", kind)
	}

	for _, m := range statementRe.FindAllStringSubmatch(src, -1) {
		pt := p.point(m[2], m[3])
		if p.err != nil {
			return nil, p.err
		}
		doc.Statements = append(doc.Statements, layout.StatementInput{
			ID: len(doc.Statements), Text: m[1], X: pt.X, Y: pt.Y,
		})
	}

	if err := attachStatements(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// parser keeps the first error met while reading numbers and spans.
type parser struct {
	doc   *layout.Document
	cells int
	err   error
}

// int parses digits already matched by a regexp. Only overflow can fail.
func (p *parser) int(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = errors.New(errors.ErrCodeInvalidFormat, "number %s is out of range", s)
	}
	return n
}

func (p *parser) point(x, y string) geom.Point {
	return geom.Pt(p.int(x), p.int(y))
}

// span checks that the rows*columns block from a to b lies inside the grid
// and charges it against maxCells. Reversed spans are left for the cell
// extraction to report.
func (p *parser) span(name string, a, b geom.Point, rows int) {
	if p.err != nil {
		return
	}
	for _, q := range []geom.Point{a, b} {
		if q.X < 0 || q.Y < 0 || q.X >= p.doc.Width || q.Y >= p.doc.Height {
			p.err = errors.New(errors.ErrCodeGeometry, "entity %q coordinate %v is outside the %dx%d grid",
				name, q, p.doc.Width, p.doc.Height)
			return
		}
	}
	if rows <= 0 || b.X < a.X {
		return
	}
	cols := b.X - a.X + 1
	if rows > maxCells || cols > maxCells || p.cells+rows*cols > maxCells {
		p.err = errors.New(errors.ErrCodeInvalidInput, "solution covers more than %d cells", maxCells)
		return
	}
	p.cells += rows * cols
}

// attachStatements adds every statement to the entities covering its cell.
func attachStatements(doc *layout.Document) error {
	for i := range doc.Entities {
		e := &doc.Entities[i]
		cells, err := entity.ExtractCells(e.Coords)
		if err != nil {
			return errors.Wrap(errors.ErrCodeGeometry, err, "entity %q", e.Name)
		}
		for _, s := range doc.Statements {
			if cells.Contains(s.X, s.Y) {
				e.Statements = append(e.Statements, s.ID)
			}
		}
	}
	return nil
}

// ReadSolution decodes solution text from r.
func ReadSolution(r io.Reader) (*layout.Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseSolution(string(b))
}

// WriteSolution encodes doc in the polygon solution format. Entity
// statements are not written; they are recovered from the cells on read.
func WriteSolution(doc *layout.Document, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "type: %s\nw: %d\nh: %d\n", TypePolygons, doc.Width-1, doc.Height-1)
	for _, e := range doc.Entities {
		pts := make([]string, len(e.Coords))
		for i, p := range e.Coords {
			pts[i] = fmt.Sprintf("(%d, %d)", p.X, p.Y)
		}
		fmt.Fprintf(bw, "Entity %s: %s\n", e.Name, strings.Join(pts, " - "))
	}
	for _, s := range doc.Statements {
		fmt.Fprintf(bw, "Statement %s: (%d, %d)\n", s.Text, s.X, s.Y)
	}
	return bw.Flush()
}
