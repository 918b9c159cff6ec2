// Package entity models a named region of grid cells and its boundary.
//
// An [Entity] is built from row-start/row-end coordinate pairs. Construction
// expands the pairs into a [CellSet] and derives the boundary [Interval]s on
// each of the four sides. The layout package later assigns margins and pixel
// coordinates to those intervals and stores the resulting polygon in Ring.
//
// Entities sharing a name across the input are "repeated": each copy keeps
// its own polygon but its header is tagged [Duplicate] so renderers can mark
// it and the color assigner gives every copy the same color.
package entity

import (
	"slices"

	"github.com/matzehuels/setgrid/pkg/geom"
)

// HeaderKind distinguishes an entity's own header from the header of a
// repeated name.
type HeaderKind int

const (
	Primary HeaderKind = iota
	Duplicate
)

func (k HeaderKind) String() string {
	if k == Duplicate {
		return "duplicate"
	}
	return "primary"
}

// MarshalText encodes the kind by name.
func (k HeaderKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind written by MarshalText.
func (k *HeaderKind) UnmarshalText(b []byte) error {
	if string(b) == "duplicate" {
		*k = Duplicate
	} else {
		*k = Primary
	}
	return nil
}

// Header is one label drawn at the top-left of an entity. Merged entities
// carry one header per source entity.
type Header struct {
	Name    string     `json:"name"`
	Kind    HeaderKind `json:"kind"`
	Color   string     `json:"color,omitempty"`
	Display string     `json:"display,omitempty"`
}

// Entity is a set of grid cells drawn as one orthogonal polygon.
type Entity struct {
	ID         int
	Name       string
	Coords     []geom.Point
	Statements []int

	Cells         *CellSet
	Width, Height int
	Intervals     Sides

	// Ring is the pixel polygon, clockwise from the top-left corner, stored
	// open (the first point is not repeated).
	Ring []geom.Point

	Headers        []Header
	Singleton      bool
	VisibleHeaders int
}

// New builds an entity and its boundary intervals. With headers enabled the
// top-left interval starts with room for one header.
func New(id int, name string, coords []geom.Point, statements []int, headers bool) (*Entity, error) {
	cells, err := ExtractCells(coords)
	if err != nil {
		return nil, err
	}

	stmts := slices.Clone(statements)
	slices.Sort(stmts)

	e := &Entity{
		ID:         id,
		Name:       name,
		Coords:     slices.Clone(coords),
		Statements: stmts,
		Cells:      cells,
		Headers:    []Header{{Name: name}},
	}
	e.Width, e.Height = dimensions(coords)

	if e.Intervals, err = buildIntervals(e, headers); err != nil {
		return nil, err
	}
	return e, nil
}

// TopLeft returns the interval reserving header space.
func (e *Entity) TopLeft() *Interval {
	for _, iv := range e.Intervals.Top {
		if iv.TopLeft {
			return iv
		}
	}
	return nil
}

// PrimaryName is the name of the entity's first header.
func (e *Entity) PrimaryName() string {
	return e.Headers[0].Name
}

// HasDuplicates reports whether any header belongs to a repeated name.
func (e *Entity) HasDuplicates() bool {
	return slices.ContainsFunc(e.Headers, func(h Header) bool { return h.Kind == Duplicate })
}

// HeaderVisible reports whether header i is drawn. Entities with more than
// one statement show every header; others show only repeated-name headers.
func (e *Entity) HeaderVisible(i int) bool {
	return len(e.Statements) > 1 || e.Headers[i].Kind == Duplicate
}

// FillColor is the color the polygon body is painted with.
func (e *Entity) FillColor() string {
	idx := 0
	if len(e.Statements) <= 1 {
		if i := slices.IndexFunc(e.Headers, func(h Header) bool { return h.Kind == Duplicate }); i >= 0 {
			idx = i
		}
	}
	return e.Headers[idx].Color
}

// SameStatements reports whether both entities hold the same statement ids.
func (e *Entity) SameStatements(o *Entity) bool {
	return slices.Equal(e.Statements, o.Statements)
}

// Absorb folds o's headers into e, growing the header reservation by one
// header row when headers are drawn. o must not be used afterwards.
func (e *Entity) Absorb(o *Entity, headers bool) {
	e.Headers = append(e.Headers, o.Headers...)
	if tl := e.TopLeft(); headers && tl != nil {
		tl.Margin += 2
	}
}

// ClassifyHeaders tags repeated-name headers, counts the visible headers,
// sizes the header reservation and decides whether the entity is a
// singleton (one statement at most and no repeated name).
func (e *Entity) ClassifyHeaders(repeated map[string]bool, headers bool) {
	dups := 0
	for i := range e.Headers {
		if repeated[e.Headers[i].Name] {
			e.Headers[i].Kind = Duplicate
			dups++
		} else {
			e.Headers[i].Kind = Primary
		}
	}

	if len(e.Statements) > 1 {
		e.VisibleHeaders = len(e.Headers)
	} else {
		e.VisibleHeaders = dups
	}

	if tl := e.TopLeft(); headers && tl != nil {
		tl.Margin = 2*e.VisibleHeaders + 1
	}

	e.Singleton = dups == 0 && len(e.Statements) <= 1
}

// Closed returns the ring with its first point appended.
func (e *Entity) Closed() []geom.Point {
	if len(e.Ring) == 0 {
		return nil
	}
	return append(slices.Clone(e.Ring), e.Ring[0])
}

// RepeatedNames returns the names that occur more than once.
func RepeatedNames(names []string) map[string]bool {
	seen := make(map[string]int, len(names))
	for _, n := range names {
		seen[n]++
	}
	out := make(map[string]bool)
	for n, c := range seen {
		if c > 1 {
			out[n] = true
		}
	}
	return out
}
