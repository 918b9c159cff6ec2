package layout

import (
	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/geom"
)

// Document is a grid solution: entities and statements on a Width×Height
// grid.
type Document struct {
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Entities   []EntityInput    `json:"entities"`
	Statements []StatementInput `json:"statements"`
}

// EntityInput describes one entity by row-start/row-end coordinate pairs.
type EntityInput struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Coords     []geom.Point `json:"coords"`
	Statements []int        `json:"statements,omitempty"`
}

// StatementInput is a single text cell.
type StatementInput struct {
	ID   int    `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Text string `json:"text"`
}

// Validate checks grid bounds, names and id uniqueness.
func (d *Document) Validate() error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no document")
	}
	if d.Width <= 0 || d.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid size %dx%d must be positive", d.Width, d.Height)
	}
	if len(d.Entities) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "document has no entities")
	}

	inside := func(p geom.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < d.Width && p.Y < d.Height
	}

	stmts := make(map[int]bool, len(d.Statements))
	for _, s := range d.Statements {
		if stmts[s.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate statement id %d", s.ID)
		}
		stmts[s.ID] = true
		if !inside(geom.Pt(s.X, s.Y)) {
			return errors.New(errors.ErrCodeGeometry, "statement %d at %v is outside the %dx%d grid",
				s.ID, geom.Pt(s.X, s.Y), d.Width, d.Height)
		}
	}

	ids := make(map[int]bool, len(d.Entities))
	for _, e := range d.Entities {
		if ids[e.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate entity id %d", e.ID)
		}
		ids[e.ID] = true
		if err := errors.ValidateEntityName(e.Name); err != nil {
			return err
		}
		for _, p := range e.Coords {
			if !inside(p) {
				return errors.New(errors.ErrCodeGeometry, "entity %q coordinate %v is outside the %dx%d grid",
					e.Name, p, d.Width, d.Height)
			}
		}
		for _, id := range e.Statements {
			if !stmts[id] {
				return errors.New(errors.ErrCodeInvalidInput, "entity %q references unknown statement %d", e.Name, id)
			}
		}
	}
	return nil
}
