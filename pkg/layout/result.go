package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/geom"
	"github.com/matzehuels/setgrid/pkg/text"
)

// Result is the renderable outcome of a layout run.
type Result struct {
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	CellSize   int               `json:"cell_size"`
	Mode       Mode              `json:"mode"`
	Headers    bool              `json:"headers"`
	Entities   []EntityLayout    `json:"entities"`
	Statements []StatementLayout `json:"statements"`
	// Order lists entity ids in stacking (or size) order.
	Order  []int   `json:"order"`
	Energy float64 `json:"energy"`
}

// EntityLayout is one positioned entity polygon. Color fills the body;
// Colors lists the color of every header, merged headers included.
type EntityLayout struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Ring      []geom.Point `json:"ring"`
	Color     string       `json:"color"`
	Colors    []string     `json:"colors,omitempty"`
	Repeated  bool         `json:"repeated,omitempty"`
	Singleton bool         `json:"singleton,omitempty"`
	Headers   []HeaderBox  `json:"headers,omitempty"`
	// Cells is the number of grid cells covered.
	Cells int `json:"cells"`
}

// StatementLayout is one positioned statement.
type StatementLayout struct {
	ID    int         `json:"id"`
	Text  string      `json:"text"`
	Lines []string    `json:"lines"`
	Spans []text.Span `json:"spans,omitempty"`
	Rect  geom.Rect   `json:"rect"`
}

// Result snapshots the resolved context. Entities are listed in paint
// order: stacking order for stacked layouts, top edge first for
// transparent ones.
func (c *Context) Result() *Result {
	r := &Result{
		Width:    c.CanvasWidth(),
		Height:   c.CanvasHeight(),
		CellSize: c.cfg.CellSize,
		Mode:     c.cfg.Mode,
		Headers:  c.cfg.Headers,
	}

	for _, e := range c.Entities {
		r.Order = append(r.Order, e.ID)
	}

	paint := slices.Clone(c.Entities)
	if c.cfg.Mode == Transparent {
		slices.SortStableFunc(paint, func(a, b *entity.Entity) int {
			return cmp.Compare(ringTop(a), ringTop(b))
		})
	}
	for _, e := range paint {
		r.Entities = append(r.Entities, EntityLayout{
			ID:        e.ID,
			Name:      e.Name,
			Ring:      slices.Clone(e.Ring),
			Color:     e.FillColor(),
			Colors:    headerColors(e),
			Repeated:  e.HasDuplicates(),
			Singleton: e.Singleton,
			Headers:   c.HeaderBoxes(e),
			Cells:     e.Cells.Len(),
		})
	}

	for _, s := range c.Statements {
		r.Statements = append(r.Statements, StatementLayout{
			ID:    s.ID,
			Text:  s.Text,
			Lines: slices.Clone(s.Lines),
			Spans: slices.Clone(s.Spans),
			Rect:  s.Rect,
		})
	}
	return r
}

func headerColors(e *entity.Entity) []string {
	out := make([]string, len(e.Headers))
	for i, h := range e.Headers {
		out[i] = h.Color
	}
	return out
}

func ringTop(e *entity.Entity) int {
	if len(e.Ring) == 0 {
		return 0
	}
	return e.Ring[0].Y
}
