package layout

import (
	"strings"

	"github.com/matzehuels/setgrid/pkg/entity"
	"github.com/matzehuels/setgrid/pkg/geom"
	"github.com/matzehuels/setgrid/pkg/text"
)

// HeaderBox is a visible header drawn inside an entity's top-left corner.
type HeaderBox struct {
	Name      string    `json:"name"`
	Display   string    `json:"display"`
	Color     string    `json:"color"`
	Duplicate bool      `json:"duplicate,omitempty"`
	Rect      geom.Rect `json:"rect"`
}

// labelHeaders fills each header's display text from the width of the
// entity's first edge.
func (c *Context) labelHeaders() {
	for _, e := range c.Entities {
		if len(e.Ring) < 2 {
			continue
		}
		width := float64(e.Ring[1].X - e.Ring[0].X)
		for i := range e.Headers {
			name := text.DisplayName(e.Headers[i].Name)
			e.Headers[i].Display = text.Truncate(name, width, c.cfg.CellSize, c.cfg.Measurer)
		}
	}
}

// HeaderBoxes returns the rectangles of e's visible headers, stacked down
// from the top-left corner in header order.
func (c *Context) HeaderBoxes(e *entity.Entity) []HeaderBox {
	if !c.cfg.Headers || len(e.Ring) < 2 {
		return nil
	}
	bcs := c.cfg.CellSize
	tl, tr := e.Ring[0], e.Ring[1]

	var boxes []HeaderBox
	for i, h := range e.Headers {
		if !e.HeaderVisible(i) {
			continue
		}
		k := len(boxes)
		boxes = append(boxes, HeaderBox{
			Name:      h.Name,
			Display:   h.Display,
			Color:     h.Color,
			Duplicate: h.Kind == entity.Duplicate,
			Rect:      geom.R(tl.X+1, tl.Y+2*k*bcs+1, tr.X-tl.X-2, 2*bcs),
		})
	}
	return boxes
}

// highlightStatements marks the names of each statement's entities inside
// its text.
func (c *Context) highlightStatements() {
	for _, s := range c.Statements {
		var names []text.NamedColor
		for _, e := range s.Entities {
			for _, h := range e.Headers {
				color := h.Color
				if color == "" {
					color = text.White
				}
				if strings.ContainsAny(h.Name, "([") {
					for _, v := range text.Variations(h.Name) {
						names = append(names, text.NamedColor{Name: v, Color: color})
					}
				} else {
					names = append(names, text.NamedColor{Name: h.Name, Color: color})
				}
			}
		}
		s.Spans = text.Highlight(s.Text, names)
	}
}
