// Package io reads and writes grid solutions.
//
// # Overview
//
// A solution places entities and statements on a grid. Two encodings are
// supported:
//
//   - the plain-text solution format emitted by the grid solver
//   - a JSON encoding of [layout.Document]
//
// # Solution Format
//
// The text format starts with a type line and the largest grid index on
// each axis, followed by one line per entity and statement:
//
//	type: rectangles
//	w: 4
//	h: 2
//	Entity Dorian Gray [Dorian]: (0, 0) - (2, 1)
//	Entity London: (1, 1) - (4, 2)
//	Statement Dorian lives in London.: (1, 1)
//
// With "type: rectangles" each entity is a corner pair. With
// "type: polygons" each entity lists row-start/row-end pairs:
//
//	Entity Basil: (0, 0) - (3, 0) - (1, 1) - (2, 1)
//
// The grid is one larger than the w and h values in each direction.
// Statements are attached to every entity whose cells contain them. Ids are
// assigned in order of appearance starting at zero.
//
// # JSON Format
//
// [ReadJSON] and [WriteJSON] use the field names of [layout.Document]:
//
//	{
//	  "width": 5,
//	  "height": 3,
//	  "entities": [
//	    {"id": 0, "name": "London", "coords": [{"x": 1, "y": 1}, {"x": 4, "y": 1}], "statements": [0]}
//	  ],
//	  "statements": [{"id": 0, "x": 1, "y": 1, "text": "Dorian lives in London."}]
//	}
//
// # Import
//
// [Import] picks the decoder by file extension: ".json" files are decoded
// as JSON, everything else as solution text.
//
//	doc, err := io.Import("dorian.txt")
//
// # Layout Export
//
// This package reads and writes the input document only. For computed
// polygons use the JSON sink in [render/sink].
//
// [render/sink]: github.com/matzehuels/setgrid/pkg/render/sink
package io
