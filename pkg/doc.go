// Package pkg provides the core libraries for setgrid.
//
// # Overview
//
// Setgrid draws solutions of a grid layout problem: named entities (sets)
// cover regions of a grid, statements sit in single cells, and every
// statement lies inside exactly the entities it belongs to. The libraries
// turn such a solution into a colored, readable drawing.
//
// # Architecture
//
// The data flow through setgrid:
//
//	Solution text / JSON
//	         ↓
//	    [io] package (parse into a layout.Document)
//	         ↓
//	    [layout] package (entities, statements, wrapping)
//	         ↓
//	    [colors] package (simulated annealing color assignment)
//	         ↓
//	    [layout] package (margins, gaps, polygons, headers)
//	         ↓
//	    [render/sink] package (SVG, PNG, JSON)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/setgrid/pkg/cache"
//	    "github.com/matzehuels/setgrid/pkg/pipeline"
//	)
//
//	doc, _ := pipeline.Load("solution.txt")
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil)
//	result, _ := runner.Execute(context.Background(), doc, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
// ## Geometry
//
// [geom] - Integer points and rectangles.
//
// [entity] - Entities built from row-start/row-end coordinates: cell sets,
// boundary intervals, margins and headers.
//
// [stacking] - Paint order of overlapping opaque entities and the overlap
// graph (rendered with Graphviz for debugging).
//
// ## Layout
//
// [layout] - The layout engine. [layout.Prepare] validates a document and
// builds entities; [layout.Context.Resolve] computes gaps and polygons.
//
// [text] - Text measurement, wrapping, and name highlighting.
//
// [colors] - Palette handling and the annealing search that keeps
// overlapping entities distinguishable.
//
// ## Output
//
// [render] - Drawing style and rounded polygon paths.
//
// [render/sink] - SVG, PNG and JSON output.
//
// [fonts] - Embedded font files.
//
// ## Infrastructure
//
// [pipeline] - Complete load → color → layout → render flow used by the
// CLI and the HTTP server.
//
// [cache] - Storage backends for color assignments: file, memory, Redis
// and MongoDB.
//
// [io] - Reading and writing solution text and JSON documents.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for tracing pipeline stages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
package pkg
