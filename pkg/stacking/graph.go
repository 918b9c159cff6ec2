package stacking

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/setgrid/pkg/entity"
)

// Overlap reports whether a and b share a coordinate row on which their
// [min x, max x] ranges intersect.
func Overlap(a, b *entity.Entity) bool {
	ra, rb := rowRanges(a), rowRanges(b)
	for y, x := range ra {
		if o, ok := rb[y]; ok && x[0] <= o[1] && o[0] <= x[1] {
			return true
		}
	}
	return false
}

func rowRanges(e *entity.Entity) map[int][2]int {
	out := make(map[int][2]int)
	for _, p := range e.Coords {
		r, ok := out[p.Y]
		if !ok {
			out[p.Y] = [2]int{p.X, p.X}
			continue
		}
		out[p.Y] = [2]int{min(r[0], p.X), max(r[1], p.X)}
	}
	return out
}

// Graph returns the overlap adjacency lists: Graph(es)[i] holds the indexes
// of the entities overlapping es[i], ascending.
func Graph(es []*entity.Entity) [][]int {
	g := make([][]int, len(es))
	for i := range es {
		for j := i + 1; j < len(es); j++ {
			if Overlap(es[i], es[j]) {
				g[i] = append(g[i], j)
				g[j] = append(g[j], i)
			}
		}
	}
	return g
}

// DOT converts the overlap graph to Graphviz DOT. Nodes are labelled with
// the entity name and their position in paint order; an edge joins each
// overlapping pair.
func DOT(es []*entity.Entity) string {
	order := make(map[*entity.Entity]int, len(es))
	for i, e := range Order(es) {
		order[e] = i + 1
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for i, e := range es {
		label := fmt.Sprintf("%s\n#%d", e.Name, order[e])
		attrs := fmt.Sprintf("label=%q", label)
		if e.Singleton {
			attrs += ", style=\"rounded,filled,dashed\", fillcolor=lightgrey"
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, attrs)
	}

	buf.WriteString("\n")
	for i, adj := range Graph(es) {
		for _, j := range adj {
			if j > i {
				fmt.Fprintf(&buf, "  n%d -- n%d;\n", i, j)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales from a
// zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
