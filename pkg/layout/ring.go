package layout

import (
	"fmt"

	"github.com/matzehuels/setgrid/pkg/geom"
)

// walkRing chains directed edges into a closed polygon. The walk starts at
// the topmost, then leftmost, edge start and returns the visited corners
// without repeating the first one. Every edge must lie on the ring; edges
// left over when it closes mean the cells are not one connected region.
func walkRing(edges []edge) ([]geom.Point, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("no edges")
	}

	first := 0
	for i, e := range edges {
		s := edges[first].from
		if e.from.Y < s.Y || (e.from.Y == s.Y && e.from.X < s.X) {
			first = i
		}
	}

	used := make([]bool, len(edges))
	used[first] = true
	start := edges[first].from
	ring := []geom.Point{start}
	cur := edges[first].to

	for range edges {
		if cur == start {
			if n := len(edges) - len(ring); n > 0 {
				return nil, fmt.Errorf("ring closes with %d of %d edges unused", n, len(edges))
			}
			return ring, nil
		}
		next := -1
		for i, e := range edges {
			if !used[i] && e.from == cur {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("ring breaks at %v", cur)
		}
		used[next] = true
		ring = append(ring, cur)
		cur = edges[next].to
	}
	return nil, fmt.Errorf("ring does not close within %d edges", len(edges))
}
