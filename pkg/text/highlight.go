package text

import (
	"cmp"
	"slices"
	"unicode"
	"unicode/utf8"
)

// White marks a name whose owner is drawn without a color; such names are
// rendered bold and underlined instead of colored.
const White = "#FFFFFF"

// NamedColor pairs a name variation with the color it is highlighted in.
type NamedColor struct {
	Name  string
	Color string
}

// Span is a highlighted rune range [Start, End) of a statement text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
	Bold  bool   `json:"bold,omitempty"`
}

// Highlight finds every case-insensitive occurrence of the given names in
// text and returns the colored rune ranges. Where occurrences overlap, the
// one with the fewest runes left to go wins.
func Highlight(text string, names []NamedColor) []Span {
	hay := foldRunes(text)
	if len(hay) == 0 || len(names) == 0 {
		return nil
	}

	sorted := slices.Clone(names)
	slices.SortStableFunc(sorted, func(a, b NamedColor) int {
		return cmp.Compare(utf8.RuneCountInString(a.Name), utf8.RuneCountInString(b.Name))
	})

	starts := make(map[int][]int) // rune offset -> indexes into sorted
	for k, nc := range sorted {
		for _, at := range indicesOf(hay, foldRunes(nc.Name)) {
			starts[at] = append(starts[at], k)
		}
	}

	type ongoing struct {
		left  int
		color string
	}
	var active []ongoing
	colors := make([]string, len(hay))

	for i := range hay {
		for _, k := range starts[i] {
			n := utf8.RuneCountInString(sorted[k].Name)
			active = append([]ongoing{{left: n, color: sorted[k].Color}}, active...)
		}
		slices.SortStableFunc(active, func(a, b ongoing) int { return cmp.Compare(a.left, b.left) })
		if len(active) > 0 {
			colors[i] = active[0].color
		}

		next := active[:0]
		for _, a := range active {
			if a.left--; a.left > 0 {
				next = append(next, a)
			}
		}
		active = next
	}

	var spans []Span
	for i := 0; i < len(colors); {
		if colors[i] == "" {
			i++
			continue
		}
		j := i
		for j < len(colors) && colors[j] == colors[i] {
			j++
		}
		spans = append(spans, Span{Start: i, End: j, Color: colors[i], Bold: colors[i] == White})
		i = j
	}
	return spans
}

func foldRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

// indicesOf returns the non-overlapping occurrences of needle in hay,
// scanning left to right.
func indicesOf(hay, needle []rune) []int {
	if len(needle) == 0 {
		return nil
	}
	var out []int
	for i := 0; i+len(needle) <= len(hay); {
		if slices.Equal(hay[i:i+len(needle)], needle) {
			out = append(out, i)
			i += len(needle)
			continue
		}
		i++
	}
	return out
}
