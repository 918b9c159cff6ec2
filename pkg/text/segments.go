package text

import "slices"

// Segment is a run of one wrapped line drawn in a single style. Color is
// empty for plain text.
type Segment struct {
	Text  string
	Color string
	Bold  bool
}

// Named reports whether the segment is part of a highlighted name.
func (s Segment) Named() bool { return s.Color != "" }

// Segments splits each wrapped line of text into styled runs. Lines are
// located in text left to right; a line that cannot be found is returned
// as a single plain run.
func Segments(text string, lines []string, spans []Span) [][]Segment {
	hay := []rune(text)
	out := make([][]Segment, len(lines))
	cursor := 0

	for i, line := range lines {
		lr := []rune(line)
		at := indexFrom(hay, lr, cursor)
		if at < 0 || len(lr) == 0 {
			if line != "" {
				out[i] = []Segment{{Text: line}}
			}
			continue
		}
		cursor = at + len(lr)

		start, cur := 0, spanAt(spans, at)
		for k := 1; k <= len(lr); k++ {
			next := -1
			if k < len(lr) {
				next = spanAt(spans, at+k)
			}
			if k < len(lr) && next == cur {
				continue
			}
			seg := Segment{Text: string(lr[start:k])}
			if cur >= 0 {
				seg.Color, seg.Bold = spans[cur].Color, spans[cur].Bold
			}
			out[i] = append(out[i], seg)
			start, cur = k, next
		}
	}
	return out
}

// spanAt returns the index of the span covering rune offset pos, or -1.
func spanAt(spans []Span, pos int) int {
	return slices.IndexFunc(spans, func(s Span) bool { return s.Start <= pos && pos < s.End })
}

func indexFrom(hay, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(hay); i++ {
		if slices.Equal(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}
