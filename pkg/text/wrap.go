package text

import (
	"regexp"
	"strings"
)

// Wrap splits text into lines narrower than width, breaking on single
// spaces. A word wider than the line is kept on a line of its own. Lines
// carry no leading or trailing space.
func Wrap(text string, width float64, m Measurer) []string {
	var lines []string
	line := ""

	for _, word := range strings.Split(text, " ") {
		candidate := line + word
		if m.Width(candidate) >= width && line != "" {
			lines = append(lines, line)
			line = word + " "
		} else {
			line = candidate + " "
		}
	}
	lines = append(lines, line)

	for i, l := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(l, " "), " ")
	}
	return lines
}

var (
	parenVariations   = regexp.MustCompile(`\s\(([^)]+)\)`)
	bracketVariations = regexp.MustCompile(`\s\[([^\]]+)\]`)
	hiddenVariations  = regexp.MustCompile(`\s*\[[^\]]*\]`)
)

// Variations lists the names an entity may be referred to by. For
// "Dorian Gray (Dorian) [the youth, Mr Gray]" they are the main name, each
// comma-separated alias in the first parenthesised group and each alias in
// the first bracketed group. Names without such groups yield themselves.
func Variations(name string) []string {
	if !strings.ContainsAny(name, "([") {
		return []string{name}
	}

	var out []string
	main := name
	if i := strings.IndexAny(name, "(["); i >= 0 {
		main = name[:i]
	}
	if main = strings.TrimSpace(main); main != "" {
		out = append(out, main)
	}

	for _, re := range []*regexp.Regexp{parenVariations, bracketVariations} {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		for _, alias := range strings.Split(m[1], ",") {
			if alias = strings.TrimSpace(alias); alias != "" {
				out = append(out, alias)
			}
		}
	}
	return out
}

// DisplayName strips bracketed aliases, which are matched in statements
// but never shown in headers.
func DisplayName(name string) string {
	return hiddenVariations.ReplaceAllString(name, "")
}

// Truncate shortens s so that it stays narrower than width minus a
// two-cell inset, replacing the last two fitting runes with "...".
func Truncate(s string, width float64, cellSize int, m Measurer) string {
	limit := width - 2*float64(cellSize)
	visible := []rune{}

	for _, r := range s {
		candidate := append(visible, r)
		if m.Width(string(candidate)) >= limit {
			keep := max(0, len(visible)-2)
			return string(visible[:keep]) + "..."
		}
		visible = candidate
	}
	return string(visible)
}
