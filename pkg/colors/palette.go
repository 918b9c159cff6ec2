package colors

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Tableau20 is the default categorical palette.
var Tableau20 = []string{
	"#4E79A7", "#E15759", "#499894", "#F28E2B", "#59A14F",
	"#B07AA1", "#9D7660", "#D37295", "#B6992D", "#79706E",
	"#8CD17D", "#86BCB6", "#A0CBE8", "#D4A6C8", "#BAB0AC",
	"#D7B5A6", "#F1CE63", "#FF9D9A", "#FFBE7D", "#FABFD2",
}

// Grayscale lightness bounds in Lab L (0..100). The extremes are avoided so
// every gray stays readable against both black text and a white page.
const (
	grayMinL = 7
	grayMaxL = 97
)

// Grayscale returns n grays evenly spaced in perceptual lightness, darkest
// first.
func Grayscale(n int) []string {
	out := make([]string, n)
	for i := range n {
		l := float64(grayMinL)
		if n > 1 {
			l += (grayMaxL - grayMinL) * float64(i) / float64(n-1)
		}
		out[i] = colorful.Lab(l/100, 0, 0).Clamped().Hex()
	}
	return out
}

// Distance is the CIEDE2000 difference of two hex colors on the usual
// 0..100 scale: 1 is a just noticeable difference.
func Distance(a, b string) (float64, error) {
	ca, err := colorful.Hex(a)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", a, err)
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", b, err)
	}
	return ca.DistanceCIEDE2000(cb) * 100, nil
}

// Darken scales each RGB channel by factor (0.7 is 30% darker). Invalid
// input is returned unchanged.
func Darken(hex string, factor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return colorful.Color{R: c.R * factor, G: c.G * factor, B: c.B * factor}.Clamped().Hex()
}

// Lighten blends hex toward white, keeping factor of the original color.
func Lighten(hex string, factor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 1-factor).Clamped().Hex()
}

// RGBA formats hex as a CSS rgba() value.
func RGBA(hex string, alpha float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, trimFloat(alpha))
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%g", f)
}
