// Package text measures, wraps and annotates the strings drawn inside
// statement cells and entity headers.
//
// Layout depends only on the [Measurer] interface. [FontMeasurer] uses the
// embedded Go Regular face; [FixedMeasurer] gives every rune the same
// advance and keeps tests independent of font metrics.
package text

import (
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/setgrid/pkg/fonts"
)

// Measurer reports the advance width of a string in pixels.
type Measurer interface {
	Width(s string) float64
}

// FontMeasurer measures strings with a real font face.
type FontMeasurer struct {
	mu   sync.Mutex
	face font.Face
}

// NewFontMeasurer loads Go Regular at the given pixel size.
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	f, err := opentype.Parse(fonts.RegularTTF())
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{face: face}, nil
}

// Width implements Measurer. font.Face is not safe for concurrent use, so
// calls are serialized.
func (m *FontMeasurer) Width(s string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(font.MeasureString(m.face, s)) / 64
}

// Close releases the face.
func (m *FontMeasurer) Close() error {
	return m.face.Close()
}

// FixedMeasurer gives every rune the same advance.
type FixedMeasurer float64

// Width implements Measurer.
func (f FixedMeasurer) Width(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * float64(f)
}
