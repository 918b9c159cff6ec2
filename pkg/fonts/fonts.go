// Package fonts provides the font files used for measuring and drawing text.
//
// The Go font family ships inside golang.org/x/image, so the same glyph
// metrics are available to the layout engine, the PNG sink and (embedded
// as a data URI) the SVG sink without any system font lookup.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// RegularTTF returns the Go Regular TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

// BoldTTF returns the Go Bold TrueType data.
func BoldTTF() []byte {
	return gobold.TTF
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularTTFBase64 returns the Go Regular data as a base64 string.
// The result is cached after first computation.
func RegularTTFBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}

// FontFamily is the CSS font-family name the SVG sink declares.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers that ignore embedded fonts.
const FallbackFontFamily = `'Go', Cambria, Georgia, serif`
