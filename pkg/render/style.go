package render

import (
	"fmt"
	"slices"

	"github.com/matzehuels/setgrid/pkg/errors"
)

// Highlight selects how entity names are marked inside statements.
type Highlight string

const (
	// HighlightText colors the name glyphs.
	HighlightText Highlight = "text"
	// HighlightBackground draws a tinted box behind the name.
	HighlightBackground Highlight = "background"
	// HighlightNone draws statements in plain black.
	HighlightNone Highlight = "none"
)

var highlights = []Highlight{HighlightText, HighlightBackground, HighlightNone}

// Fixed drawing colors.
const (
	ShadowColor        = "#323232"
	StatementFill      = "#F5F5F5"
	StatementStroke    = "#828282"
	TextColor          = "#000000"
	HeaderTextColor    = "#FFFFFF"
	ShadowOffset       = 3
	OutlineDarken      = 0.7
	HighlightLighten   = 0.7
	TransparentOpacity = 0.15
)

// Style controls the appearance of rendered layouts.
type Style struct {
	// CornerRadius rounds entity and statement corners; 0 keeps them sharp.
	CornerRadius float64 `json:"corner_radius" toml:"corner_radius"`
	Shadow       bool    `json:"shadow" toml:"shadow"`

	Outline       bool    `json:"outline" toml:"outline"`
	OutlineWeight float64 `json:"outline_weight" toml:"outline_weight"`
	// OutlineColor is used when OutlineEntityColor is off.
	OutlineColor string `json:"outline_color" toml:"outline_color"`
	// OutlineEntityColor strokes each entity with a darker shade of its fill.
	OutlineEntityColor bool `json:"outline_entity_color" toml:"outline_entity_color"`
	OutlineRepeated    bool `json:"outline_repeated" toml:"outline_repeated"`
	OutlineNonRepeated bool `json:"outline_non_repeated" toml:"outline_non_repeated"`
	// DashRepeated dashes the outline of entities whose name repeats.
	DashRepeated bool `json:"dash_repeated" toml:"dash_repeated"`

	Highlight Highlight `json:"highlight" toml:"highlight"`
}

// DefaultStyle returns the standard look.
func DefaultStyle() Style {
	return Style{
		CornerRadius:       4,
		Outline:            true,
		OutlineWeight:      1,
		OutlineColor:       "#000000",
		OutlineEntityColor: true,
		OutlineRepeated:    true,
		OutlineNonRepeated: true,
		DashRepeated:       true,
		Highlight:          HighlightText,
	}
}

// Validate checks enumerations and ranges.
func (s Style) Validate() error {
	if s.CornerRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "corner radius %v must not be negative", s.CornerRadius)
	}
	if s.OutlineWeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "outline weight %v must not be negative", s.OutlineWeight)
	}
	if !slices.Contains(highlights, s.Highlight) {
		return errors.New(errors.ErrCodeInvalidConfig, "highlight %q must be one of %v", s.Highlight, highlights)
	}
	if err := errors.ValidateHexColor(s.OutlineColor); err != nil {
		return fmt.Errorf("outline color: %w", err)
	}
	return nil
}

// Stroke is the outline width actually drawn.
func (s Style) Stroke() float64 { return s.OutlineWeight + 1 }

// Outlined reports whether an entity gets an outline.
func (s Style) Outlined(repeated bool) bool {
	if !s.Outline {
		return false
	}
	if repeated {
		return s.OutlineRepeated
	}
	return s.OutlineNonRepeated
}

// Dashed reports whether an entity's outline is dashed.
func (s Style) Dashed(repeated bool) bool {
	return repeated && s.DashRepeated && s.Outlined(true)
}
