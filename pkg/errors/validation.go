package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Render modes accepted by the layout engine.
var validModes = []string{"stacked", "transparent"}

// Output formats accepted by the render stage.
var validFormats = []string{"svg", "png", "json"}

// ValidateEntityName validates an entity name read from a solution file or
// an API request.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters (tabs are allowed)
//   - Maximum length of 512 characters
func ValidateEntityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "entity name cannot be empty")
	}

	if len(name) > 512 {
		return New(ErrCodeInvalidInput, "entity name too long (max 512 characters)")
	}

	for _, r := range name {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "entity name contains invalid control characters")
		}
	}

	return nil
}

// ValidateMode validates an entity render mode.
func ValidateMode(mode string) error {
	if !slices.Contains(validModes, mode) {
		return New(ErrCodeInvalidMode, "invalid mode %q (want one of %s)", mode, strings.Join(validModes, ", "))
	}
	return nil
}

// ValidateFormat validates a single output format.
func ValidateFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return New(ErrCodeInvalidFormat, "invalid format %q (want one of %s)", format, strings.Join(validFormats, ", "))
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}

// hexColorRegex matches #RGB and #RRGGBB colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a palette color.
func ValidateHexColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidConfig, "invalid color %q (want #RRGGBB)", color)
	}
	return nil
}
