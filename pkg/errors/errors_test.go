package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"new", New(ErrCodeGeometry, "entity %q has no top interval", "Pet"), `GEOMETRY_ERROR: entity "Pet" has no top interval`},
		{"wrapped", Wrap(ErrCodeCache, fs.ErrPermission, "write %s", "colors:ab"), "CACHE_ERROR: write colors:ab: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "open solution.txt")

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), fs.ErrNotExist)
	}
}

// Pipeline stages add context with fmt.Errorf; the code must survive.
func TestCodeThroughStageWrapping(t *testing.T) {
	inner := New(ErrCodeConvergence, "margins did not settle after %d passes", 10000)
	err := fmt.Errorf("layout: %w", fmt.Errorf("resolve: %w", inner))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Is convergence", Is(err, ErrCodeConvergence), true},
		{"Is geometry", Is(err, ErrCodeGeometry), false},
		{"GetCode", GetCode(err), ErrCodeConvergence},
		{"UserMessage", UserMessage(err), "margins did not settle after 10000 passes"},
		{"HTTPStatus", HTTPStatus(err), 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestUncoded(t *testing.T) {
	err := errors.New("boom")

	if Is(err, ErrCodeInternal) {
		t.Error("Is() = true for an uncoded error")
	}
	if got := GetCode(err); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
	if got := UserMessage(err); got != "boom" {
		t.Errorf("UserMessage() = %q, want boom", got)
	}
	if got := HTTPStatus(err); got != 500 {
		t.Errorf("HTTPStatus() = %d, want 500", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, 400},
		{ErrCodeInvalidFormat, 400},
		{ErrCodeInvalidMode, 400},
		{ErrCodeInvalidConfig, 400},
		{ErrCodeInvalidPath, 400},
		{ErrCodeFileNotFound, 404},
		{ErrCodeGeometry, 422},
		{ErrCodeConvergence, 422},
		{ErrCodeCache, 500},
		{ErrCodeInternal, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
