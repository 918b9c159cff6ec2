package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name       string
		entities   int
		statements int
		cached     bool
		want       []string
		absent     []string
	}{
		{"plural fresh", 3, 2, false, []string{"3 entities", "2 statements", "fresh"}, []string{"cached"}},
		{"singular cached", 1, 1, true, []string{"1 entity", "1 statement", "cached"}, []string{"fresh"}},
		{"no statements", 2, 0, false, []string{"2 entities"}, []string{"statement"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureUI(t)
			printStats(tt.entities, tt.statements, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output %q missing %q", out.String(), w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out.String(), a) {
					t.Errorf("output %q contains %q", out.String(), a)
				}
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	out := captureUI(t)
	printSuccess("wrote %d files", 2)
	printError("boom")
	printFile("out.svg")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out.String())
	}
	for i, want := range []string{"wrote 2 files", "boom", "out.svg"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}
