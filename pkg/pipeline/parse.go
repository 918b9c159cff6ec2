package pipeline

import (
	"bytes"
	"strings"

	setio "github.com/matzehuels/setgrid/pkg/io"
	"github.com/matzehuels/setgrid/pkg/layout"
)

// Load reads a document from a JSON or solution file.
func Load(path string) (*layout.Document, error) {
	return setio.Import(path)
}

// Parse decodes a document from raw bytes. Input starting with '{' is read
// as JSON, anything else as solution text.
func Parse(data []byte) (*layout.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return setio.ReadJSON(bytes.NewReader(trimmed))
	}
	return setio.ParseSolution(strings.TrimSpace(string(data)))
}
