package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/setgrid/pkg/layout"
)

// WriteJSON encodes doc as indented JSON readable by [ReadJSON].
func WriteJSON(doc *layout.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Export writes doc to path in the format its extension names: JSON for
// ".json", solution text for anything else. The file is replaced
// atomically, so a failed export leaves any previous file intact.
func Export(doc *layout.Document, path string) error {
	write := WriteSolution
	if strings.EqualFold(filepath.Ext(path), ".json") {
		write = WriteJSON
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(doc, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
