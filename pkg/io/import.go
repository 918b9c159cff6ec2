package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/layout"
)

// ReadJSON decodes a JSON document from r and validates it.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The grid size is not positive or there are no entities
//   - An id is used twice or a statement reference is unknown
//   - A coordinate lies outside the grid
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*layout.Document, error) {
	var doc layout.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImportJSON reads a JSON document file at path.
func ImportJSON(path string) (*layout.Document, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// ImportSolution reads a solution text file at path.
func ImportSolution(path string) (*layout.Document, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := ReadSolution(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Import reads path as JSON when it ends in ".json" and as solution text
// otherwise.
func Import(path string) (*layout.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ImportJSON(path)
	}
	return ImportSolution(path)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
