package sink

import (
	"encoding/json"

	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runID string
	style *render.Style
}

// WithJSONRunID records the id of the run that produced the layout.
func WithJSONRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

// WithJSONStyle records the drawing style so the document can be re-rendered
// identically.
func WithJSONStyle(s render.Style) JSONOption { return func(r *jsonRenderer) { r.style = &s } }

type jsonOutput struct {
	RunID string        `json:"run_id,omitempty"`
	Style *render.Style `json:"style,omitempty"`
	*layout.Result
}

// RenderJSON exports the layout as a pretty-printed JSON document. The
// result fields sit at the top level; run metadata is added alongside
// when requested.
func RenderJSON(res *layout.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(jsonOutput{RunID: r.runID, Style: r.style, Result: res}, "", "  ")
}

// ReadJSON decodes a document written by [RenderJSON] back into a result.
func ReadJSON(data []byte) (*layout.Result, error) {
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
