package export

import (
	"bytes"
	"cflow/diagram"
	"encoding/json"
)

// JSONExporter writes the canonical payload: two-space indent, labels
// unescaped, nodes always an array.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export encodes g as an indented payload ending in a newline.
func (e *JSONExporter) Export(g diagram.Graph) ([]byte, error) {
	if g.Nodes == nil {
		g.Nodes = []diagram.Node{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
