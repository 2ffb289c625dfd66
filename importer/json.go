package importer

import (
	"cflow/diagram"
	"encoding/json"
	"strings"
)

// JSONImporter decodes the native JSON payload.
type JSONImporter struct{}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport reports whether content is a JSON object.
func (i *JSONImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "{")
}

// Import decodes content.
func (i *JSONImporter) Import(content string) (diagram.Graph, error) {
	var g diagram.Graph
	if err := json.Unmarshal([]byte(content), &g); err != nil {
		return diagram.Graph{}, err
	}
	return g, nil
}

// GetFormatName returns the format name
func (i *JSONImporter) GetFormatName() string {
	return "JSON"
}

// GetFileExtensions returns the file extensions for JSON
func (i *JSONImporter) GetFileExtensions() []string {
	return []string{".json"}
}
