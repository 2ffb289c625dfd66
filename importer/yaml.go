package importer

import (
	"cflow/diagram"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLImporter decodes the YAML form of the payload.
type YAMLImporter struct{}

// NewYAMLImporter creates a new YAML importer
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{}
}

// CanImport reports whether content starts with a nodes key.
func (i *YAMLImporter) CanImport(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.HasPrefix(line, "nodes:")
	}
	return false
}

// Import decodes content.
func (i *YAMLImporter) Import(content string) (diagram.Graph, error) {
	var g diagram.Graph
	if err := yaml.Unmarshal([]byte(content), &g); err != nil {
		return diagram.Graph{}, err
	}
	return g, nil
}

// GetFormatName returns the format name
func (i *YAMLImporter) GetFormatName() string {
	return "YAML"
}

// GetFileExtensions returns the file extensions for YAML
func (i *YAMLImporter) GetFileExtensions() []string {
	return []string{".yaml", ".yml"}
}
