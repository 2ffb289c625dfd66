// Package importer loads flowchart payloads from JSON or YAML.
package importer

import (
	"cflow/diagram"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Importer decodes one payload format.
type Importer interface {
	// CanImport checks if the given content looks like this format
	CanImport(content string) bool

	// Import decodes the content into a graph
	Import(content string) (diagram.Graph, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a registry with the JSON and YAML importers
func NewImporterRegistry() *ImporterRegistry {
	r := &ImporterRegistry{}
	r.Register(NewJSONImporter())
	r.Register(NewYAMLImporter())
	return r
}

// Register adds an importer. Earlier importers win content detection and
// extension lookup.
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// ForExtension returns the importer registered for a file extension.
func (r *ImporterRegistry) ForExtension(ext string) (Importer, bool) {
	ext = strings.ToLower(ext)
	for _, imp := range r.importers {
		for _, e := range imp.GetFileExtensions() {
			if e == ext {
				return imp, true
			}
		}
	}
	return nil, false
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (diagram.Graph, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return diagram.Graph{}, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a specific format
func (r *ImporterRegistry) ImportWithFormat(content, format string) (diagram.Graph, error) {
	format = strings.ToLower(format)
	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == format {
			return imp.Import(content)
		}
	}
	return diagram.Graph{}, fmt.Errorf("unknown format: %s", format)
}

// ImportFile reads path and decodes it, choosing the format by extension
// and falling back to content detection.
func (r *ImporterRegistry) ImportFile(path string) (diagram.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return diagram.Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)

	var g diagram.Graph
	if imp, ok := r.ForExtension(filepath.Ext(path)); ok {
		g, err = imp.Import(content)
	} else {
		g, err = r.Import(content)
	}
	if err != nil {
		return diagram.Graph{}, fmt.Errorf("import %s: %w", path, err)
	}
	return g, nil
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}
