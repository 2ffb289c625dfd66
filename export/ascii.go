package export

import (
	"cflow/canvas"
	"cflow/diagram"
	"fmt"
)

// ASCIIExporter exports graphs to Unicode box-drawing art
type ASCIIExporter struct {
	opts Options
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter(opts Options) *ASCIIExporter {
	return &ASCIIExporter{opts: opts}
}

// Export rasterizes the scene onto a character canvas.
func (e *ASCIIExporter) Export(g diagram.Graph) ([]byte, error) {
	if err := requireNodes(g); err != nil {
		return nil, err
	}
	scene, _ := buildScene(g, e.opts.Geometry)
	surface, err := canvas.Rasterize(scene, e.opts.Scale, e.opts.Theme, canvas.WithBoxStyle(e.opts.Box))
	if err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}

	out := surface.Canvas().String()
	if e.opts.Color {
		out = surface.Canvas().ColoredString()
	}
	return []byte(out + "\n"), nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
