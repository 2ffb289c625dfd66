// Package export writes flowcharts to data, diagram-text and image formats.
package export

import (
	"cflow/canvas"
	"cflow/connections"
	"cflow/diagram"
	"cflow/render"
	"fmt"
	"strings"
)

// Format represents an export format
type Format string

const (
	// FormatJSON exports the native JSON payload
	FormatJSON Format = "json"
	// FormatYAML exports the payload as YAML
	FormatYAML Format = "yaml"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatDOT exports to Graphviz DOT syntax
	FormatDOT Format = "dot"
	// FormatASCII exports to Unicode box-drawing art
	FormatASCII Format = "ascii"
	// FormatSVG exports a vector image
	FormatSVG Format = "svg"
	// FormatPNG exports a raster image
	FormatPNG Format = "png"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a graph to the target format
	Export(g diagram.Graph) ([]byte, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// Options carries the drawing settings used by the visual formats.
type Options struct {
	Geometry diagram.Geometry
	Theme    render.Theme
	Scale    canvas.Scale    // Cell size for ASCII output
	Box      canvas.BoxStyle // Card outline for ASCII output
	Color    bool            // ANSI colour in ASCII output
}

// DefaultOptions returns the standard geometry, theme and cell scale.
func DefaultOptions() Options {
	return Options{
		Geometry: diagram.DefaultGeometry(),
		Theme:    render.DefaultTheme(),
		Scale:    canvas.DefaultScale(),
		Box:      canvas.DefaultBoxStyle,
	}
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts Options) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(opts), nil
	case FormatDOT:
		return NewDOTExporter(opts), nil
	case FormatASCII:
		return NewASCIIExporter(opts), nil
	case FormatSVG:
		return NewSVGExporter(opts), nil
	case FormatPNG:
		return NewPNGExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatJSON,
		FormatYAML,
		FormatMermaid,
		FormatDOT,
		FormatASCII,
		FormatSVG,
		FormatPNG,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:    "Native JSON payload",
		FormatYAML:    "Native payload as YAML",
		FormatMermaid: "Mermaid flowchart syntax (for Markdown)",
		FormatDOT:     "Graphviz DOT syntax",
		FormatASCII:   "Unicode box-drawing art",
		FormatSVG:     "SVG vector image",
		FormatPNG:     "PNG raster image",
	}
}

// buildScene derives connections and renders the scene for the visual formats.
func buildScene(g diagram.Graph, geo diagram.Geometry) (render.Scene, []connections.Connection) {
	conns := connections.Derive(g, geo)
	return render.NewRenderer(geo).Render(g, conns), conns
}

func requireNodes(g diagram.Graph) error {
	if len(g.Nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}
	return nil
}
