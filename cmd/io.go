package cmd

import (
	"cflow/canvas"
	"cflow/diagram"
	"cflow/export"
	"cflow/importer"
	"cflow/model"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// readGraph decodes path, or stdin for "-", or a Markdown block for
// "doc.md#N". inputFormat forces a decoder; otherwise the extension or the
// content decides.
func readGraph(cmd *cobra.Command, path, inputFormat string) (diagram.Graph, error) {
	registry := importer.NewImporterRegistry()

	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return diagram.Graph{}, fmt.Errorf("read stdin: %w", err)
		}
		if inputFormat != "" {
			return registry.ImportWithFormat(string(data), inputFormat)
		}
		return registry.Import(string(data))
	}

	if ref, ok, err := parseBlockRef(path); err != nil {
		return diagram.Graph{}, err
	} else if ok {
		return readMarkdownGraph(ref, inputFormat)
	}

	if inputFormat != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return diagram.Graph{}, fmt.Errorf("read %s: %w", path, err)
		}
		return registry.ImportWithFormat(string(data), inputFormat)
	}
	return registry.ImportFile(path)
}

// loadModel reads path into a validated model.
func (a *app) loadModel(cmd *cobra.Command, path, inputFormat string) (*model.Model, error) {
	g, err := readGraph(cmd, path, inputFormat)
	if err != nil {
		return nil, err
	}
	m, err := model.New(g, model.WithGeometry(a.cfg.Geometry))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// exportOptions builds exporter settings from the config.
func (a *app) exportOptions(color bool) export.Options {
	return export.Options{
		Geometry: a.cfg.Geometry,
		Theme:    a.cfg.Theme,
		Scale:    a.cfg.Terminal,
		Box:      a.boxStyle(),
		Color:    color,
	}
}

// boxStyle returns the configured card outline. Load has already
// rejected unknown names.
func (a *app) boxStyle() canvas.BoxStyle {
	box, _ := a.cfg.Render.Box()
	return box
}

// writeExport encodes g and writes it to out, or to the command's stdout
// when out is empty or "-".
func (a *app) writeExport(cmd *cobra.Command, g diagram.Graph, format export.Format, out string, color bool) error {
	exp, err := export.NewExporter(format, a.exportOptions(color))
	if err != nil {
		return err
	}
	data, err := exp.Export(g)
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	if out == "" || out == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	a.logger.Info("wrote export", "format", format, "file", out, "bytes", len(data))
	return nil
}

// formatFor picks an export format from an output file's extension.
func formatFor(out string, fallback export.Format) export.Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	if ext == "" {
		return fallback
	}
	if f, err := export.ParseFormat(ext); err == nil {
		return f
	}
	return fallback
}
