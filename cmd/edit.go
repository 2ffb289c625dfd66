package cmd

import (
	"cflow/diagram"
	"cflow/export"
	"cflow/logging"
	"cflow/model"
	"cflow/terminal"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

func editCmd(a *app) *cobra.Command {
	var (
		inputFormat string
		logFile     string
	)

	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit a flowchart in the terminal",
		Long: `Open the interactive editor. Drag cards with the mouse, click (+) on an
open endpoint to add a card and × to remove one. A missing FILE starts a
new flowchart with a single trigger.

Keys:
  1-3      choose the kind of the card being added
  esc      cancel the add or the drag
  arrows   scroll (J/K half a page, g resets the view)
  s        save to FILE
  q        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			m, err := a.openForEdit(cmd, path, inputFormat)
			if err != nil {
				return err
			}

			// The terminal is taken over; log to a file or nowhere.
			logger := logging.Discard()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				if logger, err = logging.New(a.cfg.Log.Level, a.cfg.Log.Format, f); err != nil {
					return err
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}

			save, err := a.saveTo(path)
			if err != nil {
				return err
			}

			ed := terminal.New(screen, m,
				terminal.WithScale(a.cfg.Terminal),
				terminal.WithBoxStyle(a.boxStyle()),
				terminal.WithTheme(a.cfg.Theme),
				terminal.WithLogger(logger),
				terminal.WithSave(path, save),
			)
			return ed.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (auto-detect if not specified)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while editing")
	return cmd
}

// openForEdit loads path, or starts a new flowchart when it does not exist.
// Markdown blocks must already exist.
func (a *app) openForEdit(cmd *cobra.Command, path, inputFormat string) (*model.Model, error) {
	if _, ok, _ := parseBlockRef(path); ok {
		return a.loadModel(cmd, path, inputFormat)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return model.New(starterGraph(), model.WithGeometry(a.cfg.Geometry))
	}
	return a.loadModel(cmd, path, inputFormat)
}

// saveTo returns a save function writing the graph to path in the format
// named by its extension, JSON by default, or back into a Markdown block.
func (a *app) saveTo(path string) (terminal.SaveFunc, error) {
	ref, ok, err := parseBlockRef(path)
	if err != nil {
		return nil, err
	}
	if ok {
		saver, err := newMarkdownSaver(ref, a.exportOptions(false))
		if err != nil {
			return nil, err
		}
		return saver.save, nil
	}

	format := formatFor(path, export.FormatJSON)
	if format != export.FormatYAML {
		format = export.FormatJSON
	}
	return func(g diagram.Graph) error {
		exp, err := export.NewExporter(format, a.exportOptions(false))
		if err != nil {
			return err
		}
		data, err := exp.Export(g)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}, nil
}

// starterGraph is the flowchart a new file opens with.
func starterGraph() diagram.Graph {
	return diagram.Graph{Nodes: []diagram.Node{{
		ID:       1,
		Kind:     diagram.KindTrigger,
		Label:    "When someone purchases",
		Position: diagram.Point{X: 380, Y: 50},
		Links:    diagram.Linear{Next: []int{}},
	}}}
}
