package cmd

import (
	"cflow/export"
	"fmt"

	"github.com/spf13/cobra"
)

func renderCmd(a *app) *cobra.Command {
	var (
		format      string
		out         string
		inputFormat string
		color       bool
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Draw a flowchart as text art or an image",
		Long: `Render a flowchart payload (JSON or YAML) with its cards, connections,
Yes/No markers and add/remove affordances.

  cflow render flow.json                # Unicode art on stdout
  cflow render flow.json --color        # with ANSI colours
  cflow render flow.yaml -o flow.svg    # format from the extension
  cflow render flow.json -f png -o flow.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := export.FormatASCII
			if format != "" {
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			} else {
				f = formatFor(out, f)
			}
			switch f {
			case export.FormatASCII, export.FormatSVG, export.FormatPNG:
			default:
				return fmt.Errorf("render supports ascii, svg and png; use export for %s", f)
			}

			m, err := a.loadModel(cmd, args[0], inputFormat)
			if err != nil {
				return err
			}
			return a.writeExport(cmd, m.Snapshot(), f, out, color)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: ascii, svg, png")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (auto-detect if not specified)")
	cmd.Flags().BoolVar(&color, "color", false, "Colour ASCII output with ANSI escapes")
	return cmd
}
