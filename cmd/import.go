package cmd

import (
	"cflow/export"
	"cflow/validation"
	"fmt"

	"github.com/spf13/cobra"
)

func importCmd(a *app) *cobra.Command {
	var (
		inputFormat string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Normalise a JSON or YAML payload to canonical JSON",
		Long: `Decode a payload in any accepted shape (including the type/text key
aliases), validate it and write the canonical JSON form.

  cflow import legacy.yaml -o flow.json
  cat flow.yml | cflow import - --input-format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd, args[0], inputFormat)
			if err != nil {
				return err
			}
			if err := validation.Check(g); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return a.writeExport(cmd, g, export.FormatJSON, out, false)
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (auto-detect if not specified)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
