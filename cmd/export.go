package cmd

import (
	"cflow/export"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	var (
		format      string
		out         string
		inputFormat string
		list        bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a flowchart to another format",
		Long: `Export a flowchart to a data, diagram-text or image format.

  cflow export flow.json -f mermaid
  cflow export flow.json -f dot -o flow.dot
  cflow export flow.json -o flow.yaml     # format from the extension
  cflow export --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				printFormats(cmd)
				return nil
			}

			f := formatFor(out, "")
			if format != "" {
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}
			if f == "" {
				return fmt.Errorf("no format given: use -f or an output file extension")
			}

			m, err := a.loadModel(cmd, args[0], inputFormat)
			if err != nil {
				return err
			}
			return a.writeExport(cmd, m.Snapshot(), f, out, false)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format ("+formatNames()+")")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (auto-detect if not specified)")
	cmd.Flags().BoolVar(&list, "list", false, "List export formats")
	return cmd
}

func formatNames() string {
	var names []string
	for _, f := range export.GetAvailableFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func printFormats(cmd *cobra.Command) {
	desc := export.GetFormatDescriptions()
	formats := export.GetAvailableFormats()
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })

	w := cmd.OutOrStdout()
	for _, f := range formats {
		fmt.Fprintf(w, "  %-8s %s\n", f, Subtle.Sprint(desc[f]))
	}
}
