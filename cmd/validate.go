package cmd

import (
	"cflow/validation"
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd(a *app) *cobra.Command {
	var (
		inputFormat string
		noTrigger   bool
	)

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check flowchart payloads for structural problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			v := validation.NewGraphValidator()
			v.SetRequireTrigger(!noTrigger)

			failed := 0
			for _, path := range args {
				g, err := readGraph(cmd, path, inputFormat)
				if err != nil {
					failed++
					fmt.Fprintf(w, "%s %s: %v\n", StatusIcon(false), path, err)
					continue
				}
				problems := v.Validate(g)
				if len(problems) == 0 {
					fmt.Fprintf(w, "%s %s %s\n", StatusIcon(true), path, Subtle.Sprintf("(%d nodes)", len(g.Nodes)))
					continue
				}
				failed++
				fmt.Fprintf(w, "%s %s\n", StatusIcon(false), path)
				for _, p := range problems {
					fmt.Fprintf(w, "    %s\n", p.Error())
				}
			}

			a.logger.Debug("validated", "files", len(args), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (auto-detect if not specified)")
	cmd.Flags().BoolVar(&noTrigger, "no-trigger", false, "Allow payloads without exactly one trigger")
	return cmd
}
