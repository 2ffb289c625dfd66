// Package cmd implements the cflow command line.
package cmd

import (
	"cflow/config"
	"cflow/logging"
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

// app carries the settings resolved by the root command's pre-run.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cflow",
		Short: "cflow - campaign flowchart editor",
		Long: Brand.Sprint("cflow") + " - build and render campaign flowcharts\n" +
			Subtle.Sprint("Edit in the terminal, serve over HTTP, export to text and images"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate("cflow {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(
		renderCmd(a),
		exportCmd(a),
		validateCmd(a),
		importCmd(a),
		editCmd(a),
		serveCmd(a),
		watchCmd(a),
	)
	return root
}

// setup loads the config and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logger))
	return nil
}

// Execute runs the root command and reports any error.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		Bad.Fprintf(os.Stderr, "cflow: %v\n", err)
		return err
	}
	return nil
}
