package cmd

import (
	"cflow/export"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 100 * time.Millisecond

func watchCmd(a *app) *cobra.Command {
	var (
		format      string
		out         string
		inputFormat string
		color       bool
	)

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-render a flowchart whenever its file changes",
		Long: `Watch FILE and re-render it on every save. Invalid payloads are reported
and the previous output is kept.

  cflow watch flow.json                 # redraw Unicode art in place
  cflow watch flow.yaml -o flow.svg
  cflow watch README.md#2 -o flow.png   # second cflow block of README.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f := formatFor(out, export.FormatASCII)
			if format != "" {
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			redraw := func() {
				wipe := f == export.FormatASCII && (out == "" || out == "-")
				if err := a.renderOnce(cmd, path, inputFormat, f, out, color, wipe); err != nil {
					a.logger.Warn("render failed", "file", path, "err", err)
					Bad.Fprintf(cmd.ErrOrStderr(), "%s %v\n", StatusIcon(false), err)
					return
				}
				if out != "" && out != "-" {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s → %s\n", StatusIcon(true), path, out)
				}
			}
			redraw()
			watched := path
			if ref, ok, err := parseBlockRef(path); err != nil {
				return err
			} else if ok {
				watched = ref.file
			}
			return watchFile(ctx, watched, redraw, a.logger.Warn)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (default from the output extension, else ascii)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (auto-detect if not specified)")
	cmd.Flags().BoolVar(&color, "color", false, "Colour ASCII output with ANSI escapes")
	return cmd
}

func (a *app) renderOnce(cmd *cobra.Command, path, inputFormat string, f export.Format, out string, color, wipe bool) error {
	m, err := a.loadModel(cmd, path, inputFormat)
	if err != nil {
		return err
	}
	if wipe {
		fmt.Fprint(cmd.OutOrStdout(), "\033[2J\033[H")
	}
	return a.writeExport(cmd, m.Snapshot(), f, out, color)
}

// watchFile calls onChange, debounced, after every write to path until ctx
// is done. The directory is watched so editors that replace the file on
// save are still seen.
func watchFile(ctx context.Context, path string, onChange func(), warn func(msg string, args ...any)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			warn("watcher error", "err", err)

		case <-debounce.C:
			onChange()
		}
	}
}
