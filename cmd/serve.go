package cmd

import (
	"cflow/config"
	"cflow/model"
	"cflow/server"
	"cflow/store"
	"cflow/store/file"
	"cflow/store/postgres"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr        string
		inputFormat string
		resetStore  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [FILE]",
		Short: "Serve a flowchart over HTTP",
		Long: `Serve the flowchart API. The graph is restored from the configured store
when it holds a revision; otherwise FILE seeds it. --reset-store empties the
store first.

  GET    /graph                 current payload
  GET    /connections           derived connections
  GET    /render.svg            rendered image
  POST   /nodes                 {source, relation, kind, anchor?}
  PUT    /nodes/:id/position    {x, y}
  DELETE /nodes/:id
  GET    /healthz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if resetStore {
				if err := a.resetStore(ctx, st); err != nil {
					return err
				}
			}

			seed := ""
			if len(args) > 0 {
				seed = args[0]
			}
			m, rev, err := a.restore(ctx, cmd, st, seed, inputFormat)
			if err != nil {
				return err
			}

			opts := []server.Option{
				server.WithStore(st),
				server.WithLogger(a.logger),
				server.WithTheme(a.cfg.Theme),
			}
			if rev != nil {
				opts = append(opts, server.WithRevision(rev.ID))
			}
			srv := server.New(m, opts...)
			defer srv.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s serving %d nodes on %s\n", Brand.Sprint("cflow"), m.Len(), addr)
			return srv.Listen(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: json, yaml (auto-detect if not specified)")
	cmd.Flags().BoolVar(&resetStore, "reset-store", false, "Discard every stored revision before starting")
	return cmd
}

// resetStore discards the store's revisions so FILE seeds the graph again.
func (a *app) resetStore(ctx context.Context, st store.Store) error {
	r, ok := st.(store.Resetter)
	if !ok {
		return fmt.Errorf("store driver %q cannot be reset", a.cfg.Store.Driver)
	}
	if err := r.Reset(ctx); err != nil {
		return err
	}
	a.logger.Warn("store reset", "driver", a.cfg.Store.Driver)
	return nil
}

// openStore opens the store selected by the config.
func (a *app) openStore(ctx context.Context) (store.Store, func(), error) {
	switch a.cfg.Store.Driver {
	case config.DriverFile:
		return file.New(a.cfg.Store.Path), func() {}, nil
	case config.DriverPostgres:
		pg, err := postgres.Connect(ctx, a.cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}

// restore builds the served model from the latest stored revision, or from
// the seed file when the store is empty.
func (a *app) restore(ctx context.Context, cmd *cobra.Command, st store.Store, seed, inputFormat string) (*model.Model, *store.Revision, error) {
	rev, err := st.Load(ctx)
	switch {
	case err == nil:
		m, err := model.New(rev.Graph, model.WithGeometry(a.cfg.Geometry), model.WithHighWater(rev.HighWater))
		if err != nil {
			return nil, nil, fmt.Errorf("stored revision %s: %w", rev.ID, err)
		}
		a.logger.Info("restored graph", "revision", rev.ID, "seq", rev.Seq, "nodes", m.Len())
		return m, &rev, nil
	case !errors.Is(err, store.ErrEmpty):
		return nil, nil, err
	}

	if seed == "" {
		m, err := model.New(starterGraph(), model.WithGeometry(a.cfg.Geometry))
		return m, nil, err
	}
	m, err := a.loadModel(cmd, seed, inputFormat)
	if err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}
