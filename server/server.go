// Package server exposes a flowchart model over HTTP.
//
// The model is not safe for concurrent use, so every handler holds the
// server mutex for the whole read or mutation. Each successful mutation is
// stamped with a revision id and saved to the configured store.
package server

import (
	"cflow/connections"
	"cflow/diagram"
	"cflow/model"
	"cflow/render"
	"cflow/store"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RevisionHeader carries the id of the graph state a response reflects.
const RevisionHeader = "X-Graph-Revision"

// Server wraps a model with HTTP handlers.
type Server struct {
	mu       sync.Mutex
	model    *model.Model
	renderer *render.Renderer
	theme    render.Theme
	store    store.Store
	logger   *slog.Logger
	revision uuid.UUID
	pending  *model.Change // Set by the model observer during a mutation

	unsubscribe func()
	app         *fiber.App
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets where revisions are saved.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithLogger sets the request and persistence logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithTheme sets the palette used by GET /render.svg.
func WithTheme(t render.Theme) Option {
	return func(s *Server) {
		s.theme = t
	}
}

// WithRevision sets the id reported before the first mutation, typically
// the id of the revision the model was restored from.
func WithRevision(id uuid.UUID) Option {
	return func(s *Server) {
		s.revision = id
	}
}

// New creates a server for m and registers its routes.
func New(m *model.Model, opts ...Option) *Server {
	s := &Server{
		model:    m,
		renderer: render.NewRenderer(m.Geometry()),
		theme:    render.DefaultTheme(),
		store:    store.NewMemory(),
		logger:   slog.Default(),
		revision: uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.unsubscribe = m.Subscribe(model.ObserverFunc(func(c model.Change) {
		s.pending = &c
	}))

	s.app = fiber.New(fiber.Config{
		AppName:      "cflow",
		ErrorHandler: s.handleError,
	})
	s.routes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Revision returns the id of the current graph state.
func (s *Server) Revision() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	s.logger.Info("server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	}
}

// Close detaches the server from its model.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// mutate runs fn under the lock and saves the resulting revision. The
// mutation stands even if the save fails; the failure is logged.
func (s *Server) mutate(ctx context.Context, fn func() error) error {
	s.pending = nil
	if err := fn(); err != nil {
		return err
	}
	c := s.pending
	s.pending = nil
	if c == nil {
		return nil
	}

	rev := store.NewRevision(c.Revision, c.Graph)
	rev.HighWater = max(rev.HighWater, c.HighWater)
	s.revision = rev.ID
	if err := s.store.Save(ctx, rev); err != nil {
		s.logger.Error("save revision", "revision", rev.ID, "op", c.Op, "err", err)
		return nil
	}
	s.logger.Debug("graph changed", "op", c.Op, "node", c.NodeID, "revision", rev.ID, "seq", c.Revision)
	return nil
}

func (s *Server) connections() []connections.Connection {
	return connections.Derive(s.model.Snapshot(), s.model.Geometry())
}

// stamp sets the revision header on a response.
func (s *Server) stamp(c fiber.Ctx) {
	c.Set(RevisionHeader, s.revision.String())
}

// errorStatus maps graph errors to HTTP status codes.
func errorStatus(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, errBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, diagram.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, diagram.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, diagram.ErrInvalidRelation):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c fiber.Ctx, err error) error {
	code := errorStatus(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	} else {
		s.logger.Debug("request rejected", "method", c.Method(), "path", c.Path(), "status", code, "err", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
