package server

import (
	"cflow/connections"
	"cflow/diagram"
	"cflow/export"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
)

var errBadRequest = errors.New("bad request")

type addRequest struct {
	Source   int            `json:"source"`
	Relation string         `json:"relation"`
	Anchor   *diagram.Point `json:"anchor,omitempty"` // Defaults to the open endpoint's stub end
	Kind     string         `json:"kind"`
}

type addResponse struct {
	ID       int    `json:"id"`
	Revision string `json:"revision"`
}

type connectionResponse struct {
	Key      string           `json:"key"`
	Source   int              `json:"source"`
	Target   *int             `json:"target"`
	Relation diagram.Relation `json:"relation"`
	From     diagram.Point    `json:"from"`
	To       diagram.Point    `json:"to"`
	Open     bool             `json:"open"`
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)
	s.app.Get("/graph", s.getGraph)
	s.app.Get("/connections", s.getConnections)
	s.app.Get("/render.svg", s.getSVG)
	s.app.Post("/nodes", s.addNode)
	s.app.Put("/nodes/:id/position", s.moveNode)
	s.app.Delete("/nodes/:id", s.removeNode)
}

func (s *Server) health(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(fiber.Map{
		"status":   "ok",
		"nodes":    s.model.Len(),
		"revision": s.revision.String(),
	})
}

func (s *Server) getGraph(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(c)
	return c.JSON(s.model.Snapshot())
}

func (s *Server) getConnections(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conns := s.connections()
	out := make([]connectionResponse, 0, len(conns))
	for _, conn := range conns {
		r := connectionResponse{
			Key:      conn.Key,
			Source:   conn.Source,
			Relation: conn.Relation,
			From:     conn.From,
			To:       conn.To,
			Open:     conn.Open,
		}
		if id, ok := conn.Target.Get(); ok {
			r.Target = &id
		}
		out = append(out, r)
	}
	s.stamp(c)
	return c.JSON(out)
}

func (s *Server) getSVG(c fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.model.Snapshot()
	scene := s.renderer.Render(snap, connections.Derive(snap, s.model.Geometry()))
	data, err := export.RenderSVG(scene, s.theme)
	if err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	s.stamp(c)
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(data)
}

func (s *Server) addNode(c fiber.Ctx) error {
	var req addRequest
	if err := c.Bind().JSON(&req); err != nil {
		return fmt.Errorf("invalid body: %w", errBadRequest)
	}
	rel, err := diagram.ParseRelation(req.Relation)
	if err != nil {
		return fmt.Errorf("%v: %w", err, errBadRequest)
	}
	kind, err := diagram.ParseKind(req.Kind)
	if err != nil {
		return fmt.Errorf("%v: %w", err, errBadRequest)
	}
	if kind == diagram.KindTrigger {
		return fmt.Errorf("add %s card: %w", kind, diagram.ErrForbidden)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	anchor, err := s.anchorFor(req, rel)
	if err != nil {
		return err
	}

	var id int
	err = s.mutate(c.Context(), func() error {
		var err error
		id, err = s.model.AddNode(req.Source, rel, anchor, kind)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("node added", "id", id, "source", req.Source, "relation", rel, "kind", kind)
	s.stamp(c)
	return c.Status(fiber.StatusCreated).JSON(addResponse{ID: id, Revision: s.revision.String()})
}

// anchorFor returns the requested anchor or the stub end of the source's
// open endpoint for rel.
func (s *Server) anchorFor(req addRequest, rel diagram.Relation) (diagram.Point, error) {
	if req.Anchor != nil {
		return *req.Anchor, nil
	}
	source, ok := s.model.Node(req.Source)
	if !ok {
		return diagram.Point{}, fmt.Errorf("add from node %d: %w", req.Source, diagram.ErrInvalidSource)
	}
	geo := s.model.Geometry()
	return geo.StubEnd(geo.SourceAnchor(source, rel)), nil
}

func (s *Server) moveNode(c fiber.Ctx) error {
	id, err := nodeID(c)
	if err != nil {
		return err
	}
	var pos diagram.Point
	if err := c.Bind().JSON(&pos); err != nil {
		return fmt.Errorf("invalid body: %w", errBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.model.Node(id); ok && n.IsTrigger() {
		return fmt.Errorf("move node %d: %w", id, diagram.ErrForbidden)
	}
	if err := s.mutate(c.Context(), func() error {
		return s.model.RepositionNode(id, pos)
	}); err != nil {
		return err
	}

	s.stamp(c)
	return c.JSON(fiber.Map{"id": id, "position": pos})
}

func (s *Server) removeNode(c fiber.Ctx) error {
	id, err := nodeID(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutate(c.Context(), func() error {
		return s.model.RemoveNode(id)
	}); err != nil {
		return err
	}

	s.logger.Info("node removed", "id", id)
	s.stamp(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func nodeID(c fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, fmt.Errorf("node id %q: %w", c.Params("id"), errBadRequest)
	}
	return id, nil
}
