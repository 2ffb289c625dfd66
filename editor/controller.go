// Package editor turns pointer gestures into flowchart mutations and keeps
// the derived connections and scene in step with the model.
package editor

import (
	"cflow/connections"
	"cflow/diagram"
	"cflow/model"
	"cflow/render"
	"fmt"
)

// Controller is the interaction state machine. It is the only writer of
// its model besides code the host runs on the same goroutine.
type Controller struct {
	model    *model.Model
	renderer *render.Renderer
	chooser  KindChooser

	// Gesture state
	mode   Mode
	dragID int
	offset diagram.Point // Pointer position relative to the dragged card
	origin diagram.Point // Container origin in pointer coordinates

	// Derived state, rebuilt after every change
	conns []connections.Connection
	scene render.Scene

	onRender    func(render.Scene)
	unsubscribe func()
	lastAdded   int
}

// New creates a controller for m. Kind choices for added cards are
// delegated to chooser.
func New(m *model.Model, chooser KindChooser) *Controller {
	c := &Controller{
		model:    m,
		renderer: render.NewRenderer(m.Geometry()),
		chooser:  chooser,
		mode:     ModeIdle,
	}
	c.refresh()
	c.unsubscribe = m.Subscribe(model.ObserverFunc(func(model.Change) {
		c.refresh()
	}))
	return c
}

// Close detaches the controller from its model.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// OnRender registers a callback run with the new scene after every change.
func (c *Controller) OnRender(fn func(render.Scene)) {
	c.onRender = fn
}

// SetOrigin sets the container origin subtracted from pointer positions.
func (c *Controller) SetOrigin(p diagram.Point) {
	c.origin = p
}

// Model returns the controlled model.
func (c *Controller) Model() *model.Model {
	return c.model
}

// Mode returns the current gesture state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Dragging returns the id of the card being dragged.
func (c *Controller) Dragging() (int, bool) {
	return c.dragID, c.mode == ModeDragging
}

// Connections returns the connections derived from the current model.
func (c *Controller) Connections() []connections.Connection {
	return c.conns
}

// Scene returns the scene rendered from the current model.
func (c *Controller) Scene() render.Scene {
	return c.scene
}

// LastAdded returns the id of the most recently added card, or 0.
func (c *Controller) LastAdded() int {
	return c.lastAdded
}

// PointerDown starts dragging the topmost draggable card under p. A press
// during a drag ends that drag first. Reports whether a drag started.
func (c *Controller) PointerDown(p diagram.Point) bool {
	if c.mode == ModeDragging {
		c.PointerUp()
	}

	local := p.Sub(c.origin)
	card, ok := c.scene.CardAt(local)
	if !ok || !card.Draggable {
		return false
	}

	c.mode = ModeDragging
	c.dragID = card.NodeID
	c.offset = local.Sub(card.Bounds.Min)
	c.scene = c.scene.Raise(card.NodeID)
	return true
}

// PointerMove moves the dragged card so it stays at the same offset from
// the pointer. Ignored when idle.
func (c *Controller) PointerMove(p diagram.Point) error {
	if c.mode != ModeDragging {
		return nil
	}
	pos := p.Sub(c.origin).Sub(c.offset)
	if err := c.model.RepositionNode(c.dragID, pos); err != nil {
		c.PointerCancel()
		return fmt.Errorf("drag: %w", err)
	}
	return nil
}

// PointerUp ends the drag gesture. The released card drops back to its
// place in node order.
func (c *Controller) PointerUp() {
	wasDragging := c.mode == ModeDragging
	c.mode = ModeIdle
	c.dragID = 0
	c.offset = diagram.Point{}
	if wasDragging {
		c.refresh()
	}
}

// PointerCancel aborts the drag gesture. The card keeps its last position.
func (c *Controller) PointerCancel() {
	c.PointerUp()
}

// AddAt starts the add gesture on the open endpoint with the given key.
// The chooser decides the kind; the card is created when it commits.
func (c *Controller) AddAt(key string) error {
	ep, ok := connections.Find(c.conns, key)
	if !ok {
		return fmt.Errorf("endpoint %s: %w", key, diagram.ErrNotFound)
	}
	if !ep.Open {
		return fmt.Errorf("endpoint %s is connected: %w", key, diagram.ErrInvalidRelation)
	}

	c.chooser.ChooseKind(ep, func(kind diagram.Kind) error {
		if kind == diagram.KindTrigger {
			return fmt.Errorf("add %s card: %w", kind, diagram.ErrForbidden)
		}
		id, err := c.model.AddNode(ep.Source, ep.Relation, ep.To, kind)
		if err != nil {
			return err
		}
		c.lastAdded = id
		return nil
	})
	return nil
}

// Remove deletes the card with the given id.
func (c *Controller) Remove(id int) error {
	if c.mode == ModeDragging && c.dragID == id {
		c.PointerCancel()
	}
	return c.model.RemoveNode(id)
}

// Click dispatches a press at p: add affordances first, then remove
// affordances, then cards.
func (c *Controller) Click(p diagram.Point) (Action, error) {
	if c.mode == ModeDragging {
		c.PointerUp()
	}
	local := p.Sub(c.origin)

	if b, ok := c.scene.AddButtonAt(local); ok {
		return ActionAdd, c.AddAt(b.Key)
	}
	if b, ok := c.scene.RemoveButtonAt(local); ok {
		return ActionRemove, c.Remove(b.NodeID)
	}
	if c.PointerDown(p) {
		return ActionDragStart, nil
	}
	return ActionNone, nil
}

func (c *Controller) refresh() {
	snap := c.model.Snapshot()
	c.conns = connections.Derive(snap, c.model.Geometry())
	c.scene = c.renderer.Render(snap, c.conns)
	if c.mode == ModeDragging {
		c.scene = c.scene.Raise(c.dragID)
	}
	if c.onRender != nil {
		c.onRender(c.scene)
	}
}
