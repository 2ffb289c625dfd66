// Package render turns a flowchart snapshot and its derived connections into
// a Scene of drawable primitives. A Scene is independent of any output
// device; hosts paint it through a Surface.
package render

import (
	"cflow/diagram"
)

// Path is a routed connection line.
type Path struct {
	Key      string
	Relation diagram.Relation
	Points   []diagram.Point // Polyline vertices in drawing order
	Open     bool            // Dangling endpoint stub
}

// Dot marks a connection end point.
type Dot struct {
	Key string
	At  diagram.Point
}

// Marker is the Yes/No label of a resolved condition branch. Informational
// only.
type Marker struct {
	Key      string
	Label    string
	Relation diagram.Relation
	At       diagram.Point
}

// AddButton is the add affordance drawn at the end of an open endpoint.
type AddButton struct {
	Key      string // Connection key of the open endpoint
	Source   int
	Relation diagram.Relation
	At       diagram.Point
	Radius   int
}

// Contains reports whether p falls within the button.
func (b AddButton) Contains(p diagram.Point) bool {
	return withinRadius(b.At, p, b.Radius)
}

// RemoveButton is the remove affordance drawn on a removable card.
type RemoveButton struct {
	NodeID int
	At     diagram.Point
	Radius int
}

// Contains reports whether p falls within the button.
func (b RemoveButton) Contains(p diagram.Point) bool {
	return withinRadius(b.At, p, b.Radius)
}

// Card is a node box.
type Card struct {
	NodeID    int
	Kind      diagram.Kind
	Label     string
	Bounds    diagram.Bounds
	Draggable bool
	Removable bool
}

// Scene holds every primitive of one rendered frame. Cards are stored in
// node order; later cards are drawn above earlier ones.
type Scene struct {
	Paths         []Path
	Dots          []Dot
	Markers       []Marker
	Cards         []Card
	AddButtons    []AddButton
	RemoveButtons []RemoveButton
}

// Bounds returns the box enclosing every primitive, or the zero Bounds for
// an empty scene.
func (s Scene) Bounds() diagram.Bounds {
	var b diagram.Bounds
	first := true
	grow := func(o diagram.Bounds) {
		if first {
			b = o
			first = false
			return
		}
		b = b.Union(o)
	}

	for _, c := range s.Cards {
		grow(c.Bounds)
	}
	for _, p := range s.Paths {
		for _, pt := range p.Points {
			grow(diagram.Bounds{Min: pt, Max: pt})
		}
	}
	for _, a := range s.AddButtons {
		r := diagram.Point{X: a.Radius, Y: a.Radius}
		grow(diagram.Bounds{Min: a.At.Sub(r), Max: a.At.Add(r)})
	}
	for _, m := range s.Markers {
		grow(diagram.Bounds{Min: m.At, Max: m.At})
	}
	return b
}

// CardAt returns the topmost card containing p.
func (s Scene) CardAt(p diagram.Point) (Card, bool) {
	for i := len(s.Cards) - 1; i >= 0; i-- {
		if s.Cards[i].Bounds.Contains(p) {
			return s.Cards[i], true
		}
	}
	return Card{}, false
}

// Raise returns a copy of s with the card of node id, and its remove
// affordance, moved to the top of the stacking order.
func (s Scene) Raise(id int) Scene {
	cards := make([]Card, 0, len(s.Cards))
	var raised []Card
	for _, c := range s.Cards {
		if c.NodeID == id {
			raised = append(raised, c)
			continue
		}
		cards = append(cards, c)
	}
	s.Cards = append(cards, raised...)

	buttons := make([]RemoveButton, 0, len(s.RemoveButtons))
	var raisedButtons []RemoveButton
	for _, b := range s.RemoveButtons {
		if b.NodeID == id {
			raisedButtons = append(raisedButtons, b)
			continue
		}
		buttons = append(buttons, b)
	}
	s.RemoveButtons = append(buttons, raisedButtons...)
	return s
}

// AddButtonAt returns the add affordance under p.
func (s Scene) AddButtonAt(p diagram.Point) (AddButton, bool) {
	for _, b := range s.AddButtons {
		if b.Contains(p) {
			return b, true
		}
	}
	return AddButton{}, false
}

// RemoveButtonAt returns the topmost remove affordance under p.
func (s Scene) RemoveButtonAt(p diagram.Point) (RemoveButton, bool) {
	for i := len(s.RemoveButtons) - 1; i >= 0; i-- {
		if s.RemoveButtons[i].Contains(p) {
			return s.RemoveButtons[i], true
		}
	}
	return RemoveButton{}, false
}

func withinRadius(centre, p diagram.Point, r int) bool {
	d := p.Sub(centre)
	return d.X*d.X+d.Y*d.Y <= r*r
}
