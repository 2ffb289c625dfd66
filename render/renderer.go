package render

import (
	"cflow/connections"
	"cflow/diagram"
)

// Affordance sizes in canvas units.
const (
	DefaultButtonRadius = 12
	removeInset         = 20 // Remove button centre from the card's top-right
)

// Renderer builds Scenes from snapshots.
type Renderer struct {
	geometry     diagram.Geometry
	buttonRadius int
}

// NewRenderer creates a renderer for the given card geometry. A zero
// button radius in geo means DefaultButtonRadius.
func NewRenderer(geo diagram.Geometry) *Renderer {
	radius := geo.ButtonRadius
	if radius <= 0 {
		radius = DefaultButtonRadius
	}
	return &Renderer{
		geometry:     geo,
		buttonRadius: radius,
	}
}

// Geometry returns the card geometry used by the renderer.
func (r *Renderer) Geometry() diagram.Geometry {
	return r.geometry
}

// Render produces the scene for g. conns must be derived from the same
// snapshot.
func (r *Renderer) Render(g diagram.Graph, conns []connections.Connection) Scene {
	var s Scene

	for _, c := range conns {
		if c.Open {
			s.Paths = append(s.Paths, Path{
				Key:      c.Key,
				Relation: c.Relation,
				Points:   []diagram.Point{c.From, c.To},
				Open:     true,
			})
			s.Dots = append(s.Dots, Dot{Key: c.Key, At: c.From})
			s.AddButtons = append(s.AddButtons, AddButton{
				Key:      c.Key,
				Source:   c.Source,
				Relation: c.Relation,
				At:       c.To,
				Radius:   r.buttonRadius,
			})
		} else {
			s.Paths = append(s.Paths, Path{
				Key:      c.Key,
				Relation: c.Relation,
				Points:   Manhattan(c.From, c.To),
			})
			s.Dots = append(s.Dots, Dot{Key: c.Key, At: c.From}, Dot{Key: c.Key, At: c.To})
		}

		// Open branches carry an add button instead of a label.
		if c.Relation.IsDecision() && !c.Open {
			s.Markers = append(s.Markers, Marker{
				Key:      c.Key,
				Label:    markerLabel(c.Relation),
				Relation: c.Relation,
				At:       QuarterPoint(c.From, c.To),
			})
		}
	}

	for _, n := range g.Nodes {
		bounds := r.geometry.CardBounds(n)
		s.Cards = append(s.Cards, Card{
			NodeID:    n.ID,
			Kind:      n.Kind,
			Label:     n.Label,
			Bounds:    bounds,
			Draggable: !n.IsTrigger(),
			Removable: !n.IsTrigger(),
		})
		if !n.IsTrigger() {
			s.RemoveButtons = append(s.RemoveButtons, RemoveButton{
				NodeID: n.ID,
				At:     diagram.Point{X: bounds.Max.X - removeInset, Y: bounds.Min.Y + removeInset},
				Radius: r.buttonRadius,
			})
		}
	}
	return s
}

// Manhattan routes from to to with a vertical-horizontal-vertical polyline
// turning at the vertical midpoint. Aligned points still yield four
// vertices with a zero-length horizontal segment.
func Manhattan(from, to diagram.Point) []diagram.Point {
	midY := from.Y + (to.Y-from.Y)/2
	return []diagram.Point{
		from,
		{X: from.X, Y: midY},
		{X: to.X, Y: midY},
		to,
	}
}

// QuarterPoint returns the branch marker anchor: a quarter of the vertical
// distance below from.
func QuarterPoint(from, to diagram.Point) diagram.Point {
	dy := to.Y - from.Y
	if dy < 0 {
		dy = -dy
	}
	return diagram.Point{X: from.X, Y: from.Y + dy/4}
}

func markerLabel(r diagram.Relation) string {
	if r == diagram.RelationNo {
		return "No"
	}
	return "Yes"
}
