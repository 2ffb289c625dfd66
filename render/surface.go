package render

import "fmt"

// Surface is a drawing target for a Scene. Implementations map canvas
// units onto their own device (pixels, character cells, SVG elements).
type Surface interface {
	DrawPath(p Path) error
	DrawDot(d Dot) error
	DrawMarker(m Marker) error
	DrawCard(c Card) error
	DrawAddButton(b AddButton) error
	DrawRemoveButton(b RemoveButton) error
}

// Draw paints the scene onto s: paths first, then dots, markers and cards,
// with affordances last so they stay clickable on top.
func (s Scene) Draw(surface Surface) error {
	for _, p := range s.Paths {
		if err := surface.DrawPath(p); err != nil {
			return fmt.Errorf("draw path %s: %w", p.Key, err)
		}
	}
	for _, d := range s.Dots {
		if err := surface.DrawDot(d); err != nil {
			return fmt.Errorf("draw dot %s: %w", d.Key, err)
		}
	}
	for _, m := range s.Markers {
		if err := surface.DrawMarker(m); err != nil {
			return fmt.Errorf("draw marker %s: %w", m.Key, err)
		}
	}
	for _, c := range s.Cards {
		if err := surface.DrawCard(c); err != nil {
			return fmt.Errorf("draw card %d: %w", c.NodeID, err)
		}
	}
	for _, b := range s.AddButtons {
		if err := surface.DrawAddButton(b); err != nil {
			return fmt.Errorf("draw add button %s: %w", b.Key, err)
		}
	}
	for _, b := range s.RemoveButtons {
		if err := surface.DrawRemoveButton(b); err != nil {
			return fmt.Errorf("draw remove button %d: %w", b.NodeID, err)
		}
	}
	return nil
}
