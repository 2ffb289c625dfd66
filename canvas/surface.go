package canvas

import (
	"cflow/diagram"
	"cflow/render"
	"fmt"
)

// Scale maps canvas units to character cells.
type Scale struct {
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`
}

// DefaultScale returns the standard cell size: 10x20 units per cell, so a
// 300x60 card becomes a 30x3 box.
func DefaultScale() Scale {
	return Scale{CellWidth: 10, CellHeight: 20}
}

// margin is the blank border, in cells, kept around a rasterized scene.
const margin = 2

// Surface draws a render.Scene onto a ColoredMatrixCanvas.
type Surface struct {
	canvas *ColoredMatrixCanvas
	scale  Scale
	origin diagram.Point // Canvas-unit point mapped to cell (0,0)
	theme  render.Theme
	box    BoxStyle
}

// NewSurface creates a surface drawing onto c with origin mapped to cell (0,0).
func NewSurface(c *ColoredMatrixCanvas, scale Scale, origin diagram.Point, theme render.Theme) *Surface {
	if scale.CellWidth <= 0 || scale.CellHeight <= 0 {
		scale = DefaultScale()
	}
	return &Surface{
		canvas: c,
		scale:  scale,
		origin: origin,
		theme:  theme,
		box:    DefaultBoxStyle,
	}
}

// SurfaceOption configures a Surface built by Rasterize.
type SurfaceOption func(*Surface)

// WithBoxStyle sets the characters used for cards. The zero style keeps
// the default.
func WithBoxStyle(style BoxStyle) SurfaceOption {
	return func(s *Surface) {
		if style != (BoxStyle{}) {
			s.box = style
		}
	}
}

// Rasterize draws a whole scene onto a canvas sized to fit it.
func Rasterize(s render.Scene, scale Scale, theme render.Theme, opts ...SurfaceOption) (*Surface, error) {
	if scale.CellWidth <= 0 || scale.CellHeight <= 0 {
		scale = DefaultScale()
	}
	b := s.Bounds()
	origin := diagram.Point{
		X: b.Min.X - margin*scale.CellWidth,
		Y: b.Min.Y - margin*scale.CellHeight,
	}
	width := ceilDiv(b.Width(), scale.CellWidth) + 2*margin + 1
	height := ceilDiv(b.Height(), scale.CellHeight) + 2*margin + 1

	c, err := NewColoredMatrixCanvas(width, height)
	if err != nil {
		return nil, err
	}
	surface := NewSurface(c, scale, origin, theme)
	for _, opt := range opts {
		opt(surface)
	}
	if err := s.Draw(surface); err != nil {
		return nil, err
	}
	return surface, nil
}

// Canvas returns the cells drawn so far.
func (s *Surface) Canvas() ColorGrid {
	return s.canvas
}

// Origin returns the canvas-unit point mapped to cell (0,0).
func (s *Surface) Origin() diagram.Point {
	return s.origin
}

// Cell maps a canvas-unit point to its cell.
func (s *Surface) Cell(p diagram.Point) diagram.Point {
	return diagram.Point{
		X: floorDiv(p.X-s.origin.X, s.scale.CellWidth),
		Y: floorDiv(p.Y-s.origin.Y, s.scale.CellHeight),
	}
}

// Unit maps a cell back to the canvas-unit point at its centre.
func (s *Surface) Unit(cell diagram.Point) diagram.Point {
	return diagram.Point{
		X: s.origin.X + cell.X*s.scale.CellWidth + s.scale.CellWidth/2,
		Y: s.origin.Y + cell.Y*s.scale.CellHeight + s.scale.CellHeight/2,
	}
}

// DrawPath implements render.Surface. Resolved paths stop one cell above
// the target card and end in an arrow.
func (s *Surface) DrawPath(p render.Path) error {
	if len(p.Points) < 2 {
		return fmt.Errorf("path %s has %d points", p.Key, len(p.Points))
	}
	cells := make([]diagram.Point, len(p.Points))
	for i, pt := range p.Points {
		cells[i] = s.Cell(pt)
	}
	if !p.Open {
		last := len(cells) - 1
		cells[last].Y--
	}

	cells = compact(cells)
	if len(cells) < 2 {
		// Too short to show a line at this scale
		if len(cells) == 1 && !p.Open {
			return s.canvas.PutWithColor(cells[0], ArrowDown, s.theme.Line)
		}
		return nil
	}
	if err := s.canvas.DrawSmartPath(cells); err != nil {
		return err
	}
	for i := 0; i < len(cells)-1; i++ {
		s.colorSegment(cells[i], cells[i+1], s.theme.Line)
	}
	if !p.Open {
		s.canvas.PutWithColor(cells[len(cells)-1], ArrowDown, s.theme.Line)
	}
	return nil
}

// DrawDot implements render.Surface.
func (s *Surface) DrawDot(d render.Dot) error {
	s.canvas.PutWithColor(s.Cell(d.At), DotGlyph, s.theme.Dot)
	return nil
}

// DrawMarker implements render.Surface. Yes labels sit left of the line,
// No labels right of it.
func (s *Surface) DrawMarker(m render.Marker) error {
	at := s.Cell(m.At)
	x := at.X + 2
	if m.Relation == diagram.RelationYes {
		x = at.X - StringWidth(m.Label) - 1
	}
	return s.canvas.DrawTextWithColor(x, at.Y, m.Label, s.theme.Branch(m.Relation))
}

// DrawCard implements render.Surface.
func (s *Surface) DrawCard(c render.Card) error {
	style := s.theme.Card(c.Kind)
	lo := s.Cell(c.Bounds.Min)
	hi := s.Cell(c.Bounds.Max)
	width := max(hi.X-lo.X, 4)
	height := max(hi.Y-lo.Y, 3)

	if err := s.canvas.DrawBox(lo.X, lo.Y, width, height, s.box); err != nil {
		return fmt.Errorf("card %d: %w", c.NodeID, err)
	}
	for y := lo.Y; y < lo.Y+height; y++ {
		for x := lo.X; x < lo.X+width; x++ {
			if y == lo.Y || y == lo.Y+height-1 || x == lo.X || x == lo.X+width-1 {
				s.canvas.SetColor(diagram.Point{X: x, Y: y}, style.Border)
			}
		}
	}

	// Leave room for the remove affordance on the right
	lines := WrapLabel(c.Label, width-6, height-2)
	top := lo.Y + (height-len(lines))/2
	s.canvas.PutWithColor(diagram.Point{X: lo.X + 1, Y: lo.Y + height/2}, AccentGlyph, style.Accent)

	for i, line := range lines {
		if err := s.canvas.DrawTextWithColor(lo.X+3, top+i, line, s.theme.Text); err != nil {
			return fmt.Errorf("card %d: %w", c.NodeID, err)
		}
	}
	return nil
}

// DrawAddButton implements render.Surface.
func (s *Surface) DrawAddButton(b render.AddButton) error {
	at := s.Cell(b.At)
	return s.canvas.DrawTextWithColor(at.X-1, at.Y, AddButtonTxt, s.theme.ButtonBorder)
}

// DrawRemoveButton implements render.Surface.
func (s *Surface) DrawRemoveButton(b render.RemoveButton) error {
	return s.canvas.PutWithColor(s.Cell(b.At), RemoveGlyph, s.theme.No)
}

func (s *Surface) colorSegment(a, b diagram.Point, color string) {
	for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
		for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
			p := diagram.Point{X: x, Y: y}
			if s.canvas.Color(p) == "" {
				s.canvas.SetColor(p, color)
			}
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
