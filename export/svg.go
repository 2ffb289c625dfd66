package export

import (
	"bytes"
	"cflow/canvas"
	"cflow/diagram"
	"cflow/render"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	imagePadding = 40 // Blank border around image output, in canvas units
	markerWidth  = 50
	markerHeight = 24
	stripeWidth  = 8
	lineHeight   = 17 // Label line spacing at fontSize
	charWidth    = 7  // Average glyph advance at fontSize
)

// labelRows returns how many label lines fit in a card of height h.
func labelRows(h int) int {
	return max((h-8)/lineHeight, 1)
}

// SVGExporter exports graphs to SVG
type SVGExporter struct {
	opts Options
}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter(opts Options) *SVGExporter {
	return &SVGExporter{opts: opts}
}

// Export draws the scene as an SVG document. Elements carry data-key and
// data-node attributes so a page can wire the affordances.
func (e *SVGExporter) Export(g diagram.Graph) ([]byte, error) {
	scene, _ := buildScene(g, e.opts.Geometry)
	return RenderSVG(scene, e.opts.Theme)
}

// RenderSVG draws an already rendered scene as an SVG document.
func RenderSVG(scene render.Scene, theme render.Theme) ([]byte, error) {
	b := scene.Bounds()
	minX, minY := b.Min.X-imagePadding, b.Min.Y-imagePadding
	width, height := b.Width()+2*imagePadding, b.Height()+2*imagePadding

	s := &svgSurface{theme: theme}
	fmt.Fprintf(&s.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%d %d %d %d" width="%d" height="%d" font-family="sans-serif" font-size="14">`+"\n",
		minX, minY, width, height, width, height)
	fmt.Fprintf(&s.buf, `  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker></defs>`+"\n", theme.Line)
	fmt.Fprintf(&s.buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n", minX, minY, width, height, theme.Background)

	if err := scene.Draw(s); err != nil {
		return nil, err
	}
	s.buf.WriteString("</svg>\n")
	return s.buf.Bytes(), nil
}

// GetFileExtension returns the recommended file extension
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}

// svgSurface implements render.Surface by appending SVG elements.
type svgSurface struct {
	buf   bytes.Buffer
	theme render.Theme
}

func (s *svgSurface) DrawPath(p render.Path) error {
	points := make([]string, len(p.Points))
	for i, pt := range p.Points {
		points[i] = fmt.Sprintf("%d,%d", pt.X, pt.Y)
	}
	arrow := ` marker-end="url(#arrow)"`
	if p.Open {
		arrow = ""
	}
	fmt.Fprintf(&s.buf, `  <polyline data-key="%s" points="%s" fill="none" stroke="%s" stroke-width="2"%s/>`+"\n",
		p.Key, strings.Join(points, " "), s.theme.Line, arrow)
	return nil
}

func (s *svgSurface) DrawDot(d render.Dot) error {
	fmt.Fprintf(&s.buf, `  <circle data-key="%s" cx="%d" cy="%d" r="4" fill="%s"/>`+"\n", d.Key, d.At.X, d.At.Y, s.theme.Dot)
	return nil
}

func (s *svgSurface) DrawMarker(m render.Marker) error {
	x, y := m.At.X-markerWidth/2, m.At.Y-markerHeight/2
	fmt.Fprintf(&s.buf, `  <g data-key="%s"><rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s"/>`,
		m.Key, x, y, markerWidth, markerHeight, s.theme.Branch(m.Relation))
	fmt.Fprintf(&s.buf, `<text x="%d" y="%d" fill="#ffffff" font-weight="bold" text-anchor="middle" dominant-baseline="middle">%s</text></g>`+"\n",
		m.At.X, m.At.Y, escape(m.Label))
	return nil
}

func (s *svgSurface) DrawCard(c render.Card) error {
	style := s.theme.Card(c.Kind)
	b := c.Bounds
	fmt.Fprintf(&s.buf, `  <g data-node="%d" class="card %s">`, c.NodeID, c.Kind)
	fmt.Fprintf(&s.buf, `<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s" stroke="%s"/>`,
		b.Min.X, b.Min.Y, b.Width(), b.Height(), style.Fill, style.Border)
	fmt.Fprintf(&s.buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
		b.Min.X, b.Min.Y, stripeWidth, b.Height(), style.Accent)
	x := b.Min.X + 3*stripeWidth
	lines := canvas.WrapLabel(c.Label, (b.Width()-5*stripeWidth)/charWidth, labelRows(b.Height()))
	top := b.Min.Y + b.Height()/2 - (len(lines)-1)*lineHeight/2
	fmt.Fprintf(&s.buf, `<text fill="%s" dominant-baseline="middle">`, s.theme.Text)
	for i, line := range lines {
		fmt.Fprintf(&s.buf, `<tspan x="%d" y="%d">%s</tspan>`, x, top+i*lineHeight, escape(line))
	}
	s.buf.WriteString("</text></g>\n")
	return nil
}

func (s *svgSurface) DrawAddButton(b render.AddButton) error {
	fmt.Fprintf(&s.buf, `  <g data-key="%s" class="add"><circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="2"/>`,
		b.Key, b.At.X, b.At.Y, b.Radius, s.theme.ButtonFill, s.theme.ButtonBorder)
	fmt.Fprintf(&s.buf, `<text x="%d" y="%d" text-anchor="middle" dominant-baseline="central" fill="%s">+</text></g>`+"\n",
		b.At.X, b.At.Y, s.theme.Text)
	return nil
}

func (s *svgSurface) DrawRemoveButton(b render.RemoveButton) error {
	fmt.Fprintf(&s.buf, `  <text data-node="%d" class="remove" x="%d" y="%d" text-anchor="middle" dominant-baseline="central" fill="%s">×</text>`+"\n",
		b.NodeID, b.At.X, b.At.Y, s.theme.Text)
	return nil
}

func escape(text string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(text))
	return buf.String()
}
