package export

import (
	"bytes"
	"cflow/diagram"
	"cflow/render"
	"fmt"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

const fontSize = 14

var parseFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// PNGExporter exports graphs to PNG
type PNGExporter struct {
	opts Options
}

// NewPNGExporter creates a new PNG exporter
func NewPNGExporter(opts Options) *PNGExporter {
	return &PNGExporter{opts: opts}
}

// Export draws the scene into an image sized to fit it.
func (e *PNGExporter) Export(g diagram.Graph) ([]byte, error) {
	if err := requireNodes(g); err != nil {
		return nil, err
	}
	ttf, err := parseFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	scene, _ := buildScene(g, e.opts.Geometry)
	b := scene.Bounds()
	dc := gg.NewContext(b.Width()+2*imagePadding, b.Height()+2*imagePadding)
	dc.SetHexColor(e.opts.Theme.Background)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: fontSize, DPI: 72}))

	s := &pngSurface{
		dc:     dc,
		theme:  e.opts.Theme,
		offset: diagram.Point{X: imagePadding - b.Min.X, Y: imagePadding - b.Min.Y},
	}
	if err := scene.Draw(s); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// GetFileExtension returns the recommended file extension
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG"
}

// pngSurface implements render.Surface on a gg context.
type pngSurface struct {
	dc     *gg.Context
	theme  render.Theme
	offset diagram.Point
}

func (s *pngSurface) xy(p diagram.Point) (float64, float64) {
	return float64(p.X + s.offset.X), float64(p.Y + s.offset.Y)
}

func (s *pngSurface) DrawPath(p render.Path) error {
	s.dc.SetHexColor(s.theme.Line)
	s.dc.SetLineWidth(2)
	for i, pt := range p.Points {
		x, y := s.xy(pt)
		if i == 0 {
			s.dc.MoveTo(x, y)
		} else {
			s.dc.LineTo(x, y)
		}
	}
	s.dc.Stroke()

	if !p.Open && len(p.Points) > 0 {
		x, y := s.xy(p.Points[len(p.Points)-1])
		s.dc.MoveTo(x, y)
		s.dc.LineTo(x-5, y-8)
		s.dc.LineTo(x+5, y-8)
		s.dc.ClosePath()
		s.dc.Fill()
	}
	return nil
}

func (s *pngSurface) DrawDot(d render.Dot) error {
	x, y := s.xy(d.At)
	s.dc.SetHexColor(s.theme.Dot)
	s.dc.DrawCircle(x, y, 4)
	s.dc.Fill()
	return nil
}

func (s *pngSurface) DrawMarker(m render.Marker) error {
	x, y := s.xy(m.At)
	s.dc.SetHexColor(s.theme.Branch(m.Relation))
	s.dc.DrawRoundedRectangle(x-markerWidth/2, y-markerHeight/2, markerWidth, markerHeight, 4)
	s.dc.Fill()
	s.dc.SetHexColor("#ffffff")
	s.dc.DrawStringAnchored(m.Label, x, y, 0.5, 0.35)
	return nil
}

func (s *pngSurface) DrawCard(c render.Card) error {
	style := s.theme.Card(c.Kind)
	x, y := s.xy(c.Bounds.Min)
	w, h := float64(c.Bounds.Width()), float64(c.Bounds.Height())

	s.dc.DrawRoundedRectangle(x, y, w, h, 4)
	s.dc.SetHexColor(style.Fill)
	s.dc.FillPreserve()
	s.dc.SetHexColor(style.Border)
	s.dc.SetLineWidth(1)
	s.dc.Stroke()

	s.dc.SetHexColor(style.Accent)
	s.dc.DrawRectangle(x, y, stripeWidth, h)
	s.dc.Fill()

	s.dc.SetHexColor(s.theme.Text)
	lines := s.wrap(c.Label, w-5*stripeWidth, labelRows(int(h)))
	top := y + h/2 - float64(len(lines)-1)*lineHeight/2
	for i, line := range lines {
		s.dc.DrawStringAnchored(line, x+3*stripeWidth, top+float64(i)*lineHeight, 0, 0.35)
	}
	return nil
}

// wrap breaks text into at most rows lines of width pixels. Overflow is
// folded into the last line and cut with an ellipsis.
func (s *pngSurface) wrap(text string, width float64, rows int) []string {
	lines := s.dc.WordWrap(text, width)
	if len(lines) > rows {
		lines = append(lines[:rows-1], strings.Join(lines[rows-1:], " "))
	}
	for i, line := range lines {
		lines[i] = s.fit(line, width)
	}
	return lines
}

func (s *pngSurface) DrawAddButton(b render.AddButton) error {
	x, y := s.xy(b.At)
	r := float64(b.Radius)
	s.dc.DrawCircle(x, y, r)
	s.dc.SetHexColor(s.theme.ButtonFill)
	s.dc.FillPreserve()
	s.dc.SetHexColor(s.theme.ButtonBorder)
	s.dc.SetLineWidth(2)
	s.dc.Stroke()

	s.dc.SetHexColor(s.theme.Text)
	s.dc.DrawLine(x-r/2, y, x+r/2, y)
	s.dc.DrawLine(x, y-r/2, x, y+r/2)
	s.dc.Stroke()
	return nil
}

func (s *pngSurface) DrawRemoveButton(b render.RemoveButton) error {
	x, y := s.xy(b.At)
	d := float64(b.Radius) / 3
	s.dc.SetHexColor(s.theme.Text)
	s.dc.SetLineWidth(1.5)
	s.dc.DrawLine(x-d, y-d, x+d, y+d)
	s.dc.DrawLine(x-d, y+d, x+d, y-d)
	s.dc.Stroke()
	return nil
}

// fit shortens text until it fits within width pixels.
func (s *pngSurface) fit(text string, width float64) string {
	if w, _ := s.dc.MeasureString(text); w <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := s.dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return ""
}
