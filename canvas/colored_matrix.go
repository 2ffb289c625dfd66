package canvas

import (
	"cflow/diagram"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ANSI escape codes
const (
	ColorReset = "\033[0m"
	StyleBold  = "\033[1m"
)

// ColoredMatrixCanvas extends MatrixCanvas with a foreground colour per
// cell. Colours are hex strings such as "#7e57c2"; empty means default.
type ColoredMatrixCanvas struct {
	*MatrixCanvas
	colors [][]string
}

// NewColoredMatrixCanvas creates a new colored matrix canvas
func NewColoredMatrixCanvas(width, height int) (*ColoredMatrixCanvas, error) {
	m, err := NewMatrixCanvas(width, height)
	if err != nil {
		return nil, err
	}
	colors := make([][]string, height)
	for i := range colors {
		colors[i] = make([]string, width)
	}
	return &ColoredMatrixCanvas{
		MatrixCanvas: m,
		colors:       colors,
	}, nil
}

// SetColor paints the cell at p without changing its character.
func (c *ColoredMatrixCanvas) SetColor(p diagram.Point, color string) {
	if c.inBounds(p.X, p.Y) {
		c.colors[p.Y][p.X] = color
	}
}

// SetWithColor merges a character into the cell and colours it.
func (c *ColoredMatrixCanvas) SetWithColor(p diagram.Point, char rune, color string) error {
	if err := c.Set(p, char); err != nil {
		return err
	}
	c.colors[p.Y][p.X] = color
	return nil
}

// PutWithColor overwrites a cell and colours it.
func (c *ColoredMatrixCanvas) PutWithColor(p diagram.Point, char rune, color string) error {
	if err := c.Put(p, char); err != nil {
		return err
	}
	c.colors[p.Y][p.X] = color
	return nil
}

// DrawTextWithColor draws text and colours the cells it covers.
func (c *ColoredMatrixCanvas) DrawTextWithColor(x, y int, text, color string) error {
	if err := c.DrawText(x, y, text); err != nil {
		return err
	}
	for i := 0; i < StringWidth(text); i++ {
		c.SetColor(diagram.Point{X: x + i, Y: y}, color)
	}
	return nil
}

// Color returns the colour of the cell at p.
func (c *ColoredMatrixCanvas) Color(p diagram.Point) string {
	if !c.inBounds(p.X, p.Y) {
		return ""
	}
	return c.colors[p.Y][p.X]
}

// Clear resets characters and colours.
func (c *ColoredMatrixCanvas) Clear() {
	c.MatrixCanvas.Clear()
	for y := range c.colors {
		for x := range c.colors[y] {
			c.colors[y][x] = ""
		}
	}
}

// ColoredString returns the canvas as a string with 24-bit ANSI colour codes.
func (c *ColoredMatrixCanvas) ColoredString() string {
	var sb strings.Builder
	codes := make(map[string]string)

	for y := 0; y < c.height; y++ {
		current := ""
		for x := 0; x < c.width; x++ {
			color := c.colors[y][x]
			if color != current {
				if current != "" {
					sb.WriteString(ColorReset)
				}
				if color != "" {
					code, ok := codes[color]
					if !ok {
						code = AnsiCode(color)
						codes[color] = code
					}
					sb.WriteString(code)
				}
				current = color
			}

			if r, ok := c.printable(x, y); ok {
				sb.WriteRune(r)
			}
		}

		if current != "" {
			sb.WriteString(ColorReset)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// AnsiCode returns the 24-bit foreground escape for a hex colour, or an
// empty string if the colour does not parse.
func AnsiCode(hex string) string {
	col, err := colorful.Hex(hex)
	if err != nil {
		return ""
	}
	r, g, b := col.RGB255()
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}
