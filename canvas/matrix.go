package canvas

import (
	"cflow/diagram"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// MatrixCanvas implements a rune matrix-based canvas with high-level drawing primitives.
//
// Thread Safety:
// MatrixCanvas is NOT thread-safe for writes. All write operations (Set, Draw*, Clear)
// must be synchronized externally if used from multiple goroutines.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
//
// Lines drawn over existing lines are merged into junction characters by a
// CharacterMerger.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}

	matrix := make([][]rune, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Matrix returns direct access to the underlying rune matrix.
func (c *MatrixCanvas) Matrix() [][]rune {
	return c.matrix
}

// Get returns the character at the given position.
// Returns ' ' (space) if position is out of bounds.
func (c *MatrixCanvas) Get(p diagram.Point) rune {
	if !c.inBounds(p.X, p.Y) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set places a character at the given position, merging it with any
// box-drawing character already there.
func (c *MatrixCanvas) Set(p diagram.Point, char rune) error {
	if !c.inBounds(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// Put overwrites the character at the given position without merging.
func (c *MatrixCanvas) Put(p diagram.Point, char rune) error {
	if !c.inBounds(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = char
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as a string with newlines.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if r, ok := c.printable(x, y); ok {
				sb.WriteRune(r)
			}
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// printable returns the rune to print for a cell. The continuation cell of
// a wide rune prints nothing, since the rune already spans it; a stray one
// prints as a space.
func (c *MatrixCanvas) printable(x, y int) (rune, bool) {
	r := c.matrix[y][x]
	if r != WideContinuation {
		return r, true
	}
	if x > 0 && UnicodeWidth(c.matrix[y][x-1]) == 2 {
		return 0, false
	}
	return ' ', true
}

// DrawBox draws a rectangle with the specified style.
func (c *MatrixCanvas) DrawBox(x, y, width, height int, style BoxStyle) error {
	if width < 2 || height < 2 {
		return fmt.Errorf("invalid box dimensions %dx%d", width, height)
	}
	if !c.inBounds(x, y) || !c.inBounds(x+width-1, y+height-1) {
		return fmt.Errorf("box at (%d,%d) size %dx%d: %w", x, y, width, height, ErrOutOfBounds)
	}

	// Top and bottom lines
	c.Set(diagram.Point{X: x, Y: y}, style.TopLeft)
	c.Set(diagram.Point{X: x, Y: y + height - 1}, style.BottomLeft)
	for i := 1; i < width-1; i++ {
		c.Set(diagram.Point{X: x + i, Y: y}, style.Horizontal)
		c.Set(diagram.Point{X: x + i, Y: y + height - 1}, style.Horizontal)
	}
	c.Set(diagram.Point{X: x + width - 1, Y: y}, style.TopRight)
	c.Set(diagram.Point{X: x + width - 1, Y: y + height - 1}, style.BottomRight)

	// Vertical lines
	for i := 1; i < height-1; i++ {
		c.Set(diagram.Point{X: x, Y: y + i}, style.Vertical)
		c.Set(diagram.Point{X: x + width - 1, Y: y + i}, style.Vertical)
	}

	return nil
}

// DrawHorizontalLine draws a horizontal line, clipped to the canvas.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	x1 = max(x1, 0)
	x2 = min(x2, c.width-1)

	for x := x1; x <= x2; x++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawVerticalLine draws a vertical line, clipped to the canvas.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune) error {
	if x < 0 || x >= c.width {
		return ErrOutOfBounds
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	y1 = max(y1, 0)
	y2 = min(y2, c.height-1)

	for y := y1; y <= y2; y++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawText renders text at the specified position, overwriting what is
// there. Text running off the right edge is clipped.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	currentX := x
	for _, r := range text {
		width := UnicodeWidth(r)
		if width == 0 {
			continue
		}
		if width == 2 && currentX+1 >= c.width {
			break
		}
		if currentX >= 0 && currentX < c.width {
			c.matrix[y][currentX] = r
			if width == 2 {
				c.matrix[y][currentX+1] = WideContinuation
			}
		}
		currentX += width
		if currentX >= c.width {
			break
		}
	}
	return nil
}

// DrawSmartPath draws an orthogonal polyline with automatic corner
// selection. Repeated points are ignored.
func (c *MatrixCanvas) DrawSmartPath(points []diagram.Point) error {
	points = compact(points)
	if len(points) < 2 {
		return fmt.Errorf("path must have at least 2 distinct points")
	}

	for i := 0; i < len(points)-1; i++ {
		p1, p2 := points[i], points[i+1]
		switch {
		case p1.Y == p2.Y:
			c.DrawHorizontalLine(p1.X, p1.Y, p2.X, '─')
		case p1.X == p2.X:
			c.DrawVerticalLine(p1.X, p1.Y, p2.Y, '│')
		default:
			return fmt.Errorf("segment (%d,%d)-(%d,%d) is not orthogonal", p1.X, p1.Y, p2.X, p2.Y)
		}
	}

	// Corners at joints
	for i := 1; i < len(points)-1; i++ {
		corner := selectCorner(points[i-1], points[i], points[i+1])
		c.Set(points[i], corner)
	}
	return nil
}

// selectCorner chooses the appropriate corner character based on direction.
func selectCorner(prev, curr, next diagram.Point) rune {
	fromDir := getDirection(prev, curr)
	toDir := getDirection(curr, next)

	switch {
	case fromDir == 'E' && toDir == 'S', fromDir == 'N' && toDir == 'W':
		return '╮'
	case fromDir == 'E' && toDir == 'N', fromDir == 'S' && toDir == 'W':
		return '╯'
	case fromDir == 'W' && toDir == 'S', fromDir == 'N' && toDir == 'E':
		return '╭'
	case fromDir == 'W' && toDir == 'N', fromDir == 'S' && toDir == 'E':
		return '╰'
	case fromDir == toDir && (fromDir == 'E' || fromDir == 'W'):
		return '─'
	case fromDir == toDir:
		return '│'
	default:
		return '┼'
	}
}

// getDirection returns the direction from p1 to p2.
func getDirection(p1, p2 diagram.Point) rune {
	switch {
	case p2.X > p1.X:
		return 'E'
	case p2.X < p1.X:
		return 'W'
	case p2.Y > p1.Y:
		return 'S'
	default:
		return 'N'
	}
}

// compact drops consecutive duplicates and collinear interior points.
func compact(points []diagram.Point) []diagram.Point {
	var result []diagram.Point
	for _, p := range points {
		if n := len(result); n > 0 && result[n-1] == p {
			continue
		}
		if n := len(result); n >= 2 && collinear(result[n-2], result[n-1], p) {
			result[n-1] = p
			continue
		}
		result = append(result, p)
	}
	return result
}

func collinear(a, b, c diagram.Point) bool {
	return (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
}

func (c *MatrixCanvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}
