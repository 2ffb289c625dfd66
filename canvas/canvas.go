// Package canvas rasterizes render scenes onto grids of character cells,
// for ASCII export and the terminal editor.
package canvas

import "cflow/diagram"

// Grid is a read view of a character-cell grid.
type Grid interface {
	Size() (width, height int)
	// Get returns ' ' outside the grid.
	Get(cell diagram.Point) rune
	String() string
}

// ColorGrid is a Grid whose cells carry a hex foreground colour.
type ColorGrid interface {
	Grid
	// Color returns "" for uncoloured cells.
	Color(cell diagram.Point) string
	// ColoredString renders the grid with ANSI colour escapes.
	ColoredString() string
}

var (
	_ Grid      = (*MatrixCanvas)(nil)
	_ ColorGrid = (*ColoredMatrixCanvas)(nil)
)
