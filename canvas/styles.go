package canvas

import "fmt"

// BoxStyle defines the characters used to draw a box.
type BoxStyle struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
}

// Predefined box styles
var (
	// DefaultBoxStyle uses rounded corners
	DefaultBoxStyle = BoxStyle{
		TopLeft:     '╭',
		TopRight:    '╮',
		BottomLeft:  '╰',
		BottomRight: '╯',
		Horizontal:  '─',
		Vertical:    '│',
	}

	// SimpleBoxStyle uses ASCII characters
	SimpleBoxStyle = BoxStyle{
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Horizontal:  '-',
		Vertical:    '|',
	}
)

// ParseBoxStyle returns the card box style named "rounded" or "ascii".
// An empty name means rounded.
func ParseBoxStyle(name string) (BoxStyle, error) {
	switch name {
	case "", "rounded":
		return DefaultBoxStyle, nil
	case "ascii":
		return SimpleBoxStyle, nil
	}
	return BoxStyle{}, fmt.Errorf("unknown box style %q", name)
}

// Glyphs used for flowchart primitives.
const (
	ArrowDown        = '▼'
	DotGlyph         = '•'
	AccentGlyph      = '▌'
	RemoveGlyph      = '×'
	AddButtonTxt     = "(+)"
	WideContinuation = '\x00' // Second cell of a double-width rune
)
