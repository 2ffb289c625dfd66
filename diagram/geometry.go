package diagram

// Geometry holds the card dimensions and anchor offsets shared by the
// connection deriver, the model's placement of new cards and the renderer.
type Geometry struct {
	CardWidth   int `toml:"card_width"`
	CardHeight  int `toml:"card_height"`
	BranchInset int `toml:"branch_inset"` // yes/no anchors sit this far left/right of centre
	StubLength  int `toml:"stub_length"`  // length of an open endpoint stub
	DropGap     int `toml:"drop_gap"`     // gap between an endpoint and a card added there

	ButtonRadius int `toml:"button_radius"` // hit and draw radius of add buttons
}

// DefaultGeometry returns the standard card geometry.
func DefaultGeometry() Geometry {
	return Geometry{
		CardWidth:   300,
		CardHeight:  60,
		BranchInset: 50,
		StubLength:  60,
		DropGap:     20,

		ButtonRadius: 12,
	}
}

// Bounds represents a rectangular area.
type Bounds struct {
	Min, Max Point
}

// Width returns the width of the bounds.
func (b Bounds) Width() int {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounds.
func (b Bounds) Height() int {
	return b.Max.Y - b.Min.Y
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: Point{X: min(b.Min.X, o.Min.X), Y: min(b.Min.Y, o.Min.Y)},
		Max: Point{X: max(b.Max.X, o.Max.X), Y: max(b.Max.Y, o.Max.Y)},
	}
}

// CardBounds returns the on-canvas box of a node.
func (g Geometry) CardBounds(n Node) Bounds {
	return Bounds{
		Min: n.Position,
		Max: Point{X: n.Position.X + g.CardWidth, Y: n.Position.Y + g.CardHeight},
	}
}

// SourceAnchor returns where a connection of relation r leaves node n.
func (g Geometry) SourceAnchor(n Node, r Relation) Point {
	p := Point{X: n.Position.X + g.CardWidth/2, Y: n.Position.Y + g.CardHeight}
	switch r {
	case RelationYes:
		p.X -= g.BranchInset
	case RelationNo:
		p.X += g.BranchInset
	}
	return p
}

// TargetAnchor returns where an incoming connection enters node n.
func (g Geometry) TargetAnchor(n Node) Point {
	return Point{X: n.Position.X + g.CardWidth/2, Y: n.Position.Y}
}

// StubEnd returns the terminal point of an open endpoint leaving from.
func (g Geometry) StubEnd(from Point) Point {
	return Point{X: from.X, Y: from.Y + g.StubLength}
}

// DropPosition returns the top-left of a card added at an endpoint anchor,
// horizontally centred under it.
func (g Geometry) DropPosition(anchor Point) Point {
	return Point{X: anchor.X - g.CardWidth/2, Y: anchor.Y + g.DropGap}
}
