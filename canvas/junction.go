package canvas

// CharacterMerger handles the merging of two characters at the same position
type CharacterMerger struct {
	mergeMap map[mergePair]rune
}

type mergePair struct {
	existing rune
	new      rune
}

// NewCharacterMerger creates a merger with standard box-drawing merge rules
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{
		mergeMap: make(map[mergePair]rune),
	}
	m.initializeMergeRules()
	return m
}

// Merge combines two characters according to box-drawing rules
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == '\x00' {
		return new
	}
	if existing == new {
		return existing
	}

	// Arrows and dots are never overwritten by lines
	if isMarker(existing) {
		return existing
	}
	if isMarker(new) {
		return new
	}

	if merged, ok := m.mergeMap[mergePair{existing, new}]; ok {
		return merged
	}
	if merged, ok := m.mergeMap[mergePair{new, existing}]; ok {
		return merged
	}

	// Text wins over line-drawing characters
	if !isLineDrawing(new) && isLineDrawing(existing) {
		return new
	}

	return existing
}

func isMarker(r rune) bool {
	switch r {
	case ArrowDown, DotGlyph, '▲', '▶', '◀', 'v', '^', '>', '<':
		return true
	}
	return false
}

// isLineDrawing checks if a character is in the box-drawing block or an
// ASCII line fallback.
func isLineDrawing(r rune) bool {
	return (r >= 0x2500 && r <= 0x257F) || r == '-' || r == '|' || r == '+'
}

// initializeMergeRules sets up the character merge mappings
func (m *CharacterMerger) initializeMergeRules() {
	// Basic line intersections
	m.mergeMap[mergePair{'─', '│'}] = '┼'

	// Corner + line = T-junction
	m.mergeMap[mergePair{'┌', '─'}] = '┬'
	m.mergeMap[mergePair{'┌', '│'}] = '├'
	m.mergeMap[mergePair{'┐', '─'}] = '┬'
	m.mergeMap[mergePair{'┐', '│'}] = '┤'
	m.mergeMap[mergePair{'└', '─'}] = '┴'
	m.mergeMap[mergePair{'└', '│'}] = '├'
	m.mergeMap[mergePair{'┘', '─'}] = '┴'
	m.mergeMap[mergePair{'┘', '│'}] = '┤'

	// T-junction + line = cross
	m.mergeMap[mergePair{'┬', '│'}] = '┼'
	m.mergeMap[mergePair{'┴', '│'}] = '┼'
	m.mergeMap[mergePair{'├', '─'}] = '┼'
	m.mergeMap[mergePair{'┤', '─'}] = '┼'

	// A path's own corner placed on its line keeps the corner
	for _, corner := range []rune{'╭', '╮', '╰', '╯'} {
		m.mergeMap[mergePair{'─', corner}] = corner
		m.mergeMap[mergePair{'│', corner}] = corner
		m.mergeMap[mergePair{'┼', corner}] = corner
	}

	// Rounded corners of diverging paths meet as T-junctions (fan-out and
	// yes/no branches sharing a turn cell)
	m.mergeMap[mergePair{'╰', '╯'}] = '┴'
	m.mergeMap[mergePair{'╭', '╮'}] = '┬'
	m.mergeMap[mergePair{'╰', '╭'}] = '├'
	m.mergeMap[mergePair{'╮', '╯'}] = '┤'
	m.mergeMap[mergePair{'╰', '┴'}] = '┴'
	m.mergeMap[mergePair{'╯', '┴'}] = '┴'
	m.mergeMap[mergePair{'╭', '┬'}] = '┬'
	m.mergeMap[mergePair{'╮', '┬'}] = '┬'

	// ASCII fallbacks
	m.mergeMap[mergePair{'-', '|'}] = '+'
	m.mergeMap[mergePair{'+', '-'}] = '+'
	m.mergeMap[mergePair{'+', '|'}] = '+'
}
