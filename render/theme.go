package render

import "cflow/diagram"

// CardStyle holds the colours of one card kind as hex strings.
type CardStyle struct {
	Border string `toml:"border"`
	Accent string `toml:"accent"` // Left edge stripe
	Fill   string `toml:"fill"`
}

// Theme is the colour palette shared by every surface.
type Theme struct {
	Background   string               `toml:"background"`
	Line         string               `toml:"line"`
	Dot          string               `toml:"dot"`
	Text         string               `toml:"text"`
	Yes          string               `toml:"yes"`
	No           string               `toml:"no"`
	ButtonFill   string               `toml:"button_fill"`
	ButtonBorder string               `toml:"button_border"`
	Cards        map[string]CardStyle `toml:"cards"`
}

// DefaultTheme returns the standard palette.
func DefaultTheme() Theme {
	return Theme{
		Background:   "#f5f5f5",
		Line:         "#cccccc",
		Dot:          "#6366f1",
		Text:         "#212121",
		Yes:          "#10b981",
		No:           "#ef4444",
		ButtonFill:   "#ffffff",
		ButtonBorder: "#cccccc",
		Cards: map[string]CardStyle{
			string(diagram.KindTrigger):   {Border: "#ef5350", Accent: "#1e3a8a", Fill: "#f8fafc"},
			string(diagram.KindCondition): {Border: "#7e57c2", Accent: "#7e57c2", Fill: "#f5f3ff"},
			string(diagram.KindAction):    {Border: "#ef5350", Accent: "#f9a825", Fill: "#fffbeb"},
			string(diagram.KindEmail):     {Border: "#ef5350", Accent: "#26c6da", Fill: "#ecfeff"},
		},
	}
}

// Card returns the style for a card kind, falling back to the default
// palette for kinds the theme does not override.
func (t Theme) Card(k diagram.Kind) CardStyle {
	if s, ok := t.Cards[string(k)]; ok {
		return s
	}
	if s, ok := DefaultTheme().Cards[string(k)]; ok {
		return s
	}
	return CardStyle{Border: t.Line, Accent: t.Line, Fill: t.ButtonFill}
}

// Branch returns the marker colour for a decision relation.
func (t Theme) Branch(r diagram.Relation) string {
	if r == diagram.RelationNo {
		return t.No
	}
	return t.Yes
}
