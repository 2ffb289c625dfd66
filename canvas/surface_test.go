package canvas

import (
	"cflow/connections"
	"cflow/diagram"
	"cflow/render"
	"strings"
	"testing"
)

func scenarioScene() render.Scene {
	geo := diagram.DefaultGeometry()
	g := diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Label: "Start", Position: diagram.Point{X: 380, Y: 50}, Links: diagram.Linear{Next: []int{2}}},
		{ID: 2, Kind: diagram.KindCondition, Label: "Bought?", Position: diagram.Point{X: 380, Y: 150}, Links: diagram.Branch{Yes: diagram.To(3)}},
		{ID: 3, Kind: diagram.KindEmail, Label: "Thanks", Position: diagram.Point{X: 100, Y: 300}, Links: diagram.Linear{Next: []int{}}},
	}}
	return render.NewRenderer(geo).Render(g, connections.Derive(g, geo))
}

func TestRasterize(t *testing.T) {
	s, err := Rasterize(scenarioScene(), DefaultScale(), render.DefaultTheme())
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	out := s.Canvas().String()

	for _, want := range []string{"Start", "Bought?", "Thanks", "Yes", "╭", "▼"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No") {
		t.Errorf("open no branch should not be labelled:\n%s", out)
	}
	if n := strings.Count(out, AddButtonTxt); n != 2 {
		t.Errorf("got %d add buttons, want 2:\n%s", n, out)
	}
	if n := strings.Count(out, string(RemoveGlyph)); n != 2 {
		t.Errorf("got %d remove buttons, want 2:\n%s", n, out)
	}
}

func TestRasterize_CardCells(t *testing.T) {
	s, err := Rasterize(scenarioScene(), DefaultScale(), render.DefaultTheme())
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	// Trigger card top-left corner.
	cell := s.Cell(diagram.Point{X: 380, Y: 50})
	if got := s.Canvas().Get(cell); got != '╭' {
		t.Errorf("card corner = %c, want ╭", got)
	}
	if got := s.Canvas().Color(cell); got != "#ef5350" {
		t.Errorf("card border colour = %q", got)
	}
	accent := diagram.Point{X: cell.X + 1, Y: cell.Y + 1}
	if got := s.Canvas().Color(accent); got != "#1e3a8a" {
		t.Errorf("accent colour = %q", got)
	}
}

func TestRasterize_TallCardWrapsLabel(t *testing.T) {
	geo := diagram.DefaultGeometry()
	geo.CardHeight = 100
	g := diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindEmail, Label: "Send the welcome email to every new customer today", Links: diagram.Linear{Next: []int{}}},
	}}
	scene := render.NewRenderer(geo).Render(g, connections.Derive(g, geo))

	s, err := Rasterize(scene, DefaultScale(), render.DefaultTheme())
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	lines := strings.Split(s.Canvas().String(), "\n")
	top := s.Cell(diagram.Point{}).Y
	for i, want := range []string{"Send the welcome email", "to every new customer", "today"} {
		if !strings.Contains(lines[top+1+i], want) {
			t.Errorf("row %d = %q, want it to contain %q", top+1+i, lines[top+1+i], want)
		}
	}
}

func TestRasterize_BoxStyle(t *testing.T) {
	tests := []struct {
		name   string
		style  BoxStyle
		corner rune
	}{
		{"ascii", SimpleBoxStyle, '+'},
		{"zero keeps default", BoxStyle{}, '╭'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Rasterize(scenarioScene(), DefaultScale(), render.DefaultTheme(), WithBoxStyle(tt.style))
			if err != nil {
				t.Fatalf("Rasterize failed: %v", err)
			}
			cell := s.Cell(diagram.Point{X: 380, Y: 50})
			if got := s.Canvas().Get(cell); got != tt.corner {
				t.Errorf("card corner = %c, want %c", got, tt.corner)
			}
		})
	}
}

func TestParseBoxStyle(t *testing.T) {
	tests := []struct {
		name    string
		want    BoxStyle
		wantErr bool
	}{
		{"", DefaultBoxStyle, false},
		{"rounded", DefaultBoxStyle, false},
		{"ascii", SimpleBoxStyle, false},
		{"double", BoxStyle{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBoxStyle(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoxStyle(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBoxStyle(%q) = %+v", tt.name, got)
		}
	}
}

func TestSurface_CellUnitRoundTrip(t *testing.T) {
	c, err := NewColoredMatrixCanvas(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSurface(c, DefaultScale(), diagram.Point{X: -20, Y: 40}, render.DefaultTheme())

	for _, cell := range []diagram.Point{{X: 0, Y: 0}, {X: 3, Y: 7}, {X: 9, Y: 1}} {
		if got := s.Cell(s.Unit(cell)); got != cell {
			t.Errorf("Cell(Unit(%+v)) = %+v", cell, got)
		}
	}
	if got := s.Cell(diagram.Point{X: -21, Y: 40}); got.X != -1 {
		t.Errorf("points left of origin should map to negative cells, got %+v", got)
	}
}

func TestColoredString(t *testing.T) {
	c, err := NewColoredMatrixCanvas(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	c.PutWithColor(diagram.Point{X: 1, Y: 0}, 'x', "#ff0000")
	out := c.ColoredString()
	want := " \033[38;2;255;0;0mx" + ColorReset + " "
	if out != want {
		t.Errorf("ColoredString = %q, want %q", out, want)
	}
	if AnsiCode("not-a-colour") != "" {
		t.Error("invalid colour should produce no escape")
	}
}
