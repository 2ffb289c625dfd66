package render

import (
	"cflow/connections"
	"cflow/diagram"
	"errors"
	"reflect"
	"testing"
)

func renderScenario(t *testing.T) Scene {
	t.Helper()
	geo := diagram.DefaultGeometry()
	g := diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Label: "Start", Position: diagram.Point{X: 380, Y: 50}, Links: diagram.Linear{Next: []int{2}}},
		{ID: 2, Kind: diagram.KindCondition, Label: "Bought?", Position: diagram.Point{X: 380, Y: 150}, Links: diagram.Branch{Yes: diagram.To(3)}},
		{ID: 3, Kind: diagram.KindEmail, Label: "Thanks", Position: diagram.Point{X: 100, Y: 300}, Links: diagram.Linear{Next: []int{}}},
	}}
	return NewRenderer(geo).Render(g, connections.Derive(g, geo))
}

func TestManhattan(t *testing.T) {
	tests := []struct {
		name     string
		from, to diagram.Point
		want     []diagram.Point
	}{
		{
			name: "offset target",
			from: diagram.Point{X: 480, Y: 210}, to: diagram.Point{X: 250, Y: 300},
			want: []diagram.Point{{X: 480, Y: 210}, {X: 480, Y: 255}, {X: 250, Y: 255}, {X: 250, Y: 300}},
		},
		{
			name: "aligned keeps zero length horizontal",
			from: diagram.Point{X: 530, Y: 110}, to: diagram.Point{X: 530, Y: 150},
			want: []diagram.Point{{X: 530, Y: 110}, {X: 530, Y: 130}, {X: 530, Y: 130}, {X: 530, Y: 150}},
		},
		{
			name: "target above source",
			from: diagram.Point{X: 0, Y: 100}, to: diagram.Point{X: 40, Y: 0},
			want: []diagram.Point{{X: 0, Y: 100}, {X: 0, Y: 50}, {X: 40, Y: 50}, {X: 40, Y: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Manhattan(tt.from, tt.to); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Manhattan = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuarterPoint(t *testing.T) {
	got := QuarterPoint(diagram.Point{X: 10, Y: 100}, diagram.Point{X: 90, Y: 20})
	if got != (diagram.Point{X: 10, Y: 120}) {
		t.Errorf("QuarterPoint = %+v, want {10 120}", got)
	}
}

func TestRender_Scene(t *testing.T) {
	s := renderScenario(t)

	if len(s.Paths) != 4 {
		t.Fatalf("got %d paths, want 4", len(s.Paths))
	}
	for _, p := range s.Paths {
		want := 4
		if p.Open {
			want = 2
		}
		if len(p.Points) != want {
			t.Errorf("%s: %d points, want %d", p.Key, len(p.Points), want)
		}
	}

	// Two dots per resolved path, one per open stub.
	if len(s.Dots) != 2*2+2 {
		t.Errorf("got %d dots, want 6", len(s.Dots))
	}

	if len(s.AddButtons) != 2 {
		t.Fatalf("got %d add buttons, want 2", len(s.AddButtons))
	}
	if b := s.AddButtons[0]; b.Key != "2-no-endpoint" || b.Source != 2 || b.Relation != diagram.RelationNo || b.At != (diagram.Point{X: 580, Y: 270}) {
		t.Errorf("first add button = %+v", b)
	}

	// Only the resolved yes branch is labelled; the open no stub is not.
	if len(s.Markers) != 1 {
		t.Fatalf("got %d markers, want 1: %+v", len(s.Markers), s.Markers)
	}
	yes := s.Markers[0]
	if yes.Label != "Yes" || yes.Key != "2-yes-3" || yes.At != (diagram.Point{X: 480, Y: 232}) {
		t.Errorf("yes marker = %+v", yes)
	}
}

func TestRender_MarkersFollowResolvedBranches(t *testing.T) {
	geo := diagram.DefaultGeometry()
	tests := []struct {
		name   string
		branch diagram.Branch
		want   []string
	}{
		{"both open", diagram.Branch{}, nil},
		{"no resolved", diagram.Branch{No: diagram.To(3)}, []string{"No"}},
		{"both resolved", diagram.Branch{Yes: diagram.To(3), No: diagram.To(4)}, []string{"Yes", "No"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := diagram.Graph{Nodes: []diagram.Node{
				{ID: 1, Kind: diagram.KindTrigger, Position: diagram.Point{X: 380, Y: 50}, Links: diagram.Linear{Next: []int{2}}},
				{ID: 2, Kind: diagram.KindCondition, Position: diagram.Point{X: 380, Y: 150}, Links: tt.branch},
				{ID: 3, Kind: diagram.KindEmail, Position: diagram.Point{X: 100, Y: 300}, Links: diagram.Linear{Next: []int{}}},
				{ID: 4, Kind: diagram.KindAction, Position: diagram.Point{X: 660, Y: 300}, Links: diagram.Linear{Next: []int{}}},
			}}
			s := NewRenderer(geo).Render(g, connections.Derive(g, geo))
			var got []string
			for _, m := range s.Markers {
				got = append(got, m.Label)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("markers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender_Cards(t *testing.T) {
	s := renderScenario(t)
	if len(s.Cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(s.Cards))
	}
	trigger := s.Cards[0]
	if trigger.Draggable || trigger.Removable {
		t.Error("trigger card must not be draggable or removable")
	}
	if trigger.Bounds != (diagram.Bounds{Min: diagram.Point{X: 380, Y: 50}, Max: diagram.Point{X: 680, Y: 110}}) {
		t.Errorf("trigger bounds = %+v", trigger.Bounds)
	}
	if len(s.RemoveButtons) != 2 {
		t.Fatalf("got %d remove buttons, want 2", len(s.RemoveButtons))
	}
	if rb := s.RemoveButtons[0]; rb.NodeID != 2 || rb.At != (diagram.Point{X: 660, Y: 170}) {
		t.Errorf("remove button = %+v", rb)
	}
}

func TestScene_HitTesting(t *testing.T) {
	s := renderScenario(t)

	if c, ok := s.CardAt(diagram.Point{X: 400, Y: 160}); !ok || c.NodeID != 2 {
		t.Errorf("CardAt inside node 2 = %+v, %v", c, ok)
	}
	if _, ok := s.CardAt(diagram.Point{X: 0, Y: 0}); ok {
		t.Error("CardAt on empty canvas should miss")
	}
	if b, ok := s.AddButtonAt(diagram.Point{X: 585, Y: 265}); !ok || b.Key != "2-no-endpoint" {
		t.Errorf("AddButtonAt = %+v, %v", b, ok)
	}
	if b, ok := s.RemoveButtonAt(diagram.Point{X: 380, Y: 320}); !ok || b.NodeID != 3 {
		t.Errorf("RemoveButtonAt = %+v, %v", b, ok)
	}
}

func TestScene_Raise(t *testing.T) {
	s := renderScenario(t)
	raised := s.Raise(2)

	var order []int
	for _, c := range raised.Cards {
		order = append(order, c.NodeID)
	}
	if !reflect.DeepEqual(order, []int{1, 3, 2}) {
		t.Errorf("card order = %v, want [1 3 2]", order)
	}
	if last := raised.RemoveButtons[len(raised.RemoveButtons)-1]; last.NodeID != 2 {
		t.Errorf("remove button of raised card not last: %+v", raised.RemoveButtons)
	}
	if s.Cards[1].NodeID != 2 {
		t.Error("Raise modified the original scene")
	}
	if missing := s.Raise(42); !reflect.DeepEqual(missing.Cards, s.Cards) {
		t.Error("raising an unknown id should keep the order")
	}
}

func TestScene_Bounds(t *testing.T) {
	s := renderScenario(t)
	b := s.Bounds()
	if b.Min != (diagram.Point{X: 100, Y: 50}) {
		t.Errorf("min = %+v", b.Min)
	}
	// Email stub ends at y 420 and its button reaches 432.
	if b.Max != (diagram.Point{X: 680, Y: 432}) {
		t.Errorf("max = %+v", b.Max)
	}
	if (Scene{}).Bounds() != (diagram.Bounds{}) {
		t.Error("empty scene should have zero bounds")
	}
}

type recordingSurface struct {
	calls  []string
	failOn string
}

func (r *recordingSurface) record(kind string) error {
	r.calls = append(r.calls, kind)
	if kind == r.failOn {
		return errors.New("boom")
	}
	return nil
}

func (r *recordingSurface) DrawPath(Path) error                 { return r.record("path") }
func (r *recordingSurface) DrawDot(Dot) error                   { return r.record("dot") }
func (r *recordingSurface) DrawMarker(Marker) error             { return r.record("marker") }
func (r *recordingSurface) DrawCard(Card) error                 { return r.record("card") }
func (r *recordingSurface) DrawAddButton(AddButton) error       { return r.record("add") }
func (r *recordingSurface) DrawRemoveButton(RemoveButton) error { return r.record("remove") }

func TestScene_DrawOrder(t *testing.T) {
	s := renderScenario(t)
	surface := &recordingSurface{}
	if err := s.Draw(surface); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	order := []string{"path", "dot", "marker", "card", "add", "remove"}
	stage := 0
	for _, c := range surface.calls {
		for stage < len(order) && order[stage] != c {
			stage++
		}
		if stage == len(order) {
			t.Fatalf("draw calls out of order: %v", surface.calls)
		}
	}

	failing := &recordingSurface{failOn: "card"}
	if err := s.Draw(failing); err == nil {
		t.Error("Draw should return the surface error")
	}
}

func TestTheme(t *testing.T) {
	theme := DefaultTheme()
	if got := theme.Card(diagram.KindCondition).Fill; got != "#f5f3ff" {
		t.Errorf("condition fill = %s", got)
	}
	theme.Cards = map[string]CardStyle{"email": {Border: "#000000", Accent: "#111111", Fill: "#222222"}}
	if got := theme.Card(diagram.KindEmail).Fill; got != "#222222" {
		t.Errorf("override ignored: %s", got)
	}
	if got := theme.Card(diagram.KindAction).Accent; got != "#f9a825" {
		t.Errorf("fallback accent = %s", got)
	}
	if theme.Branch(diagram.RelationNo) != theme.No || theme.Branch(diagram.RelationYes) != theme.Yes {
		t.Error("branch colours mixed up")
	}
}

func TestNewRenderer_ButtonRadius(t *testing.T) {
	tests := []struct {
		name   string
		radius int
		want   int
	}{
		{"unset uses default", 0, DefaultButtonRadius},
		{"configured", 30, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := diagram.DefaultGeometry()
			geo.ButtonRadius = tt.radius
			g := diagram.Graph{Nodes: []diagram.Node{
				{ID: 1, Kind: diagram.KindTrigger, Links: diagram.Linear{Next: []int{}}},
			}}
			s := NewRenderer(geo).Render(g, connections.Derive(g, geo))
			if len(s.AddButtons) != 1 {
				t.Fatalf("got %d add buttons, want 1", len(s.AddButtons))
			}
			b := s.AddButtons[0]
			if b.Radius != tt.want {
				t.Errorf("radius = %d, want %d", b.Radius, tt.want)
			}
			near := diagram.Point{X: b.At.X + tt.want - 1, Y: b.At.Y}
			if !b.Contains(near) {
				t.Errorf("point %+v inside radius %d should hit", near, tt.want)
			}
		})
	}
}
