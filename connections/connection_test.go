package connections

import (
	"cflow/diagram"
	"cflow/model"
	"reflect"
	"testing"
)

func scenarioGraph() diagram.Graph {
	return diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Position: diagram.Point{X: 380, Y: 50}, Links: diagram.Linear{Next: []int{2}}},
		{ID: 2, Kind: diagram.KindCondition, Position: diagram.Point{X: 380, Y: 150}, Links: diagram.Branch{}},
	}}
}

func keys(conns []Connection) []string {
	var result []string
	for _, c := range conns {
		result = append(result, c.Key)
	}
	return result
}

func TestKey(t *testing.T) {
	tests := []struct {
		source int
		rel    diagram.Relation
		target diagram.Target
		want   string
	}{
		{1, diagram.RelationNext, diagram.To(2), "1-next-2"},
		{2, diagram.RelationYes, diagram.Target{}, "2-yes-endpoint"},
		{2, diagram.RelationNo, diagram.To(7), "2-no-7"},
	}
	for _, tt := range tests {
		if got := Key(tt.source, tt.rel, tt.target); got != tt.want {
			t.Errorf("Key(%d, %s, %+v) = %q, want %q", tt.source, tt.rel, tt.target, got, tt.want)
		}
	}
}

func TestDerive_Scenario(t *testing.T) {
	geo := diagram.DefaultGeometry()
	conns := Derive(scenarioGraph(), geo)

	want := []Connection{
		{Key: "1-next-2", Source: 1, Target: diagram.To(2), Relation: diagram.RelationNext,
			From: diagram.Point{X: 530, Y: 110}, To: diagram.Point{X: 530, Y: 150}},
		{Key: "2-yes-endpoint", Source: 2, Relation: diagram.RelationYes,
			From: diagram.Point{X: 480, Y: 210}, To: diagram.Point{X: 480, Y: 270}, Open: true},
		{Key: "2-no-endpoint", Source: 2, Relation: diagram.RelationNo,
			From: diagram.Point{X: 580, Y: 210}, To: diagram.Point{X: 580, Y: 270}, Open: true},
	}
	if !reflect.DeepEqual(conns, want) {
		t.Errorf("Derive =\n%+v\nwant\n%+v", conns, want)
	}
}

func TestDerive_AfterMutations(t *testing.T) {
	geo := diagram.DefaultGeometry()
	m, err := model.New(scenarioGraph())
	if err != nil {
		t.Fatalf("model.New failed: %v", err)
	}

	id, err := m.AddNode(2, diagram.RelationYes, diagram.Point{X: 50, Y: 300}, diagram.KindEmail)
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	conns := Derive(m.Snapshot(), geo)
	got := keys(conns)
	want := []string{"1-next-2", "2-yes-3", "2-no-endpoint", "3-next-endpoint"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after add keys = %v, want %v", got, want)
	}

	if err := m.RemoveNode(id); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	conns = Derive(m.Snapshot(), geo)
	if n := len(Open(conns)); n != 2 {
		t.Errorf("after remove open endpoints = %d, want 2", n)
	}
	if _, ok := Find(conns, "2-yes-endpoint"); !ok {
		t.Error("yes endpoint should be open again")
	}
}

func TestDerive_FanOut(t *testing.T) {
	g := diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Links: diagram.Linear{Next: []int{2, 3}}},
		{ID: 2, Kind: diagram.KindAction, Position: diagram.Point{X: 0, Y: 200}, Links: diagram.Linear{Next: []int{}}},
		{ID: 3, Kind: diagram.KindAction, Position: diagram.Point{X: 400, Y: 200}, Links: diagram.Linear{Next: []int{}}},
	}}
	conns := Derive(g, diagram.DefaultGeometry())

	want := []string{"1-next-2", "1-next-3", "2-next-endpoint", "3-next-endpoint"}
	if got := keys(conns); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if conns[0].From != conns[1].From {
		t.Error("fan-out connections should share the source anchor")
	}
	if conns[1].To != (diagram.Point{X: 550, Y: 200}) {
		t.Errorf("1-next-3 to = %+v", conns[1].To)
	}
}

func TestDerive_OpenCount(t *testing.T) {
	// One open stub per empty next plus one per missing yes/no.
	g := diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Links: diagram.Linear{Next: []int{2}}},
		{ID: 2, Kind: diagram.KindCondition, Links: diagram.Branch{Yes: diagram.To(3)}},
		{ID: 3, Kind: diagram.KindEmail, Links: diagram.Linear{Next: []int{}}},
		{ID: 4, Kind: diagram.KindCondition, Links: diagram.Branch{}},
	}}
	conns := Derive(g, diagram.DefaultGeometry())
	if n := len(Open(conns)); n != 4 {
		t.Errorf("open endpoints = %d, want 4", n)
	}
	for _, c := range Open(conns) {
		if c.Target.Set {
			t.Errorf("%s: open connection has a target", c.Key)
		}
		if c.To.X != c.From.X || c.To.Y-c.From.Y != 60 {
			t.Errorf("%s: stub %+v -> %+v is not a vertical 60 unit drop", c.Key, c.From, c.To)
		}
	}
}

func TestDerive_SkipsUnresolved(t *testing.T) {
	g := diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Links: diagram.Linear{Next: []int{9}}},
		{ID: 2, Kind: diagram.KindCondition, Links: diagram.Branch{Yes: diagram.To(8)}},
	}}
	got := keys(Derive(g, diagram.DefaultGeometry()))
	want := []string{"2-no-endpoint"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestDerive_Empty(t *testing.T) {
	if conns := Derive(diagram.Graph{}, diagram.DefaultGeometry()); len(conns) != 0 {
		t.Errorf("empty graph derived %d connections", len(conns))
	}
}

func TestGroupBySource(t *testing.T) {
	conns := []Connection{
		{Key: "1-next-2", Source: 1},
		{Key: "2-yes-endpoint", Source: 2},
		{Key: "1-next-3", Source: 1},
		{Key: "2-no-endpoint", Source: 2},
	}
	groups := GroupBySource(conns)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Source != 1 || !reflect.DeepEqual(groups[0].Indices, []int{0, 2}) {
		t.Errorf("group 0 = %+v", groups[0])
	}
	if groups[1].Source != 2 || len(groups[1].Connections) != 2 {
		t.Errorf("group 1 = %+v", groups[1])
	}
}
