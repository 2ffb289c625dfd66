package terminal

import (
	"cflow/canvas"
	"cflow/diagram"
	"cflow/editor"
	"cflow/model"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

// ===== Test helpers =====

// scenarioGraph is trigger#1 --next--> condition#2 with both branches
// open. At the default scale the view maps screen cell (x, y) to the
// canvas units (365+10x, 20+20y).
func scenarioGraph() diagram.Graph {
	return diagram.Graph{Nodes: []diagram.Node{
		{ID: 1, Kind: diagram.KindTrigger, Label: "When someone purchases", Position: diagram.Point{X: 380, Y: 50}, Links: diagram.Linear{Next: []int{2}}},
		{ID: 2, Kind: diagram.KindCondition, Label: "Purchased a product?", Position: diagram.Point{X: 380, Y: 150}, Links: diagram.Branch{}},
	}}
}

func newTestEditor(t *testing.T, opts ...Option) (*Editor, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)

	m, err := model.New(scenarioGraph())
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	e := New(screen, m, opts...)
	t.Cleanup(e.ctrl.Close)
	e.Draw()
	return e, screen
}

func press(e *Editor, x, y int) bool {
	return e.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
}

func release(e *Editor, x, y int) bool {
	return e.HandleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func key(e *Editor, r rune) bool {
	return e.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func cellAt(t *testing.T, screen tcell.SimulationScreen, x, y int) tcell.SimCell {
	t.Helper()
	cells, w, _ := screen.GetContents()
	return cells[y*w+x]
}

func runeAt(t *testing.T, screen tcell.SimulationScreen, x, y int) rune {
	t.Helper()
	c := cellAt(t, screen, x, y)
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func rowText(t *testing.T, screen tcell.SimulationScreen, y int) string {
	t.Helper()
	_, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(runeAt(t, screen, x, y))
	}
	return strings.TrimRight(b.String(), " ")
}

// ===== Tests =====

func TestDraw(t *testing.T) {
	_, screen := newTestEditor(t)

	if r := runeAt(t, screen, 2, 7); r != '╭' {
		t.Errorf("condition card corner = %q, want '╭'", r)
	}
	fg, _, _ := cellAt(t, screen, 2, 7).Style.Decompose()
	if fg != tcell.GetColor("#7e57c2") {
		t.Errorf("condition border colour = %v", fg)
	}
	if !strings.Contains(rowText(t, screen, 8), "Purchased a product?") {
		t.Errorf("label row = %q", rowText(t, screen, 8))
	}
	if r := runeAt(t, screen, 17, 6); r != '▼' {
		t.Errorf("arrow into condition = %q", r)
	}

	status := rowText(t, screen, 29)
	if !strings.HasPrefix(status, "[ untitled ] Nodes: 2 | Connections: 3 | Mode: IDLE") {
		t.Errorf("status line = %q", status)
	}
}

func TestDraw_BoxStyle(t *testing.T) {
	_, screen := newTestEditor(t, WithBoxStyle(canvas.SimpleBoxStyle))

	if r := runeAt(t, screen, 2, 7); r != '+' {
		t.Errorf("condition card corner = %q, want '+'", r)
	}
	if r := runeAt(t, screen, 2, 8); r != '|' {
		t.Errorf("condition card side = %q, want '|'", r)
	}
}

// zeroRuneScreen counts cells written with the NUL rune.
type zeroRuneScreen struct {
	tcell.SimulationScreen
	zeros int
}

func (s *zeroRuneScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	if mainc == 0 {
		s.zeros++
	}
	s.SimulationScreen.SetContent(x, y, mainc, combc, style)
}

func TestDraw_WideLabel(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatal(err)
	}
	sim.SetSize(100, 30)
	t.Cleanup(sim.Fini)
	screen := &zeroRuneScreen{SimulationScreen: sim}

	g := scenarioGraph()
	g.Nodes[1].Label = "漢字ラベル"
	m, err := model.New(g)
	if err != nil {
		t.Fatal(err)
	}
	e := New(screen, m)
	t.Cleanup(e.ctrl.Close)
	e.Draw()

	if screen.zeros != 0 {
		t.Errorf("%d cells written with a NUL rune", screen.zeros)
	}
	if !strings.Contains(rowText(t, sim, 8), "漢") {
		t.Errorf("label row = %q", rowText(t, sim, 8))
	}
	right := -1
	for x, r := range []rune(rowText(t, sim, 7)) {
		if r == '╮' {
			right = x
			break
		}
	}
	if right < 0 {
		t.Fatalf("no top-right corner on row 7: %q", rowText(t, sim, 7))
	}
	if r := runeAt(t, sim, right, 8); r != '│' {
		t.Errorf("right border under the corner = %q, want '│'", r)
	}
}

func TestDrag(t *testing.T) {
	e, screen := newTestEditor(t)

	press(e, 10, 8)
	if id, ok := e.ctrl.Dragging(); !ok || id != 2 {
		t.Fatalf("dragging = %d, %v; want node 2", id, ok)
	}
	if !strings.Contains(rowText(t, screen, 29), "Mode: DRAGGING") {
		t.Errorf("status during drag = %q", rowText(t, screen, 29))
	}

	press(e, 14, 10) // held button: motion
	release(e, 14, 10)

	n, _ := e.ctrl.Model().Node(2)
	if n.Position != (diagram.Point{X: 420, Y: 190}) {
		t.Errorf("position = %+v, want {420 190}", n.Position)
	}
	if e.ctrl.Mode() != editor.ModeIdle {
		t.Errorf("mode after release = %s", e.ctrl.Mode())
	}
}

func TestTriggerIsPinned(t *testing.T) {
	e, _ := newTestEditor(t)

	press(e, 10, 3)
	press(e, 20, 5)
	release(e, 20, 5)

	n, _ := e.ctrl.Model().Node(1)
	if n.Position != (diagram.Point{X: 380, Y: 50}) {
		t.Errorf("trigger moved to %+v", n.Position)
	}
}

func TestAddFlow(t *testing.T) {
	e, _ := newTestEditor(t)

	press(e, 12, 13) // (+) on the yes branch
	release(e, 12, 13)
	if !strings.HasPrefix(e.Status(), "add card: [1] action [2] condition [3] email") {
		t.Fatalf("status = %q", e.Status())
	}

	key(e, '3')
	n, ok := e.ctrl.Model().Node(3)
	if !ok {
		t.Fatal("email card not added")
	}
	if n.Kind != diagram.KindEmail || n.Position != (diagram.Point{X: 330, Y: 290}) {
		t.Errorf("added node = %+v", n)
	}
	if e.Status() != "added email card #3" {
		t.Errorf("status = %q", e.Status())
	}
	if _, pending := e.chooser.Pending(); pending {
		t.Error("choice still pending after commit")
	}
}

func TestAddCancel(t *testing.T) {
	e, _ := newTestEditor(t)

	press(e, 22, 13) // (+) on the no branch
	release(e, 22, 13)
	e.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	if e.ctrl.Model().Len() != 2 {
		t.Errorf("cancelled add changed graph: %d nodes", e.ctrl.Model().Len())
	}
	if e.Status() != "add cancelled" {
		t.Errorf("status = %q", e.Status())
	}

	key(e, '1')
	if e.ctrl.Model().Len() != 2 {
		t.Error("digit after cancel added a card")
	}
}

func TestRemoveFlow(t *testing.T) {
	e, _ := newTestEditor(t)

	press(e, 30, 8) // × on the condition card
	release(e, 30, 8)

	if e.ctrl.Model().Len() != 1 {
		t.Fatalf("nodes = %d, want 1", e.ctrl.Model().Len())
	}
	trigger, _ := e.ctrl.Model().Node(1)
	if len(trigger.Next()) != 0 {
		t.Errorf("trigger still references removed card: %v", trigger.Next())
	}
}

func TestScroll(t *testing.T) {
	e, screen := newTestEditor(t)

	e.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if r := runeAt(t, screen, 1, 7); r != '╭' {
		t.Errorf("after scrolling right corner = %q, want '╭' at column 1", r)
	}

	key(e, 'g')
	if r := runeAt(t, screen, 2, 7); r != '╭' {
		t.Errorf("after reset corner = %q, want '╭' at column 2", r)
	}
}

func TestSave(t *testing.T) {
	var saved diagram.Graph
	calls := 0
	e, _ := newTestEditor(t, WithSave("flow.json", func(g diagram.Graph) error {
		calls++
		saved = g
		return nil
	}))

	key(e, 's')
	if calls != 1 || len(saved.Nodes) != 2 {
		t.Errorf("save called %d times with %d nodes", calls, len(saved.Nodes))
	}
	if e.Status() != "saved flow.json" {
		t.Errorf("status = %q", e.Status())
	}
}

func TestSaveErrors(t *testing.T) {
	e, _ := newTestEditor(t)
	key(e, 's')
	if !e.statusErr {
		t.Error("save without a file should report an error")
	}

	e, _ = newTestEditor(t, WithSave("flow.json", func(diagram.Graph) error {
		return errors.New("read-only")
	}))
	key(e, 's')
	if !e.statusErr || !strings.Contains(e.Status(), "read-only") {
		t.Errorf("status = %q", e.Status())
	}
}

func TestQuitKeys(t *testing.T) {
	e, _ := newTestEditor(t)
	if key(e, 'q') {
		t.Error("q should quit")
	}
	if e.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("ctrl-c should quit")
	}

	press(e, 12, 13)
	release(e, 12, 13)
	if !key(e, 'q') {
		t.Error("q while choosing a kind should not quit")
	}
}

func TestRun_Cancelled(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	m, err := model.New(scenarioGraph())
	if err != nil {
		t.Fatal(err)
	}
	e := New(screen, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
