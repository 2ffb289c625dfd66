// Package terminal hosts the interactive flowchart editor on a tcell screen.
//
// Mouse presses go through editor.Controller: a press on (+) opens the kind
// prompt, a press on × removes the card and a press on a card starts a drag
// that follows the pointer until release. The canvas is redrawn after
// every event.
package terminal

import (
	"cflow/canvas"
	"cflow/diagram"
	"cflow/editor"
	"cflow/model"
	"cflow/render"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// SaveFunc persists the graph when the user presses 's'.
type SaveFunc func(g diagram.Graph) error

// Editor is the terminal host of a Controller.
type Editor struct {
	screen   tcell.Screen
	ctrl     *editor.Controller
	chooser  *editor.PendingChooser
	scale    canvas.Scale
	box      canvas.BoxStyle
	theme    render.Theme
	logger   *slog.Logger
	save     SaveFunc
	filename string

	surface    *canvas.Surface
	viewOrigin diagram.Point // Canvas-unit point shown at the top-left cell
	viewSet    bool
	buttonDown bool
	status     string
	statusErr  bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithScale sets the canvas units per terminal cell.
func WithScale(s canvas.Scale) Option {
	return func(e *Editor) {
		e.scale = s
	}
}

// WithBoxStyle sets the characters used for cards.
func WithBoxStyle(b canvas.BoxStyle) Option {
	return func(e *Editor) {
		e.box = b
	}
}

// WithTheme sets the colour palette.
func WithTheme(t render.Theme) Option {
	return func(e *Editor) {
		e.theme = t
	}
}

// WithLogger sets the logger. It must not write to the terminal in use.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithSave enables the save key.
func WithSave(filename string, fn SaveFunc) Option {
	return func(e *Editor) {
		e.filename = filename
		e.save = fn
	}
}

// New creates an editor for m drawing on screen. The screen must be
// initialised before Draw or Run is called.
func New(screen tcell.Screen, m *model.Model, opts ...Option) *Editor {
	e := &Editor{
		screen:  screen,
		chooser: &editor.PendingChooser{},
		scale:   canvas.DefaultScale(),
		box:     canvas.DefaultBoxStyle,
		theme:   render.DefaultTheme(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctrl = editor.New(m, e.chooser)
	return e
}

// Controller returns the interaction controller.
func (e *Editor) Controller() *editor.Controller {
	return e.ctrl
}

// Status returns the current status message.
func (e *Editor) Status() string {
	return e.status
}

// Run initialises the screen and processes events until the user quits or
// ctx is cancelled.
func (e *Editor) Run(ctx context.Context) error {
	if err := e.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer e.screen.Fini()
	defer e.ctrl.Close()

	e.screen.EnableMouse(tcell.MouseDragEvents)
	e.screen.HideCursor()

	stop := context.AfterFunc(ctx, func() {
		e.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	e.Draw()
	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if !e.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent applies one screen event and redraws. It returns false when
// the user asked to quit.
func (e *Editor) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !e.handleKey(ev) {
			return false
		}
	case *tcell.EventMouse:
		e.handleMouse(ev)
	case *tcell.EventResize:
		e.screen.Sync()
	}
	e.Draw()
	return true
}

func (e *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if _, ok := e.chooser.Pending(); ok {
			e.chooser.Cancel()
			e.setStatus("add cancelled")
			return true
		}
		e.ctrl.PointerCancel()
		e.buttonDown = false
		return true
	case tcell.KeyUp:
		e.scroll(0, -1)
	case tcell.KeyDown:
		e.scroll(0, 1)
	case tcell.KeyLeft:
		e.scroll(-1, 0)
	case tcell.KeyRight:
		e.scroll(1, 0)
	case tcell.KeyRune:
		return e.handleRune(ev.Rune())
	}
	return true
}

func (e *Editor) handleRune(r rune) bool {
	if _, ok := e.chooser.Pending(); ok {
		kinds := editor.ChoosableKinds()
		if i := int(r - '1'); i >= 0 && i < len(kinds) {
			e.commitKind(kinds[i])
		}
		return true
	}

	switch r {
	case 'q':
		return false
	case 's':
		e.saveGraph()
	case 'g':
		e.viewSet = false
	case 'J':
		_, h := e.screen.Size()
		e.scroll(0, h/2)
	case 'K':
		_, h := e.screen.Size()
		e.scroll(0, -h/2)
	case '?', 'h':
		e.setStatus("drag cards | (+) add | × remove | arrows scroll | g reset view | s save | q quit")
	}
	return true
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := e.toUnits(x, y)
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !e.buttonDown:
		e.buttonDown = true
		if _, ok := e.chooser.Pending(); ok {
			e.chooser.Cancel()
		}
		action, err := e.ctrl.Click(p)
		if err != nil {
			e.setError(err)
			return
		}
		switch action {
		case editor.ActionAdd:
			e.promptKind()
		case editor.ActionRemove:
			e.setStatus("card removed")
		case editor.ActionDragStart:
			id, _ := e.ctrl.Dragging()
			e.logger.Debug("drag start", "node", id, "at", p)
		}
	case pressed:
		if err := e.ctrl.PointerMove(p); err != nil {
			e.setError(err)
		}
	case e.buttonDown:
		e.buttonDown = false
		if id, ok := e.ctrl.Dragging(); ok {
			e.logger.Debug("drag end", "node", id, "at", p)
		}
		e.ctrl.PointerUp()
	}
}

func (e *Editor) promptKind() {
	var b strings.Builder
	b.WriteString("add card:")
	for i, k := range editor.ChoosableKinds() {
		fmt.Fprintf(&b, " [%d] %s", i+1, k)
	}
	b.WriteString(" [esc] cancel")
	e.setStatus(b.String())
}

func (e *Editor) commitKind(kind diagram.Kind) {
	if err := e.chooser.Commit(kind); err != nil {
		e.setError(err)
		return
	}
	id := e.ctrl.LastAdded()
	e.logger.Info("node added", "id", id, "kind", kind)
	e.setStatus(fmt.Sprintf("added %s card #%d", kind, id))
}

func (e *Editor) saveGraph() {
	if e.save == nil {
		e.setError(errors.New("no file to save to"))
		return
	}
	if err := e.save(e.ctrl.Model().Snapshot()); err != nil {
		e.setError(fmt.Errorf("save: %w", err))
		return
	}
	e.logger.Info("graph saved", "file", e.filename)
	e.setStatus("saved " + e.filename)
}

func (e *Editor) setStatus(msg string) {
	e.status = msg
	e.statusErr = false
}

func (e *Editor) setError(err error) {
	e.logger.Warn("edit rejected", "err", err)
	e.status = err.Error()
	e.statusErr = true
}

// scroll moves the view by whole cells.
func (e *Editor) scroll(dx, dy int) {
	e.viewOrigin.X += dx * e.scale.CellWidth
	e.viewOrigin.Y += dy * e.scale.CellHeight
}

// toUnits maps a screen cell to canvas units.
func (e *Editor) toUnits(x, y int) diagram.Point {
	return diagram.Point{
		X: e.viewOrigin.X + x*e.scale.CellWidth + e.scale.CellWidth/2,
		Y: e.viewOrigin.Y + y*e.scale.CellHeight + e.scale.CellHeight/2,
	}
}
