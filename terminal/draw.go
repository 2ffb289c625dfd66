package terminal

import (
	"cflow/canvas"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Draw rasterizes the controller's scene and paints the visible part of it
// above the status line.
func (e *Editor) Draw() {
	e.screen.Clear()
	w, h := e.screen.Size()

	surface, err := canvas.Rasterize(e.ctrl.Scene(), e.scale, e.theme, canvas.WithBoxStyle(e.box))
	if err != nil {
		e.setError(fmt.Errorf("draw: %w", err))
	} else {
		e.surface = surface
		if !e.viewSet {
			e.viewOrigin = surface.Origin()
			e.viewSet = true
		}
		e.blit(surface, w, h-1)
	}

	e.drawStatus(w, h)
	e.screen.Show()
}

// blit copies the cells under the view into the top rows of the screen.
func (e *Editor) blit(surface *canvas.Surface, w, rows int) {
	grid := surface.Canvas()
	for y := 0; y < rows; y++ {
		for x := 0; x < w; x++ {
			cell := surface.Cell(e.toUnits(x, y))
			r := grid.Get(cell)
			if r == ' ' || r == canvas.WideContinuation {
				continue
			}
			e.screen.SetContent(x, y, r, nil, e.style(grid.Color(cell)))
		}
	}
}

func (e *Editor) drawStatus(w, h int) {
	if h < 1 {
		return
	}
	name := e.filename
	if name == "" {
		name = "untitled"
	}
	line := fmt.Sprintf("[ %s ] Nodes: %d | Connections: %d | Mode: %s",
		name, e.ctrl.Model().Len(), len(e.ctrl.Connections()), e.ctrl.Mode())

	style := tcell.StyleDefault.Reverse(true)
	x := drawText(e.screen, 0, h-1, w, line, style)
	if e.status != "" {
		msgStyle := style
		if e.statusErr {
			msgStyle = msgStyle.Foreground(tcell.GetColor(e.theme.No))
		}
		x = drawText(e.screen, x, h-1, w, " | "+e.status, msgStyle)
	}
	for ; x < w; x++ {
		e.screen.SetContent(x, h-1, ' ', nil, style)
	}
}

func (e *Editor) style(color string) tcell.Style {
	if color == "" {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.GetColor(color))
}

// drawText writes s from column x, clipped at maxX, and returns the column
// after the last rune written.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if x+rw > maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}
