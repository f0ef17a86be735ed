package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-spacebattle/pkg/entity"
	"github.com/opd-ai/go-spacebattle/pkg/physics"
)

// TerminalRenderer draws the arena as ASCII text. Ships show as their
// owner's digit and missiles as dots.
type TerminalRenderer struct {
	width  int
	height int
	buffer [][]rune
	scale  float64
	out    io.Writer
}

// NewTerminalRenderer creates a renderer with a width x height character
// grid whose top-left cell is the world origin. Each cell covers scale
// world units.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    out,
	}
	r.Clear()
	return r
}

func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	x := int(math.Floor(pos.X / r.scale))
	y := int(math.Floor(pos.Y / r.scale))
	return x, y
}

func (r *TerminalRenderer) plot(pos physics.Vector2D, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear blanks the frame.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Present writes the frame inside a border.
func (r *TerminalRenderer) Present() error {
	w := bufio.NewWriter(r.out)
	border := "+" + strings.Repeat("-", r.width) + "+\n"

	fmt.Fprint(w, border)
	for y := range r.buffer {
		fmt.Fprintf(w, "|%s|\n", string(r.buffer[y]))
	}
	fmt.Fprint(w, border)
	return w.Flush()
}

// RenderShip implements entity.Renderer.
func (r *TerminalRenderer) RenderShip(ship *entity.Ship) {
	symbol := '*'
	if ship.OwnerID >= 0 && ship.OwnerID < 10 {
		symbol = rune('0' + ship.OwnerID)
	}
	r.plot(ship.Position, symbol)
}

// RenderMissile implements entity.Renderer.
func (r *TerminalRenderer) RenderMissile(missile *entity.Missile) {
	r.plot(missile.Position, '.')
}
