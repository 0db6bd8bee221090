package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// LoadBar is an indeterminate progress bar: a block that bounces between
// the brackets as Frame advances.
//
//	[░░░▓▓▓▓▓░░░░░░░░░░░]
type LoadBar struct {
	Frame    int
	BarWidth int // character width excluding brackets
}

const (
	barFilled = '▓'
	barEmpty  = '░'
)

// Position returns the column, relative to the inside of the brackets,
// where the moving block starts for the current frame.
func (lb *LoadBar) Position() int {
	block := lb.blockWidth()
	positions := lb.BarWidth - block + 1
	if positions <= 1 {
		return 0
	}
	pos := lb.Frame % (positions * 2)
	if pos < 0 {
		pos += positions * 2
	}
	if pos >= positions {
		pos = positions*2 - pos - 1
	}
	return pos
}

func (lb *LoadBar) blockWidth() int {
	w := lb.BarWidth / 3
	if w < 2 {
		w = 2
	}
	if w > lb.BarWidth {
		w = lb.BarWidth
	}
	return w
}

// Draw renders the bar as a single row.
func (lb *LoadBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, lb)
	if lb.BarWidth <= 0 || int(ctx.Max.Width) < lb.BarWidth+2 {
		return s, nil
	}

	col := uint16(0)
	for _, ch := range ctx.Characters("[") {
		s.WriteCell(col, 0, vaxis.Cell{Character: ch})
		col += uint16(ch.Width)
	}

	pos := lb.Position()
	block := lb.blockWidth()
	for i := 0; i < lb.BarWidth; i++ {
		ch := barEmpty
		style := vaxis.Style{Foreground: vaxis.IndexColor(8)}
		if i >= pos && i < pos+block {
			ch = barFilled
			style = vaxis.Style{Foreground: vaxis.IndexColor(4)}
		}
		for _, c := range ctx.Characters(string(ch)) {
			s.WriteCell(col, 0, vaxis.Cell{Character: c, Style: style})
			col += uint16(c.Width)
		}
	}

	for _, ch := range ctx.Characters("]") {
		s.WriteCell(col, 0, vaxis.Cell{Character: ch})
		col += uint16(ch.Width)
	}

	return s, nil
}
