package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Align positions text within a span of columns.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// TextWidth returns the display width of s.
func TextWidth(s string) int {
	w := 0
	for _, ch := range vaxis.Characters(s) {
		w += ch.Width
	}
	return w
}

// WriteText writes s into surf at (col, row) within maxWidth columns and
// returns the number of columns written. Text that does not fit is cut.
func WriteText(surf *vxfw.Surface, col, row uint16, maxWidth int, s string, style vaxis.Style, align Align) int {
	if maxWidth <= 0 {
		return 0
	}
	chars := vaxis.Characters(s)

	displayWidth := 0
	for _, ch := range chars {
		displayWidth += ch.Width
	}

	offset := 0
	if displayWidth < maxWidth {
		switch align {
		case AlignRight:
			offset = maxWidth - displayWidth
		case AlignCenter:
			offset = (maxWidth - displayWidth) / 2
		}
	}

	pos := offset
	for _, ch := range chars {
		if pos+ch.Width > maxWidth {
			break
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{
			Character: ch,
			Style:     style,
		})
		pos += ch.Width
	}
	return pos - offset
}

// Fill paints every cell of surf with a blank in the given style, hiding
// anything drawn beneath it.
func Fill(surf *vxfw.Surface, style vaxis.Style) {
	blank := vaxis.Character{Grapheme: " ", Width: 1}
	for row := uint16(0); row < surf.Size.Height; row++ {
		for col := uint16(0); col < surf.Size.Width; col++ {
			surf.WriteCell(col, row, vaxis.Cell{Character: blank, Style: style})
		}
	}
}
