package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a braille activity indicator followed by a label.
type Spinner struct {
	Label string
	frame int
}

// Advance moves to the next animation frame.
func (sp *Spinner) Advance() {
	sp.frame = (sp.frame + 1) % len(spinnerFrames)
}

// Reset returns to the first frame.
func (sp *Spinner) Reset() {
	sp.frame = 0
}

// FrameIndex returns the current frame number.
func (sp *Spinner) FrameIndex() int {
	return sp.frame
}

// Frame returns the glyph for the current frame.
func (sp *Spinner) Frame() string {
	return spinnerFrames[sp.frame]
}

// Draw renders "⠋ Label" on one row, centered.
func (sp *Spinner) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sp)
	text := sp.Frame()
	if sp.Label != "" {
		text += " " + sp.Label
	}

	width := int(ctx.Max.Width)
	offset := 0
	if w := TextWidth(text); w < width {
		offset = (width - w) / 2
	}

	col := uint16(offset)
	col += uint16(WriteText(&s, col, 0, width-offset, sp.Frame(), vaxis.Style{Foreground: vaxis.IndexColor(4), Attribute: vaxis.AttrBold}, AlignLeft))
	if sp.Label != "" {
		WriteText(&s, col, 0, width-int(col), " "+sp.Label, vaxis.Style{Attribute: vaxis.AttrDim}, AlignLeft)
	}
	return s, nil
}
