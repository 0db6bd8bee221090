package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/embedview/document"
)

// ErrorPanel is a centered block with an icon, title, message and one
// action button.
type ErrorPanel struct {
	Icon    string
	Title   string
	Message string
	Action  string
	// Hint is shown dimmed under the button, e.g. the key that activates it.
	Hint string
}

// maxMessageWidth keeps the message readable on wide terminals.
const maxMessageWidth = 60

// Rows returns the panel content, one string per row, for the given width.
// Empty strings are spacer rows.
func (ep *ErrorPanel) Rows(width int) []string {
	msgWidth := width - 4
	if msgWidth > maxMessageWidth {
		msgWidth = maxMessageWidth
	}

	rows := []string{ep.Icon, "", ep.Title, ""}
	rows = append(rows, document.Wrap(ep.Message, msgWidth)...)
	rows = append(rows, "", ep.button())
	if ep.Hint != "" {
		rows = append(rows, ep.Hint)
	}
	return rows
}

func (ep *ErrorPanel) button() string {
	return "[ " + ep.Action + " ]"
}

// Draw renders the panel centered in the available space.
func (ep *ErrorPanel) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, ep)
	width := int(ctx.Max.Width)
	height := int(ctx.Max.Height)

	rows := ep.Rows(width)
	top := 0
	if len(rows) < height {
		top = (height - len(rows)) / 2
	}

	titleRow := 2
	buttonRow := len(rows) - 1
	if ep.Hint != "" {
		buttonRow--
	}

	for i, text := range rows {
		row := top + i
		if row >= height {
			break
		}
		style := vaxis.Style{}
		switch {
		case i == 0:
			style = vaxis.Style{Foreground: vaxis.IndexColor(3)}
		case i == titleRow:
			style = vaxis.Style{Attribute: vaxis.AttrBold}
		case i == buttonRow:
			style = vaxis.Style{Foreground: vaxis.IndexColor(15), Background: vaxis.IndexColor(4), Attribute: vaxis.AttrBold}
		case ep.Hint != "" && i == len(rows)-1:
			style = vaxis.Style{Attribute: vaxis.AttrDim}
		}
		WriteText(&s, 0, uint16(row), width, text, style, AlignCenter)
	}

	return s, nil
}
