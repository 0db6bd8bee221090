package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// StatusBar is the single row above the page: title and URL on the left,
// detail text and a state badge on the right.
//
//	 Crush Management │ https://example.com        12 kB · 230ms  READY
type StatusBar struct {
	Title      string
	URL        string
	Detail     string
	Badge      string
	BadgeStyle vaxis.Style
}

const statusSep = " │ "

// Draw renders the bar in reverse video across the full width.
func (sb *StatusBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sb)
	base := vaxis.Style{Attribute: vaxis.AttrReverse}
	Fill(&s, base)

	width := int(ctx.Max.Width)

	// Right side first so it wins when space is short.
	right := 0
	if sb.Badge != "" {
		badge := " " + sb.Badge + " "
		right = TextWidth(badge)
		WriteText(&s, 0, 0, width, badge, sb.BadgeStyle, AlignRight)
	}
	if sb.Detail != "" && width-right > 0 {
		detail := sb.Detail + " "
		n := TextWidth(detail)
		WriteText(&s, 0, 0, width-right, detail, base, AlignRight)
		right += n
	}

	avail := width - right - 1
	if avail <= 0 {
		return s, nil
	}

	col := uint16(0)
	title := " " + sb.Title
	col += uint16(WriteText(&s, col, 0, avail, title, vaxis.Style{Attribute: vaxis.AttrReverse | vaxis.AttrBold}, AlignLeft))
	if sb.URL != "" && int(col) < avail {
		col += uint16(WriteText(&s, col, 0, avail-int(col), statusSep, base, AlignLeft))
		WriteText(&s, col, 0, avail-int(col), sb.URL, base, AlignLeft)
	}

	return s, nil
}
