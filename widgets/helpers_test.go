package widgets_test

import (
	"strings"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

func testDrawContext(w, h uint16) vxfw.DrawContext {
	return vxfw.DrawContext{
		Max: vxfw.Size{Width: w, Height: h},
		Min: vxfw.Size{},
		Characters: func(s string) []vaxis.Character {
			chars := make([]vaxis.Character, 0, len(s))
			for _, r := range s {
				chars = append(chars, vaxis.Character{Grapheme: string(r), Width: 1})
			}
			return chars
		},
	}
}

// rowText joins the graphemes of one surface row, using a space for
// unwritten cells.
func rowText(s vxfw.Surface, row int) string {
	w := int(s.Size.Width)
	var sb strings.Builder
	for _, c := range s.Buffer[row*w : (row+1)*w] {
		if c.Character.Grapheme == "" {
			sb.WriteString(" ")
			continue
		}
		sb.WriteString(c.Character.Grapheme)
	}
	return sb.String()
}
