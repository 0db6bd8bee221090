package views_test

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

// surfaceText returns the graphemes written directly to s, one line per row.
func surfaceText(s vxfw.Surface) string {
	w := int(s.Size.Width)
	var sb strings.Builder
	for i, c := range s.Buffer {
		if i > 0 && i%w == 0 {
			sb.WriteString("\n")
		}
		if c.Character.Grapheme == "" {
			sb.WriteString(" ")
			continue
		}
		sb.WriteString(c.Character.Grapheme)
	}
	return sb.String()
}
