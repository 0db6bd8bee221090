package document

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Line is a single display row produced by laying out a Page.
type Line struct {
	Text  string
	Kind  BlockKind
	Level int
}

const (
	bullet     = "• "
	quoteBar   = "│ "
	ruleGlyph  = "─"
	blankLines = 1
)

// Lines lays the page out for a terminal of the given width. Blocks are
// separated by a blank line.
func (p *Page) Lines(width int) []Line {
	if p == nil || width <= 0 {
		return nil
	}

	var out []Line
	for i, blk := range p.Blocks {
		if i > 0 {
			for j := 0; j < blankLines; j++ {
				out = append(out, Line{Kind: Paragraph})
			}
		}
		for _, text := range layoutBlock(blk, width) {
			out = append(out, Line{Text: text, Kind: blk.Kind, Level: blk.Level})
		}
	}
	return out
}

func layoutBlock(blk Block, width int) []string {
	switch blk.Kind {
	case Rule:
		return []string{strings.Repeat(ruleGlyph, width)}
	case Preformatted:
		var rows []string
		for _, row := range strings.Split(blk.Text, "\n") {
			rows = append(rows, runewidth.Truncate(strings.ReplaceAll(row, "\t", "    "), width, ""))
		}
		return rows
	case ListItem:
		return indent(blk.Text, width, bullet)
	case Quote:
		return indent(blk.Text, width, quoteBar)
	default:
		return Wrap(blk.Text, width)
	}
}

// indent wraps text behind a prefix, with continuation rows hanging under
// the first character of text.
func indent(text string, width int, prefix string) []string {
	pw := runewidth.StringWidth(prefix)
	if width <= pw {
		return Wrap(text, width)
	}
	rows := Wrap(text, width-pw)
	pad := strings.Repeat(" ", pw)
	if prefix == quoteBar {
		pad = prefix
	}
	for i := range rows {
		if i == 0 {
			rows[i] = prefix + rows[i]
		} else {
			rows[i] = pad + rows[i]
		}
	}
	return rows
}

// Wrap breaks text into rows no wider than width display columns. Words
// longer than width are split.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var (
		rows []string
		cur  strings.Builder
		used int
	)
	emit := func() {
		rows = append(rows, cur.String())
		cur.Reset()
		used = 0
	}

	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		if used > 0 && used+1+ww > width {
			emit()
		}
		for ww > width {
			if used > 0 {
				emit()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			rows = append(rows, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		if ww == 0 {
			continue
		}
		if used > 0 {
			cur.WriteByte(' ')
			used++
		}
		cur.WriteString(word)
		used += ww
	}
	if used > 0 {
		emit()
	}
	return rows
}
