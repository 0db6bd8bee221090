// Package document turns a fetched web page into blocks of plain text that
// can be laid out in a terminal.
package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockKind identifies how a block of text should be presented.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	ListItem
	Preformatted
	Quote
	Rule
)

// Block is one vertical unit of page content.
type Block struct {
	Kind  BlockKind
	Level int // heading level 1-6, zero otherwise
	Text  string
}

// Page is a rendered document ready for display.
type Page struct {
	Title  string
	URL    string
	Blocks []Block
	Size   int // bytes received
}

// stripped lists elements whose content never reaches the screen.
const stripped = "script, style, noscript, template, svg, iframe, object, embed, canvas"

// Parse reads an HTML document and extracts its title and text blocks.
func Parse(r io.Reader, pageURL string) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	doc.Find(stripped).Remove()

	p := &Page{
		Title: collapse(doc.Find("title").First().Text()),
		URL:   pageURL,
		Size:  len(data),
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	b := &builder{}
	for _, n := range body.Nodes {
		b.walk(n)
	}
	b.flush()
	p.Blocks = b.blocks
	return p, nil
}

// ParseText wraps a plain-text response as a single preformatted block.
func ParseText(r io.Reader, pageURL string) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	p := &Page{URL: pageURL, Size: len(data)}
	text := strings.TrimRight(string(data), "\n")
	if text != "" {
		p.Blocks = []Block{{Kind: Preformatted, Text: text}}
	}
	return p, nil
}

type builder struct {
	blocks []Block
	inline strings.Builder
}

func (b *builder) add(kind BlockKind, level int, text string) {
	if text == "" && kind != Rule {
		return
	}
	b.blocks = append(b.blocks, Block{Kind: kind, Level: level, Text: text})
}

// flush closes the pending run of inline text as a paragraph.
func (b *builder) flush() {
	text := collapse(b.inline.String())
	b.inline.Reset()
	b.add(Paragraph, 0, text)
}

func (b *builder) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.inline.WriteString(c.Data)
		case html.ElementNode:
			b.element(c)
		}
	}
}

func (b *builder) element(n *html.Node) {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		b.flush()
		b.add(Heading, int(n.Data[1]-'0'), collapse(textContent(n)))
	case atom.Li, atom.Dt, atom.Dd:
		b.flush()
		b.add(ListItem, 0, collapse(textContent(n)))
	case atom.Pre:
		b.flush()
		b.add(Preformatted, 0, strings.Trim(textContent(n), "\n"))
	case atom.Blockquote:
		b.flush()
		b.add(Quote, 0, collapse(textContent(n)))
	case atom.Hr:
		b.flush()
		b.add(Rule, 0, "")
	case atom.Br:
		b.flush()
	case atom.Img:
		if alt := collapse(attr(n, "alt")); alt != "" {
			b.inline.WriteString(" [" + alt + "] ")
		}
	case atom.Td, atom.Th:
		b.walk(n)
		b.inline.WriteString(" ")
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main,
		atom.Header, atom.Footer, atom.Nav, atom.Aside, atom.Form,
		atom.Table, atom.Tr, atom.Ul, atom.Ol, atom.Dl, atom.Figure,
		atom.Figcaption, atom.Address, atom.Fieldset, atom.Details, atom.Summary:
		b.flush()
		b.walk(n)
		b.flush()
	default:
		b.walk(n)
	}
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
