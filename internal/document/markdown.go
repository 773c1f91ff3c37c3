package document

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Every heading opens a
// new section. Code and raw HTML blocks are dropped.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	b := newBuilder(baseTitle(filename))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := inlineText(h, src)
			// A leading h1 names the document.
			if h.Level == 1 && n == doc.FirstChild() {
				b.doc.Title = title
			}
			b.startSection(title, 0)
			continue
		}
		addBlock(b, n, src)
	}

	return b.finish(), nil
}

// addBlock adds the prose paragraphs of one block node.
func addBlock(b *builder, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		b.paragraph(inlineText(node, src))
	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var parts []string
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if t := inlineText(c, src); t != "" {
					parts = append(parts, t)
				}
			}
			b.paragraph(strings.Join(parts, " "))
		}
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			addBlock(b, c, src)
		}
	}
}

// inlineText flattens the inline children of n. Soft line breaks become spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(t.Value)
			case *ast.AutoLink:
				buf.Write(t.Label(src))
			case *ast.RawHTML, *ast.Image:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
