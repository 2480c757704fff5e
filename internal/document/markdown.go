package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown builds a document from Markdown source. Every heading opens
// a section whose id is the heading's explicit {#id} attribute or a slug of
// its text. Sections nest by heading level and a nav of links to every
// section is generated at the top of the body.
func ParseMarkdown(src []byte, title string) *Document {
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAttribute()))
	root := md.Parser().Parse(text.NewReader(src))

	body := NewNode(TagBody)
	nav := NewNode(TagNav)
	body.Append(nav)

	type frame struct {
		node  *Node
		level int
	}
	stack := []frame{{node: body}}
	top := func() *Node { return stack[len(stack)-1].node }

	slugs := NewSlugger()
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			label := inlineText(h, src)
			id := ""
			if v, ok := h.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok && len(b) > 0 {
					id = string(b)
					slugs.Reserve(id)
				}
			}
			if id == "" {
				id = slugs.Slug(label)
			}
			if title == "" && h.Level == 1 {
				title = label
			}

			for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			section := NewNode(TagSection).SetID(id)
			section.Append(NewHeading(h.Level, "", label))
			top().Append(section)
			stack = append(stack, frame{node: section, level: h.Level})

			nav.Append(NewLink("#"+id, label, h.Level))
			continue
		}
		for _, b := range markdownBlocks(n, src) {
			top().Append(b)
		}
	}

	return New(title, body)
}

func markdownBlocks(n ast.Node, src []byte) []*Node {
	switch b := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if t := inlineText(b, src); t != "" {
			return []*Node{NewText(TagPara, t)}
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return []*Node{NewText(TagPre, blockLines(b, src))}
	case *ast.Blockquote:
		if t := inlineText(b, src); t != "" {
			return []*Node{NewText(TagQuote, t)}
		}
	case *ast.List:
		var items []*Node
		for li := b.FirstChild(); li != nil; li = li.NextSibling() {
			if t := inlineText(li, src); t != "" {
				items = append(items, NewText(TagItem, t))
			}
		}
		return items
	}
	return nil
}

// inlineText collects the text segments below n, joining lines with spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if c.Type() == ast.TypeBlock && c != n {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
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
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}
