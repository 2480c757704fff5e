package document

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML builds a document from HTML source. Links inside nav elements
// become items; sections, articles and divs keep their ids so links can
// target them. When the page has no nav one is generated from every
// section and heading that carries an id.
func ParseHTML(src []byte, title string) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if t := findTitle(root); t != "" {
		title = t
	}

	body := NewNode(TagBody)
	if b := findElement(root, atom.Body); b != nil {
		if id := attr(b, "id"); id != "" {
			body.SetID(id)
		}
		convertChildren(b, body)
	}

	hasNav := false
	body.Walk(func(n *Node) bool {
		if n.Tag == TagNav {
			hasNav = true
			return false
		}
		return true
	})
	if !hasNav {
		body.children = append([]*Node{generateNav(body)}, body.children...)
		body.children[0].parent = body
	}

	return New(title, body), nil
}

func convertChildren(h *html.Node, parent *Node) {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		convert(c, parent)
	}
}

func convert(h *html.Node, parent *Node) {
	switch h.Type {
	case html.TextNode:
		if t := collapse(h.Data); t != "" {
			parent.Append(NewText(TagPara, t))
		}
		return
	case html.ElementNode:
	default:
		return
	}

	id := attr(h, "id")
	switch h.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Head:
		return
	case atom.Nav:
		nav := NewNode(TagNav).SetID(id)
		collectLinks(h, nav, 0)
		parent.Append(nav)
	case atom.Section, atom.Article:
		n := NewNode(h.Data).SetID(id)
		parent.Append(n)
		convertChildren(h, n)
	case atom.Div, atom.Main, atom.Header, atom.Footer, atom.Aside:
		n := NewNode(TagDiv).SetID(id)
		parent.Append(n)
		convertChildren(h, n)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		parent.Append(NewHeading(int(h.Data[1]-'0'), id, textContent(h)))
	case atom.P, atom.Blockquote, atom.Dt, atom.Dd, atom.Figcaption, atom.Td:
		tag := TagPara
		if h.DataAtom == atom.Blockquote {
			tag = TagQuote
		}
		if t := textContent(h); t != "" {
			parent.Append(NewText(tag, t).SetID(id))
		}
	case atom.Li:
		if t := textContent(h); t != "" {
			parent.Append(NewText(TagItem, t).SetID(id))
		}
	case atom.Pre:
		parent.Append(NewText(TagPre, rawText(h)).SetID(id))
	default:
		if id != "" {
			n := NewNode(TagDiv).SetID(id)
			parent.Append(n)
			convertChildren(h, n)
			return
		}
		convertChildren(h, parent)
	}
}

// collectLinks appends every anchor below h to nav. Level counts the list
// nesting depth.
func collectLinks(h *html.Node, nav *Node, level int) {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.A:
			nav.Append(NewLink(attr(c, "href"), textContent(c), level).SetID(attr(c, "id")))
		case atom.Ul, atom.Ol:
			collectLinks(c, nav, level+1)
		default:
			collectLinks(c, nav, level)
		}
	}
}

func generateNav(body *Node) *Node {
	nav := NewNode(TagNav)
	body.Walk(func(n *Node) bool {
		if n.id == "" {
			return true
		}
		switch {
		case n.Tag == TagSection || n.Tag == TagArticle:
			label := n.id
			for _, c := range n.children {
				if c.IsHeading() {
					label = c.Text
					break
				}
			}
			nav.Append(NewLink("#"+n.id, label, depth(n)))
		case n.IsHeading():
			nav.Append(NewLink("#"+n.id, n.Text, n.Level))
		}
		return true
	})
	return nav
}

func depth(n *Node) int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		if p.Tag == TagSection || p.Tag == TagArticle {
			d++
		}
	}
	return d + 1
}

func findTitle(n *html.Node) string {
	if t := findElement(n, atom.Title); t != nil {
		return textContent(t)
	}
	return ""
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapse(b.String())
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Trim(b.String(), "\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
