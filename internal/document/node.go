package document

import (
	"sort"
	"strings"

	"github.com/dshills/navspy/internal/spy/host"
)

// Tag names used by the tree.
const (
	TagBody    = "body"
	TagNav     = "nav"
	TagLink    = "a"
	TagSection = "section"
	TagArticle = "article"
	TagDiv     = "div"
	TagPara    = "p"
	TagPre     = "pre"
	TagItem    = "li"
	TagQuote   = "blockquote"
)

// Node is an element of the page tree. It implements host.Element.
type Node struct {
	Tag   string
	Text  string
	Level int // heading level for h1-h6, nesting level for links

	id       string
	href     string
	classes  map[string]bool
	parent   *Node
	children []*Node

	handlers    map[int]func(host.Event)
	nextHandler int

	// Layout results.
	offsetParent *Node
	top          float64
	height       float64
	absTop       int
}

// NewNode creates a node with the given tag.
func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

// NewText creates a text block.
func NewText(tag, text string) *Node {
	return &Node{Tag: tag, Text: text}
}

// NewHeading creates an h1-h6 node.
func NewHeading(level int, id, text string) *Node {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return &Node{Tag: "h" + string(rune('0'+level)), Level: level, id: id, Text: text}
}

// NewLink creates a link node.
func NewLink(href, text string, level int) *Node {
	return &Node{Tag: TagLink, href: href, Text: text, Level: level}
}

// SetID sets the element id.
func (n *Node) SetID(id string) *Node {
	n.id = id
	return n
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// Parent returns the tree parent.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes.
func (n *Node) Children() []*Node { return n.children }

// IsHeading reports whether n is an h1-h6 node.
func (n *Node) IsHeading() bool {
	return len(n.Tag) == 2 && n.Tag[0] == 'h' && n.Tag[1] >= '1' && n.Tag[1] <= '6'
}

// Positioned reports whether n is an offset parent for its descendants.
func (n *Node) Positioned() bool {
	switch n.Tag {
	case TagBody, TagSection, TagArticle:
		return true
	}
	return false
}

// Walk visits n and its descendants in document order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// TextContent returns the text of n and its descendants.
func (n *Node) TextContent() string {
	var parts []string
	n.Walk(func(c *Node) bool {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
		return true
	})
	return strings.Join(parts, " ")
}

func (n *Node) OffsetTop() float64    { return n.top }
func (n *Node) OffsetHeight() float64 { return n.height }

func (n *Node) OffsetParent() host.Box {
	if n.offsetParent == nil {
		return nil
	}
	return n.offsetParent
}

// AbsTop returns the first row of n in document coordinates.
func (n *Node) AbsTop() int { return n.absTop }

func (n *Node) ID() string   { return n.id }
func (n *Node) Href() string { return n.href }

func (n *Node) AddClass(name string) {
	if n.classes == nil {
		n.classes = make(map[string]bool)
	}
	n.classes[name] = true
}

func (n *Node) RemoveClass(name string) { delete(n.classes, name) }

func (n *Node) HasClass(name string) bool { return n.classes[name] }

// Classes returns the class list in sorted order.
func (n *Node) Classes() []string {
	out := make([]string, 0, len(n.classes))
	for c := range n.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (n *Node) OnClick(fn func(host.Event)) func() {
	if n.handlers == nil {
		n.handlers = make(map[int]func(host.Event))
	}
	n.nextHandler++
	id := n.nextHandler
	n.handlers[id] = fn
	return func() { delete(n.handlers, id) }
}

// Click dispatches ev to the registered click handlers in registration
// order. It reports whether any handler ran.
func (n *Node) Click(ev host.Event) bool {
	if len(n.handlers) == 0 {
		return false
	}
	ids := make([]int, 0, len(n.handlers))
	for id := range n.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	ev.Kind = host.EventClick
	ev.Target = n
	ran := false
	for _, id := range ids {
		if fn, ok := n.handlers[id]; ok {
			fn(ev)
			ran = true
		}
	}
	return ran
}
