package document

import (
	"strings"

	"github.com/dshills/navspy/internal/spy/host"
)

// RowKind selects how a content row is drawn.
type RowKind int

const (
	RowBlank RowKind = iota
	RowHeading
	RowText
	RowCode
)

// Row is one laid out line of content.
type Row struct {
	Kind RowKind
	Text string
	Node *Node
}

// Document is a laid out page tree. It is not safe for concurrent use.
type Document struct {
	Title string
	Path  string

	root  *Node
	ids   map[string]*Node
	rows  []Row
	width int
}

// New wraps root, which should be a body node, and indexes element ids.
// The first node carrying an id wins lookups for that id.
func New(title string, root *Node) *Document {
	d := &Document{Title: title, root: root}
	d.reindex()
	return d
}

func (d *Document) reindex() {
	d.ids = make(map[string]*Node)
	d.root.Walk(func(n *Node) bool {
		if n.id != "" {
			if _, dup := d.ids[n.id]; !dup {
				d.ids[n.id] = n
			}
		}
		return true
	})
}

// Root returns the body node.
func (d *Document) Root() *Node { return d.root }

// ElementByID returns the element with the id, or nil.
func (d *Document) ElementByID(id string) host.Element {
	n := d.ids[id]
	if n == nil {
		return nil
	}
	return n
}

// NodeByID is ElementByID returning the concrete node.
func (d *Document) NodeByID(id string) *Node {
	return d.ids[id]
}

// Find returns the first node matching selector, which is either "#id" or
// a tag name.
func (d *Document) Find(selector string) *Node {
	if id, ok := strings.CutPrefix(selector, "#"); ok {
		return d.ids[id]
	}
	var found *Node
	d.root.Walk(func(n *Node) bool {
		if n.Tag == selector {
			found = n
			return false
		}
		return true
	})
	return found
}

// Links returns the link nodes under the container in document order.
func (d *Document) Links(container string) []*Node {
	c := d.Find(container)
	if c == nil {
		return nil
	}
	var links []*Node
	c.Walk(func(n *Node) bool {
		if n.Tag == TagLink && n.href != "" {
			links = append(links, n)
		}
		return true
	})
	return links
}

// QueryItems returns the links under the container.
func (d *Document) QueryItems(container string) []host.Element {
	links := d.Links(container)
	out := make([]host.Element, len(links))
	for i, l := range links {
		out[i] = l
	}
	return out
}

// Rows returns the laid out content rows. Row i is at document row i.
func (d *Document) Rows() []Row { return d.rows }

// Height returns the number of content rows.
func (d *Document) Height() float64 { return float64(len(d.rows)) }

// Width returns the width used by the last layout.
func (d *Document) Width() int { return d.width }

// Layout wraps text to width columns and assigns geometry to every node.
// Nav subtrees are out of flow and get zero height.
func (d *Document) Layout(width int) {
	if width < 10 {
		width = 10
	}
	d.width = width
	d.rows = d.rows[:0]
	d.layout(d.root, nil)
}

func (d *Document) layout(n *Node, offsetParent *Node) {
	start := len(d.rows)
	n.offsetParent = offsetParent
	n.absTop = start
	n.top = float64(start)
	if offsetParent != nil {
		n.top -= float64(offsetParent.absTop)
	}

	switch {
	case n.Tag == TagNav:
		d.outOfFlow(n)
		n.height = 0
		return
	case n.IsHeading():
		if start > 0 && d.rows[start-1].Kind != RowBlank {
			d.rows = append(d.rows, Row{Kind: RowBlank, Node: n})
		}
		for _, line := range Wrap(n.Text, d.width) {
			d.rows = append(d.rows, Row{Kind: RowHeading, Text: line, Node: n})
		}
		d.rows = append(d.rows, Row{Kind: RowBlank, Node: n})
	case n.Tag == TagPre:
		for _, line := range strings.Split(strings.TrimRight(n.Text, "\n"), "\n") {
			d.rows = append(d.rows, Row{Kind: RowCode, Text: "  " + line, Node: n})
		}
		d.rows = append(d.rows, Row{Kind: RowBlank, Node: n})
	case n.Text != "":
		prefix, indent := "", ""
		switch n.Tag {
		case TagItem:
			prefix, indent = "• ", "  "
		case TagQuote:
			prefix, indent = "│ ", "│ "
		}
		for i, line := range Wrap(n.Text, d.width-len([]rune(indent))) {
			p := indent
			if i == 0 {
				p = prefix
			}
			d.rows = append(d.rows, Row{Kind: RowText, Text: p + line, Node: n})
		}
		if n.Tag != TagItem || n.isLastItem() {
			d.rows = append(d.rows, Row{Kind: RowBlank, Node: n})
		}
	}

	childParent := offsetParent
	if n.Positioned() {
		childParent = n
	}
	for _, c := range n.children {
		d.layout(c, childParent)
	}
	n.height = float64(len(d.rows) - start)
}

// outOfFlow zeroes the geometry of nav descendants.
func (d *Document) outOfFlow(nav *Node) {
	for _, c := range nav.children {
		c.Walk(func(x *Node) bool {
			x.offsetParent = nav
			x.top, x.height, x.absTop = 0, 0, nav.absTop
			return true
		})
	}
}

func (n *Node) isLastItem() bool {
	if n.parent == nil {
		return true
	}
	sib := n.parent.children
	for i, c := range sib {
		if c == n {
			return i == len(sib)-1 || sib[i+1].Tag != TagItem
		}
	}
	return true
}
