// Package resolve maps a scroll position to the active navigation item.
package resolve

import (
	"github.com/dshills/navspy/internal/spy/geometry"
	"github.com/dshills/navspy/internal/spy/host"
	"github.com/dshills/navspy/internal/spy/registry"
)

// Finder looks up section elements by id.
type Finder interface {
	ElementByID(id string) host.Element
}

// Bounds is the adjusted vertical extent of a section.
type Bounds struct {
	Top    float64
	Bottom float64
}

// Past reports whether y has reached the section top.
func (b Bounds) Past(y float64) bool {
	return y >= b.Top
}

// Within reports whether y lies inside the section.
func (b Bounds) Within(y float64) bool {
	return b.Past(y) && y < b.Bottom
}

// Pass resolves items against one snapshot of the document geometry.
// Section bounds are computed at most once per target id.
type Pass struct {
	doc    Finder
	offset float64
	cache  map[string]*Bounds
}

// NewPass starts a resolution pass.
func NewPass(doc Finder, offset float64) *Pass {
	return &Pass{doc: doc, offset: offset, cache: make(map[string]*Bounds)}
}

// Bounds returns the adjusted bounds of the section id, or false when the
// id does not resolve to an element.
func (p *Pass) Bounds(id string) (Bounds, bool) {
	if b, ok := p.cache[id]; ok {
		if b == nil {
			return Bounds{}, false
		}
		return *b, true
	}

	el := p.doc.ElementByID(id)
	if el == nil {
		p.cache[id] = nil
		return Bounds{}, false
	}
	top, bottom := geometry.Bounds(el, p.offset)
	b := &Bounds{Top: top, Bottom: bottom}
	p.cache[id] = b
	return *b, true
}

// Active returns the item whose section is current at scrollY.
//
// In exact mode an item qualifies while scrollY lies within its section;
// otherwise it qualifies once scrollY has reached the section top. Every
// item is examined and the last qualifying item in document order wins.
// Items whose target does not resolve never qualify.
func Active(doc Finder, items []*registry.Item, scrollY, offset float64, exact bool) *registry.Item {
	return NewPass(doc, offset).Active(items, scrollY, exact)
}

// Active is Active evaluated against the pass cache.
func (p *Pass) Active(items []*registry.Item, scrollY float64, exact bool) *registry.Item {
	var current *registry.Item
	for _, item := range items {
		b, ok := p.Bounds(item.TargetID)
		if !ok {
			continue
		}
		if exact {
			if b.Within(scrollY) {
				current = item
			}
			continue
		}
		if b.Past(scrollY) {
			current = item
		}
	}
	return current
}
