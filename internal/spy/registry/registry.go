// Package registry holds the ordered set of tracked navigation items.
package registry

import (
	"strings"

	"github.com/dshills/navspy/internal/spy/host"
)

// Item is one navigation entry pointing at a section.
type Item struct {
	// TargetID is the fragment identifier of the section.
	TargetID string

	// Index is the position in document order.
	Index int

	// Element is borrowed from the host document.
	Element host.Element
}

// Same reports whether two items refer to the same host element.
// Items are recreated on every rebuild, so pointer equality is not enough.
func (it *Item) Same(other *Item) bool {
	if it == nil || other == nil {
		return it == nil && other == nil
	}
	return it.Element == other.Element
}

// ClickFunc receives activations of an item.
type ClickFunc func(item *Item, ev host.Event)

// Registry is the item sequence derived from the current document.
// It is not safe for concurrent use.
type Registry struct {
	doc       host.Document
	container string
	onClick   ClickFunc

	items  []*Item
	unbind []func()
}

// New creates a registry over the items found under container.
// onClick is invoked for item activations when click-to-scroll is enabled.
func New(doc host.Document, container string, onClick ClickFunc) *Registry {
	return &Registry{
		doc:       doc,
		container: container,
		onClick:   onClick,
	}
}

// TargetID extracts the fragment identifier from an href.
// Returns "" when the href carries no fragment.
func TargetID(href string) string {
	i := strings.IndexByte(href, '#')
	if i < 0 {
		return ""
	}
	return href[i+1:]
}

// Rebuild re-scans the container and replaces the item sequence.
// Handlers bound by the previous rebuild are always removed; new handlers
// are bound only when clickToScroll is set.
func (r *Registry) Rebuild(clickToScroll bool) {
	r.unbindAll()

	elements := r.doc.QueryItems(r.container)
	items := make([]*Item, 0, len(elements))
	for _, el := range elements {
		id := TargetID(el.Href())
		if id == "" {
			continue
		}
		items = append(items, &Item{
			TargetID: id,
			Index:    len(items),
			Element:  el,
		})
	}
	r.items = items

	if !clickToScroll || r.onClick == nil {
		return
	}
	for _, item := range items {
		r.unbind = append(r.unbind, item.Element.OnClick(func(ev host.Event) {
			r.onClick(item, ev)
		}))
	}
}

// Items returns the current sequence. The slice must not be modified.
func (r *Registry) Items() []*Item {
	return r.items
}

// Len returns the number of tracked items.
func (r *Registry) Len() int {
	return len(r.items)
}

// Find returns the last item whose element matches el, or nil.
func (r *Registry) Find(el host.Element) *Item {
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].Element == el {
			return r.items[i]
		}
	}
	return nil
}

// ByTarget returns the first item pointing at id, or nil.
func (r *Registry) ByTarget(id string) *Item {
	for _, item := range r.items {
		if item.TargetID == id {
			return item
		}
	}
	return nil
}

// SetContainer changes the container used by the next rebuild.
func (r *Registry) SetContainer(container string) {
	r.container = container
}

// Clear drops all items and click handlers.
func (r *Registry) Clear() {
	r.unbindAll()
	r.items = nil
}

func (r *Registry) unbindAll() {
	for _, fn := range r.unbind {
		fn()
	}
	r.unbind = nil
}
