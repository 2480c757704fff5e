// Package hosttest provides in-memory host collaborators for tests.
package hosttest

import (
	"sort"
	"time"

	"github.com/dshills/navspy/internal/spy/host"
)

// Element is a minimal host.Element.
type Element struct {
	Id     string
	Link   string
	Top    float64
	Height float64
	Parent *Element

	classes  map[string]bool
	handlers map[int]func(host.Event)
	nextID   int
}

// NewSection returns an element with the given id and geometry.
func NewSection(id string, top, height float64) *Element {
	return &Element{Id: id, Top: top, Height: height}
}

// NewLink returns a link element pointing at "#target".
func NewLink(target string) *Element {
	return &Element{Link: "#" + target}
}

func (e *Element) OffsetTop() float64    { return e.Top }
func (e *Element) OffsetHeight() float64 { return e.Height }

func (e *Element) OffsetParent() host.Box {
	if e.Parent == nil {
		return nil
	}
	return e.Parent
}

func (e *Element) ID() string   { return e.Id }
func (e *Element) Href() string { return e.Link }

func (e *Element) AddClass(name string) {
	if e.classes == nil {
		e.classes = make(map[string]bool)
	}
	e.classes[name] = true
}

func (e *Element) RemoveClass(name string) { delete(e.classes, name) }

func (e *Element) HasClass(name string) bool { return e.classes[name] }

func (e *Element) OnClick(fn func(host.Event)) func() {
	if e.handlers == nil {
		e.handlers = make(map[int]func(host.Event))
	}
	e.nextID++
	id := e.nextID
	e.handlers[id] = fn
	return func() { delete(e.handlers, id) }
}

// Handlers returns the number of registered click handlers.
func (e *Element) Handlers() int { return len(e.handlers) }

// Click invokes every registered click handler.
func (e *Element) Click() {
	ids := make([]int, 0, len(e.handlers))
	for id := range e.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := e.handlers[id]; ok {
			fn(host.Event{Kind: host.EventClick, Target: e})
		}
	}
}

// Document holds links and sections.
type Document struct {
	Links    []*Element
	Sections []*Element
}

// QueryItems returns every link; the container is ignored.
func (d *Document) QueryItems(string) []host.Element {
	out := make([]host.Element, len(d.Links))
	for i, l := range d.Links {
		out[i] = l
	}
	return out
}

// ElementByID returns the first section with the id.
func (d *Document) ElementByID(id string) host.Element {
	for _, s := range d.Sections {
		if s.Id == id {
			return s
		}
	}
	return nil
}

// Remove drops the section with the id.
func (d *Document) Remove(id string) {
	for i, s := range d.Sections {
		if s.Id == id {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return
		}
	}
}

// Scheduler is a manual host.FrameScheduler driven by Advance.
type Scheduler struct {
	Now     time.Time
	next    host.FrameID
	pending map[host.FrameID]func(time.Time)
	order   []host.FrameID
}

// NewScheduler returns a scheduler starting at a fixed instant.
func NewScheduler() *Scheduler {
	return &Scheduler{
		Now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		pending: make(map[host.FrameID]func(time.Time)),
	}
}

func (s *Scheduler) RequestFrame(fn func(time.Time)) host.FrameID {
	s.next++
	s.pending[s.next] = fn
	s.order = append(s.order, s.next)
	return s.next
}

func (s *Scheduler) CancelFrame(id host.FrameID) {
	delete(s.pending, id)
}

// Pending returns the number of scheduled callbacks.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Advance moves the clock by d and runs the callbacks that were pending
// before the call. Callbacks scheduled during the run wait for the next
// Advance.
func (s *Scheduler) Advance(d time.Duration) {
	s.Now = s.Now.Add(d)
	order := s.order
	s.order = nil
	for _, id := range order {
		fn, ok := s.pending[id]
		if !ok {
			continue
		}
		delete(s.pending, id)
		fn(s.Now)
	}
}

// Flush advances by step until nothing is pending or max frames ran.
func (s *Scheduler) Flush(step time.Duration, max int) int {
	n := 0
	for s.Pending() > 0 && n < max {
		s.Advance(step)
		n++
	}
	return n
}

// Host is a complete in-memory host.Host.
type Host struct {
	*Document
	*Scheduler

	Y         float64
	Fragment  string
	Fragments []string

	scroll    map[int]func(host.Event)
	structure map[int]func()
	nextID    int
}

// NewHost returns a host over doc.
func NewHost(doc *Document) *Host {
	return &Host{
		Document:  doc,
		Scheduler: NewScheduler(),
		scroll:    make(map[int]func(host.Event)),
		structure: make(map[int]func()),
	}
}

func (h *Host) ScrollY() float64 { return h.Y }

// ScrollTo sets the position and notifies scroll listeners like a browser.
func (h *Host) ScrollTo(y float64) {
	h.Y = y
	h.fireScroll()
}

func (h *Host) fireScroll() {
	for _, fn := range h.scrollHandlers() {
		fn(host.Event{Kind: host.EventScroll, ScrollY: h.Y, Time: h.Now})
	}
}

func (h *Host) scrollHandlers() []func(host.Event) {
	ids := make([]int, 0, len(h.scroll))
	for id := range h.scroll {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(host.Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.scroll[id])
	}
	return fns
}

func (h *Host) OnScroll(fn func(host.Event)) func() {
	h.nextID++
	id := h.nextID
	h.scroll[id] = fn
	return func() { delete(h.scroll, id) }
}

// ScrollListeners returns the number of scroll subscriptions.
func (h *Host) ScrollListeners() int { return len(h.scroll) }

func (h *Host) OnStructureChange(fn func()) func() {
	h.nextID++
	id := h.nextID
	h.structure[id] = fn
	return func() { delete(h.structure, id) }
}

// StructureListeners returns the number of structure subscriptions.
func (h *Host) StructureListeners() int { return len(h.structure) }

// Mutate applies fn to the document and signals a structural change.
func (h *Host) Mutate(fn func(*Document)) {
	fn(h.Document)
	for _, cb := range h.structure {
		cb()
	}
}

func (h *Host) ReplaceFragment(id string) {
	h.Fragment = id
	h.Fragments = append(h.Fragments, id)
}
