package page

import (
	"sort"
	"time"

	"github.com/dshills/navspy/internal/document"
	"github.com/dshills/navspy/internal/spy/host"
)

// Page is a host.Host over a document. It is not safe for concurrent use;
// all calls belong on the UI goroutine.
type Page struct {
	host.FrameScheduler

	doc        *document.Document
	width      int
	viewHeight float64
	y          float64
	fragment   string
	now        func() time.Time

	scroll    map[int]func(host.Event)
	structure map[int]func()
	nextID    int
}

// Option configures a Page.
type Option func(*Page)

// WithClock sets the clock used to stamp scroll events.
func WithClock(now func() time.Time) Option {
	return func(p *Page) {
		if now != nil {
			p.now = now
		}
	}
}

// WithViewport sets the initial layout width and view height.
func WithViewport(width int, height float64) Option {
	return func(p *Page) {
		p.width = width
		p.viewHeight = height
	}
}

// New returns a page showing doc. Frames are scheduled through frames.
func New(doc *document.Document, frames host.FrameScheduler, opts ...Option) *Page {
	p := &Page{
		FrameScheduler: frames,
		doc:            doc,
		width:          80,
		viewHeight:     24,
		now:            time.Now,
		scroll:         make(map[int]func(host.Event)),
		structure:      make(map[int]func()),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.doc.Layout(p.width)
	return p
}

// Document returns the page tree.
func (p *Page) Document() *document.Document { return p.doc }

func (p *Page) QueryItems(container string) []host.Element {
	return p.doc.QueryItems(container)
}

func (p *Page) ElementByID(id string) host.Element {
	return p.doc.ElementByID(id)
}

func (p *Page) ScrollY() float64 { return p.y }

// MaxScroll returns the largest reachable scroll position.
func (p *Page) MaxScroll() float64 {
	return max(0, p.doc.Height()-p.viewHeight)
}

// ScrollTo moves the viewport, clamped to the scrollable range. Listeners
// are notified only when the position changes.
func (p *Page) ScrollTo(y float64) {
	y = min(max(y, 0), p.MaxScroll())
	if y == p.y {
		return
	}
	p.y = y
	p.fireScroll()
}

// ScrollBy moves the viewport by dy rows.
func (p *Page) ScrollBy(dy float64) {
	p.ScrollTo(p.y + dy)
}

// ViewHeight returns the number of visible rows.
func (p *Page) ViewHeight() float64 { return p.viewHeight }

// SetViewHeight resizes the viewport, clamping the scroll position.
func (p *Page) SetViewHeight(h float64) {
	p.viewHeight = max(h, 0)
	p.ScrollTo(p.y)
}

// Width returns the layout width.
func (p *Page) Width() int { return p.width }

// Resize lays the document out again at width columns and height rows.
// Structure listeners are notified because every offset may have moved.
func (p *Page) Resize(width int, height float64) {
	if width == p.width && height == p.viewHeight {
		return
	}
	p.width = width
	p.doc.Layout(width)
	p.SetViewHeight(height)
	p.fireStructure()
}

// SetDocument replaces the tree, keeping the scroll position where possible.
func (p *Page) SetDocument(doc *document.Document) {
	p.doc = doc
	p.doc.Layout(p.width)
	p.ScrollTo(p.y)
	p.fireStructure()
}

// Fragment returns the current location fragment.
func (p *Page) Fragment() string { return p.fragment }

func (p *Page) ReplaceFragment(id string) { p.fragment = id }

func (p *Page) OnScroll(fn func(host.Event)) func() {
	p.nextID++
	id := p.nextID
	p.scroll[id] = fn
	return func() { delete(p.scroll, id) }
}

func (p *Page) OnStructureChange(fn func()) func() {
	p.nextID++
	id := p.nextID
	p.structure[id] = fn
	return func() { delete(p.structure, id) }
}

func (p *Page) fireScroll() {
	ev := host.Event{Kind: host.EventScroll, ScrollY: p.y, Time: p.now()}
	for _, id := range sortedKeys(p.scroll) {
		if fn, ok := p.scroll[id]; ok {
			fn(ev)
		}
	}
}

func (p *Page) fireStructure() {
	for _, id := range sortedKeys(p.structure) {
		if fn, ok := p.structure[id]; ok {
			fn()
		}
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
