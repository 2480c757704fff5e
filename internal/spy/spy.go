package spy

import (
	"fmt"
	"log/slog"

	"github.com/dshills/navspy/internal/spy/animate"
	"github.com/dshills/navspy/internal/spy/host"
	"github.com/dshills/navspy/internal/spy/registry"
	"github.com/dshills/navspy/internal/spy/resolve"
)

// ChangeEvent is emitted when the active item changes.
type ChangeEvent struct {
	// Origin is the host event that caused the change.
	Origin host.Event

	// Current is the newly active item, nil if none.
	Current *registry.Item

	// Previous is the item that lost the marker, nil if none.
	Previous *registry.Item
}

// CompleteEvent is emitted when a click-initiated scroll finishes.
type CompleteEvent struct {
	Item *registry.Item
	Y    float64
}

// ResolutionState is the outcome of the most recent resolution.
type ResolutionState struct {
	// Current is the item matched by the last resolution.
	Current *registry.Item

	// LastApplied is the item bearing the marker.
	LastApplied *registry.Item
}

type listener[T any] struct {
	id int
	fn func(T)
}

// listeners keeps callbacks in registration order.
type listeners[T any] struct {
	next int
	list []listener[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.next++
	id := l.next
	l.list = append(l.list, listener[T]{id: id, fn: fn})
	return func() {
		for i, x := range l.list {
			if x.id == id {
				l.list = append(l.list[:i:i], l.list[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) emit(v T) {
	for _, x := range append([]listener[T](nil), l.list...) {
		x.fn(v)
	}
}

// Spy coordinates resolution, markers and click navigation.
type Spy struct {
	host     host.Host
	opts     Options
	easing   animate.Bezier
	logger   *slog.Logger
	registry *registry.Registry
	animator *animate.Animator
	state    ResolutionState

	changes   listeners[ChangeEvent]
	completes listeners[CompleteEvent]

	unscroll    func()
	unstructure func()
	suspended   bool
	started     bool
	closed      bool
}

// New creates a Spy over h. Malformed options are reported here, before
// any listener is attached.
func New(h host.Host, opts Options, options ...Option) (*Spy, error) {
	easing, err := opts.Easing()
	if err != nil {
		return nil, err
	}
	if opts.Container == "" {
		opts.Container = DefaultContainer
	}

	s := &Spy{
		host:   h,
		opts:   opts,
		easing: easing,
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}

	s.registry = registry.New(h, opts.Container, s.handleClick)
	s.animator = animate.New(h, h, animate.WithLogger(s.logger))
	return s, nil
}

// Start subscribes to the host and applies the initial marker.
// Calling Start on a running Spy is a no-op.
func (s *Spy) Start() error {
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}
	s.started = true

	s.unstructure = s.host.OnStructureChange(s.handleStructureChange)
	s.registry.Rebuild(s.opts.ClickToScroll)
	s.subscribeScroll()
	s.update(host.Event{Kind: host.EventRefresh, ScrollY: s.host.ScrollY()})

	s.logger.Debug("spy started", "items", s.registry.Len(), "container", s.opts.Container)
	return nil
}

// Close detaches every listener and cancels any animation in flight.
// It is safe to call Close more than once.
func (s *Spy) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.animator.Stop()
	if s.unscroll != nil {
		s.unscroll()
		s.unscroll = nil
	}
	if s.unstructure != nil {
		s.unstructure()
		s.unstructure = nil
	}
	s.registry.Clear()
	s.suspended = false
	s.logger.Debug("spy closed")
}

// OnChange registers fn for active item changes.
func (s *Spy) OnChange(fn func(ChangeEvent)) (cancel func()) {
	return s.changes.add(fn)
}

// OnScrollComplete registers fn for completed click navigations.
func (s *Spy) OnScrollComplete(fn func(CompleteEvent)) (cancel func()) {
	return s.completes.add(fn)
}

// Refresh rebuilds the registry and resolves the current position.
// While a click navigation suspends tracking only the rebuild happens.
func (s *Spy) Refresh() {
	if s.closed || !s.started {
		return
	}
	s.registry.Rebuild(s.opts.ClickToScroll)
	if !s.suspended {
		s.update(host.Event{Kind: host.EventRefresh, ScrollY: s.host.ScrollY()})
	}
}

// Activate navigates to the item pointing at id, as a click would.
func (s *Spy) Activate(id string) error {
	if s.closed {
		return ErrClosed
	}
	item := s.registry.ByTarget(id)
	if item == nil {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return s.navigate(item, host.Event{
		Kind:    host.EventClick,
		ScrollY: s.host.ScrollY(),
		Target:  item.Element,
	})
}

// Reconfigure replaces the options. Any animation in flight is canceled and
// tracking resumes; the registry is rebuilt so click handlers follow
// ClickToScroll.
func (s *Spy) Reconfigure(opts Options) error {
	if s.closed {
		return ErrClosed
	}
	easing, err := opts.Easing()
	if err != nil {
		return err
	}
	if opts.Container == "" {
		opts.Container = DefaultContainer
	}

	s.animator.Stop()
	if last := s.state.LastApplied; last != nil && opts.ActiveClass != s.opts.ActiveClass {
		last.Element.RemoveClass(s.opts.ActiveClass)
		last.Element.AddClass(opts.ActiveClass)
	}
	s.opts = opts
	s.easing = easing
	s.registry.SetContainer(opts.Container)

	if !s.started {
		return nil
	}
	if s.suspended {
		s.resume()
	}
	s.Refresh()
	return nil
}

// Options returns the active options.
func (s *Spy) Options() Options { return s.opts }

// Active returns the item bearing the marker, or nil.
func (s *Spy) Active() *registry.Item { return s.state.LastApplied }

// State returns the resolution state.
func (s *Spy) State() ResolutionState { return s.state }

// Items returns the tracked items in document order.
func (s *Spy) Items() []*registry.Item { return s.registry.Items() }

// Tracking reports whether scroll notifications are being processed.
func (s *Spy) Tracking() bool { return s.unscroll != nil }

// Animating reports whether a navigation animation is in flight.
func (s *Spy) Animating() bool { return s.animator.Running() }

func (s *Spy) subscribeScroll() {
	if s.unscroll == nil {
		s.unscroll = s.host.OnScroll(s.handleScroll)
	}
}

// suspend stops passive tracking until resume.
func (s *Spy) suspend() {
	if s.unscroll != nil {
		s.unscroll()
		s.unscroll = nil
	}
	s.suspended = true
}

func (s *Spy) resume() {
	s.suspended = false
	s.subscribeScroll()
}

func (s *Spy) handleScroll(ev host.Event) {
	if s.closed {
		return
	}
	s.update(ev)
}

func (s *Spy) handleStructureChange() {
	if s.closed {
		return
	}
	s.Refresh()
}

func (s *Spy) handleClick(item *registry.Item, ev host.Event) {
	// Failures are logged by navigate; a click has no caller to report to.
	_ = s.navigate(item, ev)
}

// update runs one resolution cycle and then rebuilds the registry.
func (s *Spy) update(ev host.Event) {
	item := resolve.Active(s.host, s.registry.Items(), s.host.ScrollY(), s.opts.Offset, s.opts.Exact)
	s.state.Current = item
	if !item.Same(s.state.LastApplied) {
		s.apply(item, ev)
	}

	s.registry.Rebuild(s.opts.ClickToScroll)
	s.state.Current = s.remap(s.state.Current)
	s.state.LastApplied = s.remap(s.state.LastApplied)
}

// remap returns the item of the current generation for the same element,
// or item itself when the element is no longer tracked.
func (s *Spy) remap(item *registry.Item) *registry.Item {
	if item == nil {
		return nil
	}
	if fresh := s.registry.Find(item.Element); fresh != nil {
		return fresh
	}
	return item
}

// apply moves the marker to item and emits the change.
func (s *Spy) apply(item *registry.Item, ev host.Event) {
	prev := s.state.LastApplied
	if prev != nil {
		prev.Element.RemoveClass(s.opts.ActiveClass)
	}
	if item != nil {
		item.Element.AddClass(s.opts.ActiveClass)
	}
	s.state.LastApplied = item
	s.changes.emit(ChangeEvent{Origin: ev, Current: item, Previous: prev})
}

func (s *Spy) clearMarkers() {
	for _, item := range s.registry.Items() {
		item.Element.RemoveClass(s.opts.ActiveClass)
	}
	if last := s.state.LastApplied; last != nil {
		last.Element.RemoveClass(s.opts.ActiveClass)
	}
}

// navigate scrolls to item's section. Nothing changes when the section
// cannot be found.
func (s *Spy) navigate(item *registry.Item, ev host.Event) error {
	if s.closed {
		return ErrClosed
	}

	target := s.host.ElementByID(item.TargetID)
	if target == nil {
		s.logger.Warn("navigation target not found", "target", item.TargetID)
		return fmt.Errorf("%w: %q", ErrUnresolvedTarget, item.TargetID)
	}

	if !s.opts.AlwaysTrack {
		s.suspend()
		s.clearMarkers()
		prev := s.state.LastApplied
		item.Element.AddClass(s.opts.ActiveClass)
		s.state.Current = item
		s.state.LastApplied = item
		if !item.Same(prev) {
			s.changes.emit(ChangeEvent{Origin: ev, Current: item, Previous: prev})
		}
	}

	s.animator.Start(animate.Request{
		Target:   target,
		Duration: s.opts.Duration,
		Offset:   s.opts.Offset,
		Easing:   s.easing,
	}, func() {
		s.complete(item)
	})
	return nil
}

// complete runs when a navigation animation reaches its target.
func (s *Spy) complete(item *registry.Item) {
	if s.suspended {
		s.resume()
	}
	if s.opts.ModifyURL {
		s.host.ReplaceFragment(item.TargetID)
	}
	s.completes.emit(CompleteEvent{Item: item, Y: s.host.ScrollY()})
}
