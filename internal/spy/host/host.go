// Package host defines the collaborators the scroll spy consumes from its
// environment: the document, the viewport, event sources and the frame clock.
//
// Every callback delivered through these interfaces must run on the same
// goroutine. The spy performs no locking of its own.
package host

import "time"

// Box is anything with offset geometry.
type Box interface {
	// OffsetTop returns the top offset relative to OffsetParent.
	OffsetTop() float64

	// OffsetHeight returns the rendered height.
	OffsetHeight() float64

	// OffsetParent returns the nearest positioned ancestor, or nil at the root.
	// Implementations must return an untyped nil, not a typed nil pointer.
	OffsetParent() Box
}

// Element is a live reference into the host document.
type Element interface {
	Box

	// ID returns the element identifier, or "" if it has none.
	ID() string

	// Href returns the link target, or "" for non-link elements.
	Href() string

	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool

	// OnClick registers fn for activation of the element.
	// The returned function removes the registration.
	OnClick(fn func(Event)) (cancel func())
}

// Document is the query surface of the host document.
type Document interface {
	// QueryItems returns the trackable items under the container in
	// document order.
	QueryItems(container string) []Element

	// ElementByID returns the element with the given id, or nil.
	ElementByID(id string) Element
}

// EventKind identifies the origin of an Event.
type EventKind int

const (
	EventScroll EventKind = iota
	EventClick
	EventRefresh
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventScroll:
		return "scroll"
	case EventClick:
		return "click"
	case EventRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Event is a host notification passed through to change listeners.
type Event struct {
	Kind    EventKind
	ScrollY float64
	Target  Element
	Time    time.Time
}

// Viewport owns the real scroll position.
type Viewport interface {
	ScrollY() float64
	ScrollTo(y float64)
}

// ScrollSource delivers scroll notifications.
type ScrollSource interface {
	OnScroll(fn func(Event)) (cancel func())
}

// StructureSource signals changes to the tracked container's descendants.
type StructureSource interface {
	OnStructureChange(fn func()) (cancel func())
}

// FrameID identifies a scheduled frame callback. The zero value is never
// returned by RequestFrame.
type FrameID uint64

// FrameScheduler is the animation clock.
type FrameScheduler interface {
	// RequestFrame schedules fn for the next paint frame.
	RequestFrame(fn func(now time.Time)) FrameID

	// CancelFrame drops a pending callback. Canceling an id that already
	// ran or was never issued is a no-op.
	CancelFrame(id FrameID)
}

// Location updates the visible navigation location without navigating.
type Location interface {
	ReplaceFragment(id string)
}

// Host bundles every collaborator the coordinator needs.
type Host interface {
	Document
	Viewport
	ScrollSource
	StructureSource
	FrameScheduler
	Location
}
