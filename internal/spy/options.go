package spy

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/navspy/internal/spy/animate"
)

// Defaults for Options.
const (
	DefaultContainer   = "nav"
	DefaultActiveClass = "is-active"
	DefaultOffset      = 20
	DefaultDuration    = 600 * time.Millisecond
	DefaultBezier      = ".5,0,.35,1"
)

// Options controls resolution and navigation behavior.
type Options struct {
	// Container selects the element holding the navigation items.
	Container string

	// ActiveClass is the marker applied to the active item.
	ActiveClass string

	// Offset shifts section boundaries up, e.g. for a fixed header.
	Offset float64

	// ClickToScroll binds activation handlers to every item.
	ClickToScroll bool

	// Duration of click-initiated scroll animations.
	Duration time.Duration

	// AlwaysTrack keeps passive tracking running during animations.
	AlwaysTrack bool

	// Bezier holds four comma separated cubic-bezier control points.
	Bezier string

	// ModifyURL records the section id as the location fragment once an
	// animation completes.
	ModifyURL bool

	// Exact requires the scroll position to lie within a section.
	Exact bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Container:     DefaultContainer,
		ActiveClass:   DefaultActiveClass,
		Offset:        DefaultOffset,
		ClickToScroll: true,
		Duration:      DefaultDuration,
		AlwaysTrack:   false,
		Bezier:        DefaultBezier,
		ModifyURL:     true,
		Exact:         false,
	}
}

// Easing parses and validates the options, returning the easing curve.
func (o Options) Easing() (animate.Bezier, error) {
	if o.ActiveClass == "" {
		return animate.Bezier{}, fmt.Errorf("%w: active class must not be empty", ErrInvalidOptions)
	}
	if o.Duration < 0 {
		return animate.Bezier{}, fmt.Errorf("%w: negative duration %v", ErrInvalidOptions, o.Duration)
	}
	bez := o.Bezier
	if bez == "" {
		bez = DefaultBezier
	}
	return animate.ParseBezier(bez)
}

// Option configures a Spy.
type Option func(*Spy)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Spy) {
		if l != nil {
			s.logger = l
		}
	}
}

// Validate reports whether the options can be used by New.
func (o Options) Validate() error {
	_, err := o.Easing()
	return err
}
