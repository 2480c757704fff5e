package animate

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/navspy/internal/spy/geometry"
	"github.com/dshills/navspy/internal/spy/host"
)

// State is the lifecycle state of a Run.
type State int

const (
	StateRunning State = iota
	StateCompleted
	StateCanceled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Request describes one scroll animation.
type Request struct {
	// Target is the element to scroll to.
	Target host.Box

	// Duration of the animation. Zero or less jumps on the first frame.
	Duration time.Duration

	// Offset is subtracted from the total displacement.
	Offset float64

	// Easing defaults to DefaultBezier.
	Easing Easing
}

// Run is one animation. It completes or is canceled, never both.
type Run struct {
	id     string
	anim   *Animator
	easing Easing
	onDone func()

	startY     float64
	difference float64
	offset     float64
	duration   time.Duration

	start time.Time
	frame host.FrameID
	state State
}

// ID returns the unique run identifier.
func (r *Run) ID() string { return r.id }

// State returns the current state.
func (r *Run) State() State { return r.state }

// StartY returns the scroll position when the run started.
func (r *Run) StartY() float64 { return r.startY }

// Final returns the resting position: startY + difference - offset.
func (r *Run) Final() float64 {
	return r.startY + r.difference - r.offset
}

// Position returns the scroll position at progress t in [0,1].
// The offset is applied to the whole displacement, not scaled by t.
func (r *Run) Position(t float64) float64 {
	return r.startY + r.easing.At(t)*(r.difference-r.offset)
}

// Cancel stops the run. It is a no-op once the run has finished.
func (r *Run) Cancel() {
	if r.state != StateRunning {
		return
	}
	r.state = StateCanceled
	if r.frame != 0 {
		r.anim.frames.CancelFrame(r.frame)
		r.frame = 0
	}
	if r.anim.current == r {
		r.anim.current = nil
	}
	r.anim.logger.Debug("scroll animation canceled", "run", r.id)
}

func (r *Run) step(now time.Time) {
	r.frame = 0
	if r.state != StateRunning {
		return
	}

	if r.start.IsZero() {
		r.start = now
	}
	elapsed := now.Sub(r.start)

	r.anim.view.ScrollTo(r.Position(progress(elapsed, r.duration)))

	// Scroll listeners run synchronously and may have canceled this run.
	if r.state != StateRunning {
		return
	}

	if elapsed < r.duration {
		r.frame = r.anim.frames.RequestFrame(r.step)
		return
	}

	r.state = StateCompleted
	if r.anim.current == r {
		r.anim.current = nil
	}
	r.anim.logger.Debug("scroll animation completed", "run", r.id, "y", r.Final())
	if r.onDone != nil {
		r.onDone()
	}
}

// progress returns elapsed/duration clamped to [0,1].
func progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	t := float64(elapsed) / float64(duration)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// Animator moves the viewport. It is not safe for concurrent use.
type Animator struct {
	view    host.Viewport
	frames  host.FrameScheduler
	logger  *slog.Logger
	current *Run
}

// Option configures an Animator.
type Option func(*Animator)

// WithLogger sets the logger for run lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an animator for view driven by frames.
func New(view host.Viewport, frames host.FrameScheduler, opts ...Option) *Animator {
	a := &Animator{
		view:   view,
		frames: frames,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins scrolling toward req.Target, canceling any run in flight.
// onDone is called once the final position has been applied.
func (a *Animator) Start(req Request, onDone func()) *Run {
	a.Stop()

	easing := req.Easing
	if easing == nil {
		easing = DefaultBezier
	}

	startY := a.view.ScrollY()
	r := &Run{
		id:         uuid.NewString(),
		anim:       a,
		easing:     easing,
		onDone:     onDone,
		startY:     startY,
		difference: geometry.Top(req.Target) - startY,
		offset:     req.Offset,
		duration:   req.Duration,
		state:      StateRunning,
	}
	a.current = r
	r.frame = a.frames.RequestFrame(r.step)

	a.logger.Debug("scroll animation started",
		"run", r.id,
		"from", startY,
		"to", r.Final(),
		"duration", req.Duration,
	)
	return r
}

// Stop cancels the run in flight, if any.
func (a *Animator) Stop() {
	if a.current != nil {
		a.current.Cancel()
	}
}

// Running reports whether a run is in flight.
func (a *Animator) Running() bool {
	return a.current != nil
}

// Current returns the run in flight, or nil.
func (a *Animator) Current() *Run {
	return a.current
}
