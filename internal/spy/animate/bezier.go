package animate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing interface {
	At(t float64) float64
}

// EasingFunc adapts a function to Easing.
type EasingFunc func(t float64) float64

// At calls f(t).
func (f EasingFunc) At(t float64) float64 { return f(t) }

// Linear is the identity easing.
var Linear Easing = EasingFunc(func(t float64) float64 { return t })

const (
	newtonIterations     = 4
	newtonMinSlope       = 0.001
	subdivisionPrecision = 0.0000001
	subdivisionMaxIter   = 10
	splineTableSize      = 11
	sampleStepSize       = 1.0 / (splineTableSize - 1)
)

// DefaultBezier is the curve used when none is configured.
var DefaultBezier = MustBezier(0.5, 0, 0.35, 1)

// Bezier is a CSS-style cubic-bezier timing curve with fixed end points
// (0,0) and (1,1) and control points (X1,Y1), (X2,Y2).
type Bezier struct {
	X1, Y1, X2, Y2 float64

	samples [splineTableSize]float64
}

// NewBezier validates the control points and precomputes the sample table.
// X coordinates must lie in [0,1] so the curve is a function of time.
func NewBezier(x1, y1, x2, y2 float64) (Bezier, error) {
	for _, v := range []float64{x1, y1, x2, y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Bezier{}, fmt.Errorf("%w: non-finite control point", ErrInvalidBezier)
		}
	}
	if x1 < 0 || x1 > 1 || x2 < 0 || x2 > 1 {
		return Bezier{}, fmt.Errorf("%w: x values must be in [0, 1]", ErrInvalidBezier)
	}

	b := Bezier{X1: x1, Y1: y1, X2: x2, Y2: y2}
	if !b.linear() {
		for i := range b.samples {
			b.samples[i] = calcBezier(float64(i)*sampleStepSize, x1, x2)
		}
	}
	return b, nil
}

// MustBezier is NewBezier that panics on invalid input.
func MustBezier(x1, y1, x2, y2 float64) Bezier {
	b, err := NewBezier(x1, y1, x2, y2)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseBezier parses four comma separated control points, e.g. ".5,0,.35,1".
func ParseBezier(s string) (Bezier, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bezier{}, fmt.Errorf("%w: want 4 control points, got %d in %q", ErrInvalidBezier, len(parts), s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bezier{}, fmt.Errorf("%w: control point %d %q: %v", ErrInvalidBezier, i+1, strings.TrimSpace(p), err)
		}
		v[i] = f
	}
	return NewBezier(v[0], v[1], v[2], v[3])
}

// String returns the control points in ParseBezier form.
func (b Bezier) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return f(b.X1) + "," + f(b.Y1) + "," + f(b.X2) + "," + f(b.Y2)
}

// At returns the eased progress for t. The end points are exact.
func (b Bezier) At(t float64) float64 {
	if b.linear() {
		return t
	}
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return calcBezier(b.tForX(t), b.Y1, b.Y2)
}

func (b Bezier) linear() bool {
	return b.X1 == b.Y1 && b.X2 == b.Y2
}

// tForX finds the curve parameter whose x coordinate is x.
func (b Bezier) tForX(x float64) float64 {
	start := 0.0
	sample := 1
	last := splineTableSize - 1
	for ; sample != last && b.samples[sample] <= x; sample++ {
		start += sampleStepSize
	}
	sample--

	dist := (x - b.samples[sample]) / (b.samples[sample+1] - b.samples[sample])
	guess := start + dist*sampleStepSize

	slope := slopeAt(guess, b.X1, b.X2)
	switch {
	case slope >= newtonMinSlope:
		return newtonRaphson(x, guess, b.X1, b.X2)
	case slope == 0:
		return guess
	default:
		return subdivide(x, start, start+sampleStepSize, b.X1, b.X2)
	}
}

func coeffA(a1, a2 float64) float64 { return 1 - 3*a2 + 3*a1 }
func coeffB(a1, a2 float64) float64 { return 3*a2 - 6*a1 }
func coeffC(a1 float64) float64     { return 3 * a1 }

// calcBezier evaluates one coordinate of the curve at parameter t.
func calcBezier(t, a1, a2 float64) float64 {
	return ((coeffA(a1, a2)*t+coeffB(a1, a2))*t + coeffC(a1)) * t
}

// slopeAt is the derivative of calcBezier with respect to t.
func slopeAt(t, a1, a2 float64) float64 {
	return 3*coeffA(a1, a2)*t*t + 2*coeffB(a1, a2)*t + coeffC(a1)
}

func newtonRaphson(x, guess, x1, x2 float64) float64 {
	for i := 0; i < newtonIterations; i++ {
		slope := slopeAt(guess, x1, x2)
		if slope == 0 {
			return guess
		}
		guess -= (calcBezier(guess, x1, x2) - x) / slope
	}
	return guess
}

func subdivide(x, lo, hi, x1, x2 float64) float64 {
	var cur, t float64
	for i := 0; i < subdivisionMaxIter; i++ {
		t = lo + (hi-lo)/2
		cur = calcBezier(t, x1, x2) - x
		if cur > 0 {
			hi = t
		} else {
			lo = t
		}
		if math.Abs(cur) <= subdivisionPrecision {
			break
		}
	}
	return t
}
