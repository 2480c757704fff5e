package animate

import "errors"

// ErrInvalidBezier is returned for malformed cubic-bezier control points.
var ErrInvalidBezier = errors.New("invalid cubic-bezier easing")
