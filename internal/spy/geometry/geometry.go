// Package geometry computes document-relative positions from offset chains.
package geometry

import "github.com/dshills/navspy/internal/spy/host"

// Top returns the distance from the document origin to the top of b.
// It walks the offset parent chain summing each node's OffsetTop.
// Transforms and intermediate scroll containers are not accounted for.
// A nil box yields 0.
func Top(b host.Box) float64 {
	var top float64
	for n := b; n != nil; n = n.OffsetParent() {
		top += n.OffsetTop()
	}
	return top
}

// Bounds returns the top and bottom of b shifted up by offset.
func Bounds(b host.Box, offset float64) (top, bottom float64) {
	if b == nil {
		return 0, 0
	}
	top = Top(b) - offset
	return top, top + b.OffsetHeight()
}
