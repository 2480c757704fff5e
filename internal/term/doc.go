// Package term is the tcell viewer for a page.
//
// The screen is split into a sidebar listing the navigation links, the
// document content from the current scroll offset, and a status line.
// The link bearing the active class is drawn reversed and bold.
//
// All page and spy work happens on the goroutine running Viewer.Run.
// Other goroutines hand work to it with Post, which wraps the function in
// a tcell interrupt event.
package term
