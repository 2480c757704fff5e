// Package document holds the page tree shown by the viewer and implements
// the host document surface consumed by the scroll spy.
//
// A Document is built from Markdown (goldmark) or HTML (x/net/html) into a
// small tree of Nodes: a body, a nav holding fragment links, and sections
// holding headings and text blocks. Layout assigns row-based geometry so
// every node has an offset top relative to its offset parent, like a
// browser box tree with one row per text line.
package document
