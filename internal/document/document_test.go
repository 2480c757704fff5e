package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/navspy/internal/spy/geometry"
)

const guideMarkdown = `# Intro

Hello world.

## Usage

Run it.
`

func hrefs(links []*Node) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Href()
	}
	return out
}

func TestParseMarkdownStructure(t *testing.T) {
	doc := ParseMarkdown([]byte(guideMarkdown), "")
	if doc.Title != "Intro" {
		t.Errorf("Title = %q, want %q", doc.Title, "Intro")
	}

	if diff := cmp.Diff([]string{"#intro", "#usage"}, hrefs(doc.Links(TagNav))); diff != "" {
		t.Errorf("nav links mismatch (-want +got):\n%s", diff)
	}
	if got := len(doc.QueryItems(TagNav)); got != 2 {
		t.Errorf("QueryItems = %d items, want 2", got)
	}

	usage := doc.NodeByID("usage")
	if usage == nil {
		t.Fatal("section usage not found")
	}
	if usage.Parent() != doc.NodeByID("intro") {
		t.Error("usage should nest inside intro")
	}
}

func TestLayoutGeometry(t *testing.T) {
	doc := ParseMarkdown([]byte(guideMarkdown), "")
	doc.Layout(40)

	tests := []struct {
		id     string
		top    float64
		height float64
		abs    float64
	}{
		{"intro", 0, 8, 0},
		{"usage", 4, 4, 4},
	}
	for _, tt := range tests {
		n := doc.NodeByID(tt.id)
		if n.OffsetTop() != tt.top {
			t.Errorf("%s OffsetTop = %v, want %v", tt.id, n.OffsetTop(), tt.top)
		}
		if n.OffsetHeight() != tt.height {
			t.Errorf("%s OffsetHeight = %v, want %v", tt.id, n.OffsetHeight(), tt.height)
		}
		if got := geometry.Top(n); got != tt.abs {
			t.Errorf("%s absolute top = %v, want %v", tt.id, got, tt.abs)
		}
	}

	if doc.Height() != 8 {
		t.Errorf("Height = %v, want 8", doc.Height())
	}
	rows := doc.Rows()
	if rows[0].Kind != RowHeading || rows[0].Text != "Intro" {
		t.Errorf("row 0 = %+v, want heading Intro", rows[0])
	}
	if rows[6].Text != "Run it." {
		t.Errorf("row 6 = %q, want %q", rows[6].Text, "Run it.")
	}

	for _, l := range doc.Links(TagNav) {
		if l.OffsetHeight() != 0 {
			t.Errorf("nav link %s has height %v, want 0", l.Href(), l.OffsetHeight())
		}
	}
}

func TestLayoutNarrowWraps(t *testing.T) {
	doc := ParseMarkdown([]byte("# T\n\none two three four five six seven\n"), "")
	doc.Layout(12)
	wide := doc.Height()
	doc.Layout(80)
	if doc.Height() >= wide {
		t.Errorf("Height at 80 cols = %v, want less than %v", doc.Height(), wide)
	}
}

func TestParseMarkdownDuplicateAndExplicitIDs(t *testing.T) {
	src := "# Notes\n\n## Setup {#install}\n\n## Notes\n\n## Notes\n"
	doc := ParseMarkdown([]byte(src), "")

	want := []string{"#notes", "#install", "#notes-1", "#notes-2"}
	if diff := cmp.Diff(want, hrefs(doc.Links(TagNav))); diff != "" {
		t.Errorf("nav links mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMarkdownBlocks(t *testing.T) {
	src := "# Code\n\n- one\n- two\n\n```\nx := 1\n```\n\n> quoted *text*\n"
	doc := ParseMarkdown([]byte(src), "")
	doc.Layout(40)

	var got []string
	for _, r := range doc.Rows() {
		if r.Kind != RowBlank {
			got = append(got, r.Text)
		}
	}
	want := []string{"Code", "• one", "• two", "  x := 1", "│ quoted text"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestElementByIDMissing(t *testing.T) {
	doc := ParseMarkdown([]byte(guideMarkdown), "")
	if el := doc.ElementByID("nope"); el != nil {
		t.Errorf("ElementByID(nope) = %v, want nil", el)
	}
}

func TestFindSelector(t *testing.T) {
	doc := ParseMarkdown([]byte(guideMarkdown), "")
	if n := doc.Find("nav"); n == nil || n.Tag != TagNav {
		t.Errorf("Find(nav) = %v, want nav node", n)
	}
	if n := doc.Find("#usage"); n == nil || n.ID() != "usage" {
		t.Errorf("Find(#usage) = %v, want usage section", n)
	}
	if n := doc.Find("aside"); n != nil {
		t.Errorf("Find(aside) = %v, want nil", n)
	}
	if items := doc.QueryItems("aside"); len(items) != 0 {
		t.Errorf("QueryItems(aside) = %d items, want 0", len(items))
	}
}

const guideHTML = `<html><head><title>Guide</title></head><body>
<nav><ul>
  <li><a href="#one">One</a></li>
  <li><a href="#two">Two</a><ul><li><a href="#two-a">Two A</a></li></ul></li>
</ul></nav>
<section id="one"><h2>One</h2><p>First.</p></section>
<section id="two"><h2>Two</h2><p>Second.</p></section>
<script>ignored()</script>
</body></html>`

func TestParseHTML(t *testing.T) {
	doc, err := ParseHTML([]byte(guideHTML), "fallback")
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if doc.Title != "Guide" {
		t.Errorf("Title = %q, want %q", doc.Title, "Guide")
	}

	links := doc.Links(TagNav)
	if diff := cmp.Diff([]string{"#one", "#two", "#two-a"}, hrefs(links)); diff != "" {
		t.Errorf("nav links mismatch (-want +got):\n%s", diff)
	}
	if links[2].Level != 2 {
		t.Errorf("nested link level = %d, want 2", links[2].Level)
	}

	doc.Layout(40)
	two := doc.NodeByID("two")
	if got := geometry.Top(two); got != 4 {
		t.Errorf("section two top = %v, want 4", got)
	}
	for _, r := range doc.Rows() {
		if r.Text == "ignored()" {
			t.Error("script content should not be laid out")
		}
	}
}

func TestParseHTMLGeneratesNav(t *testing.T) {
	src := `<body><section id="a"><h1>Alpha</h1></section><h2 id="b">Beta</h2></body>`
	doc, err := ParseHTML([]byte(src), "page")
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("Title = %q, want %q", doc.Title, "page")
	}
	if doc.Root().Children()[0].Tag != TagNav {
		t.Fatal("generated nav should be the first body child")
	}
	links := doc.Links(TagNav)
	if diff := cmp.Diff([]string{"#a", "#b"}, hrefs(links)); diff != "" {
		t.Errorf("nav links mismatch (-want +got):\n%s", diff)
	}
	if links[0].Text != "Alpha" {
		t.Errorf("link text = %q, want %q", links[0].Text, "Alpha")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	if err := os.WriteFile(path, []byte("No headings here.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != "guide" {
		t.Errorf("Title = %q, want %q", doc.Title, "guide")
	}
	if doc.Path != path {
		t.Errorf("Path = %q, want %q", doc.Path, path)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(notes.txt) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Load(missing.md) should fail")
	}
}

func TestNodeClasses(t *testing.T) {
	n := NewLink("#a", "A", 1)
	n.AddClass("is-active")
	n.AddClass("b")
	if diff := cmp.Diff([]string{"b", "is-active"}, n.Classes()); diff != "" {
		t.Errorf("Classes mismatch (-want +got):\n%s", diff)
	}
	n.RemoveClass("is-active")
	if n.HasClass("is-active") {
		t.Error("class should be removed")
	}
}
