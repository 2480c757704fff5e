package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/navspy/internal/spy/host"
	"github.com/dshills/navspy/internal/spy/host/hosttest"
)

func newDoc() *hosttest.Document {
	return &hosttest.Document{
		Links: []*hosttest.Element{
			hosttest.NewLink("intro"),
			{Link: "https://example.com"},
			hosttest.NewLink("usage"),
			hosttest.NewLink("intro"),
		},
	}
}

func targets(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.TargetID
	}
	return out
}

func TestTargetID(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"#intro", "intro"},
		{"page.html#setup", "setup"},
		{"#", ""},
		{"https://example.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TargetID(tt.href); got != tt.want {
			t.Errorf("TargetID(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestRebuildKeepsDocumentOrderAndDuplicates(t *testing.T) {
	r := New(newDoc(), "nav", nil)
	r.Rebuild(false)

	want := []string{"intro", "usage", "intro"}
	if diff := cmp.Diff(want, targets(r.Items())); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	for i, it := range r.Items() {
		if it.Index != i {
			t.Errorf("item %d has Index %d", i, it.Index)
		}
	}
}

func TestRebuildBindsClickHandlersOnce(t *testing.T) {
	doc := newDoc()
	var clicked []string
	r := New(doc, "nav", func(item *Item, ev host.Event) {
		clicked = append(clicked, item.TargetID)
	})

	r.Rebuild(true)
	r.Rebuild(true)
	r.Rebuild(true)

	if got := doc.Links[0].Handlers(); got != 1 {
		t.Fatalf("handlers after repeated rebuild = %d, want 1", got)
	}
	if got := doc.Links[1].Handlers(); got != 0 {
		t.Errorf("non-fragment link has %d handlers, want 0", got)
	}

	doc.Links[2].Click()
	if diff := cmp.Diff([]string{"usage"}, clicked); diff != "" {
		t.Errorf("clicks mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildWithoutClickRemovesHandlers(t *testing.T) {
	doc := newDoc()
	r := New(doc, "nav", func(*Item, host.Event) {})

	r.Rebuild(true)
	r.Rebuild(false)

	for i, l := range doc.Links {
		if n := l.Handlers(); n != 0 {
			t.Errorf("link %d still has %d handlers", i, n)
		}
	}
}

func TestRebuildReplacesItems(t *testing.T) {
	doc := newDoc()
	r := New(doc, "nav", nil)
	r.Rebuild(false)
	first := r.Items()[0]

	doc.Links = doc.Links[2:]
	r.Rebuild(false)

	if diff := cmp.Diff([]string{"usage", "intro"}, targets(r.Items())); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	if r.Items()[1] == first {
		t.Error("items must be recreated on rebuild")
	}
}

func TestSame(t *testing.T) {
	el := hosttest.NewLink("a")
	a := &Item{TargetID: "a", Element: el}
	b := &Item{TargetID: "a", Element: el}
	c := &Item{TargetID: "a", Element: hosttest.NewLink("a")}

	if !a.Same(b) {
		t.Error("items over the same element should be Same")
	}
	if a.Same(c) {
		t.Error("items over different elements should not be Same")
	}
	var none *Item
	if !none.Same(nil) {
		t.Error("nil should be Same as nil")
	}
	if a.Same(nil) {
		t.Error("item should not be Same as nil")
	}
}

func TestFindAndByTarget(t *testing.T) {
	doc := newDoc()
	r := New(doc, "nav", nil)
	r.Rebuild(false)

	if it := r.Find(doc.Links[3]); it == nil || it.Index != 2 {
		t.Errorf("Find returned %+v, want index 2", it)
	}
	if it := r.Find(doc.Links[1]); it != nil {
		t.Errorf("Find on untracked link = %+v, want nil", it)
	}
	if it := r.ByTarget("intro"); it == nil || it.Index != 0 {
		t.Errorf("ByTarget(intro) = %+v, want index 0", it)
	}
	if it := r.ByTarget("missing"); it != nil {
		t.Errorf("ByTarget(missing) = %+v, want nil", it)
	}
}

func TestClear(t *testing.T) {
	doc := newDoc()
	r := New(doc, "nav", func(*Item, host.Event) {})
	r.Rebuild(true)
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", r.Len())
	}
	if n := doc.Links[0].Handlers(); n != 0 {
		t.Errorf("handlers after Clear = %d, want 0", n)
	}
}
