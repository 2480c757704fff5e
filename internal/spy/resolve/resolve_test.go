package resolve

import (
	"testing"

	"github.com/dshills/navspy/internal/spy/host/hosttest"
	"github.com/dshills/navspy/internal/spy/registry"
)

// fixture builds three sections whose tops, after the 20px offset, sit at
// 0, 500 and 1200. The first two are 400 tall, leaving a gap from 400 to 500.
func fixture() (*hosttest.Document, []*registry.Item) {
	doc := &hosttest.Document{
		Links: []*hosttest.Element{
			hosttest.NewLink("one"),
			hosttest.NewLink("two"),
			hosttest.NewLink("three"),
		},
		Sections: []*hosttest.Element{
			hosttest.NewSection("one", 20, 400),
			hosttest.NewSection("two", 520, 400),
			hosttest.NewSection("three", 1220, 300),
		},
	}
	r := registry.New(doc, "nav", nil)
	r.Rebuild(false)
	return doc, r.Items()
}

func target(it *registry.Item) string {
	if it == nil {
		return "<none>"
	}
	return it.TargetID
}

func TestActiveNonExact(t *testing.T) {
	doc, items := fixture()

	tests := []struct {
		scrollY float64
		want    string
	}{
		{-10, "<none>"},
		{-0.5, "<none>"},
		{0, "one"},
		{399, "one"},
		{450, "one"},
		{500, "two"},
		{600, "two"},
		{1199, "two"},
		{1200, "three"},
		{1300, "three"},
		{5000, "three"},
	}

	for _, tt := range tests {
		got := Active(doc, items, tt.scrollY, 20, false)
		if target(got) != tt.want {
			t.Errorf("Active(%v) = %s, want %s", tt.scrollY, target(got), tt.want)
		}
	}
}

func TestActiveExact(t *testing.T) {
	doc, items := fixture()

	tests := []struct {
		scrollY float64
		want    string
	}{
		{-10, "<none>"},
		{0, "one"},
		{399.9, "one"},
		{400, "<none>"},
		{450, "<none>"},
		{500, "two"},
		{899, "two"},
		{900, "<none>"},
		{1200, "three"},
		{1499, "three"},
		{1500, "<none>"},
	}

	for _, tt := range tests {
		got := Active(doc, items, tt.scrollY, 20, true)
		if target(got) != tt.want {
			t.Errorf("Active(%v, exact) = %s, want %s", tt.scrollY, target(got), tt.want)
		}
	}
}

func TestActiveGapDiffersByMode(t *testing.T) {
	doc, items := fixture()

	if got := Active(doc, items, 450, 20, false); target(got) != "one" {
		t.Errorf("non-exact gap = %s, want one", target(got))
	}
	if got := Active(doc, items, 450, 20, true); got != nil {
		t.Errorf("exact gap = %s, want none", target(got))
	}
}

func TestActiveLastMatchWins(t *testing.T) {
	doc := &hosttest.Document{
		Links: []*hosttest.Element{
			hosttest.NewLink("outer"),
			hosttest.NewLink("inner"),
		},
		Sections: []*hosttest.Element{
			hosttest.NewSection("outer", 0, 1000),
			hosttest.NewSection("inner", 200, 100),
		},
	}
	r := registry.New(doc, "nav", nil)
	r.Rebuild(false)

	for _, exact := range []bool{false, true} {
		if got := Active(doc, r.Items(), 250, 0, exact); target(got) != "inner" {
			t.Errorf("exact=%v overlapping = %s, want inner", exact, target(got))
		}
	}
	if got := Active(doc, r.Items(), 500, 0, true); target(got) != "outer" {
		t.Errorf("exact past inner = %s, want outer", target(got))
	}
}

func TestActiveDuplicateTargetsLaterWins(t *testing.T) {
	doc := &hosttest.Document{
		Links: []*hosttest.Element{
			hosttest.NewLink("a"),
			hosttest.NewLink("a"),
		},
		Sections: []*hosttest.Element{hosttest.NewSection("a", 0, 100)},
	}
	r := registry.New(doc, "nav", nil)
	r.Rebuild(false)

	got := Active(doc, r.Items(), 10, 0, false)
	if got == nil || got.Index != 1 {
		t.Errorf("duplicate resolution = %+v, want index 1", got)
	}
}

func TestActiveSkipsUnresolvedSections(t *testing.T) {
	doc, items := fixture()
	doc.Remove("two")

	if got := Active(doc, items, 600, 20, false); target(got) != "one" {
		t.Errorf("missing middle section = %s, want one", target(got))
	}

	doc.Sections = nil
	if got := Active(doc, items, 600, 20, false); got != nil {
		t.Errorf("no sections = %s, want none", target(got))
	}
	if got := Active(doc, nil, 600, 20, false); got != nil {
		t.Errorf("no items = %s, want none", target(got))
	}
}

func TestPassCachesBounds(t *testing.T) {
	doc, _ := fixture()
	p := NewPass(doc, 20)

	b, ok := p.Bounds("two")
	if !ok || b.Top != 500 || b.Bottom != 900 {
		t.Fatalf("Bounds(two) = %+v, %v", b, ok)
	}

	doc.Sections[1].Top = 9999
	if b2, _ := p.Bounds("two"); b2 != b {
		t.Errorf("cached bounds changed within a pass: %+v", b2)
	}
	if _, ok := p.Bounds("missing"); ok {
		t.Error("missing section should not resolve")
	}

	if b3, _ := NewPass(doc, 20).Bounds("two"); b3.Top != 9979 {
		t.Errorf("new pass Top = %v, want 9979", b3.Top)
	}
}
