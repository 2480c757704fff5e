package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/navspy/internal/spy/host"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 5, nil},
		{"fits", "hello", 10, []string{"hello"}},
		{"breaks", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"long word", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"collapses space", "a   b", 10, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.width, diff)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Multiple   spaces ", "multiple-spaces"},
		{"API v2.0", "api-v20"},
		{"already-slugged", "already-slugged"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSluggerDedupes(t *testing.T) {
	s := NewSlugger()
	var got []string
	for _, in := range []string{"Intro", "Intro", "Intro", "!!!"} {
		got = append(got, s.Slug(in))
	}
	want := []string{"intro", "intro-1", "intro-2", "section"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slugs mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeClick(t *testing.T) {
	n := NewLink("#a", "A", 1)
	if n.Click(host.Event{}) {
		t.Error("Click without handlers should report false")
	}

	var order []int
	cancel := n.OnClick(func(ev host.Event) {
		if ev.Kind != host.EventClick || ev.Target != n {
			t.Errorf("event = %+v, want click targeting the node", ev)
		}
		order = append(order, 1)
	})
	n.OnClick(func(host.Event) { order = append(order, 2) })

	if !n.Click(host.Event{}) {
		t.Error("Click should report true")
	}
	cancel()
	n.Click(host.Event{})

	if diff := cmp.Diff([]int{1, 2, 2}, order); diff != "" {
		t.Errorf("handler order mismatch (-want +got):\n%s", diff)
	}
}
