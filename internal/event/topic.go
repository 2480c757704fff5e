package event

import "strings"

// Topic is a hierarchical event name using dot notation,
// e.g. "spy.active.changed".
type Topic string

const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// Topics published by navspy.
const (
	TopicActiveChanged    Topic = "spy.active.changed"
	TopicScrollCompleted  Topic = "spy.scroll.completed"
	TopicDocumentReloaded Topic = "document.reloaded"
	TopicConfigReloaded   Topic = "config.reloaded"
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsValid reports whether the topic is non-empty and has no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether t matches pattern. "*" matches one segment and
// "**" matches zero or more.
func (t Topic) Matches(pattern Topic) bool {
	return match(t.Segments(), pattern.Segments())
}

func match(segs, pat []string) bool {
	for len(pat) > 0 {
		head := pat[0]
		pat = pat[1:]
		switch {
		case head == WildcardMulti:
			for skip := 0; skip <= len(segs); skip++ {
				if match(segs[skip:], pat) {
					return true
				}
			}
			return false
		case len(segs) == 0:
			return false
		case head != WildcardSingle && head != segs[0]:
			return false
		}
		segs = segs[1:]
	}
	return len(segs) == 0
}
