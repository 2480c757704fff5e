package document

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugger produces unique fragment identifiers from heading text.
type Slugger struct {
	seen map[string]int
}

// NewSlugger returns an empty slugger.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Reserve marks id as taken.
func (s *Slugger) Reserve(id string) {
	if _, ok := s.seen[id]; !ok {
		s.seen[id] = 0
	}
}

// Slug lowercases text, turns spaces into dashes and drops punctuation.
// Repeated slugs get "-1", "-2", ... suffixes.
func (s *Slugger) Slug(text string) string {
	base := Slug(text)
	if base == "" {
		base = "section"
	}
	n, ok := s.seen[base]
	if !ok {
		s.seen[base] = 0
		return base
	}
	for {
		n++
		id := base + "-" + strconv.Itoa(n)
		if _, taken := s.seen[id]; !taken {
			s.seen[base] = n
			s.seen[id] = 0
			return id
		}
	}
}

// Slug converts text to a fragment identifier without de-duplication.
func Slug(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			dash = false
		case r == '-' || unicode.IsSpace(r):
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
