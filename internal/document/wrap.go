package document

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines no wider than width display cells.
// Words wider than a line are split.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, w := range words {
		ww := runewidth.StringWidth(w)
		if lineWidth > 0 && lineWidth+1+ww > width {
			flush()
		}
		for ww > width {
			head := runewidth.Truncate(w, width, "")
			if head == "" {
				break
			}
			if lineWidth > 0 {
				flush()
			}
			line.WriteString(head)
			flush()
			w = w[len(head):]
			ww = runewidth.StringWidth(w)
		}
		if w == "" {
			continue
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(w)
		lineWidth += ww
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}
