package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads and parses the file at path, choosing the parser by extension.
func Load(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown", ".html", ".htm":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var doc *Document
	switch ext {
	case ".md", ".markdown":
		doc = ParseMarkdown(src, "")
		if doc.Title == "" {
			doc.Title = title
		}
	default:
		doc, err = ParseHTML(src, title)
		if err != nil {
			return nil, err
		}
	}
	doc.Path = path
	return doc, nil
}
