// Package ingest loads non-PDF documents and renders them as pages of
// markdown-shaped text for the chunking pipeline: headings become "#"
// lines, list items become "- " lines, code keeps its indentation. The
// annotator downstream reads structure from exactly this shape.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for file extensions no front end handles.
var ErrUnsupported = errors.New("ingest: unsupported file type")

// Page is one unit of source text. PDF-like formats have real pages; the
// other front ends synthesize them from document structure.
type Page struct {
	Number int
	Text   string
}

var extensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".csv":      true,
	".docx":     true,
}

// Supported reports whether a front end exists for path's extension. PDF is
// not listed here; extraction owns it.
func Supported(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Load parses the file at path with the front end for its extension.
func Load(path string) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		return parseText(f)
	case ".md", ".markdown":
		return parseMarkdown(f)
	case ".html", ".htm":
		return parseHTML(f)
	case ".csv":
		return parseCSV(f)
	case ".docx":
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("ingest: stat: %w", err)
		}
		return parseDOCX(f, info.Size())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}
