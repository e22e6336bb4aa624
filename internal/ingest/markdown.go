package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown splits the source into synthetic pages at top-level level-1
// headings. The raw markdown is preserved byte for byte inside each page so
// the annotator sees the original markup.
func parseMarkdown(r io.Reader) ([]Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read markdown: %w", err)
	}
	if len(src) == 0 {
		return nil, nil
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	bounds := []int{0}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 || h.Lines().Len() == 0 {
			continue
		}
		// Lines() covers the heading text; walk back to the start of the
		// source line so the marker stays with the page.
		start := h.Lines().At(0).Start
		for start > 0 && src[start-1] != '\n' {
			start--
		}
		if start > bounds[len(bounds)-1] {
			bounds = append(bounds, start)
		}
	}
	bounds = append(bounds, len(src))

	var pages []Page
	for i := 0; i+1 < len(bounds); i++ {
		seg := string(src[bounds[i]:bounds[i+1]])
		if strings.TrimSpace(seg) == "" {
			continue
		}
		pages = append(pages, Page{Number: len(pages), Text: seg})
	}
	return pages, nil
}
