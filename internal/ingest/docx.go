package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// parseDOCX renders the document body as one page. Heading-styled
// paragraphs become markdown headings at the style's level; everything else
// becomes a paragraph line followed by a blank.
func parseDOCX(f *os.File, size int64) ([]Page, error) {
	doc, err := docx.Parse(f, size)
	if err != nil {
		return nil, fmt.Errorf("ingest: parse docx: %w", err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if level := headingStyleLevel(para); level > 0 {
			b.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
		} else {
			b.WriteString(text + "\n\n")
		}
	}

	text := strings.TrimRight(b.String(), "\n")
	if text == "" {
		return nil, nil
	}
	return []Page{{Number: 0, Text: text}}, nil
}

// headingStyleLevel maps "Heading1".."Heading6" (and the spaced spelling
// Word sometimes uses) to a markdown level.
func headingStyleLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ReplaceAll(strings.ToLower(para.Properties.Style.Val), " ", "")
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok || len(rest) != 1 || rest[0] < '1' || rest[0] > '6' {
		return 0
	}
	return int(rest[0] - '0')
}

func paragraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				b.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
