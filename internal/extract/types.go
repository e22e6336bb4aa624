// Package extract reads page text out of PDF documents and fans page
// extraction across a worker pool. The underlying engine handle is never
// shared between tasks; every task opens its own.
package extract

import (
	"errors"
	"strings"
)

var (
	// ErrCorrupt means the document could not be opened as a PDF at all.
	ErrCorrupt = errors.New("extract: corrupt or unreadable document")

	// ErrPageFailed marks a single page whose extraction failed. The
	// pipeline continues; the failure travels inside the PageResult.
	ErrPageFailed = errors.New("extract: page extraction failed")

	// ErrPageOutOfRange is returned for a page index outside [0, PageCount).
	ErrPageOutOfRange = errors.New("extract: page index out of range")
)

// Span is one text run from the page content stream, with optional position
// and font detail. Simple fonts emit runs of a few glyphs; the granularity
// is whatever the document's text-show operators used.
type Span struct {
	Text string      `json:"char"`
	BBox *[4]float64 `json:"bbox,omitempty"`
	Font string      `json:"font,omitempty"`
	Size float64     `json:"size,omitempty"`
}

// Line is one visual row of text.
type Line struct {
	Text  string `json:"text"`
	Spans []Span `json:"chars,omitempty"`
}

// Block groups the lines of a page. The engine exposes no sub-page block
// structure, so each page carries at most one block.
type Block struct {
	Lines []Line `json:"lines"`
}

// PageResult is the outcome of extracting a single page: either content or
// a page-scoped error, never both.
type PageResult struct {
	PageNumber int     `json:"page_number"`
	Blocks     []Block `json:"blocks,omitempty"`
	Err        error   `json:"-"`
}

// Failed reports whether this page carries an error instead of content.
func (r PageResult) Failed() bool {
	return r.Err != nil
}

// Text flattens the page to plain text: lines joined with \n inside a
// block, blocks joined with \n.
func (r PageResult) Text() string {
	var b strings.Builder
	for bi, blk := range r.Blocks {
		if bi > 0 {
			b.WriteByte('\n')
		}
		for li, ln := range blk.Lines {
			if li > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(ln.Text)
		}
	}
	return b.String()
}
