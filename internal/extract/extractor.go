package extract

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Options control how much detail the extractor collects per page.
type Options struct {
	// Spans keeps per-run position data on every line.
	Spans bool
	// Fonts keeps font name and size on every span (implies nothing on its
	// own; spans must also be enabled to be visible).
	Fonts bool
}

// Extractor wraps one engine handle for one document. Handles are cheap to
// open relative to page work and must not be shared across goroutines, so
// callers open one per task.
type Extractor struct {
	f      *os.File
	reader *pdflib.Reader
	opts   Options
}

// NewExtractor opens the document at path. The engine signals malformed
// files by panicking, so the open is fenced and surfaced as ErrCorrupt.
func NewExtractor(path string, opts Options) (ex *Extractor, err error) {
	defer func() {
		if r := recover(); r != nil {
			ex, err = nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("open %s: %w", path, statErr)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return &Extractor{f: f, reader: reader, opts: opts}, nil
}

// Close releases the underlying file.
func (e *Extractor) Close() error {
	return e.f.Close()
}

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() int {
	return e.reader.NumPage()
}

// ExtractPage pulls the structured text of one page. Index is zero-based.
// Failures are carried in the result; the method itself never panics even
// though the engine does on malformed content streams.
func (e *Extractor) ExtractPage(index int) (res PageResult) {
	res = PageResult{PageNumber: index}
	if index < 0 || index >= e.reader.NumPage() {
		res.Err = fmt.Errorf("%w: %d (document has %d pages)", ErrPageOutOfRange, index, e.reader.NumPage())
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res.Blocks = nil
			res.Err = fmt.Errorf("%w: page %d: %v", ErrPageFailed, index, r)
		}
	}()

	page := e.reader.Page(index + 1)
	if page.V.IsNull() {
		return res
	}

	lines := e.buildLines(page.Content())
	if len(lines) > 0 {
		res.Blocks = []Block{{Lines: lines}}
	}
	return res
}

// buildLines groups content-stream runs into visual rows: same baseline Y
// is one row, rows ordered top to bottom, runs within a row left to right.
func (e *Extractor) buildLines(content pdflib.Content) []Line {
	if len(content.Text) == 0 {
		return nil
	}

	rows := make(map[float64][]pdflib.Text)
	for _, t := range content.Text {
		y := math.Round(t.Y*10) / 10
		rows[y] = append(rows[y], t)
	}

	ys := make([]float64, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	// PDF user space has Y growing upward; reading order is descending Y.
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	lines := make([]Line, 0, len(ys))
	for _, y := range ys {
		runs := rows[y]
		sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

		var text strings.Builder
		var spans []Span
		for _, run := range runs {
			text.WriteString(run.S)
			if e.opts.Spans {
				sp := Span{Text: run.S}
				bbox := [4]float64{run.X, run.Y, run.X + run.W, run.Y + run.FontSize}
				sp.BBox = &bbox
				if e.opts.Fonts {
					sp.Font = run.Font
					sp.Size = run.FontSize
				}
				spans = append(spans, sp)
			}
		}
		lines = append(lines, Line{Text: text.String(), Spans: spans})
	}
	return lines
}
