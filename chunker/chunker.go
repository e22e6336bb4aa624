// Package chunker turns documents into token-bounded, heading-aware chunks.
//
// Pages are annotated line by line, folded into semantic units at heading
// boundaries, packed under the token budget, then settled: undersized chunks
// merge into neighbors, oversized ones split on line and sentence
// boundaries, and a final pass recounts every chunk from the text it
// actually carries. PDF pages are extracted in parallel; other formats come
// in through the ingest front ends page by page.
package chunker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pagesmith/pdfchunk/internal/docmeta"
	"github.com/pagesmith/pdfchunk/internal/extract"
	"github.com/pagesmith/pdfchunk/internal/ingest"
	"github.com/pagesmith/pdfchunk/tokenizer"
)

// tokenCacheSize bounds the memoized per-line token counts. Running headers
// and footers repeat on every page, so even small caches hit constantly.
const tokenCacheSize = 8192

// Chunk is one emitted fragment of the source document.
type Chunk struct {
	// Text is the chunk body: whole source lines, each newline-terminated,
	// except where a single line had to be split below line granularity.
	Text string

	// TokenCount is the exact token count of Text.
	TokenCount int

	// StartPage and EndPage are the zero-based page range Text came from.
	StartPage int
	EndPage   int

	// HasMajorHeading notes whether the chunk contains a level 1 or 2
	// heading. MinHeadingLevel is the smallest such level, or 999 when the
	// chunk has none.
	HasMajorHeading bool
	MinHeadingLevel int

	// OverlapText is a suffix of the previous chunk's text carried along
	// for context, sized to OverlapTokens. Both are zero unless overlap is
	// configured.
	OverlapText   string
	OverlapTokens int
}

// PageText is one page of pre-extracted document text.
type PageText struct {
	Number int
	Text   string
}

// Result is the outcome of chunking one document.
type Result struct {
	Chunks         []Chunk
	TotalPages     int
	TotalChunks    int
	ProcessingTime time.Duration
}

// Stats is a point-in-time view of the chunker's extraction pipeline.
type Stats struct {
	Documents      int64   `json:"documents_processed"`
	Pages          int64   `json:"pages_processed"`
	TotalTimeMs    int64   `json:"total_time_ms"`
	PagesPerSecond float64 `json:"pages_per_second"`
	AvgDocTimeMs   float64 `json:"avg_processing_time_ms"`
	PageLatencyP50 float64 `json:"page_latency_p50_ms"`
	PageLatencyP95 float64 `json:"page_latency_p95_ms"`
	QueueDepth     int     `json:"queue_depth"`
	ActiveTasks    int     `json:"active_tasks"`
	Workers        int     `json:"workers"`
	CachedCounts   int     `json:"cached_counts"`
}

// Chunker chunks documents under a fixed set of options. It owns a worker
// pool for PDF page extraction and is safe for concurrent use; one Chunker
// may serve many documents.
type Chunker struct {
	mu     sync.Mutex
	opts   Options
	counts *tokenizer.CachedCounter
	driver *extract.Driver
	log    *slog.Logger
}

// New validates opts and returns a ready chunker. A nil logger discards.
func New(opts Options, log *slog.Logger) (*Chunker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	base, err := baseCounter(opts)
	if err != nil {
		return nil, err
	}
	counts, err := tokenizer.NewCached(base, tokenCacheSize)
	if err != nil {
		return nil, err
	}
	return &Chunker{
		opts:   opts,
		counts: counts,
		driver: extract.NewDriver(extract.Config{Workers: opts.Threads, BatchSize: opts.BatchSize}, log),
		log:    log.With("component", "chunker"),
	}, nil
}

func baseCounter(opts Options) (tokenizer.Counter, error) {
	if opts.ExactTokens {
		ref, err := tokenizer.NewReference()
		if err != nil {
			return nil, fmt.Errorf("exact token codec: %w", err)
		}
		return ref, nil
	}
	tok, err := tokenizer.Default()
	if err != nil {
		return nil, fmt.Errorf("embedded vocabulary: %w", err)
	}
	return tok, nil
}

// Close shuts the extraction pool down. The chunker must not be used after.
func (c *Chunker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.driver.Close()
}

// Options returns the current configuration.
func (c *Chunker) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// SetOptions replaces the configuration. Changing pool sizing restarts the
// extraction pool; changing the counting mode rebuilds the token cache.
func (c *Chunker) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if opts.ExactTokens != c.opts.ExactTokens {
		base, err := baseCounter(opts)
		if err != nil {
			return err
		}
		counts, err := tokenizer.NewCached(base, tokenCacheSize)
		if err != nil {
			return err
		}
		c.counts = counts
	}
	if opts.Threads != c.opts.Threads || opts.BatchSize != c.opts.BatchSize {
		c.driver.Close()
		c.driver = extract.NewDriver(extract.Config{Workers: opts.Threads, BatchSize: opts.BatchSize}, c.log)
	}
	c.opts = opts
	return nil
}

// Stats reports extraction counters, pool load and token cache size.
func (c *Chunker) Stats() Stats {
	c.mu.Lock()
	driver, counts := c.driver, c.counts
	c.mu.Unlock()

	snap := driver.Stats().Snapshot()
	pl := driver.Pool()
	return Stats{
		Documents:      snap.Documents,
		Pages:          snap.Pages,
		TotalTimeMs:    snap.TotalTimeMs,
		PagesPerSecond: snap.PagesPerSecond,
		AvgDocTimeMs:   snap.AvgDocTimeMs,
		PageLatencyP50: snap.PageLatency.P50Ms,
		PageLatencyP95: snap.PageLatency.P95Ms,
		QueueDepth:     pl.QueueDepth(),
		ActiveTasks:    pl.Active(),
		Workers:        pl.Workers(),
		CachedCounts:   counts.Len(),
	}
}

// ChunkPages runs the chunking pipeline over already-extracted pages.
func (c *Chunker) ChunkPages(pages []PageText) []Chunk {
	c.mu.Lock()
	p := &pipeline{opts: c.opts, tok: c.counts}
	c.mu.Unlock()
	return p.run(pages)
}

// ChunkFile extracts path and chunks it. PDF pages fan out across the
// worker pool; other supported extensions go through their ingest front
// end. A pageLimit above zero stops extraction after that many pages. Pages
// that fail to extract are logged and skipped; the rest of the document
// still chunks.
func (c *Chunker) ChunkFile(path string, pageLimit int) (*Result, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("chunker: input: %w", err)
	}

	var pages []PageText
	var err error
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pages, err = c.pdfPages(path, pageLimit)
	} else {
		pages, err = c.ingestPages(path, pageLimit)
	}
	if err != nil {
		return nil, err
	}

	chunks := c.ChunkPages(pages)
	res := &Result{
		Chunks:         chunks,
		TotalPages:     len(pages),
		TotalChunks:    len(chunks),
		ProcessingTime: time.Since(start),
	}
	c.log.Info("chunked document",
		"path", path,
		"pages", res.TotalPages,
		"chunks", res.TotalChunks,
		"elapsed", res.ProcessingTime)
	return res, nil
}

// ChunkToFile chunks inputPath and writes the chunk records to outputPath
// as docling-format JSON.
func (c *Chunker) ChunkToFile(inputPath, outputPath string, pageLimit int) (*Result, error) {
	res, err := c.ChunkFile(inputPath, pageLimit)
	if err != nil {
		return nil, err
	}
	origin, err := docmeta.NewOrigin(inputPath)
	if err != nil {
		return nil, err
	}
	if err := docmeta.WriteFile(outputPath, Records(res.Chunks, origin)); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Chunker) pdfPages(path string, pageLimit int) ([]PageText, error) {
	c.mu.Lock()
	driver := c.driver
	c.mu.Unlock()

	var pages []PageText
	err := driver.ParseStreaming(path, func(res extract.PageResult) bool {
		if res.Failed() {
			c.log.Warn("page failed", "page", res.PageNumber, "err", res.Err)
			return true
		}
		pages = append(pages, PageText{Number: res.PageNumber, Text: res.Text()})
		return pageLimit <= 0 || len(pages) < pageLimit
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (c *Chunker) ingestPages(path string, pageLimit int) ([]PageText, error) {
	loaded, err := ingest.Load(path)
	if err != nil {
		return nil, err
	}
	pages := make([]PageText, 0, len(loaded))
	for _, pg := range loaded {
		pages = append(pages, PageText{Number: pg.Number, Text: pg.Text})
		if pageLimit > 0 && len(pages) >= pageLimit {
			break
		}
	}
	return pages, nil
}
