package extract

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/pagesmith/pdfchunk/internal/pool"
)

// Source is a per-task view of one document. The production implementation
// is Extractor; tests substitute their own.
type Source interface {
	PageCount() int
	ExtractPage(index int) PageResult
	Close() error
}

// OpenFunc opens a document for a single task.
type OpenFunc func(path string) (Source, error)

// Config tunes the parallel driver.
type Config struct {
	// Workers is the pool size; 0 means runtime.NumCPU.
	Workers int
	// BatchSize is the number of pages dispatched per round; 0 means
	// twice the worker count.
	BatchSize int
	// Extract is passed to every engine handle the driver opens.
	Extract Options
	// Open overrides the document opener. Nil uses the PDF engine.
	Open OpenFunc
}

// Driver extracts document pages in parallel and streams results to a
// consumer in page order. One driver may serve many documents; its pool and
// statistics are shared across them.
type Driver struct {
	cfg   Config
	pool  *pool.Pool
	stats *Stats
	open  OpenFunc
	log   *slog.Logger
}

// NewDriver starts the worker pool and returns a ready driver.
func NewDriver(cfg Config, log *slog.Logger) *Driver {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = cfg.Workers * 2
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	open := cfg.Open
	if open == nil {
		opts := cfg.Extract
		open = func(path string) (Source, error) {
			return NewExtractor(path, opts)
		}
	}
	return &Driver{
		cfg:   cfg,
		pool:  pool.New(cfg.Workers),
		stats: NewStats(),
		open:  open,
		log:   log.With("component", "extract"),
	}
}

// Close shuts the worker pool down after draining queued tasks.
func (d *Driver) Close() {
	d.pool.Shutdown()
}

// Stats exposes the driver's aggregate counters.
func (d *Driver) Stats() *Stats {
	return d.stats
}

// Pool exposes pool introspection for status endpoints.
func (d *Driver) Pool() *pool.Pool {
	return d.pool
}

// PageCount opens the document once to read its page count.
func (d *Driver) PageCount(path string) (int, error) {
	src, err := d.open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return src.PageCount(), nil
}

// ParseStreaming extracts every page of the document and hands results to
// consumer in ascending page order. Pages within a batch run concurrently;
// each task opens its own engine handle. The consumer returns false to stop:
// no further batches are dispatched, already-submitted tasks are awaited and
// their results discarded.
func (d *Driver) ParseStreaming(path string, consumer func(PageResult) bool) error {
	start := time.Now()

	src, err := d.open(path)
	if err != nil {
		return err
	}
	total := src.PageCount()
	src.Close()

	d.log.Debug("parse start", "path", path, "pages", total, "batch", d.cfg.BatchSize)

	type pending struct {
		page   int
		future *pool.Future[PageResult]
	}

	delivered := 0
	stopped := false
	for lo := 0; lo < total && !stopped; lo += d.cfg.BatchSize {
		hi := min(lo+d.cfg.BatchSize, total)

		batch := make([]pending, 0, hi-lo)
		for page := lo; page < hi; page++ {
			f, err := pool.Submit(d.pool, func() (PageResult, error) {
				return d.extractOne(path, page), nil
			})
			if err != nil {
				// Pool shut down underneath us. Drain what we managed
				// to submit before reporting.
				for _, p := range batch {
					p.future.Result()
				}
				return fmt.Errorf("dispatch page %d: %w", page, err)
			}
			batch = append(batch, pending{page: page, future: f})
		}

		for _, p := range batch {
			res, err := p.future.Result()
			if err != nil {
				res = PageResult{PageNumber: p.page, Err: err}
			}
			if stopped {
				continue
			}
			delivered++
			if !consumer(res) {
				stopped = true
			}
		}
	}

	elapsed := time.Since(start)
	d.stats.RecordDocument(delivered, elapsed)
	d.log.Debug("parse done", "path", path, "pages", delivered, "elapsed", elapsed)
	return nil
}

// extractOne is the unit of work dispatched to the pool: open, extract one
// page, close. A failed open becomes a failed page rather than a document
// error, because sibling pages may still succeed.
func (d *Driver) extractOne(path string, page int) PageResult {
	t0 := time.Now()
	src, err := d.open(path)
	if err != nil {
		return PageResult{PageNumber: page, Err: fmt.Errorf("%w: page %d: %v", ErrPageFailed, page, err)}
	}
	defer src.Close()

	res := src.ExtractPage(page)
	d.stats.RecordPageLatency(time.Since(t0))
	return res
}
