package extract

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeDoc fabricates a document for driver tests. Every Open hands out a
// fresh source so per-task construction is observable.
type fakeDoc struct {
	pages   []string
	fail    map[int]bool
	perPage time.Duration

	opens  atomic.Int64
	closes atomic.Int64
}

type fakeSource struct {
	doc *fakeDoc
}

func (d *fakeDoc) open(string) (Source, error) {
	d.opens.Add(1)
	return &fakeSource{doc: d}, nil
}

func (s *fakeSource) PageCount() int {
	return len(s.doc.pages)
}

func (s *fakeSource) ExtractPage(index int) PageResult {
	if s.doc.perPage > 0 {
		time.Sleep(s.doc.perPage)
	}
	if s.doc.fail[index] {
		return PageResult{PageNumber: index, Err: fmt.Errorf("%w: synthetic", ErrPageFailed)}
	}
	lines := make([]Line, 0, 1)
	for _, ln := range strings.Split(s.doc.pages[index], "\n") {
		lines = append(lines, Line{Text: ln})
	}
	return PageResult{PageNumber: index, Blocks: []Block{{Lines: lines}}}
}

func (s *fakeSource) Close() error {
	s.doc.closes.Add(1)
	return nil
}

func collectPages(t *testing.T, d *Driver, path string) []PageResult {
	t.Helper()
	var got []PageResult
	err := d.ParseStreaming(path, func(r PageResult) bool {
		got = append(got, r)
		return true
	})
	if err != nil {
		t.Fatalf("ParseStreaming: %v", err)
	}
	return got
}

func TestParseStreamingDeliversInPageOrder(t *testing.T) {
	doc := &fakeDoc{perPage: 2 * time.Millisecond}
	for i := range 17 {
		doc.pages = append(doc.pages, fmt.Sprintf("page %d line one\npage %d line two", i, i))
	}

	d := NewDriver(Config{Workers: 4, Open: doc.open}, nil)
	defer d.Close()

	got := collectPages(t, d, "fake.pdf")
	if len(got) != 17 {
		t.Fatalf("delivered %d pages, want 17", len(got))
	}
	for i, r := range got {
		if r.PageNumber != i {
			t.Fatalf("position %d carries page %d, want ascending order", i, r.PageNumber)
		}
		if want := fmt.Sprintf("page %d line one\npage %d line two", i, i); r.Text() != want {
			t.Errorf("page %d text = %q, want %q", i, r.Text(), want)
		}
	}

	// One probe open plus one open per page task.
	if opens := doc.opens.Load(); opens != 18 {
		t.Errorf("engine opened %d times, want 18 (per-task handles)", opens)
	}
	if doc.closes.Load() != doc.opens.Load() {
		t.Errorf("opens %d != closes %d", doc.opens.Load(), doc.closes.Load())
	}
}

func TestParseStreamingEarlyStop(t *testing.T) {
	doc := &fakeDoc{}
	for i := range 10 {
		doc.pages = append(doc.pages, fmt.Sprintf("p%d", i))
	}

	d := NewDriver(Config{Workers: 1, BatchSize: 2, Open: doc.open}, nil)
	defer d.Close()

	calls := 0
	err := d.ParseStreaming("fake.pdf", func(r PageResult) bool {
		calls++
		return false
	})
	if err != nil {
		t.Fatalf("ParseStreaming: %v", err)
	}
	if calls != 1 {
		t.Errorf("consumer called %d times after returning false, want 1", calls)
	}
	// Probe plus the two tasks of the first batch; later batches never
	// dispatched.
	if opens := doc.opens.Load(); opens != 3 {
		t.Errorf("engine opened %d times, want 3", opens)
	}
	if doc.closes.Load() != doc.opens.Load() {
		t.Errorf("opens %d != closes %d (in-flight tasks must drain)", doc.opens.Load(), doc.closes.Load())
	}
}

func TestParseStreamingPageFailureContinues(t *testing.T) {
	doc := &fakeDoc{
		pages: []string{"ok0", "broken", "ok2"},
		fail:  map[int]bool{1: true},
	}

	d := NewDriver(Config{Workers: 2, Open: doc.open}, nil)
	defer d.Close()

	got := collectPages(t, d, "fake.pdf")
	if len(got) != 3 {
		t.Fatalf("delivered %d pages, want 3", len(got))
	}
	if got[0].Failed() || got[2].Failed() {
		t.Error("healthy pages reported as failed")
	}
	if !got[1].Failed() {
		t.Fatal("failing page not reported")
	}
	if !errors.Is(got[1].Err, ErrPageFailed) {
		t.Errorf("page error = %v, want ErrPageFailed", got[1].Err)
	}
}

func TestParseStreamingOpenError(t *testing.T) {
	wantErr := errors.New("no such document")
	d := NewDriver(Config{
		Workers: 1,
		Open:    func(string) (Source, error) { return nil, wantErr },
	}, nil)
	defer d.Close()

	err := d.ParseStreaming("missing.pdf", func(PageResult) bool { return true })
	if !errors.Is(err, wantErr) {
		t.Errorf("ParseStreaming error = %v, want %v", err, wantErr)
	}
}

func TestParseStreamingTaskOpenFailureBecomesPageError(t *testing.T) {
	doc := &fakeDoc{pages: []string{"a", "b"}}
	var calls atomic.Int64
	open := func(path string) (Source, error) {
		if calls.Add(1) == 1 {
			return doc.open(path) // probe succeeds
		}
		return nil, errors.New("handle exhaustion")
	}

	d := NewDriver(Config{Workers: 1, Open: open}, nil)
	defer d.Close()

	got := collectPages(t, d, "fake.pdf")
	if len(got) != 2 {
		t.Fatalf("delivered %d pages, want 2", len(got))
	}
	for _, r := range got {
		if !errors.Is(r.Err, ErrPageFailed) {
			t.Errorf("page %d error = %v, want ErrPageFailed", r.PageNumber, r.Err)
		}
	}
}

func TestDriverStatsAccumulate(t *testing.T) {
	doc := &fakeDoc{pages: []string{"a", "b", "c"}}
	d := NewDriver(Config{Workers: 2, Open: doc.open}, nil)
	defer d.Close()

	collectPages(t, d, "fake.pdf")
	collectPages(t, d, "fake.pdf")

	snap := d.Stats().Snapshot()
	if snap.Documents != 2 {
		t.Errorf("Documents = %d, want 2", snap.Documents)
	}
	if snap.Pages != 6 {
		t.Errorf("Pages = %d, want 6", snap.Pages)
	}
	if snap.PageLatency.Count != 6 {
		t.Errorf("latency samples = %d, want 6", snap.PageLatency.Count)
	}
	if snap.AvgDocTimeMs < 0 || snap.PagesPerSecond < 0 {
		t.Errorf("derived rates negative: %+v", snap)
	}
}

func TestDriverPageCount(t *testing.T) {
	doc := &fakeDoc{pages: []string{"a", "b", "c", "d"}}
	d := NewDriver(Config{Workers: 1, Open: doc.open}, nil)
	defer d.Close()

	n, err := d.PageCount("fake.pdf")
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 4 {
		t.Errorf("PageCount = %d, want 4", n)
	}
}
