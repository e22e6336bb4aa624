package extract

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type sample struct {
	timestamp time.Time
	duration  time.Duration
}

// LatencySnapshot is a point-in-time aggregate of per-page latencies.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Snapshot is a point-in-time aggregate of driver work.
type Snapshot struct {
	Documents      int64           `json:"documents_processed"`
	Pages          int64           `json:"pages_processed"`
	TotalTimeMs    int64           `json:"total_time_ms"`
	PagesPerSecond float64         `json:"pages_per_second"`
	AvgDocTimeMs   float64         `json:"avg_processing_time_ms"`
	PageLatency    LatencySnapshot `json:"page_latency"`
}

// Stats aggregates document and page counters plus a rolling window of
// per-page extraction latencies. Counters are atomic; derived rates are
// computed on read.
type Stats struct {
	documents atomic.Int64
	pages     atomic.Int64
	totalNs   atomic.Int64

	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

// NewStats returns stats with a one-hour latency window.
func NewStats() *Stats {
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  time.Hour,
	}
}

// RecordDocument accounts one finished document.
func (s *Stats) RecordDocument(pages int, elapsed time.Duration) {
	s.documents.Add(1)
	s.pages.Add(int64(pages))
	s.totalNs.Add(int64(elapsed))
}

// RecordPageLatency adds one page extraction duration to the window.
func (s *Stats) RecordPageLatency(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{timestamp: now, duration: d})
}

// Snapshot computes the current aggregate view.
func (s *Stats) Snapshot() Snapshot {
	docs := s.documents.Load()
	pages := s.pages.Load()
	total := time.Duration(s.totalNs.Load())

	snap := Snapshot{
		Documents:   docs,
		Pages:       pages,
		TotalTimeMs: total.Milliseconds(),
		PageLatency: s.latencySnapshot(),
	}
	if total > 0 {
		snap.PagesPerSecond = float64(pages) / total.Seconds()
	}
	if docs > 0 {
		snap.AvgDocTimeMs = float64(total.Milliseconds()) / float64(docs)
	}
	return snap
}

func (s *Stats) latencySnapshot() LatencySnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return LatencySnapshot{}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		ms := sm.duration.Milliseconds()
		values = append(values, ms)
		sum += ms
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return LatencySnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
