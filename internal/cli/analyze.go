package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pagesmith/pdfchunk/chunker"
)

var (
	// titleStyle for section headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted labels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for all-clear indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for below-threshold warnings
	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))
)

// tokenBuckets are the histogram ranges of the distribution report, keyed
// by inclusive upper bound.
var tokenBuckets = []struct {
	label string
	max   int
}{
	{"1-50", 50},
	{"51-100", 100},
	{"101-200", 200},
	{"201-300", 300},
	{"301-400", 400},
	{"401-500", 500},
	{"501-512", 512},
	{"513+", int(^uint(0) >> 1)},
}

// FormatProcessing renders the run banner before chunking starts.
func FormatProcessing(w io.Writer, path string, workers int, opts chunker.Options, pageLimit int) {
	fmt.Fprintf(w, "%s %s with %d threads\n", dimStyle.Render("Processing:"), path, workers)
	fmt.Fprintf(w, "%s max_tokens=%d, overlap=%d, min_tokens=%d\n",
		dimStyle.Render("Chunking:"), opts.MaxTokens, opts.OverlapTokens, opts.MinTokens)
	if pageLimit > 0 {
		fmt.Fprintf(w, "%s %d\n", dimStyle.Render("Page limit:"), pageLimit)
	}
}

// FormatDistribution renders the chunk token distribution: extremes,
// quintiles, a range histogram, and a below-minimum check.
func FormatDistribution(w io.Writer, chunks []chunker.Chunk, minTokens int) {
	if len(chunks) == 0 {
		fmt.Fprintln(w, "\nNo chunks created")
		return
	}

	counts := make([]int, len(chunks))
	sum := 0
	for i, c := range chunks {
		counts[i] = c.TokenCount
		sum += c.TokenCount
	}
	sort.Ints(counts)

	fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Chunk Distribution"))
	fmt.Fprintf(w, "Total chunks: %d\n", len(counts))
	fmt.Fprintf(w, "Min tokens: %d\n", counts[0])
	fmt.Fprintf(w, "Max tokens: %d\n", counts[len(counts)-1])
	fmt.Fprintf(w, "Average tokens: %d\n", sum/len(counts))

	fmt.Fprintf(w, "\n%s\n", dimStyle.Render("Quintiles:"))
	for p := 20; p <= 80; p += 20 {
		idx := (len(counts) - 1) * p / 100
		fmt.Fprintf(w, "  %dth percentile: %d tokens\n", p, counts[idx])
	}

	histogram := make([]int, len(tokenBuckets))
	for _, n := range counts {
		for i, b := range tokenBuckets {
			if n <= b.max {
				histogram[i]++
				break
			}
		}
	}
	fmt.Fprintf(w, "\n%s\n", dimStyle.Render("Token Range Distribution:"))
	for i, b := range tokenBuckets {
		if histogram[i] == 0 {
			continue
		}
		pct := float64(histogram[i]) * 100.0 / float64(len(counts))
		fmt.Fprintf(w, "  %s tokens: %d chunks (%.1f%%)\n", b.label, histogram[i], pct)
	}

	small := 0
	for _, n := range counts {
		if n < minTokens {
			small++
		}
	}
	if small > 0 {
		fmt.Fprintf(w, "\n%s %d chunks are below the minimum threshold of %d tokens\n",
			warnStyle.Render("WARNING:"), small, minTokens)
	} else {
		fmt.Fprintf(w, "\n%s All chunks meet the minimum threshold of %d tokens\n",
			successStyle.Render("SUCCESS:"), minTokens)
	}
}

// FormatResults renders the closing summary of a single-document run.
func FormatResults(w io.Writer, res *chunker.Result, outputPath string) {
	fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Results"))
	fmt.Fprintf(w, "Created %d chunks from %d pages\n", res.TotalChunks, res.TotalPages)
	fmt.Fprintf(w, "Total time: %dms\n", res.ProcessingTime.Milliseconds())
	fmt.Fprintf(w, "Performance: %.1f pages/second\n", pagesPerSecond(res.TotalPages, res.ProcessingTime))
	fmt.Fprintf(w, "Output: %s\n", outputPath)
}

// batchSummary aggregates a directory run for FormatBatchSummary.
type batchSummary struct {
	Files   int
	Failed  int
	Pages   int
	Chunks  int
	Elapsed time.Duration
}

// FormatBatchSummary renders the closing statistics of a batch run.
func FormatBatchSummary(w io.Writer, s batchSummary) {
	fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Processing Statistics"))
	fmt.Fprintf(w, "Documents processed: %d\n", s.Files-s.Failed)
	if s.Failed > 0 {
		fmt.Fprintf(w, "%s %d\n", warnStyle.Render("Documents failed:"), s.Failed)
	}
	fmt.Fprintf(w, "Pages processed: %d\n", s.Pages)
	fmt.Fprintf(w, "Chunks created: %d\n", s.Chunks)
	fmt.Fprintf(w, "Total time: %dms\n", s.Elapsed.Milliseconds())
	fmt.Fprintf(w, "Pages per second: %.1f\n", pagesPerSecond(s.Pages, s.Elapsed))
}

func pagesPerSecond(pages int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(pages) / secs
}
