// Package cli implements the pdfchunk command tree: the root chunking run
// plus the batch, parse, and serve subcommands.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pagesmith/pdfchunk/chunker"
	"github.com/pagesmith/pdfchunk/internal/extract"
	"github.com/pagesmith/pdfchunk/internal/ingest"
	"github.com/pagesmith/pdfchunk/internal/version"
	"github.com/spf13/cobra"
)

var inputPath string
var outputPath string
var maxChunkSize int
var minChunkSize int
var overlapTokens int
var pageLimit int
var threadCount int
var verbose bool
var quiet bool
var noAnalyze bool
var enrichHeadings bool
var exactTokens bool

var rootCmd = &cobra.Command{
	Use:   "pdfchunk",
	Short: "Chunk PDF documents into token-bounded passages",
	Long: `pdfchunk extracts text from PDF and text documents in parallel and packs
it into ordered, heading-aware chunks bounded by a token budget. Chunks are
written as docling-compatible JSON records ready for embedding pipelines.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChunk(cmd)
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pdfchunk %s\n", version.String()))

	// Unknown or malformed flags are argument errors, not runtime failures;
	// wrapping them keeps the exit code mapping in one place.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", chunker.ErrInvalidOptions, err)
	})

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&maxChunkSize, "max-chunk-size", chunker.DefaultMaxTokens, "Maximum tokens per chunk")
	pf.IntVar(&minChunkSize, "min-chunk-size", chunker.DefaultMinTokens, "Minimum tokens before a chunk is merged with a neighbor")
	pf.IntVar(&overlapTokens, "overlap", 0, "Tokens of trailing context repeated from the previous chunk")
	pf.IntVar(&pageLimit, "page-limit", 0, "Stop after this many pages (0 = all)")
	pf.IntVar(&threadCount, "threads", 0, "Extraction worker count (0 = all CPUs)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output and non-error logs")
	pf.BoolVar(&enrichHeadings, "enrich-headings", false, "Detect numbered and all-caps headings beyond markdown #")
	pf.BoolVar(&exactTokens, "exact-tokens", false, "Count tokens with the full cl100k_base codec instead of the embedded vocabulary")

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input document (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default <stem>_chunks.json)")
	rootCmd.Flags().BoolVar(&noAnalyze, "no-analyze", false, "Skip the chunk distribution report")
}

// Execute runs the command tree and maps the outcome to a process exit
// code: 0 success, 1 bad argument or document failure, 2 runtime error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, chunker.ErrInvalidOptions),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, extract.ErrCorrupt),
		errors.Is(err, ingest.ErrUnsupported):
		return 1
	default:
		return 2
	}
}

func chunkOptions() chunker.Options {
	return chunker.Options{
		MaxTokens:      maxChunkSize,
		MinTokens:      minChunkSize,
		OverlapTokens:  overlapTokens,
		Threads:        threadCount,
		EnrichHeadings: enrichHeadings,
		ExactTokens:    exactTokens,
	}
}

// newLogger builds the JSON logger on stderr so stdout stays clean for the
// report and any piped output.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runChunk(cmd *cobra.Command) error {
	if inputPath == "" {
		return fmt.Errorf("%w: missing required flag --input", chunker.ErrInvalidOptions)
	}
	out := outputPath
	if out == "" {
		out = stem(inputPath) + "_chunks.json"
	}

	log := newLogger()
	ck, err := chunker.New(chunkOptions(), log)
	if err != nil {
		return err
	}
	defer ck.Close()

	w := cmd.OutOrStdout()
	if !quiet {
		FormatProcessing(w, inputPath, workerCount(threadCount), ck.Options(), pageLimit)
	}

	res, err := ck.ChunkToFile(inputPath, out, pageLimit)
	if err != nil {
		return err
	}

	if !quiet && !noAnalyze {
		FormatDistribution(w, res.Chunks, minChunkSize)
	}
	if !quiet {
		FormatResults(w, res, out)
	}
	return nil
}

func workerCount(threads int) int {
	if threads > 0 {
		return threads
	}
	return runtime.NumCPU()
}

// stem returns the input filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
