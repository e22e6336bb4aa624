package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pagesmith/pdfchunk/chunker"
	"github.com/pagesmith/pdfchunk/internal/docmeta"
	"github.com/pagesmith/pdfchunk/internal/extract"
	"github.com/pagesmith/pdfchunk/internal/ingest"
	"github.com/spf13/cobra"
)

var parseInput string
var parseOutput string
var withPositions bool
var withFonts bool

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract a PDF's page tree without chunking",
	Long: `Extract every page of a PDF in parallel and write the raw structure as a
docling-style document: pages, blocks, lines, and optionally per-glyph
positions and fonts. No chunking is performed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseInput, "input", "i", "", "Input PDF (required)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Output file (default <stem>_parsed.json)")
	parseCmd.Flags().BoolVar(&withPositions, "positions", false, "Keep per-glyph bounding boxes")
	parseCmd.Flags().BoolVar(&withFonts, "fonts", false, "Keep per-glyph font name and size")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command) error {
	if parseInput == "" {
		return fmt.Errorf("%w: missing required flag --input", chunker.ErrInvalidOptions)
	}
	if ext := strings.ToLower(filepath.Ext(parseInput)); ext != ".pdf" {
		return fmt.Errorf("parse needs a PDF input: %w: %s", ingest.ErrUnsupported, ext)
	}
	out := parseOutput
	if out == "" {
		out = stem(parseInput) + "_parsed.json"
	}

	log := newLogger()
	driver := extract.NewDriver(extract.Config{
		Workers: threadCount,
		Extract: extract.Options{
			Spans: withPositions || withFonts,
			Fonts: withFonts,
		},
	}, log)
	defer driver.Close()

	var pages []extract.PageResult
	err := driver.ParseStreaming(parseInput, func(res extract.PageResult) bool {
		pages = append(pages, res)
		return pageLimit <= 0 || len(pages) < pageLimit
	})
	if err != nil {
		return err
	}

	origin, err := docmeta.NewOrigin(parseInput)
	if err != nil {
		return err
	}
	doc := docmeta.BuildDocument(pages, origin)
	if err := docmeta.WriteFile(out, doc); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d pages to %s\n", len(pages), out)
	}
	return nil
}
