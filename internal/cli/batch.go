package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagesmith/pdfchunk/chunker"
	"github.com/pagesmith/pdfchunk/internal/ingest"
	"github.com/spf13/cobra"
)

var batchDir string
var batchOutDir string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Chunk every supported document under a directory",
	Long: `Walk a directory recursively, chunk every supported document through one
shared worker pool, and write per-file <stem>_chunks.json outputs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd)
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "Directory to walk (required)")
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "out", "Directory for chunk outputs")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command) error {
	if batchDir == "" {
		return fmt.Errorf("%w: missing required flag --dir", chunker.ErrInvalidOptions)
	}

	files, err := collectDocuments(batchDir)
	if err != nil {
		return fmt.Errorf("walking %s: %w", batchDir, err)
	}
	w := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(w, "No supported documents found in %s\n", batchDir)
		return nil
	}
	if !quiet {
		fmt.Fprintf(w, "Found %d documents to process\n", len(files))
	}

	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	log := newLogger()
	ck, err := chunker.New(chunkOptions(), log)
	if err != nil {
		return err
	}
	defer ck.Close()

	start := time.Now()
	sum := batchSummary{Files: len(files)}
	for i, path := range files {
		out := filepath.Join(batchOutDir, stem(path)+"_chunks.json")
		res, err := ck.ChunkToFile(path, out, pageLimit)
		if err != nil {
			sum.Failed++
			log.Error("document failed", "path", path, "error", err)
			continue
		}
		sum.Pages += res.TotalPages
		sum.Chunks += res.TotalChunks
		if !quiet {
			fmt.Fprintf(w, "[%d/%d] Saved %d chunks to %s\n", i+1, len(files), res.TotalChunks, out)
		}
	}
	sum.Elapsed = time.Since(start)

	if !quiet {
		FormatBatchSummary(w, sum)
	}
	if sum.Failed == sum.Files {
		return fmt.Errorf("all %d documents failed", sum.Files)
	}
	return nil
}

// collectDocuments walks root recursively and returns every path with a
// supported extension, in walk order.
func collectDocuments(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".pdf" || ingest.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
