package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pagesmith/pdfchunk/chunker"
	"github.com/pagesmith/pdfchunk/internal/docmeta"
	"github.com/pagesmith/pdfchunk/internal/extract"
	"github.com/pagesmith/pdfchunk/internal/ingest"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid options", fmt.Errorf("bad flag: %w", chunker.ErrInvalidOptions), 1},
		{"missing file", fmt.Errorf("input: %w", fs.ErrNotExist), 1},
		{"corrupt document", fmt.Errorf("open: %w", extract.ErrCorrupt), 1},
		{"unsupported type", fmt.Errorf("load: %w", ingest.ErrUnsupported), 1},
		{"runtime error", errors.New("disk full"), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("expected exit code %d, got %d", tc.want, got)
			}
		})
	}
}

func TestStem(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"doc.pdf", "doc"},
		{"dir/sub/report.txt", "report"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
	}
	for _, tc := range cases {
		if got := stem(tc.in); got != tc.want {
			t.Errorf("stem(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestFormatDistribution_WarnsBelowMinimum(t *testing.T) {
	chunks := []chunker.Chunk{
		{TokenCount: 40},
		{TokenCount: 220},
		{TokenCount: 510},
	}
	var buf bytes.Buffer
	FormatDistribution(&buf, chunks, 150)
	out := buf.String()

	for _, want := range []string{
		"Total chunks: 3",
		"Min tokens: 40",
		"Max tokens: 510",
		"20th percentile",
		"1-50 tokens: 1 chunks",
		"WARNING:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDistribution_SuccessWhenAllAboveMinimum(t *testing.T) {
	chunks := []chunker.Chunk{{TokenCount: 200}, {TokenCount: 300}}
	var buf bytes.Buffer
	FormatDistribution(&buf, chunks, 150)

	if !strings.Contains(buf.String(), "SUCCESS:") {
		t.Errorf("expected success line, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "WARNING:") {
		t.Errorf("unexpected warning line:\n%s", buf.String())
	}
}

func TestFormatDistribution_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatDistribution(&buf, nil, 150)
	if !strings.Contains(buf.String(), "No chunks created") {
		t.Errorf("expected empty notice, got:\n%s", buf.String())
	}
}

func TestFormatResults(t *testing.T) {
	res := &chunker.Result{TotalPages: 4, TotalChunks: 7, ProcessingTime: 2 * time.Second}
	var buf bytes.Buffer
	FormatResults(&buf, res, "out.json")
	out := buf.String()

	if !strings.Contains(out, "Created 7 chunks from 4 pages") {
		t.Errorf("missing summary line:\n%s", out)
	}
	if !strings.Contains(out, "2.0 pages/second") {
		t.Errorf("missing throughput line:\n%s", out)
	}
	if !strings.Contains(out, "Output: out.json") {
		t.Errorf("missing output line:\n%s", out)
	}
}

func TestCollectDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.txt", "c.bin", "d.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "e.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := collectDocuments(dir)
	if err != nil {
		t.Fatalf("collectDocuments: %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("expected 4 supported documents, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if strings.HasSuffix(f, ".bin") {
			t.Errorf("unsupported file collected: %s", f)
		}
	}
}

func TestRootCommand_ChunksTextFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(in, []byte("Plain text body for the pipeline.\nSecond line.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "doc_chunks.json")

	rootCmd.SetArgs([]string{"-i", in, "-o", out, "-q"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	t.Cleanup(func() {
		inputPath, outputPath, quiet = "", "", false
	})

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var records []docmeta.Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected at least one chunk record")
	}
	if !strings.Contains(records[0].Text, "Plain text body") {
		t.Errorf("first record missing document text: %q", records[0].Text)
	}
}

func TestRootCommand_UnknownFlagIsArgumentError(t *testing.T) {
	rootCmd.SetArgs([]string{"--definitely-not-a-flag"})
	err := rootCmd.Execute()
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if !errors.Is(err, chunker.ErrInvalidOptions) {
		t.Errorf("expected an invalid-options error, got %v", err)
	}
	if got := exitCode(err); got != 1 {
		t.Errorf("expected exit code 1, got %d", got)
	}
}
