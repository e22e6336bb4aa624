// Package docmeta defines the docling-compatible JSON shapes the pipeline
// emits: chunk records for chunking runs, page documents for parse runs,
// and the origin block identifying the source file.
package docmeta

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Schema identity carried in every meta block. Consumers key on these to
// pick a parser.
const (
	SchemaName    = "docling_core.transforms.chunker.DocMeta"
	SchemaVersion = "1.0.0"
)

// Origin identifies the source document a record came from.
type Origin struct {
	Mimetype   string  `json:"mimetype"`
	BinaryHash uint64  `json:"binary_hash"`
	Filename   string  `json:"filename"`
	URI        *string `json:"uri"`
}

// Meta is the metadata block attached to one chunk record.
type Meta struct {
	SchemaName      string   `json:"schema_name"`
	Version         string   `json:"version"`
	StartPage       int      `json:"start_page"`
	EndPage         int      `json:"end_page"`
	PageCount       int      `json:"page_count"`
	ChunkIndex      int      `json:"chunk_index"`
	TotalChunks     int      `json:"total_chunks"`
	TokenCount      int      `json:"token_count"`
	HasMajorHeading bool     `json:"has_major_heading"`
	MinHeadingLevel int      `json:"min_heading_level"`
	OverlapTokens   int      `json:"overlap_tokens,omitempty"`
	Origin          Origin   `json:"origin"`
	DocItems        []any    `json:"doc_items"`
	Headings        []string `json:"headings"`
	Captions        any      `json:"captions"`
}

// Record is one chunk in the output file.
type Record struct {
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// BinaryHash digests data to the 64-bit figure carried in Origin.
func BinaryHash(data []byte) uint64 {
	sum := sha256.Sum256(data)
	return binary.BigEndian.Uint64(sum[:8])
}

// NewOrigin reads and hashes the file at path.
func NewOrigin(path string) (Origin, error) {
	f, err := os.Open(path)
	if err != nil {
		return Origin{}, fmt.Errorf("docmeta: origin: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Origin{}, fmt.Errorf("docmeta: hash %s: %w", path, err)
	}
	sum := h.Sum(nil)

	return Origin{
		Mimetype:   MimetypeFor(path),
		BinaryHash: binary.BigEndian.Uint64(sum[:8]),
		Filename:   filepath.Base(path),
	}, nil
}

// MimetypeFor maps a filename extension to its media type.
func MimetypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
