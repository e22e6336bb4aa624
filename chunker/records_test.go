package chunker

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pagesmith/pdfchunk/internal/docmeta"
)

func TestRecords_FillsPositionalMeta(t *testing.T) {
	chunks := []Chunk{
		{Text: "first\n", TokenCount: 6, StartPage: 0, EndPage: 2, HasMajorHeading: true, MinHeadingLevel: 1},
		{Text: "second\n", TokenCount: 7, StartPage: 2, EndPage: 2, MinHeadingLevel: noHeadingLevel, OverlapText: "t\n", OverlapTokens: 2},
	}
	origin := docmeta.Origin{Mimetype: "application/pdf", BinaryHash: 42, Filename: "doc.pdf"}

	recs := Records(chunks, origin)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	first := recs[0].Meta
	if first.StartPage != 0 || first.EndPage != 2 || first.PageCount != 3 {
		t.Errorf("expected pages 0-2 count 3, got %d-%d count %d", first.StartPage, first.EndPage, first.PageCount)
	}
	if first.ChunkIndex != 0 || first.TotalChunks != 2 {
		t.Errorf("expected index 0 of 2, got %d of %d", first.ChunkIndex, first.TotalChunks)
	}
	if !first.HasMajorHeading || first.MinHeadingLevel != 1 {
		t.Errorf("expected heading metadata carried over, got level %d", first.MinHeadingLevel)
	}
	if first.Origin.Filename != "doc.pdf" {
		t.Errorf("expected origin filename doc.pdf, got %q", first.Origin.Filename)
	}

	second := recs[1].Meta
	if second.ChunkIndex != 1 {
		t.Errorf("expected index 1, got %d", second.ChunkIndex)
	}
	if second.MinHeadingLevel != noHeadingLevel {
		t.Errorf("expected sentinel heading level, got %d", second.MinHeadingLevel)
	}
	if second.OverlapTokens != 2 {
		t.Errorf("expected 2 overlap tokens, got %d", second.OverlapTokens)
	}
}

func TestRecords_JSONShape(t *testing.T) {
	chunks := []Chunk{{Text: "body\n", TokenCount: 5, MinHeadingLevel: noHeadingLevel}}
	origin := docmeta.Origin{Mimetype: "text/plain", BinaryHash: 7, Filename: "a.txt"}

	data, err := json.Marshal(Records(chunks, origin))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"schema_name":"docling_core.transforms.chunker.DocMeta"`,
		`"version":"1.0.0"`,
		`"doc_items":[]`,
		`"headings":[]`,
		`"captions":null`,
		`"uri":null`,
		`"min_heading_level":999`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized record missing %s:\n%s", want, out)
		}
	}
	// Zero overlap stays out of the record entirely.
	if strings.Contains(out, "overlap_tokens") {
		t.Errorf("expected overlap_tokens omitted at zero:\n%s", out)
	}
}
