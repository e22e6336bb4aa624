package chunker

import "github.com/pagesmith/pdfchunk/internal/docmeta"

// Records maps chunks to docling chunk records for serialization. Indexes
// and totals are positional; doc_items and headings stay empty at chunk
// granularity, matching what docling chunk consumers expect.
func Records(chunks []Chunk, origin docmeta.Origin) []docmeta.Record {
	recs := make([]docmeta.Record, len(chunks))
	for i, ch := range chunks {
		recs[i] = docmeta.Record{
			Text: ch.Text,
			Meta: docmeta.Meta{
				SchemaName:      docmeta.SchemaName,
				Version:         docmeta.SchemaVersion,
				StartPage:       ch.StartPage,
				EndPage:         ch.EndPage,
				PageCount:       ch.EndPage - ch.StartPage + 1,
				ChunkIndex:      i,
				TotalChunks:     len(chunks),
				TokenCount:      ch.TokenCount,
				HasMajorHeading: ch.HasMajorHeading,
				MinHeadingLevel: ch.MinHeadingLevel,
				OverlapTokens:   ch.OverlapTokens,
				Origin:          origin,
				DocItems:        []any{},
				Headings:        []string{},
			},
		}
	}
	return recs
}
