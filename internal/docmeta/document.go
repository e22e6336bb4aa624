package docmeta

import "github.com/pagesmith/pdfchunk/internal/extract"

// Document is the parse-mode output: the extraction tree plus origin and
// outline metadata, without any chunking applied.
type Document struct {
	Content Content      `json:"content"`
	Meta    DocumentMeta `json:"meta"`
}

// Content holds the per-page extraction tree.
type Content struct {
	Pages []PageContent `json:"pages"`
}

// PageContent is one page: its blocks, or the error that replaced them.
type PageContent struct {
	PageNumber int             `json:"page_number"`
	Blocks     []extract.Block `json:"blocks"`
	Error      string          `json:"error,omitempty"`
}

// DocumentMeta mirrors the chunk Meta identity fields at document scope.
type DocumentMeta struct {
	SchemaName string    `json:"schema_name"`
	Version    string    `json:"version"`
	PageCount  int       `json:"page_count"`
	Origin     Origin    `json:"origin"`
	Headings   []Heading `json:"headings"`
	Captions   any       `json:"captions"`
}

// BuildDocument assembles the parse-mode document from extracted pages.
// Failed pages stay in the output with their error string so page numbering
// remains contiguous for the reader.
func BuildDocument(pages []extract.PageResult, origin Origin) Document {
	content := Content{Pages: make([]PageContent, 0, len(pages))}
	for _, pr := range pages {
		pc := PageContent{PageNumber: pr.PageNumber, Blocks: pr.Blocks}
		if pc.Blocks == nil {
			pc.Blocks = []extract.Block{}
		}
		if pr.Failed() {
			pc.Error = pr.Err.Error()
		}
		content.Pages = append(content.Pages, pc)
	}

	headings := Outline(pages)
	if headings == nil {
		headings = []Heading{}
	}

	return Document{
		Content: content,
		Meta: DocumentMeta{
			SchemaName: SchemaName,
			Version:    SchemaVersion,
			PageCount:  len(pages),
			Origin:     origin,
			Headings:   headings,
		},
	}
}
