package ingest

import (
	"fmt"
	"io"
	"strings"
)

// parseText pages plain text on form feeds. Files without any are one page.
func parseText(r io.Reader) ([]Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read text: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	parts := strings.Split(string(data), "\f")
	pages := make([]Page, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, Page{Number: i, Text: part})
	}
	return pages, nil
}
