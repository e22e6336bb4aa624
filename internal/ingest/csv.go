package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// rowsPerPage groups sheet rows into pages small enough to chunk cleanly.
const rowsPerPage = 20

// parseCSV renders each batch of rows as a page: a headers line, then one
// "header: value, ..." line per row.
func parseCSV(r io.Reader) ([]Page, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := records[0]
	rows := records[1:]

	var pages []Page
	for start := 0; start < len(rows); start += rowsPerPage {
		end := min(start+rowsPerPage, len(rows))

		var b strings.Builder
		b.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		for _, row := range rows[start:end] {
			for j, cell := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				if j < len(headers) {
					b.WriteString(headers[j] + ": " + cell)
				} else {
					b.WriteString(cell)
				}
			}
			b.WriteByte('\n')
		}
		pages = append(pages, Page{Number: len(pages), Text: b.String()})
	}
	return pages, nil
}
