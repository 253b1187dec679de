package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSVRecords parses CSV data into raw records keyed by header name,
// ready for Normalize. The first row is the header; header cells are trimmed
// but otherwise passed through so the alias table can match any supported
// casing. Rows shorter than the header are padded with empty cells; longer
// rows have their extra cells dropped.
func ReadCSVRecords(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []map[string]any
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		record := make(map[string]any, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				record[name] = row[i]
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}

	if records == nil {
		records = []map[string]any{}
	}
	return records, nil
}
