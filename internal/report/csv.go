// Package report serializes a match result into the exported artifact: a
// UTF-8 comma-separated file with a header row and no index column.
package report

import (
	"bytes"
	"encoding/csv"

	"dupfinder/domain/sheet"
	"dupfinder/internal/errors"
)

// WriteCSV renders the collection as CSV bytes. The header row is the
// collection's column schema in order; missing cells are written as empty
// fields.
func WriteCSV(c *sheet.Collection) ([]byte, error) {
	if c == nil {
		return nil, errors.InvalidInput("collection is required")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(c.Columns); err != nil {
		return nil, errors.Wrap(err, "failed to write CSV header")
	}

	record := make([]string, len(c.Columns))
	for _, row := range c.Rows {
		for i, col := range c.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(err, "failed to write CSV row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush CSV output")
	}
	return buf.Bytes(), nil
}
