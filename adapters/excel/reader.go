package excel

import (
	"bytes"
	"log"
	"strings"

	"dupfinder/domain/sheet"
	"dupfinder/internal/errors"

	"github.com/xuri/excelize/v2"
)

// SheetNames returns the sheet names declared in a workbook, in file order.
// Invalid workbook bytes yield a nil slice and a PARSE_ERROR.
func SheetNames(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseFailed(err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// HeaderColumns returns the trimmed header cells of one sheet, read from the
// given 0-based header row. Used to populate column pickers without loading
// the full sheet.
func HeaderColumns(data []byte, sheetName string, headerRow int) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseFailed(err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheetName)
	}
	if headerRow < 0 {
		headerRow = 0
	}
	if headerRow >= len(rows) {
		return nil, nil
	}

	headers := make([]string, 0, len(rows[headerRow]))
	for _, h := range rows[headerRow] {
		if trimmed := strings.TrimSpace(h); trimmed != "" {
			headers = append(headers, trimmed)
		}
	}
	return headers, nil
}

// LoadSheets reads the requested sheets from a workbook and concatenates them
// into one collection, in the order the sheet names are given. Sheets that are
// missing, unreadable, or lacking the identifier column are skipped with a
// warning. Identifier values are normalized (string cast + whitespace trim)
// in place. Retaining zero rows across all requested sheets is the single
// fatal load condition and yields a NO_USABLE_DATA error alongside the empty
// collection.
func LoadSheets(data []byte, sheets []string, idColumn string, headerRow int, r sheet.Reporter) (*sheet.Collection, error) {
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("at least one sheet must be selected")
	}
	if idColumn == "" {
		return nil, errors.InvalidInput("identifier column is required")
	}
	if headerRow < 0 {
		headerRow = 0
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		sheet.Errorf(r, "Error reading workbook: %v", err)
		return nil, errors.ParseFailed(err)
	}
	defer f.Close()

	available := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		available[name] = true
	}

	out := sheet.NewCollection(idColumn)
	for _, name := range sheets {
		if !available[name] {
			sheet.Warnf(r, "Sheet '%s' not found in the file. Skipping.", name)
			continue
		}

		rows, err := f.GetRows(name)
		if err != nil {
			sheet.Warnf(r, "Failed to read sheet '%s': %v. Skipping.", name, err)
			continue
		}

		headers, records := parseSheet(rows, headerRow)
		if !containsColumn(headers, idColumn) {
			sheet.Warnf(r, "Column '%s' not found in sheet '%s'. Skipping this sheet.", idColumn, name)
			continue
		}

		for _, rec := range records {
			rec[idColumn] = sheet.Normalize(rec[idColumn])
		}
		out.AddColumns(headers)
		out.Append(records...)
		sheet.Infof(r, "Loaded %d rows from sheet '%s'.", len(records), name)
	}

	if out.Len() == 0 {
		sheet.Errorf(r, "No usable rows found. Check that column '%s' exists in the selected sheets.", idColumn)
		return out, errors.NoUsableData("no rows retained from the selected sheets")
	}

	log.Printf("[LoadSheets] Loaded %d rows across %d columns", out.Len(), len(out.Columns))
	return out, nil
}

// parseSheet converts a raw cell grid into records using the given header row.
// Rows above the header row are ignored. Every cell is trimmed; cells beyond
// the header width are dropped and short rows are padded with empty strings.
func parseSheet(rows [][]string, headerRow int) ([]string, []sheet.Row) {
	if headerRow >= len(rows) {
		return nil, nil
	}

	raw := rows[headerRow]
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = strings.TrimSpace(h)
	}

	var records []sheet.Row
	for _, cells := range rows[headerRow+1:] {
		rec := make(sheet.Row, len(headers))
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(cells) {
				rec[h] = strings.TrimSpace(cells[j])
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}

	return headers, records
}

func containsColumn(headers []string, col string) bool {
	for _, h := range headers {
		if h == col {
			return true
		}
	}
	return false
}
