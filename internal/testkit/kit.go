// Package testkit builds in-memory workbook fixtures for tests.
package testkit

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named cell grid used to build workbook fixtures. The first row
// is conventionally the header row unless the test says otherwise.
type Sheet struct {
	Name string
	Rows [][]string
}

// WorkbookBytes builds an xlsx workbook in memory from the given sheets, in
// order. The first sheet replaces excelize's default "Sheet1".
func WorkbookBytes(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("at least one sheet is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, fmt.Errorf("failed to rename default sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(s.Name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %q: %w", s.Name, err)
			}
		}

		for r, cells := range s.Rows {
			ref, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			row := cells
			if err := f.SetSheetRow(s.Name, ref, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d of sheet %q: %w", r+1, s.Name, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SequentialIDs returns count identifiers of the form ID-0000, ID-0001, ...
// starting at start.
func SequentialIDs(start, count int) []string {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = fmt.Sprintf("ID-%04d", start+i)
	}
	return ids
}

// IDSheet builds a sheet holding an identifier column plus one payload column,
// one row per identifier.
func IDSheet(name, idColumn string, ids []string) Sheet {
	rows := make([][]string, 0, len(ids)+1)
	rows = append(rows, []string{idColumn, "Payload"})
	for i, id := range ids {
		rows = append(rows, []string{id, fmt.Sprintf("p-%d", i)})
	}
	return Sheet{Name: name, Rows: rows}
}
