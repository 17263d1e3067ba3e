package sheet

import "strings"

// Row represents a single record keyed by column name. Cell values are
// stored as strings; an empty string marks a missing cell.
type Row map[string]string

// Collection is an ordered sequence of rows sharing a column schema.
// The schema is the union of the columns of every sheet that contributed
// rows, in first-seen order.
type Collection struct {
	Columns  []string
	Rows     []Row
	IDColumn string
}

// NewCollection creates an empty collection keyed on the given identifier column.
func NewCollection(idColumn string) *Collection {
	return &Collection{IDColumn: idColumn}
}

// AddColumns extends the schema with any columns not yet present,
// preserving first-seen order. Blank column names are ignored.
func (c *Collection) AddColumns(cols []string) {
	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		seen[col] = true
	}
	for _, col := range cols {
		if col == "" || seen[col] {
			continue
		}
		c.Columns = append(c.Columns, col)
		seen[col] = true
	}
}

// Append adds rows to the end of the collection, preserving order.
func (c *Collection) Append(rows ...Row) {
	c.Rows = append(c.Rows, rows...)
}

// Len returns the number of rows in the collection.
func (c *Collection) Len() int {
	return len(c.Rows)
}

// Normalize standardizes an identifier value for comparison: leading and
// trailing whitespace is stripped. Case is preserved.
func Normalize(v string) string {
	return strings.TrimSpace(v)
}

// NormalizeIDColumn rewrites the identifier column of every row in place.
func (c *Collection) NormalizeIDColumn() {
	for _, row := range c.Rows {
		row[c.IDColumn] = Normalize(row[c.IDColumn])
	}
}
