package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "A1", Normalize(" A1 "))
	assert.Equal(t, "A1", Normalize("A1"))
	assert.Equal(t, "a1", Normalize("a1"), "case is preserved")
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "b2", Normalize("\tb2\n"))
}

func TestAddColumnsUnionPreservesOrder(t *testing.T) {
	c := NewCollection("ID")
	c.AddColumns([]string{"ID", "Name"})
	c.AddColumns([]string{"Name", "Notes", "", "ID", "Extra"})

	assert.Equal(t, []string{"ID", "Name", "Notes", "Extra"}, c.Columns)
}

func TestNormalizeIDColumn(t *testing.T) {
	c := NewCollection("ID")
	c.AddColumns([]string{"ID", "Name"})
	c.Append(
		Row{"ID": " A1 ", "Name": " keep padding "},
		Row{"ID": "B2", "Name": "Bob"},
	)

	c.NormalizeIDColumn()

	assert.Equal(t, "A1", c.Rows[0]["ID"])
	assert.Equal(t, " keep padding ", c.Rows[0]["Name"], "only the identifier column is rewritten")
	assert.Equal(t, "B2", c.Rows[1]["ID"])
}

func TestLogReporter(t *testing.T) {
	l := &Log{}
	Infof(l, "loaded %d rows", 3)
	Warnf(l, "sheet %q missing", "Extra")
	Successf(l, "done")

	assert.Len(t, l.Messages, 3)
	assert.Equal(t, SeverityInfo, l.Messages[0].Severity)
	assert.Equal(t, "loaded 3 rows", l.Messages[0].Text)
	assert.True(t, l.HasSeverity(SeverityWarning))
	assert.False(t, l.HasSeverity(SeverityError))

	// A nil reporter is a no-op, not a panic.
	Errorf(nil, "ignored")
}
