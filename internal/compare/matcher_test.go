package compare

import (
	"fmt"
	"testing"

	"dupfinder/domain/sheet"
	"dupfinder/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeCollection builds a collection from a header slice and cell grids.
func makeCollection(idCol string, cols []string, rows ...[]string) *sheet.Collection {
	c := sheet.NewCollection(idCol)
	c.AddColumns(cols)
	for _, cells := range rows {
		row := make(sheet.Row, len(cols))
		for i, col := range cols {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		c.Append(row)
	}
	return c
}

func TestFindDuplicatesBasicMatch(t *testing.T) {
	first := makeCollection("ID", []string{"ID", "Name"},
		[]string{"A1", "Alice"},
		[]string{"B2", "Bob"},
		[]string{"C3", "Carol"},
	)
	second := makeCollection("Ref", []string{"Ref", "Status"},
		[]string{"B2", "allocated"},
		[]string{"C3", "pending"},
		[]string{"D4", "allocated"},
	)

	res, err := FindDuplicates(first, second, Config{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 3, res.RowsScanned)
	assert.Equal(t, 3, res.LookupSize)
	require.Len(t, res.Matches.Rows, 2)

	assert.Equal(t, "Bob", res.Matches.Rows[0]["Name"])
	assert.Equal(t, "allocated", res.Matches.Rows[0]["Status"])
	assert.Equal(t, "Carol", res.Matches.Rows[1]["Name"])
	assert.Equal(t, "pending", res.Matches.Rows[1]["Status"])
}

func TestFindDuplicatesChunkSizeInvariance(t *testing.T) {
	var firstRows, secondRows [][]string
	for i := 0; i < 100; i++ {
		firstRows = append(firstRows, []string{fmt.Sprintf("ID-%03d", i), fmt.Sprintf("left-%d", i)})
	}
	for i := 50; i < 150; i += 3 {
		secondRows = append(secondRows, []string{fmt.Sprintf("ID-%03d", i), fmt.Sprintf("right-%d", i)})
	}

	baseline, err := FindDuplicates(
		makeCollection("ID", []string{"ID", "Left"}, firstRows...),
		makeCollection("ID", []string{"ID", "Right"}, secondRows...),
		Config{ChunkSize: 500},
	)
	require.NoError(t, err)
	require.Greater(t, baseline.Matched, 0)

	for _, chunkSize := range []int{1, 3, 7, 100, 10000} {
		res, err := FindDuplicates(
			makeCollection("ID", []string{"ID", "Left"}, firstRows...),
			makeCollection("ID", []string{"ID", "Right"}, secondRows...),
			Config{ChunkSize: chunkSize},
		)
		require.NoError(t, err)
		assert.Equal(t, baseline.Matches.Columns, res.Matches.Columns, "chunk size %d changed columns", chunkSize)
		assert.Equal(t, baseline.Matches.Rows, res.Matches.Rows, "chunk size %d changed rows", chunkSize)
	}
}

func TestFindDuplicatesExcludesNonMembers(t *testing.T) {
	first := makeCollection("ID", []string{"ID"},
		[]string{"X1"},
		[]string{"X2"},
		[]string{"X3"},
	)
	second := makeCollection("ID", []string{"ID"},
		[]string{"X2"},
	)

	res, err := FindDuplicates(first, second, Config{})
	require.NoError(t, err)

	require.Len(t, res.Matches.Rows, 1)
	for _, row := range res.Matches.Rows {
		assert.NotEqual(t, "X1", row[res.Matches.IDColumn])
		assert.NotEqual(t, "X3", row[res.Matches.IDColumn])
	}
}

func TestFindDuplicatesFanOutOnDuplicateIdentifiers(t *testing.T) {
	first := makeCollection("ID", []string{"ID", "Name"},
		[]string{"A7", "Alice"},
	)
	second := makeCollection("ID", []string{"ID", "Site"},
		[]string{"A7", "north"},
		[]string{"A7", "south"},
	)

	res, err := FindDuplicates(first, second, Config{})
	require.NoError(t, err)

	require.Len(t, res.Matches.Rows, 2)
	assert.Equal(t, "Alice", res.Matches.Rows[0]["Name"])
	assert.Equal(t, "north", res.Matches.Rows[0]["Site"])
	assert.Equal(t, "Alice", res.Matches.Rows[1]["Name"])
	assert.Equal(t, "south", res.Matches.Rows[1]["Site"])
	// Duplicates collapse in the lookup set.
	assert.Equal(t, 1, res.LookupSize)
}

func TestFindDuplicatesNormalizationTrimsButKeepsCase(t *testing.T) {
	first := makeCollection("ID", []string{"ID"},
		[]string{" A1 "},
		[]string{"a1"},
	)
	second := makeCollection("ID", []string{"ID"},
		[]string{"A1"},
	)

	res, err := FindDuplicates(first, second, Config{})
	require.NoError(t, err)

	// " A1 " matches "A1" after trimming; "a1" does not (case is preserved).
	require.Len(t, res.Matches.Rows, 1)
	assert.Equal(t, "A1", sheet.Normalize(res.Matches.Rows[0][res.Matches.IDColumn]))
}

func TestFindDuplicatesEmptyIdentifierNeverMatches(t *testing.T) {
	first := makeCollection("ID", []string{"ID", "Name"},
		[]string{"", "blank"},
		[]string{"   ", "spaces"},
		[]string{"K9", "keep"},
	)
	second := makeCollection("ID", []string{"ID"},
		[]string{""},
		[]string{"  "},
		[]string{"K9"},
	)

	res, err := FindDuplicates(first, second, Config{})
	require.NoError(t, err)

	require.Len(t, res.Matches.Rows, 1)
	assert.Equal(t, "keep", res.Matches.Rows[0]["Name"])
	assert.Equal(t, 1, res.LookupSize)
}

func TestFindDuplicatesEmptyFirstCollection(t *testing.T) {
	first := makeCollection("ID", []string{"ID"})
	second := makeCollection("ID", []string{"ID"}, []string{"A1"})

	reporter := &sheet.Log{}
	res, err := FindDuplicates(first, second, Config{Reporter: reporter})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Matched)
	assert.Empty(t, res.Matches.Rows)
	assert.True(t, reporter.HasSeverity(sheet.SeveritySuccess),
		"zero matches is a normal terminal state, not an error")
}

func TestFindDuplicatesColumnCollisionSuffixes(t *testing.T) {
	first := makeCollection("ID", []string{"ID", "Name", "OnlyLeft"},
		[]string{"A1", "Alice", "l"},
	)
	second := makeCollection("ID", []string{"ID", "Name", "OnlyRight"},
		[]string{"A1", "Allocated Alice", "r"},
	)

	res, err := FindDuplicates(first, second, Config{})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"ID_File1", "Name_File1", "OnlyLeft", "ID_File2", "Name_File2", "OnlyRight"},
		res.Matches.Columns)
	assert.Equal(t, "ID_File1", res.Matches.IDColumn)

	require.Len(t, res.Matches.Rows, 1)
	row := res.Matches.Rows[0]
	assert.Equal(t, "Alice", row["Name_File1"])
	assert.Equal(t, "Allocated Alice", row["Name_File2"])
	assert.Equal(t, "l", row["OnlyLeft"])
	assert.Equal(t, "r", row["OnlyRight"])
}

func TestFindDuplicatesProgressReporting(t *testing.T) {
	var firstRows [][]string
	for i := 0; i < 25; i++ {
		firstRows = append(firstRows, []string{fmt.Sprintf("ID-%02d", i)})
	}
	first := makeCollection("ID", []string{"ID"}, firstRows...)
	second := makeCollection("ID", []string{"ID"}, []string{"ID-00"})

	type step struct{ processed, total int }
	var steps []step
	_, err := FindDuplicates(first, second, Config{
		ChunkSize: 10,
		Progress:  func(processed, total int) { steps = append(steps, step{processed, total}) },
	})
	require.NoError(t, err)

	assert.Equal(t, []step{{10, 25}, {20, 25}, {25, 25}}, steps)
}

func TestFindDuplicatesDefensiveNormalization(t *testing.T) {
	// Collections built without the loader may carry untrimmed identifiers.
	first := makeCollection("ID", []string{"ID"}, []string{"  Z9\t"})
	second := makeCollection("ID", []string{"ID"}, []string{"Z9  "})

	res, err := FindDuplicates(first, second, Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
}

func TestFindDuplicatesInvalidInput(t *testing.T) {
	_, err := FindDuplicates(nil, makeCollection("ID", []string{"ID"}), Config{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = FindDuplicates(makeCollection("", []string{"ID"}), makeCollection("ID", []string{"ID"}), Config{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
