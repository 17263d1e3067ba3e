// Package compare implements the duplicate-detection core: a fast membership
// set built from the second collection, a chunked scan of the first, and a
// left-join enrichment of every matched row.
//
// The routine is deterministic: output order follows the first collection's
// row order, and within one matched row the fan-out follows the second
// collection's row order. Chunk size is purely a progress-reporting and
// memory-locality knob and never changes the output.
package compare

import (
	"log"

	"dupfinder/domain/sheet"
	"dupfinder/internal/errors"
)

// DefaultChunkSize is the batch granularity used when the caller does not
// supply one.
const DefaultChunkSize = 500

// Suffixes appended to column names present in both collections, marking the
// originating file.
const (
	SuffixFirst  = "_File1"
	SuffixSecond = "_File2"
)

// Config controls batch granularity and observability of a comparison.
type Config struct {
	// ChunkSize is the number of first-collection rows scanned per batch.
	// Values below 1 fall back to DefaultChunkSize.
	ChunkSize int

	// Progress, when set, is called after each chunk with the number of
	// first-collection rows processed so far and the total row count.
	Progress func(processed, total int)

	// Reporter receives info/success messages describing the run.
	Reporter sheet.Reporter
}

// Result is the outcome of a comparison. An empty Matches collection with a
// nil error is the normal zero-match terminal state, not a failure.
type Result struct {
	Matches     *sheet.Collection
	LookupSize  int
	RowsScanned int
	Matched     int
}

// FindDuplicates returns every row of first whose normalized identifier also
// appears in second's identifier column, enriched with the fields of each
// second-collection row sharing that identifier. Duplicate identifiers in
// second fan out to one output row per occurrence. Rows with a missing or
// empty identifier never match. Identifier values are re-normalized
// defensively in case the collections were built without the loader.
func FindDuplicates(first, second *sheet.Collection, cfg Config) (*Result, error) {
	if first == nil || second == nil {
		return nil, errors.InvalidInput("both collections are required")
	}
	if first.IDColumn == "" || second.IDColumn == "" {
		return nil, errors.InvalidInput("identifier column is required for both collections")
	}

	chunkSize := cfg.ChunkSize
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}

	// The index keys double as the lookup set; values are second-collection
	// row indices in original order, driving the join fan-out.
	index := buildIndex(second)
	sheet.Infof(cfg.Reporter, "Created a lookup set with %d unique IDs from the second file.", len(index))

	renameFirst, renameSecond := outputSchema(first, second)

	out := sheet.NewCollection(renameFirst[first.IDColumn])
	out.AddColumns(renamedColumns(first.Columns, renameFirst))
	out.AddColumns(renamedColumns(second.Columns, renameSecond))

	total := len(first.Rows)
	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}

		for _, row := range first.Rows[start:end] {
			id := sheet.Normalize(row[first.IDColumn])
			if id == "" {
				continue
			}
			matches, ok := index[id]
			if !ok {
				continue
			}
			for _, si := range matches {
				out.Append(mergeRows(row, second.Rows[si], renameFirst, renameSecond))
			}
		}

		if cfg.Progress != nil {
			cfg.Progress(end, total)
		}
	}

	result := &Result{
		Matches:     out,
		LookupSize:  len(index),
		RowsScanned: total,
		Matched:     out.Len(),
	}

	if result.Matched == 0 {
		sheet.Successf(cfg.Reporter, "Comparison complete. No duplicates were found.")
	} else {
		sheet.Successf(cfg.Reporter, "Comparison complete. Found %d duplicate records.", result.Matched)
	}
	log.Printf("[FindDuplicates] Scanned %d rows against %d unique IDs, matched %d", total, len(index), result.Matched)

	return result, nil
}

// buildIndex maps each normalized identifier of the second collection to the
// ordered indices of the rows carrying it. Missing identifiers are excluded.
func buildIndex(second *sheet.Collection) map[string][]int {
	index := make(map[string][]int)
	for i, row := range second.Rows {
		id := sheet.Normalize(row[second.IDColumn])
		if id == "" {
			continue
		}
		index[id] = append(index[id], i)
	}
	return index
}

// outputSchema computes the per-collection column renames for the merged
// output. A column keeps its name unless it exists in both collections, in
// which case it is suffixed with its origin.
func outputSchema(first, second *sheet.Collection) (renameFirst, renameSecond map[string]string) {
	inFirst := make(map[string]bool, len(first.Columns))
	for _, col := range first.Columns {
		inFirst[col] = true
	}
	inSecond := make(map[string]bool, len(second.Columns))
	for _, col := range second.Columns {
		inSecond[col] = true
	}

	renameFirst = make(map[string]string, len(first.Columns))
	for _, col := range first.Columns {
		if inSecond[col] {
			renameFirst[col] = col + SuffixFirst
		} else {
			renameFirst[col] = col
		}
	}

	renameSecond = make(map[string]string, len(second.Columns))
	for _, col := range second.Columns {
		if inFirst[col] {
			renameSecond[col] = col + SuffixSecond
		} else {
			renameSecond[col] = col
		}
	}

	return renameFirst, renameSecond
}

func renamedColumns(cols []string, rename map[string]string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = rename[col]
	}
	return out
}

// mergeRows joins one matched pair into a single output row, first-collection
// fields before second-collection fields, using the precomputed renames.
func mergeRows(a, b sheet.Row, renameFirst, renameSecond map[string]string) sheet.Row {
	merged := make(sheet.Row, len(a)+len(b))
	for col, v := range a {
		if name, ok := renameFirst[col]; ok {
			merged[name] = v
		} else {
			merged[col] = v
		}
	}
	for col, v := range b {
		if name, ok := renameSecond[col]; ok {
			merged[name] = v
		} else {
			merged[col] = v
		}
	}
	return merged
}
