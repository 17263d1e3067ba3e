// Package profile computes per-column summaries of a loaded collection,
// shown to the user before a comparison so column picks can be sanity-checked.
package profile

import (
	"strconv"

	"dupfinder/domain/sheet"

	"github.com/montanaflynn/stats"
)

// numericThreshold is the share of non-empty values that must parse as
// numbers before a column is summarized numerically.
const numericThreshold = 0.8

// ColumnProfile summarizes one column of a collection.
type ColumnProfile struct {
	Name        string  `json:"name"`
	NonEmpty    int     `json:"non_empty"`
	MissingRate float64 `json:"missing_rate"`
	UniqueCount int     `json:"unique_count"`
	Numeric     bool    `json:"numeric"`
	Mean        float64 `json:"mean,omitempty"`
	StdDev      float64 `json:"std_dev,omitempty"`
	Min         float64 `json:"min,omitempty"`
	Max         float64 `json:"max,omitempty"`
}

// Collection profiles every column of c, in schema order.
func Collection(c *sheet.Collection) []ColumnProfile {
	if c == nil || len(c.Columns) == 0 {
		return nil
	}

	profiles := make([]ColumnProfile, 0, len(c.Columns))
	for _, col := range c.Columns {
		profiles = append(profiles, column(c, col))
	}
	return profiles
}

func column(c *sheet.Collection, col string) ColumnProfile {
	p := ColumnProfile{Name: col}

	unique := make(map[string]bool)
	var numeric []float64
	for _, row := range c.Rows {
		v := row[col]
		if v == "" {
			continue
		}
		p.NonEmpty++
		unique[v] = true
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			numeric = append(numeric, f)
		}
	}
	p.UniqueCount = len(unique)
	if total := c.Len(); total > 0 {
		p.MissingRate = float64(total-p.NonEmpty) / float64(total)
	}

	if p.NonEmpty > 0 && float64(len(numeric))/float64(p.NonEmpty) >= numericThreshold {
		p.Numeric = true
		// Errors only occur on empty input, which is excluded above.
		p.Mean, _ = stats.Mean(numeric)
		p.StdDev, _ = stats.StandardDeviation(numeric)
		p.Min, _ = stats.Min(numeric)
		p.Max, _ = stats.Max(numeric)
	}

	return p
}
