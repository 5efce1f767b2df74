package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// TimeColumn is the header of the observation date column.
	TimeColumn = "time"

	// TimeLayout is the YYYYMMDD layout of the time column.
	TimeLayout = "20060102"

	// MeasurementColumns is the number of value columns coerced to numbers,
	// starting at MeasurementOffset.
	MeasurementColumns = 3
	MeasurementOffset  = 2
)

// Observation is one kept row of a data file. Cells and Values are
// positional: Cells[i] belongs to Columns[i], and Values[i] is the coerced
// cell at Columns[MeasurementOffset+i].
type Observation struct {
	Time    string                       `json:"time"`
	Date    time.Time                    `json:"date"`
	Columns []string                     `json:"-"` // header of the source file, shared by its rows
	Cells   []string                     `json:"cells"`
	Values  [MeasurementColumns]*float64 `json:"values"` // nil means missing
}

// Cell returns the raw cell under column.
func (o Observation) Cell(column string) (string, bool) {
	i := slices.Index(o.Columns, column)
	if i < 0 || i >= len(o.Cells) {
		return "", false
	}
	return o.Cells[i], true
}

// Measurement returns the i-th coerced value column and whether it is present.
func (o Observation) Measurement(i int) (float64, bool) {
	if i < 0 || i >= MeasurementColumns || o.Values[i] == nil {
		return 0, false
	}
	return *o.Values[i], true
}

// Value returns the coerced measurement under column and whether it is
// present. Columns outside the measured positions are never present.
func (o Observation) Value(column string) (float64, bool) {
	return o.Measurement(slices.Index(o.Columns, column) - MeasurementOffset)
}

// MissingCount returns how many measured cells are missing.
func (o Observation) MissingCount() int {
	n := 0
	for _, v := range o.Values {
		if v == nil {
			n++
		}
	}
	return n
}

// ReadStats counts what happened to the rows of one data file.
type ReadStats struct {
	Kept    int
	Dropped int
	Missing int // coerced cells that became missing values
}

// PrecipitationTable is the parsed content of one or more data files.
// Rows keep the order they were read in.
type PrecipitationTable struct {
	Columns []string      `json:"columns"`
	Rows    []Observation `json:"rows"`
}

// Len returns the number of rows.
func (t PrecipitationTable) Len() int { return len(t.Rows) }

// DateRange returns the earliest and latest observation dates.
// Both are zero for an empty table.
func (t PrecipitationTable) DateRange() (time.Time, time.Time) {
	var first, last time.Time
	for _, r := range t.Rows {
		if first.IsZero() || r.Date.Before(first) {
			first = r.Date
		}
		if last.IsZero() || r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last
}

// IsObservationTime reports whether a time cell is 8 characters wide, the
// YYYYMMDD width. Summary and annotation rows have other widths.
func IsObservationTime(s string) bool {
	return utf8.RuneCountInString(s) == len(TimeLayout)
}

// UniqueColumns returns header with repeated names suffixed ".1", ".2", ...
// in order of appearance, so every column can be addressed by name. A suffix
// that collides with an existing name is skipped.
func UniqueColumns(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for _, name := range header {
		taken[name] = true
	}
	seen := make(map[string]int, len(header))
	for i, name := range header {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			out[i] = name
			continue
		}
		candidate := fmt.Sprintf("%s.%d", name, n)
		for taken[candidate] {
			n++
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[name] = n + 1
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// CoerceMeasurement parses a numeric cell. Unparsable values, such as the
// "-" placeholders IDAweb writes for gaps, become nil.
func CoerceMeasurement(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ConcatPrecipitation appends the rows of all tables in order. Columns are the
// union of the input columns in order of first appearance. No rows are
// deduplicated.
func ConcatPrecipitation(tables ...PrecipitationTable) PrecipitationTable {
	var out PrecipitationTable
	seen := make(map[string]bool)
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
	}

	out.Rows = make([]Observation, 0, total)
	for _, t := range tables {
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}
