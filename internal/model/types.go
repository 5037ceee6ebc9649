// Package model defines shared data structures.
package model

// Config defines resolved runtime settings for a dashboard or report run.
type Config struct {
	TabularPath    string
	StructuredPath string
	Threshold      int
	Select         []string
	Watch          bool
	Remember       bool
}

// Table is a row-oriented dataset with string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table carries no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the index of the named column or -1.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row/col, or "" when the row is short.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// DataPoints is the optional data_points field of a structured document.
type DataPoints struct {
	Present bool
	Points  [][]any
}

// Document is the decoded structured source.
type Document struct {
	DataPoints DataPoints
}

// Empty reports whether the document carries no usable keys.
func (d Document) Empty() bool {
	return !d.DataPoints.Present
}

// PracticeRecord is one validated row of the tabular source.
type PracticeRecord struct {
	Instrument string
	Hours      float64
}

// PerformanceSample is one entry of data_points. Fields may be NaN.
type PerformanceSample struct {
	PracticeHour float64
	Rating       float64
}

// Selection is the instrument subset chosen for the bar view.
// Set is false until a choice has been made; the default is every category.
type Selection struct {
	Instruments []string
	Set         bool
}

// State is threaded from one render into the next.
type State struct {
	Selection Selection
	// Threshold is the requested hour limit; zero means the maximum.
	Threshold int
}
