// Package clean validates tabular practice rows.
package clean

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/pracviz/internal/model"
)

// Column names required in the tabular source.
const (
	ColumnInstrument = "Instrument"
	ColumnPractice   = "Practice"
)

// InvalidNumberMessage is emitted once per dropped row.
const InvalidNumberMessage = "Invalid number"

// ErrMissingColumn reports that a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Columns holds the positions of the required columns.
type Columns struct {
	Instrument int
	Practice   int
}

// RequireColumns locates Instrument and Practice in the table header.
func RequireColumns(table model.Table) (Columns, error) {
	cols := Columns{
		Instrument: table.ColumnIndex(ColumnInstrument),
		Practice:   table.ColumnIndex(ColumnPractice),
	}
	if cols.Instrument < 0 {
		return Columns{}, fmt.Errorf("%w %q", ErrMissingColumn, ColumnInstrument)
	}
	if cols.Practice < 0 {
		return Columns{}, fmt.Errorf("%w %q", ErrMissingColumn, ColumnPractice)
	}
	return cols, nil
}

// Clean keeps rows whose Practice value is a nonnegative number and whose
// Instrument is set. Dropped rows each emit an "Invalid number" warning.
func Clean(table model.Table) ([]model.PracticeRecord, []model.Diagnostic, error) {
	if table.Empty() {
		return nil, nil, nil
	}
	cols, err := RequireColumns(table)
	if err != nil {
		return nil, nil, err
	}

	records := make([]model.PracticeRecord, 0, len(table.Rows))
	var diags []model.Diagnostic
	for i := range table.Rows {
		instrument := table.Cell(i, cols.Instrument)
		hours, ok := ParseHours(table.Cell(i, cols.Practice))
		if !ok || strings.TrimSpace(instrument) == "" {
			diags = append(diags, model.Warning(model.KindRowCoercionFailure, ColumnPractice, InvalidNumberMessage))
			continue
		}
		records = append(records, model.PracticeRecord{Instrument: instrument, Hours: hours})
	}
	return records, diags, nil
}
