package shape

import (
	"math"

	"github.com/verte-zerg/pracviz/internal/clean"
	"github.com/verte-zerg/pracviz/internal/model"
)

// Bar is one instrument's practice total.
type Bar struct {
	Instrument string
	Hours      float64
	// Valid is false when every row of the instrument failed coercion.
	Valid bool
}

// FilteredRow is a row of the unfiltered table that matched the selection.
type FilteredRow struct {
	Instrument string
	Practice   float64
}

// BarView is the instrument-filtered practice view.
type BarView struct {
	Empty           bool
	NothingSelected bool
	Categories      []string
	Selection       model.Selection
	Rows            []FilteredRow
	Bars            []Bar
}

// Bars filters the full table to the selected instruments and sums each
// instrument's numeric Practice values. Values that fail coercion become NaN
// and are left out of the sums.
func Bars(table model.Table, prior model.Selection) (BarView, error) {
	if table.Empty() {
		return BarView{Empty: true}, nil
	}
	cols, err := clean.RequireColumns(table)
	if err != nil {
		return BarView{Empty: true}, err
	}

	rows := make([]FilteredRow, len(table.Rows))
	for i := range table.Rows {
		rows[i] = FilteredRow{
			Instrument: table.Cell(i, cols.Instrument),
			Practice:   clean.CoerceLenient(table.Cell(i, cols.Practice)),
		}
	}

	categories := distinctInstruments(rows)
	selection := ResolveSelection(categories, prior)
	view := BarView{Categories: categories, Selection: selection}

	chosen := make(map[string]bool, len(selection.Instruments))
	for _, inst := range selection.Instruments {
		chosen[inst] = true
	}
	for _, row := range rows {
		if chosen[row.Instrument] {
			view.Rows = append(view.Rows, row)
		}
	}
	if len(view.Rows) == 0 {
		view.NothingSelected = true
		return view, nil
	}

	totals := map[string]*Bar{}
	for _, row := range view.Rows {
		bar, ok := totals[row.Instrument]
		if !ok {
			bar = &Bar{Instrument: row.Instrument, Hours: math.NaN()}
			totals[row.Instrument] = bar
		}
		if math.IsNaN(row.Practice) {
			continue
		}
		if !bar.Valid {
			bar.Hours = 0
			bar.Valid = true
		}
		bar.Hours += row.Practice
	}
	for _, inst := range categories {
		if bar, ok := totals[inst]; ok {
			view.Bars = append(view.Bars, *bar)
		}
	}
	return view, nil
}

// ResolveSelection applies a prior selection to the present categories.
// An unset selection selects everything; a set one keeps only categories that
// still exist, in category order.
func ResolveSelection(categories []string, prior model.Selection) model.Selection {
	if !prior.Set {
		return model.Selection{Instruments: append([]string(nil), categories...), Set: true}
	}
	wanted := make(map[string]bool, len(prior.Instruments))
	for _, inst := range prior.Instruments {
		wanted[inst] = true
	}
	out := make([]string, 0, len(prior.Instruments))
	for _, inst := range categories {
		if wanted[inst] {
			out = append(out, inst)
		}
	}
	return model.Selection{Instruments: out, Set: true}
}

func distinctInstruments(rows []FilteredRow) []string {
	seen := map[string]bool{}
	var out []string
	for _, row := range rows {
		if seen[row.Instrument] {
			continue
		}
		seen[row.Instrument] = true
		out = append(out, row.Instrument)
	}
	return out
}
