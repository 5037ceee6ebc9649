// Package shape derives presentation-ready views from cleaned data.
package shape

import "github.com/verte-zerg/pracviz/internal/model"

// Placeholder messages shown instead of an empty chart.
const (
	NoDataMessage          = "Complete survey first!"
	NothingSelectedMessage = "No instruments selected"
	NoHoursMessage         = "No valid practice hours"
	NoPerformanceMessage   = "No performance data available"
)

// ScatterPoint is one plotted practice log.
type ScatterPoint struct {
	Category int
	Hours    float64
}

// ScatterView is the per-row practice log view.
type ScatterView struct {
	Empty      bool
	Categories []string
	Points     []ScatterPoint
}

// Scatter projects every cleaned record to one point.
func Scatter(records []model.PracticeRecord) ScatterView {
	if len(records) == 0 {
		return ScatterView{Empty: true}
	}
	view := ScatterView{Points: make([]ScatterPoint, 0, len(records))}
	index := map[string]int{}
	for _, r := range records {
		idx, ok := index[r.Instrument]
		if !ok {
			idx = len(view.Categories)
			index[r.Instrument] = idx
			view.Categories = append(view.Categories, r.Instrument)
		}
		view.Points = append(view.Points, ScatterPoint{Category: idx, Hours: r.Hours})
	}
	return view
}
