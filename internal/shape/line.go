package shape

import (
	"math"
	"sort"

	"github.com/verte-zerg/pracviz/internal/clean"
	"github.com/verte-zerg/pracviz/internal/model"
)

// LineView is the threshold-filtered performance view.
type LineView struct {
	// Skipped is set when the document has no data_points.
	Skipped bool
	// NoHours is set when no sample has a numeric practice hour.
	NoHours bool
	// MinHour and MaxHour bound the threshold control.
	MinHour   int
	MaxHour   int
	Threshold int
	Samples   []model.PerformanceSample
}

// Line coerces data_points, bounds the threshold by the largest practice
// hour rounded up, and keeps samples at or below the threshold ordered by hour.
// A threshold of zero selects the maximum; others are clamped to the domain.
func Line(doc model.Document, threshold int) LineView {
	if doc.Empty() {
		return LineView{Skipped: true}
	}
	samples := Samples(doc.DataPoints.Points)

	maxHour := math.NaN()
	for _, s := range samples {
		if math.IsNaN(s.PracticeHour) {
			continue
		}
		if math.IsNaN(maxHour) || s.PracticeHour > maxHour {
			maxHour = s.PracticeHour
		}
	}
	if math.IsNaN(maxHour) {
		return LineView{NoHours: true}
	}

	view := LineView{MinHour: 1, MaxHour: hourBound(maxHour)}
	if view.MaxHour < view.MinHour {
		view.MaxHour = view.MinHour
	}
	view.Threshold = ClampThreshold(threshold, view.MinHour, view.MaxHour)

	limit := float64(view.Threshold)
	if view.Threshold == view.MaxHour {
		limit = math.Inf(1)
	}
	for _, s := range samples {
		if s.PracticeHour <= limit {
			view.Samples = append(view.Samples, s)
		}
	}
	sort.SliceStable(view.Samples, func(i, j int) bool {
		return view.Samples[i].PracticeHour < view.Samples[j].PracticeHour
	})
	return view
}

// MaxHourBound caps the threshold domain for very large practice hours.
const MaxHourBound = math.MaxInt32

func hourBound(maxHour float64) int {
	if maxHour >= MaxHourBound {
		return MaxHourBound
	}
	return int(math.Ceil(maxHour))
}

// Samples maps raw [hour, rating] pairs to samples. Values that are not
// numeric, or missing, become NaN.
func Samples(points [][]any) []model.PerformanceSample {
	out := make([]model.PerformanceSample, 0, len(points))
	for _, p := range points {
		s := model.PerformanceSample{PracticeHour: math.NaN(), Rating: math.NaN()}
		if len(p) > 0 {
			s.PracticeHour = clean.CoerceLenient(p[0])
		}
		if len(p) > 1 {
			s.Rating = clean.CoerceLenient(p[1])
		}
		out = append(out, s)
	}
	return out
}

// ClampThreshold keeps a requested threshold inside [minHour, maxHour].
// Zero or negative requests select maxHour.
func ClampThreshold(threshold, minHour, maxHour int) int {
	if threshold <= 0 || threshold > maxHour {
		return maxHour
	}
	if threshold < minHour {
		return minHour
	}
	return threshold
}
