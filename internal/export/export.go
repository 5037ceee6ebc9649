// Package export writes the dashboard views as PNG images.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/pipeline"
	"github.com/verte-zerg/pracviz/internal/shape"
)

// File names written by All.
const (
	ScatterFile     = "practice_log.png"
	BarsFile        = "hours_by_instrument.png"
	PerformanceFile = "performance.png"
)

const (
	defaultWidth  = 1024
	defaultHeight = 480
	minBarSlot    = 80
)

// ErrPlaceholder is returned when a view has nothing to draw.
var ErrPlaceholder = errors.New("view has no data to draw")

// Size controls the output image dimensions. Zero values use defaults.
type Size struct {
	Width  int
	Height int
}

func (s Size) resolve() Size {
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	return s
}

// All renders every view into dir. Views in a placeholder state are skipped
// with an info diagnostic naming the placeholder.
func All(dir string, res pipeline.Result, size Size) ([]string, []model.Diagnostic, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	jobs := []struct {
		file        string
		placeholder string
		render      func(io.Writer) error
	}{
		{ScatterFile, scatterPlaceholder(res.Scatter), func(w io.Writer) error { return Scatter(w, res.Scatter, size) }},
		{BarsFile, barsPlaceholder(res.Bars), func(w io.Writer) error { return Bars(w, res.Bars, size) }},
		{PerformanceFile, linePlaceholder(res.Line), func(w io.Writer) error { return Line(w, res.Line, size) }},
	}

	var written []string
	var diags []model.Diagnostic
	for _, job := range jobs {
		path := filepath.Join(dir, job.file)
		if job.placeholder != "" {
			diags = append(diags, model.Diagnostic{
				Level:   model.LevelInfo,
				Kind:    model.KindPreconditionUnmet,
				Source:  job.file,
				Message: "skipped: " + job.placeholder,
			})
			continue
		}
		if err := writeFile(path, job.render); err != nil {
			if errors.Is(err, ErrPlaceholder) {
				diags = append(diags, model.Diagnostic{
					Level:   model.LevelInfo,
					Kind:    model.KindPreconditionUnmet,
					Source:  job.file,
					Message: "skipped: nothing to draw",
				})
				continue
			}
			return written, diags, err
		}
		written = append(written, path)
	}
	return written, diags, nil
}

func writeFile(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil {
				// Best-effort cleanup of a partial image.
				_ = rerr
			}
		}
	}()
	if err := render(f); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Scatter draws the practice log as dots per instrument.
func Scatter(w io.Writer, view shape.ScatterView, size Size) error {
	if view.Empty || len(view.Points) == 0 {
		return ErrPlaceholder
	}
	size = size.resolve()
	xs := make([]float64, len(view.Points))
	ys := make([]float64, len(view.Points))
	maxY := 0.0
	for i, p := range view.Points {
		xs[i] = float64(p.Category)
		ys[i] = p.Hours
		maxY = math.Max(maxY, p.Hours)
	}
	ticks := make([]chart.Tick, len(view.Categories))
	for i, name := range view.Categories {
		ticks[i] = chart.Tick{Value: float64(i), Label: name}
	}

	graph := chart.Chart{
		Title:      "Practice Log",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Instrument",
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(view.Categories)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Practice hours",
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(maxY)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Practice",
				XValues: xs,
				YValues: ys,
				Style:   pointStyle(chart.ColorBlue),
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// Bars draws aggregated hours per selected instrument. Bars without a numeric
// total are drawn at zero and labelled n/a.
func Bars(w io.Writer, view shape.BarView, size Size) error {
	if view.Empty || view.NothingSelected || len(view.Bars) == 0 {
		return ErrPlaceholder
	}
	size = size.resolve()
	if slots := len(view.Bars) * minBarSlot; slots > size.Width {
		size.Width = slots
	}
	values := make([]chart.Value, len(view.Bars))
	maxY := 0.0
	for i, bar := range view.Bars {
		v := chart.Value{Label: bar.Instrument, Value: bar.Hours}
		if !bar.Valid {
			v.Value = 0
			v.Label = bar.Instrument + " (n/a)"
		}
		maxY = math.Max(maxY, v.Value)
		values[i] = v
	}

	graph := chart.BarChart{
		Title:      "Practice Hours by Instrument",
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   minBarSlot / 2,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: paddedMax(maxY)},
		},
		Bars: values,
	}
	return graph.Render(chart.PNG, w)
}

// Line draws ratings against practice hours up to the threshold.
func Line(w io.Writer, view shape.LineView, size Size) error {
	if view.Skipped || view.NoHours {
		return ErrPlaceholder
	}
	var xs, ys []float64
	maxY := 0.0
	for _, s := range view.Samples {
		if math.IsNaN(s.PracticeHour) || math.IsNaN(s.Rating) {
			continue
		}
		xs = append(xs, s.PracticeHour)
		ys = append(ys, s.Rating)
		maxY = math.Max(maxY, s.Rating)
	}
	if len(xs) == 0 {
		return ErrPlaceholder
	}
	size = size.resolve()

	minX := math.Min(float64(view.MinHour), xs[0])
	maxX := math.Max(float64(view.Threshold), xs[len(xs)-1])
	if maxX <= minX {
		minX -= 0.5
		maxX += 0.5
	}
	graph := chart.Chart{
		Title:      "Performance Improvement",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Practice hour",
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  "Rating",
			Range: &chart.ContinuousRange{Min: math.Min(0, minFloat(ys)), Max: paddedMax(maxY)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Rating",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
					DotColor:    chart.ColorGreen,
					DotWidth:    3,
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func paddedMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.1
}

func minFloat(values []float64) float64 {
	out := math.Inf(1)
	for _, v := range values {
		out = math.Min(out, v)
	}
	return out
}

func scatterPlaceholder(view shape.ScatterView) string {
	if view.Empty {
		return shape.NoDataMessage
	}
	return ""
}

func barsPlaceholder(view shape.BarView) string {
	switch {
	case view.Empty:
		return shape.NoDataMessage
	case view.NothingSelected:
		return shape.NothingSelectedMessage
	}
	return ""
}

func linePlaceholder(view shape.LineView) string {
	switch {
	case view.Skipped:
		return shape.NoPerformanceMessage
	case view.NoHours:
		return shape.NoHoursMessage
	}
	return ""
}
