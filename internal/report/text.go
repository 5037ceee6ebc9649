// Package report renders a pipeline result as static text or Markdown.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/pracviz/internal/chart"
	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/pipeline"
	"github.com/verte-zerg/pracviz/internal/shape"
)

// Section titles and captions shared by every output.
const (
	PageTitle      = "Instrumental Practice Analytics"
	PreviewTitle   = "Raw CSV Practice Data"
	ScatterTitle   = "Static: Practice Sessions Log (CSV)"
	BarsTitle      = "Dynamic: Bar Graph Based on Practice Log (CSV)"
	LineTitle      = "Dynamic: Line Graph of Practice Time vs. Performance Rating"
	ScatterCaption = "Each point on the graph represents one practice log (instrument, hours practiced)."
	BarsCaption    = "This bar graph shows how much time (in hours) each selected instrument was practiced."
	LineCaption    = "This line graph shows practice hours against the matching performance rating, up to the chosen hour limit."
)

const defaultPreviewRows = 20

// Options controls chart sizing and color.
type Options struct {
	Width       int
	Height      int
	Color       bool
	PreviewRows int
}

// RenderText writes every section of the result.
func RenderText(w io.Writer, res pipeline.Result, opts Options) error {
	var b strings.Builder
	b.WriteString(PageTitle + "\n\n")
	b.WriteString(PreviewTitle + "\n")
	b.WriteString(Preview(res.Preview, opts) + "\n\n")
	if len(res.Diagnostics) > 0 {
		b.WriteString(Diagnostics(res.Diagnostics) + "\n\n")
	}
	for _, s := range Sections(res, opts) {
		b.WriteString(s.Title + "\n")
		b.WriteString(s.Body + "\n")
		if s.Caption != "" {
			b.WriteString(s.Caption + "\n")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Section is one rendered chart panel.
type Section struct {
	Title   string
	Body    string
	Caption string
	// Placeholder is true when Body is a message instead of a chart.
	Placeholder bool
}

// Sections renders the three chart panels.
func Sections(res pipeline.Result, opts Options) []Section {
	return []Section{
		ScatterSection(res.Scatter, opts),
		BarsSection(res.Bars, opts),
		LineSection(res.Line, opts),
	}
}

// Preview renders the raw table or an empty-data note.
func Preview(table model.Table, opts Options) string {
	if len(table.Columns) == 0 {
		return "No CSV data loaded."
	}
	rows := opts.PreviewRows
	if rows == 0 {
		rows = defaultPreviewRows
	}
	var buf strings.Builder
	if err := chart.RenderTable(&buf, table, rows); err != nil {
		return fmt.Sprintf("Failed to render preview: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Diagnostics lists warnings and errors, one per line.
func Diagnostics(diags []model.Diagnostic) string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// ScatterSection renders the per-row practice log.
func ScatterSection(view shape.ScatterView, opts Options) Section {
	s := Section{Title: ScatterTitle}
	if view.Empty {
		s.Body = shape.NoDataMessage
		s.Placeholder = true
		return s
	}
	xs := make([]float64, len(view.Points))
	ys := make([]float64, len(view.Points))
	for i, p := range view.Points {
		xs[i] = float64(p.Category)
		ys[i] = p.Hours
	}
	s.Body = renderPlot(chart.Plot{
		Series: []chart.Series{{Name: "Practice hours", X: xs, Y: ys, Points: true}},
		XTicks: view.Categories,
		Width:  plotWidth(opts),
		Height: opts.Height,
		Color:  opts.Color,
	})
	s.Caption = ScatterCaption
	return s
}

// BarsSection renders the instrument-filtered bar chart.
func BarsSection(view shape.BarView, opts Options) Section {
	s := Section{Title: BarsTitle}
	switch {
	case view.Empty:
		s.Body = shape.NoDataMessage
		s.Placeholder = true
		return s
	case view.NothingSelected:
		s.Body = shape.NothingSelectedMessage
		s.Placeholder = true
		return s
	}
	bars := make([]chart.Bar, len(view.Bars))
	for i, b := range view.Bars {
		bars[i] = chart.Bar{Label: b.Instrument, Value: b.Hours, Valid: b.Valid}
	}
	var buf strings.Builder
	header := fmt.Sprintf("Selected: %s", strings.Join(view.Selection.Instruments, ", "))
	if err := chart.RenderBars(&buf, header, bars, opts.Width, opts.Color); err != nil {
		s.Body = fmt.Sprintf("Failed to render bars: %v", err)
		return s
	}
	s.Body = strings.TrimRight(buf.String(), "\n")
	s.Caption = BarsCaption
	return s
}

// LineSection renders the threshold-filtered performance line.
func LineSection(view shape.LineView, opts Options) Section {
	s := Section{Title: LineTitle}
	switch {
	case view.Skipped:
		s.Body = shape.NoPerformanceMessage
		s.Placeholder = true
		return s
	case view.NoHours:
		s.Body = shape.NoHoursMessage
		s.Placeholder = true
		return s
	}
	header := fmt.Sprintf("Showing up to %d of %d practice hours (range %d-%d)", view.Threshold, view.MaxHour, view.MinHour, view.MaxHour)
	if len(view.Samples) == 0 {
		s.Body = header + "\nNo samples at or below this hour limit."
		s.Caption = LineCaption
		return s
	}
	xs := make([]float64, len(view.Samples))
	ys := make([]float64, len(view.Samples))
	for i, sample := range view.Samples {
		xs[i] = sample.PracticeHour
		ys[i] = sample.Rating
	}
	body := renderPlot(chart.Plot{
		Series: []chart.Series{{Name: "Performance rating", X: xs, Y: ys}},
		Width:  plotWidth(opts),
		Height: opts.Height,
		Color:  opts.Color,
	})
	if body == "" {
		body = "No numeric ratings at or below this hour limit."
	}
	s.Body = header + "\n" + body
	s.Caption = LineCaption
	return s
}

func renderPlot(p chart.Plot) string {
	var buf strings.Builder
	if err := chart.Render(&buf, p); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func plotWidth(opts Options) int {
	if opts.Width <= 0 {
		return 0
	}
	return chart.PlotWidthFor(opts.Width)
}
