package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/pipeline"
	"github.com/verte-zerg/pracviz/internal/shape"
)

func sampleResult() pipeline.Result {
	return pipeline.Result{
		Preview: model.Table{
			Columns: []string{"Instrument", "Practice"},
			Rows:    [][]string{{"Piano", "2.5"}, {"Violin", "x"}},
		},
		Scatter: shape.ScatterView{
			Categories: []string{"Piano"},
			Points:     []shape.ScatterPoint{{Category: 0, Hours: 2.5}},
		},
		Bars: shape.BarView{
			Categories: []string{"Piano", "Violin"},
			Selection:  model.Selection{Instruments: []string{"Piano", "Violin"}, Set: true},
			Bars: []shape.Bar{
				{Instrument: "Piano", Hours: 2.5, Valid: true},
				{Instrument: "Violin", Hours: math.NaN()},
			},
		},
		Line: shape.LineView{
			MinHour: 1, MaxHour: 3, Threshold: 3,
			Samples: []model.PerformanceSample{{PracticeHour: 1, Rating: 50}, {PracticeHour: 3, Rating: 80}},
		},
		Diagnostics: []model.Diagnostic{
			model.Warning(model.KindRowCoercionFailure, "Practice", "Invalid number"),
		},
	}
}

func TestRenderTextContainsSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleResult(), Options{Width: 60, Height: 4}))
	out := buf.String()
	for _, want := range []string{PageTitle, PreviewTitle, ScatterTitle, BarsTitle, LineTitle, ScatterCaption, BarsCaption, LineCaption, "warning: Invalid number (Practice)", "Selected: Piano, Violin", "n/a"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderTextPlaceholders(t *testing.T) {
	res := pipeline.Result{
		Scatter: shape.ScatterView{Empty: true},
		Bars:    shape.BarView{Empty: true},
		Line:    shape.LineView{Skipped: true},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, res, Options{Width: 60}))
	out := buf.String()
	assert.Contains(t, out, "No CSV data loaded.")
	assert.Equal(t, 2, strings.Count(out, shape.NoDataMessage))
	assert.Contains(t, out, shape.NoPerformanceMessage)
	assert.NotContains(t, out, ScatterCaption)
}

func TestBarsSectionNothingSelected(t *testing.T) {
	s := BarsSection(shape.BarView{NothingSelected: true}, Options{})
	assert.True(t, s.Placeholder)
	assert.Equal(t, shape.NothingSelectedMessage, s.Body)
}

func TestLineSectionNoSamplesBelowThreshold(t *testing.T) {
	s := LineSection(shape.LineView{MinHour: 1, MaxHour: 4, Threshold: 1}, Options{})
	assert.False(t, s.Placeholder)
	assert.Contains(t, s.Body, "Showing up to 1 of 4 practice hours")
	assert.Contains(t, s.Body, "No samples")
}

func TestMarkdownReport(t *testing.T) {
	md := Markdown(sampleResult(), Options{Width: 60, Height: 4})
	assert.True(t, strings.HasPrefix(md, "# "+PageTitle))
	assert.Contains(t, md, "| Instrument | Practice |")
	assert.Contains(t, md, "| Piano | 2.5 |")
	assert.Contains(t, md, "## Diagnostics")
	assert.Contains(t, md, "### "+BarsTitle)
	assert.Contains(t, md, "```text")
	assert.Contains(t, md, "_"+LineCaption+"_")
}

func TestMarkdownEscapesCells(t *testing.T) {
	table := model.Table{Columns: []string{"Instrument"}, Rows: [][]string{{"a|b_c"}}}
	assert.Contains(t, markdownTable(table, 0), `| a\|b\_c |`)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nbody text\n", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}
