// Package pipeline runs load, clean, and shape once per render.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/verte-zerg/pracviz/internal/clean"
	"github.com/verte-zerg/pracviz/internal/loader"
	"github.com/verte-zerg/pracviz/internal/logging"
	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/shape"
)

// Runner holds the source paths for repeated renders.
type Runner struct {
	TabularPath    string
	StructuredPath string
	Logger         *zap.Logger
}

// Result contains every derived view for one render.
type Result struct {
	Preview     model.Table
	Records     []model.PracticeRecord
	Scatter     shape.ScatterView
	Bars        shape.BarView
	Line        shape.LineView
	Next        model.State
	Diagnostics []model.Diagnostic
}

// Run executes a full render. Failures never escape: they are reported as
// diagnostics and the affected views carry their placeholder state.
func (r *Runner) Run(ctx context.Context, state model.State) Result {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result

	table, doc, diags := loader.Load(r.TabularPath, r.StructuredPath)
	res.Preview = table
	res.Diagnostics = append(res.Diagnostics, diags...)

	if err := ctx.Err(); err != nil {
		res.Scatter = shape.ScatterView{Empty: true}
		res.Bars = shape.BarView{Empty: true}
		res.Line = shape.LineView{Skipped: true}
		res.Next = state
		return res
	}

	records, cleanDiags, err := clean.Clean(table)
	res.Diagnostics = append(res.Diagnostics, cleanDiags...)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, model.Error(model.KindPreconditionUnmet, r.TabularPath, err.Error()))
	}
	res.Records = records
	res.Scatter = shape.Scatter(records)

	bars, err := shape.Bars(table, state.Selection)
	if err != nil {
		// Clean already reported the missing column.
		logger.Debug("bar view skipped", zap.Error(err))
	}
	res.Bars = bars

	res.Line = shape.Line(doc, state.Threshold)

	// Untouched controls are carried as-is so they keep following the data:
	// the threshold stays at the maximum and an unset selection picks up new
	// instruments.
	res.Next = state
	if !bars.Empty && state.Selection.Set {
		res.Next.Selection = bars.Selection
	}

	logging.Diagnostics(logger, res.Diagnostics)
	logger.Debug("render complete",
		zap.Int("rows", len(table.Rows)),
		zap.Int("records", len(records)),
		zap.Int("bars", len(bars.Bars)),
		zap.Int("samples", len(res.Line.Samples)),
	)
	return res
}
