package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/pracviz/internal/chart"
	"github.com/verte-zerg/pracviz/internal/export"
	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/pipeline"
	"github.com/verte-zerg/pracviz/internal/report"
)

const (
	defaultExportDir = "charts"
	plotHeight       = 10
)

var (
	reportMarkdown bool
	reportPick     bool
	reportRows     int

	exportDir    string
	exportWidth  int
	exportHeight int
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the practice report",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().BoolVar(&reportMarkdown, "markdown", false, "emit Markdown (styled when stdout is a terminal)")
	cmd.Flags().BoolVar(&reportPick, "pick", false, "choose instruments interactively before printing")
	cmd.Flags().IntVar(&reportRows, "rows", 0, "preview rows to show (0 = default, -1 = all)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	state := s.initialState(ctx)
	res := s.runner.Run(ctx, state)

	if reportPick {
		if !stdinIsTerminal() {
			return fmt.Errorf("--pick needs an interactive terminal")
		}
		picked, err := pickInstruments(res.Bars.Categories, res.Next.Selection)
		if err != nil {
			return err
		}
		state = res.Next
		state.Selection = picked
		res = s.runner.Run(ctx, state)
		s.save(ctx, res.Next)
	}

	out := cmd.OutOrStdout()
	opts := report.Options{
		Height:      plotHeight,
		Color:       !reportMarkdown && chart.ShouldUseColor(os.Stdout),
		PreviewRows: reportRows,
	}
	if !reportMarkdown {
		return report.RenderText(out, res, opts)
	}
	md := report.Markdown(res, opts)
	if stdoutIsTerminal() {
		styled, err := report.RenderMarkdown(md, chart.TerminalWidth())
		if err != nil {
			s.logger.Warn("markdown styling failed", zap.Error(err))
		} else {
			md = styled
		}
	}
	_, err = io.WriteString(out, md)
	return err
}

func writeTextReport(w io.Writer, res pipeline.Result) error {
	return report.RenderText(w, res, report.Options{Height: plotHeight})
}

// pickInstruments asks for the bar view selection. The current selection is
// preselected.
func pickInstruments(categories []string, current model.Selection) (model.Selection, error) {
	if len(categories) == 0 {
		return current, nil
	}
	chosen := map[string]bool{}
	for _, name := range current.Instruments {
		chosen[name] = true
	}
	options := make([]huh.Option[string], len(categories))
	for i, name := range categories {
		options[i] = huh.NewOption(name, name).Selected(!current.Set || chosen[name])
	}
	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Instruments").
				Description("space to toggle, enter to confirm").
				Options(options...).
				Value(&picked),
		),
	)
	if err := form.Run(); err != nil {
		return current, fmt.Errorf("instrument picker: %w", err)
	}
	return orderedSelection(categories, picked), nil
}

// orderedSelection keeps the picked names in category order.
func orderedSelection(categories, picked []string) model.Selection {
	want := map[string]bool{}
	for _, name := range picked {
		want[name] = true
	}
	out := make([]string, 0, len(picked))
	for _, name := range categories {
		if want[name] {
			out = append(out, name)
		}
	}
	return model.Selection{Instruments: out, Set: true}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the charts as PNG images",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportDir, "out", "o", defaultExportDir, "output directory")
	cmd.Flags().IntVar(&exportWidth, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&exportHeight, "height", 0, "image height in pixels")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if exportWidth < 0 || exportHeight < 0 {
		return fmt.Errorf("--width and --height must be >= 0")
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	res := s.runner.Run(ctx, s.initialState(ctx))
	for _, d := range res.Diagnostics {
		logErrf("%s\n", d)
	}

	written, diags, err := export.All(exportDir, res, export.Size{Width: exportWidth, Height: exportHeight})
	for _, d := range diags {
		logErrf("%s\n", d)
	}
	if err != nil {
		return fmt.Errorf("failed to export charts: %w", err)
	}
	for _, path := range written {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	s.logger.Info("charts exported", zap.Int("files", len(written)), zap.String("dir", exportDir))
	return nil
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
