package chart

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/verte-zerg/pracviz/internal/model"
)

func TestRenderLine(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Plot{
		Title: "Test Plot",
		Series: []Series{
			{Name: "Rating", X: []float64{1, 2, 3}, Y: []float64{50, 70, 60}},
		},
		Width:  20,
		Height: 4,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend: ") || !strings.Contains(out, "Rating (solid)") {
		t.Fatalf("expected legend in output: %s", out)
	}
	if !strings.Contains(out, "70.0") || !strings.Contains(out, "50.0") {
		t.Fatalf("expected y-axis labels in output: %s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	expected := 1 + 4 + 1 + 1 + 1
	if len(lines) != expected {
		t.Fatalf("expected %d lines of output, got %d", expected, len(lines))
	}
}

func TestRenderScatterWithCategories(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Plot{
		Series: []Series{
			{Name: "Hours", X: []float64{0, 1, 0}, Y: []float64{2.5, 1, 1}, Points: true},
		},
		XTicks: []string{"Piano", "Cello"},
		Width:  30,
		Height: 4,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Piano") || !strings.Contains(out, "Cello") {
		t.Fatalf("expected category ticks in output: %s", out)
	}
	if !strings.Contains(out, "Hours (points)") {
		t.Fatalf("expected points legend: %s", out)
	}
}

func TestRenderSkipsNonFinite(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Plot{
		Series: []Series{{Name: "A", Y: []float64{math.NaN(), math.NaN()}}},
		Width:  10,
		Height: 2,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for all-NaN series, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	total := 80
	expected := total - axisWidth()
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestRenderBars(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBars(&buf, "Practice", []Bar{
		{Label: "Piano", Value: 4, Valid: true},
		{Label: "Violin", Value: math.NaN()},
		{Label: "Cello", Value: 2, Valid: true},
	}, 40, false)
	if err != nil {
		t.Fatalf("RenderBars failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "Practice" {
		t.Fatalf("unexpected title: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Piano  │ 4.00 █") {
		t.Fatalf("unexpected piano line: %q", lines[1])
	}
	if lines[2] != "Violin │  n/a" {
		t.Fatalf("unexpected violin line: %q", lines[2])
	}
	piano := strings.Count(lines[1], "█")
	cello := strings.Count(lines[3], "█")
	if piano != 2*cello {
		t.Fatalf("expected piano bar twice cello, got %d and %d", piano, cello)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Instrument", "Practice", "Rows"}
	rows := [][]string{
		{"Piano", "2.50", "12"},
		{"Cello", "8.00", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Instrument Practice Rows" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Piano          2.50   12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Cello          8.00    3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderTableTruncates(t *testing.T) {
	var buf bytes.Buffer
	table := model.Table{
		Columns: []string{"Instrument", "Practice"},
		Rows:    [][]string{{"Piano", "1"}, {"Cello", "2"}, {"Flute", "3"}},
	}
	if err := RenderTable(&buf, table, 2); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "... 1 more rows") {
		t.Fatalf("expected truncation note: %s", buf.String())
	}
}

func TestRenderTableRightAlignsNumericColumns(t *testing.T) {
	var buf bytes.Buffer
	table := model.Table{
		Columns: []string{"Instrument", "Practice"},
		Rows:    [][]string{{"Piano", "2.5"}, {"Cello", "12"}, {"Oboe", ""}},
	}
	if err := RenderTable(&buf, table, 0); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Instrument Practice",
		"Piano           2.5",
		"Cello            12",
		"Oboe",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected table:\n%q", lines)
	}
}
