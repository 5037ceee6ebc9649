package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Bar is one labelled value. Invalid bars render as "n/a".
type Bar struct {
	Label string
	Value float64
	Valid bool
}

const barColor = "\x1b[36m"

var barEighths = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// RenderBars draws horizontal bars scaled to the largest positive value.
func RenderBars(w io.Writer, title string, bars []Bar, width int, useColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = TerminalWidth()
	}

	labelWidth := 0
	valueWidth := 0
	values := make([]string, len(bars))
	maxVal := 0.0
	for i, b := range bars {
		labelWidth = maxInt(labelWidth, displayWidth(b.Label))
		values[i] = formatBarValue(b)
		valueWidth = maxInt(valueWidth, len(values[i]))
		if b.Valid && b.Value > maxVal {
			maxVal = b.Value
		}
	}
	barWidth := width - labelWidth - valueWidth - 4
	if barWidth < minPlotWidth {
		barWidth = minPlotWidth
	}
	useColor = useColor && os.Getenv("NO_COLOR") == ""

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, b := range bars {
		bar := ""
		if b.Valid && maxVal > 0 && b.Value > 0 {
			bar = barRunes(b.Value/maxVal*float64(barWidth), barWidth)
		}
		if useColor && bar != "" {
			bar = barColor + bar + colorReset
		}
		line := fmt.Sprintf("%s │ %*s %s", padCell(b.Label, labelWidth, false), valueWidth, values[i], bar)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func formatBarValue(b Bar) string {
	if !b.Valid || math.IsNaN(b.Value) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", b.Value)
}

func barRunes(cells float64, limit int) string {
	if cells > float64(limit) {
		cells = float64(limit)
	}
	full := int(cells)
	frac := int(math.Round((cells - float64(full)) * 8))
	if frac == 8 {
		full++
		frac = 0
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	if frac > 0 && full < limit {
		b.WriteRune(barEighths[frac])
	}
	if b.Len() == 0 {
		b.WriteRune(barEighths[1])
	}
	return b.String()
}
