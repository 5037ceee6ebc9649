// Package chart renders practice views as terminal text.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series is a named set of points. X may be nil, in which case points are
// spaced by index.
type Series struct {
	Name   string
	X      []float64
	Y      []float64
	Points bool
}

// Plot describes one text chart.
type Plot struct {
	Title  string
	Series []Series
	// XTicks labels integer x positions, used for category axes.
	XTicks []string
	Width  int
	Height int
	Color  bool
}

type bounds struct {
	minX, maxX float64
	minY, maxY float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
}

// Render writes the plot using braille cells. Non-finite points are skipped
// and break connecting lines.
func Render(w io.Writer, p Plot) error {
	series := filterSeries(p.Series)
	if len(series) == 0 {
		return nil
	}
	b, ok := seriesBounds(series)
	if !ok {
		return nil
	}
	if len(p.XTicks) > 0 {
		b.minX = math.Min(b.minX, 0)
		b.maxX = math.Max(b.maxX, float64(len(p.XTicks)-1))
	}
	b = padBounds(b)

	height := p.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := p.Width
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	dotsX := width * 2
	dotsY := height * 4
	seriesCells := make([][][]uint8, 0, len(series))
	for si, s := range series {
		cells := makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for i, y := range s.Y {
			x := xAt(s, i)
			if !finite(x) || !finite(y) {
				prevX, prevY = -1, -1
				continue
			}
			px := scaleToDots(x, b.minX, b.maxX, dotsX)
			py := valueToRow(y, b.minY, b.maxY, dotsY)
			switch {
			case s.Points:
				setBrailleDot(cells, px, py)
				setBrailleDot(cells, px+1, py)
			case prevX >= 0:
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(cells, dx, dy)
					}
				})
			default:
				setBrailleDot(cells, px, py)
			}
			prevX, prevY = px, py
		}
		seriesCells = append(seriesCells, cells)
	}

	useColor := p.Color && os.Getenv("NO_COLOR") == ""
	labels := makeAxisLabels(height, b.minY, b.maxY)

	if p.Title != "" {
		if _, err := fmt.Fprintln(w, p.Title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, labels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				row.WriteString(colorPalette[colorIdx%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, strings.Repeat(" ", axisLabelWidth+1)+"└"+strings.Repeat("─", width+1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, xAxisLine(p.XTicks, b, width)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, renderLegend(series, useColor)); err != nil {
		return err
	}
	return nil
}

func xAt(s Series, i int) float64 {
	if s.X == nil {
		return float64(i)
	}
	if i >= len(s.X) {
		return math.NaN()
	}
	return s.X[i]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Y) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func seriesBounds(series []Series) (bounds, bool) {
	b := bounds{
		minX: math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
	}
	found := false
	for _, s := range series {
		for i, y := range s.Y {
			x := xAt(s, i)
			if !finite(x) || !finite(y) {
				continue
			}
			found = true
			b.minX = math.Min(b.minX, x)
			b.maxX = math.Max(b.maxX, x)
			b.minY = math.Min(b.minY, y)
			b.maxY = math.Max(b.maxY, y)
		}
	}
	return b, found
}

func padBounds(b bounds) bounds {
	if math.Abs(b.maxX-b.minX) < 1e-9 {
		b.minX -= 0.5
		b.maxX += 0.5
	}
	if math.Abs(b.maxY-b.minY) < 1e-9 {
		b.minY--
		b.maxY++
	}
	return b
}

func autoPlotWidth() int {
	return PlotWidthFor(TerminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisWidth()
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func axisWidth() int {
	return axisLabelWidth + displayWidth(axisSeparator)
}

// TerminalWidth returns the stdout width or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether w is a color-capable terminal.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(height int, minY, maxY float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatTick(maxY)
	if height > 2 {
		labels[height/2] = formatTick((minY + maxY) / 2)
	}
	if height > 1 {
		labels[height-1] = formatTick(minY)
	}
	return labels
}

func formatTick(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	if len(s) > axisLabelWidth {
		s = fmt.Sprintf("%.0e", v)
	}
	return s
}

func xAxisLine(ticks []string, b bounds, width int) string {
	prefix := strings.Repeat(" ", axisWidth())
	line := []rune(strings.Repeat(" ", width))
	place := func(x float64, label string) {
		col := scaleToDots(x, b.minX, b.maxX, width*2) / 2
		runes := []rune(label)
		start := col - len(runes)/2
		if start+len(runes) > width {
			start = width - len(runes)
		}
		if start < 0 {
			start = 0
		}
		for i, r := range runes {
			if start+i < width {
				line[start+i] = r
			}
		}
	}
	if len(ticks) > 0 {
		for i, label := range ticks {
			place(float64(i), truncate(label, maxInt(1, width/len(ticks)-1)))
		}
	} else {
		place(b.minX, formatTick(b.minX))
		place(b.maxX, formatTick(b.maxX))
	}
	return strings.TrimRight(prefix+string(line), " ")
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func scaleToDots(v, minVal, maxVal float64, dots int) int {
	if dots <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	d := int(math.Round(pos * float64(dots-1)))
	if d < 0 {
		d = 0
	}
	if d >= dots {
		d = dots - 1
	}
	return d
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	return height - 1 - scaleToDots(v, minVal, maxVal, height)
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for i, s := range series {
		styleName := lineStyles[i%len(lineStyles)].name
		if s.Points {
			styleName = "points"
		}
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, styleName)
		if useColor {
			color := colorPalette[i%len(colorPalette)].code
			label = color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
