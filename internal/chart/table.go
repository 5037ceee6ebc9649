package chart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pracviz/internal/model"
)

// RenderTable prints a column-aligned preview of the table, limited to
// maxRows rows when maxRows > 0.
func RenderTable(w io.Writer, table model.Table, maxRows int) error {
	rows := table.Rows
	truncated := 0
	if maxRows > 0 && len(rows) > maxRows {
		truncated = len(rows) - maxRows
		rows = rows[:maxRows]
	}
	for _, line := range FormatTable(table.Columns, rows, numericColumns(rows)) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	if truncated > 0 {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", truncated); err != nil {
			return err
		}
	}
	return nil
}

// numericColumns marks columns whose non-empty cells all parse as numbers.
func numericColumns(rows [][]string) map[int]bool {
	numeric := map[int]bool{}
	seen := map[int]bool{}
	for _, row := range rows {
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			_, err := strconv.ParseFloat(cell, 64)
			if !seen[i] {
				seen[i] = true
				numeric[i] = err == nil
				continue
			}
			if err != nil {
				numeric[i] = false
			}
		}
	}
	return numeric
}

// FormatTable pads cells into aligned columns.
func FormatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}

func truncate(value string, width int) string {
	return runewidth.Truncate(value, width, "…")
}
