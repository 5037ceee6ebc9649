package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/pipeline"
)

// Markdown builds the report as a Markdown document. Charts are embedded as
// fenced text blocks without color.
func Markdown(res pipeline.Result, opts Options) string {
	opts.Color = false
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", PageTitle)
	fmt.Fprintf(&b, "## %s\n\n", PreviewTitle)
	b.WriteString(markdownTable(res.Preview, previewLimit(opts)))
	b.WriteString("\n")

	if len(res.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&b, "- **%s**: %s", d.Level, escapeMarkdown(d.Message))
			if d.Source != "" {
				fmt.Fprintf(&b, " (`%s`)", d.Source)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Graphs\n\n")
	for _, s := range Sections(res, opts) {
		fmt.Fprintf(&b, "### %s\n\n", s.Title)
		if s.Placeholder {
			fmt.Fprintf(&b, "> %s\n\n", s.Body)
			continue
		}
		fmt.Fprintf(&b, "```text\n%s\n```\n\n", s.Body)
		if s.Caption != "" {
			fmt.Fprintf(&b, "_%s_\n\n", s.Caption)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderMarkdown styles Markdown for the terminal.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func markdownTable(table model.Table, limit int) string {
	if len(table.Columns) == 0 {
		return "_No CSV data loaded._\n"
	}
	var b strings.Builder
	header := make([]string, len(table.Columns))
	sep := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = escapeCell(col)
		sep[i] = "---"
	}
	fmt.Fprintf(&b, "| %s |\n", strings.Join(header, " | "))
	fmt.Fprintf(&b, "| %s |\n", strings.Join(sep, " | "))
	rows := table.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, row := range rows {
		cells := make([]string, len(table.Columns))
		for i := range table.Columns {
			if i < len(row) {
				cells[i] = escapeCell(row[i])
			}
		}
		fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
	}
	if len(rows) < len(table.Rows) {
		fmt.Fprintf(&b, "\n_%d more rows not shown._\n", len(table.Rows)-len(rows))
	}
	return b.String()
}

func previewLimit(opts Options) int {
	if opts.PreviewRows == 0 {
		return defaultPreviewRows
	}
	return opts.PreviewRows
}

func escapeCell(value string) string {
	return strings.ReplaceAll(escapeMarkdown(value), "|", `\|`)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

func escapeMarkdown(value string) string {
	return markdownEscaper.Replace(value)
}
