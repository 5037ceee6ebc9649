// Package dashboard provides the Bubble Tea practice analytics interface.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/pipeline"
	"github.com/verte-zerg/pracviz/internal/report"
)

const (
	tabData = iota
	tabPractice
	tabInstruments
	tabPerformance
)

const (
	plotHeight     = 10
	maxColumnWidth = 24
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	placeholderBox  = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// StateSaver persists the selection slot between runs.
type StateSaver interface {
	SaveState(ctx context.Context, name string, state model.State) error
}

// Options configures a dashboard model.
type Options struct {
	Runner  *pipeline.Runner
	Saver   StateSaver
	Slot    string
	State   model.State
	Changes <-chan struct{}
	Logger  *zap.Logger
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	runner  *pipeline.Runner
	saver   StateSaver
	slot    string
	changes <-chan struct{}
	logger  *zap.Logger

	state  model.State
	result pipeline.Result
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	preview   table.Model
	cursor    int

	width  int
	height int
}

type reloadMsg struct{}

// NewModel constructs the dashboard and runs the first render.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		runner:  opts.Runner,
		saver:   opts.Saver,
		slot:    opts.Slot,
		changes: opts.Changes,
		logger:  logger,
		state:   opts.State,
		tabs:    []string{"Data", "Practice Log", "By Instrument", "Performance"},
	}
	m.initViewports()
	m.preview = table.New(table.WithHeight(1))
	m.preview.SetStyles(previewTableStyles())
	m.refresh(false)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case reloadMsg:
		m.logger.Debug("reloading after data file change")
		m.refresh(false)
		return m, m.waitForChange()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeTab == tabData {
		m.preview.Focus()
	} else {
		m.preview.Blur()
	}
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "r":
		m.refresh(false)
		return m, nil
	}

	switch m.activeTab {
	case tabInstruments:
		if m.updateSelectionKey(msg.String()) {
			return m, nil
		}
	case tabPerformance:
		switch msg.String() {
		case "-":
			m.stepThreshold(-1)
			return m, nil
		case "=", "+":
			m.stepThreshold(1)
			return m, nil
		}
	case tabData:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	vp := m.viewports[m.activeTab]
	var cmd tea.Cmd
	vp, cmd = vp.Update(msg)
	m.viewports[m.activeTab] = vp
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// State returns the state threaded into the next render.
func (m *Model) State() model.State {
	return m.state
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

// refresh runs the pipeline with the current state. Saving is skipped on
// plain reloads so only user choices are remembered.
func (m *Model) refresh(save bool) {
	if m.runner == nil {
		m.errMsg = "no data sources configured"
		return
	}
	m.result = m.runner.Run(context.Background(), m.state)
	m.state = m.result.Next
	m.errMsg = ""
	if save && m.saver != nil {
		if err := m.saver.SaveState(context.Background(), m.slot, m.state); err != nil {
			m.errMsg = fmt.Sprintf("failed to save selection: %v", err)
			m.logger.Warn("save selection failed", zap.Error(err))
		}
	}
	if n := len(m.result.Bars.Categories); m.cursor >= n {
		m.cursor = maxInt(0, n-1)
	}
	m.applyPreview()
	m.renderTabContents()
}

func (m *Model) updateSelectionKey(key string) bool {
	categories := m.result.Bars.Categories
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.renderTabContents()
		}
		return true
	case "down", "j":
		if m.cursor < len(categories)-1 {
			m.cursor++
			m.renderTabContents()
		}
		return true
	case " ", "enter":
		if len(categories) == 0 {
			return true
		}
		m.state.Selection = toggleInstrument(categories, m.state.Selection, categories[m.cursor])
		m.refresh(true)
		return true
	case "a":
		m.state.Selection = model.Selection{Instruments: append([]string(nil), categories...), Set: true}
		m.refresh(true)
		return true
	case "n":
		m.state.Selection = model.Selection{Instruments: []string{}, Set: true}
		m.refresh(true)
		return true
	}
	return false
}

// toggleInstrument flips one instrument and keeps the category order.
func toggleInstrument(categories []string, sel model.Selection, name string) model.Selection {
	chosen := map[string]bool{}
	if !sel.Set {
		for _, c := range categories {
			chosen[c] = true
		}
	}
	for _, inst := range sel.Instruments {
		chosen[inst] = true
	}
	chosen[name] = !chosen[name]
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if chosen[c] {
			out = append(out, c)
		}
	}
	return model.Selection{Instruments: out, Set: true}
}

func (m *Model) stepThreshold(delta int) {
	line := m.result.Line
	if line.Skipped || line.NoHours {
		return
	}
	next := line.Threshold + delta
	if next < line.MinHour {
		next = line.MinHour
	}
	if next >= line.MaxHour {
		// Zero follows the maximum as the data grows.
		next = 0
	}
	if next == m.state.Threshold {
		return
	}
	m.state.Threshold = next
	m.refresh(true)
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.footerNotice() != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.preview.SetWidth(m.width)
	m.preview.SetHeight(maxInt(1, vpHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabData {
		m.preview.Focus()
	} else {
		m.preview.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSummary() string {
	sel := "all"
	if m.state.Selection.Set {
		sel = fmt.Sprintf("%d of %d", len(m.state.Selection.Instruments), len(m.result.Bars.Categories))
	}
	limit := "max"
	if m.state.Threshold > 0 {
		limit = fmt.Sprintf("%d", m.state.Threshold)
	}
	summary := fmt.Sprintf("%s  rows=%d  selected=%s  hours<=%s", report.PageTitle, len(m.result.Preview.Rows), sel, limit)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q"
	switch m.activeTab {
	case tabInstruments:
		help = "Nav: left/right  Move: up/down  Toggle: space  All: a  None: n  Quit: q"
	case tabPerformance:
		help = "Nav: left/right  Hour limit: -/=  Scroll: up/down  Quit: q"
	}
	return headerStyle.Render(help)
}

// footerNotice returns the line shown under the help text, if any.
func (m *Model) footerNotice() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	diags := m.result.Diagnostics
	if len(diags) == 0 {
		return ""
	}
	worst := diags[0]
	for _, d := range diags[1:] {
		if severity(d.Level) > severity(worst.Level) {
			worst = d
		}
	}
	text := worst.String()
	if len(diags) > 1 {
		text = fmt.Sprintf("%s (+%d more)", text, len(diags)-1)
	}
	text = truncateLine(text, m.width)
	if worst.Level == model.LevelError {
		return errorStyle.Render(text)
	}
	return warnStyle.Render(text)
}

func (m *Model) renderFooter() string {
	if notice := m.footerNotice(); notice != "" {
		return m.renderHelp() + "\n" + notice
	}
	return m.renderHelp()
}

func (m *Model) renderBody() string {
	if m.activeTab == tabData && len(m.result.Preview.Columns) > 0 {
		return tableMutedStyle.Render(m.preview.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	opts := report.Options{Width: width, Height: plotHeight, Color: true}
	m.viewports[tabData].SetContent(report.Preview(m.result.Preview, opts))
	m.viewports[tabPractice].SetContent(renderSection(report.ScatterSection(m.result.Scatter, opts)))
	m.viewports[tabInstruments].SetContent(m.renderInstruments(opts))
	m.viewports[tabPerformance].SetContent(renderSection(report.LineSection(m.result.Line, opts)))
}

func (m *Model) renderInstruments(opts report.Options) string {
	categories := m.result.Bars.Categories
	if len(categories) == 0 {
		return renderSection(report.BarsSection(m.result.Bars, opts))
	}
	chosen := map[string]bool{}
	for _, inst := range m.result.Bars.Selection.Instruments {
		chosen[inst] = true
	}
	lines := []string{titleStyle.Render("Instruments")}
	for i, name := range categories {
		mark := "[ ]"
		if chosen[name] {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %s", mark, name)
		if i == m.cursor {
			line = cursorStyle.Render(fmt.Sprintf("> %s %s", mark, name))
		}
		lines = append(lines, line)
	}
	section := report.BarsSection(m.result.Bars, opts)
	return strings.Join(lines, "\n") + "\n\n" + renderSection(section)
}

func renderSection(s report.Section) string {
	title := titleStyle.Render(s.Title)
	if s.Placeholder {
		return title + "\n" + placeholderBox.Render(s.Body)
	}
	out := title + "\n" + s.Body
	if s.Caption != "" {
		out += "\n" + headerStyle.Render(s.Caption)
	}
	return out
}

func (m *Model) applyPreview() {
	cols, rows := buildPreviewData(m.result.Preview)
	// Rows first so the cursor stays in range when columns shrink.
	m.preview.SetRows(nil)
	m.preview.SetColumns(cols)
	m.preview.SetRows(rows)
}

func buildPreviewData(t model.Table) ([]table.Column, []table.Row) {
	columns := make([]table.Column, len(t.Columns))
	for i, name := range t.Columns {
		width := lipgloss.Width(name)
		for r := range t.Rows {
			width = maxInt(width, lipgloss.Width(t.Cell(r, i)))
		}
		columns[i] = table.Column{Title: name, Width: minInt(width, maxColumnWidth)}
	}
	rows := make([]table.Row, len(t.Rows))
	for r := range t.Rows {
		row := make(table.Row, len(t.Columns))
		for i := range t.Columns {
			row[i] = t.Cell(r, i)
		}
		rows[r] = row
	}
	return columns, rows
}

func previewTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func severity(level model.Level) int {
	switch level {
	case model.LevelError:
		return 2
	case model.LevelWarning:
		return 1
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
