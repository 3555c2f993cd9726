package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/stsnsn/quickARSC/internal/arsc"
	"github.com/stsnsn/quickARSC/internal/report"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	labelStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	valueStyle  = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(accentColor)
	headerStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
)

// listItem is one report row.
type listItem struct {
	table *report.Table
	row   int
}

func (i listItem) get(col string) string {
	v, _ := i.table.Get(i.row, col)
	return v
}

func (i listItem) FilterValue() string {
	return i.get(report.ColQuery) + " " + i.get(report.ColSequenceID)
}

func (i listItem) Title() string {
	if id := i.get(report.ColSequenceID); id != "" {
		return i.get(report.ColQuery) + " / " + id
	}
	return i.get(report.ColQuery)
}

func (i listItem) Description() string {
	length := i.get(report.ColTotalLength)
	if i.table.PerSequence() {
		length = i.get(report.ColLength)
	}
	return fmt.Sprintf("N %s  C %s  len %s", i.get(report.ColNARSC), i.get(report.ColCARSC), length)
}

type mode int

const (
	modeMetrics mode = iota
	modeComposition
	modeNucleotide
	modeCount
)

func (m mode) String() string {
	switch m {
	case modeMetrics:
		return "Metrics"
	case modeComposition:
		return "Composition"
	case modeNucleotide:
		return "Nucleotide"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	table         *report.Table
	source        string
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
}

func newModel(tbl *report.Table, source string) model {
	items := make([]list.Item, len(tbl.Records))
	for i := range tbl.Records {
		items[i] = listItem{table: tbl, row: i}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "quickARSC report"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:        l,
		table:       tbl,
		source:      source,
		currentMode: modeMetrics,
	}
}

func loadModel(path string) (model, error) {
	f, err := os.Open(path)
	if err != nil {
		return model{}, err
	}
	defer f.Close()
	tbl, err := report.Read(f)
	if err != nil {
		return model{}, fmt.Errorf("%s: %w", path, err)
	}
	return newModel(tbl, path), nil
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % modeCount
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		// keys are literal while the filter prompt is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeMetrics
			return m, nil
		case "2":
			m.currentMode = modeComposition
			return m, nil
		case "3":
			m.currentMode = modeNucleotide
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftPanel(), m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	panel := containerStyle.Width(m.width*2/3 - 2).Height(m.height - 4)
	if len(m.table.Records) == 0 {
		return panel.Render("No rows in report")
	}
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return panel.Render("No row selected")
	}
	return panel.Render(strings.Join(m.buildRightLines(item.row), "\n"))
}

// buildRightLines renders the details pane of row for the current mode.
func (m model) buildRightLines(row int) []string {
	item := listItem{table: m.table, row: row}
	lines := []string{titleStyle.Render(item.Title()), ""}

	switch m.currentMode {
	case modeMetrics:
		lines = append(lines, headerStyle.Render("Metrics:"))
		lengthCol := report.ColTotalLength
		if m.table.PerSequence() {
			lengthCol = report.ColLength
		}
		for _, col := range []string{report.ColNARSC, report.ColCARSC, report.ColSARSC, report.ColAvgResMW, lengthCol} {
			lines = append(lines, field(col, item.get(col)))
		}

	case modeComposition:
		lines = append(lines, headerStyle.Render("Amino-acid composition:"))
		if !m.table.Has("A") {
			return append(lines, labelStyle.Render("No composition columns (run quickarsc with -a)"))
		}
		width := max(m.width*2/3-20, 10)
		for _, s := range arsc.Symbols() {
			v, _ := m.table.Float(row, string(s))
			lines = append(lines, fmt.Sprintf("%c %s %s", s, bar(v, width), labelStyle.Render(item.get(string(s)))))
		}

	case modeNucleotide:
		lines = append(lines, headerStyle.Render("Genome base composition:"))
		if !m.table.Has(report.ColGC) {
			return append(lines, labelStyle.Render("No nucleotide columns in this report"))
		}
		for _, col := range []string{report.ColGC, "base_A", "base_T", "base_G", "base_C"} {
			lines = append(lines, field(col, item.get(col)))
		}
	}
	return lines
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
}

// bar draws a fraction in [0, 1] as a horizontal bar of at most width cells.
func bar(v float64, width int) string {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	n := int(math.Round(min(v, 1) * float64(width)))
	return barStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", width-n)
}

func (m model) renderStatusBar() string {
	leftInfo := fmt.Sprintf("%d/%d rows", m.selectedIndex+1, len(m.table.Records))
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode)
	rightInfo := "Press 'h' for help, 'q' to quit"

	spacing := m.width - len(leftInfo) - len(centerInfo) - len(rightInfo) - 6
	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		statusContent = leftInfo + strings.Repeat(" ", leftSpacing) + centerInfo +
			strings.Repeat(" ", spacing-leftSpacing) + rightInfo
	} else {
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}
	return statusBarStyle.Width(m.width).Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `quickARSC report viewer - Help

Navigation:
  up/down, j/k   Navigate rows
  /              Filter by genome or sequence id

View Modes:
  1              Metrics
  2              Amino-acid composition
  3              Genome base composition
  tab            Next mode

General:
  h              Toggle this help
  q, Ctrl+C      Quit

Report: ` + m.source + `
Rows: ` + fmt.Sprintf("%d", len(m.table.Records)) + `
`
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: quickarsc-view <report.tsv>")
		os.Exit(2)
	}
	m, err := loadModel(os.Args[1])
	if err != nil {
		log.Fatal("cannot load report", "err", err)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal("viewer failed", "err", err)
	}
}
