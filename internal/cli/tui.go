package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// watchModel is the bubbletea model of the watch status view.
type watchModel struct {
	Input   string
	Last    *watchStatus
	Renders int
	Width   int
}

func newWatchModel(input string) watchModel {
	return watchModel{Input: input}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	case watchStatus:
		m.Last = &msg
		m.Renders++
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Watching " + m.Input))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("q quit"))
	b.WriteString("\n\n")

	if m.Last == nil {
		b.WriteString(listDimStyle.Render("  waiting for first render..."))
		b.WriteString("\n")
		return b.String()
	}

	s := m.Last
	if s.Err == nil && s.Result != nil {
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + StyleValue.Render(s.Output))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · %d edges · %.0fx%.0f",
			s.Result.Stats.NodeCount, s.Result.Stats.EdgeCount, s.Result.Stats.Width, s.Result.Stats.Height)))
	} else {
		b.WriteString(styleIconError.Render(iconError) + " " + StyleError.Render("render failed, keeping previous output"))
	}
	b.WriteString("\n\n")

	if lines := s.Lines(); len(lines) > 0 {
		b.WriteString(statusTable(lines, m.Width))
		b.WriteString("\n\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [render %d at %s]", m.Renders, s.At.Format(time.TimeOnly))))
	return b.String()
}

// statusTable renders the status list, one row per line.
func statusTable(lines []statusLine, width int) string {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{statusLabel(l.Kind), l.Text}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if row < 0 || row >= len(lines) {
				return lipgloss.NewStyle()
			}
			if lines[row].Kind == statusWarning {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorRed)
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

func statusLabel(k statusKind) string {
	switch k {
	case statusParseError:
		return "parse"
	case statusWarning:
		return "warning"
	case statusLayoutError:
		return "layout"
	default:
		return "error"
	}
}
