package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// sourceDescriptions give the picker a one-line hint per source.
var sourceDescriptions = map[string]string{
	"espn":     "ESPN editorial rankings",
	"yahoo":    "Yahoo editorial rankings",
	"sleeper":  "Sleeper trending-adds ADP",
	"espn-api": "ESPN private API (not implemented)",
}

// SourceListModel is the bubbletea model for interactive source selection.
type SourceListModel struct {
	Sources  []string
	Cursor   int
	Selected string
}

// NewSourceListModel creates a source list model.
func NewSourceListModel(sources []string) SourceListModel {
	return SourceListModel{Sources: sources}
}

func (m SourceListModel) Init() tea.Cmd {
	return nil
}

func (m SourceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Sources)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Sources[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SourceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Ranking Source"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Sources {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-10s  %s", cursor, name, listDimStyle.Render(sourceDescriptions[name]))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Sources))))
	return b.String()
}

// pickSource runs the interactive picker and returns the chosen source.
// ok is false when the user quit without selecting.
func pickSource(sources []string) (string, bool, error) {
	final, err := tea.NewProgram(NewSourceListModel(sources)).Run()
	if err != nil {
		return "", false, err
	}
	m, ok := final.(SourceListModel)
	if !ok || m.Selected == "" {
		return "", false, nil
	}
	return m.Selected, true, nil
}
