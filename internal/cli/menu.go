package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onlyonestudio/onlyone/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// modeChoice is one selectable pipeline mode.
type modeChoice struct {
	Mode        string
	Description string
}

var modeChoices = []modeChoice{
	{pipeline.ModeValidate, "check input requirements only"},
	{pipeline.ModeTest, "process the first artwork locally"},
	{pipeline.ModeBatch, "process every artwork locally"},
	{pipeline.ModeComplete, "upload and publish to the store"},
}

// ModeMenuModel is the bubbletea model for interactive mode selection.
type ModeMenuModel struct {
	Choices  []modeChoice
	Cursor   int
	Selected string
}

// NewModeMenuModel creates the mode picker.
func NewModeMenuModel() ModeMenuModel {
	return ModeMenuModel{Choices: modeChoices}
}

func (m ModeMenuModel) Init() tea.Cmd {
	return nil
}

func (m ModeMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Choices)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Choices[m.Cursor].Mode
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ModeMenuModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Run Mode"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, choice := range m.Choices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, choice.Mode, listDimStyle.Render(choice.Description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickMode runs the interactive menu and returns the chosen mode, or ""
// when the user quit without selecting.
func pickMode() (string, error) {
	p := tea.NewProgram(NewModeMenuModel())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(ModeMenuModel); ok {
		return m.Selected, nil
	}
	return "", nil
}
