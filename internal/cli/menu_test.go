package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/onlyonestudio/onlyone/pkg/pipeline"
)

func TestModeMenuSelection(t *testing.T) {
	m := NewModeMenuModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(ModeMenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})

	selected := next.(ModeMenuModel).Selected
	if selected != pipeline.ModeTest {
		t.Errorf("selected = %q, want test", selected)
	}
}

func TestModeMenuQuitWithoutSelection(t *testing.T) {
	m := NewModeMenuModel()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(ModeMenuModel).Selected != "" {
		t.Error("esc should not select a mode")
	}
	if cmd == nil {
		t.Error("esc should quit the program")
	}
}

func TestModeMenuCursorBounds(t *testing.T) {
	m := NewModeMenuModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if next.(ModeMenuModel).Cursor != 0 {
		t.Error("cursor should not move above the first entry")
	}

	for i := 0; i < 10; i++ {
		model, _ := next.(ModeMenuModel).Update(tea.KeyMsg{Type: tea.KeyDown})
		next = model
	}
	if got := next.(ModeMenuModel).Cursor; got != len(modeChoices)-1 {
		t.Errorf("cursor = %d, want last entry", got)
	}
}
