package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/canvaskit/pkg/pipeline"
	"github.com/matzehuels/canvaskit/pkg/session"
)

func press(m ChoiceModel, keys ...tea.KeyMsg) (ChoiceModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(ChoiceModel)
	}
	return m, cmd
}

func TestChoiceModel(t *testing.T) {
	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	esc := tea.KeyMsg{Type: tea.KeyEsc}
	key := func(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want pipeline.Choice
	}{
		{"enter keeps merge", []tea.KeyMsg{enter}, pipeline.ChoiceMerge},
		{"up selects replace", []tea.KeyMsg{up, enter}, pipeline.ChoiceReplace},
		{"up stops at the top", []tea.KeyMsg{up, up, up, enter}, pipeline.ChoiceReplace},
		{"down selects cancel", []tea.KeyMsg{down, enter}, pipeline.ChoiceCancel},
		{"shortcut r", []tea.KeyMsg{key('r')}, pipeline.ChoiceReplace},
		{"shortcut m", []tea.KeyMsg{down, key('m')}, pipeline.ChoiceMerge},
		{"escape cancels", []tea.KeyMsg{up, esc}, pipeline.ChoiceCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(NewChoiceModel(3, 5), tt.keys...)
			if m.Selected != tt.want {
				t.Errorf("Selected = %q, want %q", m.Selected, tt.want)
			}
			if cmd == nil {
				t.Error("final key should quit the program")
			}
		})
	}
}

func TestChoiceModelIgnoresOtherMessages(t *testing.T) {
	m, cmd := press(NewChoiceModel(1, 1), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil || m.Selected != "" {
		t.Errorf("unbound key changed the model: %+v", m)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if next.(ChoiceModel).Cursor != m.Cursor {
		t.Error("window size message moved the cursor")
	}
}

func TestChoiceModelView(t *testing.T) {
	view := NewChoiceModel(3, 5).View()
	for _, want := range []string{"Import 3 nodes into a diagram with 5", "replace", "merge", "cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	out := renderHistory(session.HistoryInfo{Len: 3, Cursor: 1, Limit: 50, Nodes: []int{0, 2, 4}})
	for _, want := range []string{"Step", "Nodes", "▸", "3 of 50 entries kept, 1 undo, 1 redo"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderHistory() missing %q:\n%s", want, out)
		}
	}

	text := renderHistory(session.HistoryInfo{Len: 1, Cursor: 0, Limit: 50, Sizes: []int{12}})
	if !strings.Contains(text, "Bytes") || !strings.Contains(text, "12") {
		t.Errorf("text history should show byte sizes:\n%s", text)
	}
}
