package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/canvaskit/pkg/pipeline"
	"github.com/matzehuels/canvaskit/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ChoiceModel - Replace / Merge / Cancel on import
// =============================================================================

var choiceHelp = map[pipeline.Choice]string{
	pipeline.ChoiceReplace: "discard the current diagram",
	pipeline.ChoiceMerge:   "append, renaming colliding identifiers",
	pipeline.ChoiceCancel:  "leave the diagram untouched",
}

// ChoiceModel is the bubbletea model asking how to apply an import.
type ChoiceModel struct {
	Title    string
	Choices  []pipeline.Choice
	Cursor   int
	Selected pipeline.Choice
}

// NewChoiceModel creates the chooser for an import of nodes nodes into a
// diagram that already has existing.
func NewChoiceModel(nodes, existing int) ChoiceModel {
	return ChoiceModel{
		Title:   fmt.Sprintf("Import %d nodes into a diagram with %d", nodes, existing),
		Choices: pipeline.Choices,
		Cursor:  1, // merge
	}
}

func (m ChoiceModel) Init() tea.Cmd {
	return nil
}

func (m ChoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Selected = pipeline.ChoiceCancel
		return m, tea.Quit
	case "up", "k", "left", "h":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j", "right", "l", "tab":
		if m.Cursor < len(m.Choices)-1 {
			m.Cursor++
		}
	case "r":
		m.Selected = pipeline.ChoiceReplace
		return m, tea.Quit
	case "m":
		m.Selected = pipeline.ChoiceMerge
		return m, tea.Quit
	case "c":
		m.Selected = pipeline.ChoiceCancel
		return m, tea.Quit
	case "enter":
		m.Selected = m.Choices[m.Cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m ChoiceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  r/m/c shortcut  q cancel"))
	b.WriteString("\n\n")

	for i, c := range m.Choices {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s%-8s", cursor, c)
		b.WriteString(style.Render(line))
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(choiceHelp[c]))
		b.WriteString("\n")
	}
	return b.String()
}

// chooseInteractively is the terminal [pipeline.Chooser].
func chooseInteractively(ctx context.Context, imp *pipeline.Import) (pipeline.Choice, error) {
	model := NewChoiceModel(len(imp.Result().Graph.Nodes), len(imp.Graph().Nodes))
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("choose: %w", err)
	}
	if m, ok := final.(ChoiceModel); ok && m.Selected != "" {
		return m.Selected, nil
	}
	return pipeline.ChoiceCancel, nil
}

// =============================================================================
// History table
// =============================================================================

// renderHistory draws the undo log, oldest first, marking the live entry.
func renderHistory(info session.HistoryInfo) string {
	textBased := info.Sizes != nil
	sizeHeader := "Nodes"
	if textBased {
		sizeHeader = "Bytes"
	}

	rows := make([][]string, 0, info.Len)
	for i := 0; i < info.Len; i++ {
		marker := ""
		if i == info.Cursor {
			marker = "▸"
		}
		size := 0
		if textBased {
			size = info.Sizes[i]
		} else if i < len(info.Nodes) {
			size = info.Nodes[i]
		}
		rows = append(rows, []string{marker, strconv.Itoa(i), strconv.Itoa(size)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Step", sizeHeader).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == info.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case row > info.Cursor:
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d entries kept, %d undo, %d redo",
		info.Len, info.Limit, info.Cursor, info.Len-1-info.Cursor)))
	return b.String()
}
