package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings, offending fields
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight for emphasized values such as addresses.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning for warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleField       = lipgloss.NewStyle().Foreground(colorYellow)
)

const iconArrow = "→"

// =============================================================================
// Status Lines
// =============================================================================

type statusKind struct {
	icon  string
	style lipgloss.Style
	body  func(string) string
}

var (
	statusSuccess = statusKind{"✓", lipgloss.NewStyle().Foreground(colorGreen), nil}
	statusError   = statusKind{"✗", lipgloss.NewStyle().Foreground(colorRed), nil}
	statusWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorYellow), func(s string) string { return StyleWarning.Render(s) }}
	statusInfo    = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray), nil}
)

func (k statusKind) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if k.body != nil {
		msg = k.body(msg)
	}
	fmt.Fprintln(stdout, k.style.Render(k.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusSuccess.print(format, args...) }
func printError(format string, args ...any)   { statusError.print(format, args...) }
func printWarning(format string, args ...any) { statusWarning.print(format, args...) }
func printInfo(format string, args ...any)    { statusInfo.print(format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a path that was written.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Diagram Output
// =============================================================================

// printStats prints node, group and edge counts on one line, and whether
// the document came from the parse cache.
func printStats(g diagram.Graph, cached bool) {
	groups := 0
	for _, n := range g.Nodes {
		if n.IsGroup() {
			groups++
		}
	}
	parts := []string{
		fmt.Sprintf("%d nodes", len(g.Nodes)-groups),
		fmt.Sprintf("%d groups", groups),
		fmt.Sprintf("%d edges", len(g.Edges)),
	}
	if cached {
		parts = append(parts, statusSuccess.style.Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// printFieldErrors lists every offending field of a document, one per line.
func printFieldErrors(fields errors.ValidationErrors) {
	printError("%d problems found", len(fields))
	for _, fe := range fields {
		field := fe.Field
		if field == "" {
			field = "(document)"
		}
		fmt.Fprintln(stdout, "  "+styleField.Render(field)+" "+StyleDim.Render(fe.Message))
	}
}
