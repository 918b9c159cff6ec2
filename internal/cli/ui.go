package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorCyan  = lipgloss.Color("37")
	colorGreen = lipgloss.Color("71")
	colorAmber = lipgloss.Color("214")
	colorRed   = lipgloss.Color("203")
	colorBlue  = lipgloss.Color("111")
	colorWhite = lipgloss.Color("254")
	colorGray  = lipgloss.Color("246")
	colorDim   = lipgloss.Color("241")
)

var (
	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim    = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// uiOut receives all user-facing status output. Tests replace it.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Status Lines
// =============================================================================

type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed)},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorAmber)},
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
}

func status(kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarning {
		msg = statusIcons[kind].style.Render(msg)
	}
	fmt.Fprintln(uiOut, statusIcons[kind].style.Render(statusIcons[kind].icon), msg)
}

func printSuccess(format string, args ...any) { status(statusSuccess, format, args...) }
func printError(format string, args ...any)   { status(statusError, format, args...) }
func printWarning(format string, args ...any) { status(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { status(statusInfo, format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, " ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written artifact.
func printFile(path string) {
	fmt.Fprintln(uiOut, " ", StyleDim.Render("→"), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key), StyleValue.Render(value))
}

// printStats summarizes a layout as "N entities · M statements · cached".
// Zero counts are omitted.
func printStats(entities, statements int, cached bool) {
	var parts []string
	if entities > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", entities, plural(entities, "entity", "entities"))))
	}
	if statements > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", statements, plural(statements, "statement", "statements"))))
	}
	if cached {
		parts = append(parts, statusIcons[statusSuccess].style.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(uiOut, " ", strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(uiOut) }
