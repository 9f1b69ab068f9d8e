// Package style provides consistent terminal styling using Lipgloss.
package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Success style for positive outcomes (green)
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Bold(true)

	// Warning style for cautionary messages (yellow)
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")).
		Bold(true)

	// Error style for failures (red)
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("1")).
		Bold(true)

	// Dim style for secondary information (gray)
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	// SuccessPrefix is the checkmark prefix for success messages
	SuccessPrefix = Success.Render("✓")

	// ErrorPrefix is the cross prefix for failures
	ErrorPrefix = Error.Render("✗")

	// WarningPrefix is the warning prefix
	WarningPrefix = Warning.Render("⚠")
)

// Successf writes a success line
func Successf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", SuccessPrefix, fmt.Sprintf(format, args...))
}

// Errorf writes a failure line
func Errorf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", ErrorPrefix, fmt.Sprintf(format, args...))
}

// Warnf writes a warning line
func Warnf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", WarningPrefix, fmt.Sprintf(format, args...))
}

// Detailf writes an indented, dimmed detail line
func Detailf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "  %s\n", Dim.Render(fmt.Sprintf(format, args...)))
}
