// Package styles holds the lipgloss styles used by command line output
package styles

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/render"
)

const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolArrow   = "→"
)

var forceNoColor atomic.Bool

// SetNoColor disables colors regardless of the environment (--no-color)
func SetNoColor(v bool) {
	forceNoColor.Store(v)
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("LAZYSHEET_NO_COLOR") != ""
}

var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Foreground(Muted)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	HeaderStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

var highlightStyles = map[render.Style]lipgloss.Style{
	render.StyleStrongPositive: lipgloss.NewStyle().Background(ColorStrongPositive).Foreground(TextPrimary),
	render.StyleMildPositive:   lipgloss.NewStyle().Background(ColorMildPositive).Foreground(lipgloss.Color("#000000")),
	render.StyleStrongAlert:    lipgloss.NewStyle().Background(ColorStrongAlert).Foreground(TextPrimary),
	render.StyleMildAlert:      lipgloss.NewStyle().Background(ColorMildAlert).Foreground(lipgloss.Color("#000000")),
}

func paint(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Highlight paints text with the colors of a highlight category
func Highlight(s render.Style, text string) string {
	st, ok := highlightStyles[s]
	if !ok {
		return text
	}
	return paint(st, text)
}

// Header formats a table header cell
func Header(text string) string {
	return paint(HeaderStyle, text)
}

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", paint(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return paint(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", paint(WarningStyle, symbol), msg)
}

// InfoMsg formats an info message
func InfoMsg(msg string) string {
	return paint(InfoStyle, msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return paint(MutedStyle, msg)
}

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return paint(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", paint(HelpKey, key), paint(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
