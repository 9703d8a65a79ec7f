package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/render"
)

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowSelected lipgloss.Color
	PinnedColumn     lipgloss.Color

	// Conditional highlight colors (background)
	StrongPositive lipgloss.Color
	MildPositive   lipgloss.Color
	StrongAlert    lipgloss.Color
	MildAlert      lipgloss.Color
	HighlightText  lipgloss.Color
}

// HighlightStyle maps a highlight category to a cell style.
// StyleNone returns an empty style.
func (t Theme) HighlightStyle(s render.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	switch s {
	case render.StyleStrongPositive:
		return st.Background(t.StrongPositive).Foreground(t.HighlightText).Bold(true)
	case render.StyleMildPositive:
		return st.Background(t.MildPositive).Foreground(t.HighlightText)
	case render.StyleStrongAlert:
		return st.Background(t.StrongAlert).Foreground(t.HighlightText).Bold(true)
	case render.StyleMildAlert:
		return st.Background(t.MildAlert).Foreground(t.HighlightText)
	}
	return st
}

// Names lists the selectable themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
