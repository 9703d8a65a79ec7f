package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

// ErrorOverlay shows a fatal error full screen
type ErrorOverlay struct {
	Width  int
	Height int
	Theme  theme.Theme
	Err    error
}

// View renders the error, using the structured layout when available
func (eo *ErrorOverlay) View() string {
	if eo.Err == nil {
		return ""
	}

	body := eo.Err.Error()
	if e, ok := util.AsError(eo.Err); ok {
		body = e.Format()
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(eo.Theme.Error).
		Bold(true)
	hint := lipgloss.NewStyle().
		Foreground(eo.Theme.Muted).
		Italic(true).
		Render("r: riprova  q: esci")

	var b strings.Builder
	b.WriteString(titleStyle.Render("Impossibile caricare i dati"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(hint)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(eo.Theme.Error).
		Padding(1, 2).
		Width(min(eo.Width-4, 90)).
		Render(b.String())

	return lipgloss.Place(eo.Width, eo.Height, lipgloss.Center, lipgloss.Center, box)
}
