package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
)

// Search scopes
const (
	ScopeAll      = "all"
	ScopeSelected = "selected"
)

// SearchInput is the query box on top of list dialogs
type SearchInput struct {
	Input textinput.Model
	Scope string
	Theme theme.Theme
	Width int
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme, placeholder string) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 40

	return &SearchInput{
		Input: ti,
		Scope: ScopeAll,
		Theme: th,
	}
}

// ToggleScope switches between all items and selected items
func (s *SearchInput) ToggleScope() {
	if s.Scope == ScopeAll {
		s.Scope = ScopeSelected
	} else {
		s.Scope = ScopeAll
	}
}

// Value returns the current query
func (s *SearchInput) Value() string {
	return s.Input.Value()
}

// Reset clears the search input
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.Scope = ScopeAll
}

// Update forwards editing keys to the text input
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the search input
func (s *SearchInput) View() string {
	scope := "[Tutte]"
	scopeColor := s.Theme.Success
	if s.Scope == ScopeSelected {
		scope = "[Selezionate]"
		scopeColor = s.Theme.Info
	}

	scopeStyle := lipgloss.NewStyle().
		Foreground(scopeColor).
		Bold(true)

	inputWidth := s.Width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	return boxStyle.Render(scopeStyle.Render(scope) + " " + s.Input.View())
}
