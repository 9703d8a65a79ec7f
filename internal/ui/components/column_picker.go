package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/render"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

// ToggleColumnMsg asks the app to add or remove a display column
type ToggleColumnMsg struct {
	Column string
}

// CloseColumnPickerMsg is sent when the picker should close
type CloseColumnPickerMsg struct{}

// ColumnPicker chooses the display columns with a fuzzy search box
type ColumnPicker struct {
	Width  int
	Height int
	Theme  theme.Theme

	search   *SearchInput
	columns  []dataset.Column
	selected map[string]bool
	visible  []dataset.Column
	cursor   int
	offset   int
}

// NewColumnPicker creates a new column picker
func NewColumnPicker(th theme.Theme) *ColumnPicker {
	return &ColumnPicker{
		Width:    60,
		Height:   24,
		Theme:    th,
		search:   NewSearchInput(th, "cerca colonna (n: numeriche, t: testuali, ! nega)"),
		selected: map[string]bool{},
	}
}

// SetColumns loads the dataset columns and the current selection
func (cp *ColumnPicker) SetColumns(columns []dataset.Column, selected []string) {
	cp.columns = columns
	cp.search.Reset()
	cp.cursor = 0
	cp.offset = 0
	cp.SetSelected(selected)
}

// SetSelected replaces the checked columns
func (cp *ColumnPicker) SetSelected(selected []string) {
	cp.selected = make(map[string]bool, len(selected))
	for _, c := range selected {
		cp.selected[c] = true
	}
	cp.refresh()
}

// Visible returns the columns currently listed
func (cp *ColumnPicker) Visible() []dataset.Column {
	return cp.visible
}

// Cursor returns the highlighted column name, or ""
func (cp *ColumnPicker) Cursor() string {
	if cp.cursor < len(cp.visible) {
		return cp.visible[cp.cursor].Name
	}
	return ""
}

func (cp *ColumnPicker) refresh() {
	matches := FilterColumns(cp.columns, ParseSearchQuery(cp.search.Value()))
	if cp.search.Scope == ScopeSelected {
		var only []dataset.Column
		for _, c := range matches {
			if cp.selected[c.Name] {
				only = append(only, c)
			}
		}
		matches = only
	}
	cp.visible = matches
	if cp.cursor >= len(cp.visible) {
		cp.cursor = len(cp.visible) - 1
	}
	if cp.cursor < 0 {
		cp.cursor = 0
	}
	cp.clampOffset()
}

func (cp *ColumnPicker) listHeight() int {
	h := cp.Height - 9
	if h < 1 {
		h = 1
	}
	return h
}

func (cp *ColumnPicker) clampOffset() {
	if cp.cursor < cp.offset {
		cp.offset = cp.cursor
	}
	if cp.cursor >= cp.offset+cp.listHeight() {
		cp.offset = cp.cursor - cp.listHeight() + 1
	}
}

// Update handles keyboard input
func (cp *ColumnPicker) Update(msg tea.KeyMsg) (*ColumnPicker, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return cp, func() tea.Msg {
			return CloseColumnPickerMsg{}
		}
	case "up", "ctrl+p":
		if cp.cursor > 0 {
			cp.cursor--
			cp.clampOffset()
		}
		return cp, nil
	case "down", "ctrl+n":
		if cp.cursor < len(cp.visible)-1 {
			cp.cursor++
			cp.clampOffset()
		}
		return cp, nil
	case "tab":
		cp.search.ToggleScope()
		cp.refresh()
		return cp, nil
	case "enter":
		name := cp.Cursor()
		if name == "" {
			return cp, nil
		}
		cp.selected[name] = !cp.selected[name]
		return cp, func() tea.Msg {
			return ToggleColumnMsg{Column: name}
		}
	}

	var cmd tea.Cmd
	cp.search, cmd = cp.search.Update(msg)
	cp.refresh()
	return cp, cmd
}

// View renders the picker
func (cp *ColumnPicker) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(cp.Theme.Foreground).
		Background(cp.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Colonne (%d selezionate)", len(cp.selected))))

	instrStyle := lipgloss.NewStyle().
		Foreground(cp.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Naviga  Enter: Mostra/Nascondi  Tab: Tutte/Selezionate  Esc: Chiudi"))

	cp.search.Width = cp.Width - 6
	sections = append(sections, cp.search.View())

	if len(cp.visible) == 0 {
		sections = append(sections, instrStyle.Render("Nessuna colonna corrisponde alla ricerca"))
	}

	nameWidth := cp.Width - 24
	if nameWidth < 10 {
		nameWidth = 10
	}
	end := cp.offset + cp.listHeight()
	if end > len(cp.visible) {
		end = len(cp.visible)
	}
	for i := cp.offset; i < end; i++ {
		col := cp.visible[i]
		check := "[ ]"
		if cp.selected[col.Name] {
			check = "[x]"
		}
		kind := "testo"
		if col.Type == dataset.Numeric {
			kind = "numero"
		}
		if render.Layout(col.Name).Pinned {
			kind += ", fissa"
		}

		line := fmt.Sprintf("%s %s %s", check, util.PadOrTruncate(col.Name, nameWidth),
			lipgloss.NewStyle().Foreground(cp.Theme.Muted).Render(kind))

		style := lipgloss.NewStyle().Padding(0, 1)
		if i == cp.cursor {
			style = style.Background(cp.Theme.Selection).Foreground(cp.Theme.Foreground)
		}
		sections = append(sections, style.Render(line))
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cp.Theme.BorderFocused).
		Width(cp.Width).
		Height(cp.Height).
		Padding(0, 1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
