package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

// PresetsMode represents the dialog mode
type PresetsMode int

const (
	PresetsModeList PresetsMode = iota
	PresetsModeSave
)

// ApplyPresetMsg is sent when a preset should be loaded into the session
type ApplyPresetMsg struct {
	Preset models.Preset
}

// SavePresetMsg asks the app to store the current filters. A non-empty
// ID overwrites that preset.
type SavePresetMsg struct {
	ID          string
	Name        string
	Description string
}

// DeletePresetMsg asks the app to delete a preset
type DeletePresetMsg struct {
	ID string
}

// ClosePresetsDialogMsg is sent when dialog should close
type ClosePresetsDialogMsg struct{}

// PresetsDialog lists, applies and saves filter presets
type PresetsDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	mode     PresetsMode
	presets  []models.Preset
	selected int
	offset   int

	nameInput        textinput.Model
	descriptionInput textinput.Model
	currentField     int // 0=name, 1=description
	editingID        string
}

// NewPresetsDialog creates a new presets dialog
func NewPresetsDialog(th theme.Theme) *PresetsDialog {
	name := textinput.New()
	name.Placeholder = "nome"
	name.CharLimit = 64

	desc := textinput.New()
	desc.Placeholder = "descrizione (facoltativa)"
	desc.CharLimit = 200

	return &PresetsDialog{
		Width:            80,
		Height:           24,
		Theme:            th,
		mode:             PresetsModeList,
		nameInput:        name,
		descriptionInput: desc,
	}
}

// SetPresets updates the preset list
func (pd *PresetsDialog) SetPresets(presets []models.Preset) {
	pd.presets = presets
	if pd.selected >= len(presets) {
		pd.selected = len(presets) - 1
	}
	if pd.selected < 0 {
		pd.selected = 0
	}
	pd.offset = 0
}

// Mode returns the dialog mode
func (pd *PresetsDialog) Mode() PresetsMode {
	return pd.mode
}

// StartSave opens the dialog directly on the save form
func (pd *PresetsDialog) StartSave() {
	pd.startEdit("", "", "")
}

func (pd *PresetsDialog) startEdit(id, name, description string) {
	pd.mode = PresetsModeSave
	pd.editingID = id
	pd.nameInput.SetValue(name)
	pd.descriptionInput.SetValue(description)
	pd.currentField = 0
	pd.nameInput.Focus()
	pd.descriptionInput.Blur()
}

// Update handles keyboard input
func (pd *PresetsDialog) Update(msg tea.KeyMsg) (*PresetsDialog, tea.Cmd) {
	switch pd.mode {
	case PresetsModeList:
		return pd.handleListMode(msg)
	case PresetsModeSave:
		return pd.handleSaveMode(msg)
	}
	return pd, nil
}

func (pd *PresetsDialog) visibleHeight() int {
	h := (pd.Height - 8) / 2
	if h < 1 {
		h = 1
	}
	return h
}

func (pd *PresetsDialog) handleListMode(msg tea.KeyMsg) (*PresetsDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return pd, func() tea.Msg {
			return ClosePresetsDialogMsg{}
		}
	case "up", "k":
		if pd.selected > 0 {
			pd.selected--
			if pd.selected < pd.offset {
				pd.offset = pd.selected
			}
		}
	case "down", "j":
		if pd.selected < len(pd.presets)-1 {
			pd.selected++
			if pd.selected >= pd.offset+pd.visibleHeight() {
				pd.offset = pd.selected - pd.visibleHeight() + 1
			}
		}
	case "enter":
		if pd.selected < len(pd.presets) {
			p := pd.presets[pd.selected]
			return pd, func() tea.Msg {
				return ApplyPresetMsg{Preset: p}
			}
		}
	case "a", "n":
		pd.StartSave()
	case "u":
		// overwrite the selected preset with the current filters
		if pd.selected < len(pd.presets) {
			p := pd.presets[pd.selected]
			pd.startEdit(p.ID, p.Name, p.Description)
		}
	case "d", "x":
		if pd.selected < len(pd.presets) {
			id := pd.presets[pd.selected].ID
			return pd, func() tea.Msg {
				return DeletePresetMsg{ID: id}
			}
		}
	}
	return pd, nil
}

func (pd *PresetsDialog) focusField(i int) {
	pd.currentField = i
	if i == 0 {
		pd.nameInput.Focus()
		pd.descriptionInput.Blur()
	} else {
		pd.nameInput.Blur()
		pd.descriptionInput.Focus()
	}
}

func (pd *PresetsDialog) handleSaveMode(msg tea.KeyMsg) (*PresetsDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		pd.mode = PresetsModeList
		return pd, nil
	case "tab", "shift+tab":
		pd.focusField(1 - pd.currentField)
		return pd, nil
	case "enter":
		if pd.currentField == 0 {
			pd.focusField(1)
			return pd, nil
		}
		name := strings.TrimSpace(pd.nameInput.Value())
		if name == "" {
			pd.focusField(0)
			return pd, nil
		}
		save := SavePresetMsg{
			ID:          pd.editingID,
			Name:        name,
			Description: strings.TrimSpace(pd.descriptionInput.Value()),
		}
		pd.mode = PresetsModeList
		return pd, func() tea.Msg {
			return save
		}
	}

	var cmd tea.Cmd
	if pd.currentField == 0 {
		pd.nameInput, cmd = pd.nameInput.Update(msg)
	} else {
		pd.descriptionInput, cmd = pd.descriptionInput.Update(msg)
	}
	return pd, cmd
}

// View renders the dialog
func (pd *PresetsDialog) View() string {
	switch pd.mode {
	case PresetsModeSave:
		return pd.renderSave()
	default:
		return pd.renderList()
	}
}

func (pd *PresetsDialog) title(text string) string {
	return lipgloss.NewStyle().
		Foreground(pd.Theme.Foreground).
		Background(pd.Theme.Info).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

func (pd *PresetsDialog) container(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pd.Theme.BorderFocused).
		Width(pd.Width).
		Height(pd.Height).
		Padding(1).
		Render(content)
}

func (pd *PresetsDialog) renderList() string {
	var sections []string
	sections = append(sections, pd.title("Preset di filtri"))

	instrStyle := lipgloss.NewStyle().
		Foreground(pd.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Naviga  Enter: Applica  a: Salva  u: Sovrascrivi  d: Elimina  Esc: Chiudi"))

	if len(pd.presets) == 0 {
		sections = append(sections, "\nNessun preset salvato. Premi 'a' per salvare i filtri correnti.")
		return pd.container(strings.Join(sections, "\n"))
	}

	sections = append(sections, "")
	end := pd.offset + pd.visibleHeight()
	if end > len(pd.presets) {
		end = len(pd.presets)
	}
	textWidth := pd.Width - 8
	for i := pd.offset; i < end; i++ {
		p := pd.presets[i]
		groups, filters := p.FilterSet().Counts()

		meta := fmt.Sprintf("%s, %s, logica %s", plural(groups, "gruppo", "gruppi"), plural(filters, "filtro", "filtri"), p.GlobalLogic)
		if p.UsageCount > 0 {
			meta += fmt.Sprintf(", usato %d volte", p.UsageCount)
		}
		if p.Description != "" {
			meta = p.Description + " · " + meta
		}
		line := util.Truncate(p.Name, textWidth) + "\n  " + util.Truncate(meta, textWidth-2)

		style := lipgloss.NewStyle().Padding(0, 1)
		if i == pd.selected {
			style = style.Background(pd.Theme.Selection).Foreground(pd.Theme.Foreground)
		}
		sections = append(sections, style.Render(line))
	}

	return pd.container(strings.Join(sections, "\n"))
}

func (pd *PresetsDialog) renderSave() string {
	var sections []string

	title := "Salva preset"
	if pd.editingID != "" {
		title = "Sovrascrivi preset"
	}
	sections = append(sections, pd.title(title))

	instrStyle := lipgloss.NewStyle().
		Foreground(pd.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("Tab: Campo successivo  Enter: Salva  Esc: Annulla"))

	sections = append(sections, "")
	sections = append(sections, pd.renderField("Nome:", pd.nameInput.View(), pd.currentField == 0))
	sections = append(sections, pd.renderField("Descrizione:", pd.descriptionInput.View(), pd.currentField == 1))

	return pd.container(strings.Join(sections, "\n"))
}

func (pd *PresetsDialog) renderField(label, value string, active bool) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if active {
		style = style.Background(pd.Theme.Selection).Foreground(pd.Theme.Foreground)
	}
	return style.Render(fmt.Sprintf("%-13s %s", label, value))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
