package table

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/render"
	"github.com/rebeliceyang/lazysheet/internal/ui/components"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
)

var quitKey = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))

type statusClearMsg struct{}

type viewerModel struct {
	title     string
	theme     theme.Theme
	view      *components.TableView
	statusMsg string
}

// RunTableTUI launches the read-only viewer. It blocks until the user quits.
func RunTableTUI(title string, t *render.Table, themeName string) error {
	th := theme.GetTheme(themeName)
	tv := components.NewTableView(th)
	tv.Focused = true
	tv.SetTable(t)

	p := tea.NewProgram(viewerModel{title: title, theme: th, view: tv}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.Width = msg.Width
		m.view.Height = msg.Height - 2

	case components.YankedMsg:
		if msg.Err != nil {
			m.statusMsg = "copia non riuscita: " + msg.Err.Error()
		} else {
			m.statusMsg = fmt.Sprintf("copiato: %s", msg.Text)
		}
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return statusClearMsg{} })

	case statusClearMsg:
		m.statusMsg = ""

	case tea.KeyMsg:
		if key.Matches(msg, quitKey) {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m viewerModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.BorderFocused).
		Render(" " + m.title)
	footer := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(" q: esci  y/Y: copia cella/riga  ←→: scorri colonne")
	if m.statusMsg != "" {
		footer = lipgloss.NewStyle().Foreground(m.theme.Success).Render(" " + m.statusMsg)
	}
	return title + "\n" + m.view.View() + "\n" + footer
}
