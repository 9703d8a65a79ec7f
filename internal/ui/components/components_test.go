package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/session"
)

func init() {
	zone.NewGlobal()
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("partite.xlsx",
		[]string{"Nome Mercato", "Div", "Quota Equa", "Ritardo Attuale", "Z-Score Cicli Forza"},
		[][]dataset.Value{
			{dataset.Text("Over 2.5"), dataset.Text("E0"), dataset.Number(1.8), dataset.Number(3), dataset.Number(2.5)},
			{dataset.Text("Goal"), dataset.Text("I1"), dataset.Number(2.1), dataset.Number(7), dataset.Number(-2.2)},
			{dataset.Text("Under 2.5"), dataset.Text("E0"), dataset.Number(2.4), dataset.Number(0), dataset.Null()},
		})
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(testDataset(t), 5)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and returns its message, or nil
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
