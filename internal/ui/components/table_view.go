package components

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/render"
	"github.com/rebeliceyang/lazysheet/internal/ui/help"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

const columnSeparator = " │ "

var sepWidth = util.DisplayWidth(columnSeparator)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// YankedMsg reports the result of a clipboard copy
type YankedMsg struct {
	Text string
	Err  error
}

// TableView displays a rendered result table. Pinned columns stay on the
// left while the other columns scroll horizontally.
type TableView struct {
	Width   int
	Height  int
	Theme   theme.Theme
	Focused bool

	table *render.Table

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	SelectedCol int
	ScrollCol   int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{Theme: th}
}

// SetTable replaces the displayed table, keeping the cursor when possible
func (tv *TableView) SetTable(t *render.Table) {
	tv.table = t
	if t == nil {
		tv.SelectedRow, tv.TopRow, tv.SelectedCol, tv.ScrollCol = 0, 0, 0, 0
		return
	}
	if tv.SelectedRow >= len(t.Rows) {
		tv.SelectedRow = len(t.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.TopRow > tv.SelectedRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.SelectedCol >= len(t.Columns) {
		tv.SelectedCol = len(t.Columns) - 1
	}
	if tv.SelectedCol < 0 {
		tv.SelectedCol = 0
	}
	pinned := t.PinnedCount()
	if tv.ScrollCol < pinned {
		tv.ScrollCol = pinned
	}
	if tv.ScrollCol >= len(t.Columns) {
		tv.ScrollCol = pinned
	}
}

// Table returns the displayed table
func (tv *TableView) Table() *render.Table {
	return tv.table
}

// visibleColumns returns pinned columns followed by as many scrolled
// columns as fit in the width. At least one scrolled column is shown.
func (tv *TableView) visibleColumns() []int {
	if tv.table == nil {
		return nil
	}
	pinned := tv.table.PinnedCount()
	var cols []int
	used := 1
	for i := 0; i < pinned; i++ {
		cols = append(cols, i)
		used += tv.table.Columns[i].Layout.Width + sepWidth
	}
	for i := tv.ScrollCol; i < len(tv.table.Columns); i++ {
		w := tv.table.Columns[i].Layout.Width + sepWidth
		if used+w > tv.Width && len(cols) > pinned {
			break
		}
		cols = append(cols, i)
		used += w
	}
	return cols
}

func (tv *TableView) cellText(col render.TableColumn, text string) string {
	if col.Type == dataset.Numeric {
		return util.PadLeft(util.Truncate(text, col.Layout.Width), col.Layout.Width)
	}
	return util.PadOrTruncate(text, col.Layout.Width)
}

// View renders the table
func (tv *TableView) View() string {
	if tv.table == nil || len(tv.table.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render("Nessun dato")
	}

	cols := tv.visibleColumns()
	var b strings.Builder

	b.WriteString(tv.renderHeader(cols))
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator(cols))
	b.WriteString("\n")

	tv.VisibleRows = tv.Height - 4 // header, separator, status
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}

	if len(tv.table.Rows) == 0 {
		msg := lipgloss.NewStyle().Foreground(tv.Theme.Warning).Italic(true).Render(" " + tv.table.Message)
		b.WriteString(msg)
		b.WriteString("\n")
	}

	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.table.Rows) {
		endRow = len(tv.table.Rows)
	}
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(cols, tv.table.Rows[i], i))
		b.WriteString("\n")
	}

	b.WriteString(tv.renderStatus())
	return b.String()
}

func (tv *TableView) renderHeader(cols []int) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader)

	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		col := tv.table.Columns[i]
		text := util.PadOrTruncate(col.Name, col.Layout.Width)
		style := headerStyle
		if col.Layout.Pinned {
			style = style.Background(tv.Theme.PinnedColumn)
		}
		if i == tv.SelectedCol && tv.Focused {
			style = style.Underline(true)
		}
		parts = append(parts, style.Render(text))
	}
	return " " + strings.Join(parts, columnSeparator)
}

func (tv *TableView) renderSeparator(cols []int) string {
	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		parts = append(parts, strings.Repeat("─", tv.table.Columns[i].Layout.Width))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(cols []int, row render.Row, index int) string {
	selected := index == tv.SelectedRow
	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		col := tv.table.Columns[i]
		cell := row.Cells[i]
		text := tv.cellText(col, cell.Text)

		style := tv.Theme.HighlightStyle(cell.Style)
		if cell.Style == render.StyleNone {
			switch {
			case selected:
				style = style.Background(tv.Theme.TableRowSelected).Foreground(tv.Theme.Foreground)
			case col.Layout.Pinned:
				style = style.Background(tv.Theme.PinnedColumn)
			}
		}
		if selected && i == tv.SelectedCol && tv.Focused {
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(text))
	}
	return " " + strings.Join(parts, columnSeparator)
}

func (tv *TableView) renderStatus() string {
	t := tv.table
	status := " " + t.Message
	if len(t.Rows) > 0 {
		status = fmt.Sprintf(" %s  ·  riga %d", t.Message, tv.SelectedRow+1)
	}
	if hidden := len(t.Columns) - len(tv.visibleColumns()); hidden > 0 {
		status += fmt.Sprintf("  ·  %d colonne fuori vista", hidden)
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Muted).
		Italic(true).
		Render(status)
}

// Update handles navigation and clipboard keys
func (tv *TableView) Update(msg tea.KeyMsg) (*TableView, tea.Cmd) {
	keys := help.Table
	switch {
	case key.Matches(msg, keys.Up):
		tv.MoveSelection(-1)
	case key.Matches(msg, keys.Down):
		tv.MoveSelection(1)
	case key.Matches(msg, keys.Left):
		tv.MoveColumn(-1)
	case key.Matches(msg, keys.Right):
		tv.MoveColumn(1)
	case key.Matches(msg, keys.PageUp):
		tv.PageUp()
	case key.Matches(msg, keys.PageDown):
		tv.PageDown()
	case key.Matches(msg, keys.Home):
		tv.MoveSelection(-len(tv.rows()))
	case key.Matches(msg, keys.End):
		tv.MoveSelection(len(tv.rows()))
	case key.Matches(msg, keys.YankCell):
		return tv, tv.yank(tv.SelectedCellText)
	case key.Matches(msg, keys.YankRow):
		return tv, tv.yank(tv.SelectedRowText)
	}
	return tv, nil
}

func (tv *TableView) rows() []render.Row {
	if tv.table == nil {
		return nil
	}
	return tv.table.Rows
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	rows := tv.rows()
	tv.SelectedRow += delta

	if tv.SelectedRow >= len(rows) {
		tv.SelectedRow = len(rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}

	visible := tv.VisibleRows
	if visible < 1 {
		visible = 1
	}
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.SelectedRow >= tv.TopRow+visible {
		tv.TopRow = tv.SelectedRow - visible + 1
	}
}

// PageUp moves one screen up
func (tv *TableView) PageUp() {
	tv.MoveSelection(-tv.VisibleRows)
}

// PageDown moves one screen down
func (tv *TableView) PageDown() {
	tv.MoveSelection(tv.VisibleRows)
}

// MoveColumn moves the column cursor and scrolls the unpinned columns
func (tv *TableView) MoveColumn(delta int) {
	if tv.table == nil || len(tv.table.Columns) == 0 {
		return
	}
	tv.SelectedCol += delta
	if tv.SelectedCol < 0 {
		tv.SelectedCol = 0
	}
	if tv.SelectedCol >= len(tv.table.Columns) {
		tv.SelectedCol = len(tv.table.Columns) - 1
	}

	pinned := tv.table.PinnedCount()
	if tv.SelectedCol < pinned {
		return
	}
	if tv.SelectedCol < tv.ScrollCol {
		tv.ScrollCol = tv.SelectedCol
		return
	}
	for {
		cols := tv.visibleColumns()
		if len(cols) == 0 || cols[len(cols)-1] >= tv.SelectedCol || tv.ScrollCol >= tv.SelectedCol {
			return
		}
		tv.ScrollCol++
	}
}

// SelectedCellText returns the raw value under the cursor
func (tv *TableView) SelectedCellText() string {
	rows := tv.rows()
	if tv.SelectedRow >= len(rows) || tv.SelectedCol >= len(rows[tv.SelectedRow].Cells) {
		return ""
	}
	return rows[tv.SelectedRow].Cells[tv.SelectedCol].Raw.String()
}

// SelectedRowText returns the raw values of the selected row, tab separated
func (tv *TableView) SelectedRowText() string {
	rows := tv.rows()
	if tv.SelectedRow >= len(rows) {
		return ""
	}
	cells := rows[tv.SelectedRow].Cells
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.Raw.String()
	}
	return strings.Join(parts, "\t")
}

func (tv *TableView) yank(text func() string) tea.Cmd {
	s := text()
	if s == "" {
		return nil
	}
	return func() tea.Msg {
		return YankedMsg{Text: s, Err: writeClipboard(s)}
	}
}
