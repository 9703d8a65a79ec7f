package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazysheet/internal/filter"
	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/session"
	"github.com/rebeliceyang/lazysheet/internal/ui/help"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
)

// Zone IDs for mouse handling
const (
	ZoneGlobalLogic = "fp-logic-global"
	ZoneGroupPrefix = "fp-group-"
	ZoneLogicPrefix = "fp-logic-"
)

// FiltersChangedMsg is sent after the panel modified the session filters
type FiltersChangedMsg struct{}

// PanelMode is the edit state of the filter panel
type PanelMode int

const (
	ModeNavigate PanelMode = iota
	ModeColumn
	ModeCondition
	ModeValue
)

type itemKind int

const (
	itemGlobal itemKind = iota
	itemGroup
	itemFilter
)

type panelItem struct {
	kind     itemKind
	groupID  int
	filterID int
}

// FilterPanel edits the filter groups of a session
type FilterPanel struct {
	Width   int
	Height  int
	Theme   theme.Theme
	Focused bool

	sess    *session.Session
	builder *filter.Builder

	items  []panelItem
	cursor int
	offset int

	mode            PanelMode
	input           textinput.Model
	options         []string
	conditions      []models.Condition
	optionCursor    int
	validationError string
}

// NewFilterPanel creates an empty filter panel
func NewFilterPanel(th theme.Theme) *FilterPanel {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 30

	return &FilterPanel{
		Width:   40,
		Height:  20,
		Theme:   th,
		builder: filter.NewBuilder(),
		input:   ti,
	}
}

// SetSession attaches the panel to a session
func (fp *FilterPanel) SetSession(s *session.Session) {
	fp.sess = s
	fp.mode = ModeNavigate
	fp.cursor = 0
	fp.offset = 0
	fp.validationError = ""
	fp.rebuild()
}

// Mode returns the current edit mode
func (fp *FilterPanel) Mode() PanelMode {
	return fp.mode
}

// Editing reports whether keys should go to the panel's input
func (fp *FilterPanel) Editing() bool {
	return fp.mode != ModeNavigate
}

// Options returns the choices listed in the current edit mode
func (fp *FilterPanel) Options() []string {
	return fp.options
}

// Refresh rebuilds the item list after the session changed elsewhere
func (fp *FilterPanel) Refresh() {
	fp.mode = ModeNavigate
	fp.rebuild()
}

func (fp *FilterPanel) rebuild() {
	fp.items = fp.items[:0]
	if fp.sess == nil {
		return
	}
	fp.items = append(fp.items, panelItem{kind: itemGlobal})
	for _, g := range fp.sess.FilterSet().Groups {
		fp.items = append(fp.items, panelItem{kind: itemGroup, groupID: g.ID})
		for _, f := range g.Filters {
			fp.items = append(fp.items, panelItem{kind: itemFilter, groupID: g.ID, filterID: f.ID})
		}
	}
	if fp.cursor >= len(fp.items) {
		fp.cursor = len(fp.items) - 1
	}
	if fp.cursor < 0 {
		fp.cursor = 0
	}
}

func (fp *FilterPanel) current() (panelItem, bool) {
	if fp.cursor < 0 || fp.cursor >= len(fp.items) {
		return panelItem{}, false
	}
	return fp.items[fp.cursor], true
}

func (fp *FilterPanel) moveTo(kind itemKind, groupID, filterID int) {
	for i, it := range fp.items {
		if it.kind == kind && it.groupID == groupID && it.filterID == filterID {
			fp.cursor = i
			return
		}
	}
}

func changed() tea.Msg {
	return FiltersChangedMsg{}
}

// Update handles keyboard input
func (fp *FilterPanel) Update(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	if fp.sess == nil {
		return fp, nil
	}
	switch fp.mode {
	case ModeColumn:
		return fp.handleColumnMode(msg)
	case ModeCondition:
		return fp.handleConditionMode(msg)
	case ModeValue:
		return fp.handleValueMode(msg)
	}
	return fp.handleNavigationMode(msg)
}

func (fp *FilterPanel) handleNavigationMode(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	keys := help.Filter
	item, ok := fp.current()

	switch {
	case key.Matches(msg, keys.Up):
		if fp.cursor > 0 {
			fp.cursor--
		}
	case key.Matches(msg, keys.Down):
		if fp.cursor < len(fp.items)-1 {
			fp.cursor++
		}
	case key.Matches(msg, keys.AddGroup):
		id := fp.sess.AddGroup()
		fp.rebuild()
		fp.moveTo(itemGroup, id, 0)
		return fp, changed
	case key.Matches(msg, keys.AddFilter):
		groupID := item.groupID
		if !ok || item.kind == itemGlobal {
			groups := fp.sess.FilterSet().Groups
			if len(groups) == 0 {
				groupID = fp.sess.AddGroup()
			} else {
				groupID = groups[len(groups)-1].ID
			}
		}
		filterID, err := fp.sess.AddFilter(groupID)
		if err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		fp.rebuild()
		fp.moveTo(itemFilter, groupID, filterID)
		fp.enterColumnMode()
		return fp, changed
	case key.Matches(msg, keys.Delete):
		if !ok {
			return fp, nil
		}
		var err error
		switch item.kind {
		case itemGroup:
			err = fp.sess.RemoveGroup(item.groupID)
		case itemFilter:
			err = fp.sess.RemoveFilter(item.groupID, item.filterID)
		default:
			return fp, nil
		}
		if err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		fp.rebuild()
		return fp, changed
	case key.Matches(msg, keys.ToggleLogic):
		if ok {
			return fp, fp.toggleLogic(item)
		}
	case key.Matches(msg, keys.GlobalLogic):
		return fp, fp.toggleLogic(panelItem{kind: itemGlobal})
	case key.Matches(msg, keys.Edit):
		if !ok {
			return fp, nil
		}
		switch item.kind {
		case itemFilter:
			fp.enterColumnMode()
		case itemGroup:
			filterID, err := fp.sess.AddFilter(item.groupID)
			if err != nil {
				fp.validationError = err.Error()
				return fp, nil
			}
			fp.rebuild()
			fp.moveTo(itemFilter, item.groupID, filterID)
			fp.enterColumnMode()
			return fp, changed
		case itemGlobal:
			return fp, fp.toggleLogic(item)
		}
	case key.Matches(msg, keys.Condition):
		if ok && item.kind == itemFilter {
			fp.enterConditionMode()
		}
	case key.Matches(msg, keys.Value):
		if ok && item.kind == itemFilter {
			fp.enterValueMode()
		}
	}
	return fp, nil
}

func (fp *FilterPanel) toggleLogic(item panelItem) tea.Cmd {
	switch item.kind {
	case itemGlobal:
		fp.sess.SetGlobalLogic(fp.sess.GlobalLogic().Toggle())
	case itemGroup, itemFilter:
		for _, g := range fp.sess.FilterSet().Groups {
			if g.ID == item.groupID {
				_ = fp.sess.SetGroupLogic(g.ID, g.Logic.Toggle())
			}
		}
	}
	return changed
}

func (fp *FilterPanel) currentFilter() (models.Filter, bool) {
	item, ok := fp.current()
	if !ok || item.kind != itemFilter {
		return models.Filter{}, false
	}
	f, err := fp.sess.Filter(item.groupID, item.filterID)
	if err != nil {
		return models.Filter{}, false
	}
	return f, true
}

func (fp *FilterPanel) enterColumnMode() {
	fp.mode = ModeColumn
	fp.validationError = ""
	fp.input.SetValue("")
	fp.input.Placeholder = "cerca colonna"
	fp.input.Focus()
	fp.optionCursor = 0
	fp.refreshOptions()

	if f, ok := fp.currentFilter(); ok {
		for i, o := range fp.options {
			if o == f.Column {
				fp.optionCursor = i
			}
		}
	}
}

func (fp *FilterPanel) enterConditionMode() {
	f, ok := fp.currentFilter()
	if !ok {
		fp.mode = ModeNavigate
		return
	}
	col, ok := fp.sess.Dataset().Column(f.Column)
	if !ok {
		fp.validationError = fmt.Sprintf("colonna '%s' non trovata", f.Column)
		fp.mode = ModeNavigate
		return
	}
	fp.mode = ModeCondition
	fp.input.Blur()
	fp.conditions = filter.ConditionsFor(col.Type)
	fp.options = make([]string, len(fp.conditions))
	fp.optionCursor = 0
	for i, c := range fp.conditions {
		fp.options[i] = c.Label()
		if c == f.Condition {
			fp.optionCursor = i
		}
	}
}

func (fp *FilterPanel) enterValueMode() {
	f, ok := fp.currentFilter()
	if !ok {
		fp.mode = ModeNavigate
		return
	}
	fp.mode = ModeValue
	fp.optionCursor = 0
	fp.input.Focus()
	if f.Condition.IsNumeric() {
		fp.input.SetValue(f.Scalar)
		fp.input.CursorEnd()
		fp.input.Placeholder = "valore numerico"
		fp.options = nil
		return
	}
	fp.input.SetValue("")
	fp.input.Placeholder = "cerca valore"
	fp.refreshOptions()
}

func (fp *FilterPanel) refreshOptions() {
	switch fp.mode {
	case ModeColumn:
		cols := FilterColumns(fp.sess.Dataset().Columns(), ParseSearchQuery(fp.input.Value()))
		fp.options = make([]string, len(cols))
		for i, c := range cols {
			fp.options[i] = c.Name
		}
	case ModeValue:
		f, ok := fp.currentFilter()
		if !ok {
			fp.options = nil
			return
		}
		fp.options = FilterValues(fp.sess.Dataset().UniqueValues(f.Column), fp.input.Value())
	}
	if fp.optionCursor >= len(fp.options) {
		fp.optionCursor = len(fp.options) - 1
	}
	if fp.optionCursor < 0 {
		fp.optionCursor = 0
	}
}

func (fp *FilterPanel) moveOption(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "ctrl+p":
		if fp.optionCursor > 0 {
			fp.optionCursor--
		}
		return true
	case "down", "ctrl+n":
		if fp.optionCursor < len(fp.options)-1 {
			fp.optionCursor++
		}
		return true
	}
	return false
}

func (fp *FilterPanel) leaveEdit() {
	fp.mode = ModeNavigate
	fp.input.Blur()
	fp.options = nil
}

func (fp *FilterPanel) handleColumnMode(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	if fp.moveOption(msg) {
		return fp, nil
	}
	switch msg.String() {
	case "esc":
		fp.leaveEdit()
		fp.validationError = ""
		return fp, nil
	case "enter":
		if len(fp.options) == 0 {
			fp.validationError = fmt.Sprintf("colonna '%s' non trovata", fp.input.Value())
			return fp, nil
		}
		item, _ := fp.current()
		if err := fp.sess.SetFilterColumn(item.groupID, item.filterID, fp.options[fp.optionCursor]); err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		fp.validationError = ""
		fp.enterConditionMode()
		return fp, changed
	}

	var cmd tea.Cmd
	fp.input, cmd = fp.input.Update(msg)
	fp.refreshOptions()
	return fp, cmd
}

func (fp *FilterPanel) handleConditionMode(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	if fp.moveOption(msg) {
		return fp, nil
	}
	switch msg.String() {
	case "esc":
		fp.leaveEdit()
	case "enter":
		if fp.optionCursor >= len(fp.conditions) {
			return fp, nil
		}
		item, _ := fp.current()
		if err := fp.sess.SetFilterCondition(item.groupID, item.filterID, fp.conditions[fp.optionCursor]); err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		fp.enterValueMode()
		return fp, changed
	}
	return fp, nil
}

func (fp *FilterPanel) handleValueMode(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	f, ok := fp.currentFilter()
	if !ok {
		fp.leaveEdit()
		return fp, nil
	}
	item, _ := fp.current()

	if f.Condition.IsNumeric() {
		switch msg.String() {
		case "esc":
			fp.leaveEdit()
			return fp, nil
		case "enter":
			value := strings.TrimSpace(fp.input.Value())
			if err := fp.sess.SetFilterScalar(item.groupID, item.filterID, value); err != nil {
				fp.validationError = err.Error()
				return fp, nil
			}
			fp.validationError = ""
			if _, ok := filter.ParseNumber(value); value != "" && !ok {
				fp.validationError = fmt.Sprintf("'%s' non è un numero: il filtro non esclude righe", value)
			}
			fp.leaveEdit()
			return fp, changed
		}
		var cmd tea.Cmd
		fp.input, cmd = fp.input.Update(msg)
		return fp, cmd
	}

	if fp.moveOption(msg) {
		return fp, nil
	}
	switch msg.String() {
	case "esc":
		fp.leaveEdit()
		return fp, nil
	case "enter":
		if fp.optionCursor >= len(fp.options) {
			return fp, nil
		}
		if err := fp.sess.ToggleFilterValue(item.groupID, item.filterID, fp.options[fp.optionCursor]); err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		return fp, changed
	case "ctrl+a":
		values := append(append([]string(nil), f.Values...), fp.options...)
		if err := fp.sess.SetFilterValues(item.groupID, item.filterID, values); err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		return fp, changed
	case "ctrl+x":
		if err := fp.sess.SetFilterValues(item.groupID, item.filterID, nil); err != nil {
			fp.validationError = err.Error()
			return fp, nil
		}
		return fp, changed
	}

	var cmd tea.Cmd
	fp.input, cmd = fp.input.Update(msg)
	fp.refreshOptions()
	return fp, cmd
}

// HandleMouseClick handles clicks on group headers and logic badges
func (fp *FilterPanel) HandleMouseClick(msg tea.MouseMsg) (bool, tea.Cmd) {
	if fp.sess == nil || fp.mode != ModeNavigate {
		return false, nil
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return false, nil
	}

	if zone.Get(ZoneGlobalLogic).InBounds(msg) {
		fp.moveTo(itemGlobal, 0, 0)
		return true, fp.toggleLogic(panelItem{kind: itemGlobal})
	}
	for _, g := range fp.sess.FilterSet().Groups {
		id := strconv.Itoa(g.ID)
		if zone.Get(ZoneLogicPrefix + id).InBounds(msg) {
			fp.moveTo(itemGroup, g.ID, 0)
			return true, fp.toggleLogic(panelItem{kind: itemGroup, groupID: g.ID})
		}
		if zone.Get(ZoneGroupPrefix + id).InBounds(msg) {
			fp.moveTo(itemGroup, g.ID, 0)
			return true, nil
		}
	}
	return false, nil
}

func (fp *FilterPanel) logicBadge(l models.Logic) string {
	color := fp.Theme.Info
	if l == models.LogicOr {
		color = fp.Theme.Warning
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render("[" + l.String() + "]")
}

func (fp *FilterPanel) renderItems() []string {
	set := fp.sess.FilterSet()
	muted := lipgloss.NewStyle().Foreground(fp.Theme.Muted)

	var lines []string
	i := 0
	line := func(s string) {
		style := lipgloss.NewStyle().Width(fp.Width - 2)
		if i == fp.cursor && fp.Focused {
			style = style.Background(fp.Theme.Selection).Foreground(fp.Theme.Foreground)
		}
		lines = append(lines, style.Render(s))
		i++
	}

	line("Logica globale " + zone.Mark(ZoneGlobalLogic, fp.logicBadge(set.GlobalLogic)))

	if len(set.Groups) == 0 {
		lines = append(lines, muted.Render("  Nessun gruppo. Premi g per aggiungerne uno."))
	}
	for gi, g := range set.Groups {
		id := strconv.Itoa(g.ID)
		count := plural(len(g.Filters), "filtro", "filtri")
		header := zone.Mark(ZoneGroupPrefix+id, fmt.Sprintf("Gruppo %d", gi+1)) + " " +
			zone.Mark(ZoneLogicPrefix+id, fp.logicBadge(g.Logic)) + " " + muted.Render(count)
		line(header)

		for _, f := range g.Filters {
			desc := fp.builder.BuildCondition(f)
			if desc == "" {
				desc = fmt.Sprintf("%s %s", f.Column, f.Condition.Label()) + " " + muted.Render("(ignorato)")
			}
			line("    " + desc)
		}
	}
	return lines
}

func (fp *FilterPanel) renderEdit() []string {
	f, ok := fp.currentFilter()
	if !ok {
		return nil
	}
	label := lipgloss.NewStyle().Foreground(fp.Theme.Info).Bold(true)
	muted := lipgloss.NewStyle().Foreground(fp.Theme.Muted)

	var out []string
	switch fp.mode {
	case ModeColumn:
		out = append(out, label.Render("Colonna:")+" "+fp.input.View())
	case ModeCondition:
		out = append(out, label.Render("Condizione per "+f.Column+":"))
	case ModeValue:
		if f.Condition.IsNumeric() {
			out = append(out, label.Render(fmt.Sprintf("%s %s", f.Column, f.Condition))+" "+fp.input.View())
			return out
		}
		out = append(out, label.Render(fmt.Sprintf("%s %s (%d selezionati)", f.Column, f.Condition.Label(), len(f.Values))))
		out = append(out, fp.input.View())
	}

	chosen := map[string]bool{}
	if fp.mode == ModeValue {
		for _, v := range f.Values {
			chosen[v] = true
		}
	}

	maxOptions := fp.Height / 3
	if maxOptions < 3 {
		maxOptions = 3
	}
	start := 0
	if fp.optionCursor >= maxOptions {
		start = fp.optionCursor - maxOptions + 1
	}
	end := start + maxOptions
	if end > len(fp.options) {
		end = len(fp.options)
	}
	for i := start; i < end; i++ {
		text := fp.options[i]
		if fp.mode == ModeValue {
			check := "[ ] "
			if chosen[text] {
				check = "[x] "
			}
			text = check + text
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fp.optionCursor {
			style = style.Background(fp.Theme.Selection).Foreground(fp.Theme.Foreground)
		}
		out = append(out, style.Render(text))
	}
	if len(fp.options) > end {
		out = append(out, muted.Render(fmt.Sprintf("  … altri %d", len(fp.options)-end)))
	}
	return out
}

func (fp *FilterPanel) instructions() string {
	switch fp.mode {
	case ModeColumn:
		return "↑↓ Scegli  Enter Conferma  Esc Annulla"
	case ModeCondition:
		return "↑↓ Scegli  Enter Conferma  Esc Annulla"
	case ModeValue:
		if f, ok := fp.currentFilter(); ok && f.Condition.IsNumeric() {
			return "Enter Conferma  Esc Annulla"
		}
		return "Enter Seleziona  ^A Tutti  ^X Nessuno  Esc Fine"
	}
	return "g Gruppo  a Filtro  d Elimina  l Logica  ? Aiuto"
}

// View renders the filter panel
func (fp *FilterPanel) View() string {
	if fp.sess == nil {
		return ""
	}

	var sections []string
	sections = append(sections, fp.window(fp.renderItems())...)

	if fp.mode != ModeNavigate {
		sections = append(sections, "")
		sections = append(sections, fp.renderEdit()...)
	}

	if fp.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fp.Theme.Error).
			Bold(true)
		sections = append(sections, "", errorStyle.Render(fp.validationError))
	}

	sections = append(sections, "", lipgloss.NewStyle().Foreground(fp.Theme.Muted).Render(fp.instructions()))
	return strings.Join(sections, "\n")
}

// window keeps the cursor line inside the space left for the list
func (fp *FilterPanel) window(lines []string) []string {
	avail := fp.Height - 4
	if fp.mode != ModeNavigate {
		avail = fp.Height / 2
	}
	if avail < 3 || len(lines) <= avail {
		return lines
	}
	if fp.cursor < fp.offset {
		fp.offset = fp.cursor
	}
	if fp.cursor >= fp.offset+avail {
		fp.offset = fp.cursor - avail + 1
	}
	end := fp.offset + avail
	if end > len(lines) {
		end = len(lines)
	}
	return lines[fp.offset:end]
}

