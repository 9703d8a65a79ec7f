package help

import "github.com/charmbracelet/bubbles/key"

// GlobalKeyMap holds the bindings active outside dialogs
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Tab      key.Binding
	Columns  key.Binding
	Presets  key.Binding
	Save     key.Binding
	Export   key.Binding
	Reset    key.Binding
	Reload   key.Binding
	Describe key.Binding
}

// FilterKeyMap holds the filter panel bindings
type FilterKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	AddGroup    key.Binding
	AddFilter   key.Binding
	Delete      key.Binding
	ToggleLogic key.Binding
	GlobalLogic key.Binding
	Edit        key.Binding
	Condition   key.Binding
	Value       key.Binding
}

// TableKeyMap holds the results table bindings
type TableKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	YankCell key.Binding
	YankRow  key.Binding
}

var Global = GlobalKeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q, ctrl+c", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel focus")),
	Columns:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "choose display columns")),
	Presets:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "open presets")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save filters as preset")),
	Export:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export results to CSV")),
	Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset filters and columns")),
	Reload:   key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "reload data source")),
	Describe: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "copy filter expression")),
}

var Filter = FilterKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	AddGroup:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "add group")),
	AddFilter:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add filter to group")),
	Delete:      key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d/x", "delete group or filter")),
	ToggleLogic: key.NewBinding(key.WithKeys("l", " ", "space"), key.WithHelp("l/space", "toggle AND/OR")),
	GlobalLogic: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "toggle global AND/OR")),
	Edit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit filter column")),
	Condition:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "edit condition")),
	Value:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "edit value")),
}

var Table = TableKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous row")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next row")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scroll right")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first row")),
	End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
	YankCell: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
}

// KeyBinding is a row in the help screen
type KeyBinding struct {
	Key         string
	Description string
}

func bindings(bs ...key.Binding) []KeyBinding {
	out := make([]KeyBinding, 0, len(bs))
	for _, b := range bs {
		h := b.Help()
		out = append(out, KeyBinding{Key: h.Key, Description: h.Desc})
	}
	return out
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	g := Global
	return bindings(g.Help, g.Quit, g.Tab, g.Columns, g.Presets, g.Save, g.Export, g.Reset, g.Reload, g.Describe)
}

// GetFilterKeys returns filter panel key bindings
func GetFilterKeys() []KeyBinding {
	f := Filter
	return bindings(f.Up, f.Down, f.AddGroup, f.AddFilter, f.Delete, f.ToggleLogic, f.GlobalLogic, f.Edit, f.Condition, f.Value)
}

// GetTableKeys returns results table key bindings
func GetTableKeys() []KeyBinding {
	t := Table
	return bindings(t.Up, t.Down, t.Left, t.Right, t.PageUp, t.PageDown, t.Home, t.End, t.YankCell, t.YankRow)
}
