package render

import (
	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
)

// Cell is a single display cell
type Cell struct {
	Text  string
	Raw   dataset.Value
	Style Style
}

// TableColumn describes a display column
type TableColumn struct {
	Name   string
	Type   dataset.ColumnType
	Layout ColumnLayout
}

// Row is a display row; ID is the row id in the dataset
type Row struct {
	ID    int
	Cells []Cell
}

// Table is everything the display surface needs for one render pass
type Table struct {
	Columns []TableColumn
	Rows    []Row
	Matched int
	Total   int
	State   filter.State
	Message string
	Summary string
}

// PinnedCount returns how many leading columns are pinned
func (t *Table) PinnedCount() int {
	n := 0
	for _, c := range t.Columns {
		if !c.Layout.Pinned {
			break
		}
		n++
	}
	return n
}

// ColumnNames returns the display column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Build formats and highlights the rows of res restricted to columns.
// Unknown column names are dropped; an empty selection shows every column.
func Build(ds *dataset.Dataset, res filter.Result, columns []string) *Table {
	if len(columns) == 0 {
		columns = ds.ColumnNames()
	}

	t := &Table{
		Matched: res.Matched(),
		Total:   res.Total,
		State:   res.State(),
		Message: res.Message(),
	}

	var idx []int
	for _, name := range OrderForDisplay(columns) {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		idx = append(idx, ds.ColumnIndex(name))
		t.Columns = append(t.Columns, TableColumn{Name: name, Type: col.Type, Layout: Layout(name)})
	}

	if t.State == filter.StateEmpty {
		return t
	}

	t.Rows = make([]Row, 0, t.Matched)
	for _, id := range res.RowIDs() {
		row := Row{ID: id, Cells: make([]Cell, len(idx))}
		for i, c := range idx {
			v := ds.At(id, c)
			name := t.Columns[i].Name
			row.Cells[i] = Cell{Text: Format(v, name), Raw: v, Style: Highlight(v, name)}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
