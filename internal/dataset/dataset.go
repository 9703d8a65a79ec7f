// Package dataset holds the immutable tabular data a session filters,
// together with the loaders that produce it.
package dataset

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

var (
	ErrEmptyDataset    = errors.New("dataset has no rows")
	ErrNoColumns       = errors.New("dataset has no columns")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRowWidth        = errors.New("row width does not match header")
	ErrUnknownColumn   = errors.New("unknown column")
)

// ColumnType is the filtering type of a column
type ColumnType int

const (
	Numeric ColumnType = iota
	Textual
)

func (t ColumnType) String() string {
	if t == Textual {
		return "textual"
	}
	return "numeric"
}

// Column describes a dataset column
type Column struct {
	Name string
	Type ColumnType
}

// Dataset is an ordered set of named columns and rows. It is never
// mutated after New returns.
type Dataset struct {
	Name    string
	columns []Column
	index   map[string]int
	rows    [][]Value
}

// New builds a dataset and classifies every column
func New(name string, columnNames []string, rows [][]Value) (*Dataset, error) {
	if len(columnNames) == 0 {
		return nil, ErrNoColumns
	}

	ds := &Dataset{
		Name:    name,
		columns: make([]Column, len(columnNames)),
		index:   make(map[string]int, len(columnNames)),
		rows:    rows,
	}

	for i, n := range columnNames {
		if _, dup := ds.index[n]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, n)
		}
		ds.index[n] = i
		ds.columns[i] = Column{Name: n}
	}

	for r, row := range rows {
		if len(row) != len(columnNames) {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRowWidth, r+1, len(row), len(columnNames))
		}
	}

	for i := range ds.columns {
		ds.columns[i].Type = classifyIndex(rows, i)
	}

	return ds, nil
}

// Classify returns the filtering type of a column: numeric when every
// non-null value is a number, textual otherwise.
func Classify(ds *Dataset, column string) (ColumnType, error) {
	i, ok := ds.index[column]
	if !ok {
		return Textual, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return classifyIndex(ds.rows, i), nil
}

func classifyIndex(rows [][]Value, i int) ColumnType {
	for _, row := range rows {
		if row[i].Kind == KindText {
			return Textual
		}
	}
	return Numeric
}

// Columns returns the columns in order
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// HasColumn reports whether name is a column of d
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of name, or -1
func (d *Dataset) ColumnIndex(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Value returns the cell at row for column. Out of range lookups are null.
func (d *Dataset) Value(row int, column string) Value {
	i, ok := d.index[column]
	if !ok || row < 0 || row >= len(d.rows) {
		return Null()
	}
	return d.rows[row][i]
}

// At returns the cell at row and column index
func (d *Dataset) At(row, col int) Value {
	return d.rows[row][col]
}

// AllRows returns a bitmap holding every row id
func (d *Dataset) AllRows() *roaring.Bitmap {
	bm := roaring.New()
	if len(d.rows) > 0 {
		bm.AddRange(0, uint64(len(d.rows)))
	}
	return bm
}

// UniqueValues returns the distinct non-null values of a column in
// first-occurrence order, as raw strings.
func (d *Dataset) UniqueValues(column string) []string {
	i, ok := d.index[column]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range d.rows {
		v := row[i]
		if v.IsNull() {
			continue
		}
		s := v.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
