package filter

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/models"
)

// State distinguishes why a result has the rows it has
type State int

const (
	// StateUnfiltered means no filter produced a row set
	StateUnfiltered State = iota
	// StateMatched means filters were applied and rows matched
	StateMatched
	// StateEmpty means filters were applied and nothing matched
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateMatched:
		return "matched"
	case StateEmpty:
		return "empty"
	default:
		return "unfiltered"
	}
}

// Result is the outcome of applying a FilterGroupSet to a dataset
type Result struct {
	Rows   *roaring.Bitmap
	Total  int
	Active bool
}

// Matched returns the number of rows in the result
func (r Result) Matched() int {
	if r.Rows == nil {
		return 0
	}
	return int(r.Rows.GetCardinality())
}

// State classifies the result
func (r Result) State() State {
	switch {
	case !r.Active:
		return StateUnfiltered
	case r.Matched() == 0:
		return StateEmpty
	default:
		return StateMatched
	}
}

// Message returns the user-facing line describing the result
func (r Result) Message() string {
	switch r.State() {
	case StateEmpty:
		return "Nessun risultato trovato con i filtri applicati."
	case StateMatched:
		return fmt.Sprintf("Visualizzazione di %d righe su %d totali", r.Matched(), r.Total)
	default:
		return fmt.Sprintf("Visualizzazione di tutte le %d righe (nessun filtro attivo)", r.Total)
	}
}

// RowIDs returns the matching row ids in ascending order
func (r Result) RowIDs() []int {
	if r.Rows == nil {
		return nil
	}
	out := make([]int, 0, r.Rows.GetCardinality())
	it := r.Rows.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// combine folds sets with the given logic. It reports false when there
// are no sets, in which case the caller substitutes the full dataset.
func combine(sets []*roaring.Bitmap, logic models.Logic) (*roaring.Bitmap, bool) {
	if len(sets) == 0 {
		return nil, false
	}
	if logic == models.LogicOr {
		return roaring.FastOr(sets...), true
	}
	return roaring.FastAnd(sets...), true
}

// composeGroup evaluates a group and reports whether any filter in it
// produced a set
func composeGroup(ds *dataset.Dataset, filters []models.Filter, logic models.Logic) (*roaring.Bitmap, bool) {
	var sets []*roaring.Bitmap
	for _, f := range filters {
		if rows, ok := Evaluate(ds, f); ok {
			sets = append(sets, rows)
		}
	}
	return combine(sets, logic)
}

// ComposeGroup combines the filters of a group. A group whose filters
// are all skipped is the identity and yields every row.
func ComposeGroup(ds *dataset.Dataset, filters []models.Filter, logic models.Logic) *roaring.Bitmap {
	if rows, ok := composeGroup(ds, filters, logic); ok {
		return rows
	}
	return ds.AllRows()
}

// ComposeGlobal combines every group with the global logic. Zero groups
// yield every row.
func ComposeGlobal(ds *dataset.Dataset, set models.FilterGroupSet) *roaring.Bitmap {
	return Apply(ds, set).Rows
}

// Apply evaluates the whole filter set. Active is true when at least one
// filter produced a set, which keeps "no filter" apart from "no rows".
func Apply(ds *dataset.Dataset, set models.FilterGroupSet) Result {
	res := Result{Total: ds.Len()}

	var sets []*roaring.Bitmap
	for _, g := range set.Groups {
		rows, ok := composeGroup(ds, g.Filters, g.Logic)
		if !ok {
			rows = ds.AllRows()
		} else {
			res.Active = true
		}
		sets = append(sets, rows)
	}

	rows, ok := combine(sets, set.GlobalLogic)
	if !ok {
		rows = ds.AllRows()
	}
	res.Rows = rows
	return res
}
