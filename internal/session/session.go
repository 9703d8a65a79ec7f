// Package session owns the mutable filter state of one interactive session:
// the filter groups, the global logic and the selected display columns.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
	"github.com/rebeliceyang/lazysheet/internal/logger"
	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/render"
)

var (
	ErrGroupNotFound    = errors.New("filter group not found")
	ErrFilterNotFound   = errors.New("filter not found")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrInvalidCondition = errors.New("condition not valid for column type")
)

// DefaultColumnCount is how many leading columns are selected after a reset
const DefaultColumnCount = 5

// Session holds the filter state for a dataset. It is not safe for
// concurrent use; the UI mutates it from its update loop only.
type Session struct {
	ds             *dataset.Dataset
	set            models.FilterGroupSet
	selected       []string
	defaultColumns int

	nextGroupID  int
	nextFilterID int
}

// New creates a session in its default state
func New(ds *dataset.Dataset, defaultColumns int) *Session {
	if defaultColumns <= 0 {
		defaultColumns = DefaultColumnCount
	}
	s := &Session{ds: ds, defaultColumns: defaultColumns}
	s.Reset()
	return s
}

// Dataset returns the dataset the session filters
func (s *Session) Dataset() *dataset.Dataset {
	return s.ds
}

// Reset restores the defaults: no groups, AND logic and the first
// columns selected. ID counters keep counting.
func (s *Session) Reset() {
	s.set = models.FilterGroupSet{GlobalLogic: models.LogicAnd}
	s.selected = s.defaultSelection()
}

func (s *Session) defaultSelection() []string {
	names := s.ds.ColumnNames()
	if len(names) > s.defaultColumns {
		names = names[:s.defaultColumns]
	}
	return names
}

// FilterSet returns a copy of the current filter state
func (s *Session) FilterSet() models.FilterGroupSet {
	return s.set.Clone()
}

// GlobalLogic returns the connective combining groups
func (s *Session) GlobalLogic() models.Logic {
	return s.set.GlobalLogic
}

// SetGlobalLogic changes the connective combining groups
func (s *Session) SetGlobalLogic(l models.Logic) {
	s.set.GlobalLogic = l
}

// SelectedColumns returns the display selection in order
func (s *Session) SelectedColumns() []string {
	return append([]string(nil), s.selected...)
}

// AddGroup appends an empty AND group and returns its id
func (s *Session) AddGroup() int {
	s.nextGroupID++
	s.set.Groups = append(s.set.Groups, models.FilterGroup{ID: s.nextGroupID, Logic: models.LogicAnd})
	logger.Debug("filter group added", "group_id", s.nextGroupID)
	return s.nextGroupID
}

// RemoveGroup deletes a group and its filters
func (s *Session) RemoveGroup(id int) error {
	i, err := s.groupIndex(id)
	if err != nil {
		return err
	}
	s.set.Groups = append(s.set.Groups[:i], s.set.Groups[i+1:]...)
	return nil
}

// SetGroupLogic changes the connective inside a group
func (s *Session) SetGroupLogic(id int, l models.Logic) error {
	i, err := s.groupIndex(id)
	if err != nil {
		return err
	}
	s.set.Groups[i].Logic = l
	return nil
}

// AddFilter appends a filter on the first column, with that column's
// default condition and value, and returns its id
func (s *Session) AddFilter(groupID int) (int, error) {
	i, err := s.groupIndex(groupID)
	if err != nil {
		return 0, err
	}

	s.nextFilterID++
	f := models.Filter{ID: s.nextFilterID}
	if names := s.ds.ColumnNames(); len(names) > 0 {
		f = filter.ResetForColumn(s.ds, f, names[0])
	}
	s.set.Groups[i].Filters = append(s.set.Groups[i].Filters, f)
	return f.ID, nil
}

// RemoveFilter deletes a filter from a group
func (s *Session) RemoveFilter(groupID, filterID int) error {
	gi, fi, err := s.filterIndex(groupID, filterID)
	if err != nil {
		return err
	}
	filters := s.set.Groups[gi].Filters
	s.set.Groups[gi].Filters = append(filters[:fi], filters[fi+1:]...)
	return nil
}

// SetFilterColumn points a filter at another column. The condition and
// value are reset to the defaults for the column's type.
func (s *Session) SetFilterColumn(groupID, filterID int, column string) error {
	if !s.ds.HasColumn(column) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return s.updateFilter(groupID, filterID, func(f *models.Filter) error {
		*f = filter.ResetForColumn(s.ds, *f, column)
		return nil
	})
}

// SetFilterCondition changes the condition of a filter. The condition must
// be valid for the column's type. Switching between numeric conditions
// keeps the value.
func (s *Session) SetFilterCondition(groupID, filterID int, cond models.Condition) error {
	return s.updateFilter(groupID, filterID, func(f *models.Filter) error {
		col, ok := s.ds.Column(f.Column)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, f.Column)
		}
		if !filter.ValidFor(cond, col.Type) {
			return fmt.Errorf("%w: %s on %s column %q", ErrInvalidCondition, cond, col.Type, f.Column)
		}
		f.Condition = cond
		return nil
	})
}

// SetFilterScalar sets the numeric value as typed by the user
func (s *Session) SetFilterScalar(groupID, filterID int, value string) error {
	return s.updateFilter(groupID, filterID, func(f *models.Filter) error {
		f.Scalar = value
		return nil
	})
}

// SetFilterValues replaces the value set of a textual filter
func (s *Session) SetFilterValues(groupID, filterID int, values []string) error {
	return s.updateFilter(groupID, filterID, func(f *models.Filter) error {
		f.Values = dedupe(values)
		return nil
	})
}

// ToggleFilterValue adds value to the set, or removes it if present
func (s *Session) ToggleFilterValue(groupID, filterID int, value string) error {
	return s.updateFilter(groupID, filterID, func(f *models.Filter) error {
		for i, v := range f.Values {
			if v == value {
				f.Values = append(f.Values[:i], f.Values[i+1:]...)
				return nil
			}
		}
		f.Values = append(f.Values, value)
		return nil
	})
}

// Filter returns a copy of a filter
func (s *Session) Filter(groupID, filterID int) (models.Filter, error) {
	gi, fi, err := s.filterIndex(groupID, filterID)
	if err != nil {
		return models.Filter{}, err
	}
	f := s.set.Groups[gi].Filters[fi]
	f.Values = append([]string(nil), f.Values...)
	return f, nil
}

// SelectColumns replaces the display selection. Unknown names are rejected.
func (s *Session) SelectColumns(columns []string) error {
	for _, c := range columns {
		if !s.ds.HasColumn(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}
	s.selected = dedupe(columns)
	return nil
}

// ToggleColumn adds or removes a column from the selection. Added columns
// go last so a custom order survives.
func (s *Session) ToggleColumn(column string) error {
	if !s.ds.HasColumn(column) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	for i, c := range s.selected {
		if c == column {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return nil
		}
	}
	s.selected = append(s.selected, column)
	return nil
}

// Evaluate runs the full filter pipeline against the dataset
func (s *Session) Evaluate() filter.Result {
	return filter.Apply(s.ds, s.set)
}

// Render evaluates the filters and builds the display table
func (s *Session) Render() *render.Table {
	return s.RenderResult(s.Evaluate())
}

// RenderResult builds the display table from an already evaluated result
func (s *Session) RenderResult(res filter.Result) *render.Table {
	t := render.Build(s.ds, res, s.selected)
	t.Summary = s.Summary()
	return t
}

// Describe renders the active filters as a boolean expression
func (s *Session) Describe() string {
	return filter.Describe(s.set)
}

// Summary returns the group and filter counts with the global logic
func (s *Session) Summary() string {
	groups, filters := s.set.Counts()
	g := "gruppi"
	if groups == 1 {
		g = "gruppo"
	}
	f := "filtri"
	if filters == 1 {
		f = "filtro"
	}
	return fmt.Sprintf("%d %s, %d %s · logica globale %s", groups, g, filters, f, s.set.GlobalLogic)
}

// Snapshot captures the current state as a preset
func (s *Session) Snapshot(name, description string) models.Preset {
	set := s.set.Clone()
	return models.Preset{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Source:      s.ds.Name,
		GlobalLogic: set.GlobalLogic,
		Groups:      set.Groups,
		Columns:     s.SelectedColumns(),
	}
}

// Restore replaces the session state with a preset. Group and filter ids
// are reassigned from the session counters. Columns missing from the
// dataset are dropped from the selection.
func (s *Session) Restore(p models.Preset) {
	set := p.FilterSet()
	if set.GlobalLogic != models.LogicOr {
		set.GlobalLogic = models.LogicAnd
	}
	for gi := range set.Groups {
		s.nextGroupID++
		set.Groups[gi].ID = s.nextGroupID
		if set.Groups[gi].Logic != models.LogicOr {
			set.Groups[gi].Logic = models.LogicAnd
		}
		for fi := range set.Groups[gi].Filters {
			s.nextFilterID++
			f := set.Groups[gi].Filters[fi]
			f.ID = s.nextFilterID
			f, _ = filter.Normalize(s.ds, f)
			set.Groups[gi].Filters[fi] = f
		}
	}
	s.set = set

	var cols []string
	for _, c := range p.Columns {
		if s.ds.HasColumn(c) {
			cols = append(cols, c)
		} else {
			logger.Warn("preset column not in dataset", "preset", p.Name, "column", c)
		}
	}
	if len(cols) == 0 {
		cols = s.defaultSelection()
	}
	s.selected = dedupe(cols)
}

func (s *Session) groupIndex(id int) (int, error) {
	for i, g := range s.set.Groups {
		if g.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", ErrGroupNotFound, id)
}

func (s *Session) filterIndex(groupID, filterID int) (int, int, error) {
	gi, err := s.groupIndex(groupID)
	if err != nil {
		return -1, -1, err
	}
	for fi, f := range s.set.Groups[gi].Filters {
		if f.ID == filterID {
			return gi, fi, nil
		}
	}
	return -1, -1, fmt.Errorf("%w: %d in group %d", ErrFilterNotFound, filterID, groupID)
}

func (s *Session) updateFilter(groupID, filterID int, fn func(f *models.Filter) error) error {
	gi, fi, err := s.filterIndex(groupID, filterID)
	if err != nil {
		return err
	}
	f := s.set.Groups[gi].Filters[fi]
	if err := fn(&f); err != nil {
		return err
	}
	s.set.Groups[gi].Filters[fi] = f
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
