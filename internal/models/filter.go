package models

import "strings"

// Logic is the boolean connective used to combine filters or groups
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// ParseLogic converts user input to a Logic, defaulting to AND
func ParseLogic(s string) Logic {
	if strings.EqualFold(strings.TrimSpace(s), string(LogicOr)) {
		return LogicOr
	}
	return LogicAnd
}

// Toggle returns the other connective
func (l Logic) Toggle() Logic {
	if l == LogicOr {
		return LogicAnd
	}
	return LogicOr
}

func (l Logic) String() string {
	if l == LogicOr {
		return string(LogicOr)
	}
	return string(LogicAnd)
}

// Condition represents a filter comparison
type Condition string

const (
	CondGreater        Condition = ">"
	CondLess           Condition = "<"
	CondGreaterOrEqual Condition = ">="
	CondLessOrEqual    Condition = "<="
	CondEqual          Condition = "="
	CondIn             Condition = "in"
	CondNotIn          Condition = "not_in"
)

var conditionLabels = map[Condition]string{
	CondGreater:        "maggiore di (>)",
	CondLess:           "minore di (<)",
	CondGreaterOrEqual: "maggiore o uguale a (>=)",
	CondLessOrEqual:    "minore o uguale a (<=)",
	CondEqual:          "uguale a (=)",
	CondIn:             "è uno di",
	CondNotIn:          "non è uno di",
}

// Label returns the display label shown in the filter panel
func (c Condition) Label() string {
	if l, ok := conditionLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsNumeric reports whether c compares against a single numeric value
func (c Condition) IsNumeric() bool {
	switch c {
	case CondGreater, CondLess, CondGreaterOrEqual, CondLessOrEqual, CondEqual:
		return true
	}
	return false
}

// IsSet reports whether c tests membership in a value set
func (c Condition) IsSet() bool {
	return c == CondIn || c == CondNotIn
}

// ParseCondition accepts either the symbol or a couple of common spellings
func ParseCondition(s string) (Condition, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ">", "gt":
		return CondGreater, true
	case "<", "lt":
		return CondLess, true
	case ">=", "ge", "gte":
		return CondGreaterOrEqual, true
	case "<=", "le", "lte":
		return CondLessOrEqual, true
	case "=", "==", "eq":
		return CondEqual, true
	case "in":
		return CondIn, true
	case "not_in", "not in", "notin", "nin":
		return CondNotIn, true
	}
	return "", false
}

// Filter is a single per-column predicate.
// Scalar holds the numeric value as typed, Values the textual set.
type Filter struct {
	ID        int       `yaml:"id" json:"id"`
	Column    string    `yaml:"column" json:"column"`
	Condition Condition `yaml:"condition" json:"condition"`
	Scalar    string    `yaml:"scalar,omitempty" json:"scalar,omitempty"`
	Values    []string  `yaml:"values,omitempty" json:"values,omitempty"`
}

// FilterGroup combines its filters with a single connective
type FilterGroup struct {
	ID      int      `yaml:"id" json:"id"`
	Logic   Logic    `yaml:"logic" json:"logic"`
	Filters []Filter `yaml:"filters" json:"filters"`
}

// FilterGroupSet is the complete filter state of a session
type FilterGroupSet struct {
	GlobalLogic Logic         `yaml:"global_logic" json:"global_logic"`
	Groups      []FilterGroup `yaml:"groups" json:"groups"`
}

// Counts returns the number of groups and filters
func (s FilterGroupSet) Counts() (groups, filters int) {
	for _, g := range s.Groups {
		filters += len(g.Filters)
	}
	return len(s.Groups), filters
}

// Clone returns a deep copy
func (s FilterGroupSet) Clone() FilterGroupSet {
	out := FilterGroupSet{GlobalLogic: s.GlobalLogic, Groups: make([]FilterGroup, len(s.Groups))}
	for i, g := range s.Groups {
		ng := FilterGroup{ID: g.ID, Logic: g.Logic, Filters: make([]Filter, len(g.Filters))}
		for j, f := range g.Filters {
			nf := f
			nf.Values = append([]string(nil), f.Values...)
			ng.Filters[j] = nf
		}
		out.Groups[i] = ng
	}
	return out
}
