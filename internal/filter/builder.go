package filter

import (
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazysheet/internal/models"
)

// Builder renders a FilterGroupSet as a readable boolean expression
type Builder struct {
	// MaxValues limits how many set members are listed before eliding
	MaxValues int
}

// NewBuilder creates a new filter builder
func NewBuilder() *Builder {
	return &Builder{MaxValues: 5}
}

// Describe renders set, omitting filters that would be skipped.
// An empty string means no filter is in effect.
func (b *Builder) Describe(set models.FilterGroupSet) string {
	var clauses []string
	for _, g := range set.Groups {
		clause := b.buildGroup(g)
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) == 0 {
		return ""
	}
	if len(clauses) == 1 {
		return strings.TrimSuffix(strings.TrimPrefix(clauses[0], "("), ")")
	}
	return strings.Join(clauses, " "+set.GlobalLogic.String()+" ")
}

func (b *Builder) buildGroup(group models.FilterGroup) string {
	var parts []string
	for _, f := range group.Filters {
		if c := b.BuildCondition(f); c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " "+group.Logic.String()+" ") + ")"
}

// BuildCondition renders one filter, or "" when the filter is incomplete
func (b *Builder) BuildCondition(f models.Filter) string {
	if f.Column == "" || f.Condition == "" {
		return ""
	}

	switch {
	case f.Condition.IsSet():
		if len(f.Values) == 0 {
			return ""
		}
		values := f.Values
		more := 0
		if b.MaxValues > 0 && len(values) > b.MaxValues {
			more = len(values) - b.MaxValues
			values = values[:b.MaxValues]
		}
		list := strings.Join(values, ", ")
		if more > 0 {
			list += fmt.Sprintf(", +%d", more)
		}
		return fmt.Sprintf("%s %s [%s]", f.Column, f.Condition, list)
	case f.Condition.IsNumeric():
		if strings.TrimSpace(f.Scalar) == "" {
			return fmt.Sprintf("%s %s \"\"", f.Column, f.Condition)
		}
		return fmt.Sprintf("%s %s %s", f.Column, f.Condition, strings.TrimSpace(f.Scalar))
	default:
		return ""
	}
}

// Describe renders set with the default builder
func Describe(set models.FilterGroupSet) string {
	return NewBuilder().Describe(set)
}
