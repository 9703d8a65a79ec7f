package filter

import (
	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/logger"
	"github.com/rebeliceyang/lazysheet/internal/models"
)

// Default filter values per column type
const (
	DefaultNumericCondition = models.CondGreater
	DefaultNumericScalar    = "0"
	DefaultTextCondition    = models.CondIn
)

var (
	numericConditions = []models.Condition{
		models.CondGreater,
		models.CondLess,
		models.CondGreaterOrEqual,
		models.CondLessOrEqual,
		models.CondEqual,
	}
	textConditions = []models.Condition{
		models.CondIn,
		models.CondNotIn,
	}
)

// ConditionsFor returns the conditions available for a column type
func ConditionsFor(t dataset.ColumnType) []models.Condition {
	if t == dataset.Textual {
		return append([]models.Condition(nil), textConditions...)
	}
	return append([]models.Condition(nil), numericConditions...)
}

// ValidFor reports whether c may be used on a column of type t
func ValidFor(c models.Condition, t dataset.ColumnType) bool {
	if t == dataset.Textual {
		return c.IsSet()
	}
	return c.IsNumeric()
}

// Defaults returns f with the condition and value reset to the defaults
// for a column of type t
func Defaults(f models.Filter, t dataset.ColumnType) models.Filter {
	if t == dataset.Textual {
		f.Condition = DefaultTextCondition
		f.Scalar = ""
		f.Values = nil
		return f
	}
	f.Condition = DefaultNumericCondition
	f.Scalar = DefaultNumericScalar
	f.Values = nil
	return f
}

// ResetForColumn points f at column and resets its condition and value
func ResetForColumn(ds *dataset.Dataset, f models.Filter, column string) models.Filter {
	f.Column = column
	col, ok := ds.Column(column)
	if !ok {
		f.Condition = ""
		f.Scalar = ""
		f.Values = nil
		return f
	}
	return Defaults(f, col.Type)
}

// Normalize resets a condition that does not belong to the column's type.
// It reports whether f was changed. Unknown columns are left untouched.
func Normalize(ds *dataset.Dataset, f models.Filter) (models.Filter, bool) {
	col, ok := ds.Column(f.Column)
	if !ok || f.Condition == "" || ValidFor(f.Condition, col.Type) {
		return f, false
	}
	logger.Debug("filter condition reset for column type",
		"filter_id", f.ID, "column", f.Column, "condition", string(f.Condition), "type", col.Type.String())
	return Defaults(f, col.Type), true
}
