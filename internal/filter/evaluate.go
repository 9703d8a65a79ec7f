package filter

import (
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/logger"
	"github.com/rebeliceyang/lazysheet/internal/models"
)

// Evaluate applies a single filter and returns the matching row ids.
// The boolean is false when the filter is skipped and contributes no set.
func Evaluate(ds *dataset.Dataset, f models.Filter) (*roaring.Bitmap, bool) {
	if f.Column == "" || f.Condition == "" {
		return nil, false
	}

	col := ds.ColumnIndex(f.Column)
	if col < 0 {
		logger.Warn("filter skipped: unknown column", "filter_id", f.ID, "column", f.Column)
		return nil, false
	}

	f, _ = Normalize(ds, f)

	switch {
	case f.Condition.IsSet():
		if len(f.Values) == 0 {
			logger.Debug("filter skipped: empty value set", "filter_id", f.ID, "column", f.Column)
			return nil, false
		}
		return evaluateSet(ds, col, f.Condition, f.Values), true

	case f.Condition.IsNumeric():
		target, ok := ParseNumber(f.Scalar)
		if !ok {
			logger.Debug("filter value is not numeric, matching all rows",
				"filter_id", f.ID, "column", f.Column, "value", f.Scalar)
			return ds.AllRows(), true
		}
		return evaluateNumeric(ds, col, f.Condition, target), true
	}

	logger.Warn("filter skipped: unsupported condition", "filter_id", f.ID, "condition", string(f.Condition))
	return nil, false
}

// ParseNumber coerces user input to a float. A single comma is accepted
// as the decimal separator.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func evaluateNumeric(ds *dataset.Dataset, col int, cond models.Condition, target float64) *roaring.Bitmap {
	cmp := comparator(cond)
	out := roaring.New()
	for row := 0; row < ds.Len(); row++ {
		v := ds.At(row, col)
		if v.IsNumber() && cmp(v.Num, target) {
			out.Add(uint32(row))
		}
	}
	return out
}

func comparator(cond models.Condition) func(a, b float64) bool {
	switch cond {
	case models.CondGreater:
		return func(a, b float64) bool { return a > b }
	case models.CondLess:
		return func(a, b float64) bool { return a < b }
	case models.CondGreaterOrEqual:
		return func(a, b float64) bool { return a >= b }
	case models.CondLessOrEqual:
		return func(a, b float64) bool { return a <= b }
	default:
		return func(a, b float64) bool { return a == b }
	}
}

// evaluateSet matches cells by exact, case-sensitive string equality.
// Null cells never match in and always match not_in.
func evaluateSet(ds *dataset.Dataset, col int, cond models.Condition, values []string) *roaring.Bitmap {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	negate := cond == models.CondNotIn
	out := roaring.New()
	for row := 0; row < ds.Len(); row++ {
		v := ds.At(row, col)
		if v.IsNull() {
			if negate {
				out.Add(uint32(row))
			}
			continue
		}
		_, hit := set[v.String()]
		if hit != negate {
			out.Add(uint32(row))
		}
	}
	return out
}
