package dataset

import (
	"math"
	"strconv"
)

// Kind identifies what a cell holds
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Value is a single cell: null, a number or text
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Null returns the null value
func Null() Value { return Value{} }

// Number returns a numeric value. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{Kind: KindNumber, Num: f}
}

// Text returns a textual value
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsNumber reports whether v is numeric
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// String returns the raw, unformatted textual form of v
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Str
	default:
		return ""
	}
}

// Interface returns v as a plain Go value for JSON encoding
func (v Value) Interface() any {
	switch v.Kind {
	case KindNumber:
		if math.IsInf(v.Num, 0) {
			return v.String()
		}
		return v.Num
	case KindText:
		return v.Str
	default:
		return nil
	}
}

// ParseCell infers a value from a raw textual cell. Empty cells are null,
// anything parseable as a finite number is numeric, the rest is text.
func ParseCell(raw string) Value {
	if raw == "" {
		return Null()
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Number(float64(i))
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return Text(raw)
}

// ParseCanonicalCell is ParseCell restricted to the exact form
// Value.String produces, so "007" and "1e3" stay text.
func ParseCanonicalCell(raw string) Value {
	if raw == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if v := Number(f); v.String() == raw {
			return v
		}
	}
	return Text(raw)
}
