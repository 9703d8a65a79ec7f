// Package render turns filtered rows into display cells: formatted text,
// highlight styles and per-column layout hints. All dispatch is driven by
// column names through ordered rule tables.
package render

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
)

// textualColumns are always shown exactly as stored
var textualColumns = map[string]bool{
	"Div":               true,
	"Nome Mercato":      true,
	"Squadra Casa":      true,
	"Squadra Trasferta": true,
	"Data":              true,
	"Stagione":          true,
}

var groupingPrinter = message.NewPrinter(language.Italian)

type formatAction func(v dataset.Value) (string, bool)

type formatRule struct {
	name   string
	match  func(column string) bool
	action formatAction
}

func contains(markers ...string) func(string) bool {
	return func(column string) bool {
		for _, m := range markers {
			if strings.Contains(column, m) {
				return true
			}
		}
		return false
	}
}

// formatRules is evaluated top to bottom; the first matching rule wins.
var formatRules = []formatRule{
	{"textual", func(c string) bool { return textualColumns[c] }, asText},
	{"count", contains("Occorrenze"), groupedInteger},
	// marker match only
	{"frequency", contains("Frequenza", "%"), percent},
	{"fair odds", contains("Quota Equa"), decimals2},
	{"current delay", contains("Ritardo Attuale"), truncatedInteger},
	{"z-score", contains("Z-Score"), decimals2},
	{"streak", contains("Striscia", "Lunghezza Ciclo"), roundedInteger},
	{"default", func(string) bool { return true }, defaultFormat},
}

// Format renders a cell for display. Null is always the empty string and a
// value that a numeric rule cannot handle falls back to its raw text.
func Format(v dataset.Value, column string) string {
	if v.IsNull() {
		return ""
	}
	for _, rule := range formatRules {
		if !rule.match(column) {
			continue
		}
		if s, ok := rule.action(v); ok {
			return s
		}
		return v.String()
	}
	return v.String()
}

// FormatRule returns the name of the rule that applies to column
func FormatRule(column string) string {
	for _, rule := range formatRules {
		if rule.match(column) {
			return rule.name
		}
	}
	return "default"
}

func numeric(v dataset.Value) (float64, bool) {
	if !v.IsNumber() || math.IsInf(v.Num, 0) || math.IsNaN(v.Num) {
		return 0, false
	}
	return v.Num, true
}

func asText(v dataset.Value) (string, bool) {
	return v.String(), true
}

func groupedInteger(v dataset.Value) (string, bool) {
	f, ok := numeric(v)
	if !ok || math.Abs(f) >= 1<<62 {
		return "", false
	}
	return groupingPrinter.Sprintf("%d", int64(math.Round(f))), true
}

func percent(v dataset.Value) (string, bool) {
	f, ok := numeric(v)
	if !ok {
		return "", false
	}
	r := math.Round(f * 100)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', 0, 64) + "%", true
}

func decimals2(v dataset.Value) (string, bool) {
	f, ok := numeric(v)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', 2, 64), true
}

func truncatedInteger(v dataset.Value) (string, bool) {
	f, ok := numeric(v)
	if !ok {
		return "", false
	}
	t := math.Trunc(f)
	if t == 0 {
		t = 0
	}
	return strconv.FormatFloat(t, 'f', 0, 64), true
}

func roundedInteger(v dataset.Value) (string, bool) {
	f, ok := numeric(v)
	if !ok {
		return "", false
	}
	r := math.Round(f)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64), true
}

func defaultFormat(v dataset.Value) (string, bool) {
	if v.IsNumber() {
		return decimals2(v)
	}
	return v.String(), true
}
