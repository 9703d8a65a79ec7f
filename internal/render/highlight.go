package render

import (
	"strings"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
)

// Style is a highlight category; the theme decides the colors
type Style int

const (
	StyleNone Style = iota
	StyleStrongPositive
	StyleMildPositive
	StyleStrongAlert
	StyleMildAlert
)

func (s Style) String() string {
	switch s {
	case StyleStrongPositive:
		return "strong-positive"
	case StyleMildPositive:
		return "mild-positive"
	case StyleStrongAlert:
		return "strong-alert"
	case StyleMildAlert:
		return "mild-alert"
	default:
		return "none"
	}
}

type tier struct {
	threshold float64
	style     Style
}

type highlightRule struct {
	markers []string
	// below selects value <= threshold instead of value >= threshold
	below bool
	// tiers are ordered strongest first
	tiers []tier
}

var positiveTiers = []tier{{3, StyleStrongPositive}, {2, StyleMildPositive}}

// Both spellings of the strength-cycle column exist in the data.
var highlightRules = []highlightRule{
	{markers: []string{"Z-Score Ritardi Consecutivi"}, tiers: positiveTiers},
	{markers: []string{"Z-Score Valore"}, below: true, tiers: []tier{{-3, StyleStrongPositive}, {-2, StyleMildPositive}}},
	{markers: []string{"Z-Score Cicli Debolezza"}, tiers: positiveTiers},
	{markers: []string{"Z-Score Cicli Forza", "Z-Score  Cicli Forza"}, tiers: []tier{{3, StyleStrongAlert}, {2, StyleMildAlert}}},
}

func (r highlightRule) matches(column string) bool {
	for _, m := range r.markers {
		if strings.Contains(column, m) {
			return true
		}
	}
	return false
}

func (r highlightRule) apply(v float64) Style {
	for _, t := range r.tiers {
		if (r.below && v <= t.threshold) || (!r.below && v >= t.threshold) {
			return t.style
		}
	}
	return StyleNone
}

// Highlight returns the style for a numeric cell. Rules are evaluated
// independently and a later matching rule overrides an earlier one.
func Highlight(v dataset.Value, column string) Style {
	if !v.IsNumber() {
		return StyleNone
	}
	style := StyleNone
	for _, rule := range highlightRules {
		if !rule.matches(column) {
			continue
		}
		if s := rule.apply(v.Num); s != StyleNone {
			style = s
		}
	}
	return style
}
