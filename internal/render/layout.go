package render

import "strings"

// Widths in terminal cells
const (
	WidthWide    = 28
	WidthNarrow  = 5
	WidthCompact = 9
	WidthDefault = 14
)

// ColumnLayout carries the display hints for a column
type ColumnLayout struct {
	Width  int
	Pinned bool
}

var fixedWidths = map[string]int{
	"Nome Mercato": WidthWide,
	"Div":          WidthNarrow,
}

var metricMarkers = []string{"Z-Score", "Frequenza", "Quota", "Ritardo", "Occorrenze", "Striscia", "Ciclo"}

// pinnedOrder lists the pinned columns in priority order
var pinnedOrder = []string{"Div", "Nome Mercato"}

// Layout resolves the width and pin flag of a column
func Layout(column string) ColumnLayout {
	l := ColumnLayout{Width: WidthDefault, Pinned: isPinned(column)}
	if w, ok := fixedWidths[column]; ok {
		l.Width = w
		return l
	}
	for _, m := range metricMarkers {
		if strings.Contains(column, m) {
			l.Width = WidthCompact
			break
		}
	}
	return l
}

func isPinned(column string) bool {
	for _, p := range pinnedOrder {
		if p == column {
			return true
		}
	}
	return false
}

// PinnedColumns returns the pinned columns present in selected, in
// priority order
func PinnedColumns(selected []string) []string {
	present := make(map[string]bool, len(selected))
	for _, c := range selected {
		present[c] = true
	}
	var out []string
	for _, p := range pinnedOrder {
		if present[p] {
			out = append(out, p)
		}
	}
	return out
}

// OrderForDisplay puts pinned columns first, then the rest in selection order
func OrderForDisplay(selected []string) []string {
	out := PinnedColumns(selected)
	for _, c := range selected {
		if !isPinned(c) {
			out = append(out, c)
		}
	}
	return out
}
