package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
	"github.com/rebeliceyang/lazysheet/internal/models"
)

func TestFormat(t *testing.T) {
	num := dataset.Number
	txt := dataset.Text

	tests := []struct {
		name   string
		value  dataset.Value
		column string
		want   string
	}{
		{"null anywhere", dataset.Null(), "Occorrenze", ""},
		{"null default", dataset.Null(), "Altro", ""},
		{"textual column keeps number raw", num(2023), "Stagione", "2023"},
		{"textual column text", txt("I1"), "Div", "I1"},
		{"count grouping", num(1234567), "Occorrenze Totali", "1.234.567"},
		{"count rounds", num(999.6), "Occorrenze", "1.000"},
		{"count small", num(12), "Occorrenze", "12"},
		{"frequency", num(0.456), "Frequenza Over", "46%"},
		{"percent marker", num(0.5), "% Vittorie", "50%"},
		{"frequency negative zero", num(-0.001), "Frequenza", "0%"},
		{"fair odds", num(1.8567), "Quota Equa Over", "1.86"},
		{"current delay truncates", num(7.9), "Ritardo Attuale", "7"},
		{"current delay negative truncates", num(-2.7), "Ritardo Attuale", "-2"},
		{"z-score", num(-2.346), "Z-Score Valore", "-2.35"},
		{"streak rounds", num(4.5), "Striscia Massima", "5"},
		{"cycle rounds", num(3.4), "Lunghezza Ciclo Medio", "3"},
		{"default numeric", num(3), "Media Gol", "3.00"},
		{"default text", txt("abc"), "Note", "abc"},
		{"numeric rule on text falls back", txt("n/d"), "Z-Score Valore", "n/d"},
		{"infinite falls back", num(math.Inf(1)), "Quota Equa", "+Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.value, tt.column))
		})
	}
}

func TestFormatRuleOrder(t *testing.T) {
	// "Z-Score Frequenza" hits the frequency rule before the z-score rule
	assert.Equal(t, "frequency", FormatRule("Z-Score Frequenza"))
	assert.Equal(t, "45%", Format(dataset.Number(0.45), "Z-Score Frequenza"))

	// exact textual names win over every marker
	assert.Equal(t, "textual", FormatRule("Div"))
	assert.Equal(t, "count", FormatRule("Occorrenze %"))
	assert.Equal(t, "default", FormatRule("Squadra"))
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		column string
		value  float64
		want   Style
	}{
		{"Z-Score Ritardi Consecutivi", 3, StyleStrongPositive},
		{"Z-Score Ritardi Consecutivi", 2.99, StyleMildPositive},
		{"Z-Score Ritardi Consecutivi", 2, StyleMildPositive},
		{"Z-Score Ritardi Consecutivi", 1.99, StyleNone},
		{"Z-Score Valore", -3, StyleStrongPositive},
		{"Z-Score Valore", -2.5, StyleMildPositive},
		{"Z-Score Valore", -1.9, StyleNone},
		{"Z-Score Valore", 4, StyleNone},
		{"Z-Score Cicli Debolezza", 3.1, StyleStrongPositive},
		{"Z-Score Cicli Debolezza", 2, StyleMildPositive},
		{"Z-Score Cicli Forza", 3, StyleStrongAlert},
		{"Z-Score Cicli Forza", 2.2, StyleMildAlert},
		{"Z-Score  Cicli Forza", 3, StyleStrongAlert},
		{"Z-Score  Cicli Forza", 2, StyleMildAlert},
		{"Z-Score  Cicli Forza", 1, StyleNone},
		{"Quota Equa", 10, StyleNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Highlight(dataset.Number(tt.value), tt.column), "%s=%v", tt.column, tt.value)
	}

	assert.Equal(t, StyleNone, Highlight(dataset.Null(), "Z-Score Valore"))
	assert.Equal(t, StyleNone, Highlight(dataset.Text("-5"), "Z-Score Valore"))
}

func TestLayout(t *testing.T) {
	assert.Equal(t, ColumnLayout{Width: WidthWide, Pinned: true}, Layout("Nome Mercato"))
	assert.Equal(t, ColumnLayout{Width: WidthNarrow, Pinned: true}, Layout("Div"))
	assert.Equal(t, ColumnLayout{Width: WidthCompact}, Layout("Z-Score Valore"))
	assert.Equal(t, ColumnLayout{Width: WidthCompact}, Layout("Quota Equa"))
	assert.Equal(t, ColumnLayout{Width: WidthDefault}, Layout("Squadra Casa"))

	selected := []string{"Quota", "Nome Mercato", "Squadra Casa", "Div"}
	assert.Equal(t, []string{"Div", "Nome Mercato"}, PinnedColumns(selected))
	assert.Equal(t, []string{"Div", "Nome Mercato", "Quota", "Squadra Casa"}, OrderForDisplay(selected))
	assert.Empty(t, PinnedColumns([]string{"Quota"}))
}

func tableFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("fixture",
		[]string{"Squadra Casa", "Div", "Z-Score Valore", "Frequenza"},
		[][]dataset.Value{
			{dataset.Text("Milan"), dataset.Text("I1"), dataset.Number(-3.5), dataset.Number(0.25)},
			{dataset.Text("Arsenal"), dataset.Text("E0"), dataset.Number(0.1), dataset.Null()},
		})
	require.NoError(t, err)
	return ds
}

func TestBuild(t *testing.T) {
	ds := tableFixture(t)
	res := filter.Apply(ds, models.FilterGroupSet{})

	tbl := Build(ds, res, nil)
	assert.Equal(t, []string{"Div", "Squadra Casa", "Z-Score Valore", "Frequenza"}, tbl.ColumnNames())
	assert.Equal(t, 1, tbl.PinnedCount())
	assert.Equal(t, filter.StateUnfiltered, tbl.State)
	require.Len(t, tbl.Rows, 2)

	first := tbl.Rows[0]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "I1", first.Cells[0].Text)
	assert.Equal(t, "-3.50", first.Cells[2].Text)
	assert.Equal(t, StyleStrongPositive, first.Cells[2].Style)
	assert.Equal(t, "25%", first.Cells[3].Text)
	assert.Equal(t, "", tbl.Rows[1].Cells[3].Text)
	assert.Equal(t, dataset.Number(0.25), first.Cells[3].Raw)
}

func TestBuildSelectionAndEmptyState(t *testing.T) {
	ds := tableFixture(t)

	set := models.FilterGroupSet{Groups: []models.FilterGroup{{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
		{Column: "Div", Condition: models.CondIn, Values: []string{"E0"}},
	}}}}
	tbl := Build(ds, filter.Apply(ds, set), []string{"Frequenza", "Unknown", "Squadra Casa"})
	assert.Equal(t, []string{"Frequenza", "Squadra Casa"}, tbl.ColumnNames())
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Arsenal", tbl.Rows[0].Cells[1].Text)
	assert.Equal(t, "Visualizzazione di 1 righe su 2 totali", tbl.Message)

	set.Groups[0].Filters[0].Values = []string{"SP1"}
	tbl = Build(ds, filter.Apply(ds, set), nil)
	assert.Equal(t, filter.StateEmpty, tbl.State)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, 2, tbl.Total)
}
