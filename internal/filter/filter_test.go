package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/models"
)

// fixture rows:
//
//	0: I1  2.5   Over
//	1: E0  1.2   Under
//	2: I1  3.0   null
//	3: null 0.9  Over
//	4: SP1 null  Goal
func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("fixture", []string{"Div", "Quota", "Mercato"}, [][]dataset.Value{
		{dataset.Text("I1"), dataset.Number(2.5), dataset.Text("Over")},
		{dataset.Text("E0"), dataset.Number(1.2), dataset.Text("Under")},
		{dataset.Text("I1"), dataset.Number(3), dataset.Null()},
		{dataset.Null(), dataset.Number(0.9), dataset.Text("Over")},
		{dataset.Text("SP1"), dataset.Null(), dataset.Text("Goal")},
	})
	require.NoError(t, err)
	return ds
}

func ids(t *testing.T, ds *dataset.Dataset, f models.Filter) []uint32 {
	t.Helper()
	rows, ok := Evaluate(ds, f)
	require.True(t, ok, "filter unexpectedly skipped")
	return rows.ToArray()
}

func TestEvaluateNumeric(t *testing.T) {
	ds := fixture(t)

	tests := []struct {
		cond  models.Condition
		value string
		want  []uint32
	}{
		{models.CondGreater, "2", []uint32{0, 2}},
		{models.CondLess, "1.2", []uint32{3}},
		{models.CondGreaterOrEqual, "1.2", []uint32{0, 1, 2}},
		{models.CondLessOrEqual, "2.5", []uint32{0, 1, 3}},
		{models.CondEqual, "3", []uint32{2}},
		{models.CondEqual, "2,5", []uint32{0}},
		{models.CondGreater, "100", []uint32{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.cond)+" "+tt.value, func(t *testing.T) {
			got := ids(t, ds, models.Filter{Column: "Quota", Condition: tt.cond, Scalar: tt.value})
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestEvaluateNumericFailsOpen(t *testing.T) {
	ds := fixture(t)

	for _, cond := range ConditionsFor(dataset.Numeric) {
		got := ids(t, ds, models.Filter{Column: "Quota", Condition: cond, Scalar: "abc"})
		assert.Equal(t, []uint32{0, 1, 2, 3, 4}, got, "condition %s", cond)
	}

	for _, blank := range []string{"", "  "} {
		got := ids(t, ds, models.Filter{Column: "Quota", Condition: models.CondGreater, Scalar: blank})
		assert.Equal(t, []uint32{0, 1, 2, 3, 4}, got, "blank value %q", blank)
	}
}

func TestBlankNumericValueCountsInGroups(t *testing.T) {
	ds := fixture(t)
	set := models.FilterGroupSet{
		GlobalLogic: models.LogicAnd,
		Groups: []models.FilterGroup{{ID: 1, Logic: models.LogicOr, Filters: []models.Filter{
			{ID: 1, Column: "Quota", Condition: models.CondGreater, Scalar: "2"},
			{ID: 2, Column: "Quota", Condition: models.CondGreater, Scalar: ""},
		}}},
	}
	res := Apply(ds, set)
	assert.True(t, res.Active)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.RowIDs())

	set.Groups[0].Filters = set.Groups[0].Filters[1:]
	res = Apply(ds, set)
	assert.True(t, res.Active, "a blank numeric filter is not skipped")
	assert.Equal(t, StateMatched, res.State())
	assert.Equal(t, `Quota > ""`, Describe(set))
}

func TestEvaluateSet(t *testing.T) {
	ds := fixture(t)

	got := ids(t, ds, models.Filter{Column: "Div", Condition: models.CondIn, Values: []string{"I1"}})
	assert.Equal(t, []uint32{0, 2}, got)

	got = ids(t, ds, models.Filter{Column: "Div", Condition: models.CondNotIn, Values: []string{"I1"}})
	assert.Equal(t, []uint32{1, 3, 4}, got, "null Div must match not_in")

	got = ids(t, ds, models.Filter{Column: "Div", Condition: models.CondIn, Values: []string{"i1"}})
	assert.Empty(t, got, "matching is case-sensitive")

	got = ids(t, ds, models.Filter{Column: "Mercato", Condition: models.CondIn, Values: []string{"Over", "Goal"}})
	assert.Equal(t, []uint32{0, 3, 4}, got)
}

func TestEvaluateSkips(t *testing.T) {
	ds := fixture(t)

	tests := []struct {
		name string
		f    models.Filter
	}{
		{"empty column", models.Filter{Condition: models.CondGreater, Scalar: "1"}},
		{"empty condition", models.Filter{Column: "Quota", Scalar: "1"}},
		{"unknown column", models.Filter{Column: "Nope", Condition: models.CondGreater, Scalar: "1"}},
		{"empty set", models.Filter{Column: "Div", Condition: models.CondIn}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Evaluate(ds, tt.f)
			assert.False(t, ok)
		})
	}
}

func TestEvaluateNormalizesCrossTypeCondition(t *testing.T) {
	ds := fixture(t)

	// a numeric condition on a textual column resets to "in" with no values
	_, ok := Evaluate(ds, models.Filter{Column: "Div", Condition: models.CondGreater, Scalar: "1"})
	assert.False(t, ok)

	// a set condition on a numeric column resets to "> 0"
	got := ids(t, ds, models.Filter{Column: "Quota", Condition: models.CondIn, Values: []string{"x"}})
	assert.Equal(t, []uint32{0, 1, 2, 3}, got)
}

func TestConditionsFor(t *testing.T) {
	assert.Equal(t, []models.Condition{">", "<", ">=", "<=", "="}, ConditionsFor(dataset.Numeric))
	assert.Equal(t, []models.Condition{"in", "not_in"}, ConditionsFor(dataset.Textual))
}

func TestNormalizeAndReset(t *testing.T) {
	ds := fixture(t)

	f, changed := Normalize(ds, models.Filter{Column: "Div", Condition: models.CondLess, Scalar: "4"})
	assert.True(t, changed)
	assert.Equal(t, models.CondIn, f.Condition)
	assert.Empty(t, f.Scalar)

	f, changed = Normalize(ds, models.Filter{Column: "Quota", Condition: models.CondLess, Scalar: "4"})
	assert.False(t, changed)
	assert.Equal(t, "4", f.Scalar)

	f = ResetForColumn(ds, models.Filter{ID: 3, Column: "Div", Condition: models.CondIn, Values: []string{"I1"}}, "Quota")
	assert.Equal(t, models.Filter{ID: 3, Column: "Quota", Condition: models.CondGreater, Scalar: "0"}, f)

	f = ResetForColumn(ds, f, "Mercato")
	assert.Equal(t, models.Filter{ID: 3, Column: "Mercato", Condition: models.CondIn}, f)
}

func TestComposeGroup(t *testing.T) {
	ds := fixture(t)
	divI1 := models.Filter{Column: "Div", Condition: models.CondIn, Values: []string{"I1"}}
	quotaLow := models.Filter{Column: "Quota", Condition: models.CondLess, Scalar: "2.6"}

	assert.Equal(t, []uint32{0}, ComposeGroup(ds, []models.Filter{divI1, quotaLow}, models.LogicAnd).ToArray())
	assert.Equal(t, []uint32{0, 1, 2, 3}, ComposeGroup(ds, []models.Filter{divI1, quotaLow}, models.LogicOr).ToArray())

	// empty group and all-skipped group are the identity
	assert.Equal(t, uint64(5), ComposeGroup(ds, nil, models.LogicAnd).GetCardinality())
	skipped := models.Filter{Column: "Div", Condition: models.CondIn}
	assert.Equal(t, uint64(5), ComposeGroup(ds, []models.Filter{skipped}, models.LogicOr).GetCardinality())

	// a skipped filter does not shrink an AND group
	assert.Equal(t, []uint32{0, 2}, ComposeGroup(ds, []models.Filter{divI1, skipped}, models.LogicAnd).ToArray())
}

func TestApply(t *testing.T) {
	ds := fixture(t)

	res := Apply(ds, models.FilterGroupSet{GlobalLogic: models.LogicAnd})
	assert.Equal(t, StateUnfiltered, res.State())
	assert.Equal(t, 5, res.Matched())
	assert.Equal(t, "Visualizzazione di tutte le 5 righe (nessun filtro attivo)", res.Message())

	set := models.FilterGroupSet{
		GlobalLogic: models.LogicOr,
		Groups: []models.FilterGroup{
			{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
				{ID: 1, Column: "Div", Condition: models.CondIn, Values: []string{"E0"}},
			}},
			{ID: 2, Logic: models.LogicAnd, Filters: []models.Filter{
				{ID: 2, Column: "Mercato", Condition: models.CondIn, Values: []string{"Goal"}},
			}},
		},
	}
	res = Apply(ds, set)
	assert.Equal(t, StateMatched, res.State())
	assert.Equal(t, []int{1, 4}, res.RowIDs())
	assert.Equal(t, "Visualizzazione di 2 righe su 5 totali", res.Message())

	set.GlobalLogic = models.LogicAnd
	res = Apply(ds, set)
	assert.Equal(t, StateEmpty, res.State())
	assert.True(t, res.Active)
	assert.Equal(t, 0, res.Matched())
	assert.Equal(t, "Nessun risultato trovato con i filtri applicati.", res.Message())
	assert.Equal(t, []uint32{}, ComposeGlobal(ds, set).ToArray())
}

func TestApplyEmptyGroupIsIdentityUnderAnd(t *testing.T) {
	ds := fixture(t)
	set := models.FilterGroupSet{
		GlobalLogic: models.LogicAnd,
		Groups: []models.FilterGroup{
			{ID: 1, Logic: models.LogicAnd},
			{ID: 2, Logic: models.LogicOr, Filters: []models.Filter{
				{Column: "Quota", Condition: models.CondGreater, Scalar: "2"},
			}},
		},
	}
	res := Apply(ds, set)
	assert.Equal(t, []int{0, 2}, res.RowIDs())

	// under OR an empty group contributes every row
	set.GlobalLogic = models.LogicOr
	assert.Equal(t, 5, Apply(ds, set).Matched())
}

func TestComposeGlobalIsOrderIndependent(t *testing.T) {
	ds := fixture(t)
	a := models.FilterGroup{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
		{Column: "Quota", Condition: models.CondGreater, Scalar: "1"},
	}}
	b := models.FilterGroup{ID: 2, Logic: models.LogicAnd, Filters: []models.Filter{
		{Column: "Mercato", Condition: models.CondNotIn, Values: []string{"Under"}},
	}}

	for _, logic := range []models.Logic{models.LogicAnd, models.LogicOr} {
		ab := ComposeGlobal(ds, models.FilterGroupSet{GlobalLogic: logic, Groups: []models.FilterGroup{a, b}})
		ba := ComposeGlobal(ds, models.FilterGroupSet{GlobalLogic: logic, Groups: []models.FilterGroup{b, a}})
		assert.True(t, ab.Equals(ba), "logic %s", logic)
	}
}

func TestDescribe(t *testing.T) {
	set := models.FilterGroupSet{
		GlobalLogic: models.LogicOr,
		Groups: []models.FilterGroup{
			{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
				{Column: "Div", Condition: models.CondIn, Values: []string{"I1", "E0"}},
				{Column: "Quota", Condition: models.CondGreater, Scalar: " 2 "},
			}},
			{ID: 2, Logic: models.LogicAnd, Filters: []models.Filter{
				{Column: "Div", Condition: models.CondIn},
			}},
			{ID: 3, Logic: models.LogicOr, Filters: []models.Filter{
				{Column: "Mercato", Condition: models.CondNotIn, Values: []string{"Goal"}},
			}},
		},
	}
	assert.Equal(t, "(Div in [I1, E0] AND Quota > 2) OR (Mercato not_in [Goal])", Describe(set))

	assert.Equal(t, "", Describe(models.FilterGroupSet{}))

	single := models.FilterGroupSet{Groups: []models.FilterGroup{set.Groups[2]}}
	assert.Equal(t, "Mercato not_in [Goal]", Describe(single))

	b := &Builder{MaxValues: 1}
	assert.Equal(t, "Div in [I1, +1]", b.BuildCondition(set.Groups[0].Filters[0]))
}

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber("1,5")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = ParseNumber("1,000.5")
	assert.False(t, ok)

	_, ok = ParseNumber("")
	assert.False(t, ok)
}

func TestScenarios(t *testing.T) {
	ds, err := dataset.New("scenario", []string{"Div", "Nome Mercato", "Frequenza Storica"}, [][]dataset.Value{
		{dataset.Text("I1"), dataset.Text("Casa"), dataset.Number(0.55)},
		{dataset.Text("I1"), dataset.Text("Trasferta"), dataset.Number(0.20)},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		set  models.FilterGroupSet
		want []int
	}{
		{
			name: "frequency threshold keeps the first row",
			set: models.FilterGroupSet{
				GlobalLogic: models.LogicAnd,
				Groups: []models.FilterGroup{{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
					{ID: 1, Column: "Frequenza Storica", Condition: models.CondGreaterOrEqual, Scalar: "0.5"},
				}}},
			},
			want: []int{0},
		},
		{
			name: "global OR with an empty group returns every row",
			set: models.FilterGroupSet{
				GlobalLogic: models.LogicOr,
				Groups: []models.FilterGroup{
					{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
						{ID: 1, Column: "Div", Condition: models.CondIn, Values: []string{"I1"}},
					}},
					{ID: 2, Logic: models.LogicAnd},
				},
			},
			want: []int{0, 1},
		},
		{
			name: "empty value list behaves as an empty group",
			set: models.FilterGroupSet{
				GlobalLogic: models.LogicAnd,
				Groups: []models.FilterGroup{{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
					{ID: 1, Column: "Div", Condition: models.CondIn},
				}}},
			},
			want: []int{0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(ds, tt.set).RowIDs())
		})
	}
}
