package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
	"github.com/rebeliceyang/lazysheet/internal/models"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	names := []string{"Div", "Quota", "Nome Mercato", "A", "B", "C"}
	ds, err := dataset.New("fixture", names, [][]dataset.Value{
		{dataset.Text("I1"), dataset.Number(2), dataset.Text("Over"), dataset.Null(), dataset.Null(), dataset.Null()},
		{dataset.Text("E0"), dataset.Number(5), dataset.Text("Under"), dataset.Null(), dataset.Null(), dataset.Null()},
		{dataset.Text("I1"), dataset.Number(8), dataset.Text("Goal"), dataset.Null(), dataset.Null(), dataset.Null()},
	})
	require.NoError(t, err)
	return New(ds, 0)
}

func TestDefaults(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, models.LogicAnd, s.GlobalLogic())
	assert.Empty(t, s.FilterSet().Groups)
	assert.Equal(t, []string{"Div", "Quota", "Nome Mercato", "A", "B"}, s.SelectedColumns())
	assert.Equal(t, filter.StateUnfiltered, s.Evaluate().State())
	assert.Equal(t, "0 gruppi, 0 filtri · logica globale AND", s.Summary())
}

func TestGroupAndFilterLifecycle(t *testing.T) {
	s := newSession(t)

	g1 := s.AddGroup()
	g2 := s.AddGroup()
	assert.NotEqual(t, g1, g2)

	f1, err := s.AddFilter(g1)
	require.NoError(t, err)

	f, err := s.Filter(g1, f1)
	require.NoError(t, err)
	assert.Equal(t, "Div", f.Column, "new filters start on the first column")
	assert.Equal(t, models.CondIn, f.Condition, "textual first column gets the set default")

	require.NoError(t, s.SetFilterColumn(g1, f1, "Quota"))
	f, _ = s.Filter(g1, f1)
	assert.Equal(t, models.CondGreater, f.Condition)
	assert.Equal(t, "0", f.Scalar)

	require.NoError(t, s.SetFilterCondition(g1, f1, models.CondGreaterOrEqual))
	require.NoError(t, s.SetFilterScalar(g1, f1, "5"))
	assert.Equal(t, []int{1, 2}, s.Evaluate().RowIDs())

	err = s.SetFilterCondition(g1, f1, models.CondIn)
	assert.ErrorIs(t, err, ErrInvalidCondition)

	assert.ErrorIs(t, s.SetFilterColumn(g1, f1, "Nope"), ErrUnknownColumn)
	_, err = s.AddFilter(999)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.ErrorIs(t, s.RemoveFilter(g1, 999), ErrFilterNotFound)

	assert.Equal(t, "2 gruppi, 1 filtro · logica globale AND", s.Summary())

	require.NoError(t, s.RemoveGroup(g2))
	assert.ErrorIs(t, s.RemoveGroup(g2), ErrGroupNotFound)
	assert.Equal(t, "1 gruppo, 1 filtro · logica globale AND", s.Summary())
}

func TestIDsAreNeverReused(t *testing.T) {
	s := newSession(t)

	g1 := s.AddGroup()
	f1, _ := s.AddFilter(g1)
	require.NoError(t, s.RemoveFilter(g1, f1))
	require.NoError(t, s.RemoveGroup(g1))

	s.Reset()
	g2 := s.AddGroup()
	f2, _ := s.AddFilter(g2)

	assert.Greater(t, g2, g1)
	assert.Greater(t, f2, f1)
}

func TestGroupLogicAndGlobalLogic(t *testing.T) {
	s := newSession(t)

	g1 := s.AddGroup()
	fa, _ := s.AddFilter(g1)
	require.NoError(t, s.SetFilterValues(g1, fa, []string{"E0"}))
	fb, _ := s.AddFilter(g1)
	require.NoError(t, s.SetFilterColumn(g1, fb, "Nome Mercato"))
	require.NoError(t, s.ToggleFilterValue(g1, fb, "Goal"))

	assert.Equal(t, filter.StateEmpty, s.Evaluate().State())

	require.NoError(t, s.SetGroupLogic(g1, models.LogicOr))
	assert.Equal(t, []int{1, 2}, s.Evaluate().RowIDs())

	g2 := s.AddGroup()
	fc, _ := s.AddFilter(g2)
	require.NoError(t, s.SetFilterValues(g2, fc, []string{"I1", "I1"}))
	got, _ := s.Filter(g2, fc)
	assert.Equal(t, []string{"I1"}, got.Values)

	assert.Equal(t, []int{2}, s.Evaluate().RowIDs())
	s.SetGlobalLogic(models.LogicOr)
	assert.Equal(t, []int{0, 1, 2}, s.Evaluate().RowIDs())

	require.NoError(t, s.ToggleFilterValue(g1, fb, "Goal"))
	got, _ = s.Filter(g1, fb)
	assert.Empty(t, got.Values)
}

func TestResetRestoresDefaults(t *testing.T) {
	s := newSession(t)
	g := s.AddGroup()
	_, _ = s.AddFilter(g)
	s.SetGlobalLogic(models.LogicOr)
	require.NoError(t, s.SelectColumns([]string{"C"}))

	s.Reset()

	assert.Equal(t, models.LogicAnd, s.GlobalLogic())
	assert.Empty(t, s.FilterSet().Groups)
	assert.Equal(t, []string{"Div", "Quota", "Nome Mercato", "A", "B"}, s.SelectedColumns())
}

func TestColumnSelection(t *testing.T) {
	s := newSession(t)

	assert.ErrorIs(t, s.SelectColumns([]string{"Div", "Nope"}), ErrUnknownColumn)
	require.NoError(t, s.SelectColumns([]string{"Quota", "Quota"}))
	assert.Equal(t, []string{"Quota"}, s.SelectedColumns())

	require.NoError(t, s.ToggleColumn("Div"))
	assert.Equal(t, []string{"Quota", "Div"}, s.SelectedColumns())
	require.NoError(t, s.ToggleColumn("Quota"))
	assert.Equal(t, []string{"Div"}, s.SelectedColumns())
	assert.ErrorIs(t, s.ToggleColumn("Nope"), ErrUnknownColumn)
}

func TestToggleColumnKeepsCustomOrder(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SelectColumns([]string{"B", "Quota", "A"}))

	require.NoError(t, s.ToggleColumn("Nome Mercato"))
	assert.Equal(t, []string{"B", "Quota", "A", "Nome Mercato"}, s.SelectedColumns())

	require.NoError(t, s.ToggleColumn("Quota"))
	assert.Equal(t, []string{"B", "A", "Nome Mercato"}, s.SelectedColumns())

	require.NoError(t, s.ToggleColumn("Quota"))
	assert.Equal(t, []string{"B", "A", "Nome Mercato", "Quota"}, s.SelectedColumns())
}

func TestRender(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SelectColumns([]string{"Quota", "Nome Mercato"}))
	g := s.AddGroup()
	f, _ := s.AddFilter(g)
	require.NoError(t, s.SetFilterColumn(g, f, "Quota"))
	require.NoError(t, s.SetFilterScalar(g, f, "4"))

	tbl := s.Render()
	assert.Equal(t, []string{"Nome Mercato", "Quota"}, tbl.ColumnNames())
	assert.Len(t, tbl.Rows, 2)
	assert.Equal(t, "1 gruppo, 1 filtro · logica globale AND", tbl.Summary)
	assert.Equal(t, "Quota > 4", s.Describe())
}

func TestRenderResultUsesGivenResult(t *testing.T) {
	s := newSession(t)
	g := s.AddGroup()
	f, _ := s.AddFilter(g)
	require.NoError(t, s.SetFilterColumn(g, f, "Quota"))
	require.NoError(t, s.SetFilterScalar(g, f, "4"))

	res := s.Evaluate()
	tbl := s.RenderResult(res)
	assert.Len(t, tbl.Rows, res.Matched())
	assert.Equal(t, s.Render().Rows, tbl.Rows)
	assert.Equal(t, s.Summary(), tbl.Summary)
}

func TestSnapshotRestore(t *testing.T) {
	s := newSession(t)
	g := s.AddGroup()
	f, _ := s.AddFilter(g)
	require.NoError(t, s.SetFilterValues(g, f, []string{"I1"}))
	s.SetGlobalLogic(models.LogicOr)
	require.NoError(t, s.SelectColumns([]string{"Div", "Quota"}))

	p := s.Snapshot(" mine ", "")
	assert.Equal(t, "mine", p.Name)
	assert.Equal(t, "fixture", p.Source)

	other := newSession(t)
	_ = other.AddGroup()
	p.Columns = append(p.Columns, "Gone")
	other.Restore(p)

	assert.Equal(t, models.LogicOr, other.GlobalLogic())
	assert.Equal(t, []string{"Div", "Quota"}, other.SelectedColumns())
	set := other.FilterSet()
	require.Len(t, set.Groups, 1)
	assert.Equal(t, 2, set.Groups[0].ID, "restored ids continue from the counter")
	assert.Equal(t, []int{0, 2}, other.Evaluate().RowIDs())

	// snapshot is a copy
	p.Groups[0].Filters[0].Values[0] = "E0"
	assert.Equal(t, []int{0, 2}, other.Evaluate().RowIDs())
}

func TestRestoreNormalizesStaleConditions(t *testing.T) {
	s := newSession(t)
	s.Restore(models.Preset{
		GlobalLogic: "bogus",
		Groups: []models.FilterGroup{{Logic: models.LogicAnd, Filters: []models.Filter{
			{Column: "Div", Condition: models.CondGreater, Scalar: "3"},
		}}},
	})

	set := s.FilterSet()
	assert.Equal(t, models.LogicAnd, set.GlobalLogic)
	assert.Equal(t, models.CondIn, set.Groups[0].Filters[0].Condition)
	assert.Equal(t, []string{"Div", "Quota", "Nome Mercato", "A", "B"}, s.SelectedColumns())
	assert.Equal(t, filter.StateUnfiltered, s.Evaluate().State())
}
