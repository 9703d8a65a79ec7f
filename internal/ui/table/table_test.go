package table

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/render"
)

func buildTable(t *testing.T, set models.FilterGroupSet) *render.Table {
	t.Helper()
	ds, err := dataset.New("partite.csv",
		[]string{"Nome Mercato", "Occorrenze", "Frequenza %"},
		[][]dataset.Value{
			{dataset.Text("Over 2.5"), dataset.Number(1234), dataset.Number(0.4567)},
			{dataset.Text("Goal"), dataset.Number(12), dataset.Null()},
		})
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return render.Build(ds, filter.Apply(ds, set), nil)
}

func TestPrintPlainTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	tbl := buildTable(t, models.FilterGroupSet{GlobalLogic: models.LogicAnd})

	var buf bytes.Buffer
	if err := PrintPlainTable(&buf, tbl); err != nil {
		t.Fatalf("PrintPlainTable: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Nome Mercato", "1.234", "46%", "tutte le 2 righe"} {
		if !strings.Contains(out, want) {
			t.Errorf("plain output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[2], "Over 2.5      ") {
		t.Errorf("text column should be left aligned, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "        12") {
		t.Errorf("numeric column should be right aligned, got %q", lines[3])
	}
}

func TestPrintPlainTableEmptyResult(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	set := models.FilterGroupSet{
		GlobalLogic: models.LogicAnd,
		Groups: []models.FilterGroup{{
			ID: 1, Logic: models.LogicAnd,
			Filters: []models.Filter{{ID: 1, Column: "Occorrenze", Condition: models.CondGreater, Scalar: "5000"}},
		}},
	}
	tbl := buildTable(t, set)

	var buf bytes.Buffer
	if err := PrintPlainTable(&buf, tbl); err != nil {
		t.Fatalf("PrintPlainTable: %v", err)
	}
	if !strings.Contains(buf.String(), "Nessun risultato trovato") {
		t.Errorf("expected empty-result message:\n%s", buf.String())
	}
}

func TestPrintJSONResults(t *testing.T) {
	tbl := buildTable(t, models.FilterGroupSet{GlobalLogic: models.LogicAnd})

	var buf bytes.Buffer
	if err := PrintJSONResults(&buf, tbl); err != nil {
		t.Fatalf("PrintJSONResults: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Occorrenze"] != float64(1234) {
		t.Errorf("Occorrenze = %v, want raw 1234", rows[0]["Occorrenze"])
	}
	if rows[1]["Frequenza %"] != nil {
		t.Errorf("null cell should be null, got %v", rows[1]["Frequenza %"])
	}
	if !strings.Contains(buf.String(), `"Nome Mercato": "Over 2.5",`) {
		t.Errorf("keys should keep column order:\n%s", buf.String())
	}
}

func TestPrintRaw(t *testing.T) {
	tbl := buildTable(t, models.FilterGroupSet{GlobalLogic: models.LogicAnd})

	var buf bytes.Buffer
	if err := PrintRaw(&buf, tbl); err != nil {
		t.Fatalf("PrintRaw: %v", err)
	}
	want := "Nome Mercato\tOccorrenze\tFrequenza %\nOver 2.5\t1234\t0.4567\nGoal\t12\t\n"
	if buf.String() != want {
		t.Errorf("PrintRaw = %q, want %q", buf.String(), want)
	}
}

func TestDisplayResultsToBufferIsPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	tbl := buildTable(t, models.FilterGroupSet{GlobalLogic: models.LogicAnd})

	var buf bytes.Buffer
	if err := DisplayResults("partite", tbl, DisplayOptions{Out: &buf}); err != nil {
		t.Fatalf("DisplayResults: %v", err)
	}
	if !strings.Contains(buf.String(), "tutte le 2 righe") {
		t.Errorf("expected plain table output:\n%s", buf.String())
	}

	buf.Reset()
	if err := DisplayResults("partite", tbl, DisplayOptions{Out: &buf, Raw: true}); err != nil {
		t.Fatalf("DisplayResults raw: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Nome Mercato\tOccorrenze") {
		t.Errorf("expected raw output, got %q", buf.String())
	}
}
