package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/ui/theme"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

func TestColumnPicker_SearchAndToggle(t *testing.T) {
	ds := testDataset(t)
	cp := NewColumnPicker(theme.DefaultTheme())
	cp.SetColumns(ds.Columns(), []string{"Div", "Quota Equa"})

	if got := len(cp.Visible()); got != 5 {
		t.Fatalf("expected 5 columns, got %d", got)
	}

	cp.Update(keyMsg("n:"))
	if got := len(cp.Visible()); got != 3 {
		t.Errorf("n: should list the 3 numeric columns, got %d", got)
	}

	cp.Update(keyMsg("rit"))
	if cp.Cursor() != "Ritardo Attuale" {
		t.Fatalf("cursor = %q, want Ritardo Attuale", cp.Cursor())
	}

	_, cmd := cp.Update(keyMsg("enter"))
	msg, ok := run(cmd).(ToggleColumnMsg)
	if !ok || msg.Column != "Ritardo Attuale" {
		t.Errorf("expected ToggleColumnMsg for Ritardo Attuale, got %#v", msg)
	}
}

func TestColumnPicker_SelectedScope(t *testing.T) {
	ds := testDataset(t)
	cp := NewColumnPicker(theme.DefaultTheme())
	cp.SetColumns(ds.Columns(), []string{"Div", "Quota Equa"})

	cp.Update(keyMsg("tab"))
	if got := len(cp.Visible()); got != 2 {
		t.Errorf("selected scope should list 2 columns, got %d", got)
	}

	_, cmd := cp.Update(keyMsg("esc"))
	if _, ok := run(cmd).(CloseColumnPickerMsg); !ok {
		t.Error("esc should close the picker")
	}
}

func TestColumnPicker_View(t *testing.T) {
	ds := testDataset(t)
	cp := NewColumnPicker(theme.DefaultTheme())
	cp.Width = 70
	cp.Height = 20
	cp.SetColumns(ds.Columns(), []string{"Div"})

	out := cp.View()
	for _, want := range []string{"[x] Div", "[ ] Quota Equa", "fissa"} {
		if !strings.Contains(out, want) {
			t.Errorf("picker view missing %q:\n%s", want, out)
		}
	}
}

func testPresets() []models.Preset {
	return []models.Preset{
		{ID: "a", Name: "Favoriti", GlobalLogic: models.LogicAnd, Groups: []models.FilterGroup{{ID: 1, Logic: models.LogicAnd}}},
		{ID: "b", Name: "Ritardi alti", Description: "ritardo oltre 5", GlobalLogic: models.LogicOr},
	}
}

func TestPresetsDialog_ApplyAndDelete(t *testing.T) {
	pd := NewPresetsDialog(theme.DefaultTheme())
	pd.SetPresets(testPresets())

	pd.Update(keyMsg("j"))
	_, cmd := pd.Update(keyMsg("enter"))
	msg, ok := run(cmd).(ApplyPresetMsg)
	if !ok || msg.Preset.ID != "b" {
		t.Fatalf("expected ApplyPresetMsg for b, got %#v", msg)
	}

	_, cmd = pd.Update(keyMsg("d"))
	del, ok := run(cmd).(DeletePresetMsg)
	if !ok || del.ID != "b" {
		t.Errorf("expected DeletePresetMsg for b, got %#v", del)
	}

	_, cmd = pd.Update(keyMsg("esc"))
	if _, ok := run(cmd).(ClosePresetsDialogMsg); !ok {
		t.Error("esc should close the dialog")
	}
}

func TestPresetsDialog_Save(t *testing.T) {
	pd := NewPresetsDialog(theme.DefaultTheme())
	pd.StartSave()

	if pd.Mode() != PresetsModeSave {
		t.Fatal("expected save mode")
	}

	// empty name keeps the form open
	pd.Update(keyMsg("enter"))
	_, cmd := pd.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("saving without a name should not emit a message")
	}

	pd.Update(keyMsg("Over forti"))
	pd.Update(keyMsg("tab"))
	pd.Update(keyMsg("solo E0"))
	_, cmd = pd.Update(keyMsg("enter"))

	msg, ok := run(cmd).(SavePresetMsg)
	if !ok {
		t.Fatalf("expected SavePresetMsg, got %#v", msg)
	}
	if msg.Name != "Over forti" || msg.Description != "solo E0" || msg.ID != "" {
		t.Errorf("unexpected save message %+v", msg)
	}
	if pd.Mode() != PresetsModeList {
		t.Error("dialog should return to the list after saving")
	}
}

func TestPresetsDialog_Overwrite(t *testing.T) {
	pd := NewPresetsDialog(theme.DefaultTheme())
	pd.SetPresets(testPresets())

	pd.Update(keyMsg("u"))
	pd.Update(keyMsg("enter"))
	_, cmd := pd.Update(keyMsg("enter"))

	msg, ok := run(cmd).(SavePresetMsg)
	if !ok || msg.ID != "a" || msg.Name != "Favoriti" {
		t.Errorf("expected overwrite of a, got %#v", msg)
	}
}

func TestPresetsDialog_ListView(t *testing.T) {
	pd := NewPresetsDialog(theme.DefaultTheme())
	if !strings.Contains(pd.View(), "Nessun preset") {
		t.Error("empty list should show a hint")
	}

	pd.SetPresets(testPresets())
	out := pd.View()
	for _, want := range []string{"Favoriti", "1 gruppo, 0 filtri", "ritardo oltre 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("list view missing %q:\n%s", want, out)
		}
	}
}

func TestErrorOverlay(t *testing.T) {
	eo := &ErrorOverlay{Width: 100, Height: 30, Theme: theme.DefaultTheme()}
	if eo.View() != "" {
		t.Error("no error should render nothing")
	}

	eo.Err = util.NewError("Cannot load dataset").WithSuggestions("lazysheet --file dati.xlsx").Wrap(errors.New("no such file"))
	out := eo.View()
	for _, want := range []string{"Impossibile caricare i dati", "Cannot load dataset", "lazysheet --file dati.xlsx"} {
		if !strings.Contains(out, want) {
			t.Errorf("overlay missing %q:\n%s", want, out)
		}
	}
}
