package presets

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

func samplePreset(name string) models.Preset {
	return models.Preset{
		Name:        name,
		Description: "  over markets  ",
		GlobalLogic: models.LogicOr,
		Groups: []models.FilterGroup{{ID: 1, Logic: models.LogicAnd, Filters: []models.Filter{
			{ID: 1, Column: "Div", Condition: models.CondIn, Values: []string{"I1", "E0"}},
			{ID: 2, Column: "Quota Equa", Condition: models.CondGreater, Scalar: "1.5"},
		}}},
		Columns: []string{"Div", "Nome Mercato"},
	}
}

func TestManagerAddAndReload(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	added, err := m.Add(samplePreset("Over Italia"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID == "" {
		t.Error("expected a generated ID")
	}
	if added.Description != "over markets" {
		t.Errorf("Description = %q, want trimmed", added.Description)
	}

	info, err := os.Stat(m.Path())
	if err != nil {
		t.Fatalf("Failed to stat presets file: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Expected file permissions 0644, got %o", info.Mode().Perm())
	}

	reloaded, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager (reload) failed: %v", err)
	}
	got, err := reloaded.GetByName("over italia")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.GlobalLogic != models.LogicOr {
		t.Errorf("GlobalLogic = %s, want OR", got.GlobalLogic)
	}
	if len(got.Groups) != 1 || len(got.Groups[0].Filters) != 2 {
		t.Fatalf("unexpected groups after reload: %+v", got.Groups)
	}
	if f := got.Groups[0].Filters[0]; f.Condition != models.CondIn || strings.Join(f.Values, ",") != "I1,E0" {
		t.Errorf("unexpected first filter: %+v", f)
	}
}

func TestManagerNameValidation(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := m.Add(samplePreset("   ")); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := m.Add(samplePreset("Alpha")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := m.Add(samplePreset("ALPHA")); err == nil {
		t.Error("expected case-insensitive duplicate error")
	}

	beta, err := m.Add(samplePreset("Beta"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := m.Update(beta.ID, samplePreset("alpha")); err == nil {
		t.Error("expected duplicate error on update")
	}
	if err := m.Update(beta.ID, samplePreset("Beta 2")); err != nil {
		t.Errorf("Update failed: %v", err)
	}
}

func TestManagerListDeleteUsage(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	for _, n := range []string{"zeta", "Alpha", "mid"} {
		if _, err := m.Add(samplePreset(n)); err != nil {
			t.Fatalf("Add(%s) failed: %v", n, err)
		}
	}

	list := m.List()
	names := []string{list[0].Name, list[1].Name, list[2].Name}
	if strings.Join(names, ",") != "Alpha,mid,zeta" {
		t.Errorf("List() order = %v", names)
	}

	if got := m.Search("MI"); len(got) != 1 || got[0].Name != "mid" {
		t.Errorf("Search(MI) = %+v", got)
	}

	if err := m.MarkUsed(list[0].ID); err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}
	p, _ := m.Get(list[0].ID)
	if p.UsageCount != 1 || p.LastUsed.IsZero() {
		t.Errorf("usage not recorded: %+v", p)
	}

	if err := m.Delete(list[1].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Delete(list[1].ID); !errors.Is(err, util.ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
	if _, err := m.GetByName("nope"); !errors.Is(err, util.ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestHighlightYAML(t *testing.T) {
	data, err := Marshal(samplePreset("x"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out := HighlightYAML(string(data), "monokai")
	if !strings.Contains(out, "\x1b[") {
		t.Error("expected ANSI escapes in highlighted output")
	}
	if !strings.Contains(out, "global_logic") {
		t.Error("expected keys to survive highlighting")
	}
}
