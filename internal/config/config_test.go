package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()

	if cfg.Data.File != "data.xlsx" {
		t.Errorf("Data.File = %q, want data.xlsx", cfg.Data.File)
	}
	if cfg.Data.DefaultColumns != 5 {
		t.Errorf("Data.DefaultColumns = %d, want 5", cfg.Data.DefaultColumns)
	}
	if cfg.Export.Filename != "risultati_filtrati.csv" {
		t.Errorf("Export.Filename = %q", cfg.Export.Filename)
	}
	if cfg.ExportPath() != "risultati_filtrati.csv" {
		t.Errorf("ExportPath() = %q", cfg.ExportPath())
	}
	if !cfg.History.Enabled {
		t.Error("history should be enabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data:
  file: stats.csv
  default_columns: 3
  postgres:
    table: mercati
ui:
  theme: catppuccin
history:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Data.File != "stats.csv" || cfg.Data.DefaultColumns != 3 {
		t.Errorf("unexpected data config: %+v", cfg.Data)
	}
	if cfg.UI.Theme != "catppuccin" {
		t.Errorf("UI.Theme = %q", cfg.UI.Theme)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled")
	}
	if cfg.Data.Postgres.Table != "mercati" || cfg.Data.Postgres.Port != 5432 {
		t.Errorf("postgres defaults not merged: %+v", cfg.Data.Postgres)
	}
	if cfg.Export.Filename != "risultati_filtrati.csv" {
		t.Errorf("defaults should fill unset keys, got %q", cfg.Export.Filename)
	}

	src := cfg.Source()
	if src.Path != "stats.csv" || src.ResolveKind() != "csv" {
		t.Errorf("Source() = %+v", src)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data:\n  file: a.xlsx\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("LAZYSHEET_DATA_FILE", "b.xlsx")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Data.File != "b.xlsx" {
		t.Errorf("Data.File = %q, want env override b.xlsx", cfg.Data.File)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
