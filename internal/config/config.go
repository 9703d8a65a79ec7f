package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
)

const appName = "lazysheet"

// Config holds all application configuration
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	UI      UIConfig      `mapstructure:"ui"`
	Export  ExportConfig  `mapstructure:"export"`
	History HistoryConfig `mapstructure:"history"`
	Presets PresetsConfig `mapstructure:"presets"`
	Log     LogConfig     `mapstructure:"log"`
}

type DataConfig struct {
	Kind           string                 `mapstructure:"kind"`
	File           string                 `mapstructure:"file"`
	Sheet          string                 `mapstructure:"sheet"`
	DefaultColumns int                    `mapstructure:"default_columns"`
	Postgres       dataset.PostgresConfig `mapstructure:"postgres"`
}

type UIConfig struct {
	Theme          string `mapstructure:"theme"`
	MouseEnabled   bool   `mapstructure:"mouse_enabled"`
	LeftPanelWidth int    `mapstructure:"left_panel_width"`
	SyntaxStyle    string `mapstructure:"syntax_style"`
}

type ExportConfig struct {
	Filename string `mapstructure:"filename"`
	Format   string `mapstructure:"format"`
	Dir      string `mapstructure:"dir"`
}

type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

type PresetsConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Source converts the data section into a dataset source
func (c *Config) Source() dataset.Source {
	return dataset.Source{
		Kind:     c.Data.Kind,
		Path:     c.Data.File,
		Sheet:    c.Data.Sheet,
		Postgres: c.Data.Postgres,
	}
}

// ExportPath returns where exports are written
func (c *Config) ExportPath() string {
	return filepath.Join(c.Export.Dir, c.Export.Filename)
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	configDir, _ := GetConfigPath()
	cacheDir := cachePath()

	return &Config{
		Data: DataConfig{
			File:           "data.xlsx",
			DefaultColumns: 5,
			Postgres: dataset.PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "prefer",
				Schema:  "public",
			},
		},
		UI: UIConfig{
			Theme:          "default",
			MouseEnabled:   true,
			LeftPanelWidth: 42,
			SyntaxStyle:    "monokai",
		},
		Export: ExportConfig{
			Filename: "risultati_filtrati.csv",
			Format:   "csv",
			Dir:      ".",
		},
		History: HistoryConfig{
			Enabled:    true,
			Path:       filepath.Join(configDir, "history.db"),
			MaxEntries: 50,
		},
		Presets: PresetsConfig{
			Dir: configDir,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(cacheDir, "lazysheet.log"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()

	v.SetDefault("data.kind", d.Data.Kind)
	v.SetDefault("data.file", d.Data.File)
	v.SetDefault("data.sheet", d.Data.Sheet)
	v.SetDefault("data.default_columns", d.Data.DefaultColumns)
	v.SetDefault("data.postgres.host", d.Data.Postgres.Host)
	v.SetDefault("data.postgres.port", d.Data.Postgres.Port)
	v.SetDefault("data.postgres.database", d.Data.Postgres.Database)
	v.SetDefault("data.postgres.user", d.Data.Postgres.User)
	v.SetDefault("data.postgres.password", d.Data.Postgres.Password)
	v.SetDefault("data.postgres.ssl_mode", d.Data.Postgres.SSLMode)
	v.SetDefault("data.postgres.schema", d.Data.Postgres.Schema)
	v.SetDefault("data.postgres.table", d.Data.Postgres.Table)
	v.SetDefault("data.postgres.query", d.Data.Postgres.Query)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.left_panel_width", d.UI.LeftPanelWidth)
	v.SetDefault("ui.syntax_style", d.UI.SyntaxStyle)
	v.SetDefault("export.filename", d.Export.Filename)
	v.SetDefault("export.format", d.Export.Format)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("presets.dir", d.Presets.Dir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Load reads configuration. An explicit path must exist; otherwise
// config.yaml is searched in the user config directory, the current
// directory and ./config, and a missing file leaves the defaults.
// Environment variables prefixed with LAZYSHEET_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("LAZYSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func cachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(os.TempDir(), appName)
}
