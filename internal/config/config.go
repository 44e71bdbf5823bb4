package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Editor   EditorConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string
	Migrations string
}

// EditorConfig holds the defaults every filter editor is built with.
type EditorConfig struct {
	EntitiesLimit    int    `mapstructure:"entities_limit"`
	FunnelLimit      int    `mapstructure:"funnel_limit"`
	Sortable         bool   `mapstructure:"sortable"`
	ReadOnly         bool   `mapstructure:"read_only"`
	MathAvailability string `mapstructure:"math_availability"`
	SeriesIndicator  string `mapstructure:"series_indicator"`
	ShowOr           bool   `mapstructure:"show_or"`
	DragDistance     int    `mapstructure:"drag_distance"`
	ButtonCopy       string `mapstructure:"button_copy"`
}

// LogConfig holds logging settings. An empty File discards logs so the
// TUI keeps the terminal.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from file and env. Env var overrides use prefix ACTIONFILTER_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("ACTIONFILTER_CONFIG"))
}

// LoadFile reads configuration from path, or from the default location
// when path is empty.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "actionfilter"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ACTIONFILTER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "actionfilter", "actionfilter.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("editor.entities_limit", 0)
	v.SetDefault("editor.funnel_limit", 20)
	v.SetDefault("editor.sortable", true)
	v.SetDefault("editor.read_only", false)
	v.SetDefault("editor.math_availability", "all")
	v.SetDefault("editor.series_indicator", "alpha")
	v.SetDefault("editor.show_or", false)
	// terminal rows, not pixels
	v.SetDefault("editor.drag_distance", 1)
	v.SetDefault("editor.button_copy", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Path is where Load and Save look: ACTIONFILTER_CONFIG, else
// ~/.config/actionfilter/config.toml.
func Path() string {
	if path := os.Getenv("ACTIONFILTER_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "actionfilter", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg to path as toml.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("editor.entities_limit", cfg.Editor.EntitiesLimit)
	v.Set("editor.funnel_limit", cfg.Editor.FunnelLimit)
	v.Set("editor.sortable", cfg.Editor.Sortable)
	v.Set("editor.read_only", cfg.Editor.ReadOnly)
	v.Set("editor.math_availability", cfg.Editor.MathAvailability)
	v.Set("editor.series_indicator", cfg.Editor.SeriesIndicator)
	v.Set("editor.show_or", cfg.Editor.ShowOr)
	v.Set("editor.drag_distance", cfg.Editor.DragDistance)
	v.Set("editor.button_copy", cfg.Editor.ButtonCopy)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
