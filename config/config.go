// Package config loads server and CLI settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreJSON     = "json"
	StorePostgres = "postgres"
)

// Config is the full settings tree
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Units  UnitsConfig  `yaml:"units"`
	Boards BoardsConfig `yaml:"boards"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP/websocket listener
type ServerConfig struct {
	Port        string `yaml:"port"`
	MetricsPath string `yaml:"metrics_path"`
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Type        string `yaml:"type"`
	File        string `yaml:"file"`
	DatabaseURL string `yaml:"database_url"`
}

// UnitsConfig points at the unit sources searched by the unit service
type UnitsConfig struct {
	CustomDir  string `yaml:"custom_dir"`
	ArchiveDir string `yaml:"archive_dir"`
	Workers    int    `yaml:"workers"`
}

// BoardsConfig points at the directory relative board names resolve against
type BoardsConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", MetricsPath: "/metrics"},
		Store: StoreConfig{
			Type:        StoreJSON,
			File:        "db.json",
			DatabaseURL: "host=localhost user=ultramek password=ultramek dbname=ultramek sslmode=disable",
		},
		Units:  UnitsConfig{CustomDir: "units/custom", ArchiveDir: "data/mechfiles", Workers: 4},
		Boards: BoardsConfig{Dir: "data/boards"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file on top of the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the process environment
func (c *Config) ApplyEnv() {
	overrides := []struct {
		name   string
		target *string
	}{
		{"PORT", &c.Server.Port},
		{"DB_TYPE", &c.Store.Type},
		{"DATABASE_URL", &c.Store.DatabaseURL},
		{"DB_FILE", &c.Store.File},
		{"ULTRAMEK_CUSTOM_DIR", &c.Units.CustomDir},
		{"ULTRAMEK_ARCHIVE_DIR", &c.Units.ArchiveDir},
		{"ULTRAMEK_BOARD_DIR", &c.Boards.Dir},
		{"LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if val := os.Getenv(o.name); val != "" {
			*o.target = val
		}
	}
}

// Validate checks the settings for consistency
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Type {
	case StoreJSON:
		if c.Store.File == "" {
			errs = append(errs, errors.New("store.file is required for the json store"))
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("store.database_url is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store type %q", c.Store.Type))
	}

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Units.Workers < 1 {
		errs = append(errs, fmt.Errorf("units.workers must be positive, got %d", c.Units.Workers))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel converts the configured level name
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}

// NewLogger builds the process logger from the log settings
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := l.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
