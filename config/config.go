// Package config loads cflow settings from a TOML file.
package config

import (
	"cflow/canvas"
	"cflow/diagram"
	"cflow/render"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable setting.
type Config struct {
	Geometry diagram.Geometry `toml:"geometry"`
	Theme    render.Theme     `toml:"theme"`
	Terminal canvas.Scale     `toml:"terminal"`
	Render   RenderConfig     `toml:"render"`
	Server   ServerConfig     `toml:"server"`
	Store    StoreConfig      `toml:"store"`
	Log      LogConfig        `toml:"log"`
}

// RenderConfig controls character output shared by the terminal editor
// and the ASCII exporter.
type RenderConfig struct {
	BoxStyle string `toml:"box_style"` // "rounded" or "ascii"
}

// Box returns the configured card box style.
func (r RenderConfig) Box() (canvas.BoxStyle, error) {
	return canvas.ParseBoxStyle(r.BoxStyle)
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects where the served graph is persisted.
type StoreConfig struct {
	Driver string `toml:"driver"` // "none", "file" or "postgres"
	Path   string `toml:"path"`   // file driver
	DSN    string `toml:"dsn"`    // postgres driver
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// Store drivers
const (
	DriverNone     = "none"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Geometry: diagram.DefaultGeometry(),
		Theme:    render.DefaultTheme(),
		Terminal: canvas.DefaultScale(),
		Render:   RenderConfig{BoxStyle: "rounded"},
		Server:   ServerConfig{Addr: ":3000"},
		Store:    StoreConfig{Driver: DriverNone},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Dir returns the cflow config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cflow")
}

// DefaultPath returns the config file used when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, and a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the rest of the program cannot work with.
func (c *Config) Validate() error {
	g := c.Geometry
	if g.CardWidth <= 0 || g.CardHeight <= 0 {
		return fmt.Errorf("geometry: card size must be positive, got %dx%d", g.CardWidth, g.CardHeight)
	}
	if g.StubLength < 0 || g.DropGap < 0 || g.BranchInset < 0 || g.ButtonRadius < 0 {
		return errors.New("geometry: offsets must not be negative")
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("terminal: cell size must be positive, got %dx%d", c.Terminal.CellWidth, c.Terminal.CellHeight)
	}
	if _, err := c.Render.Box(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	switch c.Store.Driver {
	case DriverNone, "":
	case DriverFile:
		if c.Store.Path == "" {
			return errors.New("store: file driver needs a path")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("store: postgres driver needs a dsn")
		}
	default:
		return fmt.Errorf("store: unknown driver %q", c.Store.Driver)
	}
	return nil
}

// Save writes the config to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
