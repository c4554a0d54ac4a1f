// Package config loads modscope.toml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// FileName is the configuration file looked up from the working directory upwards
const FileName = "modscope.toml"

// Output formats
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Color modes
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// Config is the merged tool configuration
type Config struct {
	Path string `toml:"-"` // file the values came from, empty for defaults

	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	View   ViewConfig   `toml:"view"`
	Parse  ParseConfig  `toml:"parse"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ViewConfig struct {
	ShowAll  bool `toml:"show_all"`
	PageStep int  `toml:"page_step"`
}

type ParseConfig struct {
	Jobs int `toml:"jobs"` // 0 = GOMAXPROCS
}

// Default returns the configuration used when no file is found
func Default() Config {
	return Config{
		Output: OutputConfig{Format: FormatText, Color: ColorAuto},
		Log:    LogConfig{Level: "warn"},
		View:   ViewConfig{PageStep: 16},
	}
}

// Find walks up from startDir looking for FileName
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path on top of the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("view", "page_step") && cfg.View.PageStep < 1 {
		return Config{}, fmt.Errorf("%s: [view].page_step must be positive, got %d", path, cfg.View.PageStep)
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the nearest FileName above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the enumerated settings
func (c Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatMsgpack:
	default:
		return fmt.Errorf("unsupported output format %q (must be text, json or msgpack)", c.Output.Format)
	}
	switch c.Output.Color {
	case ColorAuto, ColorOn, ColorOff:
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", c.Output.Color)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Parse.Jobs < 0 {
		return fmt.Errorf("[parse].jobs must not be negative, got %d", c.Parse.Jobs)
	}
	return nil
}

// Jobs returns the number of files to parse concurrently
func (c Config) Jobs() int {
	if c.Parse.Jobs > 0 {
		return c.Parse.Jobs
	}
	return runtime.GOMAXPROCS(0)
}
