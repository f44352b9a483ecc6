// Package config layers ftext settings from built-in defaults, a TOML or
// YAML file and FTEXT_* environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Giulio2002/ftext"
)

// EnvPrefix is the prefix of every environment variable read by LoadEnv.
const EnvPrefix = "FTEXT_"

// Config holds every setting the command line can also set.
type Config struct {
	// Width is the target line length; 0 means none.
	Width int `toml:"width" yaml:"width"`

	// Mode is one of the names accepted by ftext.ParseMode. Empty means
	// the mode is taken from flags alone.
	Mode string `toml:"mode" yaml:"mode"`

	// Progress enables the progress bar on a terminal.
	Progress bool `toml:"progress" yaml:"progress"`

	// Journal is the path of the operation journal. Empty disables it.
	Journal string `toml:"journal" yaml:"journal"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Capacity is the address space reserved for growth, in bytes. Zero
	// lets the mapping choose.
	Capacity int64 `toml:"capacity" yaml:"capacity"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Progress: true,
		LogLevel: "warn",
	}
}

// ParseError reports a config file that could not be decoded.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load returns the defaults overlaid with the file at path, if any, and
// then the environment. An empty path looks for DefaultPath and skips the
// file when it does not exist; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		err := cfg.LoadFile(path)
		if errors.Is(err, os.ErrNotExist) && !explicit {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}

	if err := cfg.LoadEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DefaultPath returns $XDG_CONFIG_HOME/ftext/config.toml, falling back to
// the user config directory. It returns "" when neither is known.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "ftext", "config.toml")
}

// LoadFile overlays the settings in path. The format follows the
// extension: .toml, or .yaml and .yml. Keys missing from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return &ParseError{Path: path, Message: fmt.Sprintf("unknown config format %q", ext)}
	}
	if err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// LoadEnv overlays FTEXT_WIDTH, FTEXT_MODE, FTEXT_PROGRESS, FTEXT_JOURNAL,
// FTEXT_LOG_LEVEL and FTEXT_CAPACITY as reported by lookup.
func (c *Config) LoadEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "WIDTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sWIDTH: %w", EnvPrefix, err)
		}
		c.Width = n
	}
	if v, ok := lookup(EnvPrefix + "MODE"); ok {
		c.Mode = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrefix + "PROGRESS"); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%sPROGRESS: %w", EnvPrefix, err)
		}
		c.Progress = b
	}
	if v, ok := lookup(EnvPrefix + "JOURNAL"); ok {
		c.Journal = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrefix + "CAPACITY"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sCAPACITY: %w", EnvPrefix, err)
		}
		c.Capacity = n
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// Validate checks ranges and names. Combinations of width and mode are
// checked by ftext.Config once flags have been applied.
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", c.Capacity)
	}
	if c.Mode != "" {
		if _, err := ftext.ParseMode(c.Mode); err != nil {
			return err
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns LogLevel as an slog level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return l, nil
}

// Flags returns the mode switches Mode stands for, with Width filled in.
// Flags given on the command line are combined with these by the caller.
func (c Config) Flags() ftext.Flags {
	fl := ftext.Flags{Width: c.Width}
	if c.Mode == "" {
		return fl
	}
	m, err := ftext.ParseMode(c.Mode)
	if err != nil {
		return fl
	}
	switch m {
	case ftext.ModeJustify:
		fl.Justify = true
	case ftext.ModeUnjustify:
		fl.Unjustify = true
	case ftext.ModeRightAlign:
		fl.Right = true
	case ftext.ModeCentreAlign:
		fl.Centre = true
	case ftext.ModeLeftAlign:
		fl.Left = true
	}
	return fl
}

// Options returns the ftext.Options for these settings.
func (c Config) Options(logger *slog.Logger, rec ftext.Recorder) *ftext.Options {
	return &ftext.Options{
		Capacity: c.Capacity,
		Recorder: rec,
		Logger:   logger,
	}
}
