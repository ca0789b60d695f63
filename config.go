package gindex

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config sizes a World and sets its log level.
type Config struct {
	// InitialCapacity is the number of entity slots preallocated by the allocator.
	InitialCapacity int `yaml:"initial_capacity" toml:"initial_capacity"`
	// ComponentCapacity is the number of slots preallocated by each component
	// store created through Register.
	ComponentCapacity int `yaml:"component_capacity" toml:"component_capacity"`
	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// LogFormat is "json" or "console".
	LogFormat string `yaml:"log_format" toml:"log_format"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		InitialCapacity:   1024,
		ComponentCapacity: DefaultIndexArrayCapacity,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file on top of
// DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, eris.Wrapf(ErrInvalidConfig, "unsupported config extension %q", ext)
	}
	if err != nil {
		return Config{}, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the capacities and the log settings.
func (c Config) Validate() error {
	if c.InitialCapacity < 0 {
		return eris.Wrapf(ErrInvalidConfig, "initial_capacity must not be negative, got %d", c.InitialCapacity)
	}
	if c.ComponentCapacity < 0 {
		return eris.Wrapf(ErrInvalidConfig, "component_capacity must not be negative, got %d", c.ComponentCapacity)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return eris.Wrapf(ErrInvalidConfig, "log_format must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, eris.Wrapf(ErrInvalidConfig, "bad log_level %q", c.LogLevel)
	}
	return level, nil
}

// NewLogger builds a logger writing to stderr with the configured level and
// format.
func (c Config) NewLogger() zerolog.Logger {
	level, err := c.Level()
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if c.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
