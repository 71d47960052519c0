package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvDataFile overrides the data file location.
const EnvDataFile = "TIMEDNOTES_FILE"

// FileConfig is the YAML configuration file.
// Pointer fields distinguish "unset" from the zero value.
type FileConfig struct {
	DataFile      string `yaml:"data_file"`
	StrictDecode  *bool  `yaml:"strict_decode"`
	Versioning    *bool  `yaml:"versioning"`
	HideCompleted bool   `yaml:"hide_completed"`
	LogLevel      string `yaml:"log_level"`
	WatchPattern  string `yaml:"watch_pattern"`
	DevSafety     *bool  `yaml:"dev_safety"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
// A missing file yields an empty config and no error.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return FileConfig{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// DataPath applies the environment override on top of the configured path.
// An empty result means the default location.
func (c FileConfig) DataPath() string {
	if env := os.Getenv(EnvDataFile); env != "" {
		return env
	}
	return c.DataFile
}

// Options translates the config into store options.
func (c FileConfig) Options() []Option {
	var opts []Option
	if c.StrictDecode != nil {
		opts = append(opts, WithStrictDecode(*c.StrictDecode))
	}
	if c.Versioning != nil {
		opts = append(opts, WithVersioning(*c.Versioning))
	}
	if c.WatchPattern != "" {
		opts = append(opts, WithWatchPattern(c.WatchPattern))
	}
	if c.DevSafety != nil {
		opts = append(opts, WithDevSafety(*c.DevSafety))
	}
	return opts
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
