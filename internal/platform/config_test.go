package platform

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
data_file: /srv/notes.csv
strict_decode: true
versioning: false
hide_completed: true
log_level: debug
watch_pattern: "*.csv"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/notes.csv", cfg.DataFile)
	require.NotNil(t, cfg.StrictDecode)
	assert.True(t, *cfg.StrictDecode)
	require.NotNil(t, cfg.Versioning)
	assert.False(t, *cfg.Versioning)
	assert.Nil(t, cfg.DevSafety)
	assert.True(t, cfg.HideCompleted)
	assert.Equal(t, "*.csv", cfg.WatchPattern)

	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(o)
	}
	assert.Equal(t, true, o.config["strict_decode"])
	assert.Equal(t, false, o.config["versioning"])
	assert.Equal(t, "*.csv", o.config["watch_pattern"])
	assert.NotContains(t, o.config, "dev_safety")
}

func TestLoadConfig_MissingAndEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)

	cfg, err = LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Options())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":   "colour: blue\n",
		"bad type":      "strict_decode: sometimes\n",
		"bad log level": "log_level: loud\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDataPathPrecedence(t *testing.T) {
	cfg := FileConfig{DataFile: "/from/config.csv"}

	t.Setenv(EnvDataFile, "")
	assert.Equal(t, "/from/config.csv", cfg.DataPath())

	t.Setenv(EnvDataFile, "/from/env.csv")
	assert.Equal(t, "/from/env.csv", cfg.DataPath())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
