package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/timednotes/pkg/adapters/fs"
)

// AppDirName is the folder holding the data file inside the documents directory.
const AppDirName = "TimedNotesApp"

// ConfigFileName is the project-local config file looked up by FindConfig.
const ConfigFileName = ".timednotes.yaml"

// ErrConfigNotFound is returned by FindConfig when no config file exists.
var ErrConfigNotFound = errors.New("config file not found")

// DocumentsDir returns the user's documents folder: $XDG_DOCUMENTS_DIR,
// else ~/Documents when it exists, else the home directory.
func DocumentsDir() (string, error) {
	if dir := os.Getenv("XDG_DOCUMENTS_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	docs := filepath.Join(home, "Documents")
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		return docs, nil
	}
	return home, nil
}

// DefaultDataPath returns <documents>/TimedNotesApp/notes.csv.
func DefaultDataPath() (string, error) {
	docs, err := DocumentsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(docs, AppDirName, fs.DefaultFileName), nil
}

// FindConfig looks upwards from startDir for a .timednotes.yaml file and
// falls back to <user config dir>/timednotes/config.yaml.
// It returns ErrConfigNotFound when neither exists.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFileName) {
			return filepath.Join(dir, ConfigFileName), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		global := filepath.Join(cfgDir, "timednotes", "config.yaml")
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", ErrConfigNotFound
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
