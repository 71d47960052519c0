package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the directory under the system temp dir that sandboxes
// development runs.
const DevDirName = "timednotes-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveDataPath determines the actual data file path based on safety rules.
// When forceTemp is set, a path outside the system temp directory is
// re-rooted into a namespaced sandbox so development runs never touch the
// user's real notes. The file name is kept.
func ResolveDataPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()

	// Paths already under the temp dir (t.TempDir(), explicit intent) are trusted.
	rel, err := filepath.Rel(tempRoot, clean)
	if err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(clean) {
		return clean
	}

	name := filepath.Base(clean)
	if name == "." || name == string(os.PathSeparator) || name == "" {
		name = "notes.csv"
	}

	dir := filepath.Base(filepath.Dir(clean))
	if dir == "." || dir == string(os.PathSeparator) || dir == "" {
		dir = "default"
	}

	return filepath.Join(tempRoot, DevDirName, dir, name)
}
