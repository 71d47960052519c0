package fs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0755
	filePerms = 0644
)

// errChmod marks a write whose content landed but whose permissions could
// not be set.
var errChmod = errors.New("failed to set file permissions")

// chmod is replaced in tests.
var chmod = os.Chmod

// writeFileAtomic replaces filename with data via a temp file and rename,
// so readers see either the old or the new content, never a partial write.
// The parent directory is created if missing. perm applies to new files
// only; an existing file keeps its mode. A failure to set perm is reported
// wrapping errChmod after the content is already in place.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(filename), dirPerms); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	_, statErr := os.Stat(filename)
	created := errors.Is(statErr, os.ErrNotExist)

	if err := atomic.WriteFile(filename, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if !created {
		return nil
	}
	if err := chmod(filename, perm); err != nil {
		return fmt.Errorf("%w on %s: %w", errChmod, filename, err)
	}
	return nil
}
