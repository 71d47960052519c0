package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/timednotes/pkg/codec"
	"github.com/aretw0/timednotes/pkg/core"
	"github.com/aretw0/timednotes/pkg/git"
)

// DefaultFileName is the name of the data file inside the application directory.
const DefaultFileName = "notes.csv"

// Repository implements core.Repository with a single CSV file.
type Repository struct {
	Path   string
	git    *git.Client
	config Config

	mu            sync.RWMutex
	digest        [sha256.Size]byte
	hasDigest     bool
	watcherActive bool
	lastLoad      *time.Time
	lastSave      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string       // Data file, e.g. ~/Documents/TimedNotesApp/notes.csv
	Policy       codec.Policy // How malformed records are handled on load
	Versioning   bool         // Commit the data file after each save if its directory is a git work tree
	WatchPattern string       // doublestar pattern matched against base names; defaults to the data file name
	Debounce     time.Duration
	Logger       *slog.Logger
	ErrorHandler func(error) // Receives watcher and versioning failures
}

// NewRepository creates a new file-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.WatchPattern == "" {
		config.WatchPattern = filepath.Base(config.Path)
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}

	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(filepath.Dir(config.Path), config.Logger),
		config: config,
	}
}

// Location implements core.Repository.
func (r *Repository) Location() string {
	return r.Path
}

// Load reads and decodes the data file.
// A missing file is reported with an error wrapping os.ErrNotExist.
func (r *Repository) Load(ctx context.Context) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: failed to read %s: %w", core.ErrStorageUnavailable, r.Path, err)
	}

	res, err := codec.Decode(bytes.NewReader(data), r.config.Policy)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("failed to decode %s: %w", r.Path, err)
	}

	for _, de := range res.Errors {
		r.config.Logger.Debug("skipping record", "path", r.Path, "error", de)
	}

	r.remember(data)
	now := time.Now()
	r.mu.Lock()
	r.lastLoad = &now
	r.mu.Unlock()

	return core.Snapshot{Notes: res.Notes, Skipped: res.Skipped}, nil
}

// Save rewrites the data file with notes, then commits it when versioning
// is enabled. A versioning failure is reported to the error handler and
// does not fail the save, since the file itself was written.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	if err := writeFileAtomic(r.Path, data, filePerms); err != nil {
		if !errors.Is(err, errChmod) {
			return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
		}
		r.config.Logger.Warn("notes saved with default permissions", "path", r.Path, "error", err)
	}

	r.remember(data)
	now := time.Now()
	r.mu.Lock()
	r.lastSave = &now
	r.mu.Unlock()

	if r.config.Versioning {
		if err := r.commit(len(notes)); err != nil {
			r.reportError(fmt.Errorf("versioning: %w", err))
		}
	}

	return nil
}

// Export writes notes to dst with the same encoding as Save.
func (r *Repository) Export(ctx context.Context, dst string, notes []core.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if samePath(dst, r.Path) {
		return fmt.Errorf("export destination is the data file itself: %s", dst)
	}

	data, err := encode(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	if err := writeFileAtomic(dst, data, filePerms); err != nil {
		if !errors.Is(err, errChmod) {
			return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
		}
		r.config.Logger.Warn("export written with default permissions", "path", dst, "error", err)
	}
	return nil
}

func encode(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, notes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (r *Repository) commit(count int) error {
	if !git.IsInstalled() || !r.git.IsRepo() {
		r.config.Logger.Debug("versioning skipped, not a git work tree", "dir", r.git.WorkDir)
		return nil
	}

	unlock, err := r.git.Lock(5 * time.Second)
	if err != nil {
		return err
	}
	defer unlock()

	if err := r.git.Add(filepath.Base(r.Path)); err != nil {
		return err
	}
	return r.git.Commit(git.FormatMessage(git.CommitTypeChore, "notes", fmt.Sprintf("save %d notes", count), ""))
}

// Uncommitted reports whether the data file has changes git has not
// recorded. It is false when versioning is off or the directory is not a
// git work tree.
func (r *Repository) Uncommitted() (bool, error) {
	if !r.config.Versioning || !git.IsInstalled() || !r.git.IsRepo() {
		return false, nil
	}

	status, err := r.git.Status(filepath.Base(r.Path))
	if err != nil {
		return false, fmt.Errorf("versioning status: %w", err)
	}
	return status != "", nil
}

// remember records the digest of the content last read or written, so the
// watcher can ignore events caused by this process.
func (r *Repository) remember(data []byte) {
	sum := sha256.Sum256(data)
	r.mu.Lock()
	r.digest = sum
	r.hasDigest = true
	r.mu.Unlock()
}

// changedOnDisk reports whether the file differs from what this repository
// last read or wrote. A missing file counts as changed once.
func (r *Repository) changedOnDisk() (changed bool, removed bool, err error) {
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, os.ErrNotExist) {
		r.mu.Lock()
		defer r.mu.Unlock()
		had := r.hasDigest
		r.hasDigest = false
		return had, true, nil
	}
	if err != nil {
		return false, false, err
	}

	sum := sha256.Sum256(data)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.hasDigest || sum != r.digest, false, nil
}

func (r *Repository) reportError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Warn("repository error", "error", err)
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
