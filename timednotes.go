package timednotes

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/timednotes/internal/platform"
	"github.com/aretw0/timednotes/pkg/core"
)

// --- Types ---

// Note is a public alias for the core note model.
type Note = core.Note

// Store is a public alias for the note store.
type Store = core.Store

// LoadResult is a public alias for the outcome of Store.Load.
type LoadResult = core.LoadResult

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// Config is the YAML configuration file model.
type Config = platform.FileConfig

// WithLogger sets the logger for the store and repository.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithClock replaces time.Now for note timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithStrictDecode makes one malformed record fail the whole load.
func WithStrictDecode(strict bool) Option {
	return platform.WithStrictDecode(strict)
}

// WithVersioning commits the data file after each save inside a git work tree.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatchPattern sets the base-name pattern the watcher reacts to.
func WithWatchPattern(pattern string) Option {
	return platform.WithWatchPattern(pattern)
}

// WithWatchDebounce sets how long the watcher waits for events to settle.
func WithWatchDebounce(d time.Duration) Option {
	return platform.WithWatchDebounce(d)
}

// WithErrorHandler receives watcher and versioning failures.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// LoadConfig reads a YAML configuration file. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// --- Factory ---

// New creates a Store without loading it.
func New(path string, opts ...Option) (*core.Store, error) {
	return platform.New(path, opts...)
}

// Open creates a Store and loads it. Load never fails; the result reports
// whether the file was read, absent, or unreadable.
func Open(ctx context.Context, path string, opts ...Option) (*core.Store, core.LoadResult, error) {
	store, err := platform.New(path, opts...)
	if err != nil {
		return nil, core.LoadResult{}, err
	}
	return store, store.Load(ctx), nil
}

// Init resolves the data file and returns its repository.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Safety & Utils ---

// DefaultDataPath returns <documents>/TimedNotesApp/notes.csv.
func DefaultDataPath() (string, error) {
	return platform.DefaultDataPath()
}

// ResolveDataPath determines the actual data file path based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindConfig looks upwards from startDir for a .timednotes.yaml file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}

// ParseLevel maps a config log level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	return platform.ParseLevel(name)
}
