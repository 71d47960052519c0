package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/timednotes/pkg/core"
)

// options holds the internal configuration for the note store.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	clock      func() time.Time
	config     map[string]interface{}
}

// Option defines a functional option for configuring the store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		config: make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the store and repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithClock replaces time.Now for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithStrictDecode makes a single malformed record fail the whole load
// (which then falls back to sample notes). By default malformed records are
// skipped and counted.
func WithStrictDecode(strict bool) Option {
	return func(o *options) {
		o.config["strict_decode"] = strict
	}
}

// WithVersioning commits the data file after each save when its directory
// is a git work tree.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioning"] = enabled
	}
}

// WithForceTemp forces the data file into a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the data file is re-rooted into a temporary directory so
// development runs never touch the real notes.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatchPattern sets the doublestar pattern, matched against base names
// in the data directory, that the watcher reacts to.
func WithWatchPattern(pattern string) Option {
	return func(o *options) {
		o.config["watch_pattern"] = pattern
	}
}

// WithWatchDebounce sets how long the watcher waits for a burst of
// filesystem events to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) {
		o.config["watch_debounce"] = d
	}
}

// WithErrorHandler registers a callback for errors that happen outside a
// caller's request, such as watcher or versioning failures.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["error_handler"] = fn
	}
}
