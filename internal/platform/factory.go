package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/timednotes/pkg/adapters/fs"
	"github.com/aretw0/timednotes/pkg/codec"
	"github.com/aretw0/timednotes/pkg/core"
)

// New builds a Store over the data file at path. An empty path selects the
// default location (see DefaultDataPath). The store is not loaded; callers
// invoke Load to read the file or fall back to sample notes.
//
// store, err := timednotes.New("", timednotes.WithStrictDecode(true))
func New(path string, opts ...Option) (*core.Store, error) {
	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var storeOpts []core.StoreOption
	if o.logger != nil {
		storeOpts = append(storeOpts, core.WithStoreLogger(o.logger))
	}
	if o.clock != nil {
		storeOpts = append(storeOpts, core.WithClock(o.clock))
	}

	return core.NewStore(repo, storeOpts...), nil
}

// Init resolves the data file location and returns the repository for it.
// An injected repository (WithRepository) is returned untouched.
func Init(path string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	return initFS(path, o)
}

// initFS handles path resolution and configuration for the file adapter.
func initFS(path string, o *options) (core.Repository, error) {
	tempDir, _ := o.config["temp_dir"].(bool)
	strict, _ := o.config["strict_decode"].(bool)
	versioning, _ := o.config["versioning"].(bool)
	pattern, _ := o.config["watch_pattern"].(string)
	errorHandler, _ := o.config["error_handler"].(func(error))

	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	if path == "" {
		def, err := DefaultDataPath()
		if err != nil {
			return nil, err
		}
		path = def
	}

	useTemp := tempDir || (IsDevRun() && devSafety)
	resolved := ResolveDataPath(path, useTemp)

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if IsDevRun() {
		if devSafety {
			logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if useTemp && resolved != path {
		logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}

	policy := codec.Lenient
	if strict {
		policy = codec.Strict
	}

	cfg := fs.Config{
		Path:         resolved,
		Policy:       policy,
		Versioning:   versioning,
		WatchPattern: pattern,
		Logger:       logger,
		ErrorHandler: errorHandler,
	}
	if d, ok := o.config["watch_debounce"]; ok {
		cfg.Debounce, _ = d.(time.Duration)
	}

	return fs.NewRepository(cfg), nil
}
